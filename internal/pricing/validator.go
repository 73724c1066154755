package pricing

import (
	"fmt"
	"strings"

	"github.com/nikolayk812/lunchorder/internal/domain"
)

// Validate checks a selection against the option schema of one product.
//
// Group ids missing from the selection mean "nothing selected" and are always valid;
// there is no required-group enforcement. Duplicate labels in a Multi selection are allowed.
func Validate(schema domain.OptionSchema, selected domain.SelectedOptions) error {
	if schema.IsEmpty() || len(selected) == 0 {
		return nil
	}

	for _, groupID := range selected.GroupIDs() {
		if _, ok := schema.Group(groupID); !ok {
			return fmt.Errorf("group[%s]: %w", groupID, ErrUnknownOptionGroup)
		}
	}

	for _, group := range schema.Groups {
		selection, ok := selected[group.ID]
		if !ok || selection == nil {
			continue
		}

		if err := validateGroup(group, selection); err != nil {
			return fmt.Errorf("group[%s]: %w", group.ID, err)
		}
	}

	return nil
}

func validateGroup(group domain.OptionGroup, selection domain.Selection) error {
	switch group.Type {
	case domain.GroupTypeSingle:
		label, ok := selection.(domain.Single)
		if !ok {
			return fmt.Errorf("single-select option must be a string: %w", ErrInvalidOptionValue)
		}
		return ensureValueExists(group, string(label))

	case domain.GroupTypeMulti:
		labels, ok := selection.(domain.Multi)
		if !ok {
			return fmt.Errorf("multi-select option must be an array: %w", ErrInvalidOptionValue)
		}
		for _, label := range labels {
			if err := ensureValueExists(group, label); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("type[%s]: %w", group.Type, ErrUnsupportedGroupType)
	}
}

func ensureValueExists(group domain.OptionGroup, label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("label is empty: %w", ErrInvalidOptionValue)
	}

	if _, ok := group.FindValue(label); !ok {
		return fmt.Errorf("label[%s]: %w", label, ErrInvalidOptionValue)
	}

	return nil
}
