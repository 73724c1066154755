package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidSchema = errors.New("invalid options schema")

type GroupType string

// remember to add new group types to the validGroupTypes map
const (
	GroupTypeSingle GroupType = "single"
	GroupTypeMulti  GroupType = "multi"
)

var validGroupTypes = map[GroupType]struct{}{
	GroupTypeSingle: {},
	GroupTypeMulti:  {},
}

func ToGroupType(s string) (GroupType, error) {
	groupType := GroupType(s)
	if _, ok := validGroupTypes[groupType]; ok {
		return groupType, nil
	}

	return "", fmt.Errorf("group type[%s]: %w", s, ErrInvalidSchema)
}

type OptionValue struct {
	Label      string
	PriceDelta decimal.Decimal
}

type OptionGroup struct {
	ID     string
	Label  string
	Type   GroupType
	Values []OptionValue
}

// FindValue returns the value with exactly the given label.
func (g OptionGroup) FindValue(label string) (OptionValue, bool) {
	for _, v := range g.Values {
		if v.Label == label {
			return v, true
		}
	}
	return OptionValue{}, false
}

// OptionSchema is embedded in a Product; it is never shared between products.
type OptionSchema struct {
	Groups []OptionGroup
}

func (s OptionSchema) Group(id string) (OptionGroup, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return OptionGroup{}, false
}

func (s OptionSchema) IsEmpty() bool {
	return len(s.Groups) == 0
}

// Validate checks the structural invariants: unique group ids, known group types
// and unique value labels within each group. An empty values list is allowed.
func (s OptionSchema) Validate() error {
	groupIDs := make(map[string]struct{}, len(s.Groups))

	for idx, g := range s.Groups {
		if g.ID == "" {
			return fmt.Errorf("groups[%d]: empty id: %w", idx, ErrInvalidSchema)
		}
		if _, exists := groupIDs[g.ID]; exists {
			return fmt.Errorf("groups[%d]: duplicate id[%s]: %w", idx, g.ID, ErrInvalidSchema)
		}
		groupIDs[g.ID] = struct{}{}

		if _, err := ToGroupType(string(g.Type)); err != nil {
			return fmt.Errorf("groups[%d]: %w", idx, err)
		}

		labels := make(map[string]struct{}, len(g.Values))
		for _, v := range g.Values {
			if _, exists := labels[v.Label]; exists {
				return fmt.Errorf("groups[%d]: duplicate label[%s]: %w", idx, v.Label, ErrInvalidSchema)
			}
			labels[v.Label] = struct{}{}
		}
	}

	return nil
}

func (s OptionSchema) Clone() OptionSchema {
	if s.Groups == nil {
		return OptionSchema{}
	}

	groups := make([]OptionGroup, len(s.Groups))
	for i, g := range s.Groups {
		g.Values = append([]OptionValue(nil), g.Values...)
		groups[i] = g
	}

	return OptionSchema{Groups: groups}
}
