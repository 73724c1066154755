package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

var ErrMalformedSelection = errors.New("selected option must be a string or an array of strings")

// Selection is what a caller picked for one option group: Single or Multi.
type Selection interface {
	isSelection()
}

// Single is the selection for a single-choice group.
type Single string

// Multi is the selection for a multi-choice group. Duplicates are kept.
type Multi []string

func (Single) isSelection() {}
func (Multi) isSelection()  {}

// SelectedOptions maps an option group id to its selection.
type SelectedOptions map[string]Selection

// GroupIDs returns the keys in sorted order.
func (o SelectedOptions) GroupIDs() []string {
	ids := lo.Keys(o)
	slices.Sort(ids)
	return ids
}

func (o SelectedOptions) Clone() SelectedOptions {
	if o == nil {
		return nil
	}

	result := make(SelectedOptions, len(o))
	for id, sel := range o {
		switch v := sel.(type) {
		case Multi:
			result[id] = Multi(slices.Clone([]string(v)))
		default:
			result[id] = v
		}
	}
	return result
}

func (o SelectedOptions) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(o))
	for id, sel := range o {
		switch v := sel.(type) {
		case nil:
			doc[id] = nil
		case Single:
			doc[id] = string(v)
		case Multi:
			doc[id] = lo.Ternary(v == nil, []string{}, []string(v))
		default:
			return nil, fmt.Errorf("group[%s]: unsupported selection %T", id, sel)
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON accepts a JSON object whose values are strings or arrays of strings.
// A null value keeps its key with a nil Selection, meaning "nothing selected".
func (o *SelectedOptions) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	result := make(SelectedOptions, len(raw))
	for id, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			result[id] = nil
			continue
		}

		switch value[0] {
		case '"':
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return fmt.Errorf("group[%s]: %w", id, ErrMalformedSelection)
			}
			result[id] = Single(s)
		case '[':
			var labels []string
			if err := json.Unmarshal(value, &labels); err != nil {
				return fmt.Errorf("group[%s]: %w", id, ErrMalformedSelection)
			}
			result[id] = Multi(lo.Ternary(labels == nil, []string{}, labels))
		default:
			return fmt.Errorf("group[%s]: %w", id, ErrMalformedSelection)
		}
	}

	*o = result
	return nil
}
