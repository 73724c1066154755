package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	BasePrice     Money
	Category      string
	Active        bool
	OptionsSchema OptionSchema

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is empty: %w", ErrInvalidSchema)
	}

	if p.BasePrice.Amount.IsNegative() {
		return fmt.Errorf("base price[%s] is negative: %w", p.BasePrice.Amount, ErrInvalidSchema)
	}

	if err := p.OptionsSchema.Validate(); err != nil {
		return fmt.Errorf("optionsSchema: %w", err)
	}

	return nil
}

func (p Product) Clone() Product {
	p.OptionsSchema = p.OptionsSchema.Clone()
	return p
}
