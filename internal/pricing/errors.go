package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidIdentifier = errors.New("invalid product id")
	ErrProductNotFound   = errors.New("product not found")

	// ErrInvalidSelection is the parent of every selection failure below.
	ErrInvalidSelection     = errors.New("invalid selection")
	ErrUnknownOptionGroup   = fmt.Errorf("%w: unknown option group", ErrInvalidSelection)
	ErrInvalidOptionValue   = fmt.Errorf("%w: invalid option value", ErrInvalidSelection)
	ErrUnsupportedGroupType = fmt.Errorf("%w: unsupported option group type", ErrInvalidSelection)
)
