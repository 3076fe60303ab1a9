package domain

import "github.com/pkg/errors"

// Validation errors returned by the constructors in this package.
var (
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidSide     = errors.New("side must be buy or sell")
	ErrUnsortedBook    = errors.New("order book side is not strictly sorted")
)
