package inventory

import "fmt"

// Size is a creature or item size category.
type Size string

const (
	SizeTiny       Size = "tiny"
	SizeSmall      Size = "sm"
	SizeMedium     Size = "med"
	SizeLarge      Size = "lg"
	SizeHuge       Size = "huge"
	SizeGargantuan Size = "grg"
)

// Sizes lists every size from smallest to largest.
var Sizes = []Size{SizeTiny, SizeSmall, SizeMedium, SizeLarge, SizeHuge, SizeGargantuan}

// ParseSize converts s into a Size.
//
// Postcondition: "" yields SizeMedium; an unknown code yields an error.
func ParseSize(s string) (Size, error) {
	if s == "" {
		return SizeMedium, nil
	}
	for _, sz := range Sizes {
		if Size(s) == sz {
			return sz, nil
		}
	}
	return "", fmt.Errorf("inventory: unknown size %q", s)
}

// PriceMultiplier is the factor applied to an item's price at this size.
//
// Postcondition: 8 for grg, 4 for huge, 2 for lg, 1 otherwise.
func (s Size) PriceMultiplier() int {
	switch s {
	case SizeGargantuan:
		return 8
	case SizeHuge:
		return 4
	case SizeLarge:
		return 2
	default:
		return 1
	}
}
