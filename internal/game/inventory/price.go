package inventory

// Price is an item's listed cost, optionally quoted per batch of Per units.
type Price struct {
	Value Coins `yaml:"value" json:"value"`
	Per   int   `yaml:"per,omitempty" json:"per,omitempty"`
}

// Total returns the cost of quantity units.
//
// Postcondition: Value scaled by quantity / max(1, Per).
func (p Price) Total(quantity int) Coins {
	per := p.Per
	if per < 1 {
		per = 1
	}
	return p.Value.Scale(float64(quantity) / float64(per))
}

// ForSize returns p with its value adjusted for an item of the given size.
func (p Price) ForSize(size Size) Price {
	return Price{Value: p.Value.AdjustForSize(size), Per: p.Per}
}
