package dice

import "sort"

// Roll evaluates an Expression using src.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count, or expr.KeepHighest when
// that is > 0.
func Roll(expr Expression, src Source) (RollResult, error) {
	kept := rollTerm(Term{Count: expr.Count, Sides: expr.Sides, KeepHighest: expr.KeepHighest}, src)
	return RollResult{
		Expression: expr.Raw,
		Dice:       kept,
		Modifier:   expr.Modifier,
	}, nil
}

// RollFormula evaluates every term of f using src. Dice from negative terms
// are recorded as negative values so Total stays the plain sum.
//
// Postcondition: result.Total() == sum of kept dice (signed) + f.Modifier.
func RollFormula(f Formula, src Source) RollResult {
	var all []int
	for _, t := range f.Terms {
		for _, d := range rollTerm(t, src) {
			if t.Negative {
				d = -d
			}
			all = append(all, d)
		}
	}
	expr := f.Raw
	if expr == "" {
		expr = f.String()
	}
	return RollResult{Expression: expr, Dice: all, Modifier: f.Modifier}
}

func rollTerm(t Term, src Source) []int {
	rolled := make([]int, t.Count)
	for i := range rolled {
		rolled[i] = src.Intn(t.Sides) + 1
	}
	if t.KeepHighest > 0 {
		sort.Sort(sort.Reverse(sort.IntSlice(rolled)))
		rolled = rolled[:t.KeepHighest]
	}
	return rolled
}

// RollExpr parses expr and rolls it using src in a single call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// MustParse parses expr and panics on error. Useful for package-level values.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
