package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a single parsed dice term with an optional flat modifier.
//
// Invariant: Count >= 1, Sides >= 2 after successful Parse.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

// Parse parses a single-term expression such as "d20", "2d6+3", "4d8-2" or
// "4d6kh3".
//
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	f, err := ParseFormula(expr)
	if err != nil {
		return Expression{}, err
	}
	if len(f.Terms) != 1 {
		return Expression{}, fmt.Errorf("dice: expected exactly one dice term in %q, got %d", expr, len(f.Terms))
	}
	t := f.Terms[0]
	if t.Negative {
		return Expression{}, fmt.Errorf("dice: negative dice term in %q", expr)
	}
	return Expression{
		Raw:         f.Raw,
		Count:       t.Count,
		Sides:       t.Sides,
		Modifier:    f.Modifier,
		KeepHighest: t.KeepHighest,
	}, nil
}

// Term is one NdS group of a Formula.
type Term struct {
	Count       int
	Sides       int
	KeepHighest int
	Negative    bool
}

// String renders t as "2d6", "4d6kh3" or "-1d4".
func (t Term) String() string {
	s := fmt.Sprintf("%dd%d", t.Count, t.Sides)
	if t.KeepHighest > 0 {
		s += fmt.Sprintf("kh%d", t.KeepHighest)
	}
	if t.Negative {
		s = "-" + s
	}
	return s
}

// Formula is a sum of dice terms and flat numbers, e.g. "2d6+1d4+3".
type Formula struct {
	Raw      string
	Terms    []Term
	Modifier int
}

// IsConstant reports whether f has no dice.
func (f Formula) IsConstant() bool {
	return len(f.Terms) == 0
}

// Plus returns f with other's terms and modifier appended.
func (f Formula) Plus(other Formula) Formula {
	out := Formula{
		Terms:    append(append([]Term(nil), f.Terms...), other.Terms...),
		Modifier: f.Modifier + other.Modifier,
	}
	out.Raw = out.String()
	return out
}

// String renders the canonical form of f, e.g. "2d6+1d4+3".
func (f Formula) String() string {
	var b strings.Builder
	for i, t := range f.Terms {
		if i > 0 && !t.Negative {
			b.WriteByte('+')
		}
		b.WriteString(t.String())
	}
	switch {
	case f.Modifier != 0 && b.Len() > 0:
		fmt.Fprintf(&b, "%+d", f.Modifier)
	case b.Len() == 0:
		fmt.Fprintf(&b, "%d", f.Modifier)
	}
	return b.String()
}

// ParseFormula parses a sum of dice terms and integers. Whitespace is
// ignored and terms may be joined by '+' or '-'.
//
// Postcondition: Returns a Formula with at least one term or modifier, or a
// descriptive error.
func ParseFormula(expr string) (Formula, error) {
	raw := expr
	s := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	if s == "" {
		return Formula{}, fmt.Errorf("dice: empty expression")
	}

	f := Formula{Raw: raw}
	for len(s) > 0 {
		negative := false
		switch s[0] {
		case '+':
			s = s[1:]
		case '-':
			negative = true
			s = s[1:]
		}
		end := strings.IndexAny(s, "+-")
		if end < 0 {
			end = len(s)
		}
		part := s[:end]
		s = s[end:]
		if part == "" {
			return Formula{}, fmt.Errorf("dice: dangling operator in %q", raw)
		}

		if !strings.Contains(part, "d") {
			n, err := strconv.Atoi(part)
			if err != nil {
				return Formula{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
			}
			if negative {
				n = -n
			}
			f.Modifier += n
			continue
		}
		t, err := parseTerm(part, raw)
		if err != nil {
			return Formula{}, err
		}
		t.Negative = negative
		f.Terms = append(f.Terms, t)
	}
	return f, nil
}

func parseTerm(part, raw string) (Term, error) {
	dIdx := strings.Index(part, "d")
	count := 1
	if countStr := part[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Term{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 {
			return Term{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
	}

	rest := part[dIdx+1:]
	keepHighest := 0
	if khIdx := strings.Index(rest, "kh"); khIdx >= 0 {
		kh, err := strconv.Atoi(rest[khIdx+2:])
		if err != nil {
			return Term{}, fmt.Errorf("dice: invalid kh value in %q: %w", raw, err)
		}
		if kh <= 0 || kh >= count {
			return Term{}, fmt.Errorf("dice: kh value %d must be > 0 and < count %d in %q", kh, count, raw)
		}
		keepHighest = kh
		rest = rest[:khIdx]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Term{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Term{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
	}
	return Term{Count: count, Sides: sides, KeepHighest: keepHighest}, nil
}
