package inventory

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Denomination is a canonical coin code.
type Denomination string

const (
	Copper   Denomination = "cp"
	Silver   Denomination = "sp"
	Gold     Denomination = "gp"
	Platinum Denomination = "pp"
)

// Denominations lists every denomination from smallest to largest.
var Denominations = []Denomination{Copper, Silver, Gold, Platinum}

// copperPer is the value of one coin of each denomination in copper.
var copperPer = map[Denomination]int{Copper: 1, Silver: 10, Gold: 100, Platinum: 1000}

// AbbreviationLookup supplies the display abbreviation of a denomination.
// An empty result means the canonical code is used.
type AbbreviationLookup interface {
	Abbreviation(d Denomination) string
}

type canonical struct{}

func (canonical) Abbreviation(d Denomination) string { return string(d) }

// Canonical renders denominations with their canonical codes.
var Canonical AbbreviationLookup = canonical{}

// Coins is an immutable amount of money in four denominations.
//
// Invariant: every field is >= 0. Values built with FromValues or returned by
// any method satisfy it; a literal with negative fields should go through
// Normalize first.
type Coins struct {
	PP int `yaml:"pp,omitempty" json:"pp,omitempty"`
	GP int `yaml:"gp,omitempty" json:"gp,omitempty"`
	SP int `yaml:"sp,omitempty" json:"sp,omitempty"`
	CP int `yaml:"cp,omitempty" json:"cp,omitempty"`
}

// FromValues builds Coins from arbitrary numbers.
//
// Postcondition: each field is floor(|v|).
func FromValues(cp, sp, gp, pp float64) Coins {
	return Coins{
		CP: coerce(cp),
		SP: coerce(sp),
		GP: coerce(gp),
		PP: coerce(pp),
	}
}

func coerce(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(math.Abs(v)))
}

// FromCopper decomposes an amount of copper into the fewest coins, largest
// denominations first. Negative amounts yield zero.
func FromCopper(cp int) Coins {
	if cp <= 0 {
		return Coins{}
	}
	return Coins{PP: cp / 1000, GP: cp % 1000 / 100, SP: cp % 100 / 10, CP: cp % 10}
}

// Normalize returns c with every field made non-negative.
func (c Coins) Normalize() Coins {
	return FromValues(float64(c.CP), float64(c.SP), float64(c.GP), float64(c.PP))
}

// Get returns the count of coins of denomination d.
func (c Coins) Get(d Denomination) int {
	switch d {
	case Copper:
		return c.CP
	case Silver:
		return c.SP
	case Gold:
		return c.GP
	case Platinum:
		return c.PP
	default:
		return 0
	}
}

// With returns a copy of c with denomination d set to n.
func (c Coins) With(d Denomination, n int) Coins {
	switch d {
	case Copper:
		c.CP = n
	case Silver:
		c.SP = n
	case Gold:
		c.GP = n
	case Platinum:
		c.PP = n
	}
	return c.Normalize()
}

// CopperValue is the total worth of c in copper.
func (c Coins) CopperValue() int {
	total := 0
	for _, d := range Denominations {
		total += c.Get(d) * copperPer[d]
	}
	return total
}

// GoldValue is the total worth of c in gold, possibly fractional.
func (c Coins) GoldValue() float64 {
	return float64(c.CopperValue()) / 100
}

// IsZero reports whether c holds no coins.
func (c Coins) IsZero() bool {
	return c.CP == 0 && c.SP == 0 && c.GP == 0 && c.PP == 0
}

// Plus returns the field-wise sum of c and other, each normalized first.
func (c Coins) Plus(other Coins) Coins {
	a, b := c.Normalize(), other.Normalize()
	return Coins{PP: a.PP + b.PP, GP: a.GP + b.GP, SP: a.SP + b.SP, CP: a.CP + b.CP}
}

// Scale multiplies every denomination by factor.
//
// For a fractional factor the fractional part of each denomination spills
// into the next smaller one (pp -> gp x10 -> sp x10 -> cp x10) before every
// field is rounded to one decimal place and floored, so representation error
// such as 2.7999999 still lands on 2.8.
//
// Postcondition: c.Scale(1) == c.Normalize().
func (c Coins) Scale(factor float64) Coins {
	n := c.Normalize()
	pp := float64(n.PP) * factor
	gp := float64(n.GP) * factor
	sp := float64(n.SP) * factor
	cp := float64(n.CP) * factor

	if math.Mod(factor, 1) != 0 {
		gp += math.Mod(pp, 1) * 10
		sp += math.Mod(gp, 1) * 10
		cp += math.Mod(sp, 1) * 10
		pp, gp, sp, cp = floorTenth(pp), floorTenth(gp), floorTenth(sp), floorTenth(cp)
	}
	return FromValues(cp, sp, gp, pp)
}

func floorTenth(v float64) float64 {
	return math.Floor(math.Round(v*10) / 10)
}

// AdjustForSize scales a price for larger physical items.
func (c Coins) AdjustForSize(size Size) Coins {
	return c.Scale(float64(size.PriceMultiplier()))
}

// ToObject returns only the non-zero denominations.
func (c Coins) ToObject() map[Denomination]int {
	out := make(map[Denomination]int)
	for _, d := range Denominations {
		if v := c.Get(d); v != 0 {
			out[d] = v
		}
	}
	return out
}

// String renders c with canonical codes, e.g. "5 gp, 3 sp".
func (c Coins) String() string {
	return c.Format(Canonical)
}

// Format renders the non-zero denominations from largest to smallest, or
// "0 <gold>" when c is zero.
func (c Coins) Format(lookup AbbreviationLookup) string {
	if c.IsZero() {
		return "0 " + abbreviation(lookup, Gold)
	}
	var parts []string
	for i := len(Denominations) - 1; i >= 0; i-- {
		d := Denominations[i]
		if v := c.Get(d); v != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", v, abbreviation(lookup, d)))
		}
	}
	return strings.Join(parts, ", ")
}

func abbreviation(lookup AbbreviationLookup, d Denomination) string {
	if lookup == nil {
		return string(d)
	}
	if a := lookup.Abbreviation(d); a != "" {
		return a
	}
	return string(d)
}

var coinToken = regexp.MustCompile(`(\d+)\s*([pgsc]p)`)

// MaxCoinCount caps a single parsed token so oversized digit runs saturate
// instead of overflowing.
const MaxCoinCount = math.MaxInt32

// tokenCount is digits times quantity, saturated at MaxCoinCount.
func tokenCount(digits string, quantity int) int {
	v, err := strconv.Atoi(digits)
	if err != nil || v > MaxCoinCount {
		v = MaxCoinCount
	}
	if quantity > 0 && v > MaxCoinCount/quantity {
		return MaxCoinCount
	}
	return v * quantity
}

// ParseCoins reads every "<digits> <code>" token in s and sums them, each
// multiplied by quantity. Localized abbreviations from lookup are mapped
// back to canonical codes first and thousands separators are dropped. Text
// that is not a token is ignored, so a string without tokens yields zero.
// A token too large to count saturates at MaxCoinCount.
func ParseCoins(s string, quantity int, lookup AbbreviationLookup) Coins {
	tag := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if lookup != nil {
		for _, d := range Denominations {
			loc := lookup.Abbreviation(d)
			if loc == "" || loc == string(d) {
				continue
			}
			tag = replaceWord(tag, loc, string(d))
		}
	}

	var total Coins
	for _, m := range coinToken.FindAllStringSubmatch(tag, -1) {
		total = total.Plus(Coins{}.With(Denomination(m[2]), tokenCount(m[1], quantity)))
	}
	return total
}

// replaceWord replaces every occurrence of old in s that is not directly
// preceded or followed by a letter.
func replaceWord(s, old, repl string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, old)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := i + len(old)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		b.WriteString(s[:i])
		if (i > 0 && unicode.IsLetter(before)) || (end < len(s) && unicode.IsLetter(after)) {
			b.WriteString(old)
		} else {
			b.WriteString(repl)
		}
		s = s[end:]
	}
}
