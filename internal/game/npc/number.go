package npc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is an integer decoded leniently from stored data. Integers,
// floats (truncated toward zero), numeric strings and strings with a
// leading integer such as "25 feet" are accepted; anything else decodes
// to 0 instead of failing.
type Number int

// Int returns n as an int.
func (n Number) Int() int { return int(n) }

// ParseNumber applies the lenient decoding rules to s.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return Number(v)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Number(int(f))
	}
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return Number(v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		*n = 0
		return nil
	}
	*n = ParseNumber(node.Value)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = 0
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*n = Number(int(v))
	case string:
		*n = ParseNumber(v)
	default:
		*n = 0
	}
	return nil
}

// BaseValue is a stored statistic with an optional explicit base.
type BaseValue struct {
	Value Number  `yaml:"value" json:"value"`
	Base  *Number `yaml:"base,omitempty" json:"base,omitempty"`
}

// BaseOrValue returns Base when set and Value otherwise.
func (b BaseValue) BaseOrValue() int {
	if b.Base != nil {
		return b.Base.Int()
	}
	return b.Value.Int()
}
