package types

import (
	"fmt"
	"strings"
)

// Code describes how one type may stand in for another. The numeric value
// encodes the kind of match; ranking uses its own explicit order.
type Code uint8

const (
	// NoMatch means from is not convertible to to.
	NoMatch Code = iota
	// Exact means identical type.
	Exact
	// Subtype is reserved and never produced by registration.
	Subtype
	// Promote is a widening without precision loss or change of kind (int32 -> int64).
	Promote
	// SafeConvert changes representation without precision loss (int32 -> float64).
	SafeConvert
	// UnsafeConvert changes representation and may lose precision (int64 -> float64).
	UnsafeConvert
)

var codeNames = [...]string{
	NoMatch:       "no-match",
	Exact:         "exact",
	Subtype:       "subtype",
	Promote:       "promote",
	SafeConvert:   "safe",
	UnsafeConvert: "unsafe",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", c)
}

// IsConversion reports whether c is one of the counted conversion kinds.
func (c Code) IsConversion() bool {
	return c == Promote || c == SafeConvert || c == UnsafeConvert
}

// ParseCode reads the names used in universe tables. A few long spellings
// are accepted as well.
func ParseCode(s string) (Code, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no-match", "none", "false":
		return NoMatch, nil
	case "exact":
		return Exact, nil
	case "subtype":
		return Subtype, nil
	case "promote", "promotion":
		return Promote, nil
	case "safe", "safe-convert", "safe_convert":
		return SafeConvert, nil
	case "unsafe", "unsafe-convert", "unsafe_convert":
		return UnsafeConvert, nil
	default:
		return NoMatch, fmt.Errorf("unknown compatibility kind %q (expected promote|safe|unsafe)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := ParseCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
