package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// BigString represents an arbitrary precision integer that can be encoded as
// a JSON string (decimal or 0x hex) or a JSON number
type BigString big.Int

// NewBigString copies v into a BigString
func NewBigString(v *big.Int) BigString {
	var b BigString
	if v != nil {
		(*big.Int)(&b).Set(v)
	}
	return b
}

// UnmarshalJSON implements json.Unmarshaler for BigString
func (b *BigString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		(*big.Int)(b).SetInt64(0)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return b.parse(s)
	}

	// Plain numbers are parsed from their literal to avoid float rounding
	return b.parse(string(data))
}

// MarshalJSON encodes the value as a decimal string
func (b BigString) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BigString) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		(*big.Int)(b).SetInt64(0)
		return nil
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}

	if _, ok := (*big.Int)(b).SetString(s, base); !ok {
		return fmt.Errorf("invalid integer %q", s)
	}
	return nil
}

func (b *BigString) String() string {
	return (*big.Int)(b).String()
}

// Raw returns a copy of the value as a *big.Int
func (b *BigString) Raw() *big.Int {
	return new(big.Int).Set((*big.Int)(b))
}
