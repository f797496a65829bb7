package utils

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

var bigOne = big.NewInt(1)

// Gcd returns the greatest common divisor of a and b.
// Gcd(0, 0) is 0.
func Gcd(a, b *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int).Abs(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Abs(a)
	}
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// GcdAll folds Gcd over values, ignoring nil entries
func GcdAll(values ...*big.Int) *big.Int {
	acc := new(big.Int)
	for _, v := range values {
		if v == nil {
			continue
		}
		acc = Gcd(acc, v)
	}
	return acc
}

// ReduceFraction divides n and d by their gcd
func ReduceFraction(n, d *big.Int) (*big.Int, *big.Int, error) {
	if d.Sign() == 0 {
		return nil, nil, errors.New("zero denominator")
	}
	g := Gcd(n, d)
	if g.Sign() == 0 {
		return new(big.Int), new(big.Int).Set(bigOne), nil
	}
	return new(big.Int).Quo(n, g), new(big.Int).Quo(d, g), nil
}

// MulDivFloor returns floor(v * n / d)
func MulDivFloor(v, n, d *big.Int) *big.Int {
	out := new(big.Int).Mul(v, n)
	return out.Quo(out, d)
}

// MulDivCeil returns ceil(v * n / d) for non negative inputs
func MulDivCeil(v, n, d *big.Int) *big.Int {
	out := new(big.Int).Mul(v, n)
	out.Add(out, d)
	out.Sub(out, bigOne)
	return out.Quo(out, d)
}

// MulDivExact returns v * n / d and reports whether the division had no
// remainder
func MulDivExact(v, n, d *big.Int) (*big.Int, bool) {
	q, r := new(big.Int).QuoRem(new(big.Int).Mul(v, n), d, new(big.Int))
	return q, r.Sign() == 0
}

// Sum adds values, treating nil as zero
func Sum(values ...*big.Int) *big.Int {
	out := new(big.Int)
	for _, v := range values {
		if v != nil {
			out.Add(out, v)
		}
	}
	return out
}

// Min returns the smaller of a and b
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// OrZero returns v or a fresh zero when v is nil
func OrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// IsZero reports whether v is nil or zero
func IsZero(v *big.Int) bool {
	return v == nil || v.Sign() == 0
}

// CheckUint checks v fits in an unsigned integer of the given bit width
// before it is handed to the abi packer
func CheckUint(v *big.Int, bits int) error {
	if v == nil {
		return nil
	}
	if v.Sign() < 0 {
		return fmt.Errorf("negative value %s for uint%d", v, bits)
	}
	u, overflow := uint256.FromBig(v)
	if overflow || u.BitLen() > bits {
		return fmt.Errorf("value %s overflows uint%d", v, bits)
	}
	return nil
}
