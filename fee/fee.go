// Package fee computes protocol base fees and splits an order price between
// payouts, origin fees and the platform.
package fee

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/order"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var ErrInvalidFeeConfig = errors.New("invalid fee config")

type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid fee config: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidFeeConfig }

func invalidf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// Table holds base fees in basis points
type Table struct {
	// Native is charged on every fill of a native protocol order
	Native uint64 `json:"native" yaml:"native"`
	// Wrapper is charged when a fill is routed through the exchange wrapper
	// to carry origin fees
	Wrapper uint64 `json:"wrapper" yaml:"wrapper"`
	// Protocols holds extra per protocol fees
	Protocols map[order.Protocol]uint64 `json:"protocols" yaml:"protocols"`
}

// BaseFee returns the platform fee for filling an order of protocol p.
// Native orders always pay the native fee. Other protocols only pay the
// wrapper fee when origin fees are sent, since only then the fill goes
// through the wrapper.
func (t Table) BaseFee(p order.Protocol, withOriginFees bool) uint64 {
	if p.IsNative() {
		return t.Native + t.Protocols[p]
	}
	fee := t.Protocols[p]
	if withOriginFees {
		fee += t.Wrapper
	}
	return fee
}

// Allocation is the share of a price paid to one account
type Allocation struct {
	Account common.Address
	Bps     uint64
	Amount  *big.Int
}

// Split is how a price is distributed. Payouts share the price, origin fees
// and the base fee are paid on top of it.
type Split struct {
	Payouts    []Allocation
	OriginFees []Allocation
	BaseFee    *big.Int
	// Total is what the taker pays
	Total *big.Int
}

func sumParts(parts []order.Part) uint64 {
	var total uint64
	for _, p := range parts {
		total += p.Value
	}
	return total
}

// Validate checks that base fee, explicit payouts and origin fees together
// stay within 100%. The default payout to the maker is not counted.
func Validate(payouts, originFees []order.Part, baseFee uint64) error {
	for _, p := range append(append([]order.Part{}, payouts...), originFees...) {
		if p.Value > constants.BASIS_POINTS {
			return invalidf("part for %s is %d basis points", p.Account.Hex(), p.Value)
		}
	}
	total := baseFee + sumParts(payouts) + sumParts(originFees)
	if total > constants.BASIS_POINTS {
		return invalidf(
			"base fee %d, payouts %d and origin fees %d add up to %d basis points",
			baseFee, sumParts(payouts), sumParts(originFees), total,
		)
	}
	return nil
}

// SplitPayouts distributes price between payouts, defaulting to the maker,
// and adds origin fees and the base fee on top. Payout amounts round down
// and the remainder goes to the last payout.
func SplitPayouts(
	price *big.Int,
	maker common.Address,
	payouts []order.Part,
	originFees []order.Part,
	baseFee uint64,
) (Split, error) {
	if price == nil || price.Sign() < 0 {
		return Split{}, invalidf("price must be positive")
	}
	if err := Validate(payouts, originFees, baseFee); err != nil {
		return Split{}, err
	}
	if len(payouts) == 0 {
		payouts = []order.Part{{Account: maker, Value: constants.BASIS_POINTS}}
	}

	weight := new(big.Int).SetUint64(sumParts(payouts))
	if weight.Sign() == 0 {
		return Split{}, invalidf("payouts add up to zero")
	}

	bps := big.NewInt(constants.BASIS_POINTS)
	split := Split{Total: new(big.Int).Set(price)}

	paid := new(big.Int)
	for i, p := range payouts {
		amount := utils.MulDivFloor(price, new(big.Int).SetUint64(p.Value), weight)
		if i == len(payouts)-1 {
			amount = new(big.Int).Sub(price, paid)
		}
		paid.Add(paid, amount)
		split.Payouts = append(split.Payouts, Allocation{Account: p.Account, Bps: p.Value, Amount: amount})
	}

	for _, f := range originFees {
		amount := utils.MulDivFloor(price, new(big.Int).SetUint64(f.Value), bps)
		split.Total.Add(split.Total, amount)
		split.OriginFees = append(split.OriginFees, Allocation{Account: f.Account, Bps: f.Value, Amount: amount})
	}

	split.BaseFee = utils.MulDivFloor(price, new(big.Int).SetUint64(baseFee), bps)
	split.Total.Add(split.Total, split.BaseFee)

	return split, nil
}

// WithFees returns amount plus bps of it, rounded down
func WithFees(amount *big.Int, bps uint64) *big.Int {
	fee := utils.MulDivFloor(utils.OrZero(amount), new(big.Int).SetUint64(bps), big.NewInt(constants.BASIS_POINTS))
	return fee.Add(fee, utils.OrZero(amount))
}

/*//////////////////////////////////////////////////////////////
                        WRAPPER FEES
//////////////////////////////////////////////////////////////*/

// WrapperFees are origin fees in the form the exchange wrapper takes them:
// two recipients and both fees packed in one word
type WrapperFees struct {
	Packed *big.Int
	First  common.Address
	Second common.Address
	// Bps is the sum of both fees
	Bps uint64
}

// PackWrapperFees packs up to two origin fees as first<<16 | second
func PackWrapperFees(originFees []order.Part) (WrapperFees, error) {
	if len(originFees) > 2 {
		return WrapperFees{}, invalidf("the exchange wrapper takes at most 2 origin fees, got %d", len(originFees))
	}
	if err := Validate(nil, originFees, 0); err != nil {
		return WrapperFees{}, err
	}

	out := WrapperFees{Packed: new(big.Int)}
	if len(originFees) > 0 {
		out.First = originFees[0].Account
		out.Packed.SetUint64(originFees[0].Value << 16)
		out.Bps += originFees[0].Value
	}
	if len(originFees) > 1 {
		out.Second = originFees[1].Account
		out.Packed.Or(out.Packed, new(big.Int).SetUint64(originFees[1].Value))
		out.Bps += originFees[1].Value
	}
	return out, nil
}

// wrapperRoyaltiesData marks purchase data carrying additional royalties
const wrapperRoyaltiesData = 1

// WithRoyalties flags the packed fees so the wrapper decodes additional
// royalties out of the purchase data
func (w WrapperFees) WithRoyalties() WrapperFees {
	flag := new(big.Int).Lsh(big.NewInt(wrapperRoyaltiesData), 32)
	w.Packed = new(big.Int).Or(w.Packed, flag)
	return w
}

// PackRoyalties encodes royalties as the wrapper reads them: bps<<160 | account
func PackRoyalties(royalties []order.Part) []*big.Int {
	out := make([]*big.Int, len(royalties))
	for i, r := range royalties {
		v := new(big.Int).Lsh(new(big.Int).SetUint64(r.Value), 160)
		out[i] = v.Or(v, new(big.Int).SetBytes(r.Account.Bytes()))
	}
	return out
}

// Percent renders basis points as a percentage
func Percent(bps uint64) decimal.Decimal {
	return decimal.New(int64(bps), -2)
}
