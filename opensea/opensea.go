package opensea

import (
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
)

const wordSize = 32
const selectorSize = 4

// MergeCalldata replaces the bytes of template marked in mask with the bytes
// of override: (template &^ mask) | (override & mask). An empty mask leaves
// the template untouched.
func MergeCalldata(template, override, mask []byte) ([]byte, error) {
	out := append([]byte{}, template...)
	if len(mask) == 0 {
		return out, nil
	}
	if len(mask) != len(template) || len(override) != len(template) {
		return nil, types.Encodingf(
			protocolName,
			"calldata %d bytes, override %d bytes, mask %d bytes",
			len(template), len(override), len(mask),
		)
	}
	for i := range out {
		out[i] = (template[i] &^ mask[i]) | (override[i] & mask[i])
	}
	return out, nil
}

// TakerOverride builds the override for template with taker written into
// every abi word the mask touches
func TakerOverride(template, mask []byte, taker common.Address) ([]byte, error) {
	out := append([]byte{}, template...)
	if len(mask) == 0 {
		return out, nil
	}
	if len(mask) != len(template) {
		return nil, types.Encodingf(
			protocolName,
			"replacement pattern is %d bytes but calldata is %d bytes",
			len(mask), len(template),
		)
	}

	word := common.LeftPadBytes(taker.Bytes(), wordSize)
	for start := selectorSize; start+wordSize <= len(template); start += wordSize {
		touched := false
		for _, b := range mask[start : start+wordSize] {
			if b != 0 {
				touched = true
				break
			}
		}
		if touched {
			copy(out[start:start+wordSize], word)
		}
	}
	return out, nil
}

// CurrentPrice is the order price at now. Dutch auctions move linearly by
// Extra between listing and expiration: down for sells, up for buys.
func CurrentPrice(o Order, now int64) (*big.Int, error) {
	base := utils.OrZero(o.BasePrice)
	if o.SaleKind == FixedPrice {
		return new(big.Int).Set(base), nil
	}
	if o.SaleKind != DutchAuction {
		return nil, types.Encodingf(protocolName, "unknown sale kind %d", o.SaleKind)
	}

	listing := utils.OrZero(o.ListingTime)
	expiration := utils.OrZero(o.ExpirationTime)
	duration := new(big.Int).Sub(expiration, listing)
	if duration.Sign() <= 0 {
		return nil, types.Encodingf(protocolName, "dutch auction needs expiration after listing")
	}

	t := big.NewInt(now)
	if t.Cmp(listing) < 0 {
		t = listing
	}
	if t.Cmp(expiration) > 0 {
		t = expiration
	}
	elapsed := new(big.Int).Sub(t, listing)
	diff := utils.MulDivFloor(utils.OrZero(o.Extra), elapsed, duration)

	if o.Side == Sell {
		return new(big.Int).Sub(base, diff), nil
	}
	return new(big.Int).Add(base, diff), nil
}

// matchPrice mirrors the exchange: the price of whichever side carries the
// fee recipient wins
func matchPrice(buy, sell Order, now int64) (*big.Int, error) {
	if sell.FeeRecipient != constants.ZERO_ADDRESS {
		return CurrentPrice(sell, now)
	}
	return CurrentPrice(buy, now)
}

// Invert builds the counter order taker signs implicitly by sending the
// transaction. Exactly one side of a match may carry a fee recipient, so
// feeRecipient is used only when the maker order has none.
//
// The counter order is always a fixed price order at the maker's price at
// now. The exchange rejects a dutch auction without an expiration, and the
// maker's own decay keeps the match valid while the transaction is pending.
func Invert(o Order, taker common.Address, feeRecipient common.Address, now int64) (Order, error) {
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	price, err := CurrentPrice(o, now)
	if err != nil {
		return Order{}, err
	}

	override, err := TakerOverride(o.Calldata, o.ReplacementPattern, taker)
	if err != nil {
		return Order{}, err
	}
	calldata, err := MergeCalldata(o.Calldata, override, o.ReplacementPattern)
	if err != nil {
		return Order{}, err
	}

	counterFeeRecipient := constants.ZERO_ADDRESS
	if o.FeeRecipient == constants.ZERO_ADDRESS {
		if feeRecipient == constants.ZERO_ADDRESS {
			return Order{}, types.Encodingf(protocolName, "order has no fee recipient and none is configured")
		}
		counterFeeRecipient = feeRecipient
	}

	return Order{
		Exchange:           o.Exchange,
		Maker:              taker,
		Taker:              o.Maker,
		MakerRelayerFee:    o.MakerRelayerFee,
		TakerRelayerFee:    o.TakerRelayerFee,
		MakerProtocolFee:   o.MakerProtocolFee,
		TakerProtocolFee:   o.TakerProtocolFee,
		FeeRecipient:       counterFeeRecipient,
		FeeMethod:          o.FeeMethod,
		Side:               o.Side.Opposite(),
		SaleKind:           FixedPrice,
		Target:             o.Target,
		HowToCall:          o.HowToCall,
		Calldata:           calldata,
		ReplacementPattern: []byte{},
		StaticTarget:       constants.ZERO_ADDRESS,
		StaticExtradata:    []byte{},
		PaymentToken:       o.PaymentToken,
		BasePrice:          price,
		Extra:              new(big.Int),
		ListingTime:        big.NewInt(now - 60),
		ExpirationTime:     big.NewInt(0),
		Salt:               big.NewInt(now),
	}, nil
}

// Prepared is an encoded atomicMatch_ call
type Prepared struct {
	Data  []byte
	Value *big.Int
	Buy   Order
	Sell  Order
}

// Fill pairs the maker order with its counter order and encodes the match.
// Value is only sent when the taker buys with native currency.
func Fill(o, counter Order, metadata common.Hash, now int64) (Prepared, error) {
	buy, sell := counter, o
	if o.Side == Buy {
		buy, sell = o, counter
	}

	data, err := EncodeAtomicMatch(buy, sell, metadata)
	if err != nil {
		return Prepared{}, err
	}

	value := new(big.Int)
	if counter.Side == Buy && sell.PaymentToken == constants.ZERO_ADDRESS {
		price, err := matchPrice(buy, sell, now)
		if err != nil {
			return Prepared{}, err
		}
		value.Add(value, price)
		if sell.FeeMethod == SplitFee && sell.FeeRecipient != constants.ZERO_ADDRESS {
			value.Add(value, utils.MulDivFloor(price, utils.OrZero(sell.TakerRelayerFee), big.NewInt(constants.BASIS_POINTS)))
			value.Add(value, utils.MulDivFloor(price, utils.OrZero(sell.TakerProtocolFee), big.NewInt(constants.BASIS_POINTS)))
		}
	}

	return Prepared{Data: data, Value: value, Buy: buy, Sell: sell}, nil
}

// EncodeAtomicMatch packs atomicMatch_ for a buy and sell order
func EncodeAtomicMatch(buy, sell Order, metadata common.Hash) ([]byte, error) {
	if buy.Side != Buy || sell.Side != Sell {
		return nil, types.Encodingf(protocolName, "atomic match needs a buy and a sell order")
	}
	for _, o := range []Order{buy, sell} {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}

	addrs := [14]common.Address{
		buy.Exchange, buy.Maker, buy.Taker, buy.FeeRecipient, buy.Target, buy.StaticTarget, buy.PaymentToken,
		sell.Exchange, sell.Maker, sell.Taker, sell.FeeRecipient, sell.Target, sell.StaticTarget, sell.PaymentToken,
	}

	var uints [18]*big.Int
	for i, v := range append(orderUints(buy), orderUints(sell)...) {
		if err := utils.CheckUint(v, 256); err != nil {
			return nil, types.Encodingf(protocolName, "uint %d: %v", i, err)
		}
		uints[i] = v
	}

	kinds := [8]uint8{
		uint8(buy.FeeMethod), uint8(buy.Side), uint8(buy.SaleKind), uint8(buy.HowToCall),
		uint8(sell.FeeMethod), uint8(sell.Side), uint8(sell.SaleKind), uint8(sell.HowToCall),
	}

	contract, err := ABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse exchange abi: %w", err)
	}

	data, err := contract.Pack(
		"atomicMatch_",
		addrs,
		uints,
		kinds,
		nonNil(buy.Calldata),
		nonNil(sell.Calldata),
		nonNil(buy.ReplacementPattern),
		nonNil(sell.ReplacementPattern),
		nonNil(buy.StaticExtradata),
		nonNil(sell.StaticExtradata),
		[2]uint8{buy.V, sell.V},
		[5][32]byte{buy.R, buy.S, sell.R, sell.S, metadata},
	)
	if err != nil {
		return nil, types.Encodingf(protocolName, "atomicMatch_: %v", err)
	}
	return data, nil
}

func orderUints(o Order) []*big.Int {
	return []*big.Int{
		utils.OrZero(o.MakerRelayerFee),
		utils.OrZero(o.TakerRelayerFee),
		utils.OrZero(o.MakerProtocolFee),
		utils.OrZero(o.TakerProtocolFee),
		utils.OrZero(o.BasePrice),
		utils.OrZero(o.Extra),
		utils.OrZero(o.ListingTime),
		utils.OrZero(o.ExpirationTime),
		utils.OrZero(o.Salt),
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
