package seaport

import (
	"math/big"

	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/types"
	"github.com/samber/mo"
)

const protocolName = "SEAPORT"

// FillFraction returns the reduced fraction of the order a fill covers.
//
// With units the fraction is units / MaxUnits, clamped to what is left of
// the order. Without units it is the remaining fraction
// (totalSize - totalFilled) / totalSize. A zero totalSize is an order that
// was never filled and counts as MaxUnits.
func FillFraction(
	params OrderParameters,
	units mo.Option[*big.Int],
	totalFilled *big.Int,
	totalSize *big.Int,
) (*big.Int, *big.Int, error) {
	maxUnits := MaxUnits(params)
	if maxUnits.Sign() == 0 {
		return nil, nil, types.Encodingf(protocolName, "order has no amounts")
	}

	filled := utils.OrZero(totalFilled)
	size := utils.OrZero(totalSize)
	if size.Sign() == 0 {
		if filled.Sign() != 0 {
			return nil, nil, types.Encodingf(protocolName, "filled amount %s without a size", filled)
		}
		size = maxUnits
	}
	if filled.Sign() < 0 || filled.Cmp(size) >= 0 {
		return nil, nil, types.Encodingf(protocolName, "order is fully filled (%s/%s)", filled, size)
	}

	num := new(big.Int).Sub(size, filled)
	den := new(big.Int).Set(size)

	if u, ok := units.Get(); ok && u != nil {
		if u.Sign() <= 0 {
			return nil, nil, types.Encodingf(protocolName, "units to fill must be positive, got %s", u)
		}
		// u/maxUnits < num/den  <=>  u*den < num*maxUnits
		if new(big.Int).Mul(u, den).Cmp(new(big.Int).Mul(num, maxUnits)) < 0 {
			num = new(big.Int).Set(u)
			den = new(big.Int).Set(maxUnits)
		}
	}

	num, den, err := utils.ReduceFraction(num, den)
	if err != nil {
		return nil, nil, types.Encodingf(protocolName, "%v", err)
	}

	if num.Cmp(den) != 0 && !params.OrderType.SupportsPartialFills() {
		return nil, nil, types.Encodingf(
			protocolName,
			"order type %d does not support partial fills (%s/%s)",
			params.OrderType, num, den,
		)
	}

	for _, v := range []*big.Int{num, den} {
		if err := utils.CheckUint(v, 120); err != nil {
			return nil, nil, types.Encodingf(protocolName, "fraction: %v", err)
		}
	}

	return num, den, nil
}

func scaleItem(item Item, num, den *big.Int) (Item, error) {
	start, ok := utils.MulDivExact(utils.OrZero(item.StartAmount), num, den)
	if !ok {
		return Item{}, types.Encodingf(protocolName, "start amount %s is not divisible by %s/%s", item.StartAmount, num, den)
	}
	end, ok := utils.MulDivExact(utils.OrZero(item.EndAmount), num, den)
	if !ok {
		return Item{}, types.Encodingf(protocolName, "end amount %s is not divisible by %s/%s", item.EndAmount, num, den)
	}
	item.StartAmount = start
	item.EndAmount = end
	return item, nil
}

// ScaleConsideration multiplies every amount by num/den. The result must be
// exact or the contract would reject the fraction.
func ScaleConsideration(items []ConsiderationItem, num, den *big.Int) ([]ConsiderationItem, error) {
	out := make([]ConsiderationItem, len(items))
	for i, item := range items {
		scaled, err := scaleItem(item.Item, num, den)
		if err != nil {
			return nil, err
		}
		out[i] = ConsiderationItem{Item: scaled, Recipient: item.Recipient}
	}
	return out, nil
}

// ScaleOrder returns a copy of params with offer and consideration amounts
// multiplied by num/den
func ScaleOrder(params OrderParameters, num, den *big.Int) (OrderParameters, error) {
	offer := make([]Item, len(params.Offer))
	for i, item := range params.Offer {
		scaled, err := scaleItem(item, num, den)
		if err != nil {
			return OrderParameters{}, err
		}
		offer[i] = scaled
	}

	consideration, err := ScaleConsideration(params.Consideration, num, den)
	if err != nil {
		return OrderParameters{}, err
	}

	params.Offer = offer
	params.Consideration = consideration
	return params, nil
}
