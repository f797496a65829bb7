package seaport

import (
	"math/big"

	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

// PresentAmount interpolates an item amount between start and end at the
// current timestamp. Consideration amounts round up, offer amounts round
// down. Without time params the larger of the two amounts is returned.
func PresentAmount(
	startAmount *big.Int,
	endAmount *big.Int,
	timeParams mo.Option[TimeParams],
	isConsideration bool,
) *big.Int {
	start := utils.OrZero(startAmount)
	end := utils.OrZero(endAmount)

	t, ok := timeParams.Get()
	if !ok {
		if start.Cmp(end) >= 0 {
			return new(big.Int).Set(start)
		}
		return new(big.Int).Set(end)
	}

	if start.Cmp(end) == 0 {
		return new(big.Int).Set(start)
	}

	duration := new(big.Int).Sub(t.EndTime, t.StartTime)
	if duration.Sign() <= 0 {
		return new(big.Int).Set(end)
	}

	now := new(big.Int).SetUint64(t.CurrentTimestamp)
	if end.Cmp(start) > 0 {
		now.Add(now, new(big.Int).SetUint64(t.AscendingBuffer))
	}
	if now.Cmp(t.StartTime) < 0 {
		return new(big.Int).Set(start)
	}

	elapsed := new(big.Int).Sub(utils.Min(now, t.EndTime), t.StartTime)
	remaining := new(big.Int).Sub(duration, elapsed)

	total := new(big.Int).Mul(start, remaining)
	total.Add(total, new(big.Int).Mul(end, elapsed))
	if isConsideration {
		total.Add(total, duration)
		total.Sub(total, big.NewInt(1))
	}

	return total.Quo(total, duration)
}

// TokenAmounts maps token -> identifier (decimal string) -> summed amount
type TokenAmounts map[common.Address]map[string]*big.Int

// Get returns the summed amount for token and identifier, zero when absent
func (a TokenAmounts) Get(token common.Address, identifier *big.Int) *big.Int {
	if ids, ok := a[token]; ok {
		if v, ok := ids[utils.OrZero(identifier).String()]; ok {
			return new(big.Int).Set(v)
		}
	}
	return new(big.Int)
}

func (a TokenAmounts) add(token common.Address, identifier *big.Int, amount *big.Int) {
	ids, ok := a[token]
	if !ok {
		ids = map[string]*big.Int{}
		a[token] = ids
	}
	key := identifier.String()
	if prev, ok := ids[key]; ok {
		ids[key] = new(big.Int).Add(prev, amount)
		return
	}
	ids[key] = new(big.Int).Set(amount)
}

// SummedAmounts sums present amounts per token and identifier. Criteria items
// take their identifier from criterias in item order, so duplicates of the
// same resolved token add up instead of overwriting each other.
func SummedAmounts(
	items []Item,
	criterias []InputCriteria,
	timeParams mo.Option[TimeParams],
	isConsideration bool,
) TokenAmounts {
	out := TokenAmounts{}
	criteriaIndex := 0
	for _, item := range items {
		identifier := utils.OrZero(item.IdentifierOrCriteria)
		if item.ItemType.IsCriteria() {
			if criteriaIndex < len(criterias) {
				identifier = utils.OrZero(criterias[criteriaIndex].Identifier)
			}
			criteriaIndex++
		}
		amount := PresentAmount(item.StartAmount, item.EndAmount, timeParams, isConsideration)
		out.add(item.Token, identifier, amount)
	}
	return out
}

// NativeAmount is the summed native currency amount of items
func NativeAmount(
	items []Item,
	criterias []InputCriteria,
	timeParams mo.Option[TimeParams],
	isConsideration bool,
) *big.Int {
	return SummedAmounts(items, criterias, timeParams, isConsideration).
		Get(common.Address{}, new(big.Int))
}

// CountCriteriaItems counts items whose identifier is a criteria root
func CountCriteriaItems(items []Item) int {
	n := 0
	for _, item := range items {
		if item.ItemType.IsCriteria() {
			n++
		}
	}
	return n
}

// ConsiderationBase strips recipients off consideration items
func ConsiderationBase(items []ConsiderationItem) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item.Item
	}
	return out
}

// MaxUnits is the largest number of equal parts every amount of the order
// divides into
func MaxUnits(params OrderParameters) *big.Int {
	amounts := make([]*big.Int, 0, 2*(len(params.Offer)+len(params.Consideration)))
	for _, item := range params.Offer {
		amounts = append(amounts, item.StartAmount, item.EndAmount)
	}
	for _, item := range params.Consideration {
		amounts = append(amounts, item.StartAmount, item.EndAmount)
	}
	return utils.GcdAll(amounts...)
}
