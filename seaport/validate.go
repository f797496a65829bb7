package seaport

import (
	"math/big"
	"sort"

	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

type ValidateInput struct {
	// Offer and Consideration are already scaled by the fill fraction and
	// the consideration includes tips
	Offer                 []Item
	Consideration         []ConsiderationItem
	OfferCriteria         []InputCriteria
	ConsiderationCriteria []InputCriteria
	OffererBalances       BalancesAndApprovals
	FulfillerBalances     BalancesAndApprovals
	TimeParams            mo.Option[TimeParams]
	OffererOperator       common.Address
	FulfillerOperator     common.Address
	Fulfiller             common.Address
	// DisableCheckingBalances skips every balance and approval check. It is
	// meant for simulations and dry runs only.
	DisableCheckingBalances bool
}

// Validate checks that the offerer can deliver the offer and the fulfiller
// can pay the consideration once it has received the offer.
//
// Criteria counts are checked first. Offerer balance or approval shortfalls
// and fulfiller balance shortfalls fail with an InsufficientError. Fulfiller
// approval shortfalls are returned so the caller can approve before sending.
func Validate(in ValidateInput) ([]Shortfall, error) {
	if err := CheckCriteriaCounts(
		in.Offer,
		ConsiderationBase(in.Consideration),
		in.OfferCriteria,
		in.ConsiderationCriteria,
	); err != nil {
		return nil, err
	}

	if in.DisableCheckingBalances {
		return nil, nil
	}

	consideration := owedConsideration(in)
	var failures []Shortfall

	offerAmounts := SummedAmounts(in.Offer, in.OfferCriteria, in.TimeParams, false)
	offererBalance, offererApproval := shortfalls(
		PartyOfferer,
		in.OffererBalances,
		offerAmounts,
		in.OffererOperator,
		itemTypesOf(in.Offer, in.OfferCriteria),
	)
	failures = append(failures, offererBalance...)
	failures = append(failures, offererApproval...)

	received := addToBalances(in.FulfillerBalances, in.Offer, in.OfferCriteria, in.TimeParams)
	considerationAmounts := SummedAmounts(consideration.items, consideration.criterias, in.TimeParams, true)
	fulfillerBalance, fulfillerApproval := shortfalls(
		PartyFulfiller,
		received,
		considerationAmounts,
		in.FulfillerOperator,
		itemTypesOf(consideration.items, consideration.criterias),
	)
	failures = append(failures, fulfillerBalance...)

	if len(failures) > 0 {
		return nil, &InsufficientError{Shortfalls: failures}
	}

	return fulfillerApproval, nil
}

type owed struct {
	items     []Item
	criterias []InputCriteria
}

// owedConsideration drops consideration items the fulfiller does not have to
// fund: items paid back to the fulfiller itself, and every item when the
// order window is not open. Criteria stay aligned with their items.
func owedConsideration(in ValidateInput) owed {
	active := true
	if t, ok := in.TimeParams.Get(); ok {
		active = t.Active()
	}

	out := owed{}
	criteriaIndex := 0
	for _, item := range in.Consideration {
		var criteria mo.Option[InputCriteria]
		if item.ItemType.IsCriteria() {
			if criteriaIndex < len(in.ConsiderationCriteria) {
				criteria = mo.Some(in.ConsiderationCriteria[criteriaIndex])
			}
			criteriaIndex++
		}

		if !active || (in.Fulfiller != (common.Address{}) && item.Recipient == in.Fulfiller) {
			continue
		}

		out.items = append(out.items, item.Item)
		if c, ok := criteria.Get(); ok {
			out.criterias = append(out.criterias, c)
		}
	}
	return out
}

type assetKey struct {
	token      common.Address
	identifier string
}

func itemTypesOf(items []Item, criterias []InputCriteria) map[assetKey]ItemType {
	out := map[assetKey]ItemType{}
	criteriaIndex := 0
	for _, item := range items {
		identifier := utils.OrZero(item.IdentifierOrCriteria)
		if item.ItemType.IsCriteria() {
			if criteriaIndex < len(criterias) {
				identifier = utils.OrZero(criterias[criteriaIndex].Identifier)
			}
			criteriaIndex++
		}
		out[assetKey{item.Token, identifier.String()}] = item.ItemType.Concrete()
	}
	return out
}

// addToBalances returns a copy of balances credited with the offer items the
// fulfiller receives during the fill
func addToBalances(
	balances BalancesAndApprovals,
	offer []Item,
	criterias []InputCriteria,
	timeParams mo.Option[TimeParams],
) BalancesAndApprovals {
	out := make(BalancesAndApprovals, len(balances))
	for i, entry := range balances {
		entry.Balance = new(big.Int).Set(utils.OrZero(entry.Balance))
		out[i] = entry
	}

	criteriaIndex := 0
	for _, item := range offer {
		identifier := utils.OrZero(item.IdentifierOrCriteria)
		if item.ItemType.IsCriteria() {
			if criteriaIndex < len(criterias) {
				identifier = utils.OrZero(criterias[criteriaIndex].Identifier)
			}
			criteriaIndex++
		}
		amount := PresentAmount(item.StartAmount, item.EndAmount, timeParams, false)

		found := false
		for i := range out {
			if out[i].Token == item.Token && utils.OrZero(out[i].Identifier).Cmp(identifier) == 0 {
				out[i].Balance = new(big.Int).Add(out[i].Balance, amount)
				found = true
				break
			}
		}
		if !found {
			out = append(out, BalanceAndApproval{
				Token:          item.Token,
				Identifier:     identifier,
				Balance:        amount,
				ApprovedAmount: new(big.Int),
				ItemType:       item.ItemType.Concrete(),
			})
		}
	}
	return out
}

// shortfalls compares required amounts against balances and approvals.
// Results are sorted by token and identifier so repeated runs agree.
func shortfalls(
	party Party,
	balances BalancesAndApprovals,
	required TokenAmounts,
	operator common.Address,
	itemTypes map[assetKey]ItemType,
) (balance []Shortfall, approval []Shortfall) {
	keys := make([]assetKey, 0)
	for token, ids := range required {
		for id := range ids {
			keys = append(keys, assetKey{token, id})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].token != keys[j].token {
			return keys[i].token.Cmp(keys[j].token) < 0
		}
		return keys[i].identifier < keys[j].identifier
	})

	for _, key := range keys {
		amount := required[key.token][key.identifier]
		if amount.Sign() == 0 {
			continue
		}
		identifier, _ := new(big.Int).SetString(key.identifier, 10)
		itemType := itemTypes[key]

		entry, ok := balances.Find(key.token, identifier)
		have := new(big.Int)
		approved := new(big.Int)
		if ok {
			have = utils.OrZero(entry.Balance)
			approved = utils.OrZero(entry.ApprovedAmount)
		}

		if have.Cmp(amount) < 0 {
			balance = append(balance, Shortfall{
				Party:      party,
				Kind:       ShortfallBalance,
				ItemType:   itemType,
				Token:      key.token,
				Identifier: identifier,
				Operator:   operator,
				Required:   new(big.Int).Set(amount),
				Available:  new(big.Int).Set(have),
			})
		}
		if itemType != ItemNative && approved.Cmp(amount) < 0 {
			approval = append(approval, Shortfall{
				Party:      party,
				Kind:       ShortfallApproval,
				ItemType:   itemType,
				Token:      key.token,
				Identifier: identifier,
				Operator:   operator,
				Required:   new(big.Int).Set(amount),
				Available:  new(big.Int).Set(approved),
			})
		}
	}
	return balance, approval
}
