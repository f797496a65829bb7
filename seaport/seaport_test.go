package seaport

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/maxatome/go-testdeep/td"
	"github.com/samber/mo"
)

var (
	offerer   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	fulfiller = common.HexToAddress("0x2000000000000000000000000000000000000002")
	feeTaker  = common.HexToAddress("0x3000000000000000000000000000000000000003")
	nft       = common.HexToAddress("0x4000000000000000000000000000000000000004")
	weth      = common.HexToAddress("0x5000000000000000000000000000000000000005")
	conduit   = common.HexToAddress("0x6000000000000000000000000000000000000006")
)

func n(v int64) *big.Int { return big.NewInt(v) }

func item(t ItemType, token common.Address, id, amount int64) Item {
	return Item{
		ItemType:             t,
		Token:                token,
		IdentifierOrCriteria: n(id),
		StartAmount:          n(amount),
		EndAmount:            n(amount),
	}
}

func pay(t ItemType, token common.Address, id, amount int64, to common.Address) ConsiderationItem {
	return ConsiderationItem{Item: item(t, token, id, amount), Recipient: to}
}

// listing sells one ERC721 for 1000 wei, 50 of which go to a fee recipient
func listing() Order {
	return Order{
		Parameters: OrderParameters{
			Offerer: offerer,
			Offer:   []Item{item(ItemERC721, nft, 5, 1)},
			Consideration: []ConsiderationItem{
				pay(ItemNative, common.Address{}, 0, 950, offerer),
				pay(ItemNative, common.Address{}, 0, 50, feeTaker),
			},
			OrderType:                       FullOpen,
			StartTime:                       n(0),
			EndTime:                         n(2000000000),
			Salt:                            n(42),
			TotalOriginalConsiderationItems: 2,
		},
		Signature: []byte{0x01, 0x02},
	}
}

// partialListing sells 10 ERC1155 units for 10000 wei
func partialListing() Order {
	o := listing()
	o.Parameters.OrderType = PartialOpen
	o.Parameters.Offer = []Item{item(ItemERC1155, nft, 7, 10)}
	o.Parameters.Consideration = []ConsiderationItem{
		pay(ItemNative, common.Address{}, 0, 9500, offerer),
		pay(ItemNative, common.Address{}, 0, 500, feeTaker),
	}
	return o
}

func decodeFulfill(t *testing.T, data []byte) (advancedOrderTuple, []criteriaResolverTuple, [32]byte, common.Address) {
	t.Helper()
	contract, err := ABI()
	td.Require(t).CmpNoError(err)

	method := contract.Methods["fulfillAdvancedOrder"]
	td.Require(t).Cmp(data[:4], method.ID)

	args, err := method.Inputs.Unpack(data[4:])
	td.Require(t).CmpNoError(err)

	order := *abi.ConvertType(args[0], new(advancedOrderTuple)).(*advancedOrderTuple)
	resolvers := *abi.ConvertType(args[1], new([]criteriaResolverTuple)).(*[]criteriaResolverTuple)
	return order, resolvers, args[2].([32]byte), args[3].(common.Address)
}

/*//////////////////////////////////////////////////////////////
                            AMOUNTS
//////////////////////////////////////////////////////////////*/

func TestPresentAmount(t *testing.T) {
	window := func(now uint64) mo.Option[TimeParams] {
		return mo.Some(TimeParams{StartTime: n(100), EndTime: n(200), CurrentTimestamp: now})
	}

	tests := []struct {
		name            string
		start, end      int64
		timeParams      mo.Option[TimeParams]
		isConsideration bool
		want            string
	}{
		{"no time params takes max", 10, 30, mo.None[TimeParams](), false, "30"},
		{"constant", 7, 7, window(150), true, "7"},
		{"before start", 100, 0, window(50), false, "100"},
		{"descending midway", 100, 0, window(150), false, "50"},
		{"descending offer rounds down", 10, 0, window(133), false, "6"},
		{"descending consideration rounds up", 10, 0, window(133), true, "7"},
		{"after end clamps", 100, 0, window(500), false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PresentAmount(n(tt.start), n(tt.end), tt.timeParams, tt.isConsideration)
			td.Cmp(t, got.String(), tt.want)
		})
	}
}

func TestPresentAmountAscendingBuffer(t *testing.T) {
	tp := mo.Some(TimeParams{StartTime: n(0), EndTime: n(100), CurrentTimestamp: 40, AscendingBuffer: 10})
	td.Cmp(t, PresentAmount(n(0), n(100), tp, false).String(), "50")
	// buffer only applies to ascending amounts
	td.Cmp(t, PresentAmount(n(100), n(0), tp, false).String(), "60")
}

func TestSummedAmountsSumsDuplicates(t *testing.T) {
	items := []Item{
		item(ItemNative, common.Address{}, 0, 10),
		item(ItemNative, common.Address{}, 0, 5),
		item(ItemERC721WithCriteria, nft, 0, 1),
		item(ItemERC721WithCriteria, nft, 0, 1),
	}
	criterias := []InputCriteria{{Identifier: n(3)}, {Identifier: n(3)}}

	amounts := SummedAmounts(items, criterias, mo.None[TimeParams](), true)
	td.Cmp(t, amounts.Get(common.Address{}, n(0)).String(), "15")
	td.Cmp(t, amounts.Get(nft, n(3)).String(), "2")
	td.Cmp(t, amounts.Get(nft, n(0)).String(), "0")
}

func TestMaxUnits(t *testing.T) {
	td.Cmp(t, MaxUnits(partialListing().Parameters).String(), "10")
	td.Cmp(t, MaxUnits(listing().Parameters).String(), "1")
}

/*//////////////////////////////////////////////////////////////
                           FRACTIONS
//////////////////////////////////////////////////////////////*/

func TestFillFraction(t *testing.T) {
	params := partialListing().Parameters

	tests := []struct {
		name        string
		units       mo.Option[*big.Int]
		totalFilled int64
		totalSize   int64
		num, den    string
	}{
		{"unfilled remaining", mo.None[*big.Int](), 0, 0, "1", "1"},
		{"partially filled remaining", mo.None[*big.Int](), 4, 10, "3", "5"},
		{"units", mo.Some(n(2)), 0, 10, "1", "5"},
		{"units clamped to remaining", mo.Some(n(9)), 7, 10, "3", "10"},
		{"units on unfilled order", mo.Some(n(5)), 0, 0, "1", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, den, err := FillFraction(params, tt.units, n(tt.totalFilled), n(tt.totalSize))
			td.CmpNoError(t, err)
			td.Cmp(t, num.String(), tt.num)
			td.Cmp(t, den.String(), tt.den)
		})
	}
}

func TestFillFractionPathsAgree(t *testing.T) {
	params := partialListing().Parameters
	size := MaxUnits(params).Int64()

	for filled := int64(0); filled < size; filled++ {
		byRemaining, byRemainingDen, err := FillFraction(params, mo.None[*big.Int](), n(filled), n(size))
		td.CmpNoError(t, err)

		byUnits, byUnitsDen, err := FillFraction(params, mo.Some(n(size-filled)), n(filled), n(size))
		td.CmpNoError(t, err)

		td.Cmp(t, byUnits.String(), byRemaining.String(), "filled=%d", filled)
		td.Cmp(t, byUnitsDen.String(), byRemainingDen.String(), "filled=%d", filled)
	}
}

func TestFillFractionErrors(t *testing.T) {
	params := partialListing().Parameters

	_, _, err := FillFraction(params, mo.None[*big.Int](), n(10), n(10))
	td.CmpTrue(t, errors.Is(err, types.ErrEncoding))

	_, _, err = FillFraction(params, mo.Some(n(0)), n(0), n(10))
	td.CmpTrue(t, errors.Is(err, types.ErrEncoding))

	full := listing().Parameters
	full.Offer = []Item{item(ItemERC1155, nft, 7, 10)}
	full.Consideration = partialListing().Parameters.Consideration
	_, _, err = FillFraction(full, mo.Some(n(2)), n(0), n(0))
	td.CmpTrue(t, errors.Is(err, types.ErrEncoding))
}

func TestScaleOrderRejectsInexact(t *testing.T) {
	params := partialListing().Parameters
	_, err := ScaleOrder(params, n(1), n(3))
	td.CmpTrue(t, errors.Is(err, types.ErrEncoding))

	scaled, err := ScaleOrder(params, n(1), n(5))
	td.CmpNoError(t, err)
	td.Cmp(t, scaled.Offer[0].StartAmount.String(), "2")
	td.Cmp(t, scaled.Consideration[0].StartAmount.String(), "1900")
	// original untouched
	td.Cmp(t, params.Offer[0].StartAmount.String(), "10")
}

/*//////////////////////////////////////////////////////////////
                           VALIDATION
//////////////////////////////////////////////////////////////*/

func richBalances() (BalancesAndApprovals, BalancesAndApprovals) {
	offererBalances := BalancesAndApprovals{
		{Token: nft, Identifier: n(5), Balance: n(1), ApprovedAmount: n(1), ItemType: ItemERC721},
	}
	fulfillerBalances := BalancesAndApprovals{
		{Token: common.Address{}, Identifier: n(0), Balance: n(5000), ApprovedAmount: n(5000), ItemType: ItemNative},
	}
	return offererBalances, fulfillerBalances
}

func validateInput() ValidateInput {
	o := listing()
	offererBalances, fulfillerBalances := richBalances()
	return ValidateInput{
		Offer:             o.Parameters.Offer,
		Consideration:     o.Parameters.Consideration,
		OffererBalances:   offererBalances,
		FulfillerBalances: fulfillerBalances,
		OffererOperator:   conduit,
		FulfillerOperator: conduit,
		Fulfiller:         fulfiller,
	}
}

func TestValidateSufficient(t *testing.T) {
	approvals, err := Validate(validateInput())
	td.CmpNoError(t, err)
	td.CmpEmpty(t, approvals)
}

func TestValidateInsufficientFulfillerBalance(t *testing.T) {
	in := validateInput()
	in.FulfillerBalances[0].Balance = n(400)

	_, err := Validate(in)
	td.CmpTrue(t, errors.Is(err, ErrInsufficientBalanceOrApproval))

	var insufficient *InsufficientError
	td.Require(t).True(errors.As(err, &insufficient))
	td.Cmp(t, len(insufficient.Shortfalls), 1)
	shortfall := insufficient.Shortfalls[0]
	td.Cmp(t, shortfall.Party, PartyFulfiller)
	td.Cmp(t, shortfall.Kind, ShortfallBalance)
	td.Cmp(t, shortfall.Token, common.Address{})
	td.Cmp(t, shortfall.Amount().String(), "600")
}

func TestValidateOffererMissingApproval(t *testing.T) {
	in := validateInput()
	in.OffererBalances[0].ApprovedAmount = n(0)

	_, err := Validate(in)
	var insufficient *InsufficientError
	td.Require(t).True(errors.As(err, &insufficient))
	td.Cmp(t, insufficient.Shortfalls[0].Party, PartyOfferer)
	td.Cmp(t, insufficient.Shortfalls[0].Kind, ShortfallApproval)
	td.Cmp(t, insufficient.Shortfalls[0].Token, nft)
}

func TestValidateReturnsFulfillerApprovals(t *testing.T) {
	in := validateInput()
	in.Consideration = []ConsiderationItem{pay(ItemERC20, weth, 0, 1000, offerer)}
	in.FulfillerBalances = BalancesAndApprovals{
		{Token: weth, Identifier: n(0), Balance: n(1000), ApprovedAmount: n(10), ItemType: ItemERC20},
	}

	approvals, err := Validate(in)
	td.CmpNoError(t, err)
	td.Require(t).Cmp(len(approvals), 1)
	td.Cmp(t, approvals[0].Token, weth)
	td.Cmp(t, approvals[0].Operator, conduit)
	td.Cmp(t, approvals[0].Amount().String(), "990")
}

func TestValidateCountsOfferReceived(t *testing.T) {
	// accepting a bid: the fulfiller pays the offered token back as a fee
	in := validateInput()
	in.Offer = []Item{item(ItemERC20, weth, 0, 1000)}
	in.Consideration = []ConsiderationItem{
		pay(ItemERC721, nft, 5, 1, offerer),
		pay(ItemERC20, weth, 0, 25, feeTaker),
	}
	in.OffererBalances = BalancesAndApprovals{
		{Token: weth, Identifier: n(0), Balance: n(1000), ApprovedAmount: n(1000), ItemType: ItemERC20},
	}
	in.FulfillerBalances = BalancesAndApprovals{
		{Token: nft, Identifier: n(5), Balance: n(1), ApprovedAmount: n(1), ItemType: ItemERC721},
	}

	approvals, err := Validate(in)
	td.CmpNoError(t, err)
	td.Require(t).Cmp(len(approvals), 1)
	td.Cmp(t, approvals[0].Token, weth)
}

func TestValidateIsIdempotent(t *testing.T) {
	for _, mutate := range []func(*ValidateInput){
		func(*ValidateInput) {},
		func(in *ValidateInput) { in.FulfillerBalances[0].Balance = n(1) },
		func(in *ValidateInput) { in.OffererBalances[0].ApprovedAmount = n(0) },
	} {
		in := validateInput()
		mutate(&in)
		balanceBefore := in.FulfillerBalances[0].Balance.String()

		first, firstErr := Validate(in)
		second, secondErr := Validate(in)
		td.Cmp(t, second, first)
		td.Cmp(t, secondErr, firstErr)
		td.Cmp(t, in.FulfillerBalances[0].Balance.String(), balanceBefore, "inputs are not mutated")
	}
}

func TestValidateCriteriaCheckedBeforeBalances(t *testing.T) {
	in := validateInput()
	in.Offer = []Item{item(ItemERC721WithCriteria, nft, 0, 1)}
	// balances are empty too, the criteria mismatch still wins
	in.OffererBalances = nil
	in.FulfillerBalances = nil

	_, err := Validate(in)
	td.CmpTrue(t, errors.Is(err, ErrMissingCriteriaResolver))
	td.CmpFalse(t, errors.Is(err, ErrInsufficientBalanceOrApproval))

	var countErr *CriteriaCountError
	td.Require(t).True(errors.As(err, &countErr))
	td.Cmp(t, *countErr, CriteriaCountError{Side: SideOffer, Items: 1, Resolvers: 0})
}

func TestValidateDisableCheckingBalances(t *testing.T) {
	in := validateInput()
	in.FulfillerBalances = nil
	in.DisableCheckingBalances = true

	approvals, err := Validate(in)
	td.CmpNoError(t, err)
	td.CmpNil(t, approvals)
}

func TestValidateSkipsClosedWindow(t *testing.T) {
	in := validateInput()
	in.FulfillerBalances = nil
	in.OffererBalances = BalancesAndApprovals{
		{Token: nft, Identifier: n(5), Balance: n(1), ApprovedAmount: n(1), ItemType: ItemERC721},
	}
	in.TimeParams = mo.Some(TimeParams{StartTime: n(100), EndTime: n(200), CurrentTimestamp: 300})

	_, err := Validate(in)
	td.CmpNoError(t, err)
}

/*//////////////////////////////////////////////////////////////
                            ENCODING
//////////////////////////////////////////////////////////////*/

func TestSelectors(t *testing.T) {
	contract, err := ABI()
	td.Require(t).CmpNoError(err)

	golden := map[string]string{
		"fulfillAdvancedOrder":           "e7acab24",
		"fulfillAvailableAdvancedOrders": "87201b41",
	}
	for name, selector := range golden {
		method, ok := contract.Methods[name]
		td.Require(t).True(ok, name)
		td.Cmp(t, hex.EncodeToString(method.ID), selector, name)
		td.Cmp(t, method.ID, crypto.Keccak256([]byte(method.Sig))[:4], name)
	}
}

func fulfillmentInput(o Order) AdvancedFulfillmentInput {
	offererBalances, fulfillerBalances := richBalances()
	return AdvancedFulfillmentInput{
		Order:             o,
		TotalFilled:       n(0),
		TotalSize:         n(1),
		OffererBalances:   offererBalances,
		FulfillerBalances: fulfillerBalances,
		OffererOperator:   conduit,
		FulfillerOperator: conduit,
		Fulfiller:         fulfiller,
		ConduitKey:        common.HexToHash("0xaa"),
		Recipient:         fulfiller,
	}
}

func TestEncodeAdvancedFulfillmentSingleUnit(t *testing.T) {
	prepared, err := EncodeAdvancedFulfillment(fulfillmentInput(listing()))
	td.Require(t).CmpNoError(err)

	td.Cmp(t, prepared.Value.String(), "1000")
	td.Cmp(t, prepared.Numerator.String(), "1")
	td.Cmp(t, prepared.Denominator.String(), "1")

	order, resolvers, conduitKey, recipient := decodeFulfill(t, prepared.Data)
	td.Cmp(t, order.Numerator.String(), "1")
	td.Cmp(t, order.Denominator.String(), "1")
	td.Cmp(t, order.Signature, []byte{0x01, 0x02})
	td.Cmp(t, order.ExtraData, []byte{})
	td.Cmp(t, order.Parameters.Offerer, offerer)
	td.Cmp(t, order.Parameters.Offer[0].IdentifierOrCriteria.String(), "5")
	td.Cmp(t, len(order.Parameters.Consideration), 2)
	td.Cmp(t, order.Parameters.TotalOriginalConsiderationItems.String(), "2")
	td.CmpEmpty(t, resolvers)
	td.Cmp(t, common.Hash(conduitKey), common.HexToHash("0xaa"))
	td.Cmp(t, recipient, fulfiller)
}

// full calldata of a one unit listing, word by word
func TestFulfillAdvancedOrderCalldata(t *testing.T) {
	prepared, err := EncodeAdvancedFulfillment(fulfillmentInput(listing()))
	td.Require(t).CmpNoError(err)

	want := strings.Join([]string{
		"e7acab24",                                                         // selector
		"0000000000000000000000000000000000000000000000000000000000000080", // advanced order
		"0000000000000000000000000000000000000000000000000000000000000540", // criteria resolvers
		"00000000000000000000000000000000000000000000000000000000000000aa", // fulfiller conduit key
		"0000000000000000000000002000000000000000000000000000000000000002", // recipient
		"00000000000000000000000000000000000000000000000000000000000000a0", // order parameters
		"0000000000000000000000000000000000000000000000000000000000000001", // numerator
		"0000000000000000000000000000000000000000000000000000000000000001", // denominator
		"0000000000000000000000000000000000000000000000000000000000000460", // signature
		"00000000000000000000000000000000000000000000000000000000000004a0", // extra data
		"0000000000000000000000001000000000000000000000000000000000000001", // offerer
		"0000000000000000000000000000000000000000000000000000000000000000", // zone
		"0000000000000000000000000000000000000000000000000000000000000160", // offer
		"0000000000000000000000000000000000000000000000000000000000000220", // consideration
		"0000000000000000000000000000000000000000000000000000000000000000", // order type
		"0000000000000000000000000000000000000000000000000000000000000000", // start time
		"0000000000000000000000000000000000000000000000000000000077359400", // end time
		"0000000000000000000000000000000000000000000000000000000000000000", // zone hash
		"000000000000000000000000000000000000000000000000000000000000002a", // salt
		"0000000000000000000000000000000000000000000000000000000000000000", // conduit key
		"0000000000000000000000000000000000000000000000000000000000000002", // total original consideration items
		"0000000000000000000000000000000000000000000000000000000000000001", // one offer item
		"0000000000000000000000000000000000000000000000000000000000000002",
		"0000000000000000000000004000000000000000000000000000000000000004",
		"0000000000000000000000000000000000000000000000000000000000000005",
		"0000000000000000000000000000000000000000000000000000000000000001",
		"0000000000000000000000000000000000000000000000000000000000000001",
		"0000000000000000000000000000000000000000000000000000000000000002", // two consideration items
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"00000000000000000000000000000000000000000000000000000000000003b6",
		"00000000000000000000000000000000000000000000000000000000000003b6",
		"0000000000000000000000001000000000000000000000000000000000000001",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000032",
		"0000000000000000000000000000000000000000000000000000000000000032",
		"0000000000000000000000003000000000000000000000000000000000000003",
		"0000000000000000000000000000000000000000000000000000000000000002", // signature length
		"0102000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000000", // empty extra data
		"0000000000000000000000000000000000000000000000000000000000000000", // no criteria resolvers
	}, "")
	td.Cmp(t, hex.EncodeToString(prepared.Data), want)
}

func TestEncodeAdvancedFulfillmentPartialWithTips(t *testing.T) {
	in := fulfillmentInput(partialListing())
	in.TotalSize = n(10)
	in.TotalFilled = n(0)
	in.UnitsToFill = mo.Some(n(2))
	in.Tips = []ConsiderationItem{pay(ItemNative, common.Address{}, 0, 100, feeTaker)}
	in.OffererBalances = BalancesAndApprovals{
		{Token: nft, Identifier: n(7), Balance: n(10), ApprovedAmount: n(10), ItemType: ItemERC1155},
	}

	prepared, err := EncodeAdvancedFulfillment(in)
	td.Require(t).CmpNoError(err)

	// 2/10 of 10000 plus 2/10 of the 100 tip
	td.Cmp(t, prepared.Value.String(), "2020")
	td.Cmp(t, prepared.Numerator.String(), "1")
	td.Cmp(t, prepared.Denominator.String(), "5")

	order, _, _, _ := decodeFulfill(t, prepared.Data)
	td.Cmp(t, order.Numerator.String(), "1")
	td.Cmp(t, order.Denominator.String(), "5")
	td.Require(t).Cmp(len(order.Parameters.Consideration), 3)
	td.Cmp(t, order.Parameters.TotalOriginalConsiderationItems.String(), "2")
	// the tip goes on chain unscaled, the contract applies the fraction
	td.Cmp(t, order.Parameters.Consideration[2].StartAmount.String(), "100")
	td.Cmp(t, order.Parameters.Consideration[0].StartAmount.String(), "9500")
}

func TestEncodeAdvancedFulfillmentCriteria(t *testing.T) {
	o := listing()
	// a collection offer: the offerer pays WETH for any token of the collection
	o.Parameters.Offer = []Item{item(ItemERC20, weth, 0, 1000)}
	o.Parameters.Consideration = []ConsiderationItem{
		pay(ItemERC721WithCriteria, nft, 0, 1, offerer),
	}
	in := fulfillmentInput(o)
	in.Tips = []ConsiderationItem{pay(ItemERC20, weth, 0, 10, feeTaker)}
	in.OffererBalances = BalancesAndApprovals{
		{Token: weth, Identifier: n(0), Balance: n(1000), ApprovedAmount: n(1000), ItemType: ItemERC20},
	}
	in.FulfillerBalances = BalancesAndApprovals{
		{Token: nft, Identifier: n(9), Balance: n(1), ApprovedAmount: n(1), ItemType: ItemERC721},
	}

	_, err := EncodeAdvancedFulfillment(in)
	td.CmpTrue(t, errors.Is(err, ErrMissingCriteriaResolver))

	in.ConsiderationCriteria = []InputCriteria{{Identifier: n(9)}}
	prepared, err := EncodeAdvancedFulfillment(in)
	td.Require(t).CmpNoError(err)
	td.Cmp(t, prepared.Value.String(), "0")
	td.Require(t).Cmp(len(prepared.ApprovalShortfalls), 1)
	td.Cmp(t, prepared.ApprovalShortfalls[0].Token, weth)

	_, resolvers, _, _ := decodeFulfill(t, prepared.Data)
	td.Require(t).Cmp(len(resolvers), 1)
	td.Cmp(t, resolvers[0].Side, uint8(SideConsideration))
	td.Cmp(t, resolvers[0].Index.String(), "0")
	td.Cmp(t, resolvers[0].Identifier.String(), "9")
	td.Cmp(t, resolvers[0].OrderIndex.String(), "0")
}

func TestEncodeAdvancedFulfillmentInsufficient(t *testing.T) {
	in := fulfillmentInput(listing())
	in.FulfillerBalances = nil

	_, err := EncodeAdvancedFulfillment(in)
	td.CmpTrue(t, errors.Is(err, ErrInsufficientBalanceOrApproval))

	in.DisableCheckingBalances = true
	_, err = EncodeAdvancedFulfillment(in)
	td.CmpNoError(t, err)
}

func TestEncodeAvailableAdvancedOrders(t *testing.T) {
	a := listing()
	b := listing()
	b.Parameters.Offer = []Item{item(ItemERC721, nft, 6, 1)}

	prepared, err := EncodeAvailableAdvancedOrders(AvailableInput{
		Orders: []AvailableOrder{
			{Order: a, TotalFilled: n(0), TotalSize: n(1)},
			{Order: b, TotalFilled: n(0), TotalSize: n(1)},
		},
		Recipient: fulfiller,
	})
	td.Require(t).CmpNoError(err)

	td.Cmp(t, prepared.Value.String(), "2000")
	// two distinct tokens offered, consideration aggregated per recipient
	td.Cmp(t, prepared.OfferFulfillments, [][]FulfillmentComponent{
		{{OrderIndex: 0, ItemIndex: 0}},
		{{OrderIndex: 1, ItemIndex: 0}},
	})
	td.Cmp(t, prepared.ConsiderationFulfillments, [][]FulfillmentComponent{
		{{OrderIndex: 0, ItemIndex: 0}, {OrderIndex: 1, ItemIndex: 0}},
		{{OrderIndex: 0, ItemIndex: 1}, {OrderIndex: 1, ItemIndex: 1}},
	})

	contract, err := ABI()
	td.Require(t).CmpNoError(err)
	method := contract.Methods["fulfillAvailableAdvancedOrders"]
	td.Cmp(t, prepared.Data[:4], method.ID)
	args, err := method.Inputs.Unpack(prepared.Data[4:])
	td.Require(t).CmpNoError(err)
	td.Cmp(t, args[6].(*big.Int).String(), "2")
}

func TestEncodeAvailableAdvancedOrdersEmpty(t *testing.T) {
	_, err := EncodeAvailableAdvancedOrders(AvailableInput{})
	td.CmpTrue(t, errors.Is(err, types.ErrEncoding))
}

/*//////////////////////////////////////////////////////////////
                       BALANCE READING
//////////////////////////////////////////////////////////////*/

type mockBalanceReader struct {
	calls    int
	native   *big.Int
	erc20    *big.Int
	allow    *big.Int
	holder   common.Address
	erc1155  *big.Int
	approved bool
}

var _ BalanceReader = (*mockBalanceReader)(nil)

func (m *mockBalanceReader) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	m.calls++
	return m.native, nil
}

func (m *mockBalanceReader) ERC20Balance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	m.calls++
	return m.erc20, nil
}

func (m *mockBalanceReader) ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	m.calls++
	return m.allow, nil
}

func (m *mockBalanceReader) ERC721Owner(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error) {
	m.calls++
	return m.holder, nil
}

func (m *mockBalanceReader) ERC1155Balance(ctx context.Context, token, account common.Address, tokenID *big.Int) (*big.Int, error) {
	m.calls++
	return m.erc1155, nil
}

func (m *mockBalanceReader) IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	m.calls++
	return m.approved, nil
}

func TestReadBalancesAndApprovals(t *testing.T) {
	reader := &mockBalanceReader{
		native: n(5000),
		erc20:  n(300),
		allow:  n(100),
		holder: offerer,
	}

	items := []Item{
		item(ItemNative, common.Address{}, 0, 950),
		item(ItemNative, common.Address{}, 0, 50),
		item(ItemERC20, weth, 0, 10),
		item(ItemERC721WithCriteria, nft, 0, 1),
	}
	criterias := []InputCriteria{{Identifier: n(9)}}

	balances, err := ReadBalancesAndApprovals(context.Background(), reader, offerer, conduit, SideConsideration, items, criterias)
	td.Require(t).CmpNoError(err)
	td.Require(t).Len(balances, 3)

	// duplicates are read once
	td.Cmp(t, reader.calls, 5)

	native, ok := balances.Find(common.Address{}, n(0))
	td.Require(t).True(ok)
	td.Cmp(t, native.Balance.Int64(), int64(5000))

	erc20, ok := balances.Find(weth, n(0))
	td.Require(t).True(ok)
	td.Cmp(t, erc20.ApprovedAmount.Int64(), int64(100))

	owned, ok := balances.Find(nft, n(9))
	td.Require(t).True(ok)
	td.Cmp(t, owned.ItemType, ItemERC721)
	td.Cmp(t, owned.Balance.Int64(), int64(1))
	td.Cmp(t, owned.ApprovedAmount.Sign(), 0)
}

func TestReadBalancesAndApprovalsMissingCriteria(t *testing.T) {
	_, err := ReadBalancesAndApprovals(
		context.Background(),
		&mockBalanceReader{},
		offerer,
		conduit,
		SideOffer,
		[]Item{item(ItemERC1155WithCriteria, nft, 0, 1)},
		nil,
	)
	td.CmpTrue(t, errors.Is(err, ErrMissingCriteriaResolver))
}
