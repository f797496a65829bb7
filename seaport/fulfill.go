package seaport

import (
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

type AdvancedFulfillmentInput struct {
	Order Order
	// UnitsToFill selects a partial fill. When absent the remaining part of
	// the order is filled.
	UnitsToFill           mo.Option[*big.Int]
	TotalFilled           *big.Int
	TotalSize             *big.Int
	OfferCriteria         []InputCriteria
	ConsiderationCriteria []InputCriteria
	// Tips are extra consideration items expressed for the full order size
	Tips              []ConsiderationItem
	ExtraData         []byte
	OffererBalances   BalancesAndApprovals
	FulfillerBalances BalancesAndApprovals
	OffererOperator   common.Address
	FulfillerOperator common.Address
	Fulfiller         common.Address
	// Now is the block timestamp used to price time based items
	Now                     mo.Option[uint64]
	AscendingBuffer         uint64
	ConduitKey              common.Hash
	Recipient               common.Address
	DisableCheckingBalances bool
}

// Prepared is an encoded fulfillAdvancedOrder call
type Prepared struct {
	Data        []byte
	Value       *big.Int
	Numerator   *big.Int
	Denominator *big.Int
	Resolvers   []CriteriaResolver
	// Scaled holds the order amounts of this fill, tips included
	Scaled OrderParameters
	// ApprovalShortfalls are fulfiller approvals still missing
	ApprovalShortfalls []Shortfall
}

// EncodeAdvancedFulfillment scales the order to the requested fill, checks
// criteria, balances and approvals and encodes fulfillAdvancedOrder. The
// value to send is the native consideration of the fill, tips included.
func EncodeAdvancedFulfillment(in AdvancedFulfillmentInput) (Prepared, error) {
	params := in.Order.Parameters

	num, den, err := FillFraction(params, in.UnitsToFill, in.TotalFilled, in.TotalSize)
	if err != nil {
		return Prepared{}, err
	}

	scaled, err := ScaleOrder(params, num, den)
	if err != nil {
		return Prepared{}, err
	}
	scaledTips, err := ScaleConsideration(in.Tips, num, den)
	if err != nil {
		return Prepared{}, err
	}
	scaled.Consideration = append(scaled.Consideration, scaledTips...)

	considerationItems := ConsiderationBase(scaled.Consideration)
	if err := CheckCriteriaCounts(
		scaled.Offer,
		considerationItems,
		in.OfferCriteria,
		in.ConsiderationCriteria,
	); err != nil {
		return Prepared{}, err
	}

	timeParams := mo.None[TimeParams]()
	if now, ok := in.Now.Get(); ok {
		timeParams = mo.Some(params.TimeParams(now, in.AscendingBuffer))
	}

	value := NativeAmount(considerationItems, in.ConsiderationCriteria, timeParams, true)

	approvals, err := Validate(ValidateInput{
		Offer:                   scaled.Offer,
		Consideration:           scaled.Consideration,
		OfferCriteria:           in.OfferCriteria,
		ConsiderationCriteria:   in.ConsiderationCriteria,
		OffererBalances:         in.OffererBalances,
		FulfillerBalances:       in.FulfillerBalances,
		TimeParams:              timeParams,
		OffererOperator:         in.OffererOperator,
		FulfillerOperator:       in.FulfillerOperator,
		Fulfiller:               in.Fulfiller,
		DisableCheckingBalances: in.DisableCheckingBalances,
	})
	if err != nil {
		return Prepared{}, err
	}

	// Resolver indexes address the submitted lists: original consideration
	// followed by the tips
	submitted := params
	submitted.Consideration = append(
		append([]ConsiderationItem{}, params.Consideration...),
		in.Tips...,
	)
	submitted.TotalOriginalConsiderationItems = len(params.Consideration)

	var resolvers []CriteriaResolver
	if len(in.OfferCriteria)+len(in.ConsiderationCriteria) > 0 {
		resolvers = GenerateCriteriaResolvers(
			0,
			submitted.Offer,
			ConsiderationBase(submitted.Consideration),
			in.OfferCriteria,
			in.ConsiderationCriteria,
		)
	}

	advanced, err := toAdvancedOrderTuple(Order{Parameters: submitted, Signature: in.Order.Signature}, num, den, in.ExtraData)
	if err != nil {
		return Prepared{}, err
	}

	contract, err := ABI()
	if err != nil {
		return Prepared{}, fmt.Errorf("failed to parse seaport abi: %w", err)
	}

	data, err := contract.Pack(
		"fulfillAdvancedOrder",
		advanced,
		toResolverTuples(resolvers),
		[32]byte(in.ConduitKey),
		in.Recipient,
	)
	if err != nil {
		return Prepared{}, types.Encodingf(protocolName, "fulfillAdvancedOrder: %v", err)
	}

	return Prepared{
		Data:               data,
		Value:              value,
		Numerator:          num,
		Denominator:        den,
		Resolvers:          resolvers,
		Scaled:             scaled,
		ApprovalShortfalls: approvals,
	}, nil
}

/*//////////////////////////////////////////////////////////////
                          TUPLE MAPPING
//////////////////////////////////////////////////////////////*/

func checkItem(item Item) error {
	if !item.ItemType.Valid() {
		return types.Encodingf(protocolName, "unknown item type %d", item.ItemType)
	}
	for _, v := range []*big.Int{item.IdentifierOrCriteria, item.StartAmount, item.EndAmount} {
		if err := utils.CheckUint(v, 256); err != nil {
			return types.Encodingf(protocolName, "item: %v", err)
		}
	}
	return nil
}

func toAdvancedOrderTuple(order Order, num, den *big.Int, extraData []byte) (advancedOrderTuple, error) {
	p := order.Parameters

	offer := make([]offerItemTuple, len(p.Offer))
	for i, item := range p.Offer {
		if err := checkItem(item); err != nil {
			return advancedOrderTuple{}, err
		}
		offer[i] = offerItemTuple{
			ItemType:             uint8(item.ItemType),
			Token:                item.Token,
			IdentifierOrCriteria: utils.OrZero(item.IdentifierOrCriteria),
			StartAmount:          utils.OrZero(item.StartAmount),
			EndAmount:            utils.OrZero(item.EndAmount),
		}
	}

	consideration := make([]considerationItemTuple, len(p.Consideration))
	for i, item := range p.Consideration {
		if err := checkItem(item.Item); err != nil {
			return advancedOrderTuple{}, err
		}
		consideration[i] = considerationItemTuple{
			ItemType:             uint8(item.ItemType),
			Token:                item.Token,
			IdentifierOrCriteria: utils.OrZero(item.IdentifierOrCriteria),
			StartAmount:          utils.OrZero(item.StartAmount),
			EndAmount:            utils.OrZero(item.EndAmount),
			Recipient:            item.Recipient,
		}
	}

	if p.OrderType > Contract {
		return advancedOrderTuple{}, types.Encodingf(protocolName, "unknown order type %d", p.OrderType)
	}

	if extraData == nil {
		extraData = []byte{}
	}

	return advancedOrderTuple{
		Parameters: orderParametersTuple{
			Offerer:                         p.Offerer,
			Zone:                            p.Zone,
			Offer:                           offer,
			Consideration:                   consideration,
			OrderType:                       uint8(p.OrderType),
			StartTime:                       utils.OrZero(p.StartTime),
			EndTime:                         utils.OrZero(p.EndTime),
			ZoneHash:                        [32]byte(p.ZoneHash),
			Salt:                            utils.OrZero(p.Salt),
			ConduitKey:                      [32]byte(p.ConduitKey),
			TotalOriginalConsiderationItems: big.NewInt(int64(p.TotalOriginalConsiderationItems)),
		},
		Numerator:   num,
		Denominator: den,
		Signature:   order.Signature,
		ExtraData:   extraData,
	}, nil
}

func toResolverTuples(resolvers []CriteriaResolver) []criteriaResolverTuple {
	out := make([]criteriaResolverTuple, len(resolvers))
	for i, r := range resolvers {
		proof := make([][32]byte, len(r.CriteriaProof))
		for j, p := range r.CriteriaProof {
			proof[j] = [32]byte(p)
		}
		out[i] = criteriaResolverTuple{
			OrderIndex:    big.NewInt(int64(r.OrderIndex)),
			Side:          uint8(r.Side),
			Index:         big.NewInt(int64(r.Index)),
			Identifier:    utils.OrZero(r.Identifier),
			CriteriaProof: proof,
		}
	}
	return out
}
