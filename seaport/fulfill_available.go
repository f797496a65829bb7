package seaport

import (
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

// AvailableOrder is one order of a fulfillAvailableAdvancedOrders call
type AvailableOrder struct {
	Order                 Order
	UnitsToFill           mo.Option[*big.Int]
	TotalFilled           *big.Int
	TotalSize             *big.Int
	OfferCriteria         []InputCriteria
	ConsiderationCriteria []InputCriteria
	Tips                  []ConsiderationItem
	ExtraData             []byte
}

type AvailableInput struct {
	Orders          []AvailableOrder
	Now             mo.Option[uint64]
	AscendingBuffer uint64
	ConduitKey      common.Hash
	Recipient       common.Address
}

// FulfillmentComponent points at one item of one order
type FulfillmentComponent struct {
	OrderIndex int
	ItemIndex  int
}

type PreparedAvailable struct {
	Data                      []byte
	Value                     *big.Int
	OfferFulfillments         [][]FulfillmentComponent
	ConsiderationFulfillments [][]FulfillmentComponent
}

// EncodeAvailableAdvancedOrders encodes several orders into one
// fulfillAvailableAdvancedOrders call. Offer items are aggregated per
// (type, token, identifier, offerer, conduit) and consideration items per
// (type, token, identifier, recipient).
func EncodeAvailableAdvancedOrders(in AvailableInput) (PreparedAvailable, error) {
	if len(in.Orders) == 0 {
		return PreparedAvailable{}, types.Encodingf(protocolName, "no orders to fulfill")
	}

	advanced := make([]advancedOrderTuple, len(in.Orders))
	var resolvers []CriteriaResolver
	value := new(big.Int)

	offerGroups := newGroups()
	considerationGroups := newGroups()

	for i, o := range in.Orders {
		params := o.Order.Parameters

		num, den, err := FillFraction(params, o.UnitsToFill, o.TotalFilled, o.TotalSize)
		if err != nil {
			return PreparedAvailable{}, fmt.Errorf("order %d: %w", i, err)
		}
		scaled, err := ScaleOrder(params, num, den)
		if err != nil {
			return PreparedAvailable{}, fmt.Errorf("order %d: %w", i, err)
		}
		scaledTips, err := ScaleConsideration(o.Tips, num, den)
		if err != nil {
			return PreparedAvailable{}, fmt.Errorf("order %d: %w", i, err)
		}
		scaled.Consideration = append(scaled.Consideration, scaledTips...)

		if err := CheckCriteriaCounts(
			scaled.Offer,
			ConsiderationBase(scaled.Consideration),
			o.OfferCriteria,
			o.ConsiderationCriteria,
		); err != nil {
			return PreparedAvailable{}, fmt.Errorf("order %d: %w", i, err)
		}

		timeParams := mo.None[TimeParams]()
		if now, ok := in.Now.Get(); ok {
			timeParams = mo.Some(params.TimeParams(now, in.AscendingBuffer))
		}
		value.Add(value, NativeAmount(ConsiderationBase(scaled.Consideration), o.ConsiderationCriteria, timeParams, true))

		submitted := params
		submitted.Consideration = append(append([]ConsiderationItem{}, params.Consideration...), o.Tips...)
		submitted.TotalOriginalConsiderationItems = len(params.Consideration)

		resolvers = append(resolvers, GenerateCriteriaResolvers(
			i,
			submitted.Offer,
			ConsiderationBase(submitted.Consideration),
			o.OfferCriteria,
			o.ConsiderationCriteria,
		)...)

		for j, item := range submitted.Offer {
			key := fmt.Sprintf("%d-%s-%s-%s-%s",
				item.ItemType, item.Token.Hex(), utils.OrZero(item.IdentifierOrCriteria),
				params.Offerer.Hex(), params.ConduitKey.Hex(),
			)
			offerGroups.add(key, FulfillmentComponent{OrderIndex: i, ItemIndex: j})
		}
		for j, item := range submitted.Consideration {
			key := fmt.Sprintf("%d-%s-%s-%s",
				item.ItemType, item.Token.Hex(), utils.OrZero(item.IdentifierOrCriteria),
				item.Recipient.Hex(),
			)
			considerationGroups.add(key, FulfillmentComponent{OrderIndex: i, ItemIndex: j})
		}

		advanced[i], err = toAdvancedOrderTuple(
			Order{Parameters: submitted, Signature: o.Order.Signature}, num, den, o.ExtraData,
		)
		if err != nil {
			return PreparedAvailable{}, fmt.Errorf("order %d: %w", i, err)
		}
	}

	contract, err := ABI()
	if err != nil {
		return PreparedAvailable{}, fmt.Errorf("failed to parse seaport abi: %w", err)
	}

	data, err := contract.Pack(
		"fulfillAvailableAdvancedOrders",
		advanced,
		toResolverTuples(resolvers),
		offerGroups.tuples(),
		considerationGroups.tuples(),
		[32]byte(in.ConduitKey),
		in.Recipient,
		big.NewInt(int64(len(in.Orders))),
	)
	if err != nil {
		return PreparedAvailable{}, types.Encodingf(protocolName, "fulfillAvailableAdvancedOrders: %v", err)
	}

	return PreparedAvailable{
		Data:                      data,
		Value:                     value,
		OfferFulfillments:         offerGroups.components,
		ConsiderationFulfillments: considerationGroups.components,
	}, nil
}

// groups keeps fulfillment components grouped by key in first seen order
type groups struct {
	index      map[string]int
	components [][]FulfillmentComponent
}

func newGroups() *groups {
	return &groups{index: map[string]int{}}
}

func (g *groups) add(key string, c FulfillmentComponent) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.components)
		g.index[key] = i
		g.components = append(g.components, nil)
	}
	g.components[i] = append(g.components[i], c)
}

func (g *groups) tuples() [][]fulfillmentComponentTuple {
	out := make([][]fulfillmentComponentTuple, len(g.components))
	for i, group := range g.components {
		out[i] = make([]fulfillmentComponentTuple, len(group))
		for j, c := range group {
			out[i][j] = fulfillmentComponentTuple{
				OrderIndex: big.NewInt(int64(c.OrderIndex)),
				ItemIndex:  big.NewInt(int64(c.ItemIndex)),
			}
		}
	}
	return out
}
