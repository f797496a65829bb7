package fill

import (
	"context"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/seaport"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

// seaportFill is a seaport fulfillment of one request
type seaportFill struct {
	exchange common.Address
	order    seaport.Order
	prepared seaport.Prepared
}

// seaportOperator returns the account that moves assets for conduitKey:
// seaport itself for the zero key, the configured conduit otherwise
func (f *Filler) seaportOperator(exchange common.Address, conduitKey common.Hash) (common.Address, error) {
	switch conduitKey {
	case constants.ZERO_HASH:
		return exchange, nil
	case f.config.Seaport.ConduitKey:
		return f.config.Seaport.Conduit, nil
	default:
		return common.Address{}, types.Encodingf("SEAPORT", "unknown conduit key %s", conduitKey.Hex())
	}
}

// seaportCriteria returns the criteria of the request. A collection bid
// accepted without explicit criteria resolves its single criteria item to
// the token being sold.
func seaportCriteria(fc *fillContext, params seaport.OrderParameters) ([]seaport.InputCriteria, []seaport.InputCriteria) {
	offer, consideration := fc.request.OfferCriteria, fc.request.ConsiderationCriteria
	if fc.order().IsBid() && len(consideration) == 0 && fc.nft.TokenID != nil &&
		seaport.CountCriteriaItems(seaport.ConsiderationBase(params.Consideration)) == 1 {
		consideration = []seaport.InputCriteria{{Identifier: fc.nft.TokenID}}
	}
	return offer, consideration
}

// seaportUnits picks the units to fill. Orders that only fill as a whole
// take no units.
func seaportUnits(req order.FillRequest, params seaport.OrderParameters) mo.Option[*big.Int] {
	if units, ok := req.UnitsToFill.Get(); ok {
		return mo.Some(units)
	}
	if params.OrderType.SupportsPartialFills() {
		return mo.Some(req.Units())
	}
	return mo.None[*big.Int]()
}

func (f *Filler) prepareSeaport(ctx context.Context, fc *fillContext) (seaportFill, error) {
	o := fc.order()
	so, err := o.Seaport()
	if err != nil {
		return seaportFill{}, err
	}
	exchange, err := f.config.ExchangeFor(o.Protocol)
	if err != nil {
		return seaportFill{}, err
	}

	params := so.Parameters
	offerCriteria, considerationCriteria := seaportCriteria(fc, params)
	submittedConsideration := append(append([]seaport.ConsiderationItem{}, params.Consideration...), fc.request.Tips...)
	if err := seaport.CheckCriteriaCounts(
		params.Offer,
		seaport.ConsiderationBase(submittedConsideration),
		offerCriteria,
		considerationCriteria,
	); err != nil {
		return seaportFill{}, err
	}

	totalFilled, totalSize := new(big.Int), new(big.Int)
	if !o.Hash.IsZero() {
		status, err := f.reader.SeaportOrderStatus(ctx, exchange, common.Hash(o.Hash.Bytes32()))
		if err != nil {
			return seaportFill{}, err
		}
		if status.IsCancelled {
			return seaportFill{}, types.Encodingf(string(o.Protocol), "order %s is cancelled", o.Hash)
		}
		totalFilled, totalSize = status.TotalFilled, status.TotalSize
	}

	now, err := f.reader.LatestTimestamp(ctx)
	if err != nil {
		return seaportFill{}, err
	}

	fulfillerOperator, err := f.seaportOperator(exchange, f.config.Seaport.ConduitKey)
	if err != nil {
		return seaportFill{}, err
	}

	in := seaport.AdvancedFulfillmentInput{
		Order:                   so,
		UnitsToFill:             seaportUnits(fc.request, params),
		TotalFilled:             totalFilled,
		TotalSize:               totalSize,
		OfferCriteria:           offerCriteria,
		ConsiderationCriteria:   considerationCriteria,
		Tips:                    fc.request.Tips,
		ExtraData:               fc.request.ExtraData,
		FulfillerOperator:       fulfillerOperator,
		Fulfiller:               fc.caller,
		Now:                     mo.Some(now),
		AscendingBuffer:         constants.SEAPORT_ASCENDING_BUFFER,
		ConduitKey:              f.config.Seaport.ConduitKey,
		Recipient:               fc.recipient,
		DisableCheckingBalances: fc.request.DisableCheckingBalances || fc.viaWrapper,
	}

	if !in.DisableCheckingBalances {
		if in.OffererOperator, err = f.seaportOperator(exchange, params.ConduitKey); err != nil {
			return seaportFill{}, err
		}
		in.OffererBalances, err = seaport.ReadBalancesAndApprovals(
			ctx, f.reader, params.Offerer, in.OffererOperator,
			seaport.SideOffer, params.Offer, offerCriteria,
		)
		if err != nil {
			return seaportFill{}, err
		}
		in.FulfillerBalances, err = seaport.ReadBalancesAndApprovals(
			ctx, f.reader, fc.caller, fulfillerOperator,
			seaport.SideConsideration, seaport.ConsiderationBase(submittedConsideration), considerationCriteria,
		)
		if err != nil {
			return seaportFill{}, err
		}
	}

	prepared, err := seaport.EncodeAdvancedFulfillment(in)
	if err != nil {
		return seaportFill{}, err
	}
	return seaportFill{exchange: exchange, order: so, prepared: prepared}, nil
}

func seaportTransactionData(ctx context.Context, f *Filler, fc *fillContext) (PreparedFillData, error) {
	fill, err := f.prepareSeaport(ctx, fc)
	if err != nil {
		return PreparedFillData{}, err
	}
	return PreparedFillData{
		Contract: fill.exchange,
		Method:   "fulfillAdvancedOrder",
		Data:     fill.prepared.Data,
		Value:    fill.prepared.Value,
	}, nil
}

// seaportApprovals turns the fulfiller approval shortfalls into approvals
func seaportApprovals(ctx context.Context, f *Filler, fc *fillContext) ([]Approval, error) {
	fill, err := f.prepareSeaport(ctx, fc)
	if err != nil {
		return nil, err
	}

	var approvals []Approval
	for _, shortfall := range fill.prepared.ApprovalShortfalls {
		switch shortfall.ItemType {
		case seaport.ItemERC20:
			approvals = append(approvals, Approval{
				Kind:     ApprovalERC20,
				Token:    shortfall.Token,
				Operator: shortfall.Operator,
				Amount:   shortfall.Required,
			})
		case seaport.ItemERC721, seaport.ItemERC1155:
			approvals = append(approvals, Approval{
				Kind:     ApprovalForAll,
				Token:    shortfall.Token,
				Operator: shortfall.Operator,
			})
		}
	}
	return dedupeApprovals(approvals), nil
}

/*//////////////////////////////////////////////////////////////
                       SEAPORT BATCHES
//////////////////////////////////////////////////////////////*/

// fillSeaportAvailable fills sell orders of one seaport version with a
// single fulfillAvailableAdvancedOrders call
func (f *Filler) fillSeaportAvailable(ctx context.Context, requests []order.FillRequest) (PreparedFillData, error) {
	protocol := requests[0].Order.Protocol
	exchange, err := f.config.ExchangeFor(protocol)
	if err != nil {
		return PreparedFillData{}, err
	}
	from, err := f.wallet.GetFrom(ctx)
	if err != nil {
		return PreparedFillData{}, err
	}
	now, err := f.reader.LatestTimestamp(ctx)
	if err != nil {
		return PreparedFillData{}, err
	}

	orders := make([]seaport.AvailableOrder, len(requests))
	for i, req := range requests {
		so, err := req.Order.Seaport()
		if err != nil {
			return PreparedFillData{}, batchError(i, err)
		}
		totalFilled, totalSize := new(big.Int), new(big.Int)
		if !req.Order.Hash.IsZero() {
			status, err := f.reader.SeaportOrderStatus(ctx, exchange, common.Hash(req.Order.Hash.Bytes32()))
			if err != nil {
				return PreparedFillData{}, batchError(i, err)
			}
			if status.IsCancelled {
				return PreparedFillData{}, batchError(i, types.Encodingf(string(protocol), "order %s is cancelled", req.Order.Hash))
			}
			totalFilled, totalSize = status.TotalFilled, status.TotalSize
		}
		orders[i] = seaport.AvailableOrder{
			Order:                 so,
			UnitsToFill:           seaportUnits(req, so.Parameters),
			TotalFilled:           totalFilled,
			TotalSize:             totalSize,
			OfferCriteria:         req.OfferCriteria,
			ConsiderationCriteria: req.ConsiderationCriteria,
			Tips:                  req.Tips,
			ExtraData:             req.ExtraData,
		}
	}

	prepared, err := seaport.EncodeAvailableAdvancedOrders(seaport.AvailableInput{
		Orders:          orders,
		Now:             mo.Some(now),
		AscendingBuffer: constants.SEAPORT_ASCENDING_BUFFER,
		ConduitKey:      f.config.Seaport.ConduitKey,
		Recipient:       requests[0].Recipient.OrElse(from),
	})
	if err != nil {
		return PreparedFillData{}, err
	}

	return PreparedFillData{
		Contract: exchange,
		Method:   "fulfillAvailableAdvancedOrders",
		Data:     prepared.Data,
		Value:    prepared.Value,
		From:     from,
	}, nil
}
