package fill

import (
	"context"
	"fmt"
	"math/big"
	"slices"

	"github.com/banky/go-nft-fill/chain"
	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/fee"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

func batchError(i int, err error) error {
	return fmt.Errorf("batch order %d: %w", i, err)
}

// sameSeaport reports whether every request fills a seaport order of one
// version without origin fees
func sameSeaport(requests []order.FillRequest, originFees []order.Part) bool {
	if len(originFees) > 0 {
		return false
	}
	protocol := requests[0].Order.Protocol
	if !protocol.IsSeaport() {
		return false
	}
	for _, req := range requests {
		if req.Order.Protocol != protocol {
			return false
		}
	}
	return true
}

// FillBatch encodes the purchase of several sell orders in one transaction.
// Orders of one seaport version are filled with fulfillAvailableAdvancedOrders,
// anything else goes through the wrapper's bulkPurchase. A failure of any
// order fails the whole batch.
func (f *Filler) FillBatch(ctx context.Context, requests []order.FillRequest, originFees []order.Part) (PreparedFillData, error) {
	if len(requests) == 0 {
		return PreparedFillData{}, types.Encodingf("", "empty batch")
	}
	for i, req := range requests {
		if err := req.Validate(); err != nil {
			return PreparedFillData{}, batchError(i, err)
		}
		if !req.Order.IsSell() {
			return PreparedFillData{}, batchError(i, types.Encodingf(string(req.Order.Protocol), "batches only buy sell orders"))
		}
		if len(req.OriginFees) > 0 {
			return PreparedFillData{}, batchError(i, types.Encodingf(string(req.Order.Protocol), "origin fees are set for the whole batch"))
		}
		if req.Order.Protocol == order.CryptoPunk {
			return PreparedFillData{}, batchError(i, &types.UnsupportedError{Protocol: string(req.Order.Protocol), Op: "batch purchases"})
		}
		if req.AddRoyalty && !handlers[req.Order.Protocol].royalties {
			return PreparedFillData{}, batchError(i, &types.UnsupportedError{Protocol: string(req.Order.Protocol), Op: "additional royalties"})
		}
	}

	if sameSeaport(requests, originFees) {
		prepared, err := f.fillSeaportAvailable(ctx, requests)
		if err != nil {
			return PreparedFillData{}, err
		}
		prepared.MarketID = handlers[requests[0].Order.Protocol].marketID
		return prepared, nil
	}

	wrapper := f.config.Exchange.Wrapper
	if wrapper == constants.ZERO_ADDRESS {
		return PreparedFillData{}, &types.UnsupportedError{Op: fmt.Sprintf("batch purchases on chain %d", f.config.ChainID)}
	}
	wrapperFees, err := fee.PackWrapperFees(originFees)
	if err != nil {
		return PreparedFillData{}, err
	}

	details := make([]purchaseDetailsTuple, len(requests))
	value := new(big.Int)
	var from common.Address
	for i, req := range requests {
		// origin fees are paid by the wrapper once for the whole batch
		fc, h, err := f.prepare(ctx, req, true)
		if err != nil {
			return PreparedFillData{}, batchError(i, err)
		}
		onTop := append(slices.Clone(originFees), fc.royalties...)
		if err := fee.Validate(nil, onTop, fc.baseFee); err != nil {
			return PreparedFillData{}, batchError(i, err)
		}
		prepared, err := h.transactionData(ctx, f, fc)
		if err != nil {
			return PreparedFillData{}, batchError(i, err)
		}
		prepared.MarketID = h.marketID

		var orderValue *big.Int
		details[i], orderValue, err = purchaseDetails(prepared, wrapperFees, fc.baseFee, fc.royalties)
		if err != nil {
			return PreparedFillData{}, batchError(i, err)
		}
		value.Add(value, orderValue)
		from = fc.taker
	}

	data, err := wrapperABI.Pack("bulkPurchase", details, wrapperFees.First, wrapperFees.Second, false)
	if err != nil {
		return PreparedFillData{}, types.Encodingf("", "bulkPurchase: %v", err)
	}
	return PreparedFillData{
		Contract: wrapper,
		Method:   "bulkPurchase",
		Data:     data,
		Value:    value,
		From:     from,
	}, nil
}

// BuyBatch encodes and submits a batch purchase
func (f *Filler) BuyBatch(ctx context.Context, requests []order.FillRequest, originFees []order.Part) (*chain.Transaction, error) {
	prepared, err := f.FillBatch(ctx, requests, originFees)
	if err != nil {
		return nil, err
	}
	hash, err := f.wallet.SendTransaction(ctx, prepared.call(), SendOptions{Value: prepared.Value})
	if err != nil {
		return nil, fmt.Errorf("failed to send batch: %w", err)
	}
	f.logger.With(zap.String("tx", hash.Hex()), zap.Int("orders", len(requests))).Info("Batch sent")

	return chain.NewTransaction(
		f.backend, hash, prepared.From, prepared.Contract, prepared.Data, prepared.Value,
		chain.WithConfirmationAttempts(f.config.ConfirmationAttempts),
		chain.WithConfirmationInterval(f.config.ConfirmationInterval),
	), nil
}
