package fill

import (
	"context"
	"math/big"

	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
)

// punksTransactionData buys a punk or sells one into a bid. Listings are not
// escrowed, so the seller must still own the punk.
func punksTransactionData(ctx context.Context, f *Filler, fc *fillContext) (PreparedFillData, error) {
	o := fc.order()
	market, err := f.config.ExchangeFor(order.CryptoPunk)
	if err != nil {
		return PreparedFillData{}, err
	}
	if fc.nft.Class != order.ClassCryptoPunks || fc.nft.TokenID == nil {
		return PreparedFillData{}, types.Encodingf(string(o.Protocol), "order does not trade a punk")
	}
	index := fc.nft.TokenID
	price := utils.OrZero(o.Currency().Value)

	owner, err := f.reader.PunkOwner(ctx, market, index)
	if err != nil {
		return PreparedFillData{}, err
	}
	seller := o.Maker
	if !fc.isBuy() {
		seller = fc.taker
	}
	if owner != seller {
		return PreparedFillData{}, types.Encodingf(string(o.Protocol), "punk %s is owned by %s, not %s", index, owner.Hex(), seller.Hex())
	}

	if fc.isBuy() {
		data, err := punksMarketABI.Pack("buyPunk", index)
		if err != nil {
			return PreparedFillData{}, types.Encodingf(string(o.Protocol), "buyPunk: %v", err)
		}
		return PreparedFillData{Contract: market, Method: "buyPunk", Data: data, Value: new(big.Int).Set(price)}, nil
	}

	data, err := punksMarketABI.Pack("acceptBidForPunk", index, price)
	if err != nil {
		return PreparedFillData{}, types.Encodingf(string(o.Protocol), "acceptBidForPunk: %v", err)
	}
	return PreparedFillData{Contract: market, Method: "acceptBidForPunk", Data: data, Value: new(big.Int)}, nil
}

// the punks market moves punks itself
func punksApprovals(context.Context, *Filler, *fillContext) ([]Approval, error) {
	return nil, nil
}
