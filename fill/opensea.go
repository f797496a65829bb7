package fill

import (
	"context"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/opensea"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
)

// wyvernCounter pairs a wyvern order with the counter order of the fill
type wyvernCounter struct {
	order   opensea.Order
	counter opensea.Order
}

func invertOpenSea(f *Filler, fc *fillContext) error {
	o, err := fc.order().OpenSea()
	if err != nil {
		return err
	}
	if o.Exchange == constants.ZERO_ADDRESS {
		if o.Exchange, err = f.config.ExchangeFor(order.OpenSeaV1); err != nil {
			return err
		}
	}

	counter, err := opensea.Invert(o, fc.caller, f.config.FeeRecipient, fc.now.Unix())
	if err != nil {
		return err
	}
	fc.wyvern = wyvernCounter{order: o, counter: counter}
	return nil
}

func openSeaTransactionData(_ context.Context, f *Filler, fc *fillContext) (PreparedFillData, error) {
	prepared, err := opensea.Fill(fc.wyvern.order, fc.wyvern.counter, f.config.OpenSea.Metadata, fc.now.Unix())
	if err != nil {
		return PreparedFillData{}, err
	}
	return PreparedFillData{
		Contract: fc.wyvern.order.Exchange,
		Method:   "atomicMatch_",
		Data:     prepared.Data,
		Value:    prepared.Value,
	}, nil
}

// openSeaApprovals covers the erc20 payment of a buy through the token
// transfer proxy, and for a sale the user proxy, registering it first when
// the seller has none
func openSeaApprovals(ctx context.Context, f *Filler, fc *fillContext) ([]Approval, error) {
	if fc.isBuy() {
		price, err := opensea.CurrentPrice(fc.wyvern.order, fc.now.Unix())
		if err != nil {
			return nil, err
		}
		return f.paymentApproval(ctx, fc, f.config.OpenSea.TokenTransferProxy, price)
	}

	registry := f.config.OpenSea.ProxyRegistry
	if registry == constants.ZERO_ADDRESS {
		return nil, &types.UnsupportedError{Protocol: string(order.OpenSeaV1), Op: "selling without a proxy registry"}
	}
	proxy, err := f.reader.ProxyOf(ctx, registry, fc.taker)
	if err != nil {
		return nil, err
	}
	if proxy == constants.ZERO_ADDRESS {
		return []Approval{{Kind: ApprovalRegisterProxy, Token: registry}}, nil
	}
	return f.nftApproval(ctx, fc.nft.Contract, fc.taker, proxy)
}
