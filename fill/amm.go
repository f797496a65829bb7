package fill

import (
	"context"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
)

type swapTuple struct {
	Pair   common.Address
	NftIds []*big.Int
}

// ammSwap is a pool purchase of specific token ids
type ammSwap struct {
	router common.Address
	swap   swapTuple
	total  *big.Int
}

func (f *Filler) ammSwap(fc *fillContext) (ammSwap, error) {
	o := fc.order()
	if !fc.isBuy() {
		return ammSwap{}, &types.UnsupportedError{Protocol: string(o.Protocol), Op: "accepting bids"}
	}
	data, ok := o.Data.(order.AmmData)
	if !ok {
		return ammSwap{}, types.Encodingf(string(o.Protocol), "not an amm order")
	}

	router, ok := data.Router.Get()
	if !ok {
		var err error
		if router, err = f.config.ExchangeFor(order.AMM); err != nil {
			return ammSwap{}, err
		}
	}

	ids := fc.request.AmmTokenIDs
	if len(ids) == 0 {
		ids = []*big.Int{o.Make.Type.TokenID}
	}
	total := new(big.Int).Mul(utils.OrZero(o.Take.Value), big.NewInt(int64(len(ids))))

	return ammSwap{
		router: router,
		swap:   swapTuple{Pair: data.Pool, NftIds: ids},
		total:  total,
	}, nil
}

func ammTransactionData(_ context.Context, f *Filler, fc *fillContext) (PreparedFillData, error) {
	swap, err := f.ammSwap(fc)
	if err != nil {
		return PreparedFillData{}, err
	}
	deadline := new(big.Int).SetInt64(fc.now.Add(constants.AMM_DEADLINE).Unix())

	var (
		method string
		data   []byte
		value  = new(big.Int)
	)
	if fc.order().Currency().Type.Class == order.ClassETH {
		method = "swapETHForSpecificNFTs"
		data, err = sudoswapRouterABI.Pack(method, []swapTuple{swap.swap}, fc.caller, fc.recipient, deadline)
		value = swap.total
	} else {
		method = "swapERC20ForSpecificNFTs"
		data, err = sudoswapRouterABI.Pack(method, []swapTuple{swap.swap}, swap.total, fc.recipient, deadline)
	}
	if err != nil {
		return PreparedFillData{}, types.Encodingf(string(order.AMM), "%s: %v", method, err)
	}
	return PreparedFillData{Contract: swap.router, Method: method, Data: data, Value: value}, nil
}

func ammApprovals(ctx context.Context, f *Filler, fc *fillContext) ([]Approval, error) {
	swap, err := f.ammSwap(fc)
	if err != nil {
		return nil, err
	}
	return f.paymentApproval(ctx, fc, swap.router, swap.total)
}
