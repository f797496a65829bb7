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

type looksRareMakerTuple struct {
	IsOrderAsk         bool
	Signer             common.Address
	Collection         common.Address
	Price              *big.Int
	TokenId            *big.Int
	Amount             *big.Int
	Strategy           common.Address
	Currency           common.Address
	Nonce              *big.Int
	StartTime          *big.Int
	EndTime            *big.Int
	MinPercentageToAsk *big.Int
	Params             []byte
	V                  uint8
	R                  [32]byte
	S                  [32]byte
}

type looksRareTakerTuple struct {
	IsOrderAsk         bool
	Taker              common.Address
	Price              *big.Int
	TokenId            *big.Int
	MinPercentageToAsk *big.Int
	Params             []byte
}

// splitSignature splits a 65 byte r||s||v signature, v normalized to 27/28
func splitSignature(protocol order.Protocol, sig []byte) (uint8, [32]byte, [32]byte, error) {
	if len(sig) != 65 {
		return 0, [32]byte{}, [32]byte{}, types.Encodingf(string(protocol), "signature must be 65 bytes, got %d", len(sig))
	}
	v := sig[64]
	if v < 27 {
		v += 27
	}
	return v, [32]byte(sig[:32]), [32]byte(sig[32:64]), nil
}

// looksRareCurrency maps native payment onto weth, which the exchange
// settles native payments in
func (f *Filler) looksRareCurrency(currency order.AssetType) (common.Address, error) {
	if currency.Class == order.ClassERC20 {
		return currency.Contract, nil
	}
	if f.config.WETH == constants.ZERO_ADDRESS {
		return common.Address{}, &types.UnsupportedError{Protocol: string(order.LooksRare), Op: "native payments without weth"}
	}
	return f.config.WETH, nil
}

func (f *Filler) looksRareOrders(fc *fillContext) (looksRareMakerTuple, looksRareTakerTuple, error) {
	o := fc.order()
	data, ok := o.Data.(order.LooksRareData)
	if !ok {
		return looksRareMakerTuple{}, looksRareTakerTuple{}, types.Encodingf(string(o.Protocol), "not a looksrare order")
	}
	v, r, s, err := splitSignature(o.Protocol, o.Signature)
	if err != nil {
		return looksRareMakerTuple{}, looksRareTakerTuple{}, err
	}

	nft, currency := o.NFT(), o.Currency()
	currencyAddress, err := f.looksRareCurrency(currency.Type)
	if err != nil {
		return looksRareMakerTuple{}, looksRareTakerTuple{}, err
	}

	minPercentageToAsk := new(big.Int).SetUint64(data.MinPercentageToAsk)
	maker := looksRareMakerTuple{
		IsOrderAsk:         o.IsSell(),
		Signer:             o.Maker,
		Collection:         nft.Type.Contract,
		Price:              utils.OrZero(currency.Value),
		TokenId:            utils.OrZero(nft.Type.TokenID),
		Amount:             utils.OrZero(nft.Value),
		Strategy:           data.Strategy,
		Currency:           currencyAddress,
		Nonce:              utils.OrZero(data.Nonce),
		StartTime:          new(big.Int).SetUint64(o.Start.OrEmpty()),
		EndTime:            new(big.Int).SetUint64(o.End.OrEmpty()),
		MinPercentageToAsk: minPercentageToAsk,
		Params:             nonNil(data.Params),
		V:                  v,
		R:                  r,
		S:                  s,
	}
	taker := looksRareTakerTuple{
		IsOrderAsk:         !maker.IsOrderAsk,
		Taker:              fc.caller,
		Price:              maker.Price,
		TokenId:            utils.OrZero(fc.nft.TokenID),
		MinPercentageToAsk: minPercentageToAsk,
		Params:             []byte{},
	}
	return maker, taker, nil
}

func looksRareTransactionData(_ context.Context, f *Filler, fc *fillContext) (PreparedFillData, error) {
	exchange, err := f.config.ExchangeFor(order.LooksRare)
	if err != nil {
		return PreparedFillData{}, err
	}
	maker, taker, err := f.looksRareOrders(fc)
	if err != nil {
		return PreparedFillData{}, err
	}

	method := "matchBidWithTakerAsk"
	value := new(big.Int)
	if fc.isBuy() {
		method = "matchAskWithTakerBid"
		if fc.order().Currency().Type.Class == order.ClassETH {
			method = "matchAskWithTakerBidUsingETHAndWETH"
			value = new(big.Int).Set(maker.Price)
		}
	}

	data, err := looksRareABI.Pack(method, taker, maker)
	if err != nil {
		return PreparedFillData{}, types.Encodingf(string(order.LooksRare), "%s: %v", method, err)
	}
	return PreparedFillData{Contract: exchange, Method: method, Data: data, Value: value}, nil
}

func looksRareApprovals(ctx context.Context, f *Filler, fc *fillContext) ([]Approval, error) {
	exchange, err := f.config.ExchangeFor(order.LooksRare)
	if err != nil {
		return nil, err
	}
	if fc.isBuy() {
		return f.paymentApproval(ctx, fc, exchange, fc.order().Currency().Value)
	}

	operator := f.config.TransferProxies.LooksRareTransferManagerERC721
	if fc.nft.IsERC1155() {
		operator = f.config.TransferProxies.LooksRareTransferManagerERC1155
	}
	return f.nftApproval(ctx, fc.nft.Contract, fc.taker, operator)
}
