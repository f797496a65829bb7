package fill

import (
	"context"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const (
	looksRareV2Bid uint8 = 0
	looksRareV2Ask uint8 = 1
)

type looksRareV2TakerTuple struct {
	Recipient            common.Address
	AdditionalParameters []byte
}

type looksRareV2MakerTuple struct {
	QuoteType            uint8
	GlobalNonce          *big.Int
	SubsetNonce          *big.Int
	OrderNonce           *big.Int
	StrategyId           *big.Int
	CollectionType       uint8
	Collection           common.Address
	Currency             common.Address
	Signer               common.Address
	StartTime            *big.Int
	EndTime              *big.Int
	Price                *big.Int
	ItemIds              []*big.Int
	Amounts              []*big.Int
	AdditionalParameters []byte
}

type merkleTreeTuple struct {
	Root  [32]byte
	Proof []merkleNodeTuple
}

type merkleNodeTuple struct {
	Value    [32]byte
	Position uint8
}

func looksRareV2Orders(fc *fillContext) (looksRareV2MakerTuple, looksRareV2TakerTuple, merkleTreeTuple, error) {
	o := fc.order()
	data, ok := o.Data.(order.LooksRareV2Data)
	if !ok {
		return looksRareV2MakerTuple{}, looksRareV2TakerTuple{}, merkleTreeTuple{}, types.Encodingf(string(o.Protocol), "not a looksrare v2 order")
	}

	quoteType := looksRareV2Bid
	if o.IsSell() {
		quoteType = looksRareV2Ask
	}
	if data.QuoteType != quoteType {
		return looksRareV2MakerTuple{}, looksRareV2TakerTuple{}, merkleTreeTuple{}, types.Encodingf(
			string(o.Protocol), "quote type %d does not match the order side", data.QuoteType,
		)
	}

	nft, currency := o.NFT(), o.Currency()
	currencyAddress := constants.ZERO_ADDRESS
	if currency.Type.Class == order.ClassERC20 {
		currencyAddress = currency.Type.Contract
	}

	itemIDs := []*big.Int{}
	if nft.Type.TokenID != nil {
		itemIDs = append(itemIDs, nft.Type.TokenID)
	}
	maker := looksRareV2MakerTuple{
		QuoteType:            data.QuoteType,
		GlobalNonce:          utils.OrZero(data.GlobalNonce),
		SubsetNonce:          utils.OrZero(data.SubsetNonce),
		OrderNonce:           utils.OrZero(data.OrderNonce),
		StrategyId:           utils.OrZero(data.StrategyID),
		CollectionType:       data.CollectionType,
		Collection:           nft.Type.Contract,
		Currency:             currencyAddress,
		Signer:               o.Maker,
		StartTime:            new(big.Int).SetUint64(o.Start.OrEmpty()),
		EndTime:              new(big.Int).SetUint64(o.End.OrEmpty()),
		Price:                utils.OrZero(currency.Value),
		ItemIds:              itemIDs,
		Amounts:              []*big.Int{utils.OrZero(nft.Value)},
		AdditionalParameters: nonNil(data.AdditionalParameters),
	}

	taker := looksRareV2TakerTuple{Recipient: fc.recipient, AdditionalParameters: []byte{}}
	if o.IsCollectionBid() {
		// collection bids take the sold token id from the taker
		args, err := arguments(abi.ArgumentMarshaling{Name: "tokenId", Type: "uint256"})
		if err != nil {
			return looksRareV2MakerTuple{}, looksRareV2TakerTuple{}, merkleTreeTuple{}, err
		}
		if taker.AdditionalParameters, err = args.Pack(utils.OrZero(fc.nft.TokenID)); err != nil {
			return looksRareV2MakerTuple{}, looksRareV2TakerTuple{}, merkleTreeTuple{}, types.Encodingf(string(o.Protocol), "taker params: %v", err)
		}
	}

	tree := merkleTreeTuple{Root: data.MerkleRoot, Proof: make([]merkleNodeTuple, len(data.MerkleProof))}
	for i, node := range data.MerkleProof {
		tree.Proof[i] = merkleNodeTuple{Value: node.Value, Position: node.Position}
	}
	return maker, taker, tree, nil
}

func looksRareV2TransactionData(_ context.Context, f *Filler, fc *fillContext) (PreparedFillData, error) {
	exchange, err := f.config.ExchangeFor(order.LooksRareV2)
	if err != nil {
		return PreparedFillData{}, err
	}
	maker, taker, tree, err := looksRareV2Orders(fc)
	if err != nil {
		return PreparedFillData{}, err
	}

	method := "executeTakerAsk"
	value := new(big.Int)
	if fc.isBuy() {
		method = "executeTakerBid"
		if maker.Currency == constants.ZERO_ADDRESS {
			value = new(big.Int).Set(maker.Price)
		}
	}

	data, err := looksRareV2ABI.Pack(method, taker, maker, nonNil(fc.order().Signature), tree, constants.ZERO_ADDRESS)
	if err != nil {
		return PreparedFillData{}, types.Encodingf(string(order.LooksRareV2), "%s: %v", method, err)
	}
	return PreparedFillData{Contract: exchange, Method: method, Data: data, Value: value}, nil
}

func looksRareV2Approvals(ctx context.Context, f *Filler, fc *fillContext) ([]Approval, error) {
	if fc.isBuy() {
		exchange, err := f.config.ExchangeFor(order.LooksRareV2)
		if err != nil {
			return nil, err
		}
		return f.paymentApproval(ctx, fc, exchange, fc.order().Currency().Value)
	}
	return f.nftApproval(ctx, fc.nft.Contract, fc.taker, f.config.TransferProxies.LooksRareV2TransferManager)
}
