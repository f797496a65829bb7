package fill

import (
	"context"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/fee"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// handler knows how to fill orders of one protocol
type handler struct {
	// marketID tags the fill for the exchange wrapper
	marketID uint8
	// wrapOriginFees routes fills with origin fees through the wrapper
	wrapOriginFees bool
	// royalties marks the markets the wrapper pays additional royalties for
	royalties bool
	// invert builds the counter order, nil when the protocol has none
	invert          func(f *Filler, fc *fillContext) error
	approvals       func(ctx context.Context, f *Filler, fc *fillContext) ([]Approval, error)
	transactionData func(ctx context.Context, f *Filler, fc *fillContext) (PreparedFillData, error)
}

var seaportHandler = handler{
	marketID:        constants.WRAPPER_SEAPORT_ADVANCED_ORDERS,
	wrapOriginFees:  true,
	approvals:       seaportApprovals,
	transactionData: seaportTransactionData,
}

func withMarket(h handler, marketID uint8) handler {
	h.marketID = marketID
	return h
}

var handlers = map[order.Protocol]handler{
	order.RaribleV2: {
		marketID:        constants.WRAPPER_RARIBLE_V2,
		invert:          invertNative,
		approvals:       nativeApprovals,
		transactionData: nativeTransactionData,
	},
	order.OpenSeaV1: {
		marketID:        constants.WRAPPER_OPENSEA_V1,
		wrapOriginFees:  true,
		invert:          invertOpenSea,
		approvals:       openSeaApprovals,
		transactionData: openSeaTransactionData,
	},
	order.SeaportV1:   seaportHandler,
	order.SeaportV1_4: withMarket(seaportHandler, constants.WRAPPER_SEAPORT_V14),
	order.SeaportV1_5: withMarket(seaportHandler, constants.WRAPPER_SEAPORT_V15),
	order.SeaportV1_6: withMarket(seaportHandler, constants.WRAPPER_SEAPORT_V16),
	order.LooksRare: {
		marketID:        constants.WRAPPER_LOOKSRARE_ORDERS,
		wrapOriginFees:  true,
		royalties:       true,
		approvals:       looksRareApprovals,
		transactionData: looksRareTransactionData,
	},
	order.LooksRareV2: {
		marketID:        constants.WRAPPER_LOOKSRARE_V2_ORDERS,
		wrapOriginFees:  true,
		royalties:       true,
		approvals:       looksRareV2Approvals,
		transactionData: looksRareV2TransactionData,
	},
	order.X2Y2: {
		marketID:        constants.WRAPPER_X2Y2,
		wrapOriginFees:  true,
		approvals:       x2y2Approvals,
		transactionData: x2y2TransactionData,
	},
	order.AMM: {
		marketID:        constants.WRAPPER_AMM,
		wrapOriginFees:  true,
		royalties:       true,
		approvals:       ammApprovals,
		transactionData: ammTransactionData,
	},
	order.CryptoPunk: {
		approvals:       punksApprovals,
		transactionData: punksTransactionData,
	},
}

/*//////////////////////////////////////////////////////////////
                        EXCHANGE WRAPPER
//////////////////////////////////////////////////////////////*/

type purchaseDetailsTuple struct {
	MarketId uint8
	Amount   *big.Int
	Fees     *big.Int
	Data     []byte
}

type additionalDataTuple struct {
	Data                []byte
	AdditionalRoyalties []*big.Int
}

// withAdditionalRoyalties wraps the market calldata with the royalties the
// wrapper pays on top of the purchase
func withAdditionalRoyalties(data []byte, royalties []order.Part) ([]byte, error) {
	args, err := arguments(abi.ArgumentMarshaling{
		Name: "additionalData",
		Type: "tuple",
		Components: []abi.ArgumentMarshaling{
			{Name: "data", Type: "bytes"},
			{Name: "additionalRoyalties", Type: "uint256[]"},
		},
	})
	if err != nil {
		return nil, err
	}
	return args.Pack(additionalDataTuple{Data: data, AdditionalRoyalties: fee.PackRoyalties(royalties)})
}

// purchaseDetails wraps a prepared fill for the exchange wrapper. The value
// the wrapper needs is the fill amount plus origin fees, royalties and base
// fee.
func purchaseDetails(prepared PreparedFillData, wrapperFees fee.WrapperFees, baseFee uint64, royalties []order.Part) (purchaseDetailsTuple, *big.Int, error) {
	amount := utils.OrZero(prepared.Value)
	details := purchaseDetailsTuple{
		MarketId: prepared.MarketID,
		Amount:   amount,
		Fees:     wrapperFees.Packed,
		Data:     prepared.Data,
	}
	bps := wrapperFees.Bps + baseFee
	if len(royalties) > 0 {
		data, err := withAdditionalRoyalties(prepared.Data, royalties)
		if err != nil {
			return purchaseDetailsTuple{}, nil, types.Encodingf("", "additional royalties: %v", err)
		}
		details.Data = data
		details.Fees = wrapperFees.WithRoyalties().Packed
		bps += sumBps(royalties)
	}
	return details, fee.WithFees(amount, bps), nil
}

// wrapSingle routes a prepared fill through the wrapper's singlePurchase
func (f *Filler) wrapSingle(prepared PreparedFillData, fc *fillContext) (PreparedFillData, error) {
	wrapperFees, err := fee.PackWrapperFees(fc.request.OriginFees)
	if err != nil {
		return PreparedFillData{}, err
	}
	details, value, err := purchaseDetails(prepared, wrapperFees, fc.baseFee, fc.royalties)
	if err != nil {
		return PreparedFillData{}, err
	}

	data, err := wrapperABI.Pack("singlePurchase", details, wrapperFees.First, wrapperFees.Second)
	if err != nil {
		return PreparedFillData{}, types.Encodingf(string(fc.order().Protocol), "singlePurchase: %v", err)
	}
	return PreparedFillData{
		Contract: f.config.Exchange.Wrapper,
		Method:   "singlePurchase",
		Data:     data,
		Value:    value,
		From:     prepared.From,
		MarketID: prepared.MarketID,
	}, nil
}

func sumBps(parts []order.Part) uint64 {
	var total uint64
	for _, p := range parts {
		total += p.Value
	}
	return total
}

// royaltyTokenID is the nft whose royalties the wrapper pays. Pool fills of
// several ids use the first one.
func royaltyTokenID(fc *fillContext) *big.Int {
	if ids := fc.request.AmmTokenIDs; len(ids) > 0 {
		return ids[0]
	}
	return utils.OrZero(fc.nft.TokenID)
}

// readRoyalties resolves the royalties added to a wrapped purchase, dropping
// empty entries
func (f *Filler) readRoyalties(ctx context.Context, fc *fillContext) ([]order.Part, error) {
	royalties, err := f.reader.Royalties(ctx, f.config.Exchange.RoyaltiesRegistry, fc.nft.Contract, royaltyTokenID(fc))
	if err != nil {
		return nil, fmt.Errorf("failed to read royalties: %w", err)
	}

	parts := make([]order.Part, 0, len(royalties))
	for _, r := range royalties {
		if r.Value == nil || r.Value.Sign() == 0 {
			continue
		}
		if !r.Value.IsUint64() {
			return nil, types.Encodingf(string(fc.order().Protocol), "royalty of %s out of range", r.Account.Hex())
		}
		parts = append(parts, order.Part{Account: r.Account, Value: r.Value.Uint64()})
	}
	return parts, nil
}

// dedupeApprovals drops repeated approvals of the same token to the same
// operator, keeping the largest erc20 amount
func dedupeApprovals(approvals []Approval) []Approval {
	out := make([]Approval, 0, len(approvals))
	index := map[string]int{}
	for _, a := range approvals {
		key := fmt.Sprintf("%s-%s-%s", a.Kind, a.Token.Hex(), a.Operator.Hex())
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, a)
			continue
		}
		if a.Amount != nil && (out[i].Amount == nil || a.Amount.Cmp(out[i].Amount) > 0) {
			out[i].Amount = a.Amount
		}
	}
	return out
}
