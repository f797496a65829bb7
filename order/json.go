package order

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/opensea"
	"github.com/banky/go-nft-fill/seaport"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/mo"
)

// Orders are decoded from the indexer representation: assets are described
// by an asset class, integers are decimal strings and the protocol specific
// fields live under "data".

type orderJSON struct {
	Type      Protocol         `json:"type"`
	Hash      types.OrderHash  `json:"hash"`
	Maker     common.Address   `json:"maker"`
	Taker     *common.Address  `json:"taker"`
	Make      assetJSON        `json:"make"`
	Take      assetJSON        `json:"take"`
	Salt      *types.BigString `json:"salt"`
	Start     *uint64          `json:"start"`
	End       *uint64          `json:"end"`
	Signature hexutil.Bytes    `json:"signature"`
	Data      json.RawMessage  `json:"data"`
}

type assetJSON struct {
	AssetType assetTypeJSON    `json:"assetType"`
	Value     *types.BigString `json:"value"`
}

type assetTypeJSON struct {
	AssetClass AssetClass       `json:"assetClass"`
	Contract   *common.Address  `json:"contract"`
	TokenID    *types.BigString `json:"tokenId"`
	URI        string           `json:"uri"`
	Supply     *types.BigString `json:"supply"`
	Creators   []Part           `json:"creators"`
	Royalties  []Part           `json:"royalties"`
	Signatures []hexutil.Bytes  `json:"signatures"`
}

func bigOf(b *types.BigString) *big.Int {
	if b == nil {
		return nil
	}
	return b.Raw()
}

func (a *AssetType) UnmarshalJSON(data []byte) error {
	var raw assetTypeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = raw.toAssetType()
	return nil
}

func (raw assetTypeJSON) toAssetType() AssetType {
	out := AssetType{
		Class:   raw.AssetClass,
		TokenID: bigOf(raw.TokenID),
	}
	if raw.Contract != nil {
		out.Contract = *raw.Contract
	}
	if out.IsLazy() {
		sigs := make([][]byte, len(raw.Signatures))
		for i, s := range raw.Signatures {
			sigs[i] = s
		}
		out.Lazy = mo.Some(LazyMint{
			URI:        raw.URI,
			Supply:     bigOf(raw.Supply),
			Creators:   raw.Creators,
			Royalties:  raw.Royalties,
			Signatures: sigs,
		})
	}
	return out
}

func (a assetJSON) toAsset() Asset {
	return Asset{Type: a.AssetType.toAssetType(), Value: bigOf(a.Value)}
}

// UnmarshalJSON decodes an order and its protocol data
func (o *Order) UnmarshalJSON(data []byte) error {
	var raw orderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Order{
		Protocol:  raw.Type,
		Hash:      raw.Hash,
		Maker:     raw.Maker,
		Make:      raw.Make.toAsset(),
		Take:      raw.Take.toAsset(),
		Salt:      bigOf(raw.Salt),
		Signature: raw.Signature,
	}
	if raw.Taker != nil {
		out.Taker = *raw.Taker
	}
	if raw.Start != nil {
		out.Start = mo.Some(*raw.Start)
	}
	if raw.End != nil {
		out.End = mo.Some(*raw.End)
	}

	orderData, err := decodeData(raw.Type, raw.Data)
	if err != nil {
		return fmt.Errorf("failed to decode %s order data: %w", raw.Type, err)
	}
	out.Data = orderData

	*o = out
	return nil
}

func decodeData(p Protocol, data json.RawMessage) (Data, error) {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}

	switch {
	case p == RaribleV2:
		var raw struct {
			DataType   string `json:"dataType"`
			Payouts    []Part `json:"payouts"`
			OriginFees []Part `json:"originFees"`
			IsMakeFill bool   `json:"isMakeFill"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		dataType := NativeDataV2
		if raw.DataType == "RARIBLE_V2_DATA_V1" || raw.DataType == string(NativeDataV1) {
			dataType = NativeDataV1
		}
		return NativeData{
			Type:       dataType,
			Payouts:    raw.Payouts,
			OriginFees: raw.OriginFees,
			IsMakeFill: raw.IsMakeFill,
		}, nil

	case p == OpenSeaV1:
		var raw struct {
			Exchange           common.Address   `json:"exchange"`
			MakerRelayerFee    *types.BigString `json:"makerRelayerFee"`
			TakerRelayerFee    *types.BigString `json:"takerRelayerFee"`
			MakerProtocolFee   *types.BigString `json:"makerProtocolFee"`
			TakerProtocolFee   *types.BigString `json:"takerProtocolFee"`
			FeeRecipient       common.Address   `json:"feeRecipient"`
			FeeMethod          string           `json:"feeMethod"`
			Side               string           `json:"side"`
			SaleKind           string           `json:"saleKind"`
			HowToCall          string           `json:"howToCall"`
			Target             common.Address   `json:"target"`
			CallData           hexutil.Bytes    `json:"callData"`
			ReplacementPattern hexutil.Bytes    `json:"replacementPattern"`
			StaticTarget       common.Address   `json:"staticTarget"`
			StaticExtraData    hexutil.Bytes    `json:"staticExtraData"`
			Extra              *types.BigString `json:"extra"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		feeMethod, err := enumOf(feeMethods, raw.FeeMethod)
		if err != nil {
			return nil, err
		}
		side, err := enumOf(openSeaSides, raw.Side)
		if err != nil {
			return nil, err
		}
		saleKind, err := enumOf(saleKinds, raw.SaleKind)
		if err != nil {
			return nil, err
		}
		howToCall, err := enumOf(howToCalls, raw.HowToCall)
		if err != nil {
			return nil, err
		}
		return OpenSeaV1Data{
			Exchange:           raw.Exchange,
			MakerRelayerFee:    bigOf(raw.MakerRelayerFee),
			TakerRelayerFee:    bigOf(raw.TakerRelayerFee),
			MakerProtocolFee:   bigOf(raw.MakerProtocolFee),
			TakerProtocolFee:   bigOf(raw.TakerProtocolFee),
			FeeRecipient:       raw.FeeRecipient,
			FeeMethod:          feeMethod,
			Side:               side,
			SaleKind:           saleKind,
			HowToCall:          howToCall,
			Target:             raw.Target,
			Calldata:           raw.CallData,
			ReplacementPattern: raw.ReplacementPattern,
			StaticTarget:       raw.StaticTarget,
			StaticExtradata:    raw.StaticExtraData,
			Extra:              bigOf(raw.Extra),
		}, nil

	case p.IsSeaport():
		var raw struct {
			OrderType     string            `json:"orderType"`
			Zone          common.Address    `json:"zone"`
			ZoneHash      common.Hash       `json:"zoneHash"`
			ConduitKey    common.Hash       `json:"conduitKey"`
			Counter       *types.BigString  `json:"counter"`
			Offer         []seaportItemJSON `json:"offer"`
			Consideration []seaportItemJSON `json:"consideration"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		orderType, err := enumOf(seaportOrderTypes, raw.OrderType)
		if err != nil {
			return nil, err
		}
		out := SeaportData{
			OrderType:  orderType,
			Zone:       raw.Zone,
			ZoneHash:   raw.ZoneHash,
			ConduitKey: raw.ConduitKey,
			Counter:    bigOf(raw.Counter),
		}
		for _, item := range raw.Offer {
			it, err := item.toItem()
			if err != nil {
				return nil, err
			}
			out.Offer = append(out.Offer, it)
		}
		for _, item := range raw.Consideration {
			it, err := item.toItem()
			if err != nil {
				return nil, err
			}
			out.Consideration = append(out.Consideration, seaport.ConsiderationItem{Item: it, Recipient: item.Recipient})
		}
		return out, nil

	case p == LooksRare:
		var raw struct {
			Strategy           common.Address   `json:"strategy"`
			Nonce              *types.BigString `json:"nonce"`
			MinPercentageToAsk uint64           `json:"minPercentageToAsk"`
			Params             hexutil.Bytes    `json:"params"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return LooksRareData{
			Strategy:           raw.Strategy,
			Nonce:              bigOf(raw.Nonce),
			MinPercentageToAsk: raw.MinPercentageToAsk,
			Params:             raw.Params,
		}, nil

	case p == LooksRareV2:
		var raw struct {
			QuoteType            string           `json:"quoteType"`
			GlobalNonce          *types.BigString `json:"globalNonce"`
			SubsetNonce          *types.BigString `json:"subsetNonce"`
			OrderNonce           *types.BigString `json:"orderNonce"`
			StrategyID           *types.BigString `json:"strategyId"`
			CollectionType       string           `json:"collectionType"`
			AdditionalParameters hexutil.Bytes    `json:"additionalParameters"`
			MerkleRoot           common.Hash      `json:"merkleRoot"`
			MerkleProof          []struct {
				Value    common.Hash `json:"value"`
				Position uint8       `json:"position"`
			} `json:"merkleProof"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		quoteType, err := enumOf(looksRareQuoteTypes, raw.QuoteType)
		if err != nil {
			return nil, err
		}
		collectionType, err := enumOf(looksRareCollectionTypes, raw.CollectionType)
		if err != nil {
			return nil, err
		}
		out := LooksRareV2Data{
			QuoteType:            quoteType,
			GlobalNonce:          bigOf(raw.GlobalNonce),
			SubsetNonce:          bigOf(raw.SubsetNonce),
			OrderNonce:           bigOf(raw.OrderNonce),
			StrategyID:           bigOf(raw.StrategyID),
			CollectionType:       collectionType,
			AdditionalParameters: raw.AdditionalParameters,
			MerkleRoot:           raw.MerkleRoot,
		}
		for _, node := range raw.MerkleProof {
			out.MerkleProof = append(out.MerkleProof, LooksRareProofNode{Value: node.Value, Position: node.Position})
		}
		return out, nil

	case p == X2Y2:
		var raw struct {
			ItemHash          common.Hash `json:"itemHash"`
			OrderID           uint64      `json:"orderId"`
			IsBundle          bool        `json:"isBundle"`
			IsCollectionOffer bool        `json:"isCollectionOffer"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return X2Y2Data{
			ItemHash:          raw.ItemHash,
			OrderID:           raw.OrderID,
			IsBundle:          raw.IsBundle,
			IsCollectionOffer: raw.IsCollectionOffer,
		}, nil

	case p == AMM:
		var raw struct {
			PoolAddress common.Address  `json:"poolAddress"`
			Router      *common.Address `json:"router"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		out := AmmData{Pool: raw.PoolAddress}
		if raw.Router != nil {
			out.Router = mo.Some(*raw.Router)
		}
		return out, nil

	case p == CryptoPunk:
		return CryptoPunksData{}, nil
	}

	return nil, &types.UnsupportedError{Protocol: string(p)}
}

type seaportItemJSON struct {
	ItemType             string           `json:"itemType"`
	Token                common.Address   `json:"token"`
	IdentifierOrCriteria *types.BigString `json:"identifierOrCriteria"`
	StartAmount          *types.BigString `json:"startAmount"`
	EndAmount            *types.BigString `json:"endAmount"`
	Recipient            common.Address   `json:"recipient"`
}

func (raw seaportItemJSON) toItem() (seaport.Item, error) {
	itemType, err := enumOf(seaportItemTypes, raw.ItemType)
	if err != nil {
		return seaport.Item{}, err
	}
	return seaport.Item{
		ItemType:             itemType,
		Token:                raw.Token,
		IdentifierOrCriteria: bigOf(raw.IdentifierOrCriteria),
		StartAmount:          bigOf(raw.StartAmount),
		EndAmount:            bigOf(raw.EndAmount),
	}, nil
}

/*//////////////////////////////////////////////////////////////
                            ENUMS
//////////////////////////////////////////////////////////////*/

var seaportItemTypes = map[string]seaport.ItemType{
	"NATIVE":                seaport.ItemNative,
	"ERC20":                 seaport.ItemERC20,
	"ERC721":                seaport.ItemERC721,
	"ERC1155":               seaport.ItemERC1155,
	"ERC721_WITH_CRITERIA":  seaport.ItemERC721WithCriteria,
	"ERC1155_WITH_CRITERIA": seaport.ItemERC1155WithCriteria,
}

var seaportOrderTypes = map[string]seaport.OrderType{
	"FULL_OPEN":          seaport.FullOpen,
	"PARTIAL_OPEN":       seaport.PartialOpen,
	"FULL_RESTRICTED":    seaport.FullRestricted,
	"PARTIAL_RESTRICTED": seaport.PartialRestricted,
	"CONTRACT":           seaport.Contract,
}

var feeMethods = map[string]opensea.FeeMethod{
	"PROTOCOL_FEE": opensea.ProtocolFee,
	"SPLIT_FEE":    opensea.SplitFee,
}

var openSeaSides = map[string]opensea.Side{
	"BUY":  opensea.Buy,
	"SELL": opensea.Sell,
}

var saleKinds = map[string]opensea.SaleKind{
	"FIXED_PRICE":   opensea.FixedPrice,
	"DUTCH_AUCTION": opensea.DutchAuction,
}

var howToCalls = map[string]opensea.HowToCall{
	"CALL":          opensea.Call,
	"DELEGATE_CALL": opensea.DelegateCall,
}

var looksRareQuoteTypes = map[string]uint8{
	"BID": 0,
	"ASK": 1,
}

var looksRareCollectionTypes = map[string]uint8{
	"ERC721":  0,
	"ERC1155": 1,
}

// enumOf looks name up in values. Numeric names are accepted as the raw
// enum value.
func enumOf[T ~uint8](values map[string]T, name string) (T, error) {
	if v, ok := values[name]; ok {
		return v, nil
	}
	var n uint8
	if _, err := fmt.Sscanf(name, "%d", &n); err == nil {
		for _, v := range values {
			if uint8(v) == n {
				return v, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown value %q", name)
}
