package order

import (
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/opensea"
	"github.com/banky/go-nft-fill/seaport"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

// Order is a signed order of any supported protocol. The protocol tag decides
// which Data shape the order carries.
type Order struct {
	Protocol  Protocol
	Hash      types.OrderHash
	Maker     common.Address
	Taker     common.Address
	Make      Asset
	Take      Asset
	Salt      *big.Int
	Start     mo.Option[uint64]
	End       mo.Option[uint64]
	Signature []byte
	Data      Data
}

// Data is the protocol specific part of an order
type Data interface {
	protocols() []Protocol
}

type NativeDataType string

const (
	NativeDataV1 NativeDataType = "V1"
	NativeDataV2 NativeDataType = "V2"
)

type NativeData struct {
	Type       NativeDataType
	Payouts    []Part
	OriginFees []Part
	IsMakeFill bool
}

type OpenSeaV1Data struct {
	Exchange           common.Address
	MakerRelayerFee    *big.Int
	TakerRelayerFee    *big.Int
	MakerProtocolFee   *big.Int
	TakerProtocolFee   *big.Int
	FeeRecipient       common.Address
	FeeMethod          opensea.FeeMethod
	Side               opensea.Side
	SaleKind           opensea.SaleKind
	HowToCall          opensea.HowToCall
	Target             common.Address
	Calldata           []byte
	ReplacementPattern []byte
	StaticTarget       common.Address
	StaticExtradata    []byte
	Extra              *big.Int
}

type SeaportData struct {
	OrderType     seaport.OrderType
	Zone          common.Address
	ZoneHash      common.Hash
	ConduitKey    common.Hash
	Counter       *big.Int
	Offer         []seaport.Item
	Consideration []seaport.ConsiderationItem
}

type LooksRareData struct {
	Strategy           common.Address
	Nonce              *big.Int
	MinPercentageToAsk uint64
	Params             []byte
}

type LooksRareV2Data struct {
	QuoteType            uint8
	GlobalNonce          *big.Int
	SubsetNonce          *big.Int
	OrderNonce           *big.Int
	StrategyID           *big.Int
	CollectionType       uint8
	AdditionalParameters []byte
	MerkleRoot           common.Hash
	MerkleProof          []LooksRareProofNode
}

type LooksRareProofNode struct {
	Value    common.Hash
	Position uint8
}

type X2Y2Data struct {
	ItemHash common.Hash
	// OrderID is the id the x2y2 api signs run inputs for
	OrderID           uint64
	IsBundle          bool
	IsCollectionOffer bool
}

type AmmData struct {
	Pool common.Address
	// Router overrides the configured pool router
	Router mo.Option[common.Address]
}

type CryptoPunksData struct{}

func (NativeData) protocols() []Protocol { return []Protocol{RaribleV2} }
func (OpenSeaV1Data) protocols() []Protocol { return []Protocol{OpenSeaV1} }
func (SeaportData) protocols() []Protocol { return []Protocol{SeaportV1, SeaportV1_4, SeaportV1_5, SeaportV1_6} }
func (LooksRareData) protocols() []Protocol { return []Protocol{LooksRare} }
func (LooksRareV2Data) protocols() []Protocol { return []Protocol{LooksRareV2} }
func (X2Y2Data) protocols() []Protocol { return []Protocol{X2Y2} }
func (AmmData) protocols() []Protocol { return []Protocol{AMM} }
func (CryptoPunksData) protocols() []Protocol { return []Protocol{CryptoPunk} }

// Validate checks the protocol tag matches the data shape and both assets
// are well formed
func (o Order) Validate() error {
	if !o.Protocol.Known() {
		return &types.UnsupportedError{Protocol: string(o.Protocol)}
	}
	if o.Data == nil {
		return types.Encodingf(string(o.Protocol), "order has no data")
	}
	matched := false
	for _, p := range o.Data.protocols() {
		if p == o.Protocol {
			matched = true
			break
		}
	}
	if !matched {
		return types.Encodingf(string(o.Protocol), "order carries %T", o.Data)
	}
	if err := o.Make.Type.Validate(); err != nil {
		return err
	}
	if err := o.Take.Type.Validate(); err != nil {
		return err
	}
	return nil
}

// IsSell reports whether the maker sells an nft
func (o Order) IsSell() bool {
	return o.Make.Type.IsNFT()
}

// IsBid reports whether the maker pays currency for an nft or for any nft
// of a collection
func (o Order) IsBid() bool {
	return o.Make.Type.IsCurrency() && (o.Take.Type.IsNFT() || o.Take.Type.Class == ClassCollection)
}

func (o Order) IsCollectionBid() bool {
	return o.Take.Type.Class == ClassCollection
}

// NFT returns the nft side of the order
func (o Order) NFT() Asset {
	if o.IsSell() {
		return o.Make
	}
	return o.Take
}

// Currency returns the payment side of the order
func (o Order) Currency() Asset {
	if o.IsSell() {
		return o.Take
	}
	return o.Make
}

/*//////////////////////////////////////////////////////////////
                        PROTOCOL VIEWS
//////////////////////////////////////////////////////////////*/

// Seaport assembles the seaport order from the common fields and the
// seaport data
func (o Order) Seaport() (seaport.Order, error) {
	data, ok := o.Data.(SeaportData)
	if !ok || !o.Protocol.IsSeaport() {
		return seaport.Order{}, types.Encodingf(string(o.Protocol), "not a seaport order")
	}
	return seaport.Order{
		Parameters: seaport.OrderParameters{
			Offerer:                         o.Maker,
			Zone:                            data.Zone,
			Offer:                           data.Offer,
			Consideration:                   data.Consideration,
			OrderType:                       data.OrderType,
			StartTime:                       new(big.Int).SetUint64(o.Start.OrEmpty()),
			EndTime:                         new(big.Int).SetUint64(o.End.OrElse(maxEnd)),
			ZoneHash:                        data.ZoneHash,
			Salt:                            utils.OrZero(o.Salt),
			ConduitKey:                      data.ConduitKey,
			TotalOriginalConsiderationItems: len(data.Consideration),
			Counter:                         utils.OrZero(data.Counter),
		},
		Signature: o.Signature,
	}, nil
}

// maxEnd stands in for orders that never expire
const maxEnd = uint64(1<<63 - 1)

// OpenSea assembles the wyvern order. Price and payment token come from the
// currency side, listing and expiration from the order window.
func (o Order) OpenSea() (opensea.Order, error) {
	data, ok := o.Data.(OpenSeaV1Data)
	if !ok || o.Protocol != OpenSeaV1 {
		return opensea.Order{}, types.Encodingf(string(o.Protocol), "not an opensea order")
	}
	currency := o.Currency()
	out := opensea.Order{
		Exchange:           data.Exchange,
		Maker:              o.Maker,
		Taker:              o.Taker,
		MakerRelayerFee:    data.MakerRelayerFee,
		TakerRelayerFee:    data.TakerRelayerFee,
		MakerProtocolFee:   data.MakerProtocolFee,
		TakerProtocolFee:   data.TakerProtocolFee,
		FeeRecipient:       data.FeeRecipient,
		FeeMethod:          data.FeeMethod,
		Side:               data.Side,
		SaleKind:           data.SaleKind,
		Target:             data.Target,
		HowToCall:          data.HowToCall,
		Calldata:           data.Calldata,
		ReplacementPattern: data.ReplacementPattern,
		StaticTarget:       data.StaticTarget,
		StaticExtradata:    data.StaticExtradata,
		PaymentToken:       constants.ZERO_ADDRESS,
		BasePrice:          currency.Value,
		Extra:              data.Extra,
		ListingTime:        new(big.Int).SetUint64(o.Start.OrEmpty()),
		ExpirationTime:     new(big.Int).SetUint64(o.End.OrEmpty()),
		Salt:               utils.OrZero(o.Salt),
	}
	if currency.Type.Class == ClassERC20 {
		out.PaymentToken = currency.Type.Contract
	}
	if err := out.SetSignature(o.Signature); err != nil {
		return opensea.Order{}, err
	}
	return out, nil
}
