package order

import (
	"math/big"

	"github.com/banky/go-nft-fill/seaport"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

// FillRequest asks to fill an order, either buying what a sell order offers
// or accepting a bid
type FillRequest struct {
	Order Order
	// Amount is the number of units to fill. It defaults to 1.
	Amount *big.Int
	// AssetType names the concrete nft accepted against a collection bid
	AssetType  mo.Option[AssetType]
	Payouts    []Part
	OriginFees []Part
	// Infinite approves the maximum allowance instead of the fill amount
	Infinite   bool
	// AddRoyalty pays the registry royalties of the nft through the wrapper
	AddRoyalty bool

	// seaport
	UnitsToFill           mo.Option[*big.Int]
	Tips                  []seaport.ConsiderationItem
	OfferCriteria         []seaport.InputCriteria
	ConsiderationCriteria []seaport.InputCriteria
	ExtraData             []byte

	// DisableCheckingBalances skips the seaport balance and approval
	// validation, for simulations and dry runs
	DisableCheckingBalances bool

	// AmmTokenIDs buys several ids out of one pool
	AmmTokenIDs []*big.Int
	Recipient   mo.Option[common.Address]
}

type FillRequestOption func(*FillRequest)

// NewFillRequest builds a request for order with the given options applied
func NewFillRequest(o Order, opts ...FillRequestOption) FillRequest {
	req := FillRequest{
		Order:  o,
		Amount: big.NewInt(1),
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

func WithAmount(amount *big.Int) FillRequestOption {
	return func(r *FillRequest) {
		r.Amount = amount
	}
}

// WithAssetType picks the nft accepted against a collection bid
func WithAssetType(assetType AssetType) FillRequestOption {
	return func(r *FillRequest) {
		r.AssetType = mo.Some(assetType)
	}
}

func WithPayouts(payouts ...Part) FillRequestOption {
	return func(r *FillRequest) {
		r.Payouts = payouts
	}
}

func WithOriginFees(fees ...Part) FillRequestOption {
	return func(r *FillRequest) {
		r.OriginFees = fees
	}
}

func WithInfiniteApproval(infinite bool) FillRequestOption {
	return func(r *FillRequest) {
		r.Infinite = infinite
	}
}

func WithAddRoyalty(addRoyalty bool) FillRequestOption {
	return func(r *FillRequest) {
		r.AddRoyalty = addRoyalty
	}
}

// WithUnitsToFill selects a partial seaport fill
func WithUnitsToFill(units *big.Int) FillRequestOption {
	return func(r *FillRequest) {
		r.UnitsToFill = mo.Some(units)
	}
}

func WithSeaportTips(tips ...seaport.ConsiderationItem) FillRequestOption {
	return func(r *FillRequest) {
		r.Tips = tips
	}
}

// WithCriteria supplies the identifiers chosen for criteria items
func WithCriteria(offer, consideration []seaport.InputCriteria) FillRequestOption {
	return func(r *FillRequest) {
		r.OfferCriteria = offer
		r.ConsiderationCriteria = consideration
	}
}

func WithExtraData(extraData []byte) FillRequestOption {
	return func(r *FillRequest) {
		r.ExtraData = extraData
	}
}

// WithDisableCheckingBalances skips the seaport balance and approval checks
func WithDisableCheckingBalances() FillRequestOption {
	return func(r *FillRequest) {
		r.DisableCheckingBalances = true
	}
}

func WithAmmTokenIDs(ids ...*big.Int) FillRequestOption {
	return func(r *FillRequest) {
		r.AmmTokenIDs = ids
	}
}

// WithRecipient sends the bought nft to recipient instead of the sender
func WithRecipient(recipient common.Address) FillRequestOption {
	return func(r *FillRequest) {
		r.Recipient = mo.Some(recipient)
	}
}

// Units returns the requested amount, 1 when unset
func (r FillRequest) Units() *big.Int {
	if r.Amount == nil || r.Amount.Sign() == 0 {
		return big.NewInt(1)
	}
	return r.Amount
}

// TakeAssetType returns the asset the filler delivers when accepting a bid.
// A collection bid needs a concrete asset of the collection.
func (r FillRequest) TakeAssetType() (AssetType, error) {
	want := r.Order.Take.Type
	supplied, ok := r.AssetType.Get()
	if !ok {
		if want.Class == ClassCollection {
			return AssetType{}, types.Encodingf(
				string(r.Order.Protocol),
				"collection bid on %s needs the asset type of the accepted token",
				want.Contract.Hex(),
			)
		}
		return want, nil
	}
	if err := supplied.Validate(); err != nil {
		return AssetType{}, err
	}
	if !want.Matches(supplied) {
		return AssetType{}, types.Encodingf(
			string(r.Order.Protocol), "asset %s does not satisfy %s", supplied, want,
		)
	}
	return supplied, nil
}

// Validate checks the order and the request amount
func (r FillRequest) Validate() error {
	if err := r.Order.Validate(); err != nil {
		return err
	}
	if r.Amount != nil && r.Amount.Sign() < 0 {
		return types.Encodingf(string(r.Order.Protocol), "negative amount %s", r.Amount)
	}
	return nil
}
