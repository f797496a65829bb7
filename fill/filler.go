// Package fill turns orders of every supported protocol into transactions,
// sequencing the approvals a fill needs before the fill itself.
package fill

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/banky/go-nft-fill/chain"
	"github.com/banky/go-nft-fill/config"
	"github.com/banky/go-nft-fill/fee"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/rest"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

type Filler struct {
	config  config.Config
	wallet  Wallet
	backend chain.Backend
	reader  *chain.Reader
	fees    fee.Source
	x2y2    mo.Option[X2Y2Signer]
	logger  *zap.Logger
	clock   func() time.Time
}

type Option func(*Filler)

func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		f.logger = logger
	}
}

// WithFeeSource overrides where base fees come from. By default they are
// fetched from the configured fee config url, or taken from the config.
func WithFeeSource(source fee.Source) Option {
	return func(f *Filler) {
		f.fees = source
	}
}

// WithX2Y2Signer enables x2y2 fills
func WithX2Y2Signer(signer X2Y2Signer) Option {
	return func(f *Filler) {
		f.x2y2 = mo.Some(signer)
	}
}

func WithClock(clock func() time.Time) Option {
	return func(f *Filler) {
		f.clock = clock
	}
}

func New(cfg config.Config, wallet Wallet, backend chain.Backend, opts ...Option) (*Filler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	f := &Filler{
		config:  cfg,
		wallet:  wallet,
		backend: backend,
		reader:  chain.NewReader(backend),
		logger:  zap.NewNop(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.fees == nil {
		if cfg.FeeConfigURL == "" {
			f.fees = fee.Static(cfg.Fees)
		} else {
			client, err := rest.New(rest.Config{BaseUrl: cfg.FeeConfigURL, Timeout: 10 * time.Second})
			if err != nil {
				return nil, fmt.Errorf("failed to create fee config client: %w", err)
			}
			f.fees = fee.NewRemoteTable(client, fee.WithPath(""))
		}
	}

	return f, nil
}

/*//////////////////////////////////////////////////////////////
                          FILL CONTEXT
//////////////////////////////////////////////////////////////*/

// fillContext is the state of one fill, owned by the request that built it
type fillContext struct {
	request order.FillRequest
	taker   common.Address
	// caller is the account the exchange sees as msg.sender, the wrapper
	// when the fill is routed through it
	caller common.Address
	// recipient receives the bought nft
	recipient  common.Address
	viaWrapper bool
	now        time.Time
	baseFee    uint64
	// nft is the concrete nft the fill moves
	nft order.AssetType
	// royalties the wrapper pays on top of the purchase
	royalties []order.Part

	// counter orders built by invert
	inverted order.Order
	wyvern   wyvernCounter
}

func (fc *fillContext) order() order.Order { return fc.request.Order }

func (fc *fillContext) isBuy() bool { return fc.request.Order.IsSell() }

func (f *Filler) prepare(ctx context.Context, req order.FillRequest, viaWrapper bool) (*fillContext, handler, error) {
	if err := req.Validate(); err != nil {
		return nil, handler{}, err
	}
	o := req.Order

	h, ok := handlers[o.Protocol]
	if !ok {
		return nil, handler{}, &types.UnsupportedError{Protocol: string(o.Protocol)}
	}
	if err := fee.Validate(req.Payouts, req.OriginFees, 0); err != nil {
		return nil, handler{}, err
	}

	if !o.IsSell() && !o.IsBid() {
		return nil, handler{}, types.Encodingf(string(o.Protocol), "order is neither a sale nor a bid")
	}

	withOriginFees := len(req.OriginFees) > 0
	if withOriginFees && !o.Protocol.IsNative() {
		if !h.wrapOriginFees {
			return nil, handler{}, &types.UnsupportedError{Protocol: string(o.Protocol), Op: "origin fees"}
		}
		if o.IsBid() {
			return nil, handler{}, &types.UnsupportedError{Protocol: string(o.Protocol), Op: "origin fees when accepting a bid"}
		}
		viaWrapper = true
	}
	if req.AddRoyalty {
		if !h.royalties {
			return nil, handler{}, &types.UnsupportedError{Protocol: string(o.Protocol), Op: "additional royalties"}
		}
		if o.IsBid() {
			return nil, handler{}, &types.UnsupportedError{Protocol: string(o.Protocol), Op: "additional royalties when accepting a bid"}
		}
		if f.config.Exchange.RoyaltiesRegistry == (common.Address{}) {
			return nil, handler{}, &types.UnsupportedError{
				Protocol: string(o.Protocol),
				Op:       fmt.Sprintf("additional royalties on chain %d", f.config.ChainID),
			}
		}
		viaWrapper = true
	}
	if viaWrapper {
		if o.Currency().Type.Class != order.ClassETH {
			return nil, handler{}, &types.UnsupportedError{Protocol: string(o.Protocol), Op: "wrapped fills paid in erc20"}
		}
		if f.config.Exchange.Wrapper == (common.Address{}) {
			return nil, handler{}, &types.UnsupportedError{
				Protocol: string(o.Protocol),
				Op:       fmt.Sprintf("wrapped fills on chain %d", f.config.ChainID),
			}
		}
	}

	table, err := f.fees.Table(ctx)
	if err != nil {
		return nil, handler{}, err
	}
	baseFee := table.BaseFee(o.Protocol, withOriginFees || viaWrapper)
	if err := fee.Validate(req.Payouts, req.OriginFees, baseFee); err != nil {
		return nil, handler{}, err
	}

	nft := o.Make.Type
	if o.IsBid() {
		if nft, err = req.TakeAssetType(); err != nil {
			return nil, handler{}, err
		}
	}

	taker, err := f.wallet.GetFrom(ctx)
	if err != nil {
		return nil, handler{}, fmt.Errorf("failed to get sender: %w", err)
	}

	fc := &fillContext{
		request:    req,
		taker:      taker,
		caller:     taker,
		recipient:  req.Recipient.OrElse(taker),
		viaWrapper: viaWrapper,
		now:        f.clock(),
		baseFee:    baseFee,
		nft:        nft,
	}
	if viaWrapper {
		fc.caller = f.config.Exchange.Wrapper
	}
	if req.AddRoyalty {
		if fc.royalties, err = f.readRoyalties(ctx, fc); err != nil {
			return nil, handler{}, err
		}
		onTop := append(slices.Clone(req.OriginFees), fc.royalties...)
		if err := fee.Validate(req.Payouts, onTop, baseFee); err != nil {
			return nil, handler{}, err
		}
	}

	if h.invert != nil {
		if err := h.invert(f, fc); err != nil {
			return nil, handler{}, err
		}
	}
	return fc, h, nil
}

// transactionData encodes the fill, through the wrapper when origin fees
// are sent to a foreign market
func (f *Filler) transactionData(ctx context.Context, fc *fillContext, h handler) (PreparedFillData, error) {
	prepared, err := h.transactionData(ctx, f, fc)
	if err != nil {
		return PreparedFillData{}, err
	}
	prepared.From = fc.taker
	prepared.MarketID = h.marketID

	if !fc.viaWrapper {
		return prepared, nil
	}
	return f.wrapSingle(prepared, fc)
}

/*//////////////////////////////////////////////////////////////
                            ENTRY POINTS
//////////////////////////////////////////////////////////////*/

// Fill buys a sell order or accepts a bid depending on the order
func (f *Filler) Fill(ctx context.Context, req order.FillRequest) (*Action, error) {
	return f.newAction(ctx, req)
}

// Buy fills a sell order
func (f *Filler) Buy(ctx context.Context, req order.FillRequest) (*Action, error) {
	if !req.Order.IsSell() {
		return nil, types.Encodingf(string(req.Order.Protocol), "order is not a sale")
	}
	return f.newAction(ctx, req)
}

// AcceptBid sells an nft into a bid
func (f *Filler) AcceptBid(ctx context.Context, req order.FillRequest) (*Action, error) {
	if !req.Order.IsBid() {
		return nil, types.Encodingf(string(req.Order.Protocol), "order is not a bid")
	}
	return f.newAction(ctx, req)
}

// GetTransactionData encodes the fill without checking approvals or
// sending anything
func (f *Filler) GetTransactionData(ctx context.Context, req order.FillRequest) (PreparedFillData, error) {
	fc, h, err := f.prepare(ctx, req, false)
	if err != nil {
		return PreparedFillData{}, err
	}
	return f.transactionData(ctx, fc, h)
}

// BaseFee returns the platform fee in basis points for filling o
func (f *Filler) BaseFee(ctx context.Context, o order.Order, withOriginFees bool) (uint64, error) {
	if _, ok := handlers[o.Protocol]; !ok {
		return 0, &types.UnsupportedError{Protocol: string(o.Protocol)}
	}
	table, err := f.fees.Table(ctx)
	if err != nil {
		return 0, err
	}
	return table.BaseFee(o.Protocol, withOriginFees), nil
}

/*//////////////////////////////////////////////////////////////
                        APPROVAL CHECKS
//////////////////////////////////////////////////////////////*/

// erc20Approval returns the approval needed for operator to move amount of
// token, none when the allowance covers it
func (f *Filler) erc20Approval(
	ctx context.Context,
	token common.Address,
	owner common.Address,
	operator common.Address,
	amount *big.Int,
) ([]Approval, error) {
	allowance, err := f.reader.ERC20Allowance(ctx, token, owner, operator)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(amount) >= 0 {
		return nil, nil
	}
	return []Approval{{Kind: ApprovalERC20, Token: token, Operator: operator, Amount: new(big.Int).Set(amount)}}, nil
}

// nftApproval returns the approval needed for operator to move the nfts of
// token, none when it is already approved
func (f *Filler) nftApproval(
	ctx context.Context,
	token common.Address,
	owner common.Address,
	operator common.Address,
) ([]Approval, error) {
	approved, err := f.reader.IsApprovedForAll(ctx, token, owner, operator)
	if err != nil {
		return nil, err
	}
	if approved {
		return nil, nil
	}
	return []Approval{{Kind: ApprovalForAll, Token: token, Operator: operator}}, nil
}

// paymentApproval covers the erc20 payment of a buy, nothing for native
// currency
func (f *Filler) paymentApproval(ctx context.Context, fc *fillContext, operator common.Address, amount *big.Int) ([]Approval, error) {
	currency := fc.order().Currency().Type
	if currency.Class != order.ClassERC20 {
		return nil, nil
	}
	return f.erc20Approval(ctx, currency.Contract, fc.taker, operator, utils.OrZero(amount))
}
