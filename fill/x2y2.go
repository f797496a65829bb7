package fill

import (
	"context"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/rest"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	x2y2OpCompleteSellOffer uint8 = 1
	x2y2OpCompleteBuyOffer  uint8 = 2
)

// X2Y2RunRequest asks the x2y2 api for the signed run input of a fill
type X2Y2RunRequest struct {
	Caller   common.Address
	Op       uint8
	OrderID  uint64
	Currency common.Address
	Price    *big.Int
	TokenID  *big.Int
}

// X2Y2Signer returns the abi encoded RunInput x2y2 signs for a fill
type X2Y2Signer interface {
	SignRun(ctx context.Context, req X2Y2RunRequest) ([]byte, error)
}

// X2Y2API signs run inputs through the x2y2 order api
type X2Y2API struct {
	client rest.ClientInterface
}

func NewX2Y2API(client rest.ClientInterface) *X2Y2API {
	return &X2Y2API{client: client}
}

type x2y2SignRequest struct {
	Caller       string         `json:"caller"`
	Op           uint8          `json:"op"`
	AmountToEth  string         `json:"amountToEth"`
	AmountToWeth string         `json:"amountToWeth"`
	Items        []x2y2SignItem `json:"items"`
}

type x2y2SignItem struct {
	OrderID  uint64 `json:"orderId"`
	Currency string `json:"currency"`
	Price    string `json:"price"`
	TokenID  string `json:"tokenId,omitempty"`
}

type x2y2SignResponse struct {
	Data []struct {
		Input string `json:"input"`
	} `json:"data"`
}

var _ X2Y2Signer = (*X2Y2API)(nil)

func (a *X2Y2API) SignRun(ctx context.Context, req X2Y2RunRequest) ([]byte, error) {
	item := x2y2SignItem{
		OrderID:  req.OrderID,
		Currency: req.Currency.Hex(),
		Price:    utils.OrZero(req.Price).String(),
	}
	if req.TokenID != nil {
		item.TokenID = req.TokenID.String()
	}

	var resp x2y2SignResponse
	err := a.client.Post(ctx, "/api/orders/sign", x2y2SignRequest{
		Caller:       req.Caller.Hex(),
		Op:           req.Op,
		AmountToEth:  "0",
		AmountToWeth: "0",
		Items:        []x2y2SignItem{item},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign x2y2 run: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, types.Encodingf(string(order.X2Y2), "sign response has no input")
	}

	input, err := hexutil.Decode(resp.Data[0].Input)
	if err != nil {
		return nil, types.Encodingf(string(order.X2Y2), "sign response input: %v", err)
	}
	return input, nil
}

func x2y2TransactionData(ctx context.Context, f *Filler, fc *fillContext) (PreparedFillData, error) {
	o := fc.order()
	data, ok := o.Data.(order.X2Y2Data)
	if !ok {
		return PreparedFillData{}, types.Encodingf(string(o.Protocol), "not an x2y2 order")
	}
	signer, ok := f.x2y2.Get()
	if !ok {
		return PreparedFillData{}, &types.UnsupportedError{Protocol: string(o.Protocol), Op: "fills without an api signer"}
	}
	exchange, err := f.config.ExchangeFor(order.X2Y2)
	if err != nil {
		return PreparedFillData{}, err
	}

	currency := o.Currency()
	req := X2Y2RunRequest{
		Caller:  fc.caller,
		Op:      x2y2OpCompleteSellOffer,
		OrderID: data.OrderID,
		Price:   currency.Value,
	}
	if currency.Type.Class == order.ClassERC20 {
		req.Currency = currency.Type.Contract
	}
	if !fc.isBuy() {
		req.Op = x2y2OpCompleteBuyOffer
		req.TokenID = fc.nft.TokenID
	}

	input, err := signer.SignRun(ctx, req)
	if err != nil {
		return PreparedFillData{}, err
	}

	run, err := x2y2ABI.Method("run")
	if err != nil {
		return PreparedFillData{}, err
	}
	if _, err := run.Inputs.Unpack(input); err != nil {
		return PreparedFillData{}, types.Encodingf(string(o.Protocol), "signed run input: %v", err)
	}

	value := new(big.Int)
	if fc.isBuy() && currency.Type.Class == order.ClassETH {
		value.Set(utils.OrZero(currency.Value))
	}
	return PreparedFillData{
		Contract: exchange,
		Method:   "run",
		Data:     append(append([]byte{}, run.ID...), input...),
		Value:    value,
	}, nil
}

func x2y2Approvals(ctx context.Context, f *Filler, fc *fillContext) ([]Approval, error) {
	if fc.isBuy() {
		exchange, err := f.config.ExchangeFor(order.X2Y2)
		if err != nil {
			return nil, err
		}
		return f.paymentApproval(ctx, fc, exchange, fc.order().Currency().Value)
	}

	operator := f.config.TransferProxies.X2Y2ERC721Delegate
	if fc.nft.IsERC1155() {
		operator = f.config.TransferProxies.X2Y2ERC1155Delegate
	}
	return f.nftApproval(ctx, fc.nft.Contract, fc.taker, operator)
}
