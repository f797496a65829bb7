package fill

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/chain"
	"github.com/banky/go-nft-fill/constants"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

// ErrStageOrder is returned when an action stage is run out of order
var ErrStageOrder = errors.New("action stage out of order")

// FunctionCall is a contract call handed to the wallet
type FunctionCall struct {
	Contract common.Address
	Method   string
	Data     []byte
}

type SendOptions struct {
	Value    *big.Int
	GasLimit mo.Option[uint64]
}

// Wallet signs and sends transactions. It is the only place keys are used.
type Wallet interface {
	GetFrom(ctx context.Context) (common.Address, error)
	SendTransaction(ctx context.Context, call FunctionCall, opts SendOptions) (common.Hash, error)
}

// PreparedFillData is the transaction that fills an order
type PreparedFillData struct {
	Contract common.Address
	Method   string
	Data     []byte
	Value    *big.Int
	From     common.Address
	// MarketID tags the fill for the exchange wrapper
	MarketID uint8
}

func (p PreparedFillData) call() FunctionCall {
	return FunctionCall{Contract: p.Contract, Method: p.Method, Data: p.Data}
}

/*//////////////////////////////////////////////////////////////
                           APPROVALS
//////////////////////////////////////////////////////////////*/

type ApprovalKind string

const (
	ApprovalERC20         ApprovalKind = "ERC20"
	ApprovalForAll        ApprovalKind = "APPROVAL_FOR_ALL"
	ApprovalRegisterProxy ApprovalKind = "REGISTER_PROXY"
)

// Approval is an allowance the sender has to grant before the fill
type Approval struct {
	Kind ApprovalKind
	// Token is the approved contract, the proxy registry for
	// ApprovalRegisterProxy
	Token    common.Address
	Operator common.Address
	// Amount is the erc20 allowance the fill needs
	Amount *big.Int
}

func (a Approval) String() string {
	switch a.Kind {
	case ApprovalERC20:
		return fmt.Sprintf("approve %s of %s to %s", a.Amount, a.Token.Hex(), a.Operator.Hex())
	case ApprovalRegisterProxy:
		return fmt.Sprintf("register proxy on %s", a.Token.Hex())
	default:
		return fmt.Sprintf("approve all of %s to %s", a.Token.Hex(), a.Operator.Hex())
	}
}

func (a Approval) call(infinite bool) (FunctionCall, error) {
	var (
		data   []byte
		err    error
		method string
	)
	switch a.Kind {
	case ApprovalERC20:
		amount := a.Amount
		if infinite || amount == nil {
			amount = constants.MAX_UINT256
		}
		method = "approve"
		data, err = chain.PackERC20Approve(a.Operator, amount)
	case ApprovalForAll:
		method = "setApprovalForAll"
		data, err = chain.PackSetApprovalForAll(a.Operator, true)
	case ApprovalRegisterProxy:
		method = "registerProxy"
		data, err = chain.PackRegisterProxy()
	default:
		return FunctionCall{}, fmt.Errorf("unknown approval kind %q", a.Kind)
	}
	if err != nil {
		return FunctionCall{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return FunctionCall{Contract: a.Token, Method: method, Data: data}, nil
}
