// Package chain reads balances, approvals and order status from the chain and
// tracks sent transactions until they are confirmed.
package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/internal/abiutil"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the subset of an rpc client the filler needs.
// *ethclient.Client satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Reader performs read only contract calls
type Reader struct {
	backend Backend
}

func NewReader(backend Backend) *Reader {
	return &Reader{backend: backend}
}

func (r *Reader) call(
	ctx context.Context,
	contract *abiutil.Lazy,
	to common.Address,
	method string,
	args ...any,
) ([]any, error) {
	parsed, err := contract.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}

	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := r.backend.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, to.Hex(), err)
	}

	out, err := parsed.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return out, nil
}

func (r *Reader) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := r.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", account.Hex(), err)
	}
	return balance, nil
}

func (r *Reader) ERC20Balance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	out, err := r.call(ctx, erc20ABI, token, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (r *Reader) ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := r.call(ctx, erc20ABI, token, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (r *Reader) ERC721Owner(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error) {
	out, err := r.call(ctx, erc721ABI, token, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

func (r *Reader) ERC1155Balance(ctx context.Context, token, account common.Address, tokenID *big.Int) (*big.Int, error) {
	out, err := r.call(ctx, erc1155ABI, token, "balanceOf", account, tokenID)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// IsApprovedForAll works for both erc721 and erc1155 collections
func (r *Reader) IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	out, err := r.call(ctx, erc721ABI, token, "isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

// PunkOwner returns the owner of a punk on the cryptopunks market
func (r *Reader) PunkOwner(ctx context.Context, market common.Address, index *big.Int) (common.Address, error) {
	out, err := r.call(ctx, punksABI, market, "punkIndexToAddress", index)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// ProxyOf returns the wyvern proxy registered for owner, zero if none
func (r *Reader) ProxyOf(ctx context.Context, registry, owner common.Address) (common.Address, error) {
	out, err := r.call(ctx, proxyRegistryABI, registry, "proxies", owner)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

type OrderStatus struct {
	IsValidated bool
	IsCancelled bool
	TotalFilled *big.Int
	TotalSize   *big.Int
}

// SeaportOrderStatus reads the fill state of a seaport order
func (r *Reader) SeaportOrderStatus(ctx context.Context, seaport common.Address, orderHash common.Hash) (OrderStatus, error) {
	out, err := r.call(ctx, seaportStatusABI, seaport, "getOrderStatus", [32]byte(orderHash))
	if err != nil {
		return OrderStatus{}, err
	}
	return OrderStatus{
		IsValidated: out[0].(bool),
		IsCancelled: out[1].(bool),
		TotalFilled: out[2].(*big.Int),
		TotalSize:   out[3].(*big.Int),
	}, nil
}

// Royalty is one royalty recipient of an nft, Value in basis points
type Royalty struct {
	Account common.Address
	Value   *big.Int
}

// Royalties reads the royalties the registry resolves for an nft
func (r *Reader) Royalties(ctx context.Context, registry, token common.Address, tokenID *big.Int) ([]Royalty, error) {
	out, err := r.call(ctx, royaltiesRegistryABI, registry, "getRoyalties", token, tokenID)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]Royalty)).(*[]Royalty), nil
}

// LatestTimestamp returns the timestamp of the latest block
func (r *Reader) LatestTimestamp(ctx context.Context) (uint64, error) {
	header, err := r.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest header: %w", err)
	}
	return header.Time, nil
}

/*//////////////////////////////////////////////////////////////
                         APPROVAL CALLS
//////////////////////////////////////////////////////////////*/

func PackERC20Approve(spender common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender, amount)
}

// PackSetApprovalForAll approves operator on an erc721 or erc1155 collection
func PackSetApprovalForAll(operator common.Address, approved bool) ([]byte, error) {
	return erc721ABI.Pack("setApprovalForAll", operator, approved)
}

func PackRegisterProxy() ([]byte, error) {
	return proxyRegistryABI.Pack("registerProxy")
}
