package seaport

import (
	"context"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/ethereum/go-ethereum/common"
)

// BalanceReader reads token balances and approvals. *chain.Reader
// satisfies it.
type BalanceReader interface {
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
	ERC20Balance(ctx context.Context, token, account common.Address) (*big.Int, error)
	ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	ERC721Owner(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error)
	ERC1155Balance(ctx context.Context, token, account common.Address, tokenID *big.Int) (*big.Int, error)
	IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error)
}

// ReadBalancesAndApprovals reads owner's balance of every distinct asset in
// items and what operator may move on its behalf. Criteria items are read
// for the identifier picked by their input criteria, side names the order
// side the items come from.
func ReadBalancesAndApprovals(
	ctx context.Context,
	reader BalanceReader,
	owner common.Address,
	operator common.Address,
	side Side,
	items []Item,
	criterias []InputCriteria,
) (BalancesAndApprovals, error) {
	var out BalancesAndApprovals

	criteriaIndex := 0
	for _, item := range items {
		identifier := utils.OrZero(item.IdentifierOrCriteria)
		if item.ItemType.IsCriteria() {
			if criteriaIndex >= len(criterias) {
				return nil, &CriteriaCountError{Side: side, Items: CountCriteriaItems(items), Resolvers: len(criterias)}
			}
			identifier = utils.OrZero(criterias[criteriaIndex].Identifier)
			criteriaIndex++
		}
		if _, ok := out.Find(item.Token, identifier); ok {
			continue
		}

		entry, err := readEntry(ctx, reader, owner, operator, item.ItemType.Concrete(), item.Token, identifier)
		if err != nil {
			return nil, fmt.Errorf("failed to read balance of %s: %w", item.Token.Hex(), err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func readEntry(
	ctx context.Context,
	reader BalanceReader,
	owner common.Address,
	operator common.Address,
	itemType ItemType,
	token common.Address,
	identifier *big.Int,
) (BalanceAndApproval, error) {
	entry := BalanceAndApproval{
		Token:          token,
		Identifier:     identifier,
		ItemType:       itemType,
		ApprovedAmount: new(big.Int),
	}

	switch itemType {
	case ItemNative:
		balance, err := reader.NativeBalance(ctx, owner)
		if err != nil {
			return entry, err
		}
		entry.Balance = balance
		entry.ApprovedAmount = new(big.Int).Set(constants.MAX_UINT256)
		return entry, nil

	case ItemERC20:
		balance, err := reader.ERC20Balance(ctx, token, owner)
		if err != nil {
			return entry, err
		}
		allowance, err := reader.ERC20Allowance(ctx, token, owner, operator)
		if err != nil {
			return entry, err
		}
		entry.Balance = balance
		entry.ApprovedAmount = allowance
		return entry, nil

	case ItemERC721:
		holder, err := reader.ERC721Owner(ctx, token, identifier)
		if err != nil {
			return entry, err
		}
		entry.Balance = new(big.Int)
		if holder == owner {
			entry.Balance.SetInt64(1)
		}

	case ItemERC1155:
		balance, err := reader.ERC1155Balance(ctx, token, owner, identifier)
		if err != nil {
			return entry, err
		}
		entry.Balance = balance

	default:
		return entry, fmt.Errorf("unknown item type %d", itemType)
	}

	approved, err := reader.IsApprovedForAll(ctx, token, owner, operator)
	if err != nil {
		return entry, err
	}
	if approved {
		entry.ApprovedAmount = new(big.Int).Set(constants.MAX_UINT256)
	}
	return entry, nil
}
