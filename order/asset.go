package order

import (
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

type AssetClass string

const (
	ClassETH         AssetClass = "ETH"
	ClassERC20       AssetClass = "ERC20"
	ClassERC721      AssetClass = "ERC721"
	ClassERC721Lazy  AssetClass = "ERC721_LAZY"
	ClassERC1155     AssetClass = "ERC1155"
	ClassERC1155Lazy AssetClass = "ERC1155_LAZY"
	ClassCryptoPunks AssetClass = "CRYPTO_PUNKS"
	ClassCollection  AssetClass = "COLLECTION"
)

// Part is an account share in basis points
type Part struct {
	Account common.Address `json:"account"`
	Value   uint64         `json:"value"`
}

// LazyMint is the off-chain signed mint payload a lazy asset is minted from
// when the order is filled
type LazyMint struct {
	URI        string
	Supply     *big.Int
	Creators   []Part
	Royalties  []Part
	Signatures [][]byte
}

type AssetType struct {
	Class    AssetClass
	Contract common.Address
	TokenID  *big.Int
	Lazy     mo.Option[LazyMint]
}

func (a AssetType) IsCurrency() bool {
	return a.Class == ClassETH || a.Class == ClassERC20
}

// IsNFT reports whether a is a concrete non fungible or semi fungible token
func (a AssetType) IsNFT() bool {
	switch a.Class {
	case ClassERC721, ClassERC721Lazy, ClassERC1155, ClassERC1155Lazy, ClassCryptoPunks:
		return true
	}
	return false
}

func (a AssetType) IsLazy() bool {
	return a.Class == ClassERC721Lazy || a.Class == ClassERC1155Lazy
}

func (a AssetType) IsERC1155() bool {
	return a.Class == ClassERC1155 || a.Class == ClassERC1155Lazy
}

// Validate checks the fields required by the asset class. Lazy classes carry
// the full mint payload and every other class carries none.
func (a AssetType) Validate() error {
	lazy, hasLazy := a.Lazy.Get()
	if a.IsLazy() != hasLazy {
		return types.Encodingf("", "asset class %s: lazy mint payload present=%t", a.Class, hasLazy)
	}

	switch a.Class {
	case ClassETH:
		if a.Contract != constants.ZERO_ADDRESS || a.TokenID != nil {
			return types.Encodingf("", "native asset has a contract or token id")
		}
	case ClassERC20, ClassCollection:
		if a.Contract == constants.ZERO_ADDRESS {
			return types.Encodingf("", "asset class %s needs a contract", a.Class)
		}
		if a.TokenID != nil {
			return types.Encodingf("", "asset class %s has no token id", a.Class)
		}
	case ClassERC721, ClassERC1155, ClassCryptoPunks, ClassERC721Lazy, ClassERC1155Lazy:
		if a.Contract == constants.ZERO_ADDRESS || a.TokenID == nil {
			return types.Encodingf("", "asset class %s needs a contract and a token id", a.Class)
		}
	default:
		return types.Encodingf("", "unknown asset class %q", a.Class)
	}

	if hasLazy {
		if len(lazy.Creators) == 0 {
			return types.Encodingf("", "lazy asset has no creators")
		}
		if len(lazy.Signatures) != len(lazy.Creators) {
			return types.Encodingf(
				"", "lazy asset has %d creators but %d signatures",
				len(lazy.Creators), len(lazy.Signatures),
			)
		}
		if a.Class == ClassERC1155Lazy && (lazy.Supply == nil || lazy.Supply.Sign() <= 0) {
			return types.Encodingf("", "lazy erc1155 asset needs a positive supply")
		}
	}
	return nil
}

// Matches reports whether a concrete asset satisfies a, which may be a
// collection wide target
func (a AssetType) Matches(concrete AssetType) bool {
	if a.Class == ClassCollection {
		return concrete.IsNFT() && concrete.Contract == a.Contract
	}
	if a.Class != concrete.Class || a.Contract != concrete.Contract {
		return false
	}
	if a.TokenID == nil || concrete.TokenID == nil {
		return a.TokenID == concrete.TokenID
	}
	return a.TokenID.Cmp(concrete.TokenID) == 0
}

func (a AssetType) String() string {
	switch {
	case a.Class == ClassETH:
		return string(a.Class)
	case a.TokenID == nil:
		return fmt.Sprintf("%s:%s", a.Class, a.Contract.Hex())
	default:
		return fmt.Sprintf("%s:%s:%s", a.Class, a.Contract.Hex(), a.TokenID)
	}
}

type Asset struct {
	Type  AssetType
	Value *big.Int
}
