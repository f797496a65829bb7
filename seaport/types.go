// Package seaport computes seaport fill fractions, validates balances and
// approvals for a fulfillment and encodes the advanced order entry points.
package seaport

import (
	"math/big"

	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/ethereum/go-ethereum/common"
)

type ItemType uint8

const (
	ItemNative ItemType = iota
	ItemERC20
	ItemERC721
	ItemERC1155
	ItemERC721WithCriteria
	ItemERC1155WithCriteria
)

// IsCriteria reports whether items of this type match a set of identifiers
func (t ItemType) IsCriteria() bool {
	return t == ItemERC721WithCriteria || t == ItemERC1155WithCriteria
}

// Concrete maps criteria item types onto the token standard they resolve to
func (t ItemType) Concrete() ItemType {
	switch t {
	case ItemERC721WithCriteria:
		return ItemERC721
	case ItemERC1155WithCriteria:
		return ItemERC1155
	default:
		return t
	}
}

func (t ItemType) Valid() bool { return t <= ItemERC1155WithCriteria }

type OrderType uint8

const (
	FullOpen OrderType = iota
	PartialOpen
	FullRestricted
	PartialRestricted
	Contract
)

// SupportsPartialFills reports whether the order can be filled by fractions
func (t OrderType) SupportsPartialFills() bool {
	return t == PartialOpen || t == PartialRestricted
}

type Side uint8

const (
	SideOffer Side = iota
	SideConsideration
)

func (s Side) String() string {
	if s == SideOffer {
		return "offer"
	}
	return "consideration"
}

// Item is an offer item, and the shared part of a consideration item
type Item struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

type ConsiderationItem struct {
	Item
	Recipient common.Address
}

type OrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []Item
	Consideration                   []ConsiderationItem
	OrderType                       OrderType
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        common.Hash
	Salt                            *big.Int
	ConduitKey                      common.Hash
	TotalOriginalConsiderationItems int
	Counter                         *big.Int
}

// Order is a signed seaport order
type Order struct {
	Parameters OrderParameters
	Signature  []byte
}

// InputCriteria picks one identifier out of a criteria item's set
type InputCriteria struct {
	Identifier *big.Int
	Proof      []common.Hash
}

type CriteriaResolver struct {
	OrderIndex    int
	Side          Side
	Index         int
	Identifier    *big.Int
	CriteriaProof []common.Hash
}

// TimeParams prices time based items at CurrentTimestamp
type TimeParams struct {
	StartTime        *big.Int
	EndTime          *big.Int
	CurrentTimestamp uint64
	AscendingBuffer  uint64
}

// Active reports whether the window start <= now < end contains the current
// timestamp
func (t TimeParams) Active() bool {
	now := new(big.Int).SetUint64(t.CurrentTimestamp)
	return t.StartTime.Cmp(now) <= 0 && now.Cmp(t.EndTime) < 0
}

// TimeParams returns the pricing parameters for the order at now
func (p OrderParameters) TimeParams(now, ascendingBuffer uint64) TimeParams {
	return TimeParams{
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		CurrentTimestamp: now,
		AscendingBuffer:  ascendingBuffer,
	}
}

// BalanceAndApproval is the owner balance and operator allowance for one asset
type BalanceAndApproval struct {
	Token          common.Address
	Identifier     *big.Int
	Balance        *big.Int
	ApprovedAmount *big.Int
	ItemType       ItemType
}

type BalancesAndApprovals []BalanceAndApproval

// Find returns the entry for token and identifier
func (b BalancesAndApprovals) Find(token common.Address, identifier *big.Int) (BalanceAndApproval, bool) {
	for _, entry := range b {
		if entry.Token == token && utils.OrZero(entry.Identifier).Cmp(utils.OrZero(identifier)) == 0 {
			return entry, true
		}
	}
	return BalanceAndApproval{}, false
}
