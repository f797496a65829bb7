// Package opensea encodes fills of legacy OpenSea (wyvern v2) orders. The
// protocol is frozen: no sale kinds beyond fixed price and dutch auction.
package opensea

import (
	"math/big"

	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
)

const protocolName = "OPEN_SEA_V1"

type FeeMethod uint8

const (
	ProtocolFee FeeMethod = iota
	SplitFee
)

type Side uint8

const (
	Buy Side = iota
	Sell
)

// Opposite returns the side of the counter order
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type SaleKind uint8

const (
	FixedPrice SaleKind = iota
	DutchAuction
)

type HowToCall uint8

const (
	Call HowToCall = iota
	DelegateCall
)

type Order struct {
	Exchange           common.Address
	Maker              common.Address
	Taker              common.Address
	MakerRelayerFee    *big.Int
	TakerRelayerFee    *big.Int
	MakerProtocolFee   *big.Int
	TakerProtocolFee   *big.Int
	FeeRecipient       common.Address
	FeeMethod          FeeMethod
	Side               Side
	SaleKind           SaleKind
	Target             common.Address
	HowToCall          HowToCall
	Calldata           []byte
	ReplacementPattern []byte
	StaticTarget       common.Address
	StaticExtradata    []byte
	PaymentToken       common.Address
	BasePrice          *big.Int
	Extra              *big.Int
	ListingTime        *big.Int
	ExpirationTime     *big.Int
	Salt               *big.Int
	V                  uint8
	R                  common.Hash
	S                  common.Hash
}

// SetSignature splits a 65 byte r||s||v signature into the order
func (o *Order) SetSignature(sig []byte) error {
	if len(sig) == 0 {
		return nil
	}
	if len(sig) != 65 {
		return types.Encodingf(protocolName, "signature must be 65 bytes, got %d", len(sig))
	}
	o.R = common.BytesToHash(sig[:32])
	o.S = common.BytesToHash(sig[32:64])
	o.V = sig[64]
	if o.V < 27 {
		o.V += 27
	}
	return nil
}

// Validate checks the enumerated fields and the calldata mask
func (o Order) Validate() error {
	if o.FeeMethod > SplitFee {
		return types.Encodingf(protocolName, "unknown fee method %d", o.FeeMethod)
	}
	if o.Side > Sell {
		return types.Encodingf(protocolName, "unknown side %d", o.Side)
	}
	if o.SaleKind > DutchAuction {
		return types.Encodingf(protocolName, "unknown sale kind %d", o.SaleKind)
	}
	if o.HowToCall > DelegateCall {
		return types.Encodingf(protocolName, "unknown call kind %d", o.HowToCall)
	}
	if len(o.ReplacementPattern) != 0 && len(o.ReplacementPattern) != len(o.Calldata) {
		return types.Encodingf(
			protocolName,
			"replacement pattern is %d bytes but calldata is %d bytes",
			len(o.ReplacementPattern), len(o.Calldata),
		)
	}
	return nil
}
