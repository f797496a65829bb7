package fill

import (
	"context"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/fee"
	"github.com/banky/go-nft-fill/internal/utils"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

/*//////////////////////////////////////////////////////////////
                          ORDER TUPLES
//////////////////////////////////////////////////////////////*/

type assetTypeTuple struct {
	AssetClass [4]byte
	Data       []byte
}

type assetTuple struct {
	AssetType assetTypeTuple
	Value     *big.Int
}

type nativeOrderTuple struct {
	Maker     common.Address
	MakeAsset assetTuple
	Taker     common.Address
	TakeAsset assetTuple
	Salt      *big.Int
	Start     *big.Int
	End       *big.Int
	DataType  [4]byte
	Data      []byte
}

type partTuple struct {
	Account common.Address
	Value   *big.Int
}

type lazy721Tuple struct {
	TokenId    *big.Int
	TokenURI   string
	Creators   []partTuple
	Royalties  []partTuple
	Signatures [][]byte
}

type lazy1155Tuple struct {
	TokenId    *big.Int
	TokenURI   string
	Supply     *big.Int
	Creators   []partTuple
	Royalties  []partTuple
	Signatures [][]byte
}

type dataV1Tuple struct {
	Payouts    []partTuple
	OriginFees []partTuple
}

type dataV2Tuple struct {
	Payouts    []partTuple
	OriginFees []partTuple
	IsMakeFill bool
}

var partComponents = []abi.ArgumentMarshaling{
	{Name: "account", Type: "address"},
	{Name: "value", Type: "uint96"},
}

var (
	lazy721Components = []abi.ArgumentMarshaling{
		{Name: "tokenId", Type: "uint256"},
		{Name: "tokenURI", Type: "string"},
		{Name: "creators", Type: "tuple[]", Components: partComponents},
		{Name: "royalties", Type: "tuple[]", Components: partComponents},
		{Name: "signatures", Type: "bytes[]"},
	}
	lazy1155Components = []abi.ArgumentMarshaling{
		{Name: "tokenId", Type: "uint256"},
		{Name: "tokenURI", Type: "string"},
		{Name: "supply", Type: "uint256"},
		{Name: "creators", Type: "tuple[]", Components: partComponents},
		{Name: "royalties", Type: "tuple[]", Components: partComponents},
		{Name: "signatures", Type: "bytes[]"},
	}
	dataV1Components = []abi.ArgumentMarshaling{
		{Name: "payouts", Type: "tuple[]", Components: partComponents},
		{Name: "originFees", Type: "tuple[]", Components: partComponents},
	}
	dataV2Components = []abi.ArgumentMarshaling{
		{Name: "payouts", Type: "tuple[]", Components: partComponents},
		{Name: "originFees", Type: "tuple[]", Components: partComponents},
		{Name: "isMakeFill", Type: "bool"},
	}
)

// arguments builds an argument list of the given solidity types
func arguments(specs ...abi.ArgumentMarshaling) (abi.Arguments, error) {
	args := make(abi.Arguments, len(specs))
	for i, spec := range specs {
		t, err := abi.NewType(spec.Type, "", spec.Components)
		if err != nil {
			return nil, fmt.Errorf("failed to build abi type %s: %w", spec.Type, err)
		}
		args[i] = abi.Argument{Name: spec.Name, Type: t}
	}
	return args, nil
}

func selector4(name string) [4]byte {
	var out [4]byte
	copy(out[:], crypto.Keccak256([]byte(name))[:4])
	return out
}

func toParts(parts []order.Part) []partTuple {
	out := make([]partTuple, len(parts))
	for i, p := range parts {
		out[i] = partTuple{Account: p.Account, Value: new(big.Int).SetUint64(p.Value)}
	}
	return out
}

/*//////////////////////////////////////////////////////////////
                         ASSET ENCODING
//////////////////////////////////////////////////////////////*/

// encodeAssetType maps an asset type onto the exchange's class id and
// class specific data
func encodeAssetType(a order.AssetType) (assetTypeTuple, error) {
	out := assetTypeTuple{AssetClass: selector4(string(a.Class))}

	var (
		args abi.Arguments
		vals []any
		err  error
	)
	switch a.Class {
	case order.ClassETH:
		out.Data = []byte{}
		return out, nil
	case order.ClassERC20, order.ClassCollection:
		args, err = arguments(abi.ArgumentMarshaling{Name: "token", Type: "address"})
		vals = []any{a.Contract}
	case order.ClassERC721, order.ClassERC1155, order.ClassCryptoPunks:
		args, err = arguments(
			abi.ArgumentMarshaling{Name: "token", Type: "address"},
			abi.ArgumentMarshaling{Name: "tokenId", Type: "uint256"},
		)
		vals = []any{a.Contract, a.TokenID}
	case order.ClassERC721Lazy, order.ClassERC1155Lazy:
		args, vals, err = lazyArguments(a)
	default:
		return assetTypeTuple{}, types.Encodingf(string(order.RaribleV2), "unknown asset class %q", a.Class)
	}
	if err != nil {
		return assetTypeTuple{}, err
	}

	if out.Data, err = args.Pack(vals...); err != nil {
		return assetTypeTuple{}, types.Encodingf(string(order.RaribleV2), "asset %s: %v", a, err)
	}
	return out, nil
}

func lazyArguments(a order.AssetType) (abi.Arguments, []any, error) {
	lazy, ok := a.Lazy.Get()
	if !ok {
		return nil, nil, types.Encodingf(string(order.RaribleV2), "lazy asset %s has no mint data", a)
	}
	for _, part := range append(append([]order.Part{}, lazy.Creators...), lazy.Royalties...) {
		if err := utils.CheckUint(new(big.Int).SetUint64(part.Value), 96); err != nil {
			return nil, nil, types.Encodingf(string(order.RaribleV2), "lazy part: %v", err)
		}
	}

	token := abi.ArgumentMarshaling{Name: "token", Type: "address"}
	if a.Class == order.ClassERC721Lazy {
		args, err := arguments(token, abi.ArgumentMarshaling{Name: "data", Type: "tuple", Components: lazy721Components})
		return args, []any{a.Contract, lazy721Tuple{
			TokenId:    a.TokenID,
			TokenURI:   lazy.URI,
			Creators:   toParts(lazy.Creators),
			Royalties:  toParts(lazy.Royalties),
			Signatures: lazy.Signatures,
		}}, err
	}
	args, err := arguments(token, abi.ArgumentMarshaling{Name: "data", Type: "tuple", Components: lazy1155Components})
	return args, []any{a.Contract, lazy1155Tuple{
		TokenId:    a.TokenID,
		TokenURI:   lazy.URI,
		Supply:     lazy.Supply,
		Creators:   toParts(lazy.Creators),
		Royalties:  toParts(lazy.Royalties),
		Signatures: lazy.Signatures,
	}}, err
}

// encodeNativeData packs the order data under its data type id
func encodeNativeData(data order.NativeData) ([4]byte, []byte, error) {
	var (
		args abi.Arguments
		val  any
		err  error
	)
	switch data.Type {
	case order.NativeDataV1:
		args, err = arguments(abi.ArgumentMarshaling{Name: "data", Type: "tuple", Components: dataV1Components})
		val = dataV1Tuple{Payouts: toParts(data.Payouts), OriginFees: toParts(data.OriginFees)}
	case order.NativeDataV2, "":
		data.Type = order.NativeDataV2
		args, err = arguments(abi.ArgumentMarshaling{Name: "data", Type: "tuple", Components: dataV2Components})
		val = dataV2Tuple{Payouts: toParts(data.Payouts), OriginFees: toParts(data.OriginFees), IsMakeFill: data.IsMakeFill}
	default:
		return [4]byte{}, nil, types.Encodingf(string(order.RaribleV2), "unknown order data type %q", data.Type)
	}
	if err != nil {
		return [4]byte{}, nil, err
	}

	packed, err := args.Pack(val)
	if err != nil {
		return [4]byte{}, nil, types.Encodingf(string(order.RaribleV2), "order data: %v", err)
	}
	return selector4(string(data.Type)), packed, nil
}

func encodeNativeOrder(o order.Order) (nativeOrderTuple, error) {
	data, ok := o.Data.(order.NativeData)
	if !ok {
		return nativeOrderTuple{}, types.Encodingf(string(o.Protocol), "not a native order")
	}

	makeType, err := encodeAssetType(o.Make.Type)
	if err != nil {
		return nativeOrderTuple{}, err
	}
	takeType, err := encodeAssetType(o.Take.Type)
	if err != nil {
		return nativeOrderTuple{}, err
	}
	dataType, packed, err := encodeNativeData(data)
	if err != nil {
		return nativeOrderTuple{}, err
	}

	return nativeOrderTuple{
		Maker:     o.Maker,
		MakeAsset: assetTuple{AssetType: makeType, Value: utils.OrZero(o.Make.Value)},
		Taker:     o.Taker,
		TakeAsset: assetTuple{AssetType: takeType, Value: utils.OrZero(o.Take.Value)},
		Salt:      utils.OrZero(o.Salt),
		Start:     new(big.Int).SetUint64(o.Start.OrEmpty()),
		End:       new(big.Int).SetUint64(o.End.OrEmpty()),
		DataType:  dataType,
		Data:      packed,
	}, nil
}

/*//////////////////////////////////////////////////////////////
                            HANDLER
//////////////////////////////////////////////////////////////*/

// invertNative builds the counter order for amount units of the maker order
func invertNative(f *Filler, fc *fillContext) error {
	o := fc.order()
	amount := fc.request.Units()

	if o.Make.Value == nil || o.Make.Value.Sign() == 0 || o.Take.Value == nil {
		return types.Encodingf(string(o.Protocol), "order has no make or take value")
	}

	inverted := order.Order{
		Protocol: o.Protocol,
		Maker:    fc.caller,
		Taker:    constants.ZERO_ADDRESS,
		Salt:     new(big.Int),
	}

	if o.IsSell() {
		if amount.Cmp(o.Make.Value) > 0 {
			return types.Encodingf(string(o.Protocol), "amount %s exceeds the %s units for sale", amount, o.Make.Value)
		}
		inverted.Make = order.Asset{Type: o.Take.Type, Value: utils.MulDivFloor(o.Take.Value, amount, o.Make.Value)}
		inverted.Take = order.Asset{Type: o.Make.Type, Value: amount}
	} else {
		if o.Take.Value.Sign() == 0 || amount.Cmp(o.Take.Value) > 0 {
			return types.Encodingf(string(o.Protocol), "amount %s exceeds the %s units bid for", amount, o.Take.Value)
		}
		inverted.Make = order.Asset{Type: fc.nft, Value: amount}
		inverted.Take = order.Asset{Type: o.Make.Type, Value: utils.MulDivFloor(o.Make.Value, amount, o.Take.Value)}
	}

	payouts := fc.request.Payouts
	if len(payouts) == 0 {
		payouts = []order.Part{{Account: fc.recipient, Value: constants.BASIS_POINTS}}
	}
	originFees := append([]order.Part{}, fc.request.OriginFees...)
	if fc.baseFee > 0 && f.config.FeeRecipient != constants.ZERO_ADDRESS {
		originFees = append(originFees, order.Part{Account: f.config.FeeRecipient, Value: fc.baseFee})
	}
	inverted.Data = order.NativeData{
		Type:       order.NativeDataV2,
		Payouts:    payouts,
		OriginFees: originFees,
	}

	fc.inverted = inverted
	return nil
}

// nativeSplit splits the fill price between the maker, origin fees and the
// base fee
func nativeSplit(fc *fillContext) (fee.Split, error) {
	return fee.SplitPayouts(
		fc.inverted.Make.Value,
		fc.order().Maker,
		nil,
		fc.request.OriginFees,
		fc.baseFee,
	)
}

func nativeTransactionData(_ context.Context, f *Filler, fc *fillContext) (PreparedFillData, error) {
	exchange, err := f.config.ExchangeFor(order.RaribleV2)
	if err != nil {
		return PreparedFillData{}, err
	}

	left, err := encodeNativeOrder(fc.order())
	if err != nil {
		return PreparedFillData{}, err
	}
	right, err := encodeNativeOrder(fc.inverted)
	if err != nil {
		return PreparedFillData{}, err
	}

	data, err := exchangeV2ABI.Pack("matchOrders", left, nonNil(fc.order().Signature), right, []byte{})
	if err != nil {
		return PreparedFillData{}, types.Encodingf(string(order.RaribleV2), "matchOrders: %v", err)
	}

	value := new(big.Int)
	if fc.isBuy() && fc.inverted.Make.Type.Class == order.ClassETH {
		split, err := nativeSplit(fc)
		if err != nil {
			return PreparedFillData{}, err
		}
		value = split.Total
	}

	return PreparedFillData{
		Contract: exchange,
		Method:   "matchOrders",
		Data:     data,
		Value:    value,
	}, nil
}

func nativeApprovals(ctx context.Context, f *Filler, fc *fillContext) ([]Approval, error) {
	if fc.isBuy() {
		split, err := nativeSplit(fc)
		if err != nil {
			return nil, err
		}
		return f.paymentApproval(ctx, fc, f.config.TransferProxies.ERC20, split.Total)
	}

	var operator common.Address
	switch fc.nft.Class {
	case order.ClassERC721, order.ClassERC1155:
		operator = f.config.TransferProxies.NFT
	case order.ClassERC721Lazy:
		operator = f.config.TransferProxies.ERC721Lazy
	case order.ClassERC1155Lazy:
		operator = f.config.TransferProxies.ERC1155Lazy
	default:
		return nil, nil
	}
	return f.nftApproval(ctx, fc.nft.Contract, fc.taker, operator)
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
