package types

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vmihailenco/msgpack/v5"
)

const orderHashLength = 32

// OrderHash identifies an order on its exchange: the seaport order hash,
// the native order key hash or the marketplace's own id packed into a word.
// Short inputs are left padded the way the exchanges store them.
type OrderHash [orderHashLength]byte

var orderHashT = reflect.TypeOf(OrderHash{})

func BytesToOrderHash(b []byte) OrderHash {
	var h OrderHash
	h.SetBytes(b)
	return h
}

func HexToOrderHash(s string) OrderHash {
	return BytesToOrderHash(common.FromHex(s))
}

// BigToOrderHash packs a numeric order id, as x2y2 and punk offers use
func BigToOrderHash(b *big.Int) OrderHash {
	return BytesToOrderHash(b.Bytes())
}

// SetBytes keeps the low 32 bytes of b
func (h *OrderHash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-orderHashLength:]
	}

	copy(h[orderHashLength-len(b):], b)
}

func (h OrderHash) IsZero() bool { return h == OrderHash{} }

// Bytes32 is the form the abi packer expects for bytes32 arguments
func (h OrderHash) Bytes32() [32]byte { return [32]byte(h) }

func (h OrderHash) Hex() string { return hexutil.Encode(h[:]) }

func (h OrderHash) String() string { return h.Hex() }

func (h *OrderHash) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(orderHashT, input, h[:])
}

func (h OrderHash) MarshalText() ([]byte, error) {
	return hexutil.Bytes(h[:]).MarshalText()
}

// EncodeMsgpack writes the raw word; checkpoints never need the hex form
func (h OrderHash) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeBytes(h[:])
}

func (h *OrderHash) DecodeMsgpack(dec *msgpack.Decoder) error {
	b, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(b) != orderHashLength {
		return fmt.Errorf("order hash has %d bytes, want %d", len(b), orderHashLength)
	}

	copy(h[:], b)
	return nil
}
