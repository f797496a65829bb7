// Package order models orders of every supported exchange protocol and the
// requests to fill them.
package order

type Protocol string

const (
	RaribleV2   Protocol = "RARIBLE_V2"
	OpenSeaV1   Protocol = "OPEN_SEA_V1"
	SeaportV1   Protocol = "SEAPORT_V1"
	SeaportV1_4 Protocol = "SEAPORT_V1_4"
	SeaportV1_5 Protocol = "SEAPORT_V1_5"
	SeaportV1_6 Protocol = "SEAPORT_V1_6"
	LooksRare   Protocol = "LOOKSRARE"
	LooksRareV2 Protocol = "LOOKSRARE_V2"
	X2Y2        Protocol = "X2Y2"
	AMM         Protocol = "AMM"
	CryptoPunk  Protocol = "CRYPTO_PUNK"
)

// Protocols lists every protocol the filler knows about
var Protocols = []Protocol{
	RaribleV2,
	OpenSeaV1,
	SeaportV1,
	SeaportV1_4,
	SeaportV1_5,
	SeaportV1_6,
	LooksRare,
	LooksRareV2,
	X2Y2,
	AMM,
	CryptoPunk,
}

func (p Protocol) Known() bool {
	for _, known := range Protocols {
		if p == known {
			return true
		}
	}
	return false
}

func (p Protocol) IsSeaport() bool {
	switch p {
	case SeaportV1, SeaportV1_4, SeaportV1_5, SeaportV1_6:
		return true
	}
	return false
}

func (p Protocol) IsLooksRare() bool {
	return p == LooksRare || p == LooksRareV2
}

// IsNative reports whether p is the platform's own exchange protocol
func (p Protocol) IsNative() bool {
	return p == RaribleV2
}

func (p Protocol) String() string { return string(p) }
