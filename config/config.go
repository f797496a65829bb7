// Package config holds the per chain contract addresses and runtime settings
// of the filler.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/fee"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrUnknownChain = errors.New("unknown chain")

type Exchanges struct {
	RaribleV2         common.Address `yaml:"raribleV2"`
	Wrapper           common.Address `yaml:"wrapper"`
	OpenSeaV1         common.Address `yaml:"openseaV1"`
	SeaportV1         common.Address `yaml:"seaportV1"`
	SeaportV1_4       common.Address `yaml:"seaportV1_4"`
	SeaportV1_5       common.Address `yaml:"seaportV1_5"`
	SeaportV1_6       common.Address `yaml:"seaportV1_6"`
	LooksRare         common.Address `yaml:"looksrare"`
	LooksRareV2       common.Address `yaml:"looksrareV2"`
	X2Y2              common.Address `yaml:"x2y2"`
	CryptoPunks       common.Address `yaml:"cryptoPunks"`
	SudoswapRouter    common.Address `yaml:"sudoswapRouter"`
	// RoyaltiesRegistry resolves the royalties the wrapper adds on request
	RoyaltiesRegistry common.Address `yaml:"royaltiesRegistry"`
}

// TransferProxies are the operators that move assets for the native exchange
type TransferProxies struct {
	NFT         common.Address `yaml:"nft"`
	ERC20       common.Address `yaml:"erc20"`
	ERC721Lazy  common.Address `yaml:"erc721Lazy"`
	ERC1155Lazy common.Address `yaml:"erc1155Lazy"`
	// LooksRare operators
	LooksRareTransferManagerERC721  common.Address `yaml:"looksrareTransferManagerERC721"`
	LooksRareTransferManagerERC1155 common.Address `yaml:"looksrareTransferManagerERC1155"`
	LooksRareV2TransferManager      common.Address `yaml:"looksrareV2TransferManager"`
	X2Y2ERC721Delegate              common.Address `yaml:"x2y2ERC721Delegate"`
	X2Y2ERC1155Delegate             common.Address `yaml:"x2y2ERC1155Delegate"`
}

type OpenSea struct {
	// Metadata is passed to atomicMatch_ to tag fills
	Metadata      common.Hash    `yaml:"metadata"`
	ProxyRegistry common.Address `yaml:"proxyRegistry"`
	// TokenTransferProxy moves erc20 payments for the wyvern exchange
	TokenTransferProxy common.Address `yaml:"tokenTransferProxy"`
}

type Seaport struct {
	ConduitKey common.Hash    `yaml:"conduitKey"`
	Conduit    common.Address `yaml:"conduit"`
}

type Config struct {
	ChainID      uint64 `yaml:"chainId"`
	RPCURL       string `yaml:"rpcUrl"`
	FeeConfigURL string `yaml:"feeConfigUrl"`

	ConfirmationAttempts int           `yaml:"confirmationAttempts"`
	ConfirmationInterval time.Duration `yaml:"confirmationInterval"`

	Exchange        Exchanges       `yaml:"exchange"`
	TransferProxies TransferProxies `yaml:"transferProxies"`
	OpenSea         OpenSea         `yaml:"opensea"`
	Seaport         Seaport         `yaml:"seaport"`
	WETH            common.Address  `yaml:"weth"`

	// FeeRecipient receives the base fee taken on native fills
	FeeRecipient common.Address `yaml:"feeRecipient"`
	// Fees is used when no fee config url is set
	Fees fee.Table `yaml:"fees"`
}

var (
	raribleMetadata   = crypto.Keccak256Hash([]byte("RARIBLE"))
	openseaConduitKey = common.HexToHash("0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000")
	openseaConduit    = common.HexToAddress("0x1E0049783F008A0085193E00003D00cd54003c71")

	// Seaport is deployed at the same address on every chain
	seaportV1   = common.HexToAddress("0x00000000006c3852cbEf3e08E8dF289169EdE581")
	seaportV1_4 = common.HexToAddress("0x00000000000001ad428e4906aE43D8F9852d0dD6")
	seaportV1_5 = common.HexToAddress("0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC")
	seaportV1_6 = common.HexToAddress("0x0000000000000068F116a894984e2DB1123eB395")
)

func defaults(chainID uint64) Config {
	return Config{
		ChainID:              chainID,
		ConfirmationAttempts: constants.DEFAULT_CONFIRMATION_ATTEMPTS,
		ConfirmationInterval: constants.DEFAULT_CONFIRMATION_INTERVAL,
		Fees:                 fee.Table{Protocols: map[order.Protocol]uint64{}},
	}
}

// ForChain returns the built in configuration of a chain
func ForChain(chainID uint64) (Config, error) {
	cfg := defaults(chainID)

	switch chainID {
	case constants.MAINNET_CHAIN_ID:
		cfg.Exchange = Exchanges{
			RaribleV2:      common.HexToAddress("0x9757F2d2b135150BBeb65308D4a91804107cd8D6"),
			OpenSeaV1:      common.HexToAddress("0x7f268357A8c2552623316e2562D90e642bB538E5"),
			SeaportV1:      seaportV1,
			SeaportV1_4:    seaportV1_4,
			SeaportV1_5:    seaportV1_5,
			SeaportV1_6:    seaportV1_6,
			LooksRare:      common.HexToAddress("0x59728544B08AB483533076417FbBB2fD0B17CE3a"),
			LooksRareV2:    common.HexToAddress("0x0000000000E655fAe4d56241588680F86E3b2377"),
			X2Y2:           common.HexToAddress("0x74312363e45DCaBA76c59ec49a7Aa8A65a67EeD3"),
			CryptoPunks:    common.HexToAddress("0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB"),
			SudoswapRouter: common.HexToAddress("0x2B2e8cDA09bBA9660dCA5cB6233787738Ad68329"),

			RoyaltiesRegistry: common.HexToAddress("0xEa90CFad1b8e030B8Fd3E63D22074E0AEb8E0DCD"),
		}
		cfg.TransferProxies = TransferProxies{
			NFT:                             common.HexToAddress("0x4feE7B061C97C9c496b01DbcE9CDb10c02f0a0Be"),
			ERC20:                           common.HexToAddress("0xb8e4526e0da700e9ef1f879af713d691f81507d8"),
			ERC721Lazy:                      common.HexToAddress("0xbb7829BFdD4b557EB944349b2E2c965446052497"),
			ERC1155Lazy:                     common.HexToAddress("0x75a8B7c0B22D973E0B46CfBD3e2f6566905AA79f"),
			LooksRareTransferManagerERC721:  common.HexToAddress("0xf42aa99F011A1fA7CDA90E5E98b277E306BcA83e"),
			LooksRareTransferManagerERC1155: common.HexToAddress("0xFED24eC7E22f573c2e08AEF55aA6797Ca2b3A051"),
			LooksRareV2TransferManager:      common.HexToAddress("0x000000000060C4Ca14CfC4325359062ace33Fe3D"),
			X2Y2ERC721Delegate:              common.HexToAddress("0xF849de01B080aDC3A814FaBE1E2087475cF2E354"),
			X2Y2ERC1155Delegate:             common.HexToAddress("0x024ac22ACdB367a3ae52A3D94aC6649fdc1f0779"),
		}
		cfg.OpenSea = OpenSea{
			Metadata:           raribleMetadata,
			ProxyRegistry:      common.HexToAddress("0xa5409ec958C83C3f309868babACA7c86DCB077c1"),
			TokenTransferProxy: common.HexToAddress("0xE5c783EE536cf5E63E792988335c4255169be4E1"),
		}
		cfg.Seaport = Seaport{ConduitKey: openseaConduitKey, Conduit: openseaConduit}
		cfg.WETH = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	case constants.SEPOLIA_CHAIN_ID:
		cfg.Exchange = Exchanges{
			SeaportV1_5: seaportV1_5,
			SeaportV1_6: seaportV1_6,
		}
		cfg.Seaport = Seaport{ConduitKey: openseaConduitKey, Conduit: openseaConduit}
		cfg.WETH = common.HexToAddress("0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14")

	case constants.CELO_CHAIN_ID:
		cfg.Exchange = Exchanges{
			RaribleV2: common.HexToAddress("0x5faf16A85028BE138A7178B222DeC98092FEEF97"),
			Wrapper:   common.HexToAddress("0xBFb17500344bA3475d46091F5c8f1e33B31ed909"),
		}
		cfg.TransferProxies = TransferProxies{
			NFT:         common.HexToAddress("0xF65eF65a95821A16E02973b1C2200FA58898e3c0"),
			ERC20:       common.HexToAddress("0x248B46BEB66b3078D771a9E7E5a0a0216d0d07ba"),
			ERC721Lazy:  common.HexToAddress("0xce4bf732f53A76C463aE8822be858017b02779c8"),
			ERC1155Lazy: common.HexToAddress("0x1CC22424f2B84791cb99c141A68CD2a44Cf35398"),
		}
		cfg.OpenSea = OpenSea{Metadata: raribleMetadata}

	default:
		return Config{}, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}

	return cfg, nil
}

// Validate checks the settings every fill depends on
func (c Config) Validate() error {
	if c.ChainID == 0 {
		return errors.New("chain id is required")
	}
	if c.ConfirmationAttempts <= 0 {
		return fmt.Errorf("confirmation attempts must be positive, got %d", c.ConfirmationAttempts)
	}
	if c.ConfirmationInterval < 0 {
		return fmt.Errorf("confirmation interval must not be negative, got %s", c.ConfirmationInterval)
	}
	return nil
}

// ExchangeFor returns the contract that fills orders of protocol p. Fills
// fail with an UnsupportedError when the chain has no such deployment.
func (c Config) ExchangeFor(p order.Protocol) (common.Address, error) {
	var address common.Address
	switch p {
	case order.RaribleV2:
		address = c.Exchange.RaribleV2
	case order.OpenSeaV1:
		address = c.Exchange.OpenSeaV1
	case order.SeaportV1:
		address = c.Exchange.SeaportV1
	case order.SeaportV1_4:
		address = c.Exchange.SeaportV1_4
	case order.SeaportV1_5:
		address = c.Exchange.SeaportV1_5
	case order.SeaportV1_6:
		address = c.Exchange.SeaportV1_6
	case order.LooksRare:
		address = c.Exchange.LooksRare
	case order.LooksRareV2:
		address = c.Exchange.LooksRareV2
	case order.X2Y2:
		address = c.Exchange.X2Y2
	case order.AMM:
		address = c.Exchange.SudoswapRouter
	case order.CryptoPunk:
		address = c.Exchange.CryptoPunks
	default:
		return common.Address{}, &types.UnsupportedError{Protocol: string(p)}
	}

	if address == (common.Address{}) {
		return common.Address{}, &types.UnsupportedError{
			Protocol: string(p),
			Op:       fmt.Sprintf("fills on chain %d", c.ChainID),
		}
	}
	return address, nil
}
