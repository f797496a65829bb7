package constants

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const MAINNET_CHAIN_ID = 1
const SEPOLIA_CHAIN_ID = 11155111
const CELO_CHAIN_ID = 42220

// BASIS_POINTS is 100% expressed in basis points
const BASIS_POINTS = 10000

// DEFAULT_CONFIRMATION_ATTEMPTS is the receipt polling budget per transaction
const DEFAULT_CONFIRMATION_ATTEMPTS = 4
const DEFAULT_CONFIRMATION_INTERVAL = 2 * time.Second

// SEAPORT_ASCENDING_BUFFER is added to the current timestamp when pricing
// ascending seaport items so the amount does not drift before inclusion
const SEAPORT_ASCENDING_BUFFER = 300

// AMM_DEADLINE is how long a pool swap stays valid after it is built
const AMM_DEADLINE = 2 * time.Hour

var ZERO_ADDRESS = common.Address{}
var ZERO_HASH = common.Hash{}

var MAX_UINT256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

/*//////////////////////////////////////////////////////////////
                      EXCHANGE WRAPPER MARKETS
//////////////////////////////////////////////////////////////*/

// Marketplace ids understood by the exchange wrapper contract
const (
	WRAPPER_RARIBLE_V2              uint8 = 0
	WRAPPER_OPENSEA_V1              uint8 = 1
	WRAPPER_SEAPORT_ADVANCED_ORDERS uint8 = 2
	WRAPPER_X2Y2                    uint8 = 3
	WRAPPER_LOOKSRARE_ORDERS        uint8 = 4
	WRAPPER_AMM                     uint8 = 5
	WRAPPER_SEAPORT_V14             uint8 = 6
	WRAPPER_LOOKSRARE_V2_ORDERS     uint8 = 7
	WRAPPER_SEAPORT_V15             uint8 = 9
	WRAPPER_SEAPORT_V16             uint8 = 10
)
