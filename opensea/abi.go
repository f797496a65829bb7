package opensea

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const exchangeABIJSON = `[
  {
    "type": "function",
    "name": "atomicMatch_",
    "stateMutability": "payable",
    "inputs": [
      {
        "name": "addrs",
        "type": "address[14]"
      },
      {
        "name": "uints",
        "type": "uint256[18]"
      },
      {
        "name": "feeMethodsSidesKindsHowToCalls",
        "type": "uint8[8]"
      },
      {
        "name": "calldataBuy",
        "type": "bytes"
      },
      {
        "name": "calldataSell",
        "type": "bytes"
      },
      {
        "name": "replacementPatternBuy",
        "type": "bytes"
      },
      {
        "name": "replacementPatternSell",
        "type": "bytes"
      },
      {
        "name": "staticExtradataBuy",
        "type": "bytes"
      },
      {
        "name": "staticExtradataSell",
        "type": "bytes"
      },
      {
        "name": "vs",
        "type": "uint8[2]"
      },
      {
        "name": "rssMetadata",
        "type": "bytes32[5]"
      }
    ],
    "outputs": []
  }
]`

var (
	exchangeABIOnce sync.Once
	exchangeABI     abi.ABI
	exchangeABIErr  error
)

// ABI returns the parsed legacy exchange ABI
func ABI() (abi.ABI, error) {
	exchangeABIOnce.Do(func() {
		exchangeABI, exchangeABIErr = abi.JSON(strings.NewReader(exchangeABIJSON))
	})
	return exchangeABI, exchangeABIErr
}
