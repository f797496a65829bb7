package seaport

import (
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// seaportABIJSON covers the fulfillment entry points shared by seaport
// 1.1, 1.4, 1.5 and 1.6
const seaportABIJSON = `[
  {
    "type": "function",
    "name": "fulfillAdvancedOrder",
    "stateMutability": "payable",
    "inputs": [
      {
        "name": "advancedOrder",
        "type": "tuple",
        "components": [
          {
            "name": "parameters",
            "type": "tuple",
            "components": [
              {
                "name": "offerer",
                "type": "address"
              },
              {
                "name": "zone",
                "type": "address"
              },
              {
                "name": "offer",
                "type": "tuple[]",
                "components": [
                  {
                    "name": "itemType",
                    "type": "uint8"
                  },
                  {
                    "name": "token",
                    "type": "address"
                  },
                  {
                    "name": "identifierOrCriteria",
                    "type": "uint256"
                  },
                  {
                    "name": "startAmount",
                    "type": "uint256"
                  },
                  {
                    "name": "endAmount",
                    "type": "uint256"
                  }
                ]
              },
              {
                "name": "consideration",
                "type": "tuple[]",
                "components": [
                  {
                    "name": "itemType",
                    "type": "uint8"
                  },
                  {
                    "name": "token",
                    "type": "address"
                  },
                  {
                    "name": "identifierOrCriteria",
                    "type": "uint256"
                  },
                  {
                    "name": "startAmount",
                    "type": "uint256"
                  },
                  {
                    "name": "endAmount",
                    "type": "uint256"
                  },
                  {
                    "name": "recipient",
                    "type": "address"
                  }
                ]
              },
              {
                "name": "orderType",
                "type": "uint8"
              },
              {
                "name": "startTime",
                "type": "uint256"
              },
              {
                "name": "endTime",
                "type": "uint256"
              },
              {
                "name": "zoneHash",
                "type": "bytes32"
              },
              {
                "name": "salt",
                "type": "uint256"
              },
              {
                "name": "conduitKey",
                "type": "bytes32"
              },
              {
                "name": "totalOriginalConsiderationItems",
                "type": "uint256"
              }
            ]
          },
          {
            "name": "numerator",
            "type": "uint120"
          },
          {
            "name": "denominator",
            "type": "uint120"
          },
          {
            "name": "signature",
            "type": "bytes"
          },
          {
            "name": "extraData",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "criteriaResolvers",
        "type": "tuple[]",
        "components": [
          {
            "name": "orderIndex",
            "type": "uint256"
          },
          {
            "name": "side",
            "type": "uint8"
          },
          {
            "name": "index",
            "type": "uint256"
          },
          {
            "name": "identifier",
            "type": "uint256"
          },
          {
            "name": "criteriaProof",
            "type": "bytes32[]"
          }
        ]
      },
      {
        "name": "fulfillerConduitKey",
        "type": "bytes32"
      },
      {
        "name": "recipient",
        "type": "address"
      }
    ],
    "outputs": [
      {
        "name": "fulfilled",
        "type": "bool"
      }
    ]
  },
  {
    "type": "function",
    "name": "fulfillAvailableAdvancedOrders",
    "stateMutability": "payable",
    "inputs": [
      {
        "name": "advancedOrders",
        "type": "tuple[]",
        "components": [
          {
            "name": "parameters",
            "type": "tuple",
            "components": [
              {
                "name": "offerer",
                "type": "address"
              },
              {
                "name": "zone",
                "type": "address"
              },
              {
                "name": "offer",
                "type": "tuple[]",
                "components": [
                  {
                    "name": "itemType",
                    "type": "uint8"
                  },
                  {
                    "name": "token",
                    "type": "address"
                  },
                  {
                    "name": "identifierOrCriteria",
                    "type": "uint256"
                  },
                  {
                    "name": "startAmount",
                    "type": "uint256"
                  },
                  {
                    "name": "endAmount",
                    "type": "uint256"
                  }
                ]
              },
              {
                "name": "consideration",
                "type": "tuple[]",
                "components": [
                  {
                    "name": "itemType",
                    "type": "uint8"
                  },
                  {
                    "name": "token",
                    "type": "address"
                  },
                  {
                    "name": "identifierOrCriteria",
                    "type": "uint256"
                  },
                  {
                    "name": "startAmount",
                    "type": "uint256"
                  },
                  {
                    "name": "endAmount",
                    "type": "uint256"
                  },
                  {
                    "name": "recipient",
                    "type": "address"
                  }
                ]
              },
              {
                "name": "orderType",
                "type": "uint8"
              },
              {
                "name": "startTime",
                "type": "uint256"
              },
              {
                "name": "endTime",
                "type": "uint256"
              },
              {
                "name": "zoneHash",
                "type": "bytes32"
              },
              {
                "name": "salt",
                "type": "uint256"
              },
              {
                "name": "conduitKey",
                "type": "bytes32"
              },
              {
                "name": "totalOriginalConsiderationItems",
                "type": "uint256"
              }
            ]
          },
          {
            "name": "numerator",
            "type": "uint120"
          },
          {
            "name": "denominator",
            "type": "uint120"
          },
          {
            "name": "signature",
            "type": "bytes"
          },
          {
            "name": "extraData",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "criteriaResolvers",
        "type": "tuple[]",
        "components": [
          {
            "name": "orderIndex",
            "type": "uint256"
          },
          {
            "name": "side",
            "type": "uint8"
          },
          {
            "name": "index",
            "type": "uint256"
          },
          {
            "name": "identifier",
            "type": "uint256"
          },
          {
            "name": "criteriaProof",
            "type": "bytes32[]"
          }
        ]
      },
      {
        "name": "offerFulfillments",
        "type": "tuple[][]",
        "components": [
          {
            "name": "orderIndex",
            "type": "uint256"
          },
          {
            "name": "itemIndex",
            "type": "uint256"
          }
        ]
      },
      {
        "name": "considerationFulfillments",
        "type": "tuple[][]",
        "components": [
          {
            "name": "orderIndex",
            "type": "uint256"
          },
          {
            "name": "itemIndex",
            "type": "uint256"
          }
        ]
      },
      {
        "name": "fulfillerConduitKey",
        "type": "bytes32"
      },
      {
        "name": "recipient",
        "type": "address"
      },
      {
        "name": "maximumFulfilled",
        "type": "uint256"
      }
    ],
    "outputs": [
      {
        "name": "availableOrders",
        "type": "bool[]"
      },
      {
        "name": "executions",
        "type": "tuple[]",
        "components": [
          {
            "name": "item",
            "type": "tuple",
            "components": [
              {
                "name": "itemType",
                "type": "uint8"
              },
              {
                "name": "token",
                "type": "address"
              },
              {
                "name": "identifier",
                "type": "uint256"
              },
              {
                "name": "amount",
                "type": "uint256"
              },
              {
                "name": "recipient",
                "type": "address"
              }
            ]
          },
          {
            "name": "offerer",
            "type": "address"
          },
          {
            "name": "conduitKey",
            "type": "bytes32"
          }
        ]
      }
    ]
  }
]`

var (
	seaportABIOnce sync.Once
	seaportABI     abi.ABI
	seaportABIErr  error
)

// ABI returns the parsed seaport fulfillment ABI
func ABI() (abi.ABI, error) {
	seaportABIOnce.Do(func() {
		seaportABI, seaportABIErr = abi.JSON(strings.NewReader(seaportABIJSON))
	})
	return seaportABI, seaportABIErr
}

/*//////////////////////////////////////////////////////////////
                          ABI TUPLES
//////////////////////////////////////////////////////////////*/

// The tuple structs mirror the solidity structs field for field so the abi
// packer can map them by name.

type offerItemTuple struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

type considerationItemTuple struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

type orderParametersTuple struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []offerItemTuple
	Consideration                   []considerationItemTuple
	OrderType                       uint8
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        [32]byte
	Salt                            *big.Int
	ConduitKey                      [32]byte
	TotalOriginalConsiderationItems *big.Int
}

type advancedOrderTuple struct {
	Parameters  orderParametersTuple
	Numerator   *big.Int
	Denominator *big.Int
	Signature   []byte
	ExtraData   []byte
}

type criteriaResolverTuple struct {
	OrderIndex    *big.Int
	Side          uint8
	Index         *big.Int
	Identifier    *big.Int
	CriteriaProof [][32]byte
}

type fulfillmentComponentTuple struct {
	OrderIndex *big.Int
	ItemIndex  *big.Int
}
