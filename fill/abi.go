package fill

import "github.com/banky/go-nft-fill/internal/abiutil"

// Native exchange
const exchangeV2ABIJSON = `[
  {
    "type": "function",
    "name": "matchOrders",
    "inputs": [
      {
        "name": "orderLeft",
        "type": "tuple",
        "components": [
          {
            "name": "maker",
            "type": "address"
          },
          {
            "name": "makeAsset",
            "type": "tuple",
            "components": [
              {
                "name": "assetType",
                "type": "tuple",
                "components": [
                  {
                    "name": "assetClass",
                    "type": "bytes4"
                  },
                  {
                    "name": "data",
                    "type": "bytes"
                  }
                ]
              },
              {
                "name": "value",
                "type": "uint256"
              }
            ]
          },
          {
            "name": "taker",
            "type": "address"
          },
          {
            "name": "takeAsset",
            "type": "tuple",
            "components": [
              {
                "name": "assetType",
                "type": "tuple",
                "components": [
                  {
                    "name": "assetClass",
                    "type": "bytes4"
                  },
                  {
                    "name": "data",
                    "type": "bytes"
                  }
                ]
              },
              {
                "name": "value",
                "type": "uint256"
              }
            ]
          },
          {
            "name": "salt",
            "type": "uint256"
          },
          {
            "name": "start",
            "type": "uint256"
          },
          {
            "name": "end",
            "type": "uint256"
          },
          {
            "name": "dataType",
            "type": "bytes4"
          },
          {
            "name": "data",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "signatureLeft",
        "type": "bytes"
      },
      {
        "name": "orderRight",
        "type": "tuple",
        "components": [
          {
            "name": "maker",
            "type": "address"
          },
          {
            "name": "makeAsset",
            "type": "tuple",
            "components": [
              {
                "name": "assetType",
                "type": "tuple",
                "components": [
                  {
                    "name": "assetClass",
                    "type": "bytes4"
                  },
                  {
                    "name": "data",
                    "type": "bytes"
                  }
                ]
              },
              {
                "name": "value",
                "type": "uint256"
              }
            ]
          },
          {
            "name": "taker",
            "type": "address"
          },
          {
            "name": "takeAsset",
            "type": "tuple",
            "components": [
              {
                "name": "assetType",
                "type": "tuple",
                "components": [
                  {
                    "name": "assetClass",
                    "type": "bytes4"
                  },
                  {
                    "name": "data",
                    "type": "bytes"
                  }
                ]
              },
              {
                "name": "value",
                "type": "uint256"
              }
            ]
          },
          {
            "name": "salt",
            "type": "uint256"
          },
          {
            "name": "start",
            "type": "uint256"
          },
          {
            "name": "end",
            "type": "uint256"
          },
          {
            "name": "dataType",
            "type": "bytes4"
          },
          {
            "name": "data",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "signatureRight",
        "type": "bytes"
      }
    ],
    "outputs": [],
    "stateMutability": "payable"
  }
]`

// Exchange wrapper, routes purchases to other markets and takes origin fees
const wrapperABIJSON = `[
  {
    "type": "function",
    "name": "singlePurchase",
    "inputs": [
      {
        "name": "purchaseDetails",
        "type": "tuple",
        "components": [
          {
            "name": "marketId",
            "type": "uint8"
          },
          {
            "name": "amount",
            "type": "uint256"
          },
          {
            "name": "fees",
            "type": "uint256"
          },
          {
            "name": "data",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "feeRecipientFirst",
        "type": "address"
      },
      {
        "name": "feeRecipientSecond",
        "type": "address"
      }
    ],
    "outputs": [],
    "stateMutability": "payable"
  },
  {
    "type": "function",
    "name": "bulkPurchase",
    "inputs": [
      {
        "name": "purchaseDetails",
        "type": "tuple[]",
        "components": [
          {
            "name": "marketId",
            "type": "uint8"
          },
          {
            "name": "amount",
            "type": "uint256"
          },
          {
            "name": "fees",
            "type": "uint256"
          },
          {
            "name": "data",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "feeRecipientFirst",
        "type": "address"
      },
      {
        "name": "feeRecipientSecond",
        "type": "address"
      },
      {
        "name": "allowFail",
        "type": "bool"
      }
    ],
    "outputs": [],
    "stateMutability": "payable"
  }
]`

const looksRareABIJSON = `[
  {
    "type": "function",
    "name": "matchAskWithTakerBidUsingETHAndWETH",
    "inputs": [
      {
        "name": "takerBid",
        "type": "tuple",
        "components": [
          {
            "name": "isOrderAsk",
            "type": "bool"
          },
          {
            "name": "taker",
            "type": "address"
          },
          {
            "name": "price",
            "type": "uint256"
          },
          {
            "name": "tokenId",
            "type": "uint256"
          },
          {
            "name": "minPercentageToAsk",
            "type": "uint256"
          },
          {
            "name": "params",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "makerAsk",
        "type": "tuple",
        "components": [
          {
            "name": "isOrderAsk",
            "type": "bool"
          },
          {
            "name": "signer",
            "type": "address"
          },
          {
            "name": "collection",
            "type": "address"
          },
          {
            "name": "price",
            "type": "uint256"
          },
          {
            "name": "tokenId",
            "type": "uint256"
          },
          {
            "name": "amount",
            "type": "uint256"
          },
          {
            "name": "strategy",
            "type": "address"
          },
          {
            "name": "currency",
            "type": "address"
          },
          {
            "name": "nonce",
            "type": "uint256"
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
            "name": "minPercentageToAsk",
            "type": "uint256"
          },
          {
            "name": "params",
            "type": "bytes"
          },
          {
            "name": "v",
            "type": "uint8"
          },
          {
            "name": "r",
            "type": "bytes32"
          },
          {
            "name": "s",
            "type": "bytes32"
          }
        ]
      }
    ],
    "outputs": [],
    "stateMutability": "payable"
  },
  {
    "type": "function",
    "name": "matchAskWithTakerBid",
    "inputs": [
      {
        "name": "takerBid",
        "type": "tuple",
        "components": [
          {
            "name": "isOrderAsk",
            "type": "bool"
          },
          {
            "name": "taker",
            "type": "address"
          },
          {
            "name": "price",
            "type": "uint256"
          },
          {
            "name": "tokenId",
            "type": "uint256"
          },
          {
            "name": "minPercentageToAsk",
            "type": "uint256"
          },
          {
            "name": "params",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "makerAsk",
        "type": "tuple",
        "components": [
          {
            "name": "isOrderAsk",
            "type": "bool"
          },
          {
            "name": "signer",
            "type": "address"
          },
          {
            "name": "collection",
            "type": "address"
          },
          {
            "name": "price",
            "type": "uint256"
          },
          {
            "name": "tokenId",
            "type": "uint256"
          },
          {
            "name": "amount",
            "type": "uint256"
          },
          {
            "name": "strategy",
            "type": "address"
          },
          {
            "name": "currency",
            "type": "address"
          },
          {
            "name": "nonce",
            "type": "uint256"
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
            "name": "minPercentageToAsk",
            "type": "uint256"
          },
          {
            "name": "params",
            "type": "bytes"
          },
          {
            "name": "v",
            "type": "uint8"
          },
          {
            "name": "r",
            "type": "bytes32"
          },
          {
            "name": "s",
            "type": "bytes32"
          }
        ]
      }
    ],
    "outputs": [],
    "stateMutability": "nonpayable"
  },
  {
    "type": "function",
    "name": "matchBidWithTakerAsk",
    "inputs": [
      {
        "name": "takerAsk",
        "type": "tuple",
        "components": [
          {
            "name": "isOrderAsk",
            "type": "bool"
          },
          {
            "name": "taker",
            "type": "address"
          },
          {
            "name": "price",
            "type": "uint256"
          },
          {
            "name": "tokenId",
            "type": "uint256"
          },
          {
            "name": "minPercentageToAsk",
            "type": "uint256"
          },
          {
            "name": "params",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "makerBid",
        "type": "tuple",
        "components": [
          {
            "name": "isOrderAsk",
            "type": "bool"
          },
          {
            "name": "signer",
            "type": "address"
          },
          {
            "name": "collection",
            "type": "address"
          },
          {
            "name": "price",
            "type": "uint256"
          },
          {
            "name": "tokenId",
            "type": "uint256"
          },
          {
            "name": "amount",
            "type": "uint256"
          },
          {
            "name": "strategy",
            "type": "address"
          },
          {
            "name": "currency",
            "type": "address"
          },
          {
            "name": "nonce",
            "type": "uint256"
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
            "name": "minPercentageToAsk",
            "type": "uint256"
          },
          {
            "name": "params",
            "type": "bytes"
          },
          {
            "name": "v",
            "type": "uint8"
          },
          {
            "name": "r",
            "type": "bytes32"
          },
          {
            "name": "s",
            "type": "bytes32"
          }
        ]
      }
    ],
    "outputs": [],
    "stateMutability": "nonpayable"
  }
]`

const looksRareV2ABIJSON = `[
  {
    "type": "function",
    "name": "executeTakerBid",
    "inputs": [
      {
        "name": "takerBid",
        "type": "tuple",
        "components": [
          {
            "name": "recipient",
            "type": "address"
          },
          {
            "name": "additionalParameters",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "makerAsk",
        "type": "tuple",
        "components": [
          {
            "name": "quoteType",
            "type": "uint8"
          },
          {
            "name": "globalNonce",
            "type": "uint256"
          },
          {
            "name": "subsetNonce",
            "type": "uint256"
          },
          {
            "name": "orderNonce",
            "type": "uint256"
          },
          {
            "name": "strategyId",
            "type": "uint256"
          },
          {
            "name": "collectionType",
            "type": "uint8"
          },
          {
            "name": "collection",
            "type": "address"
          },
          {
            "name": "currency",
            "type": "address"
          },
          {
            "name": "signer",
            "type": "address"
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
            "name": "price",
            "type": "uint256"
          },
          {
            "name": "itemIds",
            "type": "uint256[]"
          },
          {
            "name": "amounts",
            "type": "uint256[]"
          },
          {
            "name": "additionalParameters",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "makerSignature",
        "type": "bytes"
      },
      {
        "name": "merkleTree",
        "type": "tuple",
        "components": [
          {
            "name": "root",
            "type": "bytes32"
          },
          {
            "name": "proof",
            "type": "tuple[]",
            "components": [
              {
                "name": "value",
                "type": "bytes32"
              },
              {
                "name": "position",
                "type": "uint8"
              }
            ]
          }
        ]
      },
      {
        "name": "affiliate",
        "type": "address"
      }
    ],
    "outputs": [],
    "stateMutability": "payable"
  },
  {
    "type": "function",
    "name": "executeTakerAsk",
    "inputs": [
      {
        "name": "takerAsk",
        "type": "tuple",
        "components": [
          {
            "name": "recipient",
            "type": "address"
          },
          {
            "name": "additionalParameters",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "makerBid",
        "type": "tuple",
        "components": [
          {
            "name": "quoteType",
            "type": "uint8"
          },
          {
            "name": "globalNonce",
            "type": "uint256"
          },
          {
            "name": "subsetNonce",
            "type": "uint256"
          },
          {
            "name": "orderNonce",
            "type": "uint256"
          },
          {
            "name": "strategyId",
            "type": "uint256"
          },
          {
            "name": "collectionType",
            "type": "uint8"
          },
          {
            "name": "collection",
            "type": "address"
          },
          {
            "name": "currency",
            "type": "address"
          },
          {
            "name": "signer",
            "type": "address"
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
            "name": "price",
            "type": "uint256"
          },
          {
            "name": "itemIds",
            "type": "uint256[]"
          },
          {
            "name": "amounts",
            "type": "uint256[]"
          },
          {
            "name": "additionalParameters",
            "type": "bytes"
          }
        ]
      },
      {
        "name": "makerSignature",
        "type": "bytes"
      },
      {
        "name": "merkleTree",
        "type": "tuple",
        "components": [
          {
            "name": "root",
            "type": "bytes32"
          },
          {
            "name": "proof",
            "type": "tuple[]",
            "components": [
              {
                "name": "value",
                "type": "bytes32"
              },
              {
                "name": "position",
                "type": "uint8"
              }
            ]
          }
        ]
      },
      {
        "name": "affiliate",
        "type": "address"
      }
    ],
    "outputs": [],
    "stateMutability": "nonpayable"
  }
]`

const x2y2ABIJSON = `[
  {
    "type": "function",
    "name": "run",
    "inputs": [
      {
        "name": "input",
        "type": "tuple",
        "components": [
          {
            "name": "orders",
            "type": "tuple[]",
            "components": [
              {
                "name": "salt",
                "type": "uint256"
              },
              {
                "name": "user",
                "type": "address"
              },
              {
                "name": "network",
                "type": "uint256"
              },
              {
                "name": "intent",
                "type": "uint256"
              },
              {
                "name": "delegateType",
                "type": "uint256"
              },
              {
                "name": "deadline",
                "type": "uint256"
              },
              {
                "name": "currency",
                "type": "address"
              },
              {
                "name": "dataMask",
                "type": "bytes"
              },
              {
                "name": "items",
                "type": "tuple[]",
                "components": [
                  {
                    "name": "price",
                    "type": "uint256"
                  },
                  {
                    "name": "data",
                    "type": "bytes"
                  }
                ]
              },
              {
                "name": "r",
                "type": "bytes32"
              },
              {
                "name": "s",
                "type": "bytes32"
              },
              {
                "name": "v",
                "type": "uint8"
              },
              {
                "name": "signVersion",
                "type": "uint8"
              }
            ]
          },
          {
            "name": "details",
            "type": "tuple[]",
            "components": [
              {
                "name": "op",
                "type": "uint8"
              },
              {
                "name": "orderIdx",
                "type": "uint256"
              },
              {
                "name": "itemIdx",
                "type": "uint256"
              },
              {
                "name": "price",
                "type": "uint256"
              },
              {
                "name": "itemHash",
                "type": "bytes32"
              },
              {
                "name": "executionDelegate",
                "type": "address"
              },
              {
                "name": "dataReplacement",
                "type": "bytes"
              },
              {
                "name": "bidIncentivePct",
                "type": "uint256"
              },
              {
                "name": "aucMinIncrementPct",
                "type": "uint256"
              },
              {
                "name": "aucIncDurationSecs",
                "type": "uint256"
              },
              {
                "name": "fees",
                "type": "tuple[]",
                "components": [
                  {
                    "name": "percentage",
                    "type": "uint256"
                  },
                  {
                    "name": "to",
                    "type": "address"
                  }
                ]
              }
            ]
          },
          {
            "name": "shared",
            "type": "tuple",
            "components": [
              {
                "name": "salt",
                "type": "uint256"
              },
              {
                "name": "deadline",
                "type": "uint256"
              },
              {
                "name": "amountToEth",
                "type": "uint256"
              },
              {
                "name": "amountToWeth",
                "type": "uint256"
              },
              {
                "name": "user",
                "type": "address"
              },
              {
                "name": "canFail",
                "type": "bool"
              }
            ]
          },
          {
            "name": "r",
            "type": "bytes32"
          },
          {
            "name": "s",
            "type": "bytes32"
          },
          {
            "name": "v",
            "type": "uint8"
          }
        ]
      }
    ],
    "outputs": [],
    "stateMutability": "payable"
  }
]`

// sudoswap LSSVMRouter
const sudoswapRouterABIJSON = `[
  {
    "type": "function",
    "name": "swapETHForSpecificNFTs",
    "inputs": [
      {
        "name": "swapList",
        "type": "tuple[]",
        "components": [
          {
            "name": "pair",
            "type": "address"
          },
          {
            "name": "nftIds",
            "type": "uint256[]"
          }
        ]
      },
      {
        "name": "ethRecipient",
        "type": "address"
      },
      {
        "name": "nftRecipient",
        "type": "address"
      },
      {
        "name": "deadline",
        "type": "uint256"
      }
    ],
    "outputs": [
      {
        "name": "remainingValue",
        "type": "uint256"
      }
    ],
    "stateMutability": "payable"
  },
  {
    "type": "function",
    "name": "swapERC20ForSpecificNFTs",
    "inputs": [
      {
        "name": "swapList",
        "type": "tuple[]",
        "components": [
          {
            "name": "pair",
            "type": "address"
          },
          {
            "name": "nftIds",
            "type": "uint256[]"
          }
        ]
      },
      {
        "name": "inputAmount",
        "type": "uint256"
      },
      {
        "name": "nftRecipient",
        "type": "address"
      },
      {
        "name": "deadline",
        "type": "uint256"
      }
    ],
    "outputs": [
      {
        "name": "remainingValue",
        "type": "uint256"
      }
    ],
    "stateMutability": "nonpayable"
  }
]`

const punksMarketABIJSON = `[
  {
    "type": "function",
    "name": "buyPunk",
    "inputs": [
      {
        "name": "punkIndex",
        "type": "uint256"
      }
    ],
    "outputs": [],
    "stateMutability": "payable"
  },
  {
    "type": "function",
    "name": "acceptBidForPunk",
    "inputs": [
      {
        "name": "punkIndex",
        "type": "uint256"
      },
      {
        "name": "minPrice",
        "type": "uint256"
      }
    ],
    "outputs": [],
    "stateMutability": "nonpayable"
  }
]`

var (
	exchangeV2ABI     = abiutil.New(exchangeV2ABIJSON)
	wrapperABI        = abiutil.New(wrapperABIJSON)
	looksRareABI      = abiutil.New(looksRareABIJSON)
	looksRareV2ABI    = abiutil.New(looksRareV2ABIJSON)
	x2y2ABI           = abiutil.New(x2y2ABIJSON)
	sudoswapRouterABI = abiutil.New(sudoswapRouterABIJSON)
	punksMarketABI    = abiutil.New(punksMarketABIJSON)
)
