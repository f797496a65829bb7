package chain

import "github.com/banky/go-nft-fill/internal/abiutil"

// The read and approval surface of the token standards and exchange
// registries the filler checks before sending a fill.

const erc20ABIJSON = `[
  {
    "type": "function",
    "name": "balanceOf",
    "inputs": [
      {
        "name": "account",
        "type": "address"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "uint256"
      }
    ],
    "stateMutability": "view"
  },
  {
    "type": "function",
    "name": "allowance",
    "inputs": [
      {
        "name": "owner",
        "type": "address"
      },
      {
        "name": "spender",
        "type": "address"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "uint256"
      }
    ],
    "stateMutability": "view"
  },
  {
    "type": "function",
    "name": "approve",
    "inputs": [
      {
        "name": "spender",
        "type": "address"
      },
      {
        "name": "amount",
        "type": "uint256"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "bool"
      }
    ],
    "stateMutability": "nonpayable"
  }
]`

const erc721ABIJSON = `[
  {
    "type": "function",
    "name": "ownerOf",
    "inputs": [
      {
        "name": "tokenId",
        "type": "uint256"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view"
  },
  {
    "type": "function",
    "name": "isApprovedForAll",
    "inputs": [
      {
        "name": "owner",
        "type": "address"
      },
      {
        "name": "operator",
        "type": "address"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "bool"
      }
    ],
    "stateMutability": "view"
  },
  {
    "type": "function",
    "name": "setApprovalForAll",
    "inputs": [
      {
        "name": "operator",
        "type": "address"
      },
      {
        "name": "approved",
        "type": "bool"
      }
    ],
    "outputs": [],
    "stateMutability": "nonpayable"
  }
]`

const erc1155ABIJSON = `[
  {
    "type": "function",
    "name": "balanceOf",
    "inputs": [
      {
        "name": "account",
        "type": "address"
      },
      {
        "name": "id",
        "type": "uint256"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "uint256"
      }
    ],
    "stateMutability": "view"
  },
  {
    "type": "function",
    "name": "isApprovedForAll",
    "inputs": [
      {
        "name": "account",
        "type": "address"
      },
      {
        "name": "operator",
        "type": "address"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "bool"
      }
    ],
    "stateMutability": "view"
  },
  {
    "type": "function",
    "name": "setApprovalForAll",
    "inputs": [
      {
        "name": "operator",
        "type": "address"
      },
      {
        "name": "approved",
        "type": "bool"
      }
    ],
    "outputs": [],
    "stateMutability": "nonpayable"
  }
]`

const seaportStatusABIJSON = `[
  {
    "type": "function",
    "name": "getOrderStatus",
    "inputs": [
      {
        "name": "orderHash",
        "type": "bytes32"
      }
    ],
    "outputs": [
      {
        "name": "isValidated",
        "type": "bool"
      },
      {
        "name": "isCancelled",
        "type": "bool"
      },
      {
        "name": "totalFilled",
        "type": "uint256"
      },
      {
        "name": "totalSize",
        "type": "uint256"
      }
    ],
    "stateMutability": "view"
  }
]`

const proxyRegistryABIJSON = `[
  {
    "type": "function",
    "name": "proxies",
    "inputs": [
      {
        "name": "",
        "type": "address"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view"
  },
  {
    "type": "function",
    "name": "registerProxy",
    "inputs": [],
    "outputs": [
      {
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "nonpayable"
  }
]`

const punksABIJSON = `[
  {
    "type": "function",
    "name": "punkIndexToAddress",
    "inputs": [
      {
        "name": "",
        "type": "uint256"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view"
  }
]`

// royalties registry of the native exchange
const royaltiesRegistryABIJSON = `[
  {
    "type": "function",
    "name": "getRoyalties",
    "inputs": [
      {
        "name": "token",
        "type": "address"
      },
      {
        "name": "tokenId",
        "type": "uint256"
      }
    ],
    "outputs": [
      {
        "name": "",
        "type": "tuple[]",
        "components": [
          {
            "name": "account",
            "type": "address"
          },
          {
            "name": "value",
            "type": "uint96"
          }
        ]
      }
    ],
    "stateMutability": "nonpayable"
  }
]`

var (
	erc20ABI             = abiutil.New(erc20ABIJSON)
	erc721ABI            = abiutil.New(erc721ABIJSON)
	erc1155ABI           = abiutil.New(erc1155ABIJSON)
	seaportStatusABI     = abiutil.New(seaportStatusABIJSON)
	proxyRegistryABI     = abiutil.New(proxyRegistryABIJSON)
	punksABI             = abiutil.New(punksABIJSON)
	royaltiesRegistryABI = abiutil.New(royaltiesRegistryABIJSON)
)
