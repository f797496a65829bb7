package fill

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/banky/go-nft-fill/chain"
	"github.com/banky/go-nft-fill/config"
	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/fee"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/rest"
	"github.com/banky/go-nft-fill/seaport"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/maxatome/go-testdeep/helpers/tdsuite"
	"github.com/maxatome/go-testdeep/td"
)

var (
	taker      = common.HexToAddress("0x7000000000000000000000000000000000000007")
	maker      = common.HexToAddress("0xA00000000000000000000000000000000000000A")
	nftToken   = common.HexToAddress("0xB00000000000000000000000000000000000000B")
	erc20Token = common.HexToAddress("0xC00000000000000000000000000000000000000C")
	feeAccount = common.HexToAddress("0xD00000000000000000000000000000000000000D")
	pool       = common.HexToAddress("0xE00000000000000000000000000000000000000E")
	wrapper    = common.HexToAddress("0xF00000000000000000000000000000000000000F")

	signature = bytes.Repeat([]byte{0x01}, 65)
	now       = time.Unix(1_700_000_000, 0)
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func finney(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e15))
}

func word(v int64) []byte {
	return common.LeftPadBytes(big.NewInt(v).Bytes(), 32)
}

func addressWord(a common.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), 32)
}

/*//////////////////////////////////////////////////////////////
                             MOCKS
//////////////////////////////////////////////////////////////*/

// mockBackend answers contract calls by selector
type mockBackend struct {
	calls       int
	responses   map[string]func(data []byte) ([]byte, error)
	balanceFunc func(account common.Address) (*big.Int, error)
	receiptFunc func(hash common.Hash) (*ethtypes.Receipt, error)
}

var _ chain.Backend = (*mockBackend)(nil)

func newMockBackend() *mockBackend {
	return &mockBackend{responses: map[string]func([]byte) ([]byte, error){}}
}

func (m *mockBackend) respond(selector string, out []byte) {
	m.responses[selector] = func([]byte) ([]byte, error) { return out, nil }
}

func (m *mockBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	m.calls++
	if len(call.Data) < 4 {
		return nil, errors.New("call without selector")
	}
	selector := hexutil.Encode(call.Data[:4])
	respond, ok := m.responses[selector]
	if !ok {
		return nil, fmt.Errorf("unexpected call %s", selector)
	}
	return respond(call.Data)
}

func (m *mockBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	m.calls++
	if m.balanceFunc == nil {
		return nil, errors.New("unexpected balance read")
	}
	return m.balanceFunc(account)
}

func (m *mockBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	if m.receiptFunc != nil {
		return m.receiptFunc(hash)
	}
	return &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, TxHash: hash}, nil
}

func (m *mockBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error) {
	m.calls++
	return &ethtypes.Header{Time: uint64(now.Unix())}, nil
}

type sentTx struct {
	call  FunctionCall
	value *big.Int
}

type mockWallet struct {
	from      common.Address
	fromCalls int
	sent      []sentTx
	onSend    func(call FunctionCall)
}

var _ Wallet = (*mockWallet)(nil)

func (m *mockWallet) GetFrom(ctx context.Context) (common.Address, error) {
	m.fromCalls++
	return m.from, nil
}

func (m *mockWallet) SendTransaction(ctx context.Context, call FunctionCall, opts SendOptions) (common.Hash, error) {
	m.sent = append(m.sent, sentTx{call: call, value: opts.Value})
	if m.onSend != nil {
		m.onSend(call)
	}
	return common.BigToHash(big.NewInt(int64(len(m.sent)))), nil
}

type mockSigner struct {
	requests []X2Y2RunRequest
	input    []byte
}

var _ X2Y2Signer = (*mockSigner)(nil)

func (m *mockSigner) SignRun(ctx context.Context, req X2Y2RunRequest) ([]byte, error) {
	m.requests = append(m.requests, req)
	return m.input, nil
}

type mockRestClient struct {
	postFunc func(ctx context.Context, path string, body any, result any) error
}

var _ rest.ClientInterface = (*mockRestClient)(nil)

func (m *mockRestClient) Get(ctx context.Context, path string, query map[string]string, result any) error {
	return errors.New("unexpected get")
}

func (m *mockRestClient) Post(ctx context.Context, path string, body any, result any) error {
	return m.postFunc(ctx, path, body, result)
}

/*//////////////////////////////////////////////////////////////
                            ORDERS
//////////////////////////////////////////////////////////////*/

func erc721(contract common.Address, id int64) order.AssetType {
	return order.AssetType{Class: order.ClassERC721, Contract: contract, TokenID: big.NewInt(id)}
}

var (
	ethAsset   = order.AssetType{Class: order.ClassETH}
	erc20Asset = order.AssetType{Class: order.ClassERC20, Contract: erc20Token}
)

func nativeSell(currency order.AssetType, price *big.Int) order.Order {
	return order.Order{
		Protocol:  order.RaribleV2,
		Hash:      types.HexToOrderHash("0x01"),
		Maker:     maker,
		Make:      order.Asset{Type: erc721(nftToken, 7), Value: big.NewInt(1)},
		Take:      order.Asset{Type: currency, Value: price},
		Salt:      big.NewInt(1),
		Signature: signature,
		Data:      order.NativeData{Type: order.NativeDataV2},
	}
}

func ammSell(id int64, price *big.Int) order.Order {
	return order.Order{
		Protocol: order.AMM,
		Maker:    pool,
		Make:     order.Asset{Type: erc721(nftToken, id), Value: big.NewInt(1)},
		Take:     order.Asset{Type: ethAsset, Value: price},
		Data:     order.AmmData{Pool: pool},
	}
}

func collectionBid() order.Order {
	return order.Order{
		Protocol:  order.LooksRareV2,
		Maker:     maker,
		Make:      order.Asset{Type: erc20Asset, Value: ether(1)},
		Take:      order.Asset{Type: order.AssetType{Class: order.ClassCollection, Contract: nftToken}, Value: big.NewInt(1)},
		Signature: signature,
		Data: order.LooksRareV2Data{
			QuoteType:  looksRareV2Bid,
			StrategyID: big.NewInt(1),
		},
	}
}

/*//////////////////////////////////////////////////////////////
                             SUITE
//////////////////////////////////////////////////////////////*/

type FillSuite struct {
	backend *mockBackend
	wallet  *mockWallet
	celo    config.Config
	mainnet config.Config
}

func TestFillSuite(t *testing.T) {
	tdsuite.Run(t, &FillSuite{})
}

func (s *FillSuite) PreTest(t *td.T, testName string) error {
	s.backend = newMockBackend()
	s.wallet = &mockWallet{from: taker}

	celo, err := config.ForChain(constants.CELO_CHAIN_ID)
	if err != nil {
		return err
	}
	celo.ConfirmationAttempts = 2
	celo.ConfirmationInterval = 0
	celo.FeeRecipient = feeAccount
	celo.Fees = fee.Table{Native: 100, Wrapper: 50}
	s.celo = celo

	mainnet, err := config.ForChain(constants.MAINNET_CHAIN_ID)
	if err != nil {
		return err
	}
	mainnet.ConfirmationInterval = 0
	mainnet.Fees = fee.Table{Native: 100, Wrapper: 50}
	s.mainnet = mainnet
	return nil
}

func (s *FillSuite) filler(t *td.T, cfg config.Config, opts ...Option) *Filler {
	f, err := New(cfg, s.wallet, s.backend, append([]Option{WithClock(func() time.Time { return now })}, opts...)...)
	td.Require(t).CmpNoError(err)
	return f
}

func (s *FillSuite) TestNativeBuyEncodesCounterOrder(assert, require *td.T) {
	f := s.filler(require, s.celo)
	o := nativeSell(ethAsset, ether(1))

	prepared, err := f.GetTransactionData(context.Background(), order.NewFillRequest(o))
	require.CmpNoError(err)

	// the counter order pays the maker in full and the 1% native fee as an
	// origin fee
	want := strings.Join([]string{
		"e99a3f80",                                                         // selector
		"0000000000000000000000000000000000000000000000000000000000000080", // left order
		"0000000000000000000000000000000000000000000000000000000000000400", // left signature
		"0000000000000000000000000000000000000000000000000000000000000480", // right order
		"0000000000000000000000000000000000000000000000000000000000000880", // right signature
		"000000000000000000000000a00000000000000000000000000000000000000a", // left maker
		"0000000000000000000000000000000000000000000000000000000000000120", // make asset
		"0000000000000000000000000000000000000000000000000000000000000000", // no taker
		"0000000000000000000000000000000000000000000000000000000000000200", // take asset
		"0000000000000000000000000000000000000000000000000000000000000001", // salt
		"0000000000000000000000000000000000000000000000000000000000000000", // start
		"0000000000000000000000000000000000000000000000000000000000000000", // end
		"23d235ef00000000000000000000000000000000000000000000000000000000", // V2 data type
		"00000000000000000000000000000000000000000000000000000000000002a0", // order data
		"0000000000000000000000000000000000000000000000000000000000000040", // erc721 asset type
		"0000000000000000000000000000000000000000000000000000000000000001", // one token
		"73ad214600000000000000000000000000000000000000000000000000000000", // ERC721 class
		"0000000000000000000000000000000000000000000000000000000000000040",
		"0000000000000000000000000000000000000000000000000000000000000040", // token data length
		"000000000000000000000000b00000000000000000000000000000000000000b", // token
		"0000000000000000000000000000000000000000000000000000000000000007", // token id
		"0000000000000000000000000000000000000000000000000000000000000040", // eth asset type
		"0000000000000000000000000000000000000000000000000de0b6b3a7640000", // one ether
		"aaaebeba00000000000000000000000000000000000000000000000000000000", // ETH class
		"0000000000000000000000000000000000000000000000000000000000000040",
		"0000000000000000000000000000000000000000000000000000000000000000", // no eth data
		"00000000000000000000000000000000000000000000000000000000000000c0", // order data length
		"0000000000000000000000000000000000000000000000000000000000000020",
		"0000000000000000000000000000000000000000000000000000000000000060", // no payouts
		"0000000000000000000000000000000000000000000000000000000000000080", // no origin fees
		"0000000000000000000000000000000000000000000000000000000000000000", // is make fill
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000041", // 65 byte signature
		"0101010101010101010101010101010101010101010101010101010101010101",
		"0101010101010101010101010101010101010101010101010101010101010101",
		"0100000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000007000000000000000000000000000000000000007", // right maker, the taker
		"0000000000000000000000000000000000000000000000000000000000000120",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"00000000000000000000000000000000000000000000000000000000000001c0",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"23d235ef00000000000000000000000000000000000000000000000000000000", // V2 data type
		"00000000000000000000000000000000000000000000000000000000000002a0",
		"0000000000000000000000000000000000000000000000000000000000000040",
		"0000000000000000000000000000000000000000000000000de0b6b3a7640000",
		"aaaebeba00000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000040",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000040",
		"0000000000000000000000000000000000000000000000000000000000000001",
		"73ad214600000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000040",
		"0000000000000000000000000000000000000000000000000000000000000040",
		"000000000000000000000000b00000000000000000000000000000000000000b",
		"0000000000000000000000000000000000000000000000000000000000000007",
		"0000000000000000000000000000000000000000000000000000000000000140", // order data length
		"0000000000000000000000000000000000000000000000000000000000000020",
		"0000000000000000000000000000000000000000000000000000000000000060",
		"00000000000000000000000000000000000000000000000000000000000000c0",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000001", // one payout
		"0000000000000000000000007000000000000000000000000000000000000007", // taker
		"0000000000000000000000000000000000000000000000000000000000002710", // 100%
		"0000000000000000000000000000000000000000000000000000000000000001", // one origin fee
		"000000000000000000000000d00000000000000000000000000000000000000d", // fee recipient
		"0000000000000000000000000000000000000000000000000000000000000064", // 1% base fee
		"0000000000000000000000000000000000000000000000000000000000000000", // right order is unsigned
	}, "")

	assert.Cmp(prepared.Contract, s.celo.Exchange.RaribleV2)
	assert.Cmp(prepared.Method, "matchOrders")
	assert.Cmp(hexutil.Encode(prepared.Data[:4]), "0xe99a3f80")
	assert.Cmp(hex.EncodeToString(prepared.Data), want)
	// 1% native fee on top of the price
	assert.Cmp(prepared.Value, finney(1010))
	assert.Cmp(prepared.From, taker)
	assert.Cmp(s.backend.calls, 0)
}

func (s *FillSuite) TestNativeBuySkipsApprovalStage(assert, require *td.T) {
	ctx := context.Background()
	f := s.filler(require, s.celo)

	action, err := f.Buy(ctx, order.NewFillRequest(nativeSell(ethAsset, ether(1))))
	require.CmpNoError(err)
	assert.Cmp(action.State(), ReadyToSend)
	assert.Cmp(action.Stages(), []Stage{StageSendTx})

	approved, err := action.Approve(ctx)
	require.CmpNoError(err)
	assert.Empty(approved)

	tx, err := action.Send(ctx)
	require.CmpNoError(err)
	assert.Cmp(tx.To, s.celo.Exchange.RaribleV2)
	assert.Cmp(action.State(), Submitted)
	assert.Cmp(action.FillTx().MustGet(), tx.Hash)
	require.Len(s.wallet.sent, 1)
	assert.Cmp(s.wallet.sent[0].value, finney(1010))

	_, err = action.Send(ctx)
	assert.True(errors.Is(err, ErrStageOrder))
	_, err = action.Approve(ctx)
	assert.True(errors.Is(err, ErrStageOrder))
	assert.Len(s.wallet.sent, 1)
}

func (s *FillSuite) TestNativeBuyWithERC20Approves(assert, require *td.T) {
	ctx := context.Background()
	f := s.filler(require, s.celo)

	allowance := word(0)
	s.backend.responses["0xdd62ed3e"] = func([]byte) ([]byte, error) { return allowance, nil }
	s.wallet.onSend = func(call FunctionCall) {
		if call.Method == "approve" {
			allowance = constants.MAX_UINT256.FillBytes(make([]byte, 32))
		}
	}

	action, err := f.Fill(ctx, order.NewFillRequest(nativeSell(erc20Asset, ether(1))))
	require.CmpNoError(err)
	assert.Cmp(action.State(), NeedsApproval)
	assert.Cmp(action.Stages(), []Stage{StageApprove, StageSendTx})
	assert.Cmp(action.Approvals(), []Approval{{
		Kind:     ApprovalERC20,
		Token:    erc20Token,
		Operator: s.celo.TransferProxies.ERC20,
		Amount:   finney(1010),
	}})

	_, err = action.Send(ctx)
	assert.True(errors.Is(err, ErrStageOrder))

	approved, err := action.Approve(ctx)
	require.CmpNoError(err)
	assert.Len(approved, 1)
	assert.Cmp(action.State(), ReadyToSend)
	require.Len(s.wallet.sent, 1)
	assert.Cmp(s.wallet.sent[0].call.Contract, erc20Token)
	assert.Cmp(hexutil.Encode(s.wallet.sent[0].call.Data[:4]), "0x095ea7b3")

	_, err = action.Send(ctx)
	require.CmpNoError(err)
	require.Len(s.wallet.sent, 2)
	assert.Cmp(s.wallet.sent[1].value, new(big.Int))
}

func (s *FillSuite) TestApprovalNotConfirmedResumes(assert, require *td.T) {
	ctx := context.Background()
	f := s.filler(require, s.celo)

	allowance := word(0)
	s.backend.responses["0xdd62ed3e"] = func([]byte) ([]byte, error) { return allowance, nil }
	s.backend.receiptFunc = func(common.Hash) (*ethtypes.Receipt, error) { return nil, ethereum.NotFound }

	req := order.NewFillRequest(nativeSell(erc20Asset, ether(1)))
	action, err := f.Fill(ctx, req)
	require.CmpNoError(err)

	_, err = action.Approve(ctx)
	assert.True(errors.Is(err, chain.ErrNotConfirmed))
	assert.Cmp(action.State(), AwaitingApprovalTx)

	checkpoint, err := action.Checkpoint()
	require.CmpNoError(err)

	// the approval lands after the process restarted
	allowance = constants.MAX_UINT256.FillBytes(make([]byte, 32))
	s.backend.receiptFunc = nil

	resumed, err := f.Resume(ctx, checkpoint, req)
	require.CmpNoError(err)
	assert.Cmp(resumed.ID(), action.ID())
	assert.Cmp(resumed.State(), AwaitingApprovalTx)

	approved, err := resumed.Approve(ctx)
	require.CmpNoError(err)
	assert.Cmp(approved, []common.Hash{common.BigToHash(big.NewInt(1))})
	assert.Cmp(resumed.State(), ReadyToSend)
	assert.Len(s.wallet.sent, 1)

	other := req
	other.Order.Hash = types.HexToOrderHash("0x02")
	_, err = f.Resume(ctx, checkpoint, other)
	assert.Cmp(err, td.Contains("does not match"))
}

func (s *FillSuite) TestFeesRejectedBeforeAnyRead(assert, require *td.T) {
	f := s.filler(require, s.celo)

	req := order.NewFillRequest(
		nativeSell(ethAsset, ether(1)),
		order.WithOriginFees(order.Part{Account: feeAccount, Value: 9950}),
	)
	_, err := f.Fill(context.Background(), req)
	assert.True(errors.Is(err, fee.ErrInvalidFeeConfig))
	assert.Cmp(s.backend.calls, 0)
	assert.Cmp(s.wallet.fromCalls, 0)
}

func (s *FillSuite) TestAcceptCollectionBid(assert, require *td.T) {
	ctx := context.Background()
	f := s.filler(require, s.mainnet)

	_, err := f.AcceptBid(ctx, order.NewFillRequest(collectionBid()))
	assert.True(errors.Is(err, types.ErrEncoding))
	assert.Cmp(s.backend.calls, 0)

	s.backend.respond("0xe985e9c5", word(1))
	action, err := f.AcceptBid(ctx, order.NewFillRequest(collectionBid(), order.WithAssetType(erc721(nftToken, 42))))
	require.CmpNoError(err)
	assert.Cmp(action.Stages(), []Stage{StageSendTx})

	tx, err := action.Send(ctx)
	require.CmpNoError(err)
	assert.Cmp(tx.To, s.mainnet.Exchange.LooksRareV2)
	assert.Cmp(hexutil.Encode(tx.Data[:4]), "0xe72853e1")

	method, err := looksRareV2ABI.Method("executeTakerAsk")
	require.CmpNoError(err)
	args, err := method.Inputs.Unpack(tx.Data[4:])
	require.CmpNoError(err)
	assert.Cmp(args[0], td.Smuggle("AdditionalParameters", word(42)))
	assert.Cmp(args[0], td.Smuggle("Recipient", taker))

	_, err = f.Buy(ctx, order.NewFillRequest(collectionBid()))
	assert.True(errors.Is(err, types.ErrEncoding))
}

func (s *FillSuite) TestProtocolSelectors(assert, require *td.T) {
	s.backend.respond("0x58178168", addressWord(maker))

	tests := []struct {
		name     string
		order    order.Order
		opts     []order.FillRequestOption
		contract common.Address
		selector string
		value    *big.Int
	}{
		{
			name: "punk",
			order: order.Order{
				Protocol: order.CryptoPunk,
				Maker:    maker,
				Make: order.Asset{
					Type:  order.AssetType{Class: order.ClassCryptoPunks, Contract: s.mainnet.Exchange.CryptoPunks, TokenID: big.NewInt(9)},
					Value: big.NewInt(1),
				},
				Take: order.Asset{Type: ethAsset, Value: ether(5)},
				Data: order.CryptoPunksData{},
			},
			contract: s.mainnet.Exchange.CryptoPunks,
			selector: "0x8264fe98",
			value:    ether(5),
		},
		{
			name:     "amm",
			order:    ammSell(3, finney(200)),
			opts:     []order.FillRequestOption{order.WithAmmTokenIDs(big.NewInt(3), big.NewInt(4))},
			contract: s.mainnet.Exchange.SudoswapRouter,
			selector: "0x11132000",
			value:    finney(400),
		},
		{
			name: "looksrare",
			order: order.Order{
				Protocol:  order.LooksRare,
				Maker:     maker,
				Make:      order.Asset{Type: erc721(nftToken, 5), Value: big.NewInt(1)},
				Take:      order.Asset{Type: ethAsset, Value: ether(1)},
				Signature: signature,
				Data:      order.LooksRareData{Strategy: pool, Nonce: big.NewInt(1), MinPercentageToAsk: 8500},
			},
			contract: s.mainnet.Exchange.LooksRare,
			selector: "0xb4e4b296",
			value:    ether(1),
		},
	}

	f := s.filler(require, s.mainnet)
	for _, tt := range tests {
		require.Run(tt.name, func(t *td.T) {
			prepared, err := f.GetTransactionData(context.Background(), order.NewFillRequest(tt.order, tt.opts...))
			t.Require().CmpNoError(err)
			t.Cmp(prepared.Contract, tt.contract)
			t.Cmp(hexutil.Encode(prepared.Data[:4]), tt.selector)
			t.Cmp(prepared.Value, tt.value)
		})
	}
}

func (s *FillSuite) TestPunkOwnedBySomeoneElse(assert, require *td.T) {
	s.backend.respond("0x58178168", addressWord(feeAccount))
	f := s.filler(require, s.mainnet)

	o := order.Order{
		Protocol: order.CryptoPunk,
		Maker:    maker,
		Make: order.Asset{
			Type:  order.AssetType{Class: order.ClassCryptoPunks, Contract: s.mainnet.Exchange.CryptoPunks, TokenID: big.NewInt(9)},
			Value: big.NewInt(1),
		},
		Take: order.Asset{Type: ethAsset, Value: ether(5)},
		Data: order.CryptoPunksData{},
	}
	_, err := f.GetTransactionData(context.Background(), order.NewFillRequest(o))
	assert.True(errors.Is(err, types.ErrEncoding))
	assert.Cmp(err, td.Contains("owned by"))
}

func (s *FillSuite) TestOriginFeesGoThroughWrapper(assert, require *td.T) {
	cfg := s.mainnet
	cfg.Exchange.Wrapper = wrapper
	f := s.filler(require, cfg)

	req := order.NewFillRequest(ammSell(3, finney(200)), order.WithOriginFees(order.Part{Account: feeAccount, Value: 200}))
	prepared, err := f.GetTransactionData(context.Background(), req)
	require.CmpNoError(err)
	assert.Cmp(prepared.Contract, wrapper)
	assert.Cmp(prepared.Method, "singlePurchase")
	assert.Cmp(hexutil.Encode(prepared.Data[:4]), "0x86496e7a")
	assert.Cmp(prepared.MarketID, constants.WRAPPER_AMM)
	// 2% origin fee and the 0.5% wrapper fee on top
	assert.Cmp(prepared.Value, finney(205))

	bid := collectionBid()
	_, err = f.GetTransactionData(context.Background(), order.NewFillRequest(
		bid,
		order.WithAssetType(erc721(nftToken, 1)),
		order.WithOriginFees(order.Part{Account: feeAccount, Value: 200}),
	))
	assert.True(errors.Is(err, types.ErrUnsupportedProtocol))

	_, err = s.filler(require, s.mainnet).GetTransactionData(context.Background(), req)
	assert.True(errors.Is(err, types.ErrUnsupportedProtocol))
}

func (s *FillSuite) TestAddRoyaltyThroughWrapper(assert, require *td.T) {
	ctx := context.Background()
	cfg := s.mainnet
	cfg.Exchange.Wrapper = wrapper
	f := s.filler(require, cfg)

	artist := common.HexToAddress("0x5000000000000000000000000000000000000005")
	royaltyWord := make([]byte, 32)
	royaltyWord[11] = 100
	copy(royaltyWord[12:], artist.Bytes())

	var registryCall []byte
	s.backend.responses["0x9ca7dc7a"] = func(data []byte) ([]byte, error) {
		registryCall = data
		out := append(word(32), word(1)...)
		out = append(out, addressWord(artist)...)
		return append(out, word(100)...), nil
	}

	singlePurchase, err := wrapperABI.Method("singlePurchase")
	require.CmpNoError(err)
	details := func(data []byte) purchaseDetailsTuple {
		args, err := singlePurchase.Inputs.Unpack(data[4:])
		require.CmpNoError(err)
		return *abi.ConvertType(args[0], new(purchaseDetailsTuple)).(*purchaseDetailsTuple)
	}

	originFee := order.WithOriginFees(order.Part{Account: feeAccount, Value: 200})
	plain, err := f.GetTransactionData(ctx, order.NewFillRequest(ammSell(3, finney(200)), originFee))
	require.CmpNoError(err)
	inner := details(plain.Data).Data
	assert.Cmp(len(registryCall), 0)

	prepared, err := f.GetTransactionData(ctx, order.NewFillRequest(ammSell(3, finney(200)), originFee, order.WithAddRoyalty(true)))
	require.CmpNoError(err)
	assert.Cmp(prepared.Contract, wrapper)
	assert.Cmp(prepared.Method, "singlePurchase")
	// 2% origin fee, 1% royalty and the 0.5% wrapper fee on top
	assert.Cmp(prepared.Value, finney(207))
	assert.Cmp(registryCall[4:36], addressWord(nftToken))
	assert.Cmp(registryCall[36:68], word(3))

	got := details(prepared.Data)
	assert.Cmp(got.MarketId, constants.WRAPPER_AMM)
	assert.Cmp(got.Fees.Int64(), int64(1<<32|200<<16))

	padded := common.RightPadBytes(inner, (len(inner)+31)/32*32)
	want := append(word(32), word(64)...)
	want = append(want, word(int64(64+32+len(padded)))...)
	want = append(want, word(int64(len(inner)))...)
	want = append(want, padded...)
	want = append(want, word(1)...)
	want = append(want, royaltyWord...)
	assert.Cmp(got.Data, want)

	// royalties count against the same 100% as origin fees
	s.backend.respond("0x9ca7dc7a", append(append(append(word(32), word(1)...), addressWord(artist)...), word(9800)...))
	_, err = f.GetTransactionData(ctx, order.NewFillRequest(ammSell(3, finney(200)), originFee, order.WithAddRoyalty(true)))
	assert.True(errors.Is(err, fee.ErrInvalidFeeConfig))
}

func (s *FillSuite) TestAddRoyaltyUnsupported(assert, require *td.T) {
	ctx := context.Background()
	cfg := s.mainnet
	cfg.Exchange.Wrapper = wrapper
	f := s.filler(require, cfg)

	tests := []struct {
		name string
		f    *Filler
		req  order.FillRequest
	}{
		{"native order", s.filler(require, s.celo), order.NewFillRequest(nativeSell(ethAsset, ether(1)), order.WithAddRoyalty(true))},
		{"no registry on chain", s.filler(require, s.celo), order.NewFillRequest(ammSell(3, finney(200)), order.WithAddRoyalty(true))},
		{"bid", f, order.NewFillRequest(collectionBid(), order.WithAssetType(erc721(nftToken, 1)), order.WithAddRoyalty(true))},
	}
	for _, tt := range tests {
		_, err := tt.f.GetTransactionData(ctx, tt.req)
		assert.True(errors.Is(err, types.ErrUnsupportedProtocol), tt.name)
	}
	assert.Cmp(s.backend.calls, 0)
}

func (s *FillSuite) TestUnsupportedOnChain(assert, require *td.T) {
	f := s.filler(require, s.celo)

	o := nativeSell(ethAsset, ether(1))
	o.Protocol = order.LooksRare
	o.Data = order.LooksRareData{Strategy: pool}
	_, err := f.Fill(context.Background(), order.NewFillRequest(o))
	assert.True(errors.Is(err, types.ErrUnsupportedProtocol))

	_, err = f.BaseFee(context.Background(), order.Order{Protocol: "FOUNDATION"}, false)
	assert.True(errors.Is(err, types.ErrUnsupportedProtocol))

	bps, err := f.BaseFee(context.Background(), o, true)
	require.CmpNoError(err)
	assert.Cmp(bps, uint64(50))
}

func (s *FillSuite) TestSeaportBuy(assert, require *td.T) {
	ctx := context.Background()
	f := s.filler(require, s.mainnet)

	o := order.Order{
		Protocol:  order.SeaportV1_5,
		Maker:     maker,
		Make:      order.Asset{Type: erc721(nftToken, 1), Value: big.NewInt(1)},
		Take:      order.Asset{Type: ethAsset, Value: ether(1)},
		Salt:      big.NewInt(9),
		Signature: signature,
		Data: order.SeaportData{
			OrderType:  seaport.FullOpen,
			ConduitKey: s.mainnet.Seaport.ConduitKey,
			Offer: []seaport.Item{{
				ItemType:             seaport.ItemERC721,
				Token:                nftToken,
				IdentifierOrCriteria: big.NewInt(1),
				StartAmount:          big.NewInt(1),
				EndAmount:            big.NewInt(1),
			}},
			Consideration: []seaport.ConsiderationItem{{
				Item: seaport.Item{
					ItemType:             seaport.ItemNative,
					IdentifierOrCriteria: new(big.Int),
					StartAmount:          ether(1),
					EndAmount:            ether(1),
				},
				Recipient: maker,
			}},
		},
	}

	s.backend.respond("0x6352211e", addressWord(maker))
	s.backend.respond("0xe985e9c5", word(1))
	s.backend.balanceFunc = func(account common.Address) (*big.Int, error) {
		if account != taker {
			return nil, fmt.Errorf("unexpected balance of %s", account.Hex())
		}
		return ether(2), nil
	}

	action, err := f.Buy(ctx, order.NewFillRequest(o))
	require.CmpNoError(err)
	assert.Cmp(action.State(), ReadyToSend)

	tx, err := action.Send(ctx)
	require.CmpNoError(err)
	assert.Cmp(tx.To, s.mainnet.Exchange.SeaportV1_5)
	assert.Cmp(tx.Value, ether(1))

	// without funds the fill fails before anything is sent
	s.backend.balanceFunc = func(common.Address) (*big.Int, error) { return big.NewInt(1), nil }
	_, err = f.Buy(ctx, order.NewFillRequest(o))
	assert.True(errors.Is(err, seaport.ErrInsufficientBalanceOrApproval))

	calls := s.backend.calls
	prepared, err := f.GetTransactionData(ctx, order.NewFillRequest(o, order.WithDisableCheckingBalances()))
	require.CmpNoError(err)
	assert.Cmp(prepared.Method, "fulfillAdvancedOrder")
	// only the block timestamp is read
	assert.Cmp(s.backend.calls, calls+1)
	assert.Len(s.wallet.sent, 1)
}

func (s *FillSuite) TestX2Y2(assert, require *td.T) {
	o := order.Order{
		Protocol: order.X2Y2,
		Maker:    maker,
		Make:     order.Asset{Type: erc721(nftToken, 5), Value: big.NewInt(1)},
		Take:     order.Asset{Type: ethAsset, Value: ether(1)},
		Data:     order.X2Y2Data{OrderID: 77},
	}

	_, err := s.filler(require, s.mainnet).GetTransactionData(context.Background(), order.NewFillRequest(o))
	assert.True(errors.Is(err, types.ErrUnsupportedProtocol))

	signer := &mockSigner{input: []byte{0x01, 0x02}}
	_, err = s.filler(require, s.mainnet, WithX2Y2Signer(signer)).GetTransactionData(context.Background(), order.NewFillRequest(o))
	assert.True(errors.Is(err, types.ErrEncoding))
	require.Len(signer.requests, 1)
	assert.Cmp(signer.requests[0], X2Y2RunRequest{
		Caller:  taker,
		Op:      x2y2OpCompleteSellOffer,
		OrderID: 77,
		Price:   ether(1),
	})
}

func (s *FillSuite) TestBatch(assert, require *td.T) {
	ctx := context.Background()
	cfg := s.mainnet
	cfg.Exchange.Wrapper = wrapper
	f := s.filler(require, cfg)
	originFees := []order.Part{{Account: feeAccount, Value: 100}}

	prepared, err := f.FillBatch(ctx, []order.FillRequest{
		order.NewFillRequest(ammSell(3, finney(200))),
		order.NewFillRequest(ammSell(4, finney(200))),
	}, originFees)
	require.CmpNoError(err)
	assert.Cmp(prepared.Contract, wrapper)
	assert.Cmp(hexutil.Encode(prepared.Data[:4]), "0xb94ee332")
	// 1% origin fee and 0.5% wrapper fee on each order
	assert.Cmp(prepared.Value, finney(406))

	_, err = f.BuyBatch(ctx, []order.FillRequest{
		order.NewFillRequest(ammSell(3, finney(200))),
		order.NewFillRequest(collectionBid(), order.WithAssetType(erc721(nftToken, 1))),
	}, originFees)
	assert.Cmp(err, td.Contains("batch order 1"))
	assert.True(errors.Is(err, types.ErrEncoding))

	_, err = f.BuyBatch(ctx, []order.FillRequest{order.NewFillRequest(ammSell(3, finney(200)))}, []order.Part{
		{Account: feeAccount, Value: 100},
		{Account: maker, Value: 100},
		{Account: taker, Value: 100},
	})
	assert.True(errors.Is(err, fee.ErrInvalidFeeConfig))
	assert.Empty(s.wallet.sent)

	_, err = s.filler(require, s.mainnet).FillBatch(ctx, []order.FillRequest{order.NewFillRequest(ammSell(3, finney(200)))}, nil)
	assert.True(errors.Is(err, types.ErrUnsupportedProtocol))
}

/*//////////////////////////////////////////////////////////////
                          UNIT TESTS
//////////////////////////////////////////////////////////////*/

func TestEncodeAssetType(t *testing.T) {
	eth, err := encodeAssetType(ethAsset)
	td.Require(t).CmpNoError(err)
	td.Cmp(t, hexutil.Encode(eth.AssetClass[:]), "0xaaaebeba")
	td.CmpEmpty(t, eth.Data)

	nft, err := encodeAssetType(erc721(nftToken, 7))
	td.Require(t).CmpNoError(err)
	td.Cmp(t, hexutil.Encode(nft.AssetClass[:]), "0x73ad2146")
	td.Cmp(t, nft.Data, append(addressWord(nftToken), word(7)...))

	token, err := encodeAssetType(erc20Asset)
	td.Require(t).CmpNoError(err)
	td.Cmp(t, hexutil.Encode(token.AssetClass[:]), "0x8ae85d84")
	td.Cmp(t, token.Data, addressWord(erc20Token))

	_, err = encodeAssetType(order.AssetType{Class: "FOO"})
	td.CmpTrue(t, errors.Is(err, types.ErrEncoding))
}

func TestEncodeNativeDataType(t *testing.T) {
	dataType, data, err := encodeNativeData(order.NativeData{
		Type:       order.NativeDataV2,
		Payouts:    []order.Part{{Account: maker, Value: 10000}},
		IsMakeFill: true,
	})
	td.Require(t).CmpNoError(err)
	td.Cmp(t, hexutil.Encode(dataType[:]), "0x23d235ef")
	td.CmpNotEmpty(t, data)

	_, _, err = encodeNativeData(order.NativeData{Type: "V9"})
	td.CmpTrue(t, errors.Is(err, types.ErrEncoding))
}

func TestDedupeApprovals(t *testing.T) {
	operator := common.HexToAddress("0x01")
	got := dedupeApprovals([]Approval{
		{Kind: ApprovalERC20, Token: erc20Token, Operator: operator, Amount: big.NewInt(5)},
		{Kind: ApprovalForAll, Token: nftToken, Operator: operator},
		{Kind: ApprovalERC20, Token: erc20Token, Operator: operator, Amount: big.NewInt(9)},
		{Kind: ApprovalForAll, Token: nftToken, Operator: operator},
	})
	td.Cmp(t, got, []Approval{
		{Kind: ApprovalERC20, Token: erc20Token, Operator: operator, Amount: big.NewInt(9)},
		{Kind: ApprovalForAll, Token: nftToken, Operator: operator},
	})
}

func TestApprovalCall(t *testing.T) {
	operator := common.HexToAddress("0x01")

	call, err := Approval{Kind: ApprovalERC20, Token: erc20Token, Operator: operator, Amount: big.NewInt(5)}.call(false)
	td.Require(t).CmpNoError(err)
	td.Cmp(t, call.Contract, erc20Token)
	td.Cmp(t, call.Data[len(call.Data)-32:], word(5))

	call, err = Approval{Kind: ApprovalERC20, Token: erc20Token, Operator: operator, Amount: big.NewInt(5)}.call(true)
	td.Require(t).CmpNoError(err)
	td.Cmp(t, call.Data[len(call.Data)-32:], constants.MAX_UINT256.FillBytes(make([]byte, 32)))

	call, err = Approval{Kind: ApprovalRegisterProxy, Token: nftToken}.call(false)
	td.Require(t).CmpNoError(err)
	td.Cmp(t, call.Method, "registerProxy")

	_, err = Approval{Kind: "BOGUS"}.call(false)
	td.CmpError(t, err)
}

func TestX2Y2APISignRun(t *testing.T) {
	var body any
	client := &mockRestClient{
		postFunc: func(ctx context.Context, path string, b any, result any) error {
			td.Cmp(t, path, "/api/orders/sign")
			body = b
			return json.Unmarshal([]byte(`{"data":[{"input":"0x1234"}]}`), result)
		},
	}

	input, err := NewX2Y2API(client).SignRun(context.Background(), X2Y2RunRequest{
		Caller:  taker,
		Op:      x2y2OpCompleteBuyOffer,
		OrderID: 3,
		Price:   big.NewInt(10),
		TokenID: big.NewInt(42),
	})
	td.Require(t).CmpNoError(err)
	td.Cmp(t, input, []byte{0x12, 0x34})
	td.Cmp(t, body, td.Smuggle("Items", []x2y2SignItem{{
		OrderID:  3,
		Currency: constants.ZERO_ADDRESS.Hex(),
		Price:    "10",
		TokenID:  "42",
	}}))
}
