package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/banky/go-nft-fill/config"
	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/fee"
	"github.com/banky/go-nft-fill/fill"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/rest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	configFlag = &cli.StringFlag{Name: "config", Usage: "yaml config file, the built in chain config when empty"}
	chainFlag  = &cli.Uint64Flag{Name: "chain", Value: constants.MAINNET_CHAIN_ID, Usage: "chain id when no config file is given"}
	orderFlag  = &cli.StringFlag{Name: "order", Required: true, Usage: "json file holding the order"}
	amountFlag = &cli.StringFlag{Name: "amount", Value: "1", Usage: "units to fill"}
	feesFlag   = &cli.StringSliceFlag{Name: "origin-fee", Usage: "origin fee as account:bps, repeatable"}
	tokenFlag  = &cli.StringFlag{Name: "token-id", Usage: "nft to sell into a collection bid"}
	classFlag  = &cli.StringFlag{Name: "token-class", Usage: "ERC721 or ERC1155, taken from the bid when empty"}
	x2y2Flag   = &cli.StringFlag{Name: "x2y2-api", EnvVars: []string{"NFTFILL_X2Y2_API"}, Usage: "x2y2 api url signing run inputs"}
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	app := &cli.App{
		Name:  "nftfill",
		Usage: "fill nft orders of every supported exchange",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "env", Value: cli.NewStringSlice(".env"), Usage: "env files to load"},
		},
		Commands: []*cli.Command{
			{
				Name:   "encode",
				Usage:  "print the transaction filling an order without sending it",
				Action: func(c *cli.Context) error { return encode(c, logger) },
				Flags: []cli.Flag{
					configFlag, chainFlag, orderFlag, amountFlag, feesFlag, tokenFlag, classFlag, x2y2Flag,
					&cli.StringFlag{Name: "from", Required: true, Usage: "account the fill is encoded for"},
				},
			},
			{
				Name:   "fee",
				Usage:  "print the base fee of a protocol",
				Action: func(c *cli.Context) error { return baseFee(c, logger) },
				Flags: []cli.Flag{
					configFlag, chainFlag,
					&cli.StringFlag{Name: "protocol", Required: true},
					&cli.BoolFlag{Name: "origin-fees", Usage: "the fill carries origin fees"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.With(zap.Error(err)).Fatal("Command failed")
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path := c.String(configFlag.Name); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.ForChain(c.Uint64(chainFlag.Name))
	}
	if err != nil {
		return config.Config{}, err
	}
	return config.LoadEnv(cfg, c.StringSlice("env")...)
}

func parseOriginFees(raw []string) ([]order.Part, error) {
	parts := make([]order.Part, 0, len(raw))
	for _, r := range raw {
		account, bps, ok := strings.Cut(r, ":")
		if !ok || !common.IsHexAddress(account) {
			return nil, fmt.Errorf("invalid origin fee %q, want account:bps", r)
		}
		value, err := strconv.ParseUint(bps, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid origin fee %q: %w", r, err)
		}
		parts = append(parts, order.Part{Account: common.HexToAddress(account), Value: value})
	}
	return parts, nil
}

// tokenAssetType builds the nft sold into a bid. The class comes from the
// flag, then from a bid on a single token, and defaults to ERC721 for
// collection bids.
func tokenAssetType(want order.AssetType, class string, id *big.Int) (order.AssetType, error) {
	nft := order.AssetType{Class: order.ClassERC721, Contract: want.Contract, TokenID: id}
	switch order.AssetClass(strings.ToUpper(class)) {
	case "":
		if want.Class == order.ClassERC721 || want.Class == order.ClassERC1155 {
			nft.Class = want.Class
		}
	case order.ClassERC721:
	case order.ClassERC1155:
		nft.Class = order.ClassERC1155
	default:
		return order.AssetType{}, fmt.Errorf("invalid token class %q, want ERC721 or ERC1155", class)
	}
	return nft, nil
}

func fillRequest(c *cli.Context) (order.FillRequest, error) {
	raw, err := os.ReadFile(c.String(orderFlag.Name))
	if err != nil {
		return order.FillRequest{}, fmt.Errorf("failed to read order: %w", err)
	}
	var o order.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return order.FillRequest{}, fmt.Errorf("failed to parse order: %w", err)
	}

	amount, ok := new(big.Int).SetString(c.String(amountFlag.Name), 10)
	if !ok {
		return order.FillRequest{}, fmt.Errorf("invalid amount %q", c.String(amountFlag.Name))
	}
	originFees, err := parseOriginFees(c.StringSlice(feesFlag.Name))
	if err != nil {
		return order.FillRequest{}, err
	}

	opts := []order.FillRequestOption{
		order.WithAmount(amount),
		order.WithOriginFees(originFees...),
	}
	if raw := c.String(tokenFlag.Name); raw != "" {
		id, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return order.FillRequest{}, fmt.Errorf("invalid token id %q", raw)
		}
		nft, err := tokenAssetType(o.Take.Type, c.String(classFlag.Name), id)
		if err != nil {
			return order.FillRequest{}, err
		}
		opts = append(opts, order.WithAssetType(nft))
	}
	return order.NewFillRequest(o, opts...), nil
}

func newFiller(c *cli.Context, cfg config.Config, w fill.Wallet, client *ethclient.Client, logger *zap.Logger) (*fill.Filler, error) {
	opts := []fill.Option{fill.WithLogger(logger)}
	if url := c.String(x2y2Flag.Name); url != "" {
		api, err := rest.New(rest.Config{BaseUrl: url, Timeout: 10 * time.Second})
		if err != nil {
			return nil, err
		}
		opts = append(opts, fill.WithX2Y2Signer(fill.NewX2Y2API(api)))
	}
	return fill.New(cfg, w, client, opts...)
}

// readOnlyWallet encodes fills on behalf of an account. Signing is left to
// whatever wallet submits the printed transaction.
type readOnlyWallet struct {
	from common.Address
}

var _ fill.Wallet = readOnlyWallet{}

func (w readOnlyWallet) GetFrom(context.Context) (common.Address, error) {
	return w.from, nil
}

func (w readOnlyWallet) SendTransaction(ctx context.Context, call fill.FunctionCall, opts fill.SendOptions) (common.Hash, error) {
	return common.Hash{}, fmt.Errorf("read only wallet cannot send %s", call.Method)
}

type transactionJSON struct {
	From     common.Address `json:"from"`
	To       common.Address `json:"to"`
	Method   string         `json:"method"`
	Data     hexutil.Bytes  `json:"data"`
	Value    *hexutil.Big   `json:"value"`
	MarketID uint8          `json:"marketId"`
}

func encode(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	req, err := fillRequest(c)
	if err != nil {
		return err
	}
	if !common.IsHexAddress(c.String("from")) {
		return fmt.Errorf("invalid from address %q", c.String("from"))
	}

	client, err := ethclient.DialContext(c.Context, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", cfg.RPCURL, err)
	}
	defer client.Close()

	filler, err := newFiller(c, cfg, readOnlyWallet{from: common.HexToAddress(c.String("from"))}, client, logger)
	if err != nil {
		return err
	}
	prepared, err := filler.GetTransactionData(c.Context, req)
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(transactionJSON{
		From:     prepared.From,
		To:       prepared.Contract,
		Method:   prepared.Method,
		Data:     prepared.Data,
		Value:    (*hexutil.Big)(prepared.Value),
		MarketID: prepared.MarketID,
	})
}

func baseFee(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	protocol := order.Protocol(strings.ToUpper(c.String("protocol")))

	filler, err := fill.New(cfg, readOnlyWallet{}, nil, fill.WithLogger(logger))
	if err != nil {
		return err
	}
	bps, err := filler.BaseFee(context.Background(), order.Order{Protocol: protocol}, c.Bool("origin-fees"))
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d bps (%s%%)\n", protocol, bps, fee.Percent(bps).String())
	return nil
}
