package fee

import (
	"context"
	"fmt"
	"time"

	"github.com/banky/go-nft-fill/constants"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/rest"
	"github.com/patrickmn/go-cache"
)

// Source provides the fee table used for a fill
type Source interface {
	Table(ctx context.Context) (Table, error)
}

// Static serves a fixed table
type Static Table

func (s Static) Table(context.Context) (Table, error) { return Table(s), nil }

const tableCacheKey = "fees"

type feesResponse struct {
	Fees    map[order.Protocol]uint64 `json:"fees"`
	Wrapper uint64                    `json:"wrapperFee"`
	Native  uint64                    `json:"nativeFee"`
}

// RemoteTable fetches the fee table from the fee configuration endpoint and
// keeps it for a while
type RemoteTable struct {
	client rest.ClientInterface
	path   string
	cache  *cache.Cache
}

type RemoteOption func(*remoteConfig)

type remoteConfig struct {
	path string
	ttl  time.Duration
}

// WithPath sets the endpoint path, "/fees" by default
func WithPath(path string) RemoteOption {
	return func(cfg *remoteConfig) {
		cfg.path = path
	}
}

// WithTTL sets how long a fetched table is served, 5 minutes by default
func WithTTL(ttl time.Duration) RemoteOption {
	return func(cfg *remoteConfig) {
		cfg.ttl = ttl
	}
}

func NewRemoteTable(client rest.ClientInterface, opts ...RemoteOption) *RemoteTable {
	cfg := remoteConfig{
		path: "/fees",
		ttl:  5 * time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &RemoteTable{
		client: client,
		path:   cfg.path,
		cache:  cache.New(cfg.ttl, 2*cfg.ttl),
	}
}

func (r *RemoteTable) Table(ctx context.Context) (Table, error) {
	if cached, ok := r.cache.Get(tableCacheKey); ok {
		return cached.(Table), nil
	}

	var resp feesResponse
	if err := r.client.Get(ctx, r.path, nil, &resp); err != nil {
		return Table{}, fmt.Errorf("failed to fetch fee config: %w", err)
	}

	table := Table{
		Native:    resp.Native,
		Wrapper:   resp.Wrapper,
		Protocols: resp.Fees,
	}
	for p, bps := range table.Protocols {
		if bps > constants.BASIS_POINTS {
			return Table{}, invalidf("fee config has %d basis points for %s", bps, p)
		}
	}

	r.cache.Set(tableCacheKey, table, cache.DefaultExpiration)
	return table, nil
}

// BaseFee looks up the base fee of protocol p in the current table
func (r *RemoteTable) BaseFee(ctx context.Context, p order.Protocol, withOriginFees bool) (uint64, error) {
	table, err := r.Table(ctx)
	if err != nil {
		return 0, err
	}
	return table.BaseFee(p, withOriginFees), nil
}
