package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"network_resolver/internal/app/port"
	"network_resolver/internal/infrastructure/configloader"
	"network_resolver/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
)

// EVMClientProvider hands out cached EVMClients per endpoint and rate-limits calls made through it.
// It only ever sees endpoint URLs, never credential values.
type EVMClientProvider struct {
	clients           *cache.Cache
	mu                sync.Mutex
	retiredMu         sync.Mutex
	retired           []*EVMClient // evicted but possibly still in use, closed by Close
	limiter           *rate.Limiter
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewEVMClientProvider creates a provider from the probe section of the configuration.
func NewEVMClientProvider(cfg configloader.ProbeConfig, log port.Logger) *EVMClientProvider {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	rpcTimeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if rpcTimeout <= 0 {
		rpcTimeout = defaultProviderConnectionTimeout
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	p := &EVMClientProvider{
		clients:           cache.New(ttl, 2*ttl),
		limiter:           rate.NewLimiter(limit, burst),
		logger:            log,
		connectionTimeout: defaultProviderConnectionTimeout,
		rpcCallTimeout:    rpcTimeout,
	}
	// an evicted client may still be held by a caller of GetClient
	p.clients.OnEvicted(func(_ string, v interface{}) {
		if c, ok := v.(*EVMClient); ok {
			p.retiredMu.Lock()
			p.retired = append(p.retired, c)
			p.retiredMu.Unlock()
		}
	})
	return p
}

// GetClient retrieves a client for endpointURL, dialing it on first use.
func (p *EVMClientProvider) GetClient(ctx context.Context, endpointURL string) (*EVMClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.clients.Get(endpointURL); ok {
		p.logger.Debug("Returning cached EVM client")
		return v.(*EVMClient), nil
	}

	c, err := NewEVMClient(ctx, endpointURL, p.connectionTimeout, p.rpcCallTimeout)
	if err != nil {
		return nil, err
	}
	p.clients.SetDefault(endpointURL, c)
	p.logger.Debug("EVM client created", "cached_clients", p.clients.ItemCount())
	return c, nil
}

// ProbeChainID asks the endpoint for its chain ID.
func (p *EVMClientProvider) ProbeChainID(ctx context.Context, endpointURL string) (uint64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("probe rate limiter: %w", err)
	}
	c, err := p.GetClient(ctx, endpointURL)
	if err != nil {
		return 0, err
	}
	return c.ChainID(ctx)
}

// ProbeBalance returns the native balance of addr on the endpoint, formatted in whole coins.
func (p *EVMClientProvider) ProbeBalance(ctx context.Context, endpointURL string, addr common.Address) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("probe rate limiter: %w", err)
	}
	c, err := p.GetClient(ctx, endpointURL)
	if err != nil {
		return "", err
	}
	bal, err := c.BalanceAt(ctx, addr)
	if err != nil {
		return "", err
	}
	return utils.FormatBigInt(bal, 18)
}

// Close closes every client the provider ever handed out. Call it once no caller uses them.
func (p *EVMClientProvider) Close() {
	n := p.closeAll()
	p.logger.Debug("EVM clients closed", "count", n)
}

func (p *EVMClientProvider) closeAll() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	// moves expired entries to retired; Items skips them
	p.clients.DeleteExpired()
	var live []*EVMClient
	for _, item := range p.clients.Items() {
		if c, ok := item.Object.(*EVMClient); ok {
			live = append(live, c)
		}
	}
	p.clients.Flush()

	p.retiredMu.Lock()
	all := append(live, p.retired...)
	p.retired = nil
	p.retiredMu.Unlock()

	for _, c := range all {
		c.Close()
	}
	return len(all)
}

var _ port.ChainIDProber = (*EVMClientProvider)(nil)
