package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"network_resolver/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EVMClient is a read-only handle on one JSON-RPC endpoint.
// The endpoint URL may carry an API key, so errors only ever show its scheme and host.
type EVMClient struct {
	ethClient      *ethclient.Client
	endpointURL    string
	rpcCallTimeout time.Duration
}

// NewEVMClient dials endpointURL. For HTTP endpoints no request is made until the first call.
func NewEVMClient(ctx context.Context, endpointURL string, connectionTimeout, rpcCallTimeout time.Duration) (*EVMClient, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	c, err := ethclient.DialContext(dialCtx, endpointURL)
	if err != nil {
		return nil, utils.RedactURLError(fmt.Errorf("failed to connect to RPC endpoint: %w", err), endpointURL)
	}
	return &EVMClient{ethClient: c, endpointURL: endpointURL, rpcCallTimeout: rpcCallTimeout}, nil
}

// ChainID returns the chain ID reported by eth_chainId.
func (c *EVMClient) ChainID(ctx context.Context) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	id, err := c.ethClient.ChainID(callCtx)
	if err != nil {
		return 0, utils.RedactURLError(fmt.Errorf("eth_chainId failed: %w", err), c.endpointURL)
	}
	if !id.IsUint64() {
		return 0, fmt.Errorf("eth_chainId returned out-of-range value %s", id.String())
	}
	return id.Uint64(), nil
}

// BalanceAt returns the latest native balance of addr in wei.
func (c *EVMClient) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	bal, err := c.ethClient.BalanceAt(callCtx, addr, nil)
	if err != nil {
		return nil, utils.RedactURLError(fmt.Errorf("eth_getBalance for %s failed: %w", addr.Hex(), err), c.endpointURL)
	}
	return bal, nil
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}
