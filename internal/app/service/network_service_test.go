package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"network_resolver/internal/app/registry"
	"network_resolver/internal/app/resolver"
	"network_resolver/internal/app/validator"
	"network_resolver/internal/domain/entity"
	"network_resolver/internal/infrastructure/configloader"
	"network_resolver/internal/infrastructure/envloader"
	networkdefinition "network_resolver/internal/infrastructure/network/definition"
	"network_resolver/internal/pkg/logger"
	"network_resolver/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = "0x" + strings.Repeat("4c", 32)

type fakeDeployer struct {
	mu      sync.Mutex
	network *entity.ResolvedNetwork
	err     error
}

func (d *fakeDeployer) Deploy(_ context.Context, n *entity.ResolvedNetwork, _ []byte) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.network = n
	if d.err != nil {
		return "", d.err
	}
	return "0xabc", nil
}

type fakeVerifier struct {
	key string
}

func (v *fakeVerifier) Verify(_ context.Context, n *entity.ResolvedNetwork, _ string, _ []byte) error {
	v.key, _ = n.ExplorerAPIKey()
	return nil
}

func newService(t *testing.T, env map[string]string, opts ...Option) (*NetworkService, *prometheus.Registry) {
	t.Helper()
	log := logger.Nop()

	profiles, err := configloader.Default().Profiles()
	require.NoError(t, err)
	reg, err := registry.NewFromProfiles(log, profiles)
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	m, err := metrics.New(promReg)
	require.NoError(t, err)

	creds := resolver.NewCredentialResolver(envloader.MapLookup(env), log)
	asm := validator.New(networkdefinition.NewNetworkDefinitionProvider(log, nil), nil, log)
	return NewNetworkService(reg, creds, asm, log, append([]Option{WithMetrics(m)}, opts...)...), promReg
}

func TestResolve_DefaultNetworks(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		req          entity.ResolveRequest
		wantEndpoint string
		wantSigners  int
		wantErr      error
	}{
		{
			name:         "testnet read-only",
			env:          map[string]string{},
			req:          entity.ResolveRequest{Name: "bscTestnet"},
			wantEndpoint: "https://data-seed-prebsc-1-s1.binance.org:8545/",
		},
		{
			name:         "testnet with key",
			env:          map[string]string{"PRIVATE_KEY": testKey},
			req:          entity.ResolveRequest{Name: "bscTestnet"},
			wantEndpoint: "https://data-seed-prebsc-1-s1.binance.org:8545/",
			wantSigners:  1,
		},
		{
			name:    "mainnet without endpoint var",
			env:     map[string]string{"PRIVATE_KEY": testKey},
			req:     entity.ResolveRequest{Name: "bsc"},
			wantErr: entity.ErrMissingEndpoint,
		},
		{
			name:         "mainnet endpoint from variable",
			env:          map[string]string{"BSC_RPC_URL": "https://bsc-dataseed.binance.org"},
			req:          entity.ResolveRequest{Name: "bsc"},
			wantEndpoint: "https://bsc-dataseed.binance.org",
		},
		{
			name:         "override beats endpoint variable",
			env:          map[string]string{"BSC_RPC_URL": "https://bsc-dataseed.binance.org"},
			req:          entity.ResolveRequest{Name: "bsc", EndpointOverride: "http://127.0.0.1:8545"},
			wantEndpoint: "http://127.0.0.1:8545",
		},
		{
			name:    "malformed optional key still fails",
			env:     map[string]string{"PRIVATE_KEY": "0x123"},
			req:     entity.ResolveRequest{Name: "bscTestnet"},
			wantErr: entity.ErrMalformedCredential,
		},
		{
			name:    "unknown network",
			env:     map[string]string{},
			req:     entity.ResolveRequest{Name: "hardhat"},
			wantErr: entity.ErrUnknownProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newService(t, tt.env)
			got, err := s.Resolve(tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Name, got.Name())
			assert.Equal(t, tt.wantEndpoint, got.EndpointURL())
			assert.Len(t, got.Signers(), tt.wantSigners)
			assert.Equal(t, tt.wantSigners == 0, got.ReadOnly())
		})
	}
}

func TestResolve_ExplorerKeyAttached(t *testing.T) {
	s, _ := newService(t, map[string]string{"BSCSCAN_API_KEY": "KEY123"})
	got, err := s.Resolve(entity.ResolveRequest{Name: "bscTestnet"})
	require.NoError(t, err)

	key, ok := got.ExplorerAPIKey()
	assert.True(t, ok)
	assert.Equal(t, "KEY123", key)
	assert.NotContains(t, got.String(), "KEY123")
}

func TestResolve_Idempotent(t *testing.T) {
	s, _ := newService(t, map[string]string{"PRIVATE_KEY": testKey})
	first, err := s.Resolve(entity.ResolveRequest{Name: "bscTestnet"})
	require.NoError(t, err)
	second, err := s.Resolve(entity.ResolveRequest{Name: "bscTestnet"})
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.NotSame(t, first, second)
}

func TestResolveAll(t *testing.T) {
	s, promReg := newService(t, map[string]string{})

	results := s.ResolveAll(context.Background(), nil)
	require.Len(t, results, 2)

	// sorted registry order: bsc, bscTestnet
	assert.Equal(t, "bsc", results[0].Name)
	assert.Equal(t, entity.StateRejected, results[0].State)
	assert.ErrorIs(t, results[0].Err, entity.ErrMissingEndpoint)

	assert.Equal(t, "bscTestnet", results[1].Name)
	assert.Equal(t, entity.StateResolved, results[1].State)
	require.NotNil(t, results[1].Network)

	n, err := testutil.GatherAndCount(promReg, "network_resolver_resolutions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestResolveAll_NamedSubsetKeepsOrder(t *testing.T) {
	s, _ := newService(t, map[string]string{})
	results := s.ResolveAll(context.Background(), []string{"bscTestnet", "nope", "bscTestnet"})
	require.Len(t, results, 2)
	assert.Equal(t, "bscTestnet", results[0].Name)
	assert.Equal(t, "nope", results[1].Name)
	assert.ErrorIs(t, results[1].Err, entity.ErrUnknownProfile)
}

func TestResolveAll_UnknownNamesShareOneMetricLabel(t *testing.T) {
	s, promReg := newService(t, map[string]string{})
	s.ResolveAll(context.Background(), []string{"typo-one", "typo-two", "bscTestnet"})

	expected := `
# HELP network_resolver_resolutions_total Network resolutions by network and outcome.
# TYPE network_resolver_resolutions_total counter
network_resolver_resolutions_total{network="bscTestnet",outcome="resolved"} 1
network_resolver_resolutions_total{network="unknown",outcome="UnknownProfile"} 2
`
	require.NoError(t, testutil.GatherAndCompare(promReg, strings.NewReader(expected), "network_resolver_resolutions_total"))
}

func TestResolveAll_MaxConcurrency(t *testing.T) {
	for _, n := range []int{1, 0, -3} {
		s, _ := newService(t, map[string]string{}, WithMaxConcurrency(n))
		if n > 0 {
			assert.Equal(t, n, s.maxConcurrency)
		} else {
			assert.Equal(t, defaultMaxConcurrency, s.maxConcurrency)
		}

		results := s.ResolveAll(context.Background(), nil)
		require.Len(t, results, 2)
		assert.Equal(t, "bsc", results[0].Name)
		assert.Equal(t, "bscTestnet", results[1].Name)
		assert.Equal(t, entity.StateResolved, results[1].State)
	}
}

func TestResolveAll_CancelledContext(t *testing.T) {
	s, _ := newService(t, map[string]string{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := s.ResolveAll(ctx, []string{"bscTestnet"})
	require.Len(t, results, 1)
	assert.Equal(t, entity.StateRejected, results[0].State)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestReload(t *testing.T) {
	s, _ := newService(t, map[string]string{})

	cfg, err := configloader.Parse([]byte("networks:\n  - name: anvil\n    endpoint: http://127.0.0.1:8545\n    chainID: 31337\n"))
	require.NoError(t, err)
	require.NoError(t, s.Reload(cfg))

	_, err = s.Resolve(entity.ResolveRequest{Name: "anvil"})
	require.NoError(t, err)
	_, err = s.Resolve(entity.ResolveRequest{Name: "bscTestnet"})
	require.ErrorIs(t, err, entity.ErrUnknownProfile)

	bad, err := configloader.Parse([]byte("networks:\n  - name: a\n    chainID: 1\n  - name: a\n    chainID: 1\n"))
	require.NoError(t, err)
	require.ErrorIs(t, s.Reload(bad), entity.ErrDuplicateProfile)

	_, err = s.Resolve(entity.ResolveRequest{Name: "anvil"})
	require.NoError(t, err)

	assert.Error(t, s.Reload(nil))
}

func TestReloadFrom_FileProvider(t *testing.T) {
	s, _ := newService(t, map[string]string{})

	path := filepath.Join(t.TempDir(), "networks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networks:\n  - name: anvil\n    endpoint: http://127.0.0.1:8545\n    chainID: 31337\n"), 0o600))
	provider, err := configloader.NewFileProvider(path)
	require.NoError(t, err)
	require.NoError(t, s.ReloadFrom(provider))

	n, err := s.Resolve(entity.ResolveRequest{Name: "anvil"})
	require.NoError(t, err)
	assert.Equal(t, int64(31337), n.ChainID())

	require.NoError(t, os.WriteFile(path, []byte("networks:\n  - name: hardhat\n    endpoint: http://127.0.0.1:8545\n    chainID: 31337\n"), 0o600))
	require.NoError(t, provider.Refresh())
	require.NoError(t, s.ReloadFrom(provider))

	_, err = s.Resolve(entity.ResolveRequest{Name: "anvil"})
	require.ErrorIs(t, err, entity.ErrUnknownProfile)
	_, err = s.Resolve(entity.ResolveRequest{Name: "hardhat"})
	require.NoError(t, err)
}

func TestDeploy(t *testing.T) {
	d := &fakeDeployer{}
	s, _ := newService(t, map[string]string{"PRIVATE_KEY": testKey}, WithDeploymentExecutor(d))

	tx, err := s.Deploy(context.Background(), entity.ResolveRequest{Name: "bscTestnet"}, []byte{0x60, 0x80})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", tx)
	require.NotNil(t, d.network)
	assert.Equal(t, int64(97), d.network.ChainID())

	d.err = errors.New("nonce too low")
	_, err = s.Deploy(context.Background(), entity.ResolveRequest{Name: "bscTestnet"}, nil)
	assert.ErrorContains(t, err, "nonce too low")

	_, err = s.Deploy(context.Background(), entity.ResolveRequest{Name: "bsc"}, nil)
	assert.ErrorIs(t, err, entity.ErrMissingEndpoint)
}

func TestDeploy_NoExecutor(t *testing.T) {
	s, _ := newService(t, map[string]string{})
	_, err := s.Deploy(context.Background(), entity.ResolveRequest{Name: "bscTestnet"}, nil)
	assert.ErrorIs(t, err, ErrNoDeploymentExecutor)
}

func TestVerify(t *testing.T) {
	v := &fakeVerifier{}
	s, _ := newService(t, map[string]string{"BSCSCAN_API_KEY": "KEY123"}, WithVerificationClient(v))
	require.NoError(t, s.Verify(context.Background(), entity.ResolveRequest{Name: "bscTestnet"}, "0x0000000000000000000000000000000000000001", nil))
	assert.Equal(t, "KEY123", v.key)

	s, _ = newService(t, map[string]string{}, WithVerificationClient(v))
	err := s.Verify(context.Background(), entity.ResolveRequest{Name: "bscTestnet"}, "0x0000000000000000000000000000000000000001", nil)
	assert.ErrorIs(t, err, ErrMissingExplorerKey)

	s, _ = newService(t, map[string]string{})
	assert.ErrorIs(t, s.Verify(context.Background(), entity.ResolveRequest{Name: "bscTestnet"}, "0x1", nil), ErrNoVerificationClient)
}
