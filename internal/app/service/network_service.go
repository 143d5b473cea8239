package service

import (
	"context"
	"errors"
	"fmt"

	"network_resolver/internal/app/port"
	"network_resolver/internal/domain/entity"
	"network_resolver/internal/infrastructure/configloader"
	"network_resolver/internal/pkg/metrics"
	"network_resolver/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

var (
	ErrNoDeploymentExecutor = errors.New("network_resolver: no deployment executor configured")
	ErrNoVerificationClient = errors.New("network_resolver: no verification client configured")
	ErrMissingExplorerKey   = errors.New("network_resolver: explorer api key is not set")
)

const defaultMaxConcurrency = 8

const unknownNetworkLabel = "unknown"

// NetworkService resolves named profiles into ResolvedNetwork bundles and hands them to
// the deployment and verification collaborators.
type NetworkService struct {
	registry       port.ReloadableRegistry
	credentials    port.CredentialResolver
	assembler      port.NetworkAssembler
	deployer       port.DeploymentExecutor
	verifier       port.VerificationClient
	metrics        *metrics.Metrics
	logger         port.Logger
	maxConcurrency int
}

// Option configures optional NetworkService collaborators.
type Option func(*NetworkService)

// WithDeploymentExecutor sets the collaborator used by Deploy.
func WithDeploymentExecutor(d port.DeploymentExecutor) Option {
	return func(s *NetworkService) { s.deployer = d }
}

// WithVerificationClient sets the collaborator used by Verify.
func WithVerificationClient(v port.VerificationClient) Option {
	return func(s *NetworkService) { s.verifier = v }
}

// WithMetrics records resolution outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *NetworkService) { s.metrics = m }
}

// WithMaxConcurrency bounds the number of parallel resolutions in ResolveAll.
func WithMaxConcurrency(n int) Option {
	return func(s *NetworkService) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// NewNetworkService creates a new instance of NetworkService.
func NewNetworkService(
	reg port.ReloadableRegistry,
	creds port.CredentialResolver,
	asm port.NetworkAssembler,
	l port.Logger,
	opts ...Option,
) *NetworkService {
	s := &NetworkService{
		registry:       reg,
		credentials:    creds,
		assembler:      asm,
		logger:         l,
		maxConcurrency: defaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profiles returns the registered profiles sorted by name.
func (s *NetworkService) Profiles() []entity.NetworkProfile {
	return s.registry.Profiles()
}

// Resolve looks up req.Name, resolves its credentials and assembles the bundle.
func (s *NetworkService) Resolve(req entity.ResolveRequest) (*entity.ResolvedNetwork, error) {
	res := s.ResolveResult(req)
	return res.Network, res.Err
}

// ResolveResult is Resolve reporting the terminal state. Every failure is Rejected.
func (s *NetworkService) ResolveResult(req entity.ResolveRequest) entity.ResolutionResult {
	res := s.resolve(req)
	s.observe(res)
	return res
}

func (s *NetworkService) resolve(req entity.ResolveRequest) entity.ResolutionResult {
	rejected := func(err error) entity.ResolutionResult {
		return entity.ResolutionResult{Name: req.Name, State: entity.StateRejected, Err: err}
	}

	profile, err := s.registry.Lookup(req.Name)
	if err != nil {
		return rejected(err)
	}

	signers, err := s.credentials.Resolve(profile)
	if err != nil {
		return rejected(err)
	}

	// override > endpoint variable > literal endpoint
	override := req.EndpointOverride
	if override == "" {
		if v, ok := s.credentials.ResolveEndpointVar(profile); ok {
			override = v
		}
	}

	res := s.assembler.Evaluate(profile, override, signers)
	if res.State != entity.StateResolved {
		return res
	}
	if key, ok := s.credentials.ResolveExplorerKey(profile); ok {
		res.Network = res.Network.WithExplorerAPIKey(key)
	}
	return res
}

func (s *NetworkService) observe(res entity.ResolutionResult) {
	if res.Err != nil {
		outcome := "error"
		if kind, ok := entity.KindOf(res.Err); ok {
			outcome = string(kind)
		} else if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			outcome = "cancelled"
		}
		s.logger.Warn("Network resolution rejected", "network", res.Name, "outcome", outcome, "error", res.Err)
		s.metrics.ObserveResolution(s.metricLabel(res.Name), outcome, 0)
		return
	}

	n := res.Network
	addrs := n.SignerAddresses()
	hexAddrs := make([]string, 0, len(addrs))
	for _, a := range addrs {
		hexAddrs = append(hexAddrs, a.Hex())
	}
	s.logger.Info("Network resolved",
		"network", n.Name(),
		"chain_id", n.ChainID(),
		"signers", len(n.Signers()),
		"signer_addresses", hexAddrs,
		"read_only", n.ReadOnly(),
	)
	s.metrics.ObserveResolution(res.Name, metrics.OutcomeResolved, len(n.Signers()))
}

// metricLabel keeps caller-supplied names out of metric labels unless they are registered.
func (s *NetworkService) metricLabel(name string) string {
	if _, err := s.registry.Lookup(name); err != nil {
		return unknownNetworkLabel
	}
	return name
}

// ResolveAll resolves names in parallel, or every registered profile when names is empty.
// One network failing never aborts the others; results follow the order of names.
func (s *NetworkService) ResolveAll(ctx context.Context, names []string) []entity.ResolutionResult {
	if len(names) == 0 {
		for _, p := range s.registry.Profiles() {
			names = append(names, p.Name)
		}
	} else {
		names = utils.Dedupe(names)
	}

	results := make([]entity.ResolutionResult, len(names))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrency)

	for i, name := range names {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				results[i] = entity.ResolutionResult{Name: name, State: entity.StateRejected, Err: err}
				s.observe(results[i])
				return nil
			}
			results[i] = s.ResolveResult(entity.ResolveRequest{Name: name})
			return nil
		})
	}
	_ = eg.Wait() // workers never return errors

	s.logger.Debug("ResolveAll finished", "requested", len(names))
	return results
}

// Reload swaps the registry for the profiles in cfg. On error the current table stays in place.
func (s *NetworkService) Reload(cfg *configloader.Config) error {
	if cfg == nil {
		return errors.New("reload: config is nil")
	}
	profiles, err := cfg.Profiles()
	if err != nil {
		s.metrics.ObserveReload(false)
		return fmt.Errorf("reload: %w", err)
	}
	if err := s.registry.Reload(profiles); err != nil {
		s.metrics.ObserveReload(false)
		s.logger.Error("Registry reload failed, keeping previous profiles", "error", err)
		return fmt.Errorf("reload: %w", err)
	}
	s.metrics.ObserveReload(true)
	s.logger.Info("Registry reloaded", "profiles", len(profiles))
	return nil
}

// ReloadFrom reloads from the provider's current configuration.
func (s *NetworkService) ReloadFrom(p port.ConfigProvider) error {
	return s.Reload(p.GetConfig())
}

// Deploy resolves name and hands the bundle to the deployment executor.
// Whether a read-only bundle is usable is the executor's decision.
func (s *NetworkService) Deploy(ctx context.Context, req entity.ResolveRequest, artifact []byte) (string, error) {
	if s.deployer == nil {
		return "", ErrNoDeploymentExecutor
	}
	network, err := s.Resolve(req)
	if err != nil {
		return "", err
	}
	txHash, err := s.deployer.Deploy(ctx, network, artifact)
	if err != nil {
		return "", fmt.Errorf("deploy to %s: %w", network.Name(), err)
	}
	s.logger.Info("Deployment submitted", "network", network.Name(), "tx", txHash)
	return txHash, nil
}

// Verify resolves name and submits verification for contractAddress.
// It needs the explorer key; its format is never checked here.
func (s *NetworkService) Verify(ctx context.Context, req entity.ResolveRequest, contractAddress string, metadata []byte) error {
	if s.verifier == nil {
		return ErrNoVerificationClient
	}
	network, err := s.Resolve(req)
	if err != nil {
		return err
	}
	if _, ok := network.ExplorerAPIKey(); !ok {
		return fmt.Errorf("verify on %s: %w", network.Name(), ErrMissingExplorerKey)
	}
	if err := s.verifier.Verify(ctx, network, contractAddress, metadata); err != nil {
		return fmt.Errorf("verify on %s: %w", network.Name(), err)
	}
	s.logger.Info("Verification submitted", "network", network.Name(), "contract", contractAddress)
	return nil
}
