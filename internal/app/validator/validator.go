package validator

import (
	"fmt"
	"net/url"
	"strings"

	"network_resolver/internal/app/port"
	"network_resolver/internal/domain/entity"
)

// DefaultSchemes are the endpoint schemes accepted when none are configured.
var DefaultSchemes = []string{"http", "https", "ws", "wss"}

// Validator assembles profiles into ResolvedNetwork values.
type Validator struct {
	known   port.NetworkDefinitionProvider
	schemes map[string]struct{}
	logger  port.Logger
}

// New creates a Validator. known may be nil, which disables the well-known chain ID check.
// An empty schemes list means DefaultSchemes.
func New(known port.NetworkDefinitionProvider, schemes []string, log port.Logger) *Validator {
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}
	set := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		set[strings.ToLower(s)] = struct{}{}
	}
	return &Validator{known: known, schemes: set, logger: log}
}

// Assemble validates profile with the given signers and returns the resulting bundle.
func (v *Validator) Assemble(profile entity.NetworkProfile, endpointOverride string, signers []entity.Signer) (*entity.ResolvedNetwork, error) {
	res := v.Evaluate(profile, endpointOverride, signers)
	return res.Network, res.Err
}

// Evaluate runs one attempt through Unassembled -> Validating -> Resolved|Rejected.
// There is no retry; the returned result is always terminal.
func (v *Validator) Evaluate(profile entity.NetworkProfile, endpointOverride string, signers []entity.Signer) entity.ResolutionResult {
	res := entity.ResolutionResult{Name: profile.Name, State: entity.StateUnassembled}
	v.transition(&res, entity.StateValidating)

	network, err := v.assemble(profile, endpointOverride, signers)
	if err != nil {
		res.Err = err
		v.transition(&res, entity.StateRejected)
		return res
	}
	res.Network = network
	v.transition(&res, entity.StateResolved)
	return res
}

func (v *Validator) transition(res *entity.ResolutionResult, to entity.AssemblyState) {
	v.logger.Debug("Assembly state change", "profile", res.Name, "from", res.State.String(), "to", to.String())
	res.State = to
}

func (v *Validator) assemble(profile entity.NetworkProfile, endpointOverride string, signers []entity.Signer) (*entity.ResolvedNetwork, error) {
	endpoint := endpointOverride
	if endpoint == "" {
		endpoint = profile.EndpointURL
	}
	if endpoint == "" {
		return nil, entity.NewResolutionError(entity.KindMissingEndpoint, profile.Name, profile.EndpointVar, "no endpoint override and no endpoint configured")
	}
	if err := v.checkEndpoint(profile.Name, endpoint); err != nil {
		return nil, err
	}
	if err := v.checkChainID(profile); err != nil {
		return nil, err
	}
	return entity.NewResolvedNetwork(profile, endpoint, signers)
}

// checkEndpoint never echoes the endpoint, which may embed a provider API key.
func (v *Validator) checkEndpoint(profile, endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return entity.NewResolutionError(entity.KindInvalidEndpoint, profile, "", "endpoint does not parse as a URL")
	}
	if u.Scheme == "" {
		return entity.NewResolutionError(entity.KindInvalidEndpoint, profile, "", "endpoint has no scheme")
	}
	if _, ok := v.schemes[u.Scheme]; !ok {
		return entity.NewResolutionError(entity.KindInvalidEndpoint, profile, "", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return entity.NewResolutionError(entity.KindInvalidEndpoint, profile, "", "endpoint has no host")
	}
	return nil
}

func (v *Validator) checkChainID(profile entity.NetworkProfile) error {
	if v.known == nil {
		return nil
	}
	def, ok := v.known.GetNetworkDefinitionByName(profile.Name)
	if !ok {
		return nil
	}
	if profile.ChainID <= 0 || uint64(profile.ChainID) != def.ChainID {
		return entity.NewResolutionError(entity.KindChainIDMismatch, profile.Name, "",
			fmt.Sprintf("%s has chain id %d, profile declares %d", def.Name, def.ChainID, profile.ChainID))
	}
	return nil
}

var _ port.NetworkAssembler = (*Validator)(nil)
