package port

import "network_resolver/internal/domain/entity"

// EnvLookup reads one ambient variable. The boolean is false when the variable is unset.
type EnvLookup func(name string) (string, bool)

// CredentialResolver turns a profile's credential sources into validated signers.
type CredentialResolver interface {
	Resolve(profile entity.NetworkProfile) ([]entity.Signer, error)

	// ResolveExplorerKey returns the explorer API key if its variable is set. The value is opaque.
	ResolveExplorerKey(profile entity.NetworkProfile) (string, bool)

	// ResolveEndpointVar returns the endpoint held in the profile's endpoint variable, if set.
	ResolveEndpointVar(profile entity.NetworkProfile) (string, bool)
}

// NetworkAssembler validates a profile and its signers into a ResolvedNetwork.
type NetworkAssembler interface {
	Assemble(profile entity.NetworkProfile, endpointOverride string, signers []entity.Signer) (*entity.ResolvedNetwork, error)

	// Evaluate is Assemble reporting the terminal assembly state as well.
	Evaluate(profile entity.NetworkProfile, endpointOverride string, signers []entity.Signer) entity.ResolutionResult
}
