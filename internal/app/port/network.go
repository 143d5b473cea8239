package port

import (
	"context"

	"network_resolver/internal/domain/entity"
)

// ProfileRegistry holds the named network profiles.
type ProfileRegistry interface {
	// Lookup returns the profile registered under name or an UnknownProfile error.
	Lookup(name string) (entity.NetworkProfile, error)

	// Profiles returns every registered profile, sorted by name.
	Profiles() []entity.NetworkProfile
}

// ReloadableRegistry is a ProfileRegistry whose whole table can be swapped.
type ReloadableRegistry interface {
	ProfileRegistry

	// Reload replaces every profile at once, or changes nothing on error.
	Reload(profiles []entity.NetworkProfile) error
}

// NetworkDefinitionProvider provides well-known public network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns every known definition.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns the definition for an identifier or alias.
	GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool)

	// GetNetworkDefinitionByChainID returns the definition with the given chain ID.
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
}

// ChainIDProber asks a live endpoint for its chain ID. It is used by tooling
// around the resolver, never by the resolver itself.
type ChainIDProber interface {
	ProbeChainID(ctx context.Context, endpointURL string) (uint64, error)
}
