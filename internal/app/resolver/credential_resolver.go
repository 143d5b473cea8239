package resolver

import (
	"network_resolver/internal/app/port"
	"network_resolver/internal/domain/entity"
)

// CredentialResolver reads a profile's credential sources through an injected lookup.
// It holds no state between calls and never caches resolved values.
type CredentialResolver struct {
	lookup port.EnvLookup
	logger port.Logger
}

// NewCredentialResolver creates a resolver that reads ambient values through lookup.
func NewCredentialResolver(lookup port.EnvLookup, log port.Logger) *CredentialResolver {
	return &CredentialResolver{lookup: lookup, logger: log}
}

// read treats an empty value the same as an unset variable.
func (r *CredentialResolver) read(name string) (string, bool) {
	v, ok := r.lookup(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Resolve returns the validated signers for profile, in declaration order.
func (r *CredentialResolver) Resolve(profile entity.NetworkProfile) ([]entity.Signer, error) {
	if profile.CredentialRequirement == entity.CredentialsNone {
		return []entity.Signer{}, nil
	}

	required := profile.CredentialRequirement == entity.CredentialsRequired
	signers := make([]entity.Signer, 0, len(profile.Credentials))
	for _, src := range profile.Credentials {
		value, ok := r.read(src.VariableName)
		if !ok {
			if required {
				return nil, entity.NewResolutionError(entity.KindMissingCredential, profile.Name, src.VariableName, "variable is not set")
			}
			r.logger.Debug("Optional credential not set, skipping", "profile", profile.Name, "variable", src.VariableName)
			continue
		}

		check := CheckFormat(src.ExpectedFormat, value)
		if !check.Valid {
			return nil, entity.NewResolutionError(entity.KindMalformedCredential, profile.Name, src.VariableName, check.Reason)
		}
		signers = append(signers, entity.NewSigner(src.VariableName, src.ExpectedFormat, value))
	}

	if required && len(signers) == 0 {
		return nil, entity.NewResolutionError(entity.KindMissingCredential, profile.Name, "", "profile requires credentials but declares no sources")
	}

	r.logger.Debug("Credentials resolved", "profile", profile.Name, "signers", len(signers))
	return signers, nil
}

// ResolveExplorerKey reports whether the explorer API key variable is set. The value is
// returned opaquely and is not format-checked.
func (r *CredentialResolver) ResolveExplorerKey(profile entity.NetworkProfile) (string, bool) {
	if profile.ExplorerAPIKeyVar == "" {
		return "", false
	}
	return r.read(profile.ExplorerAPIKeyVar)
}

// ResolveEndpointVar returns the endpoint held in the profile's endpoint variable, if any.
func (r *CredentialResolver) ResolveEndpointVar(profile entity.NetworkProfile) (string, bool) {
	if profile.EndpointVar == "" {
		return "", false
	}
	return r.read(profile.EndpointVar)
}

var _ port.CredentialResolver = (*CredentialResolver)(nil)
