package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"network_resolver/internal/app/port"
	"network_resolver/internal/domain/entity"
)

// table is never modified once published.
type table map[string]entity.NetworkProfile

// Registry holds named network profiles. Reads are lock-free against an immutable table;
// every write builds a new table and swaps it in, so readers never see a partial update.
type Registry struct {
	current atomic.Pointer[table]
	writeMu sync.Mutex
	logger  port.Logger
}

// New returns an empty registry.
func New(log port.Logger) *Registry {
	r := &Registry{logger: log}
	empty := table{}
	r.current.Store(&empty)
	return r
}

// NewFromProfiles builds a registry from profiles, failing on the first invalid one.
func NewFromProfiles(log port.Logger, profiles []entity.NetworkProfile) (*Registry, error) {
	r := New(log)
	if err := r.Reload(profiles); err != nil {
		return nil, err
	}
	return r, nil
}

func validate(t table, p entity.NetworkProfile) error {
	if p.Name == "" {
		return entity.NewResolutionError(entity.KindInvalidProfile, "", "", "profile name must not be empty")
	}
	if p.ChainID <= 0 {
		return entity.NewResolutionError(entity.KindInvalidChainID, p.Name, "", fmt.Sprintf("chain id must be positive, got %d", p.ChainID))
	}
	if _, exists := t[p.Name]; exists {
		return entity.NewResolutionError(entity.KindDuplicateProfile, p.Name, "", "profile already registered")
	}
	return nil
}

// Register adds one profile. A failed Register leaves the registry unchanged.
func (r *Registry) Register(p entity.NetworkProfile) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	cur := *r.current.Load()
	if err := validate(cur, p); err != nil {
		return err
	}
	next := make(table, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[p.Name] = p.Clone()
	r.current.Store(&next)

	r.logger.Debug("Network profile registered", "profile", p.Name, "chain_id", p.ChainID,
		"credentials", p.CredentialRequirement.String(), "sources", len(p.Credentials))
	return nil
}

// Reload replaces the whole table. Either every profile is valid and the new table is
// published, or the error is returned and the current table stays in place.
func (r *Registry) Reload(profiles []entity.NetworkProfile) error {
	next := make(table, len(profiles))
	for _, p := range profiles {
		if err := validate(next, p); err != nil {
			return err
		}
		next[p.Name] = p.Clone()
	}

	r.writeMu.Lock()
	r.current.Store(&next)
	r.writeMu.Unlock()

	r.logger.Info("Network profile table loaded", "profiles", len(next))
	return nil
}

// Lookup returns the profile registered under name.
func (r *Registry) Lookup(name string) (entity.NetworkProfile, error) {
	t := *r.current.Load()
	p, ok := t[name]
	if !ok {
		return entity.NetworkProfile{}, entity.NewResolutionError(entity.KindUnknownProfile, name, "", "no profile with this name")
	}
	return p.Clone(), nil
}

// Profiles returns every profile sorted by name.
func (r *Registry) Profiles() []entity.NetworkProfile {
	t := *r.current.Load()
	out := make([]entity.NetworkProfile, 0, len(t))
	for _, p := range t {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(*r.current.Load())
}

var _ port.ReloadableRegistry = (*Registry)(nil)
