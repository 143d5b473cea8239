package configloader

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"network_resolver/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultConfigYAML []byte

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	Development bool   `yaml:"development"`
}

// ExplorerConfig names the block explorer used for verification and the variable holding its key.
type ExplorerConfig struct {
	Name      string `yaml:"name"`
	APIKeyVar string `yaml:"apiKeyVar"`
}

// ValidationConfig tunes endpoint checks.
type ValidationConfig struct {
	EndpointSchemes []string `yaml:"endpointSchemes" validate:"dive,oneof=http https ws wss"`
}

// ProbeConfig holds settings for live chain ID probes.
type ProbeConfig struct {
	TimeoutMs       int64   `yaml:"timeoutMs" validate:"gte=0"`
	RateLimit       float64 `yaml:"rateLimit" validate:"gte=0"`
	Burst           int     `yaml:"burst" validate:"gte=0"`
	CacheTTLMinutes int     `yaml:"cacheTTLMinutes" validate:"gte=0"`
}

// SignerConfig references one credential variable.
type SignerConfig struct {
	Variable string `yaml:"variable" validate:"required"`
	Format   string `yaml:"format" validate:"omitempty,oneof=hex_private_key raw"`
}

// NetworkConfig holds configuration for one network profile.
type NetworkConfig struct {
	Name              string         `yaml:"name" validate:"required"`
	Endpoint          string         `yaml:"endpoint"`    // literal endpoint, e.g. "https://data-seed-prebsc-1-s1.binance.org:8545/"
	EndpointVar       string         `yaml:"endpointVar"` // e.g. "BSC_RPC_URL"
	ChainID           int64          `yaml:"chainID"`
	Credentials       string         `yaml:"credentials" validate:"omitempty,oneof=none optional required"`
	Signers           []SignerConfig `yaml:"signers" validate:"dive"`
	ExplorerAPIKeyVar string         `yaml:"explorerApiKeyVar"`
}

// KnownNetworkConfig adds or overrides a well-known network definition.
type KnownNetworkConfig struct {
	Identifier string   `yaml:"identifier" validate:"required"`
	Name       string   `yaml:"name"`
	ChainID    uint64   `yaml:"chainID" validate:"gt=0"`
	Aliases    []string `yaml:"aliases"`
	Testnet    bool     `yaml:"testnet"`
}

// Config is the top-level configuration structure.
type Config struct {
	Solidity      string               `yaml:"solidity"`
	EnvFiles      []string             `yaml:"envFiles"`
	Logging       LoggingConfig        `yaml:"logging"`
	Explorer      ExplorerConfig       `yaml:"explorer"`
	Validation    ValidationConfig     `yaml:"validation"`
	Probe         ProbeConfig          `yaml:"probe"`
	KnownNetworks []KnownNetworkConfig `yaml:"knownNetworks" validate:"dive"`
	Networks      []NetworkConfig      `yaml:"networks" validate:"dive"`
}

var validate = validator.New()

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Parse(defaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// Parse unmarshals, defaults and validates configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	applyDefaults(&cfg)
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Probe.TimeoutMs == 0 {
		cfg.Probe.TimeoutMs = 10000 // 10 seconds
	}
	if cfg.Probe.RateLimit == 0 {
		cfg.Probe.RateLimit = 5 // requests per second
	}
	if cfg.Probe.Burst == 0 {
		cfg.Probe.Burst = 5
	}
	if cfg.Probe.CacheTTLMinutes == 0 {
		cfg.Probe.CacheTTLMinutes = 10
	}

	for i := range cfg.Networks {
		n := &cfg.Networks[i]
		if n.Credentials == "" {
			// no explicit requirement: signers declared means "use them if present"
			if len(n.Signers) > 0 {
				n.Credentials = "optional"
			} else {
				n.Credentials = "none"
			}
		}
		for j := range n.Signers {
			if n.Signers[j].Format == "" {
				n.Signers[j].Format = "hex_private_key"
			}
		}
		if n.ExplorerAPIKeyVar == "" {
			n.ExplorerAPIKeyVar = cfg.Explorer.APIKeyVar
		}
	}
}

// ParseRequirement maps a config string to a CredentialRequirement.
func ParseRequirement(s string) (entity.CredentialRequirement, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return entity.CredentialsNone, nil
	case "optional":
		return entity.CredentialsOptional, nil
	case "required":
		return entity.CredentialsRequired, nil
	default:
		return entity.CredentialsNone, fmt.Errorf("unknown credential requirement %q", s)
	}
}

// ParseFormat maps a config string to a CredentialFormat.
func ParseFormat(s string) (entity.CredentialFormat, error) {
	switch strings.ToLower(s) {
	case "", "hex_private_key":
		return entity.FormatHexPrivateKey, nil
	case "raw":
		return entity.FormatRaw, nil
	default:
		return entity.FormatRaw, fmt.Errorf("unknown credential format %q", s)
	}
}

// Profiles converts the network section into registry profiles.
func (c *Config) Profiles() ([]entity.NetworkProfile, error) {
	profiles := make([]entity.NetworkProfile, 0, len(c.Networks))
	for _, n := range c.Networks {
		req, err := ParseRequirement(n.Credentials)
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", n.Name, err)
		}
		sources := make([]entity.CredentialSource, 0, len(n.Signers))
		for _, s := range n.Signers {
			format, err := ParseFormat(s.Format)
			if err != nil {
				return nil, fmt.Errorf("network %s, signer %s: %w", n.Name, s.Variable, err)
			}
			sources = append(sources, entity.CredentialSource{VariableName: s.Variable, ExpectedFormat: format})
		}
		profiles = append(profiles, entity.NetworkProfile{
			Name:                  n.Name,
			EndpointURL:           n.Endpoint,
			EndpointVar:           n.EndpointVar,
			ChainID:               n.ChainID,
			CredentialRequirement: req,
			Credentials:           sources,
			ExplorerAPIKeyVar:     n.ExplorerAPIKeyVar,
		})
	}
	return profiles, nil
}

// KnownNetworkDefinitions converts the knownNetworks section.
func (c *Config) KnownNetworkDefinitions() []entity.NetworkDefinition {
	defs := make([]entity.NetworkDefinition, 0, len(c.KnownNetworks))
	for _, k := range c.KnownNetworks {
		name := k.Name
		if name == "" {
			name = k.Identifier
		}
		defs = append(defs, entity.NetworkDefinition{
			ChainID:    k.ChainID,
			Name:       name,
			Identifier: k.Identifier,
			Aliases:    k.Aliases,
			Testnet:    k.Testnet,
		})
	}
	return defs
}

// FileProvider serves the configuration loaded from a file and can re-read it.
// An empty path serves the embedded default configuration.
type FileProvider struct {
	path    string
	current atomic.Pointer[Config]
}

// NewFileProvider loads path once and returns a provider for it.
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{path: path}
	if err := p.Refresh(); err != nil {
		return nil, err
	}
	return p, nil
}

// GetConfig returns the last successfully loaded configuration.
func (p *FileProvider) GetConfig() *Config {
	return p.current.Load()
}

// Refresh re-reads the file. On error the previous configuration is kept.
func (p *FileProvider) Refresh() error {
	if p.path == "" {
		p.current.Store(Default())
		return nil
	}
	cfg, err := Load(p.path)
	if err != nil {
		return err
	}
	p.current.Store(cfg)
	return nil
}
