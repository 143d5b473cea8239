package entity

// NetworkDefinition holds the well-known parameters of a public blockchain network.
// Definitions are hardcoded at the infrastructure level and used to cross-check profiles.
type NetworkDefinition struct {
	ChainID          uint64   `json:"chainId" yaml:"chainId"`
	Name             string   `json:"name" yaml:"name"`
	Identifier       string   `json:"identifier" yaml:"identifier"` // e.g. "bsc", "bsc-testnet"
	Aliases          []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	Testnet          bool     `json:"testnet" yaml:"testnet"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}

// CredentialRequirement says whether a profile needs signing credentials.
type CredentialRequirement int

const (
	CredentialsNone CredentialRequirement = iota
	CredentialsOptional
	CredentialsRequired
)

func (r CredentialRequirement) String() string {
	switch r {
	case CredentialsNone:
		return "none"
	case CredentialsOptional:
		return "optional"
	case CredentialsRequired:
		return "required"
	default:
		return "unknown"
	}
}

// CredentialFormat is the expected shape of a resolved credential value.
type CredentialFormat int

const (
	// FormatRaw accepts any non-empty value.
	FormatRaw CredentialFormat = iota
	// FormatHexPrivateKey requires "0x" followed by exactly 64 hex characters.
	FormatHexPrivateKey
)

func (f CredentialFormat) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatHexPrivateKey:
		return "hex_private_key"
	default:
		return "unknown"
	}
}

// CredentialSource references one ambient secret by variable name. It never holds the secret.
type CredentialSource struct {
	VariableName   string
	ExpectedFormat CredentialFormat
}

// NetworkProfile is a named bundle of connection parameters as declared in configuration.
// Profiles are built once at load time and only read afterwards.
type NetworkProfile struct {
	Name string
	// EndpointURL is the literal RPC endpoint; may be empty at definition time.
	EndpointURL string
	// EndpointVar names an ambient variable holding the endpoint (e.g. BSC_RPC_URL).
	EndpointVar           string
	ChainID               int64
	CredentialRequirement CredentialRequirement
	Credentials           []CredentialSource
	// ExplorerAPIKeyVar names the ambient variable with the block-explorer API key.
	ExplorerAPIKeyVar string
}

// Clone returns a copy of the profile that shares no slices with the original.
func (p NetworkProfile) Clone() NetworkProfile {
	out := p
	if p.Credentials != nil {
		out.Credentials = make([]CredentialSource, len(p.Credentials))
		copy(out.Credentials, p.Credentials)
	}
	return out
}
