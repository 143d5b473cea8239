package entity

import (
	"errors"
	"fmt"
	"strings"

	"network_resolver/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoSignerAddress is returned when a signer's value is not a private key.
var ErrNoSignerAddress = errors.New("network_resolver: signer has no derivable address")

// Signer is one validated credential value. Its String, GoString and JSON forms
// never contain the value itself.
type Signer struct {
	variable string
	format   CredentialFormat
	value    string
}

// NewSigner wraps a value that has already passed format validation.
func NewSigner(variable string, format CredentialFormat, value string) Signer {
	return Signer{variable: variable, format: format, value: value}
}

func (s Signer) Variable() string         { return s.variable }
func (s Signer) Format() CredentialFormat { return s.format }

// Value returns the raw credential. Callers must not log it.
func (s Signer) Value() string { return s.value }

// Address derives the account address for hex private keys.
func (s Signer) Address() (common.Address, error) {
	if s.format != FormatHexPrivateKey {
		return common.Address{}, ErrNoSignerAddress
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(s.value, "0x"))
	if err != nil {
		// the value has the right shape but is not a usable secp256k1 scalar
		return common.Address{}, fmt.Errorf("%w: %s", ErrNoSignerAddress, s.variable)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

func (s Signer) String() string   { return "<redacted:" + s.variable + ">" }
func (s Signer) GoString() string { return s.String() }

func (s Signer) MarshalJSON() ([]byte, error) {
	out := struct {
		Variable string `json:"variable"`
		Format   string `json:"format"`
		Address  string `json:"address,omitempty"`
	}{Variable: s.variable, Format: s.format.String()}
	if addr, err := s.Address(); err == nil {
		out.Address = addr.Hex()
	}
	return json.Marshal(out)
}

// ResolvedNetwork is a validated connection+signer bundle, ready for a deployment consumer.
// It is immutable; every accessor returns copies. The consumer is responsible for
// discarding signer material once the deployment is done.
type ResolvedNetwork struct {
	name           string
	endpointURL    string
	chainID        int64
	requirement    CredentialRequirement
	signers        []Signer
	explorerAPIKey string
	hasExplorerKey bool
}

// NewResolvedNetwork builds a ResolvedNetwork for profile. It refuses to build a bundle
// for a REQUIRED profile without signers.
func NewResolvedNetwork(profile NetworkProfile, endpointURL string, signers []Signer) (*ResolvedNetwork, error) {
	if profile.CredentialRequirement == CredentialsRequired && len(signers) == 0 {
		return nil, NewResolutionError(KindMissingCredential, profile.Name, "", "profile requires at least one signer")
	}
	s := make([]Signer, len(signers))
	copy(s, signers)
	return &ResolvedNetwork{
		name:        profile.Name,
		endpointURL: endpointURL,
		chainID:     profile.ChainID,
		requirement: profile.CredentialRequirement,
		signers:     s,
	}, nil
}

func (n *ResolvedNetwork) Name() string        { return n.name }
func (n *ResolvedNetwork) EndpointURL() string { return n.endpointURL }
func (n *ResolvedNetwork) ChainID() int64      { return n.chainID }

func (n *ResolvedNetwork) CredentialRequirement() CredentialRequirement { return n.requirement }

// Signers returns the signers in declaration order.
func (n *ResolvedNetwork) Signers() []Signer {
	out := make([]Signer, len(n.signers))
	copy(out, n.signers)
	return out
}

// ReadOnly reports whether the bundle carries no signers.
func (n *ResolvedNetwork) ReadOnly() bool { return len(n.signers) == 0 }

// SignerAddresses returns addresses for every signer an address can be derived for.
func (n *ResolvedNetwork) SignerAddresses() []common.Address {
	var out []common.Address
	for _, s := range n.signers {
		if addr, err := s.Address(); err == nil {
			out = append(out, addr)
		}
	}
	return out
}

// ExplorerAPIKey returns the opaque block-explorer key and whether one was present.
func (n *ResolvedNetwork) ExplorerAPIKey() (string, bool) {
	return n.explorerAPIKey, n.hasExplorerKey
}

// WithExplorerAPIKey returns a copy carrying the given explorer key.
func (n *ResolvedNetwork) WithExplorerAPIKey(key string) *ResolvedNetwork {
	out := *n
	out.signers = n.Signers()
	out.explorerAPIKey = key
	out.hasExplorerKey = true
	return &out
}

// FromProfile reports whether n was assembled from profile.
func (n *ResolvedNetwork) FromProfile(profile NetworkProfile) bool {
	return n.name == profile.Name
}

// Equal compares two bundles structurally, signer values included.
func (n *ResolvedNetwork) Equal(other *ResolvedNetwork) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.name != other.name || n.endpointURL != other.endpointURL || n.chainID != other.chainID ||
		n.requirement != other.requirement || n.explorerAPIKey != other.explorerAPIKey ||
		n.hasExplorerKey != other.hasExplorerKey || len(n.signers) != len(other.signers) {
		return false
	}
	for i := range n.signers {
		if n.signers[i] != other.signers[i] {
			return false
		}
	}
	return true
}

func (n *ResolvedNetwork) String() string {
	return fmt.Sprintf("%s(chainId=%d, endpoint=%s, signers=%d, explorerKey=%t)",
		n.name, n.chainID, redactEndpoint(n.endpointURL), len(n.signers), n.hasExplorerKey)
}

func (n *ResolvedNetwork) MarshalJSON() ([]byte, error) {
	signers := n.signers
	if signers == nil {
		signers = []Signer{}
	}
	return json.Marshal(struct {
		Name               string   `json:"name"`
		EndpointURL        string   `json:"endpointUrl"`
		ChainID            int64    `json:"chainId"`
		Credentials        string   `json:"credentials"`
		Signers            []Signer `json:"signers"`
		ExplorerKeyPresent bool     `json:"explorerKeyPresent"`
	}{
		Name:               n.name,
		EndpointURL:        redactEndpoint(n.endpointURL),
		ChainID:            n.chainID,
		Credentials:        n.requirement.String(),
		Signers:            signers,
		ExplorerKeyPresent: n.hasExplorerKey,
	})
}

// redactEndpoint keeps scheme and host; provider keys live in the rest of the URL.
func redactEndpoint(raw string) string {
	return utils.RedactURL(raw)
}
