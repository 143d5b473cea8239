package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"network_resolver/internal/app/port"
	"network_resolver/internal/domain/entity"
)

// NetworkDefinitionProvider provides well-known network definitions keyed by a normalized name.
type NetworkDefinitionProvider struct {
	logger  port.Logger
	byName  map[string]entity.NetworkDefinition
	byChain map[uint64]entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		Aliases:          []string{"mainnet", "eth"},
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://etherscan.io",
	}
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia",
		Identifier:       "sepolia",
		NativeSymbol:     "ETH",
		Testnet:          true,
		BlockExplorerURL: "https://sepolia.etherscan.io",
	}
	Holesky = entity.NetworkDefinition{
		ChainID:          17000,
		Name:             "Holesky",
		Identifier:       "holesky",
		NativeSymbol:     "ETH",
		Testnet:          true,
		BlockExplorerURL: "https://holesky.etherscan.io",
	}
	BSC = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bsc",
		Aliases:          []string{"bnb", "bsc-mainnet"},
		NativeSymbol:     "BNB",
		BlockExplorerURL: "https://bscscan.com",
	}
	BSCTestnet = entity.NetworkDefinition{
		ChainID:          97,
		Name:             "BNB Smart Chain Testnet",
		Identifier:       "bsc-testnet",
		Aliases:          []string{"chapel", "bnb-testnet"},
		NativeSymbol:     "tBNB",
		Testnet:          true,
		BlockExplorerURL: "https://testnet.bscscan.com",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		Aliases:          []string{"matic"},
		NativeSymbol:     "POL",
		BlockExplorerURL: "https://polygonscan.com",
	}
	PolygonAmoy = entity.NetworkDefinition{
		ChainID:          80002,
		Name:             "Polygon Amoy",
		Identifier:       "amoy",
		Aliases:          []string{"polygon-amoy"},
		NativeSymbol:     "POL",
		Testnet:          true,
		BlockExplorerURL: "https://amoy.polygonscan.com",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		Aliases:          []string{"arbitrum-one"},
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://arbiscan.io",
	}
	ArbitrumSepolia = entity.NetworkDefinition{
		ChainID:          421614,
		Name:             "Arbitrum Sepolia",
		Identifier:       "arbitrum-sepolia",
		NativeSymbol:     "ETH",
		Testnet:          true,
		BlockExplorerURL: "https://sepolia.arbiscan.io",
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:          43114,
		Name:             "Avalanche C-Chain",
		Identifier:       "avalanche",
		Aliases:          []string{"avax"},
		NativeSymbol:     "AVAX",
		BlockExplorerURL: "https://snowtrace.io",
	}
	AvalancheFuji = entity.NetworkDefinition{
		ChainID:          43113,
		Name:             "Avalanche Fuji",
		Identifier:       "fuji",
		Aliases:          []string{"avalanche-fuji"},
		NativeSymbol:     "AVAX",
		Testnet:          true,
		BlockExplorerURL: "https://testnet.snowtrace.io",
	}
	Base = entity.NetworkDefinition{
		ChainID:          8453,
		Name:             "Base Mainnet",
		Identifier:       "base",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://basescan.org",
	}
	BaseSepolia = entity.NetworkDefinition{
		ChainID:          84532,
		Name:             "Base Sepolia",
		Identifier:       "base-sepolia",
		NativeSymbol:     "ETH",
		Testnet:          true,
		BlockExplorerURL: "https://sepolia.basescan.org",
	}
	Optimism = entity.NetworkDefinition{
		ChainID:          10,
		Name:             "OP Mainnet",
		Identifier:       "optimism",
		Aliases:          []string{"op"},
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://optimistic.etherscan.io",
	}
	OptimismSepolia = entity.NetworkDefinition{
		ChainID:          11155420,
		Name:             "OP Sepolia",
		Identifier:       "optimism-sepolia",
		Aliases:          []string{"op-sepolia"},
		NativeSymbol:     "ETH",
		Testnet:          true,
		BlockExplorerURL: "https://sepolia-optimism.etherscan.io",
	}
	Fantom = entity.NetworkDefinition{
		ChainID:          250,
		Name:             "Fantom Opera",
		Identifier:       "fantom",
		NativeSymbol:     "FTM",
		BlockExplorerURL: "https://ftmscan.com",
	}
	Gnosis = entity.NetworkDefinition{
		ChainID:          100,
		Name:             "Gnosis Chain",
		Identifier:       "gnosis",
		Aliases:          []string{"xdai"},
		NativeSymbol:     "XDAI",
		BlockExplorerURL: "https://gnosisscan.io",
	}
	Linea = entity.NetworkDefinition{
		ChainID:          59144,
		Name:             "Linea Mainnet",
		Identifier:       "linea",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://lineascan.build",
	}
	Scroll = entity.NetworkDefinition{
		ChainID:          534352,
		Name:             "Scroll",
		Identifier:       "scroll",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://scrollscan.com",
	}
	ZkSync = entity.NetworkDefinition{ // zkSync Era
		ChainID:          324,
		Name:             "zkSync Era Mainnet",
		Identifier:       "zksync",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://explorer.zksync.io",
	}
	Celo = entity.NetworkDefinition{
		ChainID:          42220,
		Name:             "Celo Mainnet",
		Identifier:       "celo",
		NativeSymbol:     "CELO",
		BlockExplorerURL: "https://celoscan.io",
	}
	Mantle = entity.NetworkDefinition{
		ChainID:          5000,
		Name:             "Mantle Network",
		Identifier:       "mantle",
		NativeSymbol:     "MNT",
		BlockExplorerURL: "https://explorer.mantle.xyz",
	}
	Blast = entity.NetworkDefinition{
		ChainID:          81457,
		Name:             "Blast Mainnet",
		Identifier:       "blast",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://blastscan.io",
	}
	Zora = entity.NetworkDefinition{
		ChainID:          7777777,
		Name:             "Zora Mainnet",
		Identifier:       "zora",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://explorer.zora.energy",
	}
)

// allKnownDefinitions lists every hardcoded definition.
var allKnownDefinitions = []entity.NetworkDefinition{
	Ethereum, Sepolia, Holesky,
	BSC, BSCTestnet,
	Polygon, PolygonAmoy,
	Arbitrum, ArbitrumSepolia,
	Avalanche, AvalancheFuji,
	Base, BaseSepolia,
	Optimism, OptimismSepolia,
	Fantom, Gnosis, Linea, Scroll, ZkSync, Celo, Mantle, Blast, Zora,
}

// NormalizeName folds case and drops separators, so "bscTestnet", "bsc-testnet"
// and "BSC_TESTNET" all name the same network.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case '-', '_', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewNetworkDefinitionProvider builds a provider from the hardcoded table plus any extra
// definitions from configuration. Extra definitions win over hardcoded ones with the same name.
func NewNetworkDefinitionProvider(log port.Logger, extra []entity.NetworkDefinition) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:  log,
		byName:  make(map[string]entity.NetworkDefinition),
		byChain: make(map[uint64]entity.NetworkDefinition),
	}
	for _, def := range allKnownDefinitions {
		p.add(def)
	}
	for _, def := range extra {
		if def.Identifier == "" || def.ChainID == 0 {
			p.logger.Warn("Skipping known-network entry without identifier or chain ID", "identifier", def.Identifier, "chain_id", def.ChainID)
			continue
		}
		if prev, ok := p.byName[NormalizeName(def.Identifier)]; ok && prev.ChainID != def.ChainID {
			p.logger.Warn(fmt.Sprintf("Known network '%s' redefined from configuration", def.Identifier),
				"previous_chain_id", prev.ChainID, "chain_id", def.ChainID)
		}
		p.add(def)
	}
	p.logger.Debug("NetworkDefinitionProvider initialized", "known_networks", len(p.byChain))
	return p
}

func (p *NetworkDefinitionProvider) add(def entity.NetworkDefinition) {
	p.byName[NormalizeName(def.Identifier)] = def
	for _, alias := range def.Aliases {
		p.byName[NormalizeName(alias)] = def
	}
	p.byChain[def.ChainID] = def
}

// GetAllNetworkDefinitions returns every known definition sorted by chain ID.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.byChain))
	for _, def := range p.byChain {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetNetworkDefinitionByName returns a definition by identifier or alias.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.byName[NormalizeName(identifier)]
	return def, ok
}

// GetNetworkDefinitionByChainID returns a definition by chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.byChain[chainID]
	return def, ok
}
