package domain

import "github.com/ethereum/go-ethereum/common"

const (
	// DevelopmentChainID is the chain id used by hardhat local networks.
	DevelopmentChainID = 31337

	// DefaultMockDecimals is the number of decimals of the mock aggregator.
	DefaultMockDecimals = 8
	// DefaultMockInitialPrice is the initial answer of the mock aggregator,
	// 2000 USD with 8 decimals.
	DefaultMockInitialPrice = 200000000000
)

var developmentChains = map[string]struct{}{
	"hardhat":   {},
	"localhost": {},
}

// NetworkConfig holds the known settings of a live network.
type NetworkConfig struct {
	Name               string
	ChainID            uint64
	EthUsdPriceFeed    common.Address
	BlockConfirmations int
}

var networkConfigs = map[uint64]NetworkConfig{
	11155111: {
		Name:               "sepolia",
		ChainID:            11155111,
		EthUsdPriceFeed:    common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306"),
		BlockConfirmations: 6,
	},
}

// Network identifies the chain the daemon is running.
type Network struct {
	Name    string
	ChainID uint64
}

// IsDevelopmentChain returns whether mocks must be deployed on the network.
func (n Network) IsDevelopmentChain() bool {
	if n.ChainID == DevelopmentChainID {
		return true
	}
	_, ok := developmentChains[n.Name]
	return ok
}

// Config returns the known configuration for the network.
func (n Network) Config() (NetworkConfig, error) {
	if cfg, ok := networkConfigs[n.ChainID]; ok {
		return cfg, nil
	}
	for _, cfg := range networkConfigs {
		if cfg.Name == n.Name {
			return cfg, nil
		}
	}
	return NetworkConfig{}, ErrUnknownNetwork
}

// BlockConfirmations returns how many blocks to wait for before considering a
// deployment final.
func (n Network) BlockConfirmations() int {
	cfg, err := n.Config()
	if err != nil {
		return 1
	}
	return cfg.BlockConfirmations
}
