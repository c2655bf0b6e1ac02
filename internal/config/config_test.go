package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/config"
	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

func TestInitConfig(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("FUNDME_DATADIR", datadir)

	require.NoError(t, config.InitConfig())

	require.Equal(t, 9945, config.GetInt(config.HTTPListeningPortKey))
	require.Equal(t, config.DBBadger, config.GetString(config.DBTypeKey))
	require.Equal(t, filepath.Join(datadir, config.DbLocation), config.GetDbDir())
	require.DirExists(t, config.GetDbDir())

	network := config.GetNetwork()
	require.Equal(t, "hardhat", network.Name)
	require.True(t, network.IsDevelopmentChain())

	nodeCfg := config.GetNodeConfig()
	require.Equal(t, int64(application.DefaultGasPrice), nodeCfg.GasPrice.Int64())
	require.Equal(t, application.DefaultNumOfAccounts, nodeCfg.NumOfAccounts)
	require.Equal(
		t, application.DefaultAccountBalance.String(),
		nodeCfg.AccountBalance.String(),
	)
	require.False(t, nodeCfg.StrictFallback)

	deployCfg := config.GetDeployConfig()
	require.Equal(t, uint8(domain.DefaultMockDecimals), deployCfg.MockDecimals)
	require.Equal(t, "200000000000", deployCfg.MockInitialPrice.String())
	require.Equal(t, common.Address{}, deployCfg.PriceFeedAddress)
	require.Empty(t, config.GetStringSlice(config.KafkaBrokersKey))
}

func TestInitConfigFromEnv(t *testing.T) {
	datadir := t.TempDir()
	priceFeed := "0x694AA1769357215DE4FAC081bf1f309aDC325306"
	env := map[string]string{
		"FUNDME_DATADIR":            datadir,
		"FUNDME_DB_TYPE":            config.DBInMemory,
		"FUNDME_NETWORK":            "sepolia",
		"FUNDME_CHAIN_ID":           "11155111",
		"FUNDME_NUM_ACCOUNTS":       "3",
		"FUNDME_ACCOUNT_BALANCE":    "1.5",
		"FUNDME_PRICE_FEED_ADDRESS": priceFeed,
		"FUNDME_STRICT_FALLBACK":    "true",
		"FUNDME_KAFKA_BROKERS":      "localhost:9092, localhost:9093",
		"FUNDME_PRICE_SOURCE":       "coinbase",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	require.NoError(t, config.InitConfig())

	require.Empty(t, config.GetDbDir())
	_, err := os.Stat(filepath.Join(datadir, config.DbLocation))
	require.True(t, os.IsNotExist(err))

	network := config.GetNetwork()
	require.Equal(t, uint64(11155111), network.ChainID)
	require.False(t, network.IsDevelopmentChain())

	nodeCfg := config.GetNodeConfig()
	require.Equal(t, 3, nodeCfg.NumOfAccounts)
	require.Equal(t, "1500000000000000000", nodeCfg.AccountBalance.String())
	require.True(t, nodeCfg.StrictFallback)

	require.Equal(
		t, common.HexToAddress(priceFeed), config.GetDeployConfig().PriceFeedAddress,
	)
	require.Equal(
		t, []string{"localhost:9092", "localhost:9093"},
		config.GetStringSlice(config.KafkaBrokersKey),
	)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"db type", "FUNDME_DB_TYPE", "postgres"},
		{"gas price", "FUNDME_GAS_PRICE", "-1"},
		{"num of accounts", "FUNDME_NUM_ACCOUNTS", "0"},
		{"account balance", "FUNDME_ACCOUNT_BALANCE", "ten"},
		{"mock decimals", "FUNDME_MOCK_DECIMALS", "19"},
		{"mock initial price", "FUNDME_MOCK_INITIAL_PRICE", "0"},
		{"price feed address", "FUNDME_PRICE_FEED_ADDRESS", "0x01"},
		{"price source", "FUNDME_PRICE_SOURCE", "binance"},
		{"rate limit", "FUNDME_RATE_LIMIT", "-5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FUNDME_DATADIR", t.TempDir())
			t.Setenv(tt.key, tt.value)
			require.Error(t, config.InitConfig())
		})
	}
}
