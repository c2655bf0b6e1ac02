package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
)

const (
	// HTTPListeningPortKey is the port where the REST interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// NetworkKey is the name of the network, hardhat and localhost are
	// development chains
	NetworkKey = "NETWORK"
	// ChainIDKey is the chain id of the network
	ChainIDKey = "CHAIN_ID"
	// GasPriceKey is the price in wei of a unit of gas
	GasPriceKey = "GAS_PRICE"
	// BlockGasLimitKey is the max gas a transaction can use
	BlockGasLimitKey = "BLOCK_GAS_LIMIT"
	// AccountsSeedKey is the seed the signer accounts are derived from
	AccountsSeedKey = "ACCOUNTS_SEED"
	// NumOfAccountsKey is the number of signer accounts
	NumOfAccountsKey = "NUM_ACCOUNTS"
	// AccountBalanceKey is the initial balance in ether of every signer
	AccountBalanceKey = "ACCOUNT_BALANCE"
	// MockDecimalsKey is the number of decimals of the mock price feed
	MockDecimalsKey = "MOCK_DECIMALS"
	// MockInitialPriceKey is the initial answer of the mock price feed
	MockInitialPriceKey = "MOCK_INITIAL_PRICE"
	// PriceFeedAddressKey is the ETH/USD price feed to use on live networks
	PriceFeedAddressKey = "PRICE_FEED_ADDRESS"
	// PriceSourceKey is the exchange the ETH/USD price is read from
	PriceSourceKey = "PRICE_SOURCE"
	// PriceSourceURLKey overrides the websocket endpoint of the price source
	PriceSourceURLKey = "PRICE_SOURCE_URL"
	// PriceSourceIntervalKey is the min interval in milliseconds between two
	// updates of the mock price feed
	PriceSourceIntervalKey = "PRICE_SOURCE_INTERVAL"
	// AutoDeployKey enables deploying all contracts at startup
	AutoDeployKey = "AUTO_DEPLOY"
	// StrictFallbackKey makes FundMe revert on unknown call data instead of
	// accepting it as a contribution
	StrictFallbackKey = "STRICT_FALLBACK"
	// EnableWebhooksKey enables the webhook pubsub
	EnableWebhooksKey = "ENABLE_WEBHOOKS"
	// KafkaBrokersKey is the comma separated list of kafka brokers events are
	// published to
	KafkaBrokersKey = "KAFKA_BROKERS"
	// KafkaTopicKey is the prefix of the kafka topics
	KafkaTopicKey = "KAFKA_TOPIC"
	// RateLimitKey is the max number of requests per second served by the
	// REST interface, 0 disables it
	RateLimitKey = "RATE_LIMIT"
	// CORSAllowedOriginsKey is the comma separated list of origins allowed to
	// call the REST interface
	CORSAllowedOriginsKey = "CORS_ALLOWED_ORIGINS"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval in seconds for printing basic statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	DBBadger   = "badger"
	DBInMemory = "inmemory"

	PriceSourceNone = "none"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("fundme-daemon", false)

	dbTypes = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
	priceSources = map[string]struct{}{
		PriceSourceNone: {},
		"kraken":        {},
		"coinbase":      {},
		"bitfinex":      {},
	}
)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("FUNDME")
	vip.AutomaticEnv()

	vip.SetDefault(HTTPListeningPortKey, 9945)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(NetworkKey, "hardhat")
	vip.SetDefault(ChainIDKey, domain.DevelopmentChainID)
	vip.SetDefault(GasPriceKey, big.NewInt(application.DefaultGasPrice).String())
	vip.SetDefault(BlockGasLimitKey, application.DefaultBlockGasLimit)
	vip.SetDefault(AccountsSeedKey, application.DefaultAccountsSeed)
	vip.SetDefault(NumOfAccountsKey, application.DefaultNumOfAccounts)
	vip.SetDefault(AccountBalanceKey, "10000")
	vip.SetDefault(MockDecimalsKey, domain.DefaultMockDecimals)
	vip.SetDefault(MockInitialPriceKey, domain.DefaultMockInitialPrice)
	vip.SetDefault(PriceSourceKey, PriceSourceNone)
	vip.SetDefault(PriceSourceIntervalKey, 5000)
	vip.SetDefault(AutoDeployKey, true)
	vip.SetDefault(StrictFallbackKey, false)
	vip.SetDefault(EnableWebhooksKey, true)
	vip.SetDefault(KafkaTopicKey, "fundme")
	vip.SetDefault(RateLimitKey, 0)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

// GetStringSlice returns the comma separated values of the given key.
func GetStringSlice(key string) []string {
	values := make([]string, 0)
	for _, v := range strings.Split(vip.GetString(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the badger dbs, empty if the daemon runs
// in memory.
func GetDbDir() string {
	if GetString(DBTypeKey) == DBInMemory {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetNetwork() domain.Network {
	return domain.Network{
		Name:    GetString(NetworkKey),
		ChainID: GetUint64(ChainIDKey),
	}
}

func GetNodeConfig() application.NodeConfig {
	gasPrice, _ := new(big.Int).SetString(GetString(GasPriceKey), 10)
	balance, _ := ethunit.ParseEther(GetString(AccountBalanceKey))
	return application.NodeConfig{
		Network:        GetNetwork(),
		GasPrice:       gasPrice,
		BlockGasLimit:  GetUint64(BlockGasLimitKey),
		AccountsSeed:   GetString(AccountsSeedKey),
		NumOfAccounts:  GetInt(NumOfAccountsKey),
		AccountBalance: balance,
		StrictFallback: GetBool(StrictFallbackKey),
	}
}

func GetDeployConfig() application.DeployConfig {
	initialPrice, _ := new(big.Int).SetString(GetString(MockInitialPriceKey), 10)
	cfg := application.DeployConfig{
		MockDecimals:     uint8(GetInt(MockDecimalsKey)),
		MockInitialPrice: initialPrice,
	}
	if addr := GetString(PriceFeedAddressKey); addr != "" {
		cfg.PriceFeedAddress = common.HexToAddress(addr)
	}
	return cfg
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, ok := dbTypes[GetString(DBTypeKey)]; !ok {
		return fmt.Errorf(
			"%s must be either %s or %s", DBTypeKey, DBBadger, DBInMemory,
		)
	}

	if GetString(NetworkKey) == "" {
		return fmt.Errorf("missing network")
	}

	if gasPrice, ok := new(big.Int).SetString(
		GetString(GasPriceKey), 10,
	); !ok || gasPrice.Sign() < 0 {
		return fmt.Errorf("%s must be a positive integer amount of wei", GasPriceKey)
	}

	if GetInt(NumOfAccountsKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", NumOfAccountsKey)
	}

	if _, err := ethunit.ParseEther(GetString(AccountBalanceKey)); err != nil {
		return fmt.Errorf("invalid %s: %s", AccountBalanceKey, err)
	}

	decimals := GetInt(MockDecimalsKey)
	if decimals <= 0 || decimals > 18 {
		return fmt.Errorf("%s must be in range [1, 18]", MockDecimalsKey)
	}
	if price, ok := new(big.Int).SetString(
		GetString(MockInitialPriceKey), 10,
	); !ok || price.Sign() <= 0 {
		return fmt.Errorf("%s must be a positive integer", MockInitialPriceKey)
	}

	if addr := GetString(PriceFeedAddressKey); addr != "" &&
		!common.IsHexAddress(addr) {
		return fmt.Errorf("%s must be a valid hex address", PriceFeedAddressKey)
	}

	if _, ok := priceSources[GetString(PriceSourceKey)]; !ok {
		return fmt.Errorf("unknown price source %s", GetString(PriceSourceKey))
	}

	if GetInt(RateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", RateLimitKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) != DBInMemory {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
