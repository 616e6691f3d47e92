package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dwarvesf/payment-forwarder/internal/consts"
	"github.com/dwarvesf/payment-forwarder/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Bitcoin     UTXOChainConfig
	BitcoinCash UTXOChainConfig
	Ethereum    AccountChainConfig
	Base        AccountChainConfig
	Solana      MultiSendChainConfig
	Forwarding  ForwardingConfig
	Webhook     WebhookConfig
}

type ApiServerConfig struct {
	Port           string
	AllowedOrigins string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

// UTXOChainConfig points at an esplora-compatible HTTP API for UTXO, balance
// and broadcast endpoints.
type UTXOChainConfig struct {
	EsploraAPIURL  string
	PlatformWallet string
}

type AccountChainConfig struct {
	RPCEndpoint    string
	PlatformWallet string
}

type MultiSendChainConfig struct {
	RPCEndpoint    string
	PlatformWallet string
}

type ForwardingConfig struct {
	// PlatformFeeRate is the default commission rate, e.g. "0.005".
	PlatformFeeRate string

	// MasterKeyHex is the hex-encoded 32-byte key that decrypts stored
	// one-time private keys.
	MasterKeyHex string

	// BatchPeriod and ConfirmPeriod are cron specs for the background
	// batch-forward and confirmation-watch jobs.
	BatchPeriod   string
	ConfirmPeriod string

	// BatchLimit caps how many confirmed payments one batch run picks up.
	BatchLimit int
}

type WebhookConfig struct {
	URL    string
	Secret string
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// this will not override env variables if they already exist
	godotenv.Load(".env." + env)

	feeRate := os.Getenv("PLATFORM_FEE_RATE")
	if feeRate == "" {
		feeRate = consts.DEFAULT_PLATFORM_FEE_RATE
	}

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			Port:           envVarDefault("API_PORT", "8080"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: os.Getenv("DB_SSL_MODE"),
		},
		Bitcoin: UTXOChainConfig{
			EsploraAPIURL:  os.Getenv("BTC_ESPLORA_API_URL"),
			PlatformWallet: os.Getenv("BTC_PLATFORM_WALLET"),
		},
		BitcoinCash: UTXOChainConfig{
			EsploraAPIURL:  os.Getenv("BCH_ESPLORA_API_URL"),
			PlatformWallet: os.Getenv("BCH_PLATFORM_WALLET"),
		},
		Ethereum: AccountChainConfig{
			RPCEndpoint:    os.Getenv("ETH_RPC_ENDPOINT"),
			PlatformWallet: os.Getenv("ETH_PLATFORM_WALLET"),
		},
		Base: AccountChainConfig{
			RPCEndpoint:    os.Getenv("BASE_RPC_ENDPOINT"),
			PlatformWallet: os.Getenv("BASE_PLATFORM_WALLET"),
		},
		Solana: MultiSendChainConfig{
			RPCEndpoint:    os.Getenv("SOL_RPC_ENDPOINT"),
			PlatformWallet: os.Getenv("SOL_PLATFORM_WALLET"),
		},
		Forwarding: ForwardingConfig{
			PlatformFeeRate: feeRate,
			MasterKeyHex:    os.Getenv("FORWARDING_MASTER_KEY"),
			BatchPeriod:     envVarDefault("FORWARD_BATCH_PERIOD", "@every 2m"),
			ConfirmPeriod:   envVarDefault("CONFIRM_WATCH_PERIOD", "@every 1m"),
			BatchLimit:      envVarAtoiDefault("FORWARD_BATCH_LIMIT", 50),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("WEBHOOK_URL"),
			Secret: os.Getenv("WEBHOOK_SECRET"),
		},
	}
}

func envVarDefault(envName, fallback string) string {
	value := os.Getenv(envName)
	if value == "" {
		return fallback
	}
	return value
}

func envVarAtoiDefault(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}

	return value
}
