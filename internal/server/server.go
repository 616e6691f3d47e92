package server

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/dwarvesf/payment-forwarder/internal/accountrpc"
	"github.com/dwarvesf/payment-forwarder/internal/feesplit"
	"github.com/dwarvesf/payment-forwarder/internal/forwarder"
	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/monitoring"
	"github.com/dwarvesf/payment-forwarder/internal/multisendrpc"
	"github.com/dwarvesf/payment-forwarder/internal/oracle"
	"github.com/dwarvesf/payment-forwarder/internal/provider"
	"github.com/dwarvesf/payment-forwarder/internal/store"
	pgstore "github.com/dwarvesf/payment-forwarder/internal/store/postgres"
	"github.com/dwarvesf/payment-forwarder/internal/transport/http"
	"github.com/dwarvesf/payment-forwarder/internal/utils/config"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
	"github.com/dwarvesf/payment-forwarder/internal/utils/webhook"
	"github.com/dwarvesf/payment-forwarder/internal/utxorpc"
	"github.com/dwarvesf/payment-forwarder/internal/utxorpc/esplora"
)

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)
	s := store.New()

	policies := provider.DefaultPolicies()

	registry := provider.NewRegistry()
	registry.Register(model.ChainBTC, utxorpc.New(
		policies[model.ChainBTC],
		esplora.New(appConfig.Bitcoin.EsploraAPIURL, logger),
		&utxorpc.LegacyCodec{},
		logger,
	))
	registry.Register(model.ChainBCH, utxorpc.New(
		policies[model.ChainBCH],
		esplora.New(appConfig.BitcoinCash.EsploraAPIURL, logger),
		utxorpc.NewCashAddrCodec("bitcoincash"),
		logger,
	))

	ethRpc, err := accountrpc.New(policies[model.ChainETH], appConfig.Ethereum.RPCEndpoint, logger)
	if err != nil {
		logger.Fatal("Failed to init eth rpc", map[string]string{
			"error": err.Error(),
		})
	}
	registry.Register(model.ChainETH, ethRpc)

	baseRpc, err := accountrpc.New(policies[model.ChainBase], appConfig.Base.RPCEndpoint, logger)
	if err != nil {
		logger.Fatal("Failed to init base rpc", map[string]string{
			"error": err.Error(),
		})
	}
	registry.Register(model.ChainBase, baseRpc)

	registry.Register(model.ChainSOL, multisendrpc.New(
		policies[model.ChainSOL],
		multisendrpc.NewRpcClient(appConfig.Solana.RPCEndpoint, logger),
		logger,
	))

	keys, err := keystore.New(db, s, appConfig.Forwarding.MasterKeyHex, logger)
	if err != nil {
		logger.Fatal("Failed to init keystore", map[string]string{
			"error": err.Error(),
		})
	}

	calculator, err := feesplit.New(appConfig.Forwarding.PlatformFeeRate)
	if err != nil {
		logger.Fatal("Failed to init fee calculator", map[string]string{
			"error": err.Error(),
		})
	}

	notifier := webhook.New(appConfig, logger)

	metricsRegistry := prometheus.NewRegistry()
	metrics := monitoring.NewForwardingMetrics(metricsRegistry)

	platformWallets := map[model.Chain]string{
		model.ChainBTC:  appConfig.Bitcoin.PlatformWallet,
		model.ChainBCH:  appConfig.BitcoinCash.PlatformWallet,
		model.ChainETH:  appConfig.Ethereum.PlatformWallet,
		model.ChainBase: appConfig.Base.PlatformWallet,
		model.ChainSOL:  appConfig.Solana.PlatformWallet,
	}

	fwd := forwarder.New(db, s, registry, keys, calculator, notifier, metrics, platformWallets, policies, logger)

	rateOracle := oracle.New([]oracle.IRateProvider{
		oracle.NewCoinGeckoProvider(""),
		oracle.NewBinanceProvider(""),
	}, logger)

	c := cron.New()

	c.AddFunc(appConfig.Forwarding.ConfirmPeriod, func() {
		if err := fwd.ConfirmPending(context.Background()); err != nil {
			logger.Error("[cron][ConfirmPending]", map[string]string{
				"error": err.Error(),
			})
		}
	})
	c.AddFunc(appConfig.Forwarding.BatchPeriod, func() {
		fwd.BatchForward(context.Background(), appConfig.Forwarding.BatchLimit)
	})
	c.Start()

	httpServer := http.NewHttpServer(appConfig, logger, fwd, rateOracle, s, db, metricsRegistry)

	httpServer.Run(":" + appConfig.ApiServer.Port)
}
