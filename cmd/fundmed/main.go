package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/config"
	"github.com/fundme-network/fundme-daemon/internal/core/application"
	priceupdater "github.com/fundme-network/fundme-daemon/internal/core/application/price-updater"
	apppubsub "github.com/fundme-network/fundme-daemon/internal/core/application/pubsub"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	pricefeederinfra "github.com/fundme-network/fundme-daemon/internal/infrastructure/price-feeder"
	"github.com/fundme-network/fundme-daemon/internal/infrastructure/pubsub"
	"github.com/fundme-network/fundme-daemon/internal/infrastructure/pubsub/kafka"
	dbbadger "github.com/fundme-network/fundme-daemon/internal/infrastructure/storage/db/badger"
	"github.com/fundme-network/fundme-daemon/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/fundme-network/fundme-daemon/internal/interfaces/http"
	"github.com/fundme-network/fundme-daemon/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())

	if config.GetBool(config.EnableProfilerKey) {
		dumpFile := filepath.Join(
			config.GetDatadir(), config.ProfilerLocation,
			fmt.Sprintf("prometheus-%d.txt", time.Now().Unix()),
		)
		stats.EnableMemoryStatistics(
			ctx, time.Duration(config.GetInt(config.StatsIntervalKey))*time.Second,
			dumpFile,
		)
	}

	// Storage
	repoManager, err := newRepoManager()
	if err != nil {
		log.WithError(err).Panic("error while setting up storage")
	}

	// Node
	nodeSvc, err := application.NewNodeService(
		repoManager, config.GetNodeConfig(),
	)
	if err != nil {
		log.WithError(err).Panic("error while setting up node")
	}
	if err := nodeSvc.Init(ctx); err != nil {
		log.WithError(err).Panic("error while initializing node")
	}
	network := nodeSvc.Network()

	// Events
	var webhookPubSub ports.PubSub
	if config.GetBool(config.EnableWebhooksKey) {
		webhookPubSub, err = pubsub.NewService(config.GetDbDir(), nil)
		if err != nil {
			log.WithError(err).Panic("error while setting up webhook pubsub")
		}
	}
	publishers := make([]ports.Publisher, 0)
	if brokers := config.GetStringSlice(config.KafkaBrokersKey); len(brokers) > 0 {
		publisher, err := kafka.NewPublisher(
			brokers, config.GetString(config.KafkaTopicKey),
		)
		if err != nil {
			log.WithError(err).Panic("error while setting up kafka publisher")
		}
		publishers = append(publishers, publisher)
	}
	pubsubSvc := apppubsub.NewService(webhookPubSub, publishers...)

	// Application services
	deploySvc := application.NewDeployService(
		nodeSvc, repoManager, config.GetDeployConfig(),
	)
	fundMeSvc := application.NewFundMeService(nodeSvc, deploySvc, pubsubSvc)
	priceSvc := application.NewPriceService(nodeSvc, deploySvc)

	// Price source
	var source ports.PriceSource
	if name := config.GetString(config.PriceSourceKey); name != config.PriceSourceNone {
		source, err = pricefeederinfra.NewPriceSource(
			name, config.GetString(config.PriceSourceURLKey),
		)
		if err != nil {
			log.WithError(err).Panic("error while setting up price source")
		}
	}

	// On live networks the node has no aggregator at the ETH/USD feed address,
	// the live feed takes its place before FundMe gets deployed.
	if !network.IsDevelopmentChain() && source != nil {
		feedAddress := config.GetDeployConfig().PriceFeedAddress
		if feedAddress == (common.Address{}) {
			networkCfg, err := network.Config()
			if err != nil {
				log.WithError(err).Panic("missing price feed for network")
			}
			feedAddress = networkCfg.EthUsdPriceFeed
		}

		ticks, err := source.Start(ctx)
		if err != nil {
			log.WithError(err).Panic("error while starting price source")
		}
		liveFeed := pricefeederinfra.NewLiveFeed()
		go liveFeed.Watch(ctx, ticks)
		nodeSvc.RegisterPriceFeed(feedAddress, liveFeed)
		log.Infof(
			"%s price source feeding ETH/USD at %s", source.Name(), feedAddress.Hex(),
		)
	}

	if config.GetBool(config.AutoDeployKey) {
		if _, err := deploySvc.Deploy(ctx, nil); err != nil {
			log.WithError(err).Panic("error while deploying contracts")
		}
	}

	var priceUpdaterSvc *priceupdater.Service
	if network.IsDevelopmentChain() && source != nil {
		priceUpdaterSvc = priceupdater.NewService(
			source, priceSvc,
			time.Duration(config.GetInt(config.PriceSourceIntervalKey))*time.Millisecond,
		)
		if err := priceUpdaterSvc.Start(ctx); err != nil {
			log.WithError(err).Warn("price updater not started")
			priceUpdaterSvc = nil
		}
	}

	// Interfaces
	httpAddress := fmt.Sprintf(":%d", config.GetInt(config.HTTPListeningPortKey))
	httpSvc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:            httpAddress,
		RateLimit:          config.GetInt(config.RateLimitKey),
		CORSAllowedOrigins: config.GetStringSlice(config.CORSAllowedOriginsKey),
		NodeSvc:            nodeSvc,
		DeploySvc:          deploySvc,
		FundMeSvc:          fundMeSvc,
		PriceSvc:           priceSvc,
		WebhookSvc:         pubsubSvc,
	})
	if err != nil {
		log.WithError(err).Panic("error while setting up REST interface")
	}

	log.Debug("starting daemon")

	if err := httpSvc.Start(); err != nil {
		log.WithError(err).Panic("error while starting REST interface")
	}
	log.Infof(
		"%s (chain id %d) ready, REST interface listening on %s",
		network.Name, network.ChainID, httpAddress,
	)

	defer func() {
		httpSvc.Stop()
		log.Debug("stopped REST interface")

		if priceUpdaterSvc != nil {
			priceUpdaterSvc.Stop()
			log.Debug("stopped price updater")
		} else if source != nil {
			source.Stop()
			log.Debug("stopped price source")
		}

		pubsubSvc.Close()
		log.Debug("closed event publishers")

		repoManager.Close()
		log.Debug("closed connection with db")

		cancel()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Debug("exiting")
}

func newRepoManager() (ports.RepoManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewRepoManager(), nil
	}
	return dbbadger.NewRepoManager(config.GetDbDir(), nil)
}
