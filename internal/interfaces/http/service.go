package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	interfaces "github.com/fundme-network/fundme-daemon/internal/interfaces"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	Address            string
	RateLimit          int
	CORSAllowedOrigins []string

	NodeSvc    application.NodeService
	DeploySvc  application.DeployService
	FundMeSvc  application.FundMeService
	PriceSvc   application.PriceService
	WebhookSvc WebhookService
}

func (o ServiceOpts) validate() error {
	if o.Address == "" {
		return fmt.Errorf("missing listening address")
	}
	if o.NodeSvc == nil || o.DeploySvc == nil || o.FundMeSvc == nil ||
		o.PriceSvc == nil || o.WebhookSvc == nil {
		return fmt.Errorf("missing application services")
	}
	if o.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

// NewService returns the REST interface of the daemon.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              opts.Address,
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped unexpectedly")
		}
	}()
	log.Infof("http interface listening on %s", s.opts.Address)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
	}
	log.Debug("disabled http interface")
}

// NewRouter returns the handler serving every route of the REST interface.
func NewRouter(opts ServiceOpts) http.Handler {
	h := &handler{
		nodeSvc:    opts.NodeSvc,
		deploySvc:  opts.DeploySvc,
		fundMeSvc:  opts.FundMeSvc,
		priceSvc:   opts.PriceSvc,
		webhookSvc: opts.WebhookSvc,
	}

	router := mux.NewRouter()
	router.Use(recoverer, logger)
	if opts.RateLimit > 0 {
		router.Use(rateLimiter(opts.RateLimit))
	}

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/info", h.getInfo).Methods(http.MethodGet)
	v1.HandleFunc("/accounts", h.getAccounts).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{address}/balance", h.getBalance).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{address}/reject-payments", h.rejectPayments).Methods(http.MethodPost)

	v1.HandleFunc("/deploy", h.deploy).Methods(http.MethodPost)
	v1.HandleFunc("/deployments", h.listDeployments).Methods(http.MethodGet)
	v1.HandleFunc("/deployments/{name}", h.getDeployment).Methods(http.MethodGet)

	v1.HandleFunc("/fundme", h.getFundMe).Methods(http.MethodGet)
	v1.HandleFunc("/fundme/fund", h.fund).Methods(http.MethodPost)
	v1.HandleFunc("/fundme/send", h.send).Methods(http.MethodPost)
	v1.HandleFunc("/fundme/withdraw", h.withdraw).Methods(http.MethodPost)
	v1.HandleFunc("/fundme/cheaper-withdraw", h.cheaperWithdraw).Methods(http.MethodPost)
	v1.HandleFunc("/fundme/owner", h.getOwner).Methods(http.MethodGet)
	v1.HandleFunc("/fundme/price-feed", h.getPriceFeed).Methods(http.MethodGet)
	v1.HandleFunc("/fundme/funders", h.getFunders).Methods(http.MethodGet)
	v1.HandleFunc("/fundme/funders/{index}", h.getFunder).Methods(http.MethodGet)
	v1.HandleFunc("/fundme/funded/{address}", h.getAmountFunded).Methods(http.MethodGet)
	v1.HandleFunc("/fundme/balance", h.getContractBalance).Methods(http.MethodGet)

	v1.HandleFunc("/price", h.getPrice).Methods(http.MethodGet)
	v1.HandleFunc("/price", h.updatePrice).Methods(http.MethodPost)

	v1.HandleFunc("/receipts", h.listReceipts).Methods(http.MethodGet)
	v1.HandleFunc("/receipts/{hash}", h.getReceipt).Methods(http.MethodGet)

	v1.HandleFunc("/webhooks", h.addWebhook).Methods(http.MethodPost)
	v1.HandleFunc("/webhooks", h.listWebhooks).Methods(http.MethodGet)
	v1.HandleFunc("/webhooks/{id}", h.removeWebhook).Methods(http.MethodDelete)

	if len(opts.CORSAllowedOrigins) <= 0 {
		return router
	}
	return cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)
}
