package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"

	bindings "github.com/smartcontractkit/ton-jetton-deployer/pkg/bindings/jetton"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/config"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/deployer"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/jetton"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ledger"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/metrics"
)

// stack is everything a command needs, built once from the config.
type stack struct {
	lggr       logger.Logger
	cfg        *config.TOMLConfig
	registry   *prometheus.Registry
	runs       *metrics.Progress
	api        ton.APIClientWrapped
	client     ledger.Client
	controller *jetton.Controller
	server     *http.Server
}

// newStack wires the ledger client and the controller. A liteserver connection
// is opened when the ledger backend needs one or withAPI is set, since wallets
// always send through liteservers.
func (g *globalFlags) newStack(ctx context.Context, withAPI bool) (*stack, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	lggr, err := newLogger()
	if err != nil {
		return nil, err
	}
	s := &stack{lggr: lggr, cfg: cfg, registry: prometheus.NewRegistry()}
	s.runs = metrics.NewProgress(s.registry)

	backend := *cfg.Ledger.Backend
	if withAPI || backend == config.BackendLiteClient {
		if s.api, err = connectLiteServers(ctx, cfg.Ledger.ConfigURL.String()); err != nil {
			return nil, err
		}
	}

	var client ledger.Client
	switch backend {
	case config.BackendLiteClient:
		client = ledger.NewLiteClient(lggr, s.api)
	case config.BackendToncenter:
		client = ledger.NewToncenter(lggr, cfg.Ledger.Endpoint.String(), *cfg.Ledger.APIKey)
	default:
		return nil, fmt.Errorf("unsupported ledger backend %q", backend)
	}
	// one limiter for every read of this process
	limiter := ledger.NewLimiter(*cfg.RateLimit.RequestsPerSecond, *cfg.RateLimit.Burst)
	s.client = ledger.NewThrottled(metrics.NewLedger(s.registry, client), limiter)

	if s.controller, err = newController(lggr, cfg, s.client); err != nil {
		return nil, err
	}

	if g.metricsAddr != "" {
		s.serveMetrics(g.metricsAddr)
	}
	return s, nil
}

func connectLiteServers(ctx context.Context, configURL string) (ton.APIClientWrapped, error) {
	pool := liteclient.NewConnectionPool()
	cfg, err := liteclient.GetConfigFromUrl(ctx, configURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get network config from %s: %w", configURL, err)
	}
	if err := pool.AddConnectionsFromConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to connect to liteservers: %w", err)
	}
	return ton.NewAPIClient(pool, ton.ProofCheckPolicyFast).WithRetry(), nil
}

func newController(lggr logger.Logger, cfg *config.TOMLConfig, client ledger.Client) (*jetton.Controller, error) {
	minterCode, err := bindings.MinterCode(*cfg.Deployer.MinterCodePath)
	if err != nil {
		return nil, err
	}
	walletCode, err := bindings.WalletCode(*cfg.Deployer.WalletCodePath)
	if err != nil {
		return nil, err
	}
	deployGas, err := cfg.DeployGas()
	if err != nil {
		return nil, err
	}
	mintTon, err := cfg.MintTonAmount()
	if err != nil {
		return nil, err
	}
	poller, err := deployer.NewPoller(lggr, cfg.PollPolicy())
	if err != nil {
		return nil, err
	}
	return jetton.NewController(lggr, client, minterCode, walletCode,
		jetton.WithDeployGas(deployGas),
		jetton.WithMintTonAmount(mintTon),
		jetton.WithWorkchain(*cfg.Deployer.Workchain),
		jetton.WithPoller(poller),
	)
}

func (s *stack) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(s.registry))
	s.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.lggr.Errorw("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	s.lggr.Infow("serving metrics", "addr", addr)
}

func (s *stack) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// progress returns the sink of one run, reporting to the log and to the
// metrics registry.
func (s *stack) progress() jetton.ProgressSink {
	return jetton.FanoutProgress(s.lggr, jetton.LoggingProgress(s.lggr), s.runs.Sink())
}
