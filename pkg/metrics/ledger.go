package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ledger"
)

var _ ledger.Client = (*Ledger)(nil)

// Ledger records request counts and latency of a ledger.Client.
type Ledger struct {
	client   ledger.Client
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewLedger(reg prometheus.Registerer, client ledger.Client) *Ledger {
	factory := promauto.With(reg)
	return &Ledger{
		client: client,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_requests_total",
				Help:      "Total number of ledger reads by operation and outcome",
			},
			[]string{"op", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ledger_request_duration_seconds",
				Help:      "Ledger read latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ledger.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ledger.ErrNetwork):
		return "network_error"
	default:
		return "error"
	}
}

func (l *Ledger) observe(op string, start time.Time, err error) {
	l.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	l.requests.WithLabelValues(op, status(err)).Inc()
}

func (l *Ledger) GetBalance(ctx context.Context, addr *address.Address) (tlb.Coins, error) {
	start := time.Now()
	balance, err := l.client.GetBalance(ctx, addr)
	l.observe("get_balance", start, err)
	return balance, err
}

func (l *Ledger) IsContractDeployed(ctx context.Context, addr *address.Address) (bool, error) {
	start := time.Now()
	deployed, err := l.client.IsContractDeployed(ctx, addr)
	l.observe("is_contract_deployed", start, err)
	return deployed, err
}

func (l *Ledger) CallGetMethod(ctx context.Context, addr *address.Address, method string, args ...getmethod.Entry) (getmethod.RawStack, error) {
	start := time.Now()
	stack, err := l.client.CallGetMethod(ctx, addr, method, args...)
	l.observe("run_get_method", start, err)
	return stack, err
}
