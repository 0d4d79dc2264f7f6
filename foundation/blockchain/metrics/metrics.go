// Package metrics exposes prometheus collectors for the ledger engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ddk",
		Subsystem: "ledger",
		Name:      "transactions_total",
		Help:      "Count of processed transactions by type and outcome.",
	}, []string{"type", "status"})

	transactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ddk",
		Subsystem: "ledger",
		Name:      "transaction_duration_seconds",
		Help:      "Duration of processing a transaction.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type", "status"})

	blocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ddk",
		Subsystem: "ledger",
		Name:      "blocks_total",
		Help:      "Count of block operations by kind and outcome.",
	}, []string{"op", "status"})

	blockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ddk",
		Subsystem: "ledger",
		Name:      "block_duration_seconds",
		Help:      "Duration of a block operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op", "status"})

	blockSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ddk",
		Subsystem: "ledger",
		Name:      "block_transactions",
		Help:      "Number of transactions per block.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"op"})

	height = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ddk",
		Subsystem: "ledger",
		Name:      "height",
		Help:      "Height of the last applied block.",
	})

	mempoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ddk",
		Subsystem: "ledger",
		Name:      "mempool_transactions",
		Help:      "Number of unconfirmed transactions in the pool.",
	})
)

// Set of block operations.
const (
	OpForge = "forge"
	OpApply = "apply"
	OpUndo  = "undo"
)

// Ledger records metrics for the node core.
type Ledger struct{}

// New constructs a Ledger.
func New() *Ledger {
	return &Ledger{}
}

// ObserveTransaction records a transaction outcome and duration.
func (Ledger) ObserveTransaction(trsType string, err error, started time.Time) {
	status := statusOf(err)
	transactionsTotal.WithLabelValues(trsType, status).Inc()
	transactionDuration.WithLabelValues(trsType, status).Observe(time.Since(started).Seconds())
}

// ObserveBlock records a block operation outcome, duration and size.
func (Ledger) ObserveBlock(op string, err error, transactions int, started time.Time) {
	status := statusOf(err)
	blocksTotal.WithLabelValues(op, status).Inc()
	blockDuration.WithLabelValues(op, status).Observe(time.Since(started).Seconds())
	if err == nil {
		blockSize.WithLabelValues(op).Observe(float64(transactions))
	}
}

// SetHeight records the height of the last block.
func (Ledger) SetHeight(h uint64) {
	height.Set(float64(h))
}

// SetMempool records the number of pooled transactions.
func (Ledger) SetMempool(n int) {
	mempoolSize.Set(float64(n))
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
