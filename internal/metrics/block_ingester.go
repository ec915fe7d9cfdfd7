package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingesterFetchBlockTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "watcher",
		Subsystem: "block_ingester",
		Name:      "fetch_block_total",
		Help:      "Count of attempts to fetch the next child-chain block.",
	}, []string{"status"})

	ingesterFetchBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "watcher",
		Subsystem: "block_ingester",
		Name:      "fetch_block_duration_seconds",
		Help:      "Duration of fetching the next child-chain block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	ingesterProcessBlockTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "watcher",
		Subsystem: "block_ingester",
		Name:      "process_block_total",
		Help:      "Count of child-chain blocks processed.",
	}, []string{"status"})

	ingesterProcessBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "watcher",
		Subsystem: "block_ingester",
		Name:      "process_block_duration_seconds",
		Help:      "Duration of processing a child-chain block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	ingesterProcessBlockSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "watcher",
		Subsystem: "block_ingester",
		Name:      "process_block_transactions",
		Help:      "Number of transactions processed per block.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	ingesterLedgerHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "watcher",
		Subsystem: "block_ingester",
		Name:      "ledger_blknum",
		Help:      "Highest child-chain block number persisted to the ledger.",
	})
)

// BlockIngester tracks metrics for the block ingester pipeline.
type BlockIngester struct{}

// NewBlockIngester constructs a BlockIngester metrics collector.
func NewBlockIngester() *BlockIngester {
	return &BlockIngester{}
}

// ObserveFetch records a fetch attempt outcome and duration.
func (m BlockIngester) ObserveFetch(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ingesterFetchBlockTotal.WithLabelValues(status).Inc()
	ingesterFetchBlockDuration.WithLabelValues(status).
		Observe(time.Since(started).Seconds())
}

// ObserveBlock records processing of one mined block.
func (m BlockIngester) ObserveBlock(err error, transactions int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ingesterProcessBlockTotal.WithLabelValues(status).Inc()
	ingesterProcessBlockDuration.WithLabelValues(status).
		Observe(time.Since(started).Seconds())
	ingesterProcessBlockSize.Observe(float64(transactions))
}

// SetLedgerHeight records the highest block number persisted to the ledger.
func (m BlockIngester) SetLedgerHeight(blknum uint64) {
	ingesterLedgerHeight.Set(float64(blknum))
}
