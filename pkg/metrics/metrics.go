package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения меток для DealsImported.
const (
	ModeSingle = "single"
	ModeBatch  = "batch"
	ModeKafka  = "kafka"

	OutcomeAccepted   = "accepted"
	OutcomeRejected   = "rejected"
	OutcomeStoreError = "store_error"
)

var (
	DealsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_deals_import_total",
			Help: "Number of deals processed by import, by entry point and outcome",
		},
		[]string{"mode", "outcome"}, // single|batch|kafka; accepted|rejected|store_error
	)
	DealsBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fx_deals_batch_size",
			Help:    "Number of deals per batch import request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		},
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрация всех метрик в prometheus.DefaultRegisterer; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			DealsImported, DealsBatchSize,
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
			CacheOps, CacheSize,
		)
	})
}
