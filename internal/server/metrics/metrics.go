// Package metrics holds the server's Prometheus collectors. They register
// with the default registry and are served by promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scankeeper"

// Encode outcomes.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
)

var (
	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifications_total",
		Help:      "Payloads classified, by detected kind.",
	}, []string{"kind"})

	Encodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "encode_total",
		Help:      "Encode requests, by kind and result.",
	}, []string{"kind", "result"})

	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "gRPC calls, by method and status code.",
	}, []string{"method", "code"})

	HistoryItemsPushed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_items_pushed_total",
		Help:      "History items accepted from devices.",
	})
)

func ObserveClassification(kind string) {
	Classifications.WithLabelValues(kind).Inc()
}

func ObserveEncode(kind string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultInvalid
	}
	Encodes.WithLabelValues(kind, result).Inc()
}

func ObserveRPC(method, code string) {
	RPCRequests.WithLabelValues(method, code).Inc()
}

func ObservePushed(n int) {
	HistoryItemsPushed.Add(float64(n))
}
