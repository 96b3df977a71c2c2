package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the terminal's Prometheus collectors.
type Metrics struct {
	// CartOperations counts cart mutations by operation and outcome.
	CartOperations *prometheus.CounterVec
	// ReceiptsRendered counts receipt texts produced.
	ReceiptsRendered prometheus.Counter
	// PaymentRequests counts payment code generation outcomes.
	PaymentRequests *prometheus.CounterVec
	// ReceiptsPrinted counts print attempts by outcome.
	ReceiptsPrinted *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. Collectors already
// registered under the same name are reused.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		CartOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Count of cart operations by outcome.",
		}, []string{"operation", "result"}),
		ReceiptsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_rendered_total",
			Help:      "Number of receipts rendered.",
		}),
		PaymentRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_requests_total",
			Help:      "Count of payment request codes generated by outcome.",
		}, []string{"result"}),
		ReceiptsPrinted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_printed_total",
			Help:      "Count of receipt print attempts by outcome.",
		}, []string{"result"}),
	}

	mustRegisterCollector(reg, m.CartOperations, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.CartOperations = v
		}
	})
	mustRegisterCollector(reg, m.ReceiptsRendered, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.ReceiptsRendered = v
		}
	})
	mustRegisterCollector(reg, m.PaymentRequests, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.PaymentRequests = v
		}
	})
	mustRegisterCollector(reg, m.ReceiptsPrinted, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.ReceiptsPrinted = v
		}
	})

	return m
}

// Result maps an error to the result label value.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
