// Package metrics exposes a small in-process Prometheus registry. By
// design nothing here opens a network listener: a run's metrics are
// dumped in text exposition format to a file (or discarded) once the
// driver reaches clean EOF, keeping the matching core's no-networking
// stance intact while still giving the pack's prometheus/client_golang
// stack a home.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry holds the counters and gauges one engine run reports.
type Registry struct {
	reg *prometheus.Registry

	InputsProcessed prometheus.Counter
	MalformedInputs prometheus.Counter
	BadOrderIDs     prometheus.Counter
	TradesExecuted  prometheus.Counter
	TradedSize      prometheus.Counter
	BuyDepth        prometheus.Gauge
	SellDepth       prometheus.Gauge
}

// New returns a Registry with all metrics registered under the
// matchengine namespace.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		InputsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "inputs_processed_total",
			Help:      "Inputs successfully dispatched to the engine.",
		}),
		MalformedInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "malformed_inputs_total",
			Help:      "Input lines rejected by the codec before reaching the engine.",
		}),
		BadOrderIDs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "bad_order_id_total",
			Help:      "Duplicate-insert or unknown-cancel faults raised by the book.",
		}),
		TradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "trades_executed_total",
			Help:      "Trade records emitted across all inputs.",
		}),
		TradedSize: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "traded_size_total",
			Help:      "Sum of executed trade sizes.",
		}),
		BuyDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "matchengine",
			Name:      "buy_depth",
			Help:      "Number of resting buy orders after the most recent input.",
		}),
		SellDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "matchengine",
			Name:      "sell_depth",
			Help:      "Number of resting sell orders after the most recent input.",
		}),
	}

	reg.MustRegister(
		r.InputsProcessed,
		r.MalformedInputs,
		r.BadOrderIDs,
		r.TradesExecuted,
		r.TradedSize,
		r.BuyDepth,
		r.SellDepth,
	)
	return r
}

// WriteTo dumps the registry's current state in Prometheus text exposition
// format.
func (r *Registry) WriteTo(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gathering: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encoding: %w", err)
		}
	}
	return nil
}
