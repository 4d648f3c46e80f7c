package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nathanhack/raptorq/pisolver"
)

const namespace = "raptorq"

//Metrics holds the collectors updated by the encoder and decoder. A nil *Metrics is valid and records nothing.
type Metrics struct {
	PacketsEncoded  prometheus.Counter
	PacketsReceived prometheus.Counter
	// label result: ok, not_enough_symbols, error
	BlockDecodes  *prometheus.CounterVec
	SolveDuration prometheus.Histogram
	// label op: add, mul
	SymbolOps *prometheus.CounterVec
}

//New creates the collectors and registers them with reg when reg is not nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PacketsEncoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_encoded_total",
			Help:      "Encoding packets produced, source and repair.",
		}),
		PacketsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_received_total",
			Help:      "Encoding packets accepted by decoders.",
		}),
		BlockDecodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_decodes_total",
			Help:      "Source block decode attempts by result.",
		}, []string{"result"}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Time spent computing intermediate symbols for one source block.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		SymbolOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "symbol_ops_total",
			Help:      "Symbol operations recorded by the intermediate symbol solver.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.PacketsEncoded, m.PacketsReceived, m.BlockDecodes, m.SolveDuration, m.SymbolOps)
	}
	return m
}

func (m *Metrics) AddPacketsEncoded(n int) {
	if m == nil {
		return
	}
	m.PacketsEncoded.Add(float64(n))
}

func (m *Metrics) PacketReceived() {
	if m == nil {
		return
	}
	m.PacketsReceived.Inc()
}

//ObserveSolve records one run of the solver.
func (m *Metrics) ObserveSolve(elapsed time.Duration, stats pisolver.Stats) {
	if m == nil {
		return
	}
	m.SolveDuration.Observe(elapsed.Seconds())
	m.SymbolOps.WithLabelValues("add").Add(float64(stats.AddOps))
	m.SymbolOps.WithLabelValues("mul").Add(float64(stats.MulOps))
}

//ObserveBlockDecode counts a block decode attempt that ended with err.
func (m *Metrics) ObserveBlockDecode(err error) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, pisolver.ErrNotEnoughSymbols):
		result = "not_enough_symbols"
	default:
		result = "error"
	}
	m.BlockDecodes.WithLabelValues(result).Inc()
}
