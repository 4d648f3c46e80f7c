package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/nathanhack/raptorq/pisolver"
)

func TestObserveBlockDecode(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveBlockDecode(nil)
	m.ObserveBlockDecode(nil)
	m.ObserveBlockDecode(fmt.Errorf("block 3: %w", pisolver.ErrNotEnoughSymbols))
	m.ObserveBlockDecode(errors.New("boom"))

	require.Equal(t, 2.0, testutil.ToFloat64(m.BlockDecodes.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.BlockDecodes.WithLabelValues("not_enough_symbols")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.BlockDecodes.WithLabelValues("error")))
}

func TestObserveSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSolve(3*time.Millisecond, pisolver.Stats{AddOps: 10, MulOps: 4})
	m.ObserveSolve(time.Millisecond, pisolver.Stats{AddOps: 5, MulOps: 1})
	m.AddPacketsEncoded(7)
	m.PacketReceived()

	require.Equal(t, 15.0, testutil.ToFloat64(m.SymbolOps.WithLabelValues("add")))
	require.Equal(t, 5.0, testutil.ToFloat64(m.SymbolOps.WithLabelValues("mul")))
	require.Equal(t, 7.0, testutil.ToFloat64(m.PacketsEncoded))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PacketsReceived))
	require.Equal(t, 1, testutil.CollectAndCount(m.SolveDuration))
	require.Equal(t, 5, testutil.CollectAndCount(reg))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.AddPacketsEncoded(1)
	m.PacketReceived()
	m.ObserveSolve(time.Second, pisolver.Stats{})
	m.ObserveBlockDecode(nil)
}
