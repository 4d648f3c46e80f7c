package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanhack/raptorq/benchmarking"
	"github.com/nathanhack/raptorq/cmd/internal/tools"
)

func TestSeries(t *testing.T) {
	s := benchmarking.Stats{}
	s.DecodeFailure.Update(1)
	r := &tools.SimulationStats{Stats: map[float64]benchmarking.Stats{0.5: s}}

	actual := series(r, []float64{0.1, 0.5}, "failure")
	assert.Nil(t, actual[0].Value)
	assert.Equal(t, 1.0, actual[1].Value)
}

func TestAxisNames(t *testing.T) {
	for _, value := range tools.Values {
		assert.Contains(t, axisNames, value)
	}
}

func TestRender(t *testing.T) {
	s := benchmarking.Stats{}
	s.DecodeFailure.Update(0)
	r := &tools.SimulationStats{CodeInfo: "K:10", Stats: map[float64]benchmarking.Stats{0.1: s}}

	bar := newBar(axisNames["failure"], []float64{0.1})
	bar.AddSeries("a.json", series(r, []float64{0.1}, "failure"))

	var buf bytes.Buffer
	require.NoError(t, bar.Render(&buf))
	assert.Contains(t, buf.String(), "Packet Loss Probability")
}
