package tools

import (
	"path/filepath"
	"testing"

	"github.com/nathanhack/avgstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanhack/raptorq/benchmarking"
)

func TestResultsRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "results.json")

	missing, err := LoadResults(filename)
	require.NoError(t, err)
	assert.Nil(t, missing)

	failure := avgstd.AvgStd{}
	failure.Update(0)
	failure.Update(1)
	expected := &SimulationStats{
		TypeInfo: "RaptorQ:bench",
		CodeInfo: "K:10 T:16 repair:3",
		CPU:      CPUInfo(),
		Stats: map[float64]benchmarking.Stats{
			0.1:  {DecodeFailure: failure, DecodeSeconds: []float64{0.5, 0.25}},
			0.25: {},
		},
	}
	require.NoError(t, SaveResults(filename, expected))

	actual, err := LoadResults(filename)
	require.NoError(t, err)
	assert.Equal(t, expected.TypeInfo, actual.TypeInfo)
	assert.Equal(t, expected.CodeInfo, actual.CodeInfo)
	assert.Equal(t, expected.CPU, actual.CPU)
	require.Len(t, actual.Stats, 2)
	assert.Equal(t, 2, actual.Stats[0.1].DecodeFailure.Count)
	assert.Equal(t, 0.5, actual.Stats[0.1].DecodeFailure.Mean)
	assert.Equal(t, []float64{0.5, 0.25}, actual.Stats[0.1].DecodeSeconds)
}

func TestStatValue(t *testing.T) {
	s := benchmarking.Stats{DecodeSeconds: []float64{3, 1, 2}}
	s.DecodeFailure.Update(1)
	s.DecodeFailure.Update(0)
	s.AddOpsPerSymbol.Update(12)
	s.MulOpsPerSymbol.Update(4)

	expected := map[string]float64{"failure": 0.5, "add": 12, "mul": 4, "median": 2}
	for _, value := range Values {
		actual, err := StatValue(s, value)
		require.NoError(t, err)
		assert.Equal(t, expected[value], actual, value)
	}

	_, err := StatValue(s, "codeword")
	assert.Error(t, err)
}

func TestLoadAllResults(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, SaveResults(a, &SimulationStats{Stats: map[float64]benchmarking.Stats{0.5: {}, 0.1: {}}}))
	require.NoError(t, SaveResults(b, &SimulationStats{Stats: map[float64]benchmarking.Stats{0.2: {}, 0.5: {}}}))

	results, probabilities, err := LoadAllResults([]string{a, b})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, []float64{0.1, 0.2, 0.5}, probabilities)

	_, _, err = LoadAllResults([]string{a, filepath.Join(dir, "missing.json")})
	assert.Error(t, err)
}
