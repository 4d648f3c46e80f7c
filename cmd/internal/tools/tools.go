package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/exp/slices"

	"github.com/nathanhack/raptorq/benchmarking"
)

// SimulationStats holds benchmark results keyed by the probability of packet loss.
type SimulationStats struct {
	TypeInfo string
	CodeInfo string
	CPU      string
	Stats    map[float64]benchmarking.Stats
}
type simulationStats struct {
	TypeInfo string
	CodeInfo string
	CPU      string
	Stats    map[string]benchmarking.Stats
}

func (s *SimulationStats) MarshalJSON() ([]byte, error) {
	ss := simulationStats{
		TypeInfo: s.TypeInfo,
		CodeInfo: s.CodeInfo,
		CPU:      s.CPU,
		Stats:    map[string]benchmarking.Stats{},
	}

	for f, stat := range s.Stats {
		ss.Stats[fmt.Sprintf("%v", f)] = stat
	}

	return json.Marshal(ss)
}

func (s *SimulationStats) UnmarshalJSON(bytes []byte) error {
	var ss simulationStats

	err := json.Unmarshal(bytes, &ss)
	if err != nil {
		return err
	}

	s.TypeInfo = ss.TypeInfo
	s.CodeInfo = ss.CodeInfo
	s.CPU = ss.CPU
	s.Stats = map[float64]benchmarking.Stats{}

	for fs, stat := range ss.Stats {
		f, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return err
		}
		s.Stats[f] = stat
	}
	return nil
}

// CPUInfo describes the machine the results were taken on.
func CPUInfo() string {
	return fmt.Sprintf("%v (cores:%v avx2:%v)", cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.Supports(cpuid.AVX2))
}

// SignalContext returns a context canceled on SIGINT or SIGTERM.
func SignalContext() context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigs
		fmt.Println()
		fmt.Println(sig)
		cancel()
	}()
	return ctx
}

//LoadResults returns nil, nil when the file does not exist yet.
func LoadResults(filepath string) (*SimulationStats, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, nil
	}

	bs, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var stat SimulationStats
	err = json.Unmarshal(bs, &stat)
	if err != nil {
		return nil, fmt.Errorf("error while unmarshalling file %v: %w", filepath, err)
	}
	return &stat, nil
}

func SaveResults(filepath string, data *SimulationStats) error {
	bs, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error serializing results: %w", err)
	}

	err = os.WriteFile(filepath, bs, 0644)
	if err != nil {
		return fmt.Errorf("error while saving results to %v: %w", filepath, err)
	}
	return nil
}

// Values lists the names accepted by StatValue.
var Values = []string{"failure", "add", "mul", "median"}

//StatValue picks the named value out of the stats: the block failure
//probability, the mean add or mul ops per source symbol or the median decode seconds.
func StatValue(s benchmarking.Stats, value string) (float64, error) {
	switch value {
	case "failure":
		return s.DecodeFailure.Mean, nil
	case "add":
		return s.AddOpsPerSymbol.Mean, nil
	case "mul":
		return s.MulOpsPerSymbol.Mean, nil
	case "median":
		return s.DecodeQuantile(0.5), nil
	}
	return 0, fmt.Errorf("unknown value %v, expected one of %v", value, Values)
}

//LoadAllResults loads every results file and returns them with the sorted union of their loss probabilities.
func LoadAllResults(filepaths []string) ([]*SimulationStats, []float64, error) {
	results := make([]*SimulationStats, len(filepaths))
	seen := make(map[float64]bool)
	probabilities := make([]float64, 0)
	for i, filepath := range filepaths {
		r, err := LoadResults(filepath)
		if err != nil {
			return nil, nil, err
		}
		if r == nil {
			return nil, nil, fmt.Errorf("results file %v does not exist", filepath)
		}
		for p := range r.Stats {
			if !seen[p] {
				seen[p] = true
				probabilities = append(probabilities, p)
			}
		}
		results[i] = r
	}
	slices.Sort(probabilities)
	return results, probabilities, nil
}
