package bench

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nathanhack/raptorq"
	"github.com/nathanhack/raptorq/benchmarking"
	"github.com/nathanhack/raptorq/cmd/internal/tools"
	"github.com/nathanhack/raptorq/systematic"
)

var (
	SourceSymbols    uint
	SymbolSize       uint
	Repair           uint
	Trials           uint
	ErrorProbability []float64
	Threads          uint
)

const typeInfo = "RaptorQ:erasure"

func codeInfo() string {
	return fmt.Sprintf("K:%v T:%v repair:%v", SourceSymbols, SymbolSize, Repair)
}

var BenchRun = func(cmd *cobra.Command, args []string) {
	if SourceSymbols == 0 || SourceSymbols > systematic.MaxSourceSymbolsPerBlock {
		fmt.Printf("symbols must be in [1, %v]\n", systematic.MaxSourceSymbolsPerBlock)
		return
	}
	if SymbolSize == 0 {
		fmt.Println("symbol size must be positive")
		return
	}
	for _, p := range ErrorProbability {
		if p < 0 || p >= 1 {
			fmt.Printf("probability of erasure must be in [0, 1) but found %v\n", p)
			return
		}
	}

	//if the RESULTS_JSON exists we continue it, after checking it came from the same setup
	data, err := tools.LoadResults(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	if data == nil {
		data = &tools.SimulationStats{
			TypeInfo: typeInfo,
			CodeInfo: codeInfo(),
			CPU:      tools.CPUInfo(),
			Stats:    make(map[float64]benchmarking.Stats),
		}
	}

	if data.TypeInfo != typeInfo {
		fmt.Printf("results loaded do not match the type expected %v but found %v\n", typeInfo, data.TypeInfo)
		return
	}
	if data.CodeInfo != codeInfo() {
		fmt.Printf("results loaded do not match the code expected %v but found %v\n", codeInfo(), data.CodeInfo)
		return
	}
	if data.CPU != tools.CPUInfo() {
		logrus.Warnf("results were started on %v", data.CPU)
	}

	ctx := tools.SignalContext()

	runSimulation(ctx, data, args[0])

	err = tools.SaveResults(args[0], data)
	if err != nil {
		fmt.Println(err)
	}
}

func runSimulation(ctx context.Context, data *tools.SimulationStats, outputFilename string) {
	checkpointMux := sync.Mutex{}
	checkpointCount := 0

	threads := int(Threads)
	if threads == 0 {
		threads = raptorq.DefaultThreads()
	}

	probabilities := append([]float64(nil), ErrorProbability...)
	sort.Float64s(probabilities)

	trialsPerIter := threads * 10
	bar := pb.StartNew(int(Trials) * len(probabilities))
	for _, p := range probabilities {
		bar.Add(data.Stats[p].DecodeFailure.Count)
	}
trialLoops:
	for t := trialsPerIter; ; t += trialsPerIter {
		select {
		case <-ctx.Done():
			break trialLoops
		default:
		}

		for _, p := range probabilities {
			checkpoint := func(stats benchmarking.Stats) {
				checkpointMux.Lock()
				defer checkpointMux.Unlock()

				data.Stats[p] = stats

				if checkpointCount%trialsPerIter == 0 {
					err := tools.SaveResults(outputFilename, data)
					if err != nil {
						fmt.Println(err)
					}
				}
				checkpointCount++
			}
			before := data.Stats[p].DecodeFailure.Count
			data.Stats[p] = RunErasure(ctx, int(SourceSymbols), int(SymbolSize), int(Repair), p, min(t, int(Trials)), threads, data.Stats[p], checkpoint, false)
			bar.Add(data.Stats[p].DecodeFailure.Count - before)
			logrus.Debugf("p=%v %v", p, data.Stats[p])
		}

		if t >= int(Trials) {
			break
		}
	}
	bar.Finish()
}
