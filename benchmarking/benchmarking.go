package benchmarking

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/threadpool"
	"gonum.org/v1/gonum/stat"

	"github.com/nathanhack/raptorq"
	"github.com/nathanhack/raptorq/pisolver"
)

type Stats struct {
	DecodeFailure   avgstd.AvgStd // 1 for each trial whose block was not recovered
	AddOpsPerSymbol avgstd.AvgStd // only trials that ran the solver
	MulOpsPerSymbol avgstd.AvgStd
	DecodeSeconds   []float64
}

func (s Stats) String() string {
	return fmt.Sprintf("{Failure:%0.04f(+/-%0.04f), Add:%0.02f(+/-%0.02f), Mul:%0.02f(+/-%0.02f), Median:%v}",
		s.DecodeFailure.Mean, math.Sqrt(s.DecodeFailure.SampledVariance()),
		s.AddOpsPerSymbol.Mean, math.Sqrt(s.AddOpsPerSymbol.SampledVariance()),
		s.MulOpsPerSymbol.Mean, math.Sqrt(s.MulOpsPerSymbol.SampledVariance()),
		time.Duration(s.DecodeQuantile(0.5)*float64(time.Second)),
	)
}

//DecodeQuantile returns the p quantile of the decode times in seconds, or 0 without trials.
func (s Stats) DecodeQuantile(p float64) float64 {
	if len(s.DecodeSeconds) == 0 {
		return 0
	}
	sorted := append([]float64(nil), s.DecodeSeconds...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

type Checkpoints func(updatedStats Stats)

type BlockConstructor func(trial int) (block []byte)

type BlockEncoder func(block []byte) (sourceSymbols int, packets []raptorq.EncodingPacket)
type ErasureChannel func(packets []raptorq.EncodingPacket) (received []raptorq.EncodingPacket)
type BlockDecoder func(received []raptorq.EncodingPacket) (block []byte, solve pisolver.Stats, err error)

func BenchmarkErasureChannel(ctx context.Context,
	trials, threads int,
	createBlock BlockConstructor,
	encode BlockEncoder,
	channel ErasureChannel,
	decode BlockDecoder,
	checkpoints Checkpoints,
	showProgress bool) Stats {
	return BenchmarkErasureChannelContinueStats(ctx, trials, threads, createBlock, encode, channel, decode, checkpoints, Stats{}, showProgress)
}

func BenchmarkErasureChannelContinueStats(ctx context.Context,
	trials, threads int,
	createBlock BlockConstructor,
	encode BlockEncoder,
	channel ErasureChannel,
	decode BlockDecoder,
	checkpoints Checkpoints,
	previousStats Stats,
	showProgress bool) Stats {
	trialsToRun := trials - previousStats.DecodeFailure.Count
	if trialsToRun <= 0 {
		return previousStats
	}

	var bar *pb.ProgressBar
	if showProgress {
		bar = pb.StartNew(trialsToRun)
	}

	pool := threadpool.NewFixedSize(ctx, threads, trialsToRun)
	statsMux := sync.Mutex{}

	trial := func(i int) {
		if showProgress {
			bar.Increment()
		}
		block := createBlock(i)

		sourceSymbols, packets := encode(block)

		received := channel(packets)

		start := time.Now()
		decoded, solve, err := decode(received)
		elapsed := time.Since(start)

		failed := 0.0
		if err != nil || !bytes.Equal(block, decoded) {
			failed = 1
		}
		symbols := float64(sourceSymbols)

		statsMux.Lock()
		previousStats.DecodeFailure.Update(failed)
		if solve.AddOps > 0 {
			previousStats.AddOpsPerSymbol.Update(float64(solve.AddOps) / symbols)
			previousStats.MulOpsPerSymbol.Update(float64(solve.MulOps) / symbols)
		}
		previousStats.DecodeSeconds = append(previousStats.DecodeSeconds, elapsed.Seconds())
		if checkpoints != nil {
			checkpoints(previousStats) //give them the updated checkpoint
		}
		statsMux.Unlock()
	}

	for i := previousStats.DecodeFailure.Count; i < trials; i++ {
		tmp := i
		pool.Add(func() { trial(tmp) })
	}
	pool.Wait()
	if showProgress {
		bar.Finish()
	}
	return previousStats
}
