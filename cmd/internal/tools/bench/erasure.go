package bench

import (
	"context"

	"github.com/nathanhack/raptorq"
	"github.com/nathanhack/raptorq/benchmarking"
	"github.com/nathanhack/raptorq/pisolver"
)

// RunErasure benchmarks a single source block of sourceSymbols symbols sent with repair extra
// packets over a channel that loses the given fraction of packets.
func RunErasure(ctx context.Context,
	sourceSymbols, symbolSize, repair int,
	probability float64, trials, threads int,
	previousStats benchmarking.Stats,
	checkpoints benchmarking.Checkpoints,
	showProgressBar bool) benchmarking.Stats {
	length := sourceSymbols * symbolSize

	createBlock := func(trial int) []byte {
		return benchmarking.RandomBlock(length)
	}

	encode := func(block []byte) (int, []raptorq.EncodingPacket) {
		enc, err := raptorq.NewSourceBlockEncoder(ctx, 0, block, symbolSize, nil)
		if err != nil {
			return sourceSymbols, nil
		}
		return enc.SourceSymbols(), append(enc.SourcePackets(), enc.RepairPackets(0, repair)...)
	}

	channel := func(packets []raptorq.EncodingPacket) []raptorq.EncodingPacket {
		return benchmarking.RandomErase(packets, probability)
	}

	decode := func(received []raptorq.EncodingPacket) ([]byte, pisolver.Stats, error) {
		dec, err := raptorq.NewSourceBlockDecoder(0, symbolSize, length, false, nil)
		if err != nil {
			return nil, pisolver.Stats{}, err
		}
		for _, p := range received {
			if err := dec.AddPacket(p); err != nil {
				return nil, pisolver.Stats{}, err
			}
		}
		block, err := dec.Decode(ctx)
		return block, dec.Stats(), err
	}

	return benchmarking.BenchmarkErasureChannelContinueStats(ctx, trials, threads, createBlock, encode, channel, decode, checkpoints, previousStats, showProgressBar)
}
