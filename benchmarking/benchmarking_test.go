package benchmarking

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/nathanhack/raptorq"
	"github.com/nathanhack/raptorq/pisolver"
)

const symbolSize = 16

func encodeBlock(block []byte) (int, []raptorq.EncodingPacket) {
	enc, err := raptorq.NewSourceBlockEncoder(context.Background(), 0, block, symbolSize, nil)
	if err != nil {
		panic(err)
	}
	return enc.SourceSymbols(), append(enc.SourcePackets(), enc.RepairPackets(0, 3)...)
}

func decodeBlock(length int) BlockDecoder {
	return func(received []raptorq.EncodingPacket) ([]byte, pisolver.Stats, error) {
		dec, err := raptorq.NewSourceBlockDecoder(0, symbolSize, length, false, nil)
		if err != nil {
			return nil, pisolver.Stats{}, err
		}
		for _, p := range received {
			if err := dec.AddPacket(p); err != nil {
				return nil, pisolver.Stats{}, err
			}
		}
		block, err := dec.Decode(context.Background())
		return block, dec.Stats(), err
	}
}

// the first three source packets are always lost
func dropFirstThree(packets []raptorq.EncodingPacket) []raptorq.EncodingPacket {
	return packets[3:]
}

func ExampleBenchmarkErasureChannel() {
	length := 10 * symbolSize
	createBlock := func(trial int) []byte {
		return RandomBlock(length)
	}

	checkpoint := func(updatedStats Stats) {}

	stats := BenchmarkErasureChannel(context.Background(), 20, 2, createBlock, encodeBlock, dropFirstThree, decodeBlock(length), checkpoint, false)

	fmt.Println("Trials :", stats.DecodeFailure.Count)
	fmt.Println("Block Failure Probability :", stats.DecodeFailure.Mean)
	fmt.Println("Solved :", stats.AddOpsPerSymbol.Count)
	//Output:
	// Trials : 20
	// Block Failure Probability : 0
	// Solved : 20
}

func TestBenchmarkErasureChannelContinueStats(t *testing.T) {
	length := 7*symbolSize - 3
	createBlock := func(trial int) []byte {
		return RandomBlock(length)
	}
	checkpoints := 0
	checkpoint := func(updatedStats Stats) {
		checkpoints++
	}
	// nothing lost, so the solver never runs
	channel := func(packets []raptorq.EncodingPacket) []raptorq.EncodingPacket {
		return packets
	}

	stats := BenchmarkErasureChannel(context.Background(), 5, 1, createBlock, encodeBlock, channel, decodeBlock(length), checkpoint, false)
	stats = BenchmarkErasureChannelContinueStats(context.Background(), 8, 1, createBlock, encodeBlock, channel, decodeBlock(length), checkpoint, stats, false)
	stats = BenchmarkErasureChannelContinueStats(context.Background(), 8, 1, createBlock, encodeBlock, channel, decodeBlock(length), checkpoint, stats, false)

	if stats.DecodeFailure.Count != 8 || len(stats.DecodeSeconds) != 8 {
		t.Fatalf("expected %v trials but found %v and %v times", 8, stats.DecodeFailure.Count, len(stats.DecodeSeconds))
	}
	if checkpoints != 8 {
		t.Fatalf("expected %v checkpoints but found %v", 8, checkpoints)
	}
	if stats.DecodeFailure.Mean != 0 || stats.AddOpsPerSymbol.Count != 0 {
		t.Fatalf("expected no failures and no solves but found %v", stats)
	}
}

func TestBenchmarkCountsFailures(t *testing.T) {
	length := 10 * symbolSize
	createBlock := func(trial int) []byte {
		return RandomBlock(length)
	}
	channel := func(packets []raptorq.EncodingPacket) []raptorq.EncodingPacket {
		return RandomEraseCount(packets, 5)
	}
	stats := BenchmarkErasureChannel(context.Background(), 4, 2, createBlock, encodeBlock, channel, decodeBlock(length), nil, false)
	if stats.DecodeFailure.Mean != 1 {
		t.Fatalf("expected %v but found %v", 1, stats.DecodeFailure.Mean)
	}
}

func TestDecodeQuantile(t *testing.T) {
	tests := []struct {
		seconds  []float64
		p        float64
		expected float64
	}{
		{nil, 0.5, 0},
		{[]float64{3, 1, 2}, 0.5, 2},
		{[]float64{3, 1, 2}, 1, 3},
		{[]float64{4}, 0.9, 4},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			s := Stats{DecodeSeconds: test.seconds}
			actual := s.DecodeQuantile(test.p)
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}
