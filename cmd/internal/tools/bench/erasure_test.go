package bench

import (
	"context"
	"strconv"
	"testing"

	"github.com/nathanhack/raptorq/benchmarking"
)

func TestRunErasure(t *testing.T) {
	tests := []struct {
		repair      int
		probability float64
		failure     float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 0.5, 1},
		{2, 0.5, 1},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			checkpoints := 0
			checkpoint := func(benchmarking.Stats) { checkpoints++ }

			stats := RunErasure(context.Background(), 10, 16, test.repair, test.probability, 4, 2, benchmarking.Stats{}, checkpoint, false)
			if stats.DecodeFailure.Count != 4 {
				t.Fatalf("expected %v but found %v", 4, stats.DecodeFailure.Count)
			}
			if stats.DecodeFailure.Mean != test.failure {
				t.Fatalf("expected %v but found %v", test.failure, stats.DecodeFailure.Mean)
			}
			if checkpoints != 4 {
				t.Fatalf("expected %v but found %v", 4, checkpoints)
			}
		})
	}
}
