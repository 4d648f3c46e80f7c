package benchmarking

import (
	"strconv"
	"testing"

	"github.com/nathanhack/raptorq"
)

func packets(n int) []raptorq.EncodingPacket {
	result := make([]raptorq.EncodingPacket, n)
	for i := range result {
		result[i] = raptorq.EncodingPacket{PayloadID: raptorq.PayloadID{EncodingSymbolID: uint32(i)}}
	}
	return result
}

func TestRandomEraseCount(t *testing.T) {
	tests := []struct {
		packets, erase, expected int
	}{
		{13, 3, 10},
		{13, 0, 13},
		{5, 9, 0},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := RandomEraseCount(packets(test.packets), test.erase)
			if len(actual) != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, len(actual))
			}
			for j := 1; j < len(actual); j++ {
				if actual[j-1].EncodingSymbolID >= actual[j].EncodingSymbolID {
					t.Fatalf("expected the packet order to be kept but found %v", actual)
				}
			}
		})
	}
}

func TestErasedCount(t *testing.T) {
	received := packets(13)[2:]
	if actual := ErasedCount(received, 10); actual != 2 {
		t.Fatalf("expected %v but found %v", 2, actual)
	}
	if actual := ErasedCount(RandomErase(packets(10), 0.5), 10); actual != 5 {
		t.Fatalf("expected %v but found %v", 5, actual)
	}
}
