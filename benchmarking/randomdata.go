package benchmarking

import (
	"math"
	"math/rand"

	"github.com/nathanhack/raptorq"
)

// RandomBlock creates a block of length random bytes.
func RandomBlock(length int) []byte {
	block := make([]byte, length)
	rand.Read(block)
	return block
}

// RandomErase drops round(probabilityOfErasure*len(packets)) packets at random.
func RandomErase(packets []raptorq.EncodingPacket, probabilityOfErasure float64) []raptorq.EncodingPacket {
	return RandomEraseCount(packets, int(math.Round(probabilityOfErasure*float64(len(packets)))))
}

// RandomEraseCount returns the packets without min(numberToErase,len(packets)) randomly picked ones, keeping their order.
func RandomEraseCount(packets []raptorq.EncodingPacket, numberToErase int) []raptorq.EncodingPacket {
	//randomly pick indices to erase
	erase := make(map[int]bool)
	for len(erase) < numberToErase && len(erase) < len(packets) {
		erase[rand.Intn(len(packets))] = true
	}

	output := make([]raptorq.EncodingPacket, 0, len(packets)-len(erase))
	for i, p := range packets {
		if !erase[i] {
			output = append(output, p)
		}
	}
	return output
}

// ErasedCount returns the number of source symbols (ESI < sourceSymbols) missing from received.
func ErasedCount(received []raptorq.EncodingPacket, sourceSymbols int) int {
	seen := make(map[uint32]bool)
	for _, p := range received {
		if int(p.EncodingSymbolID) < sourceSymbols {
			seen[p.EncodingSymbolID] = true
		}
	}
	return sourceSymbols - len(seen)
}
