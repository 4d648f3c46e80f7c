package compare

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	xraptorq "github.com/xssnick/raptorq"

	"github.com/nathanhack/raptorq"
	"github.com/nathanhack/raptorq/systematic"
)

var (
	SymbolSize uint
	Repair     uint
)

type Result struct {
	SourceSymbols  int
	Symbols        int
	SourceMatching int
	RepairMatching int
	// OursFromTheirs is true when our decoder recovered the block from xssnick's packets.
	OursFromTheirs bool
	// TheirsFromOurs is true when xssnick recovered the block from our packets.
	TheirsFromOurs bool
}

func (r Result) String() string {
	return fmt.Sprintf("{K:%v symbols:%v source matching:%v repair matching:%v ours<-theirs:%v theirs<-ours:%v}",
		r.SourceSymbols, r.Symbols, r.SourceMatching, r.RepairMatching, r.OursFromTheirs, r.TheirsFromOurs)
}

//Compare encodes data as a single source block with this module and with xssnick/raptorq then
//checks the symbols against each other and lets each decoder try the other's packets. The
//first min(repair,K) source packets are dropped for the cross decode so repair symbols are needed.
func Compare(ctx context.Context, data []byte, symbolSize, repair int) (Result, error) {
	if symbolSize <= 0 || repair < 0 {
		return Result{}, fmt.Errorf("symbol size must be positive and repair non negative")
	}
	k := (len(data) + symbolSize - 1) / symbolSize
	if k == 0 || k > systematic.MaxSourceSymbolsPerBlock {
		return Result{}, fmt.Errorf("data must fill 1 to %v symbols of %v bytes", systematic.MaxSourceSymbolsPerBlock, symbolSize)
	}

	ours, err := raptorq.NewSourceBlockEncoder(ctx, 0, data, symbolSize, nil)
	if err != nil {
		return Result{}, err
	}
	rq := xraptorq.NewRaptorQ(uint32(symbolSize))
	theirs, err := rq.CreateEncoder(data)
	if err != nil {
		return Result{}, err
	}
	if int(theirs.BaseSymbolsNum()) != k {
		logrus.Warnf("xssnick uses %v source symbols, expected %v", theirs.BaseSymbolsNum(), k)
	}

	result := Result{SourceSymbols: k, Symbols: k + repair}
	ourPackets := append(ours.SourcePackets(), ours.RepairPackets(0, repair)...)
	theirPackets := make([]raptorq.EncodingPacket, len(ourPackets))
	for i, p := range ourPackets {
		theirPackets[i] = raptorq.EncodingPacket{
			PayloadID: p.PayloadID,
			Data:      theirs.GenSymbol(p.EncodingSymbolID),
		}
		if !bytes.Equal(p.Data, theirPackets[i].Data) {
			logrus.Debugf("symbol %v differs", p.EncodingSymbolID)
			continue
		}
		if i < k {
			result.SourceMatching++
		} else {
			result.RepairMatching++
		}
	}

	drop := min(repair, k)
	result.OursFromTheirs = decodeOurs(ctx, data, symbolSize, theirPackets[drop:])
	result.TheirsFromOurs = decodeTheirs(rq, data, ourPackets[drop:])
	return result, nil
}

func decodeOurs(ctx context.Context, data []byte, symbolSize int, packets []raptorq.EncodingPacket) bool {
	dec, err := raptorq.NewSourceBlockDecoder(0, symbolSize, len(data), false, nil)
	if err != nil {
		return false
	}
	for _, p := range packets {
		if err := dec.AddPacket(p); err != nil {
			logrus.Debugf("our decoder rejected %v: %v", p.PayloadID, err)
		}
	}
	block, err := dec.Decode(ctx)
	if err != nil {
		logrus.Debugf("our decoder failed: %v", err)
		return false
	}
	return bytes.Equal(block, data)
}

func decodeTheirs(rq *xraptorq.RaptorQ, data []byte, packets []raptorq.EncodingPacket) bool {
	dec, err := rq.CreateDecoder(uint32(len(data)))
	if err != nil {
		return false
	}
	for _, p := range packets {
		if _, err := dec.AddSymbol(p.EncodingSymbolID, p.Data); err != nil {
			logrus.Debugf("xssnick rejected %v: %v", p.PayloadID, err)
		}
	}
	ok, block, err := dec.Decode()
	if err != nil || !ok {
		logrus.Debugf("xssnick failed: %v", err)
		return false
	}
	return bytes.Equal(block, data)
}

var CompareRun = func(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("unable to read file: ", err)
		return
	}

	result, err := Compare(context.Background(), data, int(SymbolSize), int(Repair))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result)
}
