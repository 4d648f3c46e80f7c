package raptorq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/nathanhack/raptorq/constraint"
	"github.com/nathanhack/raptorq/internal/gf2"
	"github.com/nathanhack/raptorq/matrix"
	"github.com/nathanhack/raptorq/metrics"
	"github.com/nathanhack/raptorq/pisolver"
	"github.com/nathanhack/raptorq/symbol"
	"github.com/nathanhack/raptorq/systematic"
)

//ErrNotEnoughSymbols is returned by the decoders until enough packets have arrived.
var ErrNotEnoughSymbols = pisolver.ErrNotEnoughSymbols

// the encoding constraint matrix only depends on K', so its solution is shared by every block of that size
var (
	encodingOpsMux sync.Mutex
	encodingOps    = map[int][]symbol.Op{}
)

func cachedEncodingOps(kPrime int) []symbol.Op {
	encodingOpsMux.Lock()
	defer encodingOpsMux.Unlock()
	return encodingOps[kPrime]
}

func storeEncodingOps(kPrime int, ops []symbol.Op) {
	encodingOpsMux.Lock()
	defer encodingOpsMux.Unlock()
	encodingOps[kPrime] = ops
}

func splitSymbols(data []byte, symbolSize int) []*symbol.Symbol {
	count := (len(data) + symbolSize - 1) / symbolSize
	result := make([]*symbol.Symbol, count)
	for i := range result {
		value := make([]byte, symbolSize)
		copy(value, data[i*symbolSize:])
		result[i] = symbol.New(value)
	}
	return result
}

func zeroSymbols(n, symbolSize int) []*symbol.Symbol {
	result := make([]*symbol.Symbol, n)
	for i := range result {
		result[i] = symbol.Zero(symbolSize)
	}
	return result
}

func rangeISIs(start, end int) []uint32 {
	result := make([]uint32, 0, end-start)
	for i := start; i < end; i++ {
		result = append(result, uint32(i))
	}
	return result
}

//intermediateSymbols returns the L intermediate symbols of the given source symbols (RFC 6330 section 5.3.3).
func intermediateSymbols(ctx context.Context, source []*symbol.Symbol, symbolSize int, m *metrics.Metrics) ([]*symbol.Symbol, error) {
	p := systematic.NewParameters(len(source))
	d := zeroSymbols(p.S+p.H, symbolSize)
	for _, s := range source {
		d = append(d, s.Clone())
	}
	d = append(d, zeroSymbols(p.KPrime-p.K, symbolSize)...)

	if ops := cachedEncodingOps(p.KPrime); ops != nil {
		symbol.Apply(ops, d)
		return d[:p.L], nil
	}

	start := time.Now()
	a, hdpc := constraint.GenerateConstraintMatrix(p.KPrime, rangeISIs(0, p.KPrime), matrix.FactoryFor(p.KPrime))
	dec := pisolver.NewIntermediateSymbolDecoder(a, hdpc, d, p.KPrime, false)
	result, ops, err := dec.Decode(ctx)
	if err != nil {
		return nil, err
	}
	m.ObserveSolve(time.Since(start), dec.Stats())
	storeEncodingOps(p.KPrime, ops)
	logrus.Debugf("raptorq: solved encoding for K'=%v in %v (%v)", p.KPrime, time.Since(start), dec.Stats())
	return result, nil
}

func encodeSymbol(p systematic.Parameters, intermediate []*symbol.Symbol, isi uint32) *symbol.Symbol {
	result := symbol.Zero(intermediate[0].Len())
	for _, index := range p.EncIndices(isi) {
		result.AddAssign(intermediate[index])
	}
	return result
}

//SourceBlockEncoder produces source and repair packets for one source block.
type SourceBlockEncoder struct {
	sbn          uint8
	params       systematic.Parameters
	source       []*symbol.Symbol
	intermediate []*symbol.Symbol
	metrics      *metrics.Metrics
}

//NewSourceBlockEncoder splits data into symbols of symbolSize bytes, zero padding the last one,
//and computes the intermediate symbols. m may be nil.
func NewSourceBlockEncoder(ctx context.Context, sbn uint8, data []byte, symbolSize int, m *metrics.Metrics) (*SourceBlockEncoder, error) {
	if symbolSize <= 0 {
		return nil, fmt.Errorf("symbol size must be positive, found %v", symbolSize)
	}
	source := splitSymbols(data, symbolSize)
	if len(source) == 0 {
		return nil, fmt.Errorf("source block %v is empty", sbn)
	}
	if len(source) > systematic.MaxSourceSymbolsPerBlock {
		return nil, fmt.Errorf("source block %v has %v symbols, at most %v are supported", sbn, len(source), systematic.MaxSourceSymbolsPerBlock)
	}

	intermediate, err := intermediateSymbols(ctx, source, symbolSize, m)
	if err != nil {
		return nil, fmt.Errorf("source block %v: %w", sbn, err)
	}
	return &SourceBlockEncoder{
		sbn:          sbn,
		params:       systematic.NewParameters(len(source)),
		source:       source,
		intermediate: intermediate,
		metrics:      m,
	}, nil
}

func (e *SourceBlockEncoder) SourceBlockNumber() uint8 {
	return e.sbn
}

//SourceSymbols is K.
func (e *SourceBlockEncoder) SourceSymbols() int {
	return e.params.K
}

//Packet returns the packet with the given encoding symbol id. Ids below K carry source symbols.
func (e *SourceBlockEncoder) Packet(esi uint32) EncodingPacket {
	var data *symbol.Symbol
	if int(esi) < e.params.K {
		data = e.source[esi].Clone()
	} else {
		// padding symbols take ISIs K..K'-1
		data = encodeSymbol(e.params, e.intermediate, esi+uint32(e.params.KPrime-e.params.K))
	}
	return EncodingPacket{
		PayloadID: PayloadID{SourceBlockNumber: e.sbn, EncodingSymbolID: esi},
		Data:      data.Bytes(),
	}
}

func (e *SourceBlockEncoder) SourcePackets() []EncodingPacket {
	result := make([]EncodingPacket, e.params.K)
	for i := range result {
		result[i] = e.Packet(uint32(i))
	}
	e.metrics.AddPacketsEncoded(len(result))
	return result
}

//RepairPackets returns count repair packets starting at repair symbol start, ESI K+start.
func (e *SourceBlockEncoder) RepairPackets(start uint32, count int) []EncodingPacket {
	result := make([]EncodingPacket, count)
	for i := range result {
		result[i] = e.Packet(uint32(e.params.K) + start + uint32(i))
	}
	e.metrics.AddPacketsEncoded(len(result))
	return result
}

//SourceBlockDecoder collects the packets of one source block and recovers its data.
type SourceBlockDecoder struct {
	sbn         uint8
	symbolSize  int
	blockLength int
	params      systematic.Parameters
	debug       bool
	metrics     *metrics.Metrics

	source         []*symbol.Symbol
	sourceReceived int
	// keyed by ISI
	repair  map[uint32]*symbol.Symbol
	decoded []byte
	stats   pisolver.Stats
}

//NewSourceBlockDecoder prepares a decoder for a block of blockLength bytes. With debug set the
//solver verifies every phase. m may be nil.
func NewSourceBlockDecoder(sbn uint8, symbolSize int, blockLength int, debug bool, m *metrics.Metrics) (*SourceBlockDecoder, error) {
	if symbolSize <= 0 {
		return nil, fmt.Errorf("symbol size must be positive, found %v", symbolSize)
	}
	k := (blockLength + symbolSize - 1) / symbolSize
	if k == 0 || k > systematic.MaxSourceSymbolsPerBlock {
		return nil, fmt.Errorf("source block %v of %v bytes has %v symbols, expected 1 to %v", sbn, blockLength, k, systematic.MaxSourceSymbolsPerBlock)
	}
	return &SourceBlockDecoder{
		sbn:         sbn,
		symbolSize:  symbolSize,
		blockLength: blockLength,
		params:      systematic.NewParameters(k),
		debug:       debug,
		metrics:     m,
		source:      make([]*symbol.Symbol, k),
		repair:      make(map[uint32]*symbol.Symbol),
	}, nil
}

func (d *SourceBlockDecoder) SourceBlockNumber() uint8 {
	return d.sbn
}

//Received is the number of distinct symbols collected so far.
func (d *SourceBlockDecoder) Received() int {
	return d.sourceReceived + len(d.repair)
}

//Decoded reports whether Decode has succeeded.
func (d *SourceBlockDecoder) Decoded() bool {
	return d.decoded != nil
}

//Stats returns the solver operation counts of the last successful solve. They are zero when every
//source symbol arrived.
func (d *SourceBlockDecoder) Stats() pisolver.Stats {
	return d.stats
}

//AddPacket stores the packet's symbol. Duplicates are ignored.
func (d *SourceBlockDecoder) AddPacket(p EncodingPacket) error {
	if p.SourceBlockNumber != d.sbn {
		return fmt.Errorf("packet %v does not belong to source block %v", p.PayloadID, d.sbn)
	}
	if len(p.Data) != d.symbolSize {
		return fmt.Errorf("packet %v carries %v bytes, expected %v", p.PayloadID, len(p.Data), d.symbolSize)
	}
	if d.decoded != nil {
		return nil
	}

	esi := p.EncodingSymbolID
	if int(esi) < d.params.K {
		if d.source[esi] != nil {
			return nil
		}
		d.source[esi] = symbol.New(bytes.Clone(p.Data))
		d.sourceReceived++
	} else {
		isi := esi + uint32(d.params.KPrime-d.params.K)
		if _, ok := d.repair[isi]; ok {
			return nil
		}
		d.repair[isi] = symbol.New(bytes.Clone(p.Data))
	}
	d.metrics.PacketReceived()
	return nil
}

//Decode returns the block's data. It fails with ErrNotEnoughSymbols while the received symbols do not
//determine the block; more packets can then be added and Decode called again.
func (d *SourceBlockDecoder) Decode(ctx context.Context) ([]byte, error) {
	if d.decoded != nil {
		return d.decoded, nil
	}
	if d.sourceReceived < d.params.K {
		if err := d.recoverSource(ctx); err != nil {
			d.metrics.ObserveBlockDecode(err)
			return nil, err
		}
	}
	d.metrics.ObserveBlockDecode(nil)

	result := make([]byte, 0, d.params.K*d.symbolSize)
	for _, s := range d.source {
		result = append(result, s.Bytes()...)
	}
	d.decoded = result[:d.blockLength]
	d.repair = nil
	return d.decoded, nil
}

func (d *SourceBlockDecoder) recoverSource(ctx context.Context) error {
	p := d.params
	if d.Received() < p.K {
		return fmt.Errorf("source block %v: %v of %v symbols received: %w", d.sbn, d.Received(), p.K, ErrNotEnoughSymbols)
	}

	isis := rangeISIs(p.K, p.KPrime)
	values := zeroSymbols(p.KPrime-p.K, d.symbolSize)
	for esi, s := range d.source {
		if s != nil {
			isis = append(isis, uint32(esi))
			values = append(values, s)
		}
	}
	repairISIs := maps.Keys(d.repair)
	slices.Sort(repairISIs)
	for _, isi := range repairISIs {
		isis = append(isis, isi)
		values = append(values, d.repair[isi])
	}

	symbols := zeroSymbols(p.S+p.H, d.symbolSize)
	for _, v := range values {
		symbols = append(symbols, v.Clone())
	}

	start := time.Now()
	a, hdpc := constraint.GenerateConstraintMatrix(p.KPrime, isis, matrix.FactoryFor(p.KPrime))
	dec := pisolver.NewIntermediateSymbolDecoder(a, hdpc, symbols, p.KPrime, d.debug)
	intermediate, _, err := dec.Decode(ctx)
	if err != nil {
		if errors.Is(err, ErrNotEnoughSymbols) {
			if logrus.IsLevelEnabled(logrus.DebugLevel) {
				a, _ = constraint.GenerateConstraintMatrix(p.KPrime, isis, matrix.SparseFactory)
				logrus.Debugf("raptorq: source block %v binary constraint rows have GF(2) rank %v of %v columns",
					d.sbn, gf2.BinaryRank(ctx, a, p.S, p.H, 1), p.L)
			}
			return fmt.Errorf("source block %v: %v symbols received: %w", d.sbn, d.Received(), err)
		}
		return err
	}
	d.stats = dec.Stats()
	d.metrics.ObserveSolve(time.Since(start), d.stats)

	for esi := range d.source {
		if d.source[esi] == nil {
			d.source[esi] = encodeSymbol(p, intermediate, uint32(esi))
		}
	}
	d.sourceReceived = p.K
	logrus.Debugf("raptorq: recovered source block %v from %v symbols in %v", d.sbn, len(isis), time.Since(start))
	return nil
}
