package raptorq

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"

	"github.com/nathanhack/raptorq/metrics"
)

//DefaultThreads is the worker count used when none is given: the physical cores, or every logical CPU when
//those cannot be detected.
func DefaultThreads() int {
	if cpuid.CPU.PhysicalCores > 0 {
		return cpuid.CPU.PhysicalCores
	}
	return runtime.NumCPU()
}

func threadsOrDefault(threads int) int {
	if threads <= 0 {
		return DefaultThreads()
	}
	return threads
}

//blockRange returns the byte range of source block sbn within the object.
func blockRange(oti ObjectTransmissionInformation, sbn int) (start, end int) {
	t := int(oti.SymbolSize)
	for i := 0; i < sbn; i++ {
		start += oti.BlockSymbols(i) * t
	}
	end = start + oti.BlockSymbols(sbn)*t
	if end > int(oti.TransferLength) {
		end = int(oti.TransferLength)
	}
	return
}

//Encoder encodes an object split into source blocks.
type Encoder struct {
	oti     ObjectTransmissionInformation
	data    []byte
	threads int
	metrics *metrics.Metrics

	blocks []*SourceBlockEncoder
}

//NewEncoder creates an encoder for data with the given parameters. threads <= 0 uses DefaultThreads
//and m may be nil.
func NewEncoder(data []byte, oti ObjectTransmissionInformation, threads int, m *metrics.Metrics) (*Encoder, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot encode an empty object")
	}
	if uint64(len(data)) != oti.TransferLength {
		return nil, fmt.Errorf("expected %v bytes of data but found %v", oti.TransferLength, len(data))
	}
	if err := oti.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{
		oti:     oti,
		data:    data,
		threads: threadsOrDefault(threads),
		metrics: m,
		blocks:  make([]*SourceBlockEncoder, oti.NumSourceBlocks),
	}, nil
}

//NewEncoderForPacketSize derives the parameters with GenerateEncodingParameters.
func NewEncoderForPacketSize(data []byte, maxPacketSize uint16, threads int, m *metrics.Metrics) (*Encoder, error) {
	oti, err := GenerateEncodingParameters(uint64(len(data)), maxPacketSize, 0)
	if err != nil {
		return nil, err
	}
	return NewEncoder(data, oti, threads, m)
}

func (e *Encoder) OTI() ObjectTransmissionInformation {
	return e.oti
}

//Blocks computes every source block encoder.
func (e *Encoder) Blocks(ctx context.Context) ([]*SourceBlockEncoder, error) {
	if err := e.forEachBlock(ctx, func(ctx context.Context, block *SourceBlockEncoder) {}); err != nil {
		return nil, err
	}
	return e.blocks, nil
}

func (e *Encoder) forEachBlock(ctx context.Context, f func(ctx context.Context, block *SourceBlockEncoder)) error {
	errs := make([]error, len(e.blocks))
	pool := threadpool.NewFixedSize(ctx, e.threads, len(e.blocks))
	for i := range e.blocks {
		sbn := i
		pool.Add(func() {
			if e.blocks[sbn] == nil {
				start, end := blockRange(e.oti, sbn)
				block, err := NewSourceBlockEncoder(ctx, uint8(sbn), e.data[start:end], int(e.oti.SymbolSize), e.metrics)
				if err != nil {
					errs[sbn] = err
					return
				}
				e.blocks[sbn] = block
			}
			f(ctx, e.blocks[sbn])
		})
	}
	pool.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

//Encode returns the source packets of every block followed by repairPacketsPerBlock repair packets
//each, ordered by block.
func (e *Encoder) Encode(ctx context.Context, repairPacketsPerBlock int) ([]EncodingPacket, error) {
	perBlock := make([][]EncodingPacket, len(e.blocks))
	err := e.forEachBlock(ctx, func(ctx context.Context, block *SourceBlockEncoder) {
		packets := block.SourcePackets()
		packets = append(packets, block.RepairPackets(0, repairPacketsPerBlock)...)
		perBlock[block.SourceBlockNumber()] = packets
	})
	if err != nil {
		return nil, err
	}

	result := make([]EncodingPacket, 0)
	for _, packets := range perBlock {
		result = append(result, packets...)
	}
	logrus.Debugf("raptorq: encoded %v bytes into %v packets %v", len(e.data), len(result), e.oti)
	return result, nil
}

//Decoder reassembles an object from packets of any of its source blocks.
type Decoder struct {
	oti     ObjectTransmissionInformation
	threads int
	blocks  []*SourceBlockDecoder
	mux     sync.Mutex
}

//NewDecoder creates a decoder for the object described by oti. threads <= 0 uses DefaultThreads, debug
//verifies every solver phase and m may be nil.
func NewDecoder(oti ObjectTransmissionInformation, threads int, debug bool, m *metrics.Metrics) (*Decoder, error) {
	if err := oti.Validate(); err != nil {
		return nil, err
	}
	if oti.TransferLength == 0 {
		return nil, fmt.Errorf("cannot decode an empty object")
	}
	blocks := make([]*SourceBlockDecoder, oti.NumSourceBlocks)
	for sbn := range blocks {
		start, end := blockRange(oti, sbn)
		block, err := NewSourceBlockDecoder(uint8(sbn), int(oti.SymbolSize), end-start, debug, m)
		if err != nil {
			return nil, err
		}
		blocks[sbn] = block
	}
	return &Decoder{
		oti:     oti,
		threads: threadsOrDefault(threads),
		blocks:  blocks,
	}, nil
}

func (d *Decoder) OTI() ObjectTransmissionInformation {
	return d.oti
}

//AddPacket routes the packet to its source block. It is safe for concurrent use.
func (d *Decoder) AddPacket(p EncodingPacket) error {
	if int(p.SourceBlockNumber) >= len(d.blocks) {
		return fmt.Errorf("packet %v has an unknown source block, expected fewer than %v", p.PayloadID, len(d.blocks))
	}
	d.mux.Lock()
	defer d.mux.Unlock()
	return d.blocks[p.SourceBlockNumber].AddPacket(p)
}

//Decode solves every block that is not yet decoded and returns the object. When a block cannot be
//recovered the returned error wraps ErrNotEnoughSymbols; add packets and call Decode again.
func (d *Decoder) Decode(ctx context.Context) ([]byte, error) {
	d.mux.Lock()
	defer d.mux.Unlock()

	parts := make([][]byte, len(d.blocks))
	errs := make([]error, len(d.blocks))
	pool := threadpool.NewFixedSize(ctx, d.threads, len(d.blocks))
	for i := range d.blocks {
		sbn := i
		pool.Add(func() {
			parts[sbn], errs[sbn] = d.blocks[sbn].Decode(ctx)
		})
	}
	pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	result := make([]byte, 0, d.oti.TransferLength)
	for _, part := range parts {
		result = append(result, part...)
	}
	logrus.Debugf("raptorq: decoded %v bytes from %v source blocks", len(result), len(d.blocks))
	return result, nil
}
