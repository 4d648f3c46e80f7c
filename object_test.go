package raptorq

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/nathanhack/raptorq/metrics"
)

func testOTI(t *testing.T) ObjectTransmissionInformation {
	oti, err := GenerateEncodingParameters(300, testSymbolSize, 10*testSymbolSize)
	require.NoError(t, err)
	require.Equal(t, uint8(2), oti.NumSourceBlocks)
	return oti
}

func TestObjectRoundTrip(t *testing.T) {
	oti := testOTI(t)
	data := randomData(10, int(oti.TransferLength))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	enc, err := NewEncoder(data, oti, 2, m)
	require.NoError(t, err)
	packets, err := enc.Encode(context.Background(), 3)
	require.NoError(t, err)
	// 10+3 and 9+3
	require.Len(t, packets, 25)
	require.Equal(t, 25.0, testutil.ToFloat64(m.PacketsEncoded))

	lost := map[PayloadID]bool{
		{0, 1}: true, {0, 4}: true, {0, 7}: true,
		{1, 2}: true,
	}
	dec, err := NewDecoder(oti, 2, false, m)
	require.NoError(t, err)
	for i := len(packets) - 1; i >= 0; i-- {
		if !lost[packets[i].PayloadID] {
			require.NoError(t, dec.AddPacket(packets[i]))
		}
	}
	actual, err := dec.Decode(context.Background())
	require.NoError(t, err)
	require.Equal(t, data, actual)
	require.Equal(t, 2.0, testutil.ToFloat64(m.BlockDecodes.WithLabelValues("ok")))
}

func TestObjectDecodeNeedsMorePackets(t *testing.T) {
	oti := testOTI(t)
	data := randomData(11, int(oti.TransferLength))
	enc, err := NewEncoder(data, oti, 0, nil)
	require.NoError(t, err)
	blocks, err := enc.Blocks(context.Background())
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	dec, err := NewDecoder(oti, 0, false, nil)
	require.NoError(t, err)
	for _, p := range blocks[0].SourcePackets() {
		require.NoError(t, dec.AddPacket(p))
	}
	for _, p := range blocks[1].SourcePackets()[1:] {
		require.NoError(t, dec.AddPacket(p))
	}
	_, err = dec.Decode(context.Background())
	if !errors.Is(err, ErrNotEnoughSymbols) {
		t.Fatalf("expected %v but found %v", ErrNotEnoughSymbols, err)
	}

	require.NoError(t, dec.AddPacket(blocks[1].RepairPackets(0, 1)[0]))
	actual, err := dec.Decode(context.Background())
	require.NoError(t, err)
	require.Equal(t, data, actual)
}

func TestObjectDecoderRejectsUnknownBlock(t *testing.T) {
	dec, err := NewDecoder(testOTI(t), 1, false, nil)
	require.NoError(t, err)
	err = dec.AddPacket(EncodingPacket{PayloadID: PayloadID{2, 0}, Data: make([]byte, testSymbolSize)})
	require.Error(t, err)
}

func TestNewEncoderRejects(t *testing.T) {
	oti := testOTI(t)
	_, err := NewEncoder(nil, oti, 1, nil)
	require.Error(t, err)
	_, err = NewEncoder(make([]byte, 299), oti, 1, nil)
	require.Error(t, err)
}

func TestDefaultThreads(t *testing.T) {
	require.Greater(t, DefaultThreads(), 0)
	require.Equal(t, 3, threadsOrDefault(3))
	require.Equal(t, DefaultThreads(), threadsOrDefault(0))
}
