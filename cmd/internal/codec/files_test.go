package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nathanhack/raptorq"
)

func TestPacketsRoundTrip(t *testing.T) {
	packets := []raptorq.EncodingPacket{
		{PayloadID: raptorq.PayloadID{SourceBlockNumber: 0, EncodingSymbolID: 0}, Data: []byte{1, 2, 3, 4}},
		{PayloadID: raptorq.PayloadID{SourceBlockNumber: 1, EncodingSymbolID: 70000}, Data: []byte{5, 6, 7, 8}},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePackets(&buf, packets))
	require.Equal(t, 2*(4+4+4), buf.Len())

	actual, err := ReadPackets(&buf)
	require.NoError(t, err)
	require.Equal(t, packets, actual)
}

func TestReadPacketsTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePackets(&buf, []raptorq.EncodingPacket{{Data: []byte{1, 2}}}))
	truncated := buf.Bytes()[:buf.Len()-1]
	_, err := ReadPackets(bytes.NewReader(truncated))
	require.Error(t, err)
}

func TestOTIRoundTrip(t *testing.T) {
	oti, err := raptorq.GenerateEncodingParameters(300, 16, 160)
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, SaveOTI(dir, oti))
	actual, err := LoadOTI(dir)
	require.NoError(t, err)
	require.Equal(t, oti, actual)

	_, err = LoadOTI(t.TempDir())
	require.Error(t, err)
}
