package compare

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSymbols(t *testing.T) {
	data := make([]byte, 10*16)
	rand.New(rand.NewSource(7)).Read(data)

	result, err := Compare(context.Background(), data, 16, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, result.SourceSymbols)
	assert.Equal(t, 14, result.Symbols)
	// source symbols are the data itself in both encoders
	assert.Equal(t, 10, result.SourceMatching)
	assert.Equal(t, 4, result.RepairMatching)
	assert.True(t, result.OursFromTheirs)
	assert.True(t, result.TheirsFromOurs)
}

func TestCompareErrors(t *testing.T) {
	_, err := Compare(context.Background(), nil, 16, 4)
	assert.Error(t, err)
	_, err = Compare(context.Background(), []byte{1}, 0, 4)
	assert.Error(t, err)
	_, err = Compare(context.Background(), []byte{1}, 16, -1)
	assert.Error(t, err)
}
