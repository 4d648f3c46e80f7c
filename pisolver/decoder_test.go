package pisolver

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nathanhack/raptorq/constraint"
	"github.com/nathanhack/raptorq/matrix"
	"github.com/nathanhack/raptorq/octet"
	"github.com/nathanhack/raptorq/symbol"
	"github.com/nathanhack/raptorq/systematic"
)

const symbolSize = 16

func randomSymbols(r *rand.Rand, n int) []*symbol.Symbol {
	result := make([]*symbol.Symbol, n)
	for i := range result {
		value := make([]byte, symbolSize)
		r.Read(value)
		result[i] = symbol.New(value)
	}
	return result
}

func encodeSymbol(p systematic.Parameters, intermediate []*symbol.Symbol, isi uint32) *symbol.Symbol {
	result := symbol.Zero(symbolSize)
	for _, index := range p.EncIndices(isi) {
		result.AddAssign(intermediate[index])
	}
	return result
}

//inputSymbols is D: S+H zero symbols followed by copies of values.
func inputSymbols(p systematic.Parameters, values []*symbol.Symbol) []*symbol.Symbol {
	result := make([]*symbol.Symbol, 0, p.S+p.H+len(values))
	for i := 0; i < p.S+p.H; i++ {
		result = append(result, symbol.Zero(symbolSize))
	}
	for _, v := range values {
		result = append(result, v.Clone())
	}
	return result
}

type solution struct {
	intermediate []*symbol.Symbol
	ops          []symbol.Op
	stats        Stats
}

func solve(k int, isis []uint32, values []*symbol.Symbol, factory matrix.Factory, debug bool) (solution, error) {
	p := systematic.NewParameters(k)
	a, hdpc := constraint.GenerateConstraintMatrix(p.KPrime, isis, factory)
	dec := NewIntermediateSymbolDecoder(a, hdpc, inputSymbols(p, values), p.KPrime, debug)
	intermediate, ops, err := dec.Decode(context.Background())
	return solution{intermediate: intermediate, ops: ops, stats: dec.Stats()}, err
}

//checkConstraints verifies A*C = D row by row, including the HDPC rows over GF(256).
func checkConstraints(t *testing.T, k int, isis []uint32, values, intermediate []*symbol.Symbol) {
	t.Helper()
	p := systematic.NewParameters(k)
	require.Len(t, intermediate, p.L)
	a, hdpc := constraint.GenerateConstraintMatrix(p.KPrime, isis, matrix.DenseFactory)

	for row := 0; row < p.S; row++ {
		sum := symbol.Zero(symbolSize)
		for col := 0; col < p.L; col++ {
			if a.Get(row, col) {
				sum.AddAssign(intermediate[col])
			}
		}
		require.True(t, sum.Equal(symbol.Zero(symbolSize)), "LDPC row %v", row)
	}
	for row := 0; row < p.H; row++ {
		sum := symbol.Zero(symbolSize)
		for col := 0; col < p.L; col++ {
			if beta := hdpc.Get(row, col); beta != octet.Zero {
				sum.FusedAddAssignMulScalar(intermediate[col], beta)
			}
		}
		require.True(t, sum.Equal(symbol.Zero(symbolSize)), "HDPC row %v", row)
	}
	for n, isi := range isis {
		require.True(t, encodeSymbol(p, intermediate, isi).Equal(values[n]), "isi %v", isi)
	}
}

func sourceISIs(kPrime int) []uint32 {
	isis := make([]uint32, kPrime)
	for i := range isis {
		isis[i] = uint32(i)
	}
	return isis
}

func TestDecodeSourceSymbols(t *testing.T) {
	tests := []struct {
		k       int
		factory matrix.Factory
		debug   bool
	}{
		{10, matrix.DenseFactory, true},
		{10, matrix.DenseFactory, false},
		{10, matrix.SparseFactory, true},
		{10, matrix.SparseFactory, false},
		{101, matrix.DenseFactory, true},
		{101, matrix.DenseFactory, false},
		{101, matrix.SparseFactory, true},
		{101, matrix.SparseFactory, false},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			r := rand.New(rand.NewSource(int64(test.k)))
			isis := sourceISIs(test.k)
			values := randomSymbols(r, test.k)

			actual, err := solve(test.k, isis, values, test.factory, test.debug)
			require.NoError(t, err)
			checkConstraints(t, test.k, isis, values, actual.intermediate)
		})
	}
}

func TestDecodeRepresentationsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	k := 101
	isis := sourceISIs(k)
	values := randomSymbols(r, k)

	expected, err := solve(k, isis, values, matrix.DenseFactory, false)
	require.NoError(t, err)
	for _, factory := range []matrix.Factory{matrix.DenseFactory, matrix.SparseFactory} {
		for _, debug := range []bool{false, true} {
			actual, err := solve(k, isis, values, factory, debug)
			require.NoError(t, err)
			for i := range expected.intermediate {
				if !expected.intermediate[i].Equal(actual.intermediate[i]) {
					t.Fatalf("debug=%v: expected %v but found %v at %v", debug, expected.intermediate[i], actual.intermediate[i], i)
				}
			}
		}
	}
}

func TestDecodeWithRepairSymbols(t *testing.T) {
	tests := []struct {
		k, lost, overhead int
	}{
		{10, 3, 2},
		{101, 20, 2},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			r := rand.New(rand.NewSource(int64(i)))
			p := systematic.NewParameters(test.k)
			source := randomSymbols(r, test.k)
			expected, err := solve(test.k, sourceISIs(test.k), source, matrix.DenseFactory, false)
			require.NoError(t, err)

			isis := make([]uint32, 0)
			values := make([]*symbol.Symbol, 0)
			for isi := test.lost; isi < p.KPrime+test.lost+test.overhead; isi++ {
				isis = append(isis, uint32(isi))
				values = append(values, encodeSymbol(p, expected.intermediate, uint32(isi)))
			}

			for _, debug := range []bool{false, true} {
				actual, err := solve(test.k, isis, values, matrix.FactoryFor(test.k), debug)
				require.NoError(t, err)
				for n := 0; n < test.k; n++ {
					recovered := encodeSymbol(p, actual.intermediate, uint32(n))
					if !recovered.Equal(source[n]) {
						t.Fatalf("source symbol %v: expected %v but found %v", n, source[n], recovered)
					}
				}
			}
		})
	}
}

func TestOpsReplay(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	k := 101
	p := systematic.NewParameters(k)
	isis := sourceISIs(k)
	values := randomSymbols(r, k)

	actual, err := solve(k, isis, values, matrix.SparseFactory, false)
	require.NoError(t, err)
	require.Equal(t, symbol.ReorderOp, actual.ops[len(actual.ops)-1].Kind)

	replayed := inputSymbols(p, values)
	symbol.Apply(actual.ops, replayed)
	for i := 0; i < p.L; i++ {
		if !replayed[i].Equal(actual.intermediate[i]) {
			t.Fatalf("symbol %v: expected %v but found %v", i, actual.intermediate[i], replayed[i])
		}
	}
}

func TestOperationsPerSymbol(t *testing.T) {
	tests := []struct {
		k               int
		maxMulPerSymbol float64
		maxAddPerSymbol float64
	}{
		{10, 35, 50},
		{100, 16, 35},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			p := systematic.NewParameters(test.k)
			values := make([]*symbol.Symbol, p.KPrime)
			for n := range values {
				values[n] = symbol.Zero(symbolSize)
			}
			actual, err := solve(test.k, sourceISIs(p.KPrime), values, matrix.DenseFactory, false)
			require.NoError(t, err)

			mul := float64(actual.stats.MulOps) / float64(p.KPrime)
			add := float64(actual.stats.AddOps) / float64(p.KPrime)
			if mul > test.maxMulPerSymbol {
				t.Fatalf("expected at most %v mul ops per symbol but found %v", test.maxMulPerSymbol, mul)
			}
			if add > test.maxAddPerSymbol {
				t.Fatalf("expected at most %v add ops per symbol but found %v", test.maxAddPerSymbol, add)
			}

			addSum, mulSum := 0, 0
			for phase := 0; phase < NumPhases; phase++ {
				addSum += actual.stats.AddOpsByPhase[phase]
				mulSum += actual.stats.MulOpsByPhase[phase]
			}
			require.Equal(t, actual.stats.AddOps, addSum)
			require.Equal(t, actual.stats.MulOps, mulSum)
		})
	}
}

func TestNotEnoughSymbols(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	k := 10
	p := systematic.NewParameters(k)
	isis := []uint32{0, 0, 1, 2, 3, 4, 5, 6, 7, 8}
	source := randomSymbols(r, k)
	values := make([]*symbol.Symbol, len(isis))
	for n, isi := range isis {
		values[n] = source[isi]
	}

	for _, debug := range []bool{false, true} {
		_, err := solve(p.KPrime, isis, values, matrix.DenseFactory, debug)
		if !errors.Is(err, ErrNotEnoughSymbols) {
			t.Fatalf("expected %v but found %v", ErrNotEnoughSymbols, err)
		}
	}
}

func TestDecodeCanceled(t *testing.T) {
	k := 10
	p := systematic.NewParameters(k)
	isis := sourceISIs(k)
	a, hdpc := constraint.GenerateConstraintMatrix(k, isis, matrix.DenseFactory)
	dec := NewIntermediateSymbolDecoder(a, hdpc, inputSymbols(p, randomSymbols(rand.New(rand.NewSource(1)), k)), k, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := dec.Decode(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewDecoderRejectsShortSymbols(t *testing.T) {
	k := 10
	p := systematic.NewParameters(k)
	a, hdpc := constraint.GenerateConstraintMatrix(k, sourceISIs(k), matrix.DenseFactory)
	require.Panics(t, func() {
		NewIntermediateSymbolDecoder(a, hdpc, make([]*symbol.Symbol, p.L-1), k, false)
	})
}
