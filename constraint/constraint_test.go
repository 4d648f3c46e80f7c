package constraint

import (
	"math/rand"
	"testing"

	"github.com/nathanhack/raptorq/matrix"
	"github.com/nathanhack/raptorq/octet"
	"github.com/nathanhack/raptorq/systematic"
)

// referenceHDPCRows computes [MT*GAMMA | I_H] directly from RFC 6330 section 5.3.3.3.
func referenceHDPCRows(kPrime, s, h int) *matrix.DenseOctetMatrix {
	width := kPrime + s
	mt := matrix.NewDenseOctetMatrix(h, width)
	for i := 0; i < h; i++ {
		for j := 0; j < width-1; j++ {
			rand6 := int(systematic.Rand(uint32(j+1), 6, uint32(h)))
			rand7 := int(systematic.Rand(uint32(j+1), 7, uint32(h-1)))
			if i == rand6 || i == (rand6+rand7+1)%h {
				mt.Set(i, j, octet.One)
			}
		}
		mt.Set(i, width-1, octet.Alpha(i))
	}

	gamma := matrix.NewDenseOctetMatrix(width, width)
	for i := 0; i < width; i++ {
		for j := 0; j <= i; j++ {
			gamma.Set(i, j, octet.Alpha((i-j)%255))
		}
	}

	result := matrix.NewDenseOctetMatrix(h, width+h)
	for i := 0; i < h; i++ {
		for j := 0; j < width; j++ {
			sum := octet.Zero
			for k := 0; k < width; k++ {
				sum = sum.FMA(mt.Get(i, k), gamma.Get(k, j))
			}
			result.Set(i, j, sum)
		}
		result.Set(i, width+i, octet.One)
	}
	return result
}

func TestHDPCMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	sizes := []int{1, 10, 101}
	// the reference is cubic in K'+S, so random sizes stay small
	for n := 0; n < 3; n++ {
		sizes = append(sizes, 1+r.Intn(1032))
	}
	for _, k := range sizes {
		p := systematic.NewParameters(k)
		fast := GenerateHDPCRows(p.KPrime, p.S, p.H)
		reference := referenceHDPCRows(p.KPrime, p.S, p.H)
		if !fast.Equal(reference) {
			t.Fatalf("K'=%v: recursive HDPC rows differ from MT*GAMMA", p.KPrime)
		}
	}
}

func TestConstraintMatrixShape(t *testing.T) {
	k := 26
	p := systematic.NewParameters(k)
	isis := make([]uint32, p.KPrime)
	for i := range isis {
		isis[i] = uint32(i)
	}

	dense, hdpc := GenerateConstraintMatrix(k, isis, matrix.DenseFactory)
	sparse, _ := GenerateConstraintMatrix(k, isis, matrix.SparseFactory)
	if dense.Height() != p.S+p.H+p.KPrime || dense.Width() != p.L {
		t.Fatalf("expected %vx%v but found %vx%v", p.S+p.H+p.KPrime, p.L, dense.Height(), dense.Width())
	}
	if hdpc.Height() != p.H || hdpc.Width() != p.L {
		t.Fatalf("expected %vx%v but found %vx%v", p.H, p.L, hdpc.Height(), hdpc.Width())
	}
	if !matrix.Equal(dense, sparse) {
		t.Fatalf("expected dense and sparse constraint matrices to match")
	}

	// LDPC rows: three ones per G_LDPC,1 column, I_S, and two PI ones per row
	for col := 0; col < p.B; col++ {
		ones := 0
		for row := 0; row < p.S; row++ {
			if dense.Get(row, col) {
				ones++
			}
		}
		if ones != 3 {
			t.Fatalf("column %v: expected %v ones but found %v", col, 3, ones)
		}
	}
	for row := 0; row < p.S; row++ {
		if !dense.Get(row, p.B+row) {
			t.Fatalf("expected I_S at row %v", row)
		}
		if dense.CountOnes(row, p.W, p.L) != 2 {
			t.Fatalf("row %v: expected %v PI ones but found %v", row, 2, dense.CountOnes(row, p.W, p.L))
		}
	}
	// HDPC rows of A stay zero
	for row := p.S; row < p.S+p.H; row++ {
		if dense.CountOnes(row, 0, p.L) != 0 {
			t.Fatalf("expected HDPC row %v to be zero", row)
		}
	}
	// ENC rows match EncIndices
	for n, isi := range isis {
		row := p.S + p.H + n
		for _, col := range p.EncIndices(isi) {
			if !dense.Get(row, col) {
				t.Fatalf("isi %v: expected a one in column %v", isi, col)
			}
		}
		if dense.CountOnes(row, 0, p.L) != len(p.EncIndices(isi)) {
			t.Fatalf("isi %v: unexpected extra ones", isi)
		}
	}
}

func TestConstraintMatrixTooFewSymbols(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	GenerateConstraintMatrix(10, []uint32{0, 1, 2}, matrix.DenseFactory)
}
