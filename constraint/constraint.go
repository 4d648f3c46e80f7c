package constraint

import (
	"fmt"

	"github.com/nathanhack/raptorq/matrix"
	"github.com/nathanhack/raptorq/octet"
	"github.com/nathanhack/raptorq/systematic"
)

//GenerateHDPCRows builds the H x (K'+S+H) HDPC block [G_HDPC | I_H] of RFC 6330 section 5.3.3.3.
//G_HDPC = MT*GAMMA is built right to left: each column is alpha times the column after it plus
//the two ones MT contributes to that column.
func GenerateHDPCRows(kPrime, s, h int) *matrix.DenseOctetMatrix {
	result := matrix.NewDenseOctetMatrix(h, kPrime+s+h)

	// the last column of MT is alpha^i, GAMMA has a 1 in its lower right
	for i := 0; i < h; i++ {
		result.Set(i, kPrime+s-1, octet.Alpha(i))
	}

	alpha := octet.Alpha(1)
	for j := kPrime + s - 2; j >= 0; j-- {
		for i := 0; i < h; i++ {
			result.Set(i, j, alpha.Mul(result.Get(i, j+1)))
		}
		rand6 := int(systematic.Rand(uint32(j+1), 6, uint32(h)))
		rand7 := int(systematic.Rand(uint32(j+1), 7, uint32(h-1)))
		i1 := rand6
		i2 := (rand6 + rand7 + 1) % h
		result.Set(i1, j, result.Get(i1, j).Add(octet.One))
		result.Set(i2, j, result.Get(i2, j).Add(octet.One))
	}

	for i := 0; i < h; i++ {
		result.Set(i, kPrime+s+i, octet.One)
	}
	return result
}

//GenerateConstraintMatrix builds the binary constraint matrix A for the given internal symbol ids
//(RFC 6330 section 5.3.3.4.2) using factory. Rows [S,S+H) are left zero: the HDPC rows are
//returned separately as octets.
func GenerateConstraintMatrix(sourceBlockSymbols int, isis []uint32, factory matrix.Factory) (matrix.BinaryMatrix, *matrix.DenseOctetMatrix) {
	p := systematic.NewParameters(sourceBlockSymbols)
	if p.S+p.H+len(isis) < p.L {
		panic(fmt.Sprintf("constraint: %v symbols cannot determine %v intermediate symbols", len(isis), p.L-p.S-p.H))
	}
	a := factory(p.S+p.H+len(isis), p.L, p.P)

	// G_LDPC,1
	for i := 0; i < p.B; i++ {
		step := 1 + i/p.S
		b := i % p.S
		a.Set(b, i, true)
		b = (b + step) % p.S
		a.Set(b, i, true)
		b = (b + step) % p.S
		a.Set(b, i, true)
	}

	// I_S
	for i := 0; i < p.S; i++ {
		a.Set(i, p.B+i, true)
	}

	// G_LDPC,2
	for i := 0; i < p.S; i++ {
		a.Set(i, i%p.P+p.W, true)
		a.Set(i, (i+1)%p.P+p.W, true)
	}

	// G_ENC
	for row, isi := range isis {
		for _, col := range p.EncIndices(isi) {
			a.Set(row+p.S+p.H, col, true)
		}
	}

	return a, GenerateHDPCRows(p.KPrime, p.S, p.H)
}
