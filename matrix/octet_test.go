package matrix

import (
	"testing"

	"github.com/nathanhack/raptorq/octet"
)

func TestDenseOctetMatrixRowOps(t *testing.T) {
	m := NewDenseOctetMatrix(3, 4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			m.Set(i, j, octet.Octet(i*4+j+1))
		}
	}

	m.FMARows(0, 2, 3)
	for j := 0; j < 4; j++ {
		expected := octet.Octet(j + 1).FMA(octet.Octet(8+j+1), 3)
		if m.Get(0, j) != expected {
			t.Fatalf("column %v: expected %v but found %v", j, expected, m.Get(0, j))
		}
	}

	m.SwapRows(1, 2)
	if m.Get(1, 0) != 9 || m.Get(2, 0) != 5 {
		t.Fatalf("expected rows 1 and 2 to be swapped")
	}

	m.SwapColumns(0, 3, 1)
	if m.Get(0, 3) != 4^octet.Octet(12).Mul(3) {
		t.Fatalf("expected row 0 to be skipped by the swap")
	}
	if m.Get(1, 0) != 12 || m.Get(1, 3) != 9 {
		t.Fatalf("expected columns 0 and 3 of row 1 to be swapped")
	}

	m.MulAssignRow(2, 2)
	if m.Get(2, 1) != octet.Octet(6).Mul(2) {
		t.Fatalf("expected %v but found %v", octet.Octet(6).Mul(2), m.Get(2, 1))
	}
}

func TestDenseOctetMatrixFMASubRow(t *testing.T) {
	m := NewDenseOctetMatrix(1, 5)
	// binary vector [1 0 1] over columns 2..4
	v := octet.NewBinaryOctetVec([]uint64{octet.SelectMask(61) | octet.SelectMask(63)}, 3)
	m.FMASubRow(0, 2, 7, v)
	expected := []byte{0, 0, 7, 0, 7}
	for j, e := range expected {
		if byte(m.Get(0, j)) != e {
			t.Fatalf("column %v: expected %v but found %v", j, e, m.Get(0, j))
		}
	}
}
