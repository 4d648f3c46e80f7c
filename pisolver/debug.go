package pisolver

import (
	"fmt"

	"github.com/nathanhack/raptorq/matrix"
	"github.com/nathanhack/raptorq/octet"
)

// The checks in this file only run in debug mode. They read A element by element.

func denseCopy(m matrix.BinaryMatrix, height, width int) *matrix.DenseBinaryMatrix {
	result := matrix.NewDenseBinaryMatrix(height, width)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if m.Get(row, col) {
				result.Set(row, col, true)
			}
		}
	}
	return result
}

//aValue reads A, taking attached HDPC rows from their octet form.
func (dec *IntermediateSymbolDecoder) aValue(row, col int) octet.Octet {
	if hdpc := dec.hdpcRows; hdpc != nil {
		if first := dec.a.Height() - hdpc.Height(); row >= first {
			return hdpc.Get(row-first, col)
		}
	}
	return octetOf(dec.a.Get(row, col))
}

func (dec *IntermediateSymbolDecoder) allZeros(startRow, endRow, startCol, endCol int) bool {
	for row := startRow; row < endRow; row++ {
		for col := startCol; col < endCol; col++ {
			if dec.aValue(row, col) != octet.Zero {
				return false
			}
		}
	}
	return true
}

func mustBeIdentity(name string, m matrix.BinaryMatrix, startRow, endRow, startCol, endCol int) {
	for row := startRow; row < endRow; row++ {
		for col := startCol; col < endCol; col++ {
			if m.Get(row, col) != (row-startRow == col-startCol) {
				panic(fmt.Sprintf("pisolver: %v is not the identity at (%v,%v)", name, row, col))
			}
		}
	}
}

//firstPhaseVerify checks the identity and the two zero blocks of figure 6.
func (dec *IntermediateSymbolDecoder) firstPhaseVerify() {
	mustBeIdentity("I", dec.a, 0, dec.i, 0, dec.i)
	if !dec.allZeros(0, dec.i, dec.i, dec.a.Width()-dec.u) {
		panic(fmt.Sprintf("pisolver: block right of I is not zero at i=%v", dec.i))
	}
	if !dec.allZeros(dec.i, dec.a.Height(), 0, dec.i) {
		panic(fmt.Sprintf("pisolver: block below I is not zero at i=%v", dec.i))
	}
}

//secondPhaseVerify checks that X is lower triangular and that the pruned operations reduce it
//to the identity (Errata 9).
func (dec *IntermediateSymbolDecoder) secondPhaseVerify(xEliminationOps []rowOp) {
	for row := 0; row < dec.i; row++ {
		for col := row + 1; col < dec.i; col++ {
			if dec.x.Get(row, col) {
				panic(fmt.Sprintf("pisolver: X is not lower triangular at (%v,%v)", row, col))
			}
		}
	}

	x := denseCopy(dec.x, dec.x.Height(), dec.x.Width())
	for _, op := range xEliminationOps {
		x.AddAssignRows(op.dest, op.src, 0)
	}
	mustBeIdentity("reduced X", x, 0, dec.i, 0, dec.i)
}

func (dec *IntermediateSymbolDecoder) thirdPhaseVerify() {
	a := dec.a
	for row := 0; row < a.Height(); row++ {
		for col := 0; col < a.Width(); col++ {
			if row < dec.i && col >= a.Width()-dec.u {
				// U_upper is arbitrary
				continue
			}
			if a.Get(row, col) != (row == col) {
				panic(fmt.Sprintf("pisolver: A is not the identity outside U_upper at (%v,%v)", row, col))
			}
		}
	}
}

func (dec *IntermediateSymbolDecoder) thirdPhaseVerifyEnd() {
	for row := 0; row < dec.i; row++ {
		for col := 0; col < dec.i; col++ {
			if dec.x.Get(row, col) != dec.a.Get(row, col) {
				panic(fmt.Sprintf("pisolver: A does not hold X at (%v,%v)", row, col))
			}
		}
	}
}

//    ---------> i u <------
//  | +-----------+--------+
//  | |\          |        |
//  | |  \ Zeros  | Zeros  |
//  v |     \     |        |
//  i |  X     \  |        |
//  u +---------- +--------+
//  ^ |           |        |
//  | | All Zeros |   I    |
//  | |           |        |
//    +-----------+--------+
func (dec *IntermediateSymbolDecoder) fourthPhaseVerify() {
	a := dec.a
	dec.thirdPhaseVerifyEnd()
	if !dec.allZeros(0, dec.i, a.Width()-dec.u, a.Width()) {
		panic("pisolver: U_upper is not zero")
	}
	if !dec.allZeros(a.Height()-dec.u, a.Height(), 0, dec.i) {
		panic("pisolver: block left of U_lower is not zero")
	}
	mustBeIdentity("U_lower", a, a.Height()-dec.u, a.Height(), a.Width()-dec.u, a.Width())
}

func (dec *IntermediateSymbolDecoder) fifthPhaseVerify() {
	if dec.a.Height() != dec.l || dec.a.Width() != dec.l {
		panic(fmt.Sprintf("pisolver: expected %vx%v but found %vx%v", dec.l, dec.l, dec.a.Height(), dec.a.Width()))
	}
	mustBeIdentity("A", dec.a, 0, dec.l, 0, dec.l)
}
