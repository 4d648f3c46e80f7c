package pisolver

import (
	"context"
	"fmt"

	"github.com/nathanhack/raptorq/octet"
)

//    ----------> i                 u <--------
//  | +-----------+-----------------+---------+
//  | |           |                 |         |
//  | |     I     |    All Zeros    |         |
//  v |           |                 |         |
//  i +-----------+-----------------+    U    |
//    |           |                 |         |
//    |           |                 |         |
//    | All Zeros |       V         |         |
//    |           |                 |         |
//    |           |                 |         |
//    +-----------+-----------------+---------+
// Submatrices of A in the first phase (RFC 6330 section 5.4.2.2, figure 6)

//firstPhase grows I one row at a time, moving the columns that cannot be eliminated into U.
//It returns the operations that turn X into the identity.
func (dec *IntermediateSymbolDecoder) firstPhase(ctx context.Context) ([]rowOp, error) {
	a := dec.a
	hdpc := dec.hdpcRows
	numHDPCRows := hdpc.Height()
	endRow := a.Height() - numHDPCRows

	stats := newRowSelectionStats(a, a.Width()-dec.u, endRow)
	ops := make([]rowOp, 0, 4*dec.l)

	for dec.i+dec.u < dec.l {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// r is the fewest ones any row has in V. HDPC rows are never chosen (Errata 2).
		chosenRow, r, ok := stats.firstPhaseSelection(dec.i, endRow, a)
		if !ok {
			return nil, ErrNotEnoughSymbols
		}
		if chosenRow < dec.i {
			panic(fmt.Sprintf("pisolver: selected row %v is above %v", chosenRow, dec.i))
		}

		temp := dec.i
		dec.swapRows(temp, chosenRow)
		if dec.debug {
			dec.x.SwapRows(temp, chosenRow)
		}
		ops = append(ops, rowOp{kind: swapRowOp, src: temp, dest: chosenRow})
		stats.swapRows(temp, chosenRow)
		dec.swapColumnSubstep(r, stats)

		if !a.Get(temp, temp) {
			panic(fmt.Sprintf("pisolver: pivot %v is zero after the column swaps", temp))
		}

		onesInColumn := a.OnesInColumn(temp, dec.i+1, endRow)
		stats.resize(dec.i+1, endRow, dec.i+1, a.Width()-dec.u-(r-1), onesInColumn, a)
		for n := 0; n < r-1; n++ {
			a.HintColumnDenseAndFrozen(a.Width() - dec.u - 1 - n)
		}

		// columns before U are zero in the pivot row except temp (Errata 11)
		startCol := a.Width() - (dec.u + r - 1)
		if dec.debug {
			startCol = 0
		}
		for _, row := range onesInColumn {
			dec.fmaRows(temp, row, octet.One, startCol)
			ops = append(ops, rowOp{kind: addAssignRowOp, src: temp, dest: row})
			// when r is 1 the only changed column of V was removed by the resize
			if r != 1 {
				stats.recomputeRow(row, a)
			}
		}

		piOctets := a.SubRowAsOctets(temp, a.Width()-(dec.u+r-1))
		firstHDPCRow := a.Height() - numHDPCRows
		for row := 0; row < numHDPCRows; row++ {
			// the pivot is one, so its leading value is beta
			if leading := hdpc.Get(row, temp); leading != octet.Zero {
				dec.fmaRowsWithPi(temp, firstHDPCRow+row, leading, temp, piOctets, 0)
			}
		}

		dec.i++
		dec.u += r - 1

		if dec.debug {
			dec.firstPhaseVerify()
		}
	}

	dec.recordSymbolOps(0)
	return pruneRowOps(ops, dec.i, a.Height()), nil
}

//swapColumnSubstep moves a one of row i to column i and the r-1 other ones to the right end of V.
func (dec *IntermediateSymbolDecoder) swapColumnSubstep(r int, stats *rowSelectionStats) {
	a := dec.a
	end := a.Width() - dec.u

	swap := func(dest, col int) {
		// the first i rows are zero in V
		dec.swapColumns(dest, col, dec.i)
		stats.swapColumns(dest, col)
		if dec.debug {
			dec.x.SwapColumns(dest, col, 0)
		}
	}

	it := a.RowIterator(dec.i, dec.i, end)
	if r == 1 {
		for col, value, ok := it.Next(); ok; col, value, ok = it.Next() {
			if value {
				swap(dec.i, col)
				return
			}
		}
		panic(fmt.Sprintf("pisolver: row %v has no ones in V", dec.i))
	}

	ones := make([]int, 0, r)
	for col, value, ok := it.Next(); ok; col, value, ok = it.Next() {
		if value {
			ones = append(ones, col)
		}
	}

	remaining := r
	foundFirst := a.Get(dec.i, dec.i)
	for _, col := range ones {
		if col >= end-(r-1) {
			// already one of the trailing columns
			remaining--
			continue
		}
		if col == dec.i {
			remaining--
			continue
		}
		dest := dec.i
		if foundFirst {
			dest = end - 1
			for a.Get(dec.i, dest) {
				dest--
			}
		}
		foundFirst = true
		swap(dest, col)
		remaining--
		if remaining == 0 {
			break
		}
	}
	if remaining != 0 {
		panic(fmt.Sprintf("pisolver: %v of %v ones were not placed", remaining, r))
	}
}

//secondPhase solves U_lower together with the HDPC rows. It reports false when they are singular.
func (dec *IntermediateSymbolDecoder) secondPhase(xEliminationOps []rowOp) bool {
	if dec.debug {
		dec.secondPhaseVerify(xEliminationOps)
		dec.x.Resize(dec.i, dec.i)
	}

	// HDPC rows can't have been selected for U_upper
	hdpc := dec.hdpcRows
	dec.hdpcRows = nil
	sub := dec.recordReduceToRowEchelon(hdpc, dec.i, dec.i, dec.u)
	if sub == nil {
		return false
	}
	dec.backwardsElimination(sub, dec.i, dec.i, dec.u)
	dec.a.Resize(dec.l, dec.l)
	dec.recordSymbolOps(1)
	return true
}

//thirdPhase computes A[0:i] = X * A[0:i] by replaying the elimination of X backwards (Errata 10).
func (dec *IntermediateSymbolDecoder) thirdPhase(xEliminationOps []rowOp) {
	if dec.debug {
		dec.thirdPhaseVerify()
	}

	startCol := dec.i
	if dec.debug {
		startCol = 0
	}
	for n := len(xEliminationOps) - 1; n >= 0; n-- {
		op := xEliminationOps[n]
		dec.fmaRows(op.src, op.dest, octet.One, startCol)
	}
	dec.recordSymbolOps(2)

	if dec.debug {
		dec.thirdPhaseVerifyEnd()
	}
}

//fourthPhase clears U_upper using the identity below it.
func (dec *IntermediateSymbolDecoder) fourthPhase() {
	startCol := dec.i
	if dec.debug {
		startCol = 0
	}
	for row := 0; row < dec.i; row++ {
		for _, j := range dec.a.NonZeroColumns(row, dec.i) {
			dec.fmaRows(j, row, octet.One, startCol)
		}
	}
	dec.recordSymbolOps(3)

	if dec.debug {
		dec.fourthPhaseVerify()
	}
}

//fifthPhase turns the remaining X into the identity.
func (dec *IntermediateSymbolDecoder) fifthPhase(xEliminationOps []rowOp) {
	for _, op := range xEliminationOps {
		if dec.debug {
			dec.fmaRows(op.src, op.dest, octet.One, 0)
		} else {
			// A is never read again
			dec.recordFMARows(op.src, op.dest, octet.One)
		}
	}
	dec.recordSymbolOps(4)

	if dec.debug {
		dec.fifthPhaseVerify()
	}
}
