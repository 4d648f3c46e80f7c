package pisolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathanhack/raptorq/matrix"
	"github.com/nathanhack/raptorq/octet"
	"github.com/nathanhack/raptorq/symbol"
	"github.com/nathanhack/raptorq/systematic"
)

//ErrNotEnoughSymbols is returned when the received symbols do not determine every intermediate symbol.
var ErrNotEnoughSymbols = errors.New("pisolver: not enough linearly independent symbols")

//IntermediateSymbolDecoder solves A*C = D for the intermediate symbols C using the
//inactivation decoding of RFC 6330 section 5.4.2. A, D and the HDPC rows are consumed.
type IntermediateSymbolDecoder struct {
	a matrix.BinaryMatrix
	// nil from the second phase on
	hdpcRows *matrix.DenseOctetMatrix
	symbols  []*symbol.Symbol
	// c[col] is the intermediate symbol held by column col
	c []int
	// d[row] is the symbol held by row
	d []int
	i int
	u int
	l int

	deferredOps []symbol.Op
	stats       Stats

	debug bool
	// copy of the non PI columns of A, only kept in debug mode
	x       *matrix.DenseBinaryMatrix
	decoded bool
}

//NewIntermediateSymbolDecoder prepares a decoder for the constraint matrix a of a block of
//sourceBlockSymbols symbols (see constraint.GenerateConstraintMatrix). symbols holds one
//symbol per row of a. With debug set every phase also keeps A exact and verifies it.
func NewIntermediateSymbolDecoder(a matrix.BinaryMatrix, hdpcRows *matrix.DenseOctetMatrix, symbols []*symbol.Symbol, sourceBlockSymbols int, debug bool) *IntermediateSymbolDecoder {
	if a.Width() > len(symbols) {
		panic(fmt.Sprintf("pisolver: %v symbols cannot solve %v columns", len(symbols), a.Width()))
	}
	if a.Height() != len(symbols) {
		panic(fmt.Sprintf("pisolver: expected %v symbols but found %v", a.Height(), len(symbols)))
	}
	p := systematic.NewParameters(sourceBlockSymbols)
	if a.Width() != p.L {
		panic(fmt.Sprintf("pisolver: expected %v columns but found %v", p.L, a.Width()))
	}
	if hdpcRows.Height() != p.H || hdpcRows.Width() != p.L {
		panic(fmt.Sprintf("pisolver: expected %vx%v HDPC rows but found %vx%v", p.H, p.L, hdpcRows.Height(), hdpcRows.Width()))
	}

	a.EnableColumnAccessAcceleration()
	dec := &IntermediateSymbolDecoder{
		a:           a,
		symbols:     symbols,
		c:           identity(a.Width()),
		d:           identity(len(symbols)),
		u:           p.P,
		l:           p.L,
		deferredOps: make([]symbol.Op, 0, 70*p.L),
		debug:       debug,
	}

	// HDPC rows go last (RFC 6330 section 5.3.3.4.2, figure 5)
	for i := 0; i < p.H; i++ {
		dec.swapRows(p.S+i, a.Height()-p.H+i)
	}
	if debug {
		// PI columns are never read from X
		dec.x = denseCopy(a, a.Height(), a.Width()-p.P)
	}
	dec.hdpcRows = hdpcRows
	return dec
}

func identity(n int) []int {
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

//Stats returns the symbol operation counts recorded so far.
func (dec *IntermediateSymbolDecoder) Stats() Stats {
	return dec.stats
}

//Decode runs the five phases and returns the L intermediate symbols along with the symbol
//operations that derive them from the original symbols. Replaying the operations on a copy of
//the input symbols leaves the intermediate symbols in its first L entries.
//Decode can only be called once.
func (dec *IntermediateSymbolDecoder) Decode(ctx context.Context) ([]*symbol.Symbol, []symbol.Op, error) {
	if dec.decoded {
		panic("pisolver: Decode called twice")
	}
	dec.decoded = true

	xEliminationOps, err := dec.firstPhase(ctx)
	if err != nil {
		return nil, nil, err
	}
	dec.a.DisableColumnAccessAcceleration()

	if !dec.secondPhase(xEliminationOps) {
		return nil, nil, ErrNotEnoughSymbols
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	dec.thirdPhase(xEliminationOps)
	dec.fourthPhase()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	dec.fifthPhase(xEliminationOps)

	symbol.Apply(dec.deferredOps, dec.symbols)

	// RFC 6330 end of section 5.4.2.1: C[c[i]] = D[d[i]]
	order := make([]int, len(dec.symbols))
	used := make([]bool, len(dec.symbols))
	for i := 0; i < dec.l; i++ {
		order[dec.c[i]] = dec.d[i]
		used[dec.d[i]] = true
	}
	next := dec.l
	for row, u := range used {
		if !u {
			order[next] = row
			next++
		}
	}

	result := make([]*symbol.Symbol, dec.l)
	for i := range result {
		result[i] = dec.symbols[order[i]]
	}
	ops := append(dec.deferredOps, symbol.Reorder(order))

	logrus.Debugf("pisolver: solved %v intermediate symbols from %v symbols with %v additions and %v multiplications",
		dec.l, len(dec.symbols), dec.stats.AddOps, dec.stats.MulOps)
	return result, ops, nil
}

func (dec *IntermediateSymbolDecoder) recordSymbolOps(phase int) {
	dec.stats.AddOpsByPhase[phase] = dec.stats.AddOps
	dec.stats.MulOpsByPhase[phase] = dec.stats.MulOps
	for i := 0; i < phase; i++ {
		dec.stats.AddOpsByPhase[phase] -= dec.stats.AddOpsByPhase[i]
		dec.stats.MulOpsByPhase[phase] -= dec.stats.MulOpsByPhase[i]
	}
}

//recordReduceToRowEchelon reduces the size x size block of A at (rowOffset,colOffset), together
//with every row below it, to row echelon form. The reduced block is returned, or nil when it is
//singular. A itself is left undefined in that block.
func (dec *IntermediateSymbolDecoder) recordReduceToRowEchelon(hdpcRows *matrix.DenseOctetMatrix, rowOffset, colOffset, size int) *matrix.DenseOctetMatrix {
	height := dec.a.Height()
	sub := matrix.NewDenseOctetMatrix(height-rowOffset, size)
	firstHDPCRow := height - hdpcRows.Height()
	for row := rowOffset; row < height; row++ {
		for col := colOffset; col < colOffset+size; col++ {
			var value octet.Octet
			if row < firstHDPCRow {
				value = octetOf(dec.a.Get(row, col))
			} else {
				value = hdpcRows.Get(row-firstHDPCRow, col)
			}
			sub.Set(row-rowOffset, col-colOffset, value)
		}
	}

	for i := 0; i < size; i++ {
		for j := i; j < sub.Height(); j++ {
			if sub.Get(j, i) != octet.Zero {
				sub.SwapRows(i, j)
				dec.swapRows(rowOffset+i, rowOffset+j)
				break
			}
		}

		if sub.Get(i, i) == octet.Zero {
			return nil
		}

		if sub.Get(i, i) != octet.One {
			inverse := sub.Get(i, i).Inverse()
			sub.MulAssignRow(i, inverse)
			dec.recordMulRows(rowOffset+i, inverse)
		}

		for j := i + 1; j < sub.Height(); j++ {
			if scalar := sub.Get(j, i); scalar != octet.Zero {
				sub.FMARows(j, i, scalar)
				dec.recordFMARows(rowOffset+i, rowOffset+j, scalar)
			}
		}
	}
	return sub
}

//backwardsElimination clears everything above the diagonal of the row echelon block sub and
//writes the resulting identity into A.
func (dec *IntermediateSymbolDecoder) backwardsElimination(sub *matrix.DenseOctetMatrix, rowOffset, colOffset, size int) {
	for i := size - 1; i >= 0; i-- {
		for j := 0; j < i; j++ {
			// the block is discarded, so only the symbols are updated
			if scalar := sub.Get(j, i); scalar != octet.Zero {
				dec.recordFMARows(rowOffset+i, rowOffset+j, scalar)
			}
		}
	}

	for row := rowOffset; row < rowOffset+size; row++ {
		for col := colOffset; col < colOffset+size; col++ {
			dec.a.Set(row, col, row == col)
		}
	}
}

func (dec *IntermediateSymbolDecoder) recordMulRows(i int, beta octet.Octet) {
	if dec.hdpcRows != nil {
		panic("pisolver: rows cannot be scaled while the HDPC rows are attached")
	}
	dec.stats.MulOps++
	dec.deferredOps = append(dec.deferredOps, symbol.MulAssign(dec.d[i], beta))
}

//recordFMARows records row iPrime += beta * row i on the symbols.
func (dec *IntermediateSymbolDecoder) recordFMARows(i, iPrime int, beta octet.Octet) {
	dec.stats.AddOps++
	if beta == octet.One {
		dec.deferredOps = append(dec.deferredOps, symbol.AddAssign(dec.d[iPrime], dec.d[i]))
		return
	}
	dec.stats.MulOps++
	dec.deferredOps = append(dec.deferredOps, symbol.FMA(dec.d[iPrime], dec.d[i], beta))
}

func (dec *IntermediateSymbolDecoder) fmaRows(i, iPrime int, beta octet.Octet, startCol int) {
	dec.fmaRowsWithPi(i, iPrime, beta, -1, nil, startCol)
}

//fmaRowsWithPi performs row iPrime += beta * row i. When iPrime is an attached HDPC row only its
//PI part is updated from piOctets; onlyNonPiNonZeroColumn is the single non PI column of row i
//that may be nonzero and is only touched in debug mode.
func (dec *IntermediateSymbolDecoder) fmaRowsWithPi(i, iPrime int, beta octet.Octet, onlyNonPiNonZeroColumn int, piOctets *octet.BinaryOctetVec, startCol int) {
	dec.recordFMARows(i, iPrime, beta)

	if hdpc := dec.hdpcRows; hdpc != nil {
		firstHDPCRow := dec.a.Height() - hdpc.Height()
		if i >= firstHDPCRow {
			panic(fmt.Sprintf("pisolver: HDPC row %v cannot be added to other rows", i))
		}
		if iPrime >= firstHDPCRow {
			hdpcRow := iPrime - firstHDPCRow
			if dec.debug {
				col := onlyNonPiNonZeroColumn
				value := hdpc.Get(hdpcRow, col).FMA(octetOf(dec.a.Get(i, col)), beta)
				hdpc.Set(hdpcRow, col, value)
			}
			if piOctets == nil {
				panic("pisolver: HDPC rows can only be updated from PI octets")
			}
			hdpc.FMASubRow(hdpcRow, dec.a.Width()-piOctets.Len(), beta, piOctets)
			return
		}
	}

	if beta != octet.One {
		panic(fmt.Sprintf("pisolver: binary rows can only be added, found scalar %v", beta))
	}
	dec.a.AddAssignRows(iPrime, i, startCol)
}

func (dec *IntermediateSymbolDecoder) swapRows(i, iPrime int) {
	if hdpc := dec.hdpcRows; hdpc != nil {
		firstHDPCRow := dec.a.Height() - hdpc.Height()
		if i >= firstHDPCRow || iPrime >= firstHDPCRow {
			panic(fmt.Sprintf("pisolver: cannot swap rows %v and %v while HDPC rows start at %v", i, iPrime, firstHDPCRow))
		}
	}
	dec.a.SwapRows(i, iPrime)
	dec.d[i], dec.d[iPrime] = dec.d[iPrime], dec.d[i]
}

func (dec *IntermediateSymbolDecoder) swapColumns(j, jPrime, startRow int) {
	dec.a.SwapColumns(j, jPrime, startRow)
	if dec.hdpcRows != nil {
		dec.hdpcRows.SwapColumns(j, jPrime, 0)
	}
	dec.c[j], dec.c[jPrime] = dec.c[jPrime], dec.c[j]
}

func octetOf(b bool) octet.Octet {
	if b {
		return octet.One
	}
	return octet.Zero
}
