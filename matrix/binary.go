package matrix

import (
	"fmt"

	"github.com/nathanhack/raptorq/octet"
)

const wordWidth = octet.WordWidth

//SparseThreshold is the number of source symbols at which FactoryFor switches to SparseBinaryMatrix.
const SparseThreshold = 250

//BinaryMatrix is a GF(2) matrix that the intermediate symbol decoder reduces in place.
//Columns at or beyond Width()-numDenseColumns are the frozen dense region; see HintColumnDenseAndFrozen.
type BinaryMatrix interface {
	Height() int
	Width() int

	Set(i, j int, value bool)
	Get(i, j int) bool

	//CountOnes returns the number of ones in row over columns [startCol,endCol).
	CountOnes(row, startCol, endCol int) int
	//RowIterator walks row over columns [startCol,endCol).
	RowIterator(row, startCol, endCol int) RowIterator
	//OnesInColumn returns the rows in [startRow,endRow) with a one in col.
	//Requires column access acceleration.
	OnesInColumn(col, startRow, endRow int) []int
	//SubRowAsOctets returns columns [startCol,Width()) of row, right aligned.
	SubRowAsOctets(row, startCol int) *octet.BinaryOctetVec
	//NonZeroColumns returns the columns at or after startCol with a one, ascending.
	NonZeroColumns(row, startCol int) []int

	SwapRows(i, j int)
	//SwapColumns swaps columns i and j. Rows before startRowHint may be skipped.
	SwapColumns(i, j, startRowHint int)

	EnableColumnAccessAcceleration()
	DisableColumnAccessAcceleration()
	//HintColumnDenseAndFrozen moves column i, which must be the last non-dense column, into the dense region.
	HintColumnDenseAndFrozen(i int)

	//AddAssignRows adds row src into row dest. Columns before startCol may be skipped.
	AddAssignRows(dest, src, startCol int)
	//Resize shrinks the matrix to its first newHeight rows and newWidth columns.
	Resize(newHeight, newWidth int)
}

//Factory creates a height x width zero matrix whose last trailingDenseColumnHint columns will be dense.
type Factory func(height, width, trailingDenseColumnHint int) BinaryMatrix

func DenseFactory(height, width, trailingDenseColumnHint int) BinaryMatrix {
	if trailingDenseColumnHint < 0 || trailingDenseColumnHint > width {
		panic(fmt.Sprintf("matrix: dense column hint %v out of range [0,%v]", trailingDenseColumnHint, width))
	}
	m := NewDenseBinaryMatrix(height, width)
	m.numFrozenColumns = trailingDenseColumnHint
	return m
}

func SparseFactory(height, width, trailingDenseColumnHint int) BinaryMatrix {
	return NewSparseBinaryMatrix(height, width, trailingDenseColumnHint)
}

//FactoryFor picks the representation for a block of sourceSymbols symbols.
func FactoryFor(sourceSymbols int) Factory {
	if sourceSymbols < SparseThreshold {
		return DenseFactory
	}
	return SparseFactory
}

//RowIterator yields the columns of one row. Sparse rows skip zeros; dense rows may not.
type RowIterator interface {
	Next() (col int, value bool, ok bool)
}

//Equal reports whether a and b hold the same values.
func Equal(a, b BinaryMatrix) bool {
	if a.Height() != b.Height() || a.Width() != b.Width() {
		return false
	}
	for i := 0; i < a.Height(); i++ {
		for j := 0; j < a.Width(); j++ {
			if a.Get(i, j) != b.Get(i, j) {
				return false
			}
		}
	}
	return true
}

//String renders m one row per line.
func String(m BinaryMatrix) string {
	buf := make([]byte, 0, m.Height()*(m.Width()+1))
	for i := 0; i < m.Height(); i++ {
		for j := 0; j < m.Width(); j++ {
			if m.Get(i, j) {
				buf = append(buf, '1')
			} else {
				buf = append(buf, '0')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

func checkBounds(kind string, index, limit int) {
	if index < 0 || index >= limit {
		panic(fmt.Sprintf("matrix: %v %v out of range [0,%v)", kind, index, limit))
	}
}

func selectBitAndAllLeftMask(bit int) uint64 {
	return ^selectAllRightOfMask(bit)
}

func selectAllRightOfMask(bit int) uint64 {
	return octet.SelectMask(bit) - 1
}
