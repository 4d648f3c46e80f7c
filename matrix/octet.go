package matrix

import (
	"fmt"

	"github.com/nathanhack/raptorq/octet"
)

//DenseOctetMatrix is a row major GF(256) matrix. It holds the HDPC rows while the binary rows are reduced.
type DenseOctetMatrix struct {
	height   int
	width    int
	elements [][]byte
}

func NewDenseOctetMatrix(height, width int) *DenseOctetMatrix {
	elements := make([][]byte, height)
	for i := range elements {
		elements[i] = make([]byte, width)
	}
	return &DenseOctetMatrix{height: height, width: width, elements: elements}
}

func (m *DenseOctetMatrix) Height() int { return m.height }
func (m *DenseOctetMatrix) Width() int  { return m.width }

func (m *DenseOctetMatrix) Get(i, j int) octet.Octet {
	return octet.Octet(m.elements[i][j])
}

func (m *DenseOctetMatrix) Set(i, j int, value octet.Octet) {
	m.elements[i][j] = byte(value)
}

//Row returns row i. The slice aliases the matrix.
func (m *DenseOctetMatrix) Row(i int) []byte {
	return m.elements[i]
}

func (m *DenseOctetMatrix) MulAssignRow(row int, scalar octet.Octet) {
	octet.MulAssignScalar(m.elements[row], scalar)
}

func (m *DenseOctetMatrix) SwapRows(i, j int) {
	m.elements[i], m.elements[j] = m.elements[j], m.elements[i]
}

func (m *DenseOctetMatrix) SwapColumns(i, j, startRowHint int) {
	for row := startRowHint; row < m.height; row++ {
		r := m.elements[row]
		r[i], r[j] = r[j], r[i]
	}
}

//FMASubRow adds scalar*other into row over columns [startCol,startCol+other.Len()).
func (m *DenseOctetMatrix) FMASubRow(row, startCol int, scalar octet.Octet, other *octet.BinaryOctetVec) {
	octet.FusedAddAssignMulScalarBinary(m.elements[row][startCol:startCol+other.Len()], other, scalar)
}

//FMARows computes row dest += scalar * row multiplicand.
func (m *DenseOctetMatrix) FMARows(dest, multiplicand int, scalar octet.Octet) {
	if dest == multiplicand {
		panic(fmt.Sprintf("matrix: cannot add row %v to itself", dest))
	}
	if scalar == octet.One {
		octet.AddAssign(m.elements[dest], m.elements[multiplicand])
		return
	}
	octet.FusedAddAssignMulScalar(m.elements[dest], m.elements[multiplicand], scalar)
}

//Equal reports whether m and other hold the same values.
func (m *DenseOctetMatrix) Equal(other *DenseOctetMatrix) bool {
	if m.height != other.height || m.width != other.width {
		return false
	}
	for i := range m.elements {
		for j := range m.elements[i] {
			if m.elements[i][j] != other.elements[i][j] {
				return false
			}
		}
	}
	return true
}
