package matrix

import (
	"fmt"
	"math/bits"

	"github.com/nathanhack/raptorq/octet"
)

//DenseBinaryMatrix stores every row bit packed. Column j of a row is bit j%64 of word j/64.
type DenseBinaryMatrix struct {
	height   int
	width    int
	elements []uint64
	// trailing columns frozen by HintColumnDenseAndFrozen
	numFrozenColumns int
}

func NewDenseBinaryMatrix(height, width int) *DenseBinaryMatrix {
	m := &DenseBinaryMatrix{height: height, width: width}
	m.elements = make([]uint64, height*m.rowWordWidth())
	return m
}

func (m *DenseBinaryMatrix) rowWordWidth() int {
	return (m.width + wordWidth - 1) / wordWidth
}

func (m *DenseBinaryMatrix) bitPosition(row, col int) (word, bit int) {
	return row*m.rowWordWidth() + col/wordWidth, col % wordWidth
}

func (m *DenseBinaryMatrix) Height() int { return m.height }
func (m *DenseBinaryMatrix) Width() int  { return m.width }

func (m *DenseBinaryMatrix) Set(i, j int, value bool) {
	checkBounds("row", i, m.height)
	checkBounds("column", j, m.width)
	word, bit := m.bitPosition(i, j)
	if value {
		m.elements[word] |= octet.SelectMask(bit)
	} else {
		m.elements[word] &^= octet.SelectMask(bit)
	}
}

func (m *DenseBinaryMatrix) Get(i, j int) bool {
	checkBounds("row", i, m.height)
	checkBounds("column", j, m.width)
	word, bit := m.bitPosition(i, j)
	return m.elements[word]&octet.SelectMask(bit) != 0
}

func (m *DenseBinaryMatrix) CountOnes(row, startCol, endCol int) int {
	if startCol >= endCol {
		return 0
	}
	startWord, startBit := m.bitPosition(row, startCol)
	endWord, endBit := m.bitPosition(row, endCol)
	if startWord == endWord {
		mask := selectBitAndAllLeftMask(startBit) & selectAllRightOfMask(endBit)
		return bits.OnesCount64(m.elements[startWord] & mask)
	}

	ones := bits.OnesCount64(m.elements[startWord] & selectBitAndAllLeftMask(startBit))
	for word := startWord + 1; word < endWord; word++ {
		ones += bits.OnesCount64(m.elements[word])
	}
	if endBit > 0 {
		ones += bits.OnesCount64(m.elements[endWord] & selectAllRightOfMask(endBit))
	}
	return ones
}

type denseRowIterator struct {
	m        *DenseBinaryMatrix
	row      int
	col, end int
}

func (it *denseRowIterator) Next() (int, bool, bool) {
	if it.col >= it.end {
		return 0, false, false
	}
	col := it.col
	it.col++
	return col, it.m.Get(it.row, col), true
}

func (m *DenseBinaryMatrix) RowIterator(row, startCol, endCol int) RowIterator {
	return &denseRowIterator{m: m, row: row, col: startCol, end: endCol}
}

func (m *DenseBinaryMatrix) OnesInColumn(col, startRow, endRow int) []int {
	rows := make([]int, 0)
	for row := startRow; row < endRow; row++ {
		if m.Get(row, col) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (m *DenseBinaryMatrix) SubRowAsOctets(row, startCol int) *octet.BinaryOctetVec {
	length := m.width - startCol
	result := make([]uint64, (length+wordWidth-1)/wordWidth)
	word := len(result)
	bit := 0
	for col := m.width - 1; col >= startCol; col-- {
		if bit == 0 {
			bit = wordWidth - 1
			word--
		} else {
			bit--
		}
		if m.Get(row, col) {
			result[word] |= octet.SelectMask(bit)
		}
	}
	return octet.NewBinaryOctetVec(result, length)
}

func (m *DenseBinaryMatrix) NonZeroColumns(row, startCol int) []int {
	result := make([]int, 0)
	first, _ := m.bitPosition(row, 0)
	for w := startCol / wordWidth; w < m.rowWordWidth(); w++ {
		block := m.elements[first+w]
		if w == startCol/wordWidth {
			block &= selectBitAndAllLeftMask(startCol % wordWidth)
		}
		for block != 0 {
			tz := bits.TrailingZeros64(block)
			col := w*wordWidth + tz
			if col >= m.width {
				break
			}
			result = append(result, col)
			block &^= octet.SelectMask(tz)
		}
	}
	return result
}

func (m *DenseBinaryMatrix) SwapRows(i, j int) {
	if i == j {
		return
	}
	rw := m.rowWordWidth()
	ri := m.elements[i*rw : (i+1)*rw]
	rj := m.elements[j*rw : (j+1)*rw]
	for w := range ri {
		ri[w], rj[w] = rj[w], ri[w]
	}
}

func (m *DenseBinaryMatrix) SwapColumns(i, j, startRowHint int) {
	if i == j {
		return
	}
	for row := startRowHint; row < m.height; row++ {
		wordI, bitI := m.bitPosition(row, i)
		wordJ, bitJ := m.bitPosition(row, j)
		valueI := m.elements[wordI]&octet.SelectMask(bitI) != 0
		valueJ := m.elements[wordJ]&octet.SelectMask(bitJ) != 0
		if valueI == valueJ {
			continue
		}
		m.elements[wordI] ^= octet.SelectMask(bitI)
		m.elements[wordJ] ^= octet.SelectMask(bitJ)
	}
}

//EnableColumnAccessAcceleration is a no-op: dense columns are read directly.
func (m *DenseBinaryMatrix) EnableColumnAccessAcceleration() {}

func (m *DenseBinaryMatrix) DisableColumnAccessAcceleration() {}

//HintColumnDenseAndFrozen only moves the frozen boundary: every column is already dense.
func (m *DenseBinaryMatrix) HintColumnDenseAndFrozen(i int) {
	if first := m.width - m.numFrozenColumns; i != first-1 {
		panic(fmt.Sprintf("matrix: can only freeze the last unfrozen column %v but found %v", first-1, i))
	}
	m.numFrozenColumns++
}

func (m *DenseBinaryMatrix) AddAssignRows(dest, src, startCol int) {
	if dest == src {
		panic(fmt.Sprintf("matrix: cannot add row %v to itself", dest))
	}
	rw := m.rowWordWidth()
	first := startCol / wordWidth
	d := m.elements[dest*rw : (dest+1)*rw]
	s := m.elements[src*rw : (src+1)*rw]
	for w := first; w < rw; w++ {
		d[w] ^= s[w]
	}
}

func (m *DenseBinaryMatrix) Resize(newHeight, newWidth int) {
	if newHeight > m.height || newWidth > m.width {
		panic(fmt.Sprintf("matrix: cannot grow %vx%v to %vx%v", m.height, m.width, newHeight, newWidth))
	}
	oldRowWidth := m.rowWordWidth()
	m.numFrozenColumns = max(0, m.numFrozenColumns-(m.width-newWidth))
	m.height = newHeight
	m.width = newWidth
	newRowWidth := m.rowWordWidth()

	elements := make([]uint64, newHeight*newRowWidth)
	for row := 0; row < newHeight; row++ {
		copy(elements[row*newRowWidth:(row+1)*newRowWidth], m.elements[row*oldRowWidth:row*oldRowWidth+newRowWidth])
		if tail := newWidth % wordWidth; tail != 0 {
			elements[(row+1)*newRowWidth-1] &= selectAllRightOfMask(tail)
		}
	}
	m.elements = elements
}
