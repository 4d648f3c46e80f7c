package matrix

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/slices"

	"github.com/nathanhack/raptorq/internal/arraymap"
	"github.com/nathanhack/raptorq/internal/sparse"
	"github.com/nathanhack/raptorq/octet"
)

//SparseBinaryMatrix keeps one sorted sparse row per physical row for the left columns and a
//bit packed block for the trailing numDenseColumns columns. Rows and sparse columns are
//addressed through logical to physical maps so swaps are O(1).
//Dense columns are never permuted, so they are addressed by logical index.
type SparseBinaryMatrix struct {
	height int
	width  int

	sparseElements []*sparse.BinaryVec
	// dense columns per physical row, left padded like octet.BinaryOctetVec
	denseElements []uint64
	// physical column -> physical rows, only while column access is accelerated
	sparseColumnarValues *arraymap.ImmutableListMap

	logicalRowToPhysical []int
	physicalRowToLogical []int
	logicalColToPhysical []int
	physicalColToLogical []int

	columnIndexDisabled bool
	numDenseColumns     int
}

func NewSparseBinaryMatrix(height, width, trailingDenseColumnHint int) *SparseBinaryMatrix {
	if trailingDenseColumnHint < 0 || trailingDenseColumnHint > width {
		panic(fmt.Sprintf("matrix: dense column hint %v out of range [0,%v]", trailingDenseColumnHint, width))
	}
	m := &SparseBinaryMatrix{
		height:               height,
		width:                width,
		sparseElements:       make([]*sparse.BinaryVec, height),
		logicalRowToPhysical: identity(height),
		physicalRowToLogical: identity(height),
		logicalColToPhysical: identity(width),
		physicalColToLogical: identity(width),
		columnIndexDisabled:  true,
		numDenseColumns:      trailingDenseColumnHint,
	}
	for i := range m.sparseElements {
		m.sparseElements[i] = sparse.NewBinaryVec(10)
	}
	m.denseElements = make([]uint64, height*m.rowWordWidth())
	return m
}

func identity(n int) []int {
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

func (m *SparseBinaryMatrix) rowWordWidth() int {
	return (m.numDenseColumns + wordWidth - 1) / wordWidth
}

func (m *SparseBinaryMatrix) leftPaddingBits() int {
	return (wordWidth - m.numDenseColumns%wordWidth) % wordWidth
}

//bitPosition locates dense column denseCol of a physical row.
func (m *SparseBinaryMatrix) bitPosition(physicalRow, denseCol int) (word, bit int) {
	padded := m.leftPaddingBits() + denseCol
	return physicalRow*m.rowWordWidth() + padded/wordWidth, padded % wordWidth
}

func (m *SparseBinaryMatrix) firstDenseColumn() int {
	return m.width - m.numDenseColumns
}

func (m *SparseBinaryMatrix) Height() int { return m.height }
func (m *SparseBinaryMatrix) Width() int  { return m.width }

func (m *SparseBinaryMatrix) Set(i, j int, value bool) {
	checkBounds("row", i, m.height)
	checkBounds("column", j, m.width)
	physicalI := m.logicalRowToPhysical[i]
	if j >= m.firstDenseColumn() {
		word, bit := m.bitPosition(physicalI, j-m.firstDenseColumn())
		if value {
			m.denseElements[word] |= octet.SelectMask(bit)
		} else {
			m.denseElements[word] &^= octet.SelectMask(bit)
		}
		return
	}
	if !m.columnIndexDisabled {
		panic("matrix: sparse entries cannot be set while column access is accelerated")
	}
	if value {
		m.sparseElements[physicalI].Insert(m.logicalColToPhysical[j])
	} else {
		m.sparseElements[physicalI].Remove(m.logicalColToPhysical[j])
	}
}

func (m *SparseBinaryMatrix) Get(i, j int) bool {
	checkBounds("row", i, m.height)
	checkBounds("column", j, m.width)
	physicalI := m.logicalRowToPhysical[i]
	if j >= m.firstDenseColumn() {
		word, bit := m.bitPosition(physicalI, j-m.firstDenseColumn())
		return m.denseElements[word]&octet.SelectMask(bit) != 0
	}
	return m.sparseElements[physicalI].Get(m.logicalColToPhysical[j])
}

func (m *SparseBinaryMatrix) CountOnes(row, startCol, endCol int) int {
	ones := 0
	physicalRow := m.logicalRowToPhysical[row]
	for _, physicalCol := range m.sparseElements[physicalRow].Columns() {
		col := m.physicalColToLogical[physicalCol]
		if col >= startCol && col < endCol {
			ones++
		}
	}
	firstDense := m.firstDenseColumn()
	startDense := max(startCol, firstDense) - firstDense
	endDense := endCol - firstDense
	if startDense >= endDense {
		return ones
	}
	startWord, startBit := m.bitPosition(physicalRow, startDense)
	endWord, endBit := m.bitPosition(physicalRow, endDense)
	if startWord == endWord {
		mask := selectBitAndAllLeftMask(startBit) & selectAllRightOfMask(endBit)
		return ones + bits.OnesCount64(m.denseElements[startWord]&mask)
	}

	ones += bits.OnesCount64(m.denseElements[startWord] & selectBitAndAllLeftMask(startBit))
	for word := startWord + 1; word < endWord; word++ {
		ones += bits.OnesCount64(m.denseElements[word])
	}
	if endBit > 0 {
		ones += bits.OnesCount64(m.denseElements[endWord] & selectAllRightOfMask(endBit))
	}
	return ones
}

type sparseRowIterator struct {
	m          *SparseBinaryMatrix
	row        int
	columns    []int
	index      int
	denseCol   int
	start, end int
}

func (it *sparseRowIterator) Next() (int, bool, bool) {
	for it.index < len(it.columns) {
		col := it.m.physicalColToLogical[it.columns[it.index]]
		it.index++
		if col >= it.start && col < it.end {
			return col, true, true
		}
	}
	if it.denseCol < it.end {
		col := it.denseCol
		it.denseCol++
		return col, it.m.Get(it.row, col), true
	}
	return 0, false, false
}

func (m *SparseBinaryMatrix) RowIterator(row, startCol, endCol int) RowIterator {
	physicalRow := m.logicalRowToPhysical[row]
	return &sparseRowIterator{
		m:        m,
		row:      row,
		columns:  m.sparseElements[physicalRow].Columns(),
		denseCol: max(startCol, m.firstDenseColumn()),
		start:    startCol,
		end:      endCol,
	}
}

func (m *SparseBinaryMatrix) OnesInColumn(col, startRow, endRow int) []int {
	if m.columnIndexDisabled {
		panic("matrix: ones in column requires column access acceleration")
	}
	if col >= m.firstDenseColumn() {
		panic(fmt.Sprintf("matrix: column %v is dense and has no column index", col))
	}
	physicalCol := m.logicalColToPhysical[col]
	rows := make([]int, 0)
	for _, physicalRow := range m.sparseColumnarValues.Get(physicalCol) {
		logicalRow := m.physicalRowToLogical[physicalRow]
		if logicalRow >= startRow && logicalRow < endRow {
			rows = append(rows, logicalRow)
		}
	}
	return rows
}

func (m *SparseBinaryMatrix) SubRowAsOctets(row, startCol int) *octet.BinaryOctetVec {
	if startCol != m.firstDenseColumn() {
		panic(fmt.Sprintf("matrix: sub row must start at the dense region %v but found %v", m.firstDenseColumn(), startCol))
	}
	first, _ := m.bitPosition(m.logicalRowToPhysical[row], 0)
	words := slices.Clone(m.denseElements[first : first+m.rowWordWidth()])
	return octet.NewBinaryOctetVec(words, m.numDenseColumns)
}

func (m *SparseBinaryMatrix) NonZeroColumns(row, startCol int) []int {
	physicalRow := m.logicalRowToPhysical[row]
	result := make([]int, 0)
	for _, physicalCol := range m.sparseElements[physicalRow].Columns() {
		if col := m.physicalColToLogical[physicalCol]; col >= startCol {
			result = append(result, col)
		}
	}
	slices.Sort(result)

	firstDense := m.firstDenseColumn()
	first, _ := m.bitPosition(physicalRow, 0)
	padding := m.leftPaddingBits()
	for w := 0; w < m.rowWordWidth(); w++ {
		block := m.denseElements[first+w]
		for block != 0 {
			tz := bits.TrailingZeros64(block)
			block &^= octet.SelectMask(tz)
			col := firstDense + w*wordWidth + tz - padding
			if col >= startCol {
				result = append(result, col)
			}
		}
	}
	return result
}

func (m *SparseBinaryMatrix) SwapRows(i, j int) {
	physicalI := m.logicalRowToPhysical[i]
	physicalJ := m.logicalRowToPhysical[j]
	m.logicalRowToPhysical[i], m.logicalRowToPhysical[j] = physicalJ, physicalI
	m.physicalRowToLogical[physicalI], m.physicalRowToLogical[physicalJ] = j, i
}

func (m *SparseBinaryMatrix) SwapColumns(i, j, startRowHint int) {
	if i >= m.firstDenseColumn() || j >= m.firstDenseColumn() {
		panic(fmt.Sprintf("matrix: cannot swap columns %v and %v, dense region starts at %v", i, j, m.firstDenseColumn()))
	}
	physicalI := m.logicalColToPhysical[i]
	physicalJ := m.logicalColToPhysical[j]
	m.logicalColToPhysical[i], m.logicalColToPhysical[j] = physicalJ, physicalI
	m.physicalColToLogical[physicalI], m.physicalColToLogical[physicalJ] = j, i
}

func (m *SparseBinaryMatrix) EnableColumnAccessAcceleration() {
	m.columnIndexDisabled = false
	expected := 0
	for _, row := range m.sparseElements {
		expected += row.Len()
	}
	builder := arraymap.NewListMapBuilder(len(m.physicalColToLogical), expected)
	for physicalRow, row := range m.sparseElements {
		for _, physicalCol := range row.Columns() {
			builder.Add(physicalCol, physicalRow)
		}
	}
	m.sparseColumnarValues = builder.Build()
}

func (m *SparseBinaryMatrix) DisableColumnAccessAcceleration() {
	m.columnIndexDisabled = true
	m.sparseColumnarValues = nil
}

func (m *SparseBinaryMatrix) HintColumnDenseAndFrozen(i int) {
	if i != m.firstDenseColumn()-1 {
		panic(fmt.Sprintf("matrix: can only freeze the last sparse column %v but found %v", m.firstDenseColumn()-1, i))
	}
	if m.columnIndexDisabled {
		panic("matrix: freezing a column requires column access acceleration")
	}
	oldRowWidth := m.rowWordWidth()
	m.numDenseColumns++
	if newRowWidth := m.rowWordWidth(); newRowWidth != oldRowWidth {
		// every row gains an empty word at its front
		dense := make([]uint64, m.height*newRowWidth)
		for row := 0; row < m.height; row++ {
			copy(dense[row*newRowWidth+1:(row+1)*newRowWidth], m.denseElements[row*oldRowWidth:(row+1)*oldRowWidth])
		}
		m.denseElements = dense
	}

	physicalI := m.logicalColToPhysical[i]
	for _, physicalRow := range m.sparseColumnarValues.Get(physicalI) {
		if m.sparseElements[physicalRow].Remove(physicalI) {
			word, bit := m.bitPosition(physicalRow, 0)
			m.denseElements[word] |= octet.SelectMask(bit)
		}
	}
}

func (m *SparseBinaryMatrix) AddAssignRows(dest, src, startCol int) {
	if dest == src {
		panic(fmt.Sprintf("matrix: cannot add row %v to itself", dest))
	}
	if startCol != 0 && startCol != m.firstDenseColumn() {
		panic(fmt.Sprintf("matrix: start column must be 0 or %v but found %v", m.firstDenseColumn(), startCol))
	}
	physicalDest := m.logicalRowToPhysical[dest]
	physicalSrc := m.logicalRowToPhysical[src]
	if m.numDenseColumns > 0 {
		rw := m.rowWordWidth()
		d := m.denseElements[physicalDest*rw : (physicalDest+1)*rw]
		s := m.denseElements[physicalSrc*rw : (physicalSrc+1)*rw]
		for w := range d {
			d[w] ^= s[w]
		}
	}

	if startCol == 0 {
		srcRow := m.sparseElements[physicalSrc]
		// While the column index is live, rows are only ever reduced by a single pivot column.
		if !m.columnIndexDisabled && srcRow.Len() != 1 {
			panic(fmt.Sprintf("matrix: accelerated add requires a single sparse entry but found %v", srcRow.Len()))
		}
		added := m.sparseElements[physicalDest].AddAssign(srcRow)
		if !m.columnIndexDisabled && added {
			panic("matrix: accelerated add introduced a new sparse column")
		}
	}
}

func (m *SparseBinaryMatrix) Resize(newHeight, newWidth int) {
	if newHeight > m.height {
		panic(fmt.Sprintf("matrix: cannot grow height %v to %v", m.height, newHeight))
	}
	columnsToRemove := m.width - newWidth
	if columnsToRemove < 0 {
		panic(fmt.Sprintf("matrix: cannot grow width %v to %v", m.width, newWidth))
	}
	if columnsToRemove != 0 && columnsToRemove < m.numDenseColumns {
		panic(fmt.Sprintf("matrix: resize must keep all or none of the %v dense columns", m.numDenseColumns))
	}
	if !m.columnIndexDisabled {
		panic("matrix: resize requires column access acceleration to be disabled")
	}

	sparseRows := make([]*sparse.BinaryVec, newHeight)
	for logicalRow := 0; logicalRow < newHeight; logicalRow++ {
		sparseRows[logicalRow] = m.sparseElements[m.logicalRowToPhysical[logicalRow]]
	}

	if columnsToRemove == 0 && m.numDenseColumns > 0 {
		rw := m.rowWordWidth()
		dense := make([]uint64, newHeight*rw)
		for logicalRow := 0; logicalRow < newHeight; logicalRow++ {
			physicalRow := m.logicalRowToPhysical[logicalRow]
			copy(dense[logicalRow*rw:(logicalRow+1)*rw], m.denseElements[physicalRow*rw:(physicalRow+1)*rw])
		}
		m.denseElements = dense
	} else {
		columnsToRemove -= m.numDenseColumns
		m.denseElements = nil
		m.numDenseColumns = 0
	}

	m.sparseElements = sparseRows
	m.logicalRowToPhysical = identity(newHeight)
	m.physicalRowToLogical = identity(newHeight)

	if columnsToRemove > 0 {
		for _, row := range m.sparseElements {
			row.Retain(func(physicalCol int) bool {
				return m.physicalColToLogical[physicalCol] < newWidth
			})
		}
	}
	m.height = newHeight
	m.width = newWidth
}
