package pisolver

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/nathanhack/raptorq/internal/arraymap"
	"github.com/nathanhack/raptorq/internal/graph"
	"github.com/nathanhack/raptorq/matrix"
)

//rowSelectionStats tracks the number of ones each row has in V so the first phase can pick
//its next row without rescanning the matrix.
type rowSelectionStats struct {
	originalDegree    []int
	onesPerRow        []int
	onesHistogram     []int
	startCol          int
	endCol            int
	startRow          int
	rowsWithSingleOne []int
	// columns of V are nodes, rows with two ones in V are edges
	colGraph *graph.ConnectedComponentGraph
}

func newRowSelectionStats(a matrix.BinaryMatrix, endCol, endRow int) *rowSelectionStats {
	s := &rowSelectionStats{
		onesPerRow:        make([]int, a.Height()),
		onesHistogram:     make([]int, endCol+1),
		endCol:            endCol,
		rowsWithSingleOne: make([]int, 0),
		colGraph:          graph.NewConnectedComponentGraph(endCol),
	}
	for row := 0; row < a.Height(); row++ {
		ones := a.CountOnes(row, 0, endCol)
		s.onesPerRow[row] = ones
		s.onesHistogram[ones]++
		if ones == 1 {
			s.rowsWithSingleOne = append(s.rowsWithSingleOne, row)
		}
	}
	s.originalDegree = slices.Clone(s.onesPerRow)
	s.rebuildConnectedComponents(0, endRow, a)
	return s
}

//firstPhaseSelection picks the row to move to startRow along with r, the number of ones it has
//in V. ok is false when every remaining row is zero in V.
func (s *rowSelectionStats) firstPhaseSelection(startRow, endRow int, a matrix.BinaryMatrix) (row, r int, ok bool) {
	r = -1
	for ones := 1; ones <= s.endCol-s.startCol; ones++ {
		if s.onesHistogram[ones] > 0 {
			r = ones
			break
		}
	}
	if r == -1 {
		return -1, -1, false
	}

	// Errata 8: a row with two ones always exists when r is 2
	if r == 2 {
		if row := s.graphSubstep(startRow, endRow, a); row != -1 {
			return row, r, true
		}
	}
	return s.originalDegreeSubstep(startRow, endRow, r), r, true
}

func (s *rowSelectionStats) swapRows(i, j int) {
	s.onesPerRow[i], s.onesPerRow[j] = s.onesPerRow[j], s.onesPerRow[i]
	s.originalDegree[i], s.originalDegree[j] = s.originalDegree[j], s.originalDegree[i]
	for n, row := range s.rowsWithSingleOne {
		switch row {
		case i:
			s.rowsWithSingleOne[n] = j
		case j:
			s.rowsWithSingleOne[n] = i
		}
	}
}

func (s *rowSelectionStats) swapColumns(i, j int) {
	s.colGraph.Swap(i, j)
}

func (s *rowSelectionStats) removeSingleOne(row int) {
	if n := slices.Index(s.rowsWithSingleOne, row); n != -1 {
		s.rowsWithSingleOne = slices.Delete(s.rowsWithSingleOne, n, n+1)
	}
}

//recomputeRow recounts row over the current V.
func (s *rowSelectionStats) recomputeRow(row int, a matrix.BinaryMatrix) {
	ones := a.CountOnes(row, s.startCol, s.endCol)
	s.removeSingleOne(row)
	if ones == 1 {
		s.rowsWithSingleOne = append(s.rowsWithSingleOne, row)
	}
	s.onesHistogram[s.onesPerRow[row]]--
	s.onesHistogram[ones]++
	s.onesPerRow[row] = ones
	if ones == 2 {
		s.addGraphEdge(row, a, s.startCol, s.endCol)
	}
}

//decrement removes one of the ones counted for row. It reports whether the row now has two ones.
func (s *rowSelectionStats) decrement(row int) bool {
	s.onesPerRow[row]--
	ones := s.onesPerRow[row]
	switch ones {
	case 0:
		s.removeSingleOne(row)
	case 1:
		s.rowsWithSingleOne = append(s.rowsWithSingleOne, row)
	}
	s.onesHistogram[ones+1]--
	s.onesHistogram[ones]++
	return ones == 2
}

//resize shrinks V by its first row and column and by the columns [endCol,s.endCol).
//onesInStartCol are the rows below startRow-1 with a one in column startCol-1.
func (s *rowSelectionStats) resize(startRow, endRow, startCol, endCol int, onesInStartCol []int, a matrix.BinaryMatrix) {
	if endCol > s.endCol || s.startRow != startRow-1 || s.startCol != startCol-1 {
		panic(fmt.Sprintf("pisolver: selection stats can only shrink by one row and column, found rows %v->%v cols %v->%v end %v->%v",
			s.startRow, startRow, s.startCol, startCol, s.endCol, endCol))
	}

	// the pivot row is not part of onesInStartCol
	if a.Get(s.startRow, s.startCol) {
		row := s.startRow
		s.onesPerRow[row]--
		ones := s.onesPerRow[row]
		if ones == 0 {
			s.removeSingleOne(row)
		}
		s.onesHistogram[ones+1]--
		s.onesHistogram[ones]++
	}

	possibleNewGraphEdges := make([]int, 0)
	for _, row := range onesInStartCol {
		if s.decrement(row) {
			possibleNewGraphEdges = append(possibleNewGraphEdges, row)
		}
	}
	s.colGraph.RemoveNode(startCol - 1)

	for col := endCol; col < s.endCol; col++ {
		for _, row := range a.OnesInColumn(col, s.startRow, endRow) {
			if s.decrement(row) {
				possibleNewGraphEdges = append(possibleNewGraphEdges, row)
			}
		}
		s.colGraph.RemoveNode(col)
	}

	for _, row := range possibleNewGraphEdges {
		if s.onesPerRow[row] == 2 {
			s.addGraphEdge(row, a, startCol, endCol)
		}
	}

	s.startCol = startCol
	s.endCol = endCol
	s.startRow = startRow
}

//twoOnes returns the two columns of row in [startCol,endCol) holding a one.
func twoOnes(row int, a matrix.BinaryMatrix, startCol, endCol int) (int, int) {
	var ones [2]int
	found := 0
	it := a.RowIterator(row, startCol, endCol)
	for col, value, ok := it.Next(); ok && found < 2; col, value, ok = it.Next() {
		if value {
			ones[found] = col
			found++
		}
	}
	if found != 2 {
		panic(fmt.Sprintf("pisolver: row %v has %v ones in [%v,%v) but two were expected", row, found, startCol, endCol))
	}
	return ones[0], ones[1]
}

//addGraphEdge connects the two columns of a row with two ones. Edges are never removed: the
//columns of a component leave V together once it is eliminated.
func (s *rowSelectionStats) addGraphEdge(row int, a matrix.BinaryMatrix, startCol, endCol int) {
	s.colGraph.AddEdge(twoOnes(row, a, startCol, endCol))
}

func (s *rowSelectionStats) buildAdjacency(startRow, endRow int, a matrix.BinaryMatrix) *arraymap.UndirectedGraph {
	g := arraymap.NewUndirectedGraph(s.startCol, s.endCol, s.endCol-s.startCol)
	for row := startRow; row < endRow; row++ {
		if s.onesPerRow[row] != 2 {
			continue
		}
		g.AddEdge(twoOnes(row, a, s.startCol, s.endCol))
	}
	g.Build()
	return g
}

func (s *rowSelectionStats) rebuildConnectedComponents(startRow, endRow int, a matrix.BinaryMatrix) {
	s.colGraph.Reset()
	g := s.buildAdjacency(startRow, endRow, a)
	queue := make([]int, 0, 10)
	for _, key := range g.Nodes() {
		if s.colGraph.Contains(key) {
			continue
		}
		id := s.colGraph.CreateConnectedComponent()
		queue = append(queue[:0], key)
		for len(queue) > 0 {
			node := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if s.colGraph.Contains(node) {
				continue
			}
			s.colGraph.AddNode(node, id)
			queue = append(queue, g.AdjacentNodes(node)...)
		}
	}
}

//graphSubstep returns a row with two ones that touches the largest component, or -1.
func (s *rowSelectionStats) graphSubstep(startRow, endRow int, a matrix.BinaryMatrix) int {
	node := s.colGraph.NodeInLargestConnectedComponent(s.startCol, s.endCol)
	if node == -1 {
		return -1
	}
	for _, row := range a.OnesInColumn(node, startRow, endRow) {
		if s.onesPerRow[row] == 2 {
			return row
		}
	}
	return -1
}

//originalDegreeSubstep returns the row with r ones in V and the lowest original degree.
//HDPC rows are never candidates (Errata 2).
func (s *rowSelectionStats) originalDegreeSubstep(startRow, endRow, r int) int {
	chosen := -1
	chosenDegree := 0
	pick := func(row int) {
		if chosen == -1 || s.originalDegree[row] < chosenDegree {
			chosen = row
			chosenDegree = s.originalDegree[row]
		}
	}

	if r == 1 {
		for _, row := range s.rowsWithSingleOne {
			pick(row)
		}
	} else {
		for row := startRow; row < endRow; row++ {
			if s.onesPerRow[row] == r {
				pick(row)
			}
		}
	}
	if chosen == -1 {
		panic(fmt.Sprintf("pisolver: no row has %v ones in V", r))
	}
	return chosen
}
