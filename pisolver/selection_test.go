package pisolver

import (
	"strconv"
	"testing"

	"github.com/nathanhack/raptorq/matrix"
)

func binaryMatrix(rows []string) *matrix.DenseBinaryMatrix {
	m := matrix.NewDenseBinaryMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		for j, c := range row {
			if c == '1' {
				m.Set(i, j, true)
			}
		}
	}
	return m
}

func TestRowSelectionStats(t *testing.T) {
	a := binaryMatrix([]string{
		"1100",
		"0100",
		"1110",
		"0001",
	})
	s := newRowSelectionStats(a, 4, 4)

	expectedOnes := []int{2, 1, 3, 1}
	for row, expected := range expectedOnes {
		if s.onesPerRow[row] != expected {
			t.Fatalf("row %v: expected %v but found %v", row, expected, s.onesPerRow[row])
		}
	}
	if s.onesHistogram[1] != 2 || s.onesHistogram[2] != 1 || s.onesHistogram[3] != 1 {
		t.Fatalf("unexpected histogram %v", s.onesHistogram)
	}
	if s.colGraph.ComponentOf(0) == 0 || s.colGraph.ComponentOf(0) != s.colGraph.ComponentOf(1) {
		t.Fatalf("expected columns 0 and 1 to share a component")
	}

	row, r, ok := s.firstPhaseSelection(0, 4, a)
	if !ok || row != 1 || r != 1 {
		t.Fatalf("expected %v %v but found %v %v", 1, 1, row, r)
	}

	s.swapRows(0, 1)
	if s.rowsWithSingleOne[0] != 0 || s.onesPerRow[0] != 1 || s.originalDegree[1] != 2 {
		t.Fatalf("swap did not move the row statistics")
	}
}

func TestRowSelectionPrefersLowOriginalDegree(t *testing.T) {
	a := binaryMatrix([]string{
		"111000",
		"011100",
		"000111",
		"110110",
	})
	s := newRowSelectionStats(a, 6, 4)
	row, r, ok := s.firstPhaseSelection(0, 4, a)
	if !ok || r != 3 || row != 0 {
		t.Fatalf("expected %v %v but found %v %v", 0, 3, row, r)
	}
}

func TestPruneRowOps(t *testing.T) {
	tests := []struct {
		ops      []rowOp
		i        int
		expected []rowOp
	}{
		{
			ops:      []rowOp{{kind: swapRowOp, src: 0, dest: 2}, {kind: addAssignRowOp, src: 0, dest: 1}},
			i:        2,
			expected: []rowOp{{kind: addAssignRowOp, src: 0, dest: 1}},
		},
		{
			ops:      []rowOp{{kind: addAssignRowOp, src: 0, dest: 1}, {kind: swapRowOp, src: 1, dest: 2}},
			i:        2,
			expected: []rowOp{},
		},
		{
			ops:      []rowOp{{kind: addAssignRowOp, src: 0, dest: 2}, {kind: swapRowOp, src: 1, dest: 2}},
			i:        2,
			expected: []rowOp{{kind: addAssignRowOp, src: 0, dest: 1}},
		},
	}
	for n, test := range tests {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			actual := pruneRowOps(test.ops, test.i, 3)
			if len(actual) != len(test.expected) {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
			for j := range actual {
				if actual[j] != test.expected[j] {
					t.Fatalf("expected %v but found %v", test.expected, actual)
				}
			}
		})
	}
}
