package gf2

import (
	"context"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"

	"github.com/nathanhack/raptorq/matrix"
)

//FromBinaryMatrix copies the given rows of m into a CSR matrix. No rows means every row.
func FromBinaryMatrix(m matrix.BinaryMatrix, rows ...int) mat.SparseMat {
	if len(rows) == 0 {
		rows = make([]int, m.Height())
		for i := range rows {
			rows[i] = i
		}
	}
	dok := mat.DOKMat(len(rows), m.Width())
	for i, row := range rows {
		for col := 0; col < m.Width(); col++ {
			if m.Get(row, col) {
				dok.Set(i, col, 1)
			}
		}
	}
	return mat.CSRMatCopy(dok)
}

//Rank returns the rank of H over GF(2), or -1 when ctx is done first. H is not modified.
func Rank(ctx context.Context, H mat.SparseMat, threads int, showProgressBar bool) int {
	if H == nil {
		return -1
	}

	tmp := mat.CSRMatCopy(H)
	rows, cols := H.Dims()
	min := rows
	if cols < rows {
		min = cols
	}
	return lowerTriangular(ctx, min, tmp, threads, showProgressBar)
}

func findPivotCol(H mat.SparseMat, forRow int) int {
	rows, _ := H.Dims()

	for r := forRow; r < rows; r++ {
		row := H.Row(r).NonzeroArray()
		if len(row) == 0 {
			continue
		}

		col := row[len(row)-1]
		if col > forRow {
			return col
		}
	}
	return -1
}

//pivots returns the rows with a one in column rowIndex, swapping in another column when none of
//them is at or below rowIndex. nil means the remaining rows are all zero.
func pivots(H mat.SparseMat, rowIndex int) []int {
	result := H.Column(rowIndex).NonzeroArray()
	if len(result) == 0 || result[len(result)-1] < rowIndex {
		colPivot := findPivotCol(H, rowIndex)
		if colPivot == -1 {
			return nil
		}
		H.SwapColumns(rowIndex, colPivot)
		result = H.Column(rowIndex).NonzeroArray()
	}
	return result
}

func eliminateLowerRows(ctx context.Context, rowIndex int, H mat.SparseMat, threads int) {
	rowPivots := H.Column(rowIndex).NonzeroArray()
	pool := threadpool.NewFixedSize(ctx, threads, len(rowPivots))
	rrow := H.Row(rowIndex)
	mut := sync.RWMutex{}

	// subtraction is addition in GF(2)
	for _, index := range rowPivots {
		p := index
		if p <= rowIndex {
			continue
		}
		pool.Add(func() {
			mut.RLock()
			prow := H.Row(p)
			mut.RUnlock()
			prow.Add(prow, rrow)
			mut.Lock()
			H.SetRow(p, prow)
			mut.Unlock()
		})
	}
	pool.Wait()
}

func lowerTriangular(ctx context.Context, rows int, H mat.SparseMat, threads int, showProgressBar bool) int {
	bar := pb.Full.New(rows)
	logrus.Debugf("Row echelon")
	bar.Set("prefix", "Processing Row ")
	bar.SetWriter(os.Stdout)
	if showProgressBar {
		bar.Start()
	}

	for r := 0; r < rows; r++ {
		select {
		case <-ctx.Done():
			return -1
		default:
		}
		bar.Increment()
		rowPivots := pivots(H, r)
		if rowPivots == nil {
			return r
		}

		// the last pivot is at or below r
		H.SwapRows(r, rowPivots[len(rowPivots)-1])
		eliminateLowerRows(ctx, r, H, threads)
	}

	bar.SetTemplateString(`{{string . "prefix"}}{{counters . }}{{string . "suffix"}}`)
	bar.Set("suffix", " Done")
	bar.Finish()
	return rows
}

//BinaryRank returns the GF(2) rank of the binary rows of a constraint matrix, skipping the h HDPC rows
//that follow the s LDPC rows.
func BinaryRank(ctx context.Context, a matrix.BinaryMatrix, s, h, threads int) int {
	rows := make([]int, 0, a.Height()-h)
	for i := 0; i < a.Height(); i++ {
		if i < s || i >= s+h {
			rows = append(rows, i)
		}
	}
	return Rank(ctx, FromBinaryMatrix(a, rows...), threads, false)
}
