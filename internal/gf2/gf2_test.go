package gf2

import (
	"context"
	"strconv"
	"testing"

	mat "github.com/nathanhack/sparsemat"

	"github.com/nathanhack/raptorq/constraint"
	"github.com/nathanhack/raptorq/matrix"
	"github.com/nathanhack/raptorq/systematic"
)

func TestRank(t *testing.T) {
	tests := []struct {
		input    mat.SparseMat
		expected int
	}{
		{ //Hamming 7
			mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1),
			3,
		},
		{ //one linearly dependent row
			mat.CSRMat(4, 5, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1),
			3,
		},
		{ //tall
			mat.CSRMat(4, 2, 1, 0, 0, 1, 1, 1, 0, 0),
			2,
		},
		{
			mat.CSRMat(2, 3),
			0,
		},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			before := mat.CSRMatCopy(test.input)
			actual := Rank(context.Background(), test.input, 2, false)
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
			if !before.Equals(test.input) {
				t.Fatalf("expected the input to be unchanged")
			}
		})
	}
}

func TestRankCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	actual := Rank(ctx, mat.CSRIdentity(4), 1, false)
	if actual != -1 {
		t.Fatalf("expected %v but found %v", -1, actual)
	}
	if Rank(context.Background(), nil, 1, false) != -1 {
		t.Fatalf("expected -1 for a nil matrix")
	}
}

func TestFromBinaryMatrix(t *testing.T) {
	m := matrix.NewDenseBinaryMatrix(3, 4)
	m.Set(0, 1, true)
	m.Set(1, 3, true)
	m.Set(2, 0, true)
	m.Set(2, 2, true)

	expected := mat.CSRMat(3, 4, 0, 1, 0, 0, 0, 0, 0, 1, 1, 0, 1, 0)
	if actual := FromBinaryMatrix(m); !expected.Equals(actual) {
		t.Fatalf("expected \n%v\n but found \n%v\n", expected, actual)
	}

	expected = mat.CSRMat(2, 4, 1, 0, 1, 0, 0, 1, 0, 0)
	if actual := FromBinaryMatrix(m, 2, 0); !expected.Equals(actual) {
		t.Fatalf("expected \n%v\n but found \n%v\n", expected, actual)
	}
}

func TestBinaryRank(t *testing.T) {
	tests := []struct {
		k        int
		isis     []uint32
		expected int
	}{
		{10, []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 17},
		{10, []uint32{0, 0, 1, 2, 3, 4, 5, 6, 7, 8}, 16},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			p := systematic.NewParameters(test.k)
			a, _ := constraint.GenerateConstraintMatrix(test.k, test.isis, matrix.SparseFactory)
			actual := BinaryRank(context.Background(), a, p.S, p.H, 1)
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}
