package symbol

import (
	"strconv"
	"testing"

	"github.com/nathanhack/raptorq/octet"
)

func TestReorder(t *testing.T) {
	rows := 10
	symbols := make([]*Symbol, rows)
	for i := range symbols {
		symbols[i] = New([]byte{byte(i)})
	}
	perm := []int{9, 7, 5, 3, 1, 8, 0, 6, 2, 4}

	Reorder(perm).Apply(symbols)
	for i := range symbols {
		if symbols[i].Bytes()[0] != byte(perm[i]) {
			t.Fatalf("index %v: expected %v but found %v", i, perm[i], symbols[i].Bytes()[0])
		}
	}
}

func TestOps(t *testing.T) {
	tests := []struct {
		op       Op
		expected [][]byte
	}{
		{AddAssign(0, 1), [][]byte{{1 ^ 4, 2 ^ 5}, {4, 5}}},
		{MulAssign(1, 2), [][]byte{{1, 2}, {8, 10}}},
		{FMA(0, 1, 3), [][]byte{{1 ^ byte(octet.Octet(4).Mul(3)), 2 ^ byte(octet.Octet(5).Mul(3))}, {4, 5}}},
		{Reorder([]int{1, 0}), [][]byte{{4, 5}, {1, 2}}},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			symbols := []*Symbol{New([]byte{1, 2}), New([]byte{4, 5})}
			Apply([]Op{test.op}, symbols)
			for n, s := range symbols {
				if !s.Equal(New(test.expected[n])) {
					t.Fatalf("%v: expected %v but found %v", test.op, test.expected[n], s.Bytes())
				}
			}
		})
	}
}

func TestClone(t *testing.T) {
	s := New([]byte{1, 2, 3})
	c := s.Clone()
	c.AddAssign(s)
	if !s.Equal(New([]byte{1, 2, 3})) {
		t.Fatalf("expected clone to be independent")
	}
	if !c.Equal(Zero(3)) {
		t.Fatalf("expected %v but found %v", Zero(3), c)
	}
}
