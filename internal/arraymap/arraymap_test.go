package arraymap

import (
	"testing"

	"golang.org/x/exp/slices"
)

func TestListMap(t *testing.T) {
	builder := NewListMapBuilder(5, 6)
	builder.Add(3, 30)
	builder.Add(1, 11)
	builder.Add(3, 31)
	builder.Add(1, 10)
	builder.Add(4, 40)
	builder.Add(3, 32)
	m := builder.Build()

	expected := [][]int{{}, {10, 11}, {}, {30, 31, 32}, {40}}
	if m.NumKeys() != len(expected) {
		t.Fatalf("expected %v but found %v", len(expected), m.NumKeys())
	}
	for k, values := range expected {
		if !slices.Equal(m.Get(k), values) {
			t.Fatalf("key %v: expected %v but found %v", k, values, m.Get(k))
		}
	}
}

func TestListMapEmpty(t *testing.T) {
	m := NewListMapBuilder(3, 0).Build()
	for k := 0; k < 3; k++ {
		if len(m.Get(k)) != 0 {
			t.Fatalf("expected no values but found %v", m.Get(k))
		}
	}
}

func TestUndirectedGraph(t *testing.T) {
	g := NewUndirectedGraph(10, 20, 3)
	g.AddEdge(12, 15)
	g.AddEdge(15, 19)
	g.AddEdge(11, 12)
	g.Build()

	if !slices.Equal(g.Nodes(), []int{11, 12, 15, 19}) {
		t.Fatalf("expected %v but found %v", []int{11, 12, 15, 19}, g.Nodes())
	}
	if !slices.Equal(g.AdjacentNodes(12), []int{11, 15}) {
		t.Fatalf("expected %v but found %v", []int{11, 15}, g.AdjacentNodes(12))
	}
	if !slices.Equal(g.AdjacentNodes(15), []int{12, 19}) {
		t.Fatalf("expected %v but found %v", []int{12, 19}, g.AdjacentNodes(15))
	}
	if len(g.AdjacentNodes(13)) != 0 {
		t.Fatalf("expected no neighbours but found %v", g.AdjacentNodes(13))
	}
}

func TestUndirectedGraphOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	g := NewUndirectedGraph(0, 4, 1)
	g.AddEdge(1, 4)
}
