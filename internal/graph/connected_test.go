package graph

import (
	"math/rand"
	"strconv"
	"testing"
)

// naiveComponents labels nodes by flood fill over the edge list.
func naiveComponents(nodes int, edges [][2]int) []int {
	label := make([]int, nodes)
	for i := range label {
		label[i] = -1
	}
	adjacent := make([][]int, nodes)
	for _, e := range edges {
		adjacent[e[0]] = append(adjacent[e[0]], e[1])
		adjacent[e[1]] = append(adjacent[e[1]], e[0])
	}
	next := 0
	for start := 0; start < nodes; start++ {
		if label[start] != -1 || len(adjacent[start]) == 0 {
			continue
		}
		stack := []int{start}
		label[start] = next
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, m := range adjacent[n] {
				if label[m] == -1 {
					label[m] = next
					stack = append(stack, m)
				}
			}
		}
		next++
	}
	return label
}

func TestAddEdgeMatchesFloodFill(t *testing.T) {
	for trial := 0; trial < 20; trial++ {
		t.Run(strconv.Itoa(trial), func(t *testing.T) {
			r := rand.New(rand.NewSource(int64(trial)))
			nodes := 40
			g := NewConnectedComponentGraph(nodes)
			edges := make([][2]int, 0)
			for i := 0; i < 30; i++ {
				n1 := r.Intn(nodes)
				n2 := r.Intn(nodes)
				if n1 == n2 {
					continue
				}
				edges = append(edges, [2]int{n1, n2})
				g.AddEdge(n1, n2)
			}
			labels := naiveComponents(nodes, edges)

			sizes := make(map[int]int)
			for n := 0; n < nodes; n++ {
				if labels[n] >= 0 {
					sizes[labels[n]]++
				}
			}

			for n1 := 0; n1 < nodes; n1++ {
				if (labels[n1] >= 0) != g.Contains(n1) {
					t.Fatalf("node %v: expected membership %v", n1, labels[n1] >= 0)
				}
				if labels[n1] < 0 {
					continue
				}
				c := g.ComponentOf(n1)
				if g.CanonicalComponentID(c) != c {
					t.Fatalf("expected canonical id to be idempotent for %v", c)
				}
				if g.ComponentSize(c) != sizes[labels[n1]] {
					t.Fatalf("node %v: expected size %v but found %v", n1, sizes[labels[n1]], g.ComponentSize(c))
				}
				for n2 := 0; n2 < nodes; n2++ {
					if labels[n2] < 0 {
						continue
					}
					same := labels[n1] == labels[n2]
					if same != (g.ComponentOf(n2) == c) {
						t.Fatalf("nodes %v and %v: expected same component %v", n1, n2, same)
					}
				}
			}

			if len(edges) == 0 {
				return
			}
			maxSize := 0
			for _, s := range sizes {
				maxSize = max(maxSize, s)
			}
			node := g.NodeInLargestConnectedComponent(0, nodes)
			if node < 0 {
				t.Fatalf("expected a node in the largest component")
			}
			if g.ComponentSize(g.ComponentOf(node)) != maxSize {
				t.Fatalf("expected %v but found %v", maxSize, g.ComponentSize(g.ComponentOf(node)))
			}
		})
	}
}

func TestMergeKeepsSmallerID(t *testing.T) {
	g := NewConnectedComponentGraph(6)
	g.AddEdge(0, 1) // component 1
	g.AddEdge(2, 3) // component 2
	g.AddEdge(4, 5) // component 3
	g.AddEdge(5, 3) // 3 merges into 2
	g.AddEdge(1, 2) // 2 merges into 1

	for n := 0; n < 6; n++ {
		if g.ComponentOf(n) != 1 {
			t.Fatalf("node %v: expected %v but found %v", n, 1, g.ComponentOf(n))
		}
	}
	if g.ComponentSize(1) != 6 {
		t.Fatalf("expected %v but found %v", 6, g.ComponentSize(1))
	}
	if g.CanonicalComponentID(3) != 1 {
		t.Fatalf("expected %v but found %v", 1, g.CanonicalComponentID(3))
	}
}

func TestRemoveNodeAndSwap(t *testing.T) {
	g := NewConnectedComponentGraph(5)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.RemoveNode(1)
	if g.Contains(1) {
		t.Fatalf("expected node 1 to be removed")
	}
	if g.ComponentSize(g.ComponentOf(0)) != 2 {
		t.Fatalf("expected %v but found %v", 2, g.ComponentSize(g.ComponentOf(0)))
	}
	g.Swap(0, 4)
	if g.Contains(0) || !g.Contains(4) {
		t.Fatalf("expected swap to move membership from 0 to 4")
	}
	if node := g.NodeInLargestConnectedComponent(0, 5); node != 2 {
		t.Fatalf("expected %v but found %v", 2, node)
	}

	g.Reset()
	for n := 0; n < 5; n++ {
		if g.Contains(n) {
			t.Fatalf("expected node %v to be cleared", n)
		}
	}
	if g.NumComponents() != 0 {
		t.Fatalf("expected %v but found %v", 0, g.NumComponents())
	}
	c := g.CreateConnectedComponent()
	g.AddNode(3, c)
	if g.ComponentSize(c) != 1 {
		t.Fatalf("expected %v but found %v", 1, g.ComponentSize(c))
	}
}
