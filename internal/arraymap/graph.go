package arraymap

import (
	"fmt"

	"golang.org/x/exp/slices"
)

//UndirectedGraph is a static adjacency list over nodes in [startNode,endNode).
//Add all edges and then call Build before querying.
type UndirectedGraph struct {
	startNode int
	edges     []pair
	starts    []int
	built     bool
}

func NewUndirectedGraph(startNode, endNode, expectedEdges int) *UndirectedGraph {
	if endNode < startNode {
		panic(fmt.Sprintf("arraymap: graph range [%v,%v) is invalid", startNode, endNode))
	}
	return &UndirectedGraph{
		startNode: startNode,
		edges:     make([]pair, 0, 2*expectedEdges),
		starts:    make([]int, endNode-startNode+1),
	}
}

func (g *UndirectedGraph) checkNode(node int) {
	if node < g.startNode || node >= g.startNode+len(g.starts)-1 {
		panic(fmt.Sprintf("arraymap: node %v out of range [%v,%v)", node, g.startNode, g.startNode+len(g.starts)-1))
	}
}

func (g *UndirectedGraph) AddEdge(node1, node2 int) {
	g.checkNode(node1)
	g.checkNode(node2)
	g.edges = append(g.edges, pair{node1, node2}, pair{node2, node1})
	g.built = false
}

func (g *UndirectedGraph) Build() {
	slices.SortFunc(g.edges, func(x, y pair) int {
		if x.key != y.key {
			return x.key - y.key
		}
		return x.value - y.value
	})
	clear(g.starts)
	for _, e := range g.edges {
		g.starts[e.key-g.startNode+1]++
	}
	for k := 1; k < len(g.starts); k++ {
		g.starts[k] += g.starts[k-1]
	}
	g.built = true
}

//Nodes returns, in ascending order, every node that has at least one edge.
func (g *UndirectedGraph) Nodes() []int {
	g.mustBeBuilt()
	result := make([]int, 0)
	for i := 0; i+1 < len(g.starts); i++ {
		if g.starts[i+1] > g.starts[i] {
			result = append(result, g.startNode+i)
		}
	}
	return result
}

//AdjacentNodes returns the neighbours of node. The slice is freshly allocated.
func (g *UndirectedGraph) AdjacentNodes(node int) []int {
	g.mustBeBuilt()
	g.checkNode(node)
	i := node - g.startNode
	result := make([]int, 0, g.starts[i+1]-g.starts[i])
	for _, e := range g.edges[g.starts[i]:g.starts[i+1]] {
		result = append(result, e.value)
	}
	return result
}

func (g *UndirectedGraph) mustBeBuilt() {
	if !g.built {
		panic("arraymap: graph must be built before it is queried")
	}
}
