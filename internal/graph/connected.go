package graph

import "fmt"

//NoComponent is the component id of a node that belongs to no component.
const NoComponent = 0

//ConnectedComponentGraph tracks which component each node is in as edges are added.
//Merged components are resolved lazily through merged; the smaller id always survives a merge.
type ConnectedComponentGraph struct {
	nodeComponent []int
	// merged[id] is the id that id was merged into, or id itself when it is canonical.
	merged        []int
	sizes         []int
	numComponents int
}

func NewConnectedComponentGraph(maxNodes int) *ConnectedComponentGraph {
	return &ConnectedComponentGraph{
		nodeComponent: make([]int, maxNodes),
		merged:        []int{NoComponent},
		sizes:         []int{0},
	}
}

func (g *ConnectedComponentGraph) NumComponents() int {
	return g.numComponents
}

//CreateConnectedComponent returns a new, empty component.
func (g *ConnectedComponentGraph) CreateConnectedComponent() int {
	g.numComponents++
	id := NoComponent + g.numComponents
	if id < len(g.merged) {
		g.merged[id] = id
		g.sizes[id] = 0
	} else {
		g.merged = append(g.merged, id)
		g.sizes = append(g.sizes, 0)
	}
	return id
}

func (g *ConnectedComponentGraph) AddNode(node, component int) {
	if component <= NoComponent || component > g.numComponents {
		panic(fmt.Sprintf("graph: component %v does not exist", component))
	}
	if g.nodeComponent[node] != NoComponent {
		panic(fmt.Sprintf("graph: node %v already belongs to component %v", node, g.nodeComponent[node]))
	}
	canonical := g.CanonicalComponentID(component)
	g.nodeComponent[node] = canonical
	g.sizes[canonical]++
}

func (g *ConnectedComponentGraph) Swap(node1, node2 int) {
	g.nodeComponent[node1], g.nodeComponent[node2] = g.nodeComponent[node2], g.nodeComponent[node1]
}

func (g *ConnectedComponentGraph) Contains(node int) bool {
	return g.nodeComponent[node] != NoComponent
}

func (g *ConnectedComponentGraph) RemoveNode(node int) {
	component := g.CanonicalComponentID(g.nodeComponent[node])
	if component == NoComponent {
		return
	}
	g.sizes[component]--
	g.nodeComponent[node] = NoComponent
}

//ComponentSize returns the number of nodes in the component that id resolves to.
func (g *ConnectedComponentGraph) ComponentSize(id int) int {
	return g.sizes[g.CanonicalComponentID(id)]
}

//ComponentOf returns the canonical component of node.
func (g *ConnectedComponentGraph) ComponentOf(node int) int {
	return g.CanonicalComponentID(g.nodeComponent[node])
}

//NodeInLargestConnectedComponent returns the first node in [startNode,endNode) that is in
//the largest component, or -1 if none of them are.
func (g *ConnectedComponentGraph) NodeInLargestConnectedComponent(startNode, endNode int) int {
	maxSize := 0
	largest := NoComponent
	for id := NoComponent + 1; id <= g.numComponents; id++ {
		if g.sizes[id] > maxSize {
			maxSize = g.sizes[id]
			largest = id
		}
	}
	if largest == NoComponent {
		panic("graph: no connected component has any nodes")
	}

	for node := startNode; node < endNode; node++ {
		if g.CanonicalComponentID(g.nodeComponent[node]) == largest {
			return node
		}
	}
	return -1
}

func (g *ConnectedComponentGraph) AddEdge(node1, node2 int) {
	c1 := g.CanonicalComponentID(g.nodeComponent[node1])
	c2 := g.CanonicalComponentID(g.nodeComponent[node2])
	switch {
	case c1 == NoComponent && c2 == NoComponent:
		id := g.CreateConnectedComponent()
		g.nodeComponent[node1] = id
		g.nodeComponent[node2] = id
		g.sizes[id] = 2
	case c1 == NoComponent:
		g.sizes[c2]++
		g.nodeComponent[node1] = c2
	case c2 == NoComponent:
		g.sizes[c1]++
		g.nodeComponent[node2] = c1
	case c1 != c2:
		to, from := min(c1, c2), max(c1, c2)
		g.sizes[to] += g.sizes[from]
		g.sizes[from] = 0
		g.merged[from] = to
	}
}

//CanonicalComponentID follows merges from id to the surviving component.
//The chain is compressed as it is walked.
func (g *ConnectedComponentGraph) CanonicalComponentID(id int) int {
	if id == NoComponent {
		return id
	}
	root := id
	for g.merged[root] != root {
		root = g.merged[root]
	}
	for g.merged[id] != root {
		next := g.merged[id]
		g.merged[id] = root
		id = next
	}
	return root
}

//Reset removes every node and component.
func (g *ConnectedComponentGraph) Reset() {
	for id := NoComponent + 1; id <= g.numComponents; id++ {
		g.sizes[id] = 0
		g.merged[id] = id
	}
	g.numComponents = 0
	clear(g.nodeComponent)
}
