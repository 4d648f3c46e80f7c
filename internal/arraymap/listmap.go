package arraymap

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type pair struct {
	key, value int
}

//ListMapBuilder collects (key, value) pairs for an ImmutableListMap with keys in [0,numKeys).
type ListMapBuilder struct {
	numKeys int
	entries []pair
}

func NewListMapBuilder(numKeys, expectedEntries int) *ListMapBuilder {
	return &ListMapBuilder{
		numKeys: numKeys,
		entries: make([]pair, 0, expectedEntries),
	}
}

func (b *ListMapBuilder) Add(key, value int) {
	if key < 0 || key >= b.numKeys {
		panic(fmt.Sprintf("arraymap: key %v out of range [0,%v)", key, b.numKeys))
	}
	b.entries = append(b.entries, pair{key, value})
}

//Build sorts the entries and packs them into offsets + values.
func (b *ListMapBuilder) Build() *ImmutableListMap {
	slices.SortFunc(b.entries, func(x, y pair) int {
		if x.key != y.key {
			return x.key - y.key
		}
		return x.value - y.value
	})

	offsets := make([]int, b.numKeys+1)
	values := make([]int, len(b.entries))
	for i, e := range b.entries {
		offsets[e.key+1]++
		values[i] = e.value
	}
	for k := 0; k < b.numKeys; k++ {
		offsets[k+1] += offsets[k]
	}
	return &ImmutableListMap{offsets: offsets, values: values}
}

//ImmutableListMap maps each key to a list of values, stored CSR style.
type ImmutableListMap struct {
	offsets []int
	values  []int
}

func (m *ImmutableListMap) NumKeys() int {
	return len(m.offsets) - 1
}

//Get returns the values for key in ascending order. The slice must not be modified.
func (m *ImmutableListMap) Get(key int) []int {
	return m.values[m.offsets[key]:m.offsets[key+1]]
}
