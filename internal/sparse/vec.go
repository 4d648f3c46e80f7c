package sparse

import (
	"fmt"

	"golang.org/x/exp/slices"
)

//BinaryVec is a row of a GF(2) matrix stored as the sorted columns holding a one.
type BinaryVec struct {
	elements []int
}

func NewBinaryVec(capacity int) *BinaryVec {
	return &BinaryVec{elements: make([]int, 0, capacity)}
}

//Len returns the number of ones.
func (v *BinaryVec) Len() int {
	return len(v.elements)
}

//At returns the column of the i'th one.
func (v *BinaryVec) At(i int) int {
	return v.elements[i]
}

//Columns returns the columns of the ones in ascending order. The slice must not be modified.
func (v *BinaryVec) Columns() []int {
	return v.elements
}

func (v *BinaryVec) Get(col int) bool {
	_, found := slices.BinarySearch(v.elements, col)
	return found
}

//Insert sets col to one.
func (v *BinaryVec) Insert(col int) {
	i, found := slices.BinarySearch(v.elements, col)
	if found {
		return
	}
	v.elements = slices.Insert(v.elements, i, col)
}

//Remove sets col to zero and reports whether it was one.
func (v *BinaryVec) Remove(col int) bool {
	i, found := slices.BinarySearch(v.elements, col)
	if !found {
		return false
	}
	v.elements = slices.Delete(v.elements, i, i+1)
	return true
}

//Retain keeps only the columns for which keep returns true.
func (v *BinaryVec) Retain(keep func(col int) bool) {
	n := 0
	for _, col := range v.elements {
		if keep(col) {
			v.elements[n] = col
			n++
		}
	}
	v.elements = v.elements[:n]
}

//AddAssign XORs other into v and reports whether any column of other was not already in v.
func (v *BinaryVec) AddAssign(other *BinaryVec) bool {
	if len(other.elements) == 1 {
		col := other.elements[0]
		i, found := slices.BinarySearch(v.elements, col)
		if found {
			v.elements = slices.Delete(v.elements, i, i+1)
			return false
		}
		v.elements = slices.Insert(v.elements, i, col)
		return true
	}

	result := make([]int, 0, len(v.elements)+len(other.elements))
	added := false
	i, j := 0, 0
	for i < len(v.elements) && j < len(other.elements) {
		switch {
		case v.elements[i] < other.elements[j]:
			result = append(result, v.elements[i])
			i++
		case v.elements[i] > other.elements[j]:
			result = append(result, other.elements[j])
			added = true
			j++
		default:
			i++
			j++
		}
	}
	result = append(result, v.elements[i:]...)
	if j < len(other.elements) {
		result = append(result, other.elements[j:]...)
		added = true
	}
	v.elements = result
	return added
}

func (v *BinaryVec) Clone() *BinaryVec {
	return &BinaryVec{elements: slices.Clone(v.elements)}
}

func (v *BinaryVec) String() string {
	return fmt.Sprintf("%v", v.elements)
}
