package octet

import (
	"fmt"
	"math/bits"
)

const WordWidth = 64

//BinaryOctetVec is a vector of octets that are each either 0 or 1, packed one per bit.
//Bits are left padded: element i lives at bit i+padding of the word slice so that
//the last element always sits in the last bit of the last word.
type BinaryOctetVec struct {
	elements []uint64
	length   int
}

//NewBinaryOctetVec wraps the words. len(elements) must equal ceil(length/64).
func NewBinaryOctetVec(elements []uint64, length int) *BinaryOctetVec {
	if len(elements) != (length+WordWidth-1)/WordWidth {
		panic(fmt.Sprintf("octet: %v bits require %v words but found %v", length, (length+WordWidth-1)/WordWidth, len(elements)))
	}
	return &BinaryOctetVec{elements: elements, length: length}
}

//SelectMask returns the mask selecting bit within its word.
func SelectMask(bit int) uint64 {
	return uint64(1) << (bit % WordWidth)
}

func (v *BinaryOctetVec) padding() int {
	return (WordWidth - v.length%WordWidth) % WordWidth
}

func (v *BinaryOctetVec) Len() int {
	return v.length
}

func (v *BinaryOctetVec) Get(i int) bool {
	if i < 0 || i >= v.length {
		panic(fmt.Sprintf("octet: index %v out of range [0,%v)", i, v.length))
	}
	bit := i + v.padding()
	return v.elements[bit/WordWidth]&SelectMask(bit) != 0
}

//CountOnes returns the number of 1 elements.
func (v *BinaryOctetVec) CountOnes() int {
	count := 0
	for _, w := range v.elements {
		count += bits.OnesCount64(w)
	}
	return count
}

//ToOctets expands the vector to one byte per element.
func (v *BinaryOctetVec) ToOctets() []byte {
	result := make([]byte, v.length)
	for i := range result {
		if v.Get(i) {
			result[i] = 1
		}
	}
	return result
}

func (v *BinaryOctetVec) String() string {
	return fmt.Sprintf("%v", v.ToOctets())
}
