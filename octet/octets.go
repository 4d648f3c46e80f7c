package octet

import (
	"crypto/subtle"
	"fmt"
)

func checkLengths(op string, dst, src int) {
	if dst != src {
		panic(fmt.Sprintf("octet: %v requires equal lengths but found %v and %v", op, dst, src))
	}
}

//AddAssign computes dst += src.
func AddAssign(dst, src []byte) {
	checkLengths("AddAssign", len(dst), len(src))
	subtle.XORBytes(dst, dst, src)
}

//MulAssignScalar computes dst *= scalar.
func MulAssignScalar(dst []byte, scalar Octet) {
	switch scalar {
	case One:
		return
	case Zero:
		clear(dst)
		return
	}
	row := &octetMul[scalar]
	for i, v := range dst {
		dst[i] = row[v]
	}
}

//FusedAddAssignMulScalar computes dst += src * scalar.
func FusedAddAssignMulScalar(dst, src []byte, scalar Octet) {
	checkLengths("FusedAddAssignMulScalar", len(dst), len(src))
	switch scalar {
	case Zero:
		return
	case One:
		subtle.XORBytes(dst, dst, src)
		return
	}
	row := &octetMul[scalar]
	for i, v := range src {
		dst[i] ^= row[v]
	}
}

//AddAssignBinary computes dst += src where src holds 0/1 octets packed as bits.
func AddAssignBinary(dst []byte, src *BinaryOctetVec) {
	checkLengths("AddAssignBinary", len(dst), src.Len())
	for i := range dst {
		if src.Get(i) {
			dst[i] ^= 1
		}
	}
}

//FusedAddAssignMulScalarBinary computes dst += src * scalar where src holds 0/1 octets packed as bits.
func FusedAddAssignMulScalarBinary(dst []byte, src *BinaryOctetVec, scalar Octet) {
	checkLengths("FusedAddAssignMulScalarBinary", len(dst), src.Len())
	if scalar == Zero {
		return
	}
	s := byte(scalar)
	for i := range dst {
		if src.Get(i) {
			dst[i] ^= s
		}
	}
}
