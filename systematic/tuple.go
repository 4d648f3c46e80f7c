package systematic

import "fmt"

//Rand is the RFC 6330 section 5.3.5.1 pseudo-random generator. m must be positive.
func Rand(y, i, m uint32) uint32 {
	x0 := (y + i) % 256
	x1 := ((y >> 8) + i) % 256
	x2 := ((y >> 16) + i) % 256
	x3 := ((y >> 24) + i) % 256
	return (v0[x0] ^ v1[x1] ^ v2[x2] ^ v3[x3]) % m
}

//Deg maps v in [0,2^20) to an LT degree, capped at ltSymbols-2 (RFC 6330 section 5.3.5.2).
func Deg(v uint32, ltSymbols int) int {
	if v >= degreeDistribution[len(degreeDistribution)-1] {
		panic(fmt.Sprintf("systematic: degree input must be below 2^20 but found %v", v))
	}
	for d := 1; d < len(degreeDistribution); d++ {
		if v < degreeDistribution[d] {
			return min(d, ltSymbols-2)
		}
	}
	panic("unreachable")
}

//Tuple is the output of RFC 6330 section 5.3.5.4 for one internal symbol id.
type Tuple struct {
	D, A, B    int
	D1, A1, B1 int
}

//NewTuple computes Tuple[K', X] for internal symbol id isi of a block of sourceBlockSymbols symbols.
func NewTuple(sourceBlockSymbols int, isi uint32) Tuple {
	p := NewParameters(sourceBlockSymbols)
	return newTuple(p, isi)
}

func newTuple(p Parameters, isi uint32) Tuple {
	j := uint32(p.J)
	a := 53591 + j*997
	if a%2 == 0 {
		a++
	}
	b := 10267 * (j + 1)
	y := b + isi*a
	v := Rand(y, 0, 1<<20)
	d := Deg(v, p.W)
	ta := 1 + int(Rand(y, 1, uint32(p.W-1)))
	tb := int(Rand(y, 2, uint32(p.W)))
	d1 := 2
	if d < 4 {
		d1 = 2 + int(Rand(isi, 3, 2))
	}
	a1 := 1 + int(Rand(isi, 4, uint32(p.P1-1)))
	b1 := int(Rand(isi, 5, uint32(p.P1)))
	return Tuple{D: d, A: ta, B: tb, D1: d1, A1: a1, B1: b1}
}

//EncIndices returns the intermediate symbols that Enc[] XORs together for isi: d LT indices in [0,W)
//followed by d1 PI indices in [W,L).
func EncIndices(sourceBlockSymbols int, isi uint32) []int {
	p := NewParameters(sourceBlockSymbols)
	return tupleIndices(p, newTuple(p, isi))
}

func tupleIndices(p Parameters, t Tuple) []int {
	if t.D <= 0 || t.A < 1 || t.A >= p.W || t.B >= p.W || t.D1 < 2 || t.D1 > 3 || t.A1 < 1 || t.A1 >= p.P1 || t.B1 >= p.P1 {
		panic(fmt.Sprintf("systematic: invalid tuple %+v for %v", t, p))
	}
	indices := make([]int, 0, t.D+t.D1)

	b := t.B
	indices = append(indices, b)
	for j := 1; j < t.D; j++ {
		b = (b + t.A) % p.W
		indices = append(indices, b)
	}

	b1 := t.B1
	for b1 >= p.P {
		b1 = (b1 + t.A1) % p.P1
	}
	indices = append(indices, p.W+b1)
	for j := 1; j < t.D1; j++ {
		b1 = (b1 + t.A1) % p.P1
		for b1 >= p.P {
			b1 = (b1 + t.A1) % p.P1
		}
		indices = append(indices, p.W+b1)
	}
	return indices
}

//Tuple computes Tuple[K', X] for isi.
func (p Parameters) Tuple(isi uint32) Tuple {
	return newTuple(p, isi)
}

//EncIndices is EncIndices without the table lookup.
func (p Parameters) EncIndices(isi uint32) []int {
	return tupleIndices(p, newTuple(p, isi))
}
