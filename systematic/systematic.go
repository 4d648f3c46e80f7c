package systematic

import (
	"fmt"
	"sort"
)

//MaxSourceSymbolsPerBlock is the largest K' in the systematic index table.
const MaxSourceSymbolsPerBlock = 56403

var p1Values []int

func init() {
	p1Values = make([]int, len(systematicIndices))
	for i, p := range systematicIndices {
		p1Values[i] = nextPrime(p.kPrime + p.s + p.h - p.w)
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

//nextPrime returns the smallest prime >= n.
func nextPrime(n int) int {
	for !isPrime(n) {
		n++
	}
	return n
}

func lookupIndex(sourceBlockSymbols int) int {
	if sourceBlockSymbols < 1 || sourceBlockSymbols > MaxSourceSymbolsPerBlock {
		panic(fmt.Sprintf("systematic: source block symbols must be in [1,%v] but found %v", MaxSourceSymbolsPerBlock, sourceBlockSymbols))
	}
	return sort.Search(len(systematicIndices), func(i int) bool {
		return systematicIndices[i].kPrime >= sourceBlockSymbols
	})
}

//ExtendedSourceBlockSymbols returns K', the smallest table entry >= K.
func ExtendedSourceBlockSymbols(sourceBlockSymbols int) int {
	return systematicIndices[lookupIndex(sourceBlockSymbols)].kPrime
}

//SystematicIndex returns J(K').
func SystematicIndex(sourceBlockSymbols int) int {
	return systematicIndices[lookupIndex(sourceBlockSymbols)].j
}

//NumLDPCSymbols returns S.
func NumLDPCSymbols(sourceBlockSymbols int) int {
	return systematicIndices[lookupIndex(sourceBlockSymbols)].s
}

//NumHDPCSymbols returns H.
func NumHDPCSymbols(sourceBlockSymbols int) int {
	return systematicIndices[lookupIndex(sourceBlockSymbols)].h
}

//NumLTSymbols returns W.
func NumLTSymbols(sourceBlockSymbols int) int {
	return systematicIndices[lookupIndex(sourceBlockSymbols)].w
}

//NumIntermediateSymbols returns L = K'+S+H.
func NumIntermediateSymbols(sourceBlockSymbols int) int {
	p := systematicIndices[lookupIndex(sourceBlockSymbols)]
	return p.kPrime + p.s + p.h
}

//NumPISymbols returns P = L-W.
func NumPISymbols(sourceBlockSymbols int) int {
	p := systematicIndices[lookupIndex(sourceBlockSymbols)]
	return p.kPrime + p.s + p.h - p.w
}

//P1 returns the smallest prime >= P.
func P1(sourceBlockSymbols int) int {
	return p1Values[lookupIndex(sourceBlockSymbols)]
}

//Parameters gathers the derived constants of one source block.
type Parameters struct {
	K      int // source symbols
	KPrime int // extended source symbols
	J      int
	S      int // LDPC symbols
	H      int // HDPC symbols
	W      int // LT symbols
	L      int // intermediate symbols
	P      int // PI symbols
	P1     int
	B      int // W-S
}

func NewParameters(sourceBlockSymbols int) Parameters {
	index := lookupIndex(sourceBlockSymbols)
	p := systematicIndices[index]
	return Parameters{
		K:      sourceBlockSymbols,
		KPrime: p.kPrime,
		J:      p.j,
		S:      p.s,
		H:      p.h,
		W:      p.w,
		L:      p.kPrime + p.s + p.h,
		P:      p.kPrime + p.s + p.h - p.w,
		P1:     p1Values[index],
		B:      p.w - p.s,
	}
}

func (p Parameters) String() string {
	return fmt.Sprintf("K=%v K'=%v J=%v S=%v H=%v W=%v L=%v P=%v P1=%v", p.K, p.KPrime, p.J, p.S, p.H, p.W, p.L, p.P, p.P1)
}

//Partition splits i items into j groups: jl groups of il items and js groups of is items (RFC 6330 section 4.4.1.2).
func Partition(i, j int) (il, is, jl, js int) {
	if j <= 0 {
		panic(fmt.Sprintf("systematic: cannot partition into %v groups", j))
	}
	il = (i + j - 1) / j
	is = i / j
	jl = i - is*j
	js = j - jl
	return
}

//LargestExtendedSourceBlockSymbols returns the largest K' in the table that is at most limit, or 0.
func LargestExtendedSourceBlockSymbols(limit int) int {
	index := sort.Search(len(systematicIndices), func(i int) bool {
		return systematicIndices[i].kPrime > limit
	})
	if index == 0 {
		return 0
	}
	return systematicIndices[index-1].kPrime
}
