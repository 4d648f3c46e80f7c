package symbol

import (
	"fmt"

	"github.com/nathanhack/raptorq/octet"
)

type OpKind uint8

const (
	AddAssignOp OpKind = iota
	MulAssignOp
	FMAOp
	ReorderOp
)

func (k OpKind) String() string {
	switch k {
	case AddAssignOp:
		return "AddAssign"
	case MulAssignOp:
		return "MulAssign"
	case FMAOp:
		return "FMA"
	case ReorderOp:
		return "Reorder"
	}
	return fmt.Sprintf("OpKind(%v)", uint8(k))
}

//Op is one recorded row operation on a symbol array. Only the fields of its Kind are used.
type Op struct {
	Kind   OpKind
	Dest   int
	Src    int
	Scalar octet.Octet
	Order  []int
}

//AddAssign records symbols[dest] += symbols[src].
func AddAssign(dest, src int) Op {
	return Op{Kind: AddAssignOp, Dest: dest, Src: src}
}

//MulAssign records symbols[dest] *= scalar.
func MulAssign(dest int, scalar octet.Octet) Op {
	return Op{Kind: MulAssignOp, Dest: dest, Scalar: scalar}
}

//FMA records symbols[dest] += symbols[src] * scalar.
func FMA(dest, src int, scalar octet.Octet) Op {
	return Op{Kind: FMAOp, Dest: dest, Src: src, Scalar: scalar}
}

//Reorder records symbols[i] = old symbols[order[i]].
func Reorder(order []int) Op {
	return Op{Kind: ReorderOp, Order: order}
}

//Apply performs the operation on symbols in place.
func (op Op) Apply(symbols []*Symbol) {
	switch op.Kind {
	case AddAssignOp:
		symbols[op.Dest].AddAssign(symbols[op.Src])
	case MulAssignOp:
		symbols[op.Dest].MulAssign(op.Scalar)
	case FMAOp:
		symbols[op.Dest].FusedAddAssignMulScalar(symbols[op.Src], op.Scalar)
	case ReorderOp:
		if len(op.Order) != len(symbols) {
			panic(fmt.Sprintf("symbol: reorder of %v symbols with %v indices", len(symbols), len(op.Order)))
		}
		reordered := make([]*Symbol, len(symbols))
		for i, from := range op.Order {
			reordered[i] = symbols[from]
		}
		copy(symbols, reordered)
	default:
		panic(fmt.Sprintf("symbol: unknown op %v", op.Kind))
	}
}

func (op Op) String() string {
	switch op.Kind {
	case AddAssignOp:
		return fmt.Sprintf("%v(%v, %v)", op.Kind, op.Dest, op.Src)
	case MulAssignOp:
		return fmt.Sprintf("%v(%v, %v)", op.Kind, op.Dest, op.Scalar)
	case FMAOp:
		return fmt.Sprintf("%v(%v, %v, %v)", op.Kind, op.Dest, op.Src, op.Scalar)
	}
	return fmt.Sprintf("%v(%v)", op.Kind, op.Order)
}

//Apply replays ops in order.
func Apply(ops []Op, symbols []*Symbol) {
	for _, op := range ops {
		op.Apply(symbols)
	}
}
