package pisolver

import "fmt"

type rowOpKind uint8

const (
	addAssignRowOp rowOpKind = iota
	swapRowOp
)

//rowOp is a first phase operation on the binary rows. For swaps src and dest are the swapped rows.
type rowOp struct {
	kind rowOpKind
	src  int
	dest int
}

func (op rowOp) String() string {
	if op.kind == swapRowOp {
		return fmt.Sprintf("Swap(%v, %v)", op.src, op.dest)
	}
	return fmt.Sprintf("AddAssign(%v <- %v)", op.dest, op.src)
}

//pruneRowOps rewrites ops in terms of the final row order and keeps only the additions into the
//first i rows. These are the operations that reduce X to the identity (Errata 9).
func pruneRowOps(ops []rowOp, i, height int) []rowOp {
	mapping := identity(height)
	result := make([]rowOp, 0, len(ops))
	for n := len(ops) - 1; n >= 0; n-- {
		op := ops[n]
		switch op.kind {
		case swapRowOp:
			mapping[op.src], mapping[op.dest] = mapping[op.dest], mapping[op.src]
		case addAssignRowOp:
			if mapping[op.src] >= i {
				panic(fmt.Sprintf("pisolver: %v adds from row %v outside of X", op, mapping[op.src]))
			}
			if mapping[op.dest] < i {
				result = append(result, rowOp{kind: addAssignRowOp, src: mapping[op.src], dest: mapping[op.dest]})
			}
		}
	}
	for l, r := 0, len(result)-1; l < r; l, r = l+1, r-1 {
		result[l], result[r] = result[r], result[l]
	}
	return result
}
