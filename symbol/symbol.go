package symbol

import (
	"bytes"
	"encoding/hex"

	"github.com/nathanhack/raptorq/octet"
)

//Symbol is one T octet unit of source, repair or intermediate data.
type Symbol struct {
	value []byte
}

//New wraps value without copying it.
func New(value []byte) *Symbol {
	return &Symbol{value: value}
}

func Zero(size int) *Symbol {
	return &Symbol{value: make([]byte, size)}
}

//Bytes returns the symbol's buffer. It aliases the symbol.
func (s *Symbol) Bytes() []byte {
	return s.value
}

func (s *Symbol) Len() int {
	return len(s.value)
}

//AddAssign computes s += other.
func (s *Symbol) AddAssign(other *Symbol) {
	octet.AddAssign(s.value, other.value)
}

//MulAssign computes s *= scalar.
func (s *Symbol) MulAssign(scalar octet.Octet) {
	octet.MulAssignScalar(s.value, scalar)
}

//FusedAddAssignMulScalar computes s += other * scalar.
func (s *Symbol) FusedAddAssignMulScalar(other *Symbol, scalar octet.Octet) {
	octet.FusedAddAssignMulScalar(s.value, other.value, scalar)
}

func (s *Symbol) Clone() *Symbol {
	return New(bytes.Clone(s.value))
}

func (s *Symbol) Equal(other *Symbol) bool {
	return bytes.Equal(s.value, other.value)
}

func (s *Symbol) String() string {
	return hex.EncodeToString(s.value)
}
