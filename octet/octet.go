package octet

import (
	"errors"
	"fmt"
)

//ErrDivisionByZero is the panic value used when dividing by Zero.
var ErrDivisionByZero = errors.New("octet: division by zero")

//Octet is an element of GF(256) using the RFC 6330 field polynomial x^8+x^4+x^3+x^2+1.
type Octet byte

const (
	Zero Octet = 0
	One  Octet = 1
)

var octetMul [256][256]byte

func init() {
	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			octetMul[a][b] = octetExp[int(octetLog[a])+int(octetLog[b])]
		}
	}
}

//Alpha returns alpha^i where alpha is the primitive element 2.
func Alpha(i int) Octet {
	if i < 0 {
		panic(fmt.Sprintf("octet: alpha exponent must be non-negative but found %v", i))
	}
	return Octet(octetExp[i%255])
}

func (o Octet) Add(other Octet) Octet {
	return o ^ other
}

//Sub is the same as Add in characteristic 2.
func (o Octet) Sub(other Octet) Octet {
	return o ^ other
}

func (o Octet) Mul(other Octet) Octet {
	return Octet(octetMul[o][other])
}

//Div returns o/other and panics with ErrDivisionByZero when other is Zero.
func (o Octet) Div(other Octet) Octet {
	if other == Zero {
		panic(ErrDivisionByZero)
	}
	if o == Zero {
		return Zero
	}
	return Octet(octetExp[255+int(octetLog[o])-int(octetLog[other])])
}

//Inverse returns 1/o.
func (o Octet) Inverse() Octet {
	return One.Div(o)
}

//FMA returns o + a*b.
func (o Octet) FMA(a, b Octet) Octet {
	return o ^ Octet(octetMul[a][b])
}

func (o Octet) String() string {
	return fmt.Sprintf("%v", byte(o))
}
