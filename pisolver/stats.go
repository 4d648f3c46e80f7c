package pisolver

import "fmt"

//NumPhases is the number of decoding phases.
const NumPhases = 5

//Stats counts the symbol operations a decode recorded, in total and per phase.
//A fused multiply add counts as both an addition and a multiplication.
type Stats struct {
	AddOps        int
	MulOps        int
	AddOpsByPhase [NumPhases]int
	MulOpsByPhase [NumPhases]int
}

func (s Stats) String() string {
	return fmt.Sprintf("add=%v mul=%v addByPhase=%v mulByPhase=%v", s.AddOps, s.MulOps, s.AddOpsByPhase, s.MulOpsByPhase)
}
