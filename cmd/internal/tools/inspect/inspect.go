package inspect

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nathanhack/raptorq"
	"github.com/nathanhack/raptorq/constraint"
	"github.com/nathanhack/raptorq/internal/gf2"
	"github.com/nathanhack/raptorq/matrix"
	"github.com/nathanhack/raptorq/systematic"
)

var (
	SourceSymbols uint
	ESIs          []uint
	Threads       uint
)

type Report struct {
	Parameters systematic.Parameters
	ISIs       []uint32
	BinaryRank int
}

func (r Report) String() string {
	return fmt.Sprintf("%v rows:%v binary rank:%v", r.Parameters, len(r.ISIs)+r.Parameters.S+r.Parameters.H, r.BinaryRank)
}

//Inspect builds the constraint matrix a receiver holding esis would solve and
//returns its parameters with the GF(2) rank of its binary rows.
func Inspect(ctx context.Context, sourceSymbols int, esis []uint32, threads int) (Report, error) {
	if sourceSymbols < 1 || sourceSymbols > systematic.MaxSourceSymbolsPerBlock {
		return Report{}, fmt.Errorf("symbols must be in [1, %v] but found %v", systematic.MaxSourceSymbolsPerBlock, sourceSymbols)
	}
	p := systematic.NewParameters(sourceSymbols)

	isis := make([]uint32, 0, p.KPrime)
	for i := p.K; i < p.KPrime; i++ {
		isis = append(isis, uint32(i))
	}
	for _, esi := range esis {
		if esi > raptorq.MaxEncodingSymbolID {
			return Report{}, fmt.Errorf("encoding symbol id %v is larger than %v", esi, raptorq.MaxEncodingSymbolID)
		}
		if int(esi) < p.K {
			isis = append(isis, esi)
		} else {
			isis = append(isis, esi+uint32(p.KPrime-p.K))
		}
	}
	if len(isis) < p.KPrime {
		return Report{}, fmt.Errorf("%v symbols cannot determine a block of %v symbols", len(esis), p.K)
	}

	a, _ := constraint.GenerateConstraintMatrix(p.K, isis, matrix.FactoryFor(p.K))
	rank := gf2.BinaryRank(ctx, a, p.S, p.H, threads)
	if rank < 0 {
		return Report{}, ctx.Err()
	}

	return Report{
		Parameters: p,
		ISIs:       isis,
		BinaryRank: rank,
	}, nil
}

var InspectRun = func(cmd *cobra.Command, args []string) {
	esis := make([]uint32, 0, len(ESIs))
	for _, esi := range ESIs {
		esis = append(esis, uint32(esi))
	}
	if len(esis) == 0 {
		for i := 0; i < int(SourceSymbols); i++ {
			esis = append(esis, uint32(i))
		}
	}

	threads := int(Threads)
	if threads == 0 {
		threads = raptorq.DefaultThreads()
	}

	report, err := Inspect(context.Background(), int(SourceSymbols), esis, threads)
	if err != nil {
		fmt.Println(err)
		return
	}
	logrus.Debugf("ISIs: %v", report.ISIs)

	fmt.Println(report)
	if report.BinaryRank < report.Parameters.L-report.Parameters.H {
		fmt.Printf("the binary rows are %v short of full rank, the HDPC rows must cover them\n", report.Parameters.L-report.Parameters.H-report.BinaryRank)
	}
}
