package chart

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/nathanhack/raptorq/cmd/internal/tools"
)

var OutputFile string
var Value string

var axisNames = map[string]string{
	"failure": "Block Failure Probability",
	"add":     "Symbol Adds per Source Symbol",
	"mul":     "Symbol Muls per Source Symbol",
	"median":  "Median Decode Seconds",
}

var ChartRun = func(cmd *cobra.Command, args []string) {
	yName, has := axisNames[Value]
	if !has {
		fmt.Printf("unknown value %v, expected one of %v\n", Value, tools.Values)
		return
	}

	results, probabilities, err := tools.LoadAllResults(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	f, err := os.Create(OutputFile)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	bar := newBar(yName, probabilities)
	for i, r := range results {
		bar.AddSeries(fmt.Sprintf("%v (%v)", args[i], r.CodeInfo), series(r, probabilities, Value))
	}

	err = bar.Render(f)
	if err != nil {
		fmt.Println(err)
	}
}

func newBar(yName string, probabilities []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "RaptorQ Erasure Results",
			Subtitle: yName,
			Left:     "20%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true,
			Orient: "vertical",
			Right:  "0",
			Top:    "top",
			Type:   "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Packet Loss Probability",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yName,
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	names := make([]string, len(probabilities))
	for i, p := range probabilities {
		names[i] = strconv.FormatFloat(p, 'g', -1, 64)
	}
	bar.SetXAxis(names)
	return bar
}

//series returns one bar per probability; missing stats are left as gaps.
func series(r *tools.SimulationStats, probabilities []float64, value string) []opts.BarData {
	results := make([]opts.BarData, len(probabilities))
	for i, p := range probabilities {
		stats, has := r.Stats[p]
		if !has {
			continue
		}
		y, err := tools.StatValue(stats, value)
		if err != nil {
			continue
		}
		results[i] = opts.BarData{Value: y}
	}
	return results
}
