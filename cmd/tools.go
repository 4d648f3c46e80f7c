package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nathanhack/raptorq/cmd/internal/tools/bench"
	"github.com/nathanhack/raptorq/cmd/internal/tools/chart"
	"github.com/nathanhack/raptorq/cmd/internal/tools/compare"
	"github.com/nathanhack/raptorq/cmd/internal/tools/csv"
	"github.com/nathanhack/raptorq/cmd/internal/tools/inspect"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"t"},
	Short:   "Tools for RaptorQ",
	Long:    `Tools to benchmark, inspect and compare the RaptorQ solver`,
}

// toolsBenchCmd represents the bench command
var toolsBenchCmd = &cobra.Command{
	Use:     "bench RESULTS_JSON",
	Aliases: []string{"b"},
	Short:   "An erasure channel simulator",
	Long: `Encodes random source blocks, drops packets at each probability and records the
decode failures, solver ops and decode times. An existing RESULTS_JSON is continued.`,
	Args: cobra.ExactArgs(1),
	Run:  bench.BenchRun,
}

// toolsResultsCmd represents the results command
var toolsResultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"r"},
	Short:   "A tool to organize results for graphing and comparison",
	Long:    `A tool to organize results for graphing and comparison`,
}

// toolsCSVCmd represents the csv command
var toolsCSVCmd = &cobra.Command{
	Use:     "csv RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"c"},
	Short:   "Export to a CSV file",
	Long:    `Export to a CSV file`,
	Args:    cobra.MinimumNArgs(1),
	Run:     csv.CSVRun,
}

// toolsChartCmd represents the chart command
var toolsChartCmd = &cobra.Command{
	Use:     "chart RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"ch"},
	Short:   "Export to an HTML bar chart",
	Long:    `Export to an HTML bar chart`,
	Args:    cobra.MinimumNArgs(1),
	Run:     chart.ChartRun,
}

// toolsInspectCmd represents the inspect command
var toolsInspectCmd = &cobra.Command{
	Use:     "inspect",
	Aliases: []string{"i"},
	Short:   "Prints the block parameters and the GF(2) rank of the constraint matrix",
	Long: `Prints K', S, H, W, L, P and P1 for a source block and the GF(2) rank of the
binary rows of the constraint matrix built from the given ESIs.`,
	Args: cobra.NoArgs,
	Run:  inspect.InspectRun,
}

// toolsCompareCmd represents the compare command
var toolsCompareCmd = &cobra.Command{
	Use:   "compare INPUT_FILE",
	Short: "Compares the encoded symbols with github.com/xssnick/raptorq",
	Long:  `Encodes INPUT_FILE as one source block with both encoders and tries decoding each from the other's packets.`,
	Args:  cobra.ExactArgs(1),
	Run:   compare.CompareRun,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsBenchCmd)
	toolsCmd.AddCommand(toolsResultsCmd)
	toolsCmd.AddCommand(toolsInspectCmd)
	toolsCmd.AddCommand(toolsCompareCmd)

	toolsBenchCmd.Flags().UintVarP(&bench.SourceSymbols, "symbols", "k", 100, "the number of source symbols in the block")
	toolsBenchCmd.Flags().UintVarP(&bench.SymbolSize, "symbol-size", "s", 64, "the symbol size in bytes")
	toolsBenchCmd.Flags().UintVarP(&bench.Repair, "repair", "r", 10, "the number of repair packets sent with the block")
	toolsBenchCmd.Flags().UintVarP(&bench.Trials, "trials", "t", 10_000, "the number of trials per step")
	toolsBenchCmd.Flags().Float64SliceVarP(&bench.ErrorProbability, "probability", "p", []float64{0.01, 0.02, 0.04, 0.06, 0.08, 0.1}, "probability of erasure [0, 1)")
	toolsBenchCmd.Flags().UintVar(&bench.Threads, "threads", 0, "number of threads to use (0 means to use the # of physical cores)")

	toolsResultsCmd.AddCommand(toolsCSVCmd)
	toolsCSVCmd.Flags().StringVarP(&csv.OutputFile, "output", "o", "results.csv", "filename of the combined csv")
	toolsCSVCmd.Flags().StringVar(&csv.Value, "value", "failure", "the value to output: failure, add, mul or median")

	toolsResultsCmd.AddCommand(toolsChartCmd)
	toolsChartCmd.Flags().StringVarP(&chart.OutputFile, "output", "o", "results.html", "filename of the chart")
	toolsChartCmd.Flags().StringVar(&chart.Value, "value", "failure", "the value to chart: failure, add, mul or median")

	toolsInspectCmd.Flags().UintVarP(&inspect.SourceSymbols, "symbols", "k", 10, "the number of source symbols in the block")
	toolsInspectCmd.Flags().UintSliceVarP(&inspect.ESIs, "esis", "e", nil, "the received ESIs (defaults to every source symbol)")
	toolsInspectCmd.Flags().UintVar(&inspect.Threads, "threads", 0, "number of threads to use (0 means to use the # of physical cores)")

	toolsCompareCmd.Flags().UintVarP(&compare.SymbolSize, "symbol-size", "s", 64, "the symbol size in bytes")
	toolsCompareCmd.Flags().UintVarP(&compare.Repair, "repair", "r", 10, "the number of repair symbols")
}
