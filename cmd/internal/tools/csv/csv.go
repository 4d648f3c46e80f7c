package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathanhack/raptorq/cmd/internal/tools"
)

var OutputFile string
var Value string

var CSVRun = func(cmd *cobra.Command, args []string) {
	results, probabilities, err := tools.LoadAllResults(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	records, err := Records(args, results, probabilities, Value)
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

	w := csv.NewWriter(f)
	err = w.WriteAll(records)
	if err != nil {
		fmt.Println(err)
	}
}

//Records lays the results out one file per row and one loss probability per column.
//Probabilities a file has no stats for are left empty.
func Records(names []string, results []*tools.SimulationStats, probabilities []float64, value string) ([][]string, error) {
	header := []string{"Results File", "Code"}
	for _, p := range probabilities {
		header = append(header, strconv.FormatFloat(p, 'g', -1, 64))
	}

	records := [][]string{header}
	for i, r := range results {
		record := []string{strings.TrimSuffix(names[i], filepath.Ext(names[i])), r.CodeInfo}
		for _, p := range probabilities {
			stats, has := r.Stats[p]
			if !has {
				record = append(record, "")
				continue
			}
			x, err := tools.StatValue(stats, value)
			if err != nil {
				return nil, err
			}
			record = append(record, strconv.FormatFloat(x, 'g', -1, 64))
		}
		records = append(records, record)
	}
	return records, nil
}
