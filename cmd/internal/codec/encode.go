package codec

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nathanhack/raptorq"
	"github.com/nathanhack/raptorq/metrics"
)

var (
	SymbolSize    uint
	DecoderMemory uint64
	Repair        uint
	Threads       uint
	MetricsFile   string
)

var EncodeRun = func(cmd *cobra.Command, args []string) {
	if SymbolSize == 0 || SymbolSize > 65535 {
		fmt.Println("symbol size must be in [1, 65535]")
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("unable to read file: ", err)
		return
	}
	if err := os.MkdirAll(args[1], 0755); err != nil {
		fmt.Println("unable to create directory: ", err)
		return
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigs
		fmt.Println()
		fmt.Println(sig)
		cancel()
	}()

	oti, err := raptorq.GenerateEncodingParameters(uint64(len(data)), uint16(SymbolSize), DecoderMemory)
	if err != nil {
		fmt.Println("unable to pick encoding parameters: ", err)
		return
	}
	logrus.Infof("Encoding %v with %v", args[0], oti)

	registry := prometheus.NewRegistry()
	enc, err := raptorq.NewEncoder(data, oti, int(Threads), metrics.New(registry))
	if err != nil {
		fmt.Println("unable to create encoder: ", err)
		return
	}
	packets, err := enc.Encode(ctx, int(Repair))
	if err != nil {
		fmt.Println("unable to encode: ", err)
		return
	}

	if err := SaveOTI(args[1], oti); err != nil {
		fmt.Println(err)
		return
	}
	f, err := os.Create(filepath.Join(args[1], PacketsFile))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	total := 0
	for _, p := range packets {
		total += 8 + len(p.Data)
	}
	bar := pb.Full.New(total)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", "Writing Packets ")
	bar.SetWriter(os.Stdout)
	showProgress := logrus.IsLevelEnabled(logrus.DebugLevel)
	if showProgress {
		bar.Start()
	}
	err = WritePackets(bar.NewProxyWriter(f), packets)
	if showProgress {
		bar.Finish()
	}
	if err != nil {
		fmt.Println("unable to write packets: ", err)
		return
	}

	saveMetrics(registry)
	logrus.Infof("Wrote %v packets to %v", len(packets), args[1])
}

func saveMetrics(registry *prometheus.Registry) {
	if MetricsFile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(MetricsFile, registry); err != nil {
		fmt.Println("unable to write metrics: ", err)
	}
}
