package codec

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nathanhack/raptorq"
	"github.com/nathanhack/raptorq/metrics"
)

var Debug bool

var DecodeRun = func(cmd *cobra.Command, args []string) {
	oti, err := LoadOTI(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	f, err := os.Open(filepath.Join(args[0], PacketsFile))
	if err != nil {
		fmt.Println(err)
		return
	}
	packets, err := ReadPackets(f)
	f.Close()
	if err != nil {
		fmt.Println(err)
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

	registry := prometheus.NewRegistry()
	dec, err := raptorq.NewDecoder(oti, int(Threads), Debug, metrics.New(registry))
	if err != nil {
		fmt.Println("unable to create decoder: ", err)
		return
	}
	for _, p := range packets {
		if err := dec.AddPacket(p); err != nil {
			logrus.Debugf("Skipping packet: %v", err)
		}
	}

	data, err := dec.Decode(ctx)
	saveMetrics(registry)
	if err != nil {
		fmt.Println("unable to decode: ", err)
		return
	}

	if err := os.WriteFile(args[1], data, 0644); err != nil {
		fmt.Println("unable to write file: ", err)
		return
	}
	logrus.Infof("Recovered %v bytes from %v packets", len(data), len(packets))
}
