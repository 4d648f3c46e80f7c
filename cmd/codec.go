package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nathanhack/raptorq/cmd/internal/codec"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:     "encode INPUT_FILE OUTPUT_DIR",
	Aliases: []string{"e", "enc"},
	Short:   "Encodes a file into RaptorQ packets",
	Long: `Encodes a file into source and repair packets. The object transmission
information is written to OUTPUT_DIR/oti.json and the packets to OUTPUT_DIR/packets.bin.`,
	Args: cobra.ExactArgs(2),
	Run:  codec.EncodeRun,
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:     "decode INPUT_DIR OUTPUT_FILE",
	Aliases: []string{"d", "dec"},
	Short:   "Recovers a file from RaptorQ packets",
	Long:    `Recovers a file from the oti.json and packets.bin written by encode.`,
	Args:    cobra.ExactArgs(2),
	Run:     codec.DecodeRun,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().UintVarP(&codec.SymbolSize, "symbol-size", "s", 1024, "the largest packet payload in bytes; the symbol size is this rounded down to the alignment")
	encodeCmd.Flags().UintVarP(&codec.Repair, "repair", "r", 10, "the number of repair packets per source block")
	encodeCmd.Flags().Uint64VarP(&codec.DecoderMemory, "memory", "m", 0, "the decoder memory in bytes bounding a source block (0 means the default of 10MiB)")
	encodeCmd.Flags().UintVarP(&codec.Threads, "threads", "t", 0, "number of threads to use (0 means to use the # of physical cores)")
	encodeCmd.Flags().StringVar(&codec.MetricsFile, "metrics", "", "write the prometheus metrics to this file")

	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().UintVarP(&codec.Threads, "threads", "t", 0, "number of threads to use (0 means to use the # of physical cores)")
	decodeCmd.Flags().BoolVar(&codec.Debug, "debug", false, "verify every solver phase (slow)")
	decodeCmd.Flags().StringVar(&codec.MetricsFile, "metrics", "", "write the prometheus metrics to this file")
}
