package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zkpipe/stark-verifier-input/adapter"
)

var (
	fProof          string
	fFactTopologies string
	fOutput         string
	fPretty         bool
)

// prepareCmd represents the conversion command
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "converts an annotated proof (plus an optional fact topology file) into verifier input json",
	RunE:  prepare,
}

func prepare(cmd *cobra.Command, args []string) error {
	codec := adapter.New(log.Logger)
	_, err := codec.PrepareFile(fProof, fFactTopologies, fOutput, fPretty)
	return err
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareCmd.Flags().StringVar(&fProof, "proof", "", "path to the annotated proof json")
	prepareCmd.MarkFlagRequired("proof")
	prepareCmd.Flags().StringVar(&fFactTopologies, "fact-topologies", "", "path to the fact topology json from a bootloader run")
	prepareCmd.Flags().StringVar(&fOutput, "output", "input.json", "path to write the verifier input json")
	prepareCmd.Flags().BoolVar(&fPretty, "pretty", false, "indent the output json")
}
