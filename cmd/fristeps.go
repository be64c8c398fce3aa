package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zkpipe/stark-verifier-input/auxinput"
)

var (
	fNSteps      uint64
	fDegreeBound uint64
)

// friStepsCmd prints the fri_step_list a prover config needs for a given
// trace length, so the config and the proof parameter vector stay in sync.
var friStepsCmd = &cobra.Command{
	Use:   "fri-steps",
	Short: "calculates the fri step list for a trace length and last layer degree bound",
	RunE:  friSteps,
}

func friSteps(cmd *cobra.Command, args []string) error {
	steps, err := auxinput.FriStepList(fNSteps, fDegreeBound)
	if err != nil {
		return err
	}
	out, err := json.Marshal(steps)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(friStepsCmd)
	friStepsCmd.Flags().Uint64Var(&fNSteps, "n-steps", 0, "number of cairo steps, a power of two")
	friStepsCmd.MarkFlagRequired("n-steps")
	friStepsCmd.Flags().Uint64Var(&fDegreeBound, "degree-bound", 64, "last layer degree bound, a power of two")
}
