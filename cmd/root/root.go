package root

import (
	"github.com/spf13/cobra"

	lracmd "github.com/lra-engine/solver/cmd/lra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lra",
		Short: "lra is an incremental linear arithmetic feasibility solver",
		Long: `An embeddable, incremental, backtrackable linear arithmetic feasibility
solver over the rationals.
For more information visit https://github.com/lra-engine/solver`,
	}

	// add sub-commands
	rootCmd.AddCommand(lracmd.NewSolveCommand())

	return rootCmd
}
