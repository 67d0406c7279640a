// Package lra is the cmd/lra CLI: a cobra subcommand that reads a small
// text constraint script, builds a pkg/lra.Solver from it, and reports
// either a satisfying model or the source lines responsible for
// infeasibility.
package lra

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lra-engine/solver/internal/config"
	"github.com/lra-engine/solver/pkg/lra"
	lratracer "github.com/lra-engine/solver/pkg/lra/tracer"
)

// NewSolveCommand returns the "solve <path>" subcommand.
func NewSolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <path>",
		Short: "Checks feasibility of a linear arithmetic constraint script",
		Long: `Checks feasibility of a system of linear arithmetic constraints given as a
small text format, one relation per line. For instance:

# comments start with '#'
2x + 3y <= 7
x - y > 0
x >= 0
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := flagsFrom(cmd)
			if err != nil {
				return err
			}
			return solve(args[0], flags)
		},
	}
	config.Register(cmd.Flags())
	return cmd
}

func flagsFrom(cmd *cobra.Command) (*config.Flags, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	return &config.Flags{Verbose: verbose, Format: format}, nil
}

func solve(path string, flags *config.Flags) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening constraint script (%s): %w", path, err)
	}
	defer f.Close()

	stmts, err := parseScript(f)
	if err != nil {
		return fmt.Errorf("error parsing constraint script (%s): %w", path, err)
	}

	var opts []lra.Option
	if flags.Verbose {
		log := zerolog.New(os.Stderr).With().Timestamp().Logger()
		opts = append(opts, lra.WithTracer(lratracer.New(log)))
	}
	s := lra.New(opts...)
	vars := newVarTable(s)

	byReason := make(map[lra.Reason]int, len(stmts))
	rejected := false
	for _, stmt := range stmts {
		reason := lra.NewReason()
		byReason[reason] = stmt.line
		if ok := assertStatement(s, vars, stmt, reason); !ok {
			rejected = true
			break
		}
	}

	if rejected || !s.Check() {
		reasons := s.ConflictReasons()
		lines := make([]int, 0, len(reasons))
		for _, r := range reasons {
			lines = append(lines, byReason[r])
		}
		sort.Ints(lines)
		fmt.Println("infeasible: conflicting lines")
		for _, ln := range lines {
			fmt.Printf("  line %d\n", ln)
		}
		return nil
	}

	fmt.Println("feasible:")
	names := make([]string, 0, len(vars.order))
	names = append(names, vars.order...)
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s = %s\n", name, s.Value(vars.ids[name]).String())
	}
	return nil
}

func assertStatement(s *lra.Solver, vars *varTable, stmt statement, reason lra.Reason) bool {
	lhs := vars.build(stmt.lhs)
	rhs := vars.build(stmt.rhs)
	switch stmt.op {
	case "<":
		return s.NewLT(lhs, rhs, true, reason)
	case "<=":
		return s.NewLT(lhs, rhs, false, reason)
	case ">":
		return s.NewGT(lhs, rhs, true, reason)
	case ">=":
		return s.NewGT(lhs, rhs, false, reason)
	case "=":
		return s.NewEq(lhs, rhs, reason)
	default:
		return false
	}
}
