package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typeconv/internal/tablefmt"
	"typeconv/internal/types"
	"typeconv/internal/universe"
)

func newCheckCmd(a *app) *cobra.Command {
	var both bool
	cmd := &cobra.Command{
		Use:   "check FROM TO",
		Short: "Show the compatibility of converting FROM to TO",
		Example: `  typeconv check int32 float64
  typeconv check float64 int8
  typeconv check --both int8 float32`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSession(cmd, universe.Options{})
			if err != nil {
				return err
			}
			idx := a.timer.Begin("check")
			code, err := s.universe.Check(args[0], args[1])
			if err != nil {
				a.timer.End(idx, "")
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s: %s\n", args[0], args[1], tablefmt.ColorCode(code))
			ops := 1
			if both {
				// Both names resolved above.
				from, _ := s.universe.Lookup(args[0])
				to, _ := s.universe.Lookup(args[1])
				back := types.MakePair(from, to).Reverse()
				code = s.universe.Manager.IsCompatible(back.From, back.To)
				fmt.Fprintf(out, "%s -> %s: %s\n", args[1], args[0], tablefmt.ColorCode(code))
				ops++
			}
			a.timer.EndOps(idx, ops, "")
			return nil
		},
	}
	cmd.Flags().BoolVar(&both, "both", false, "also show the reverse direction")
	return cmd
}
