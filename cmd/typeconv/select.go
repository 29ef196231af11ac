package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"typeconv/internal/typeconv"
	"typeconv/internal/types"
	"typeconv/internal/universe"
)

func newSelectCmd(a *app) *cobra.Command {
	var (
		arg       string
		overloads []string
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Rank ad-hoc overload candidates for an argument signature",
		Example: `  typeconv select --arg "int32, int32" --overload "int64, int64" --overload "float64, float64"
  typeconv select --arg float64 --overload int32 --overload int64 --unsafe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(overloads) == 0 {
				return errors.New("at least one --overload is required")
			}
			s, err := a.loadSession(cmd, universe.Options{})
			if err != nil {
				return err
			}
			reg := s.universe.Registry
			sig, err := reg.ParseSignature(arg)
			if err != nil {
				return fmt.Errorf("--arg: %w", err)
			}
			cands := make([][]types.Type, len(overloads))
			for i, ov := range overloads {
				c, err := reg.ParseSignature(ov)
				if err != nil {
					return fmt.Errorf("--overload %d: %w", i, err)
				}
				if len(c) != len(sig) {
					return fmt.Errorf("--overload %d has %d parameters, --arg has %d", i, len(c), len(sig))
				}
				cands[i] = c
			}

			allowUnsafe := s.allowUnsafe(cmd)
			m := s.universe.Manager
			var sel typeconv.Selection
			a.timer.Measure("select", 1, func() {
				sel = m.SelectOverload(sig, cands, allowUnsafe)
			})

			out := cmd.OutOrStdout()
			for i, r := range m.Rate(sig, cands, allowUnsafe) {
				mark := " "
				switch {
				case r.IsImpossible():
				case r.Equal(sel.Rating) && sel.Count > 1:
					mark = "="
				case i == sel.Best:
					mark = "*"
				}
				rating := "no match"
				if !r.IsImpossible() {
					rating = r.String()
				}
				fmt.Fprintf(out, "%s %d %s  %s\n", mark, i, reg.Names(cands[i]), rating)
			}
			switch sel.Outcome() {
			case typeconv.NoMatch:
				fmt.Fprintln(out, "no match")
			case typeconv.Unique:
				fmt.Fprintf(out, "selected %d %s\n", sel.Best, reg.Names(cands[sel.Best]))
			case typeconv.Ambiguous:
				fmt.Fprintf(out, "ambiguous: %d candidates share the best rating\n", sel.Count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&arg, "arg", "", "argument signature, e.g. \"int32, float32\"")
	cmd.Flags().StringArrayVar(&overloads, "overload", nil, "candidate parameter signature (repeatable)")
	cmd.Flags().Bool("unsafe", false, "admit unsafe conversions (default from typeconv.toml)")
	return cmd
}
