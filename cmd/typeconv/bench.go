package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typeconv/internal/observ"
	"typeconv/internal/resolve"
	"typeconv/internal/types"
	"typeconv/internal/universe"
)

func newBenchCmd(a *app) *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time pair lookups and overload selection on the loaded universe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rounds <= 0 {
				return fmt.Errorf("--rounds must be positive, got %d", rounds)
			}
			s, err := a.loadSession(cmd, universe.Options{})
			if err != nil {
				return err
			}
			u := s.universe
			m := u.Manager
			pool := u.Registry.Types()
			allowUnsafe := s.allowUnsafe(cmd)

			bench := observ.NewTimer()
			var sink types.Code
			bench.Measure("is-compatible", rounds*len(pool)*len(pool), func() {
				for range rounds {
					for _, from := range pool {
						for _, to := range pool {
							sink |= m.IsCompatible(from, to)
						}
					}
				}
			})

			r, _, err := resolve.FromUniverse(u, resolve.Policy{AllowUnsafe: allowUnsafe})
			if err != nil {
				return err
			}
			for _, name := range r.Functions() {
				fn, _ := r.Function(name)
				calls := callsFor(pool, fn.Overloads)
				if len(calls) == 0 {
					continue
				}
				bench.Measure("select "+name, rounds*len(calls), func() {
					for range rounds {
						for _, call := range calls {
							m.SelectOverload(call, fn.Overloads, allowUnsafe)
						}
					}
				})
			}
			_ = sink

			fmt.Fprint(cmd.OutOrStdout(), bench.Summary())
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 1000, "repetitions of each workload")
	cmd.Flags().Bool("unsafe", false, "admit unsafe conversions (default from typeconv.toml)")
	return cmd
}

// callsFor builds every argument signature over pool whose arity is shared
// by all overloads; mixed-arity sets are skipped.
func callsFor(pool []types.Type, overloads [][]types.Type) [][]types.Type {
	if len(overloads) == 0 {
		return nil
	}
	arity := len(overloads[0])
	for _, ov := range overloads[1:] {
		if len(ov) != arity {
			return nil
		}
	}
	calls := [][]types.Type{{}}
	for range arity {
		next := make([][]types.Type, 0, len(calls)*len(pool))
		for _, prefix := range calls {
			for _, t := range pool {
				sig := append(append([]types.Type(nil), prefix...), t)
				next = append(next, sig)
			}
		}
		calls = next
	}
	return calls
}
