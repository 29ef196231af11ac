package main

import (
	"fmt"
	"runtime"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"typeconv/internal/stress"
	"typeconv/internal/universe"
)

func newStressCmd(a *app) *cobra.Command {
	var (
		opts   stress.Options
		uiFlag string
	)
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Replay random queries from many goroutines and compare with a sequential baseline",
		Example: `  typeconv stress --workers 16 --queries 100000
  typeconv stress --writers 2 --ui off`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := readUIMode(uiFlag)
			if err != nil {
				return err
			}
			// Writers need an open manager.
			s, err := a.loadSession(cmd, universe.Options{NoFreeze: opts.Writers > 0})
			if err != nil {
				return err
			}
			opts.AllowUnsafe = s.allowUnsafe(cmd)
			if opts.Workers <= 0 {
				opts.Workers = runtime.GOMAXPROCS(0)
			}
			pool := s.universe.Registry.Types()
			if len(pool) == 0 {
				return fmt.Errorf("type table %q declares no types", s.universe.Name)
			}

			out := cmd.OutOrStdout()
			idx := a.timer.Begin("stress")
			var rep stress.Report
			if shouldUseTUI(mode, out) {
				rep, err = runStressWithUI(cmd.Context(), out, s.universe.Manager, pool, opts)
			} else {
				rep, err = stress.Run(cmd.Context(), s.universe.Manager, pool, opts)
			}
			ops, _ := safecast.Conv[int](rep.Queries)
			a.timer.EndOps(idx, ops, fmt.Sprintf("%d workers", rep.Workers))
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "workers:    %d\nqueries:    %d\nregistered: %d\nmismatches: %d\nthroughput: %.0f queries/s\n",
				rep.Workers, rep.Queries, rep.Registered, rep.Mismatches, rep.PerSecond())
			for _, mm := range rep.Samples {
				fmt.Fprintln(out, "  "+mm.String())
			}
			return rep.Err()
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.Workers, "workers", 0, "concurrent readers (default GOMAXPROCS)")
	f.IntVar(&opts.Queries, "queries", 10000, "distinct queries each worker replays")
	f.IntVar(&opts.Arity, "arity", 2, "parameters per generated signature")
	f.IntVar(&opts.Overloads, "overloads", 4, "candidates per generated selection")
	f.Uint64Var(&opts.Seed, "seed", 1, "random seed")
	f.IntVar(&opts.Writers, "writers", 0, "goroutines registering unrelated pairs during the run")
	f.StringVar(&uiFlag, "ui", "auto", "live progress (auto|on|off)")
	f.Bool("unsafe", false, "admit unsafe conversions (default from typeconv.toml)")
	return cmd
}
