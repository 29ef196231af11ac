package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"typeconv/internal/tablefmt"
	"typeconv/internal/types"
	"typeconv/internal/universe"
)

func newTableCmd(a *app) *cobra.Command {
	var (
		format string
		kinds  []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print every registered compatibility pair",
		Example: `  typeconv table --kind promote
  typeconv table --format msgpack -o table.mp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := tablefmt.ParseFormat(format)
			if err != nil {
				return err
			}
			codes := make([]types.Code, 0, len(kinds))
			for _, k := range kinds {
				c, err := types.ParseCode(k)
				if err != nil {
					return fmt.Errorf("--kind: %w", err)
				}
				codes = append(codes, c)
			}
			s, err := a.loadSession(cmd, universe.Options{})
			if err != nil {
				return err
			}
			m := s.universe.Manager
			st, err := m.Stats()
			if err != nil {
				return err
			}
			doc := tablefmt.Build(s.universe.Name, m.Records(), st, s.universe.Registry).Filter(codes...)
			return writeTo(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return tablefmt.Write(w, doc, f)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json|msgpack)")
	cmd.Flags().StringArrayVar(&kinds, "kind", nil, "only show pairs of this kind (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show bucket occupancy of the compatibility map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := tablefmt.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := a.loadSession(cmd, universe.Options{})
			if err != nil {
				return err
			}
			st, err := s.universe.Manager.Stats()
			if err != nil {
				return err
			}
			if f == tablefmt.FormatText {
				g := s.universe.Stats
				fmt.Fprintf(cmd.OutOrStdout(), "types:        %d\ndeclared:     %d\nderived:      %d\nimproved:     %d\n",
					s.universe.Registry.Len(), g.Declared, g.Derived, g.Improved)
			}
			return tablefmt.WriteStats(cmd.OutOrStdout(), st, f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json|msgpack)")
	return cmd
}

// writeTo runs fn against path, or against stdout when path is empty.
func writeTo(stdout io.Writer, path string, fn func(io.Writer) error) (err error) {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(f)
}
