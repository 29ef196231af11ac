package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"typeconv/internal/diag"
	"typeconv/internal/diagfmt"
	"typeconv/internal/resolve"
	"typeconv/internal/universe"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		list       bool
		asymmetric bool
		format     string
	)
	cmd := &cobra.Command{
		Use:   "resolve FUNCTION [ARGS]",
		Short: "Resolve a call against the overload sets declared in the type table",
		Example: `  typeconv resolve add "int32, float32"
  typeconv resolve abs int8
  typeconv resolve --list`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pretty" && format != "json" {
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
			s, err := a.loadSession(cmd, universe.Options{})
			if err != nil {
				return err
			}
			policy := resolve.Policy{
				AllowUnsafe: s.allowUnsafe(cmd),
				Asymmetric:  asymmetric || s.config.Asymmetric,
			}
			r, bag, err := resolve.FromUniverse(s.universe, policy)
			if err != nil {
				_ = diagfmt.Pretty(cmd.ErrOrStderr(), bag)
				return err
			}
			out := cmd.OutOrStdout()
			reg := s.universe.Registry

			if list {
				for _, name := range r.Functions() {
					fn, _ := r.Function(name)
					for _, ov := range fn.Overloads {
						fmt.Fprintf(out, "%s%s\n", name, reg.Names(ov))
					}
				}
				return nil
			}
			if len(args) == 0 {
				return errors.New("missing function name (or use --list)")
			}
			var argStr string
			if len(args) == 2 {
				argStr = args[1]
			}
			sig, err := reg.ParseSignature(argStr)
			if err != nil {
				return err
			}

			bag = diag.NewBag(16)
			idx := a.timer.Begin("resolve")
			res, ok := r.Diagnose(bag, args[0], sig)
			a.timer.EndOps(idx, 1, args[0])

			if format == "json" {
				if err := diagfmt.JSON(out, bag); err != nil {
					return err
				}
			} else {
				if ok {
					fmt.Fprintf(out, "%s%s -> %s%s [%d] %s\n",
						args[0], reg.Names(sig), res.Function, reg.Names(res.Signature), res.Index, res.Rating)
				}
				bag.Sort()
				if err := diagfmt.Pretty(cmd.ErrOrStderr(), bag); err != nil {
					return err
				}
			}
			if !ok {
				return fmt.Errorf("cannot resolve %s%s", args[0], reg.Names(sig))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list declared overloads")
	cmd.Flags().BoolVar(&asymmetric, "asymmetric", false, "break rating ties by per-argument order")
	cmd.Flags().StringVar(&format, "format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().Bool("unsafe", false, "admit unsafe conversions (default from typeconv.toml)")
	return cmd
}
