package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"typeconv/internal/universe"
)

const defaultTableFile = "types.toml"

func newInitCmd() *cobra.Command {
	var yamlTable bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a typeconv.toml manifest and an editable copy of the built-in type table",
		Long: `Initialize a directory with a typeconv.toml manifest and a type table holding the
built-in numeric universe. If [path] is omitted, initializes the current
directory. A missing directory is created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			target, err := filepath.Abs(target)
			if err != nil {
				return err
			}
			if st, err := os.Stat(target); err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				if err := os.MkdirAll(target, 0o755); err != nil {
					return fmt.Errorf("failed to create directory %q: %w", target, err)
				}
			} else if !st.IsDir() {
				return fmt.Errorf("%q is not a directory", target)
			}

			manifestPath := filepath.Join(target, manifestName)
			if _, err := os.Stat(manifestPath); err == nil {
				return fmt.Errorf("already initialized: %s exists", manifestPath)
			}

			tableName := defaultTableFile
			tbl := universe.DefaultTable()
			encode := tbl.EncodeTOML
			if yamlTable {
				tableName = "types.yaml"
				encode = tbl.EncodeYAML
			}
			tablePath := filepath.Join(target, tableName)
			createdTable := false
			if _, err := os.Stat(tablePath); errors.Is(err, os.ErrNotExist) {
				data, err := encode()
				if err != nil {
					return fmt.Errorf("failed to encode table: %w", err)
				}
				if err := os.WriteFile(tablePath, data, 0o600); err != nil {
					return fmt.Errorf("failed to write %s: %w", tableName, err)
				}
				createdTable = true
			}

			if err := os.WriteFile(manifestPath, []byte(defaultManifest(tableName)), 0o600); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized typeconv in %s\n", target)
			fmt.Fprintf(out, "  - %s\n", manifestName)
			if createdTable {
				fmt.Fprintf(out, "  - %s\n", tableName)
			} else {
				fmt.Fprintf(out, "  - %s (existing)\n", tableName)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yamlTable, "yaml", false, "write the type table as YAML")
	return cmd
}

func defaultManifest(table string) string {
	return fmt.Sprintf(`# typeconv manifest
[universe]
table = %q
allow_unsafe = false
asymmetric = false
`, table)
}
