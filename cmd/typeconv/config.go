package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"typeconv/internal/diag"
	"typeconv/internal/diagfmt"
	"typeconv/internal/trace"
	"typeconv/internal/universe"
)

const manifestName = "typeconv.toml"

type manifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Universe universeConfig `toml:"universe"`
}

type universeConfig struct {
	// Table is relative to the manifest directory. Empty means the built-in
	// numeric universe.
	Table       string `toml:"table"`
	AllowUnsafe bool   `toml:"allow_unsafe"`
	Asymmetric  bool   `toml:"asymmetric"`
	NoPropagate bool   `toml:"no_propagate"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadManifest(path string) (*manifest, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("universe", "table") && strings.TrimSpace(cfg.Universe.Table) == "" {
		return nil, fmt.Errorf("%s: [universe].table is empty", path)
	}
	return &manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// discoverManifest honours --config, otherwise walks up from the working
// directory. A missing manifest is not an error.
func discoverManifest(cmd *cobra.Command) (*manifest, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if explicit != "" {
		return loadManifest(explicit)
	}
	path, ok, err := findManifest(".")
	if err != nil || !ok {
		return nil, err
	}
	return loadManifest(path)
}

// tablePath is the table file to load, or "" for the built-in table.
func (m *manifest) tablePath() string {
	if m == nil || m.Config.Universe.Table == "" {
		return ""
	}
	p := filepath.FromSlash(m.Config.Universe.Table)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

// session is a loaded universe plus the settings that produced it.
type session struct {
	manifest *manifest
	universe *universe.Universe
	config   universeConfig
}

// loadSession resolves configuration and builds the universe. Table
// warnings go to stderr unless --quiet.
func (a *app) loadSession(cmd *cobra.Command, opts universe.Options) (*session, error) {
	m, err := discoverManifest(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{manifest: m}
	if m != nil {
		s.config = m.Config.Universe
	}

	path := m.tablePath()
	if flagPath, _ := cmd.Flags().GetString("table"); flagPath != "" {
		path = flagPath
	}

	tbl := universe.DefaultTable()
	if path != "" {
		idx := a.timer.Begin("load table")
		tbl, err = universe.LoadFile(path)
		a.timer.End(idx, path)
		if err != nil {
			return nil, err
		}
	}

	if s.config.NoPropagate {
		opts.NoPropagate = true
	}
	if opts.MaxDiagnostics == 0 {
		opts.MaxDiagnostics, _ = cmd.Flags().GetInt("max-diagnostics")
	}

	span, ctx := trace.Start(cmd.Context(), trace.ScopeDriver, cmd.Name())
	cmd.SetContext(ctx)

	idx := a.timer.Begin("build universe")
	u, bag, err := universe.Build(ctx, tbl, opts)
	a.timer.End(idx, tbl.Name)
	span.End("")

	if bag != nil {
		quiet, _ := cmd.Flags().GetBool("quiet")
		if err != nil || !quiet {
			bag.Sort()
			if perr := diagfmt.Pretty(cmd.ErrOrStderr(), bag); perr != nil {
				return nil, perr
			}
		}
	}
	if err != nil {
		return nil, err
	}
	failOnName, _ := cmd.Flags().GetString("fail-on")
	failOn, err := diag.ParseSeverity(failOnName)
	if err != nil {
		return nil, fmt.Errorf("--fail-on: %w", err)
	}
	if n := bag.Count(failOn); !failOn.IsError() && n > 0 {
		return nil, fmt.Errorf("table %q: %d diagnostic(s) at or above %s", tbl.Name, n, failOn)
	}
	s.universe = u
	return s, nil
}

// allowUnsafe is the --unsafe flag when given, else the manifest default.
func (s *session) allowUnsafe(cmd *cobra.Command) bool {
	if f := cmd.Flags().Lookup("unsafe"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("unsafe")
		return v
	}
	return s.config.AllowUnsafe
}
