package universe

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Table is the declarative form of a type universe.
type Table struct {
	// Name labels the table in diagnostics and dumps.
	Name string `toml:"name" yaml:"name"`

	// Types lists type names; ids follow this order.
	Types []string `toml:"types" yaml:"types"`

	// Aliases maps an extra name to a declared type (intp = "int64").
	Aliases map[string]string `toml:"aliases" yaml:"aliases,omitempty"`

	// Rules declare conversions. They are closed transitively before
	// registration.
	Rules []Rule `toml:"rules" yaml:"rules"`

	// Functions declare overload sets consumed by the resolve package.
	Functions []Function `toml:"functions" yaml:"functions,omitempty"`
}

// Rule declares From -> To with Kind and, when Reverse is set, To -> From
// with the Reverse kind (the "promote_unsafe" shape: widen one way, narrow
// the other).
type Rule struct {
	From    string `toml:"from" yaml:"from"`
	To      string `toml:"to" yaml:"to"`
	Kind    string `toml:"kind" yaml:"kind"`
	Reverse string `toml:"reverse,omitempty" yaml:"reverse,omitempty"`
}

// Function is a named overload set. Each overload is a comma separated
// parameter list.
type Function struct {
	Name      string   `toml:"name" yaml:"name"`
	Overloads []string `toml:"overloads" yaml:"overloads"`
}

// LoadFile reads a table, picking the decoder from the extension.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading type table %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return nil, fmt.Errorf("%s: unsupported type table format (want .toml, .yaml or .yml)", path)
	}
}

// ParseTOML decodes a TOML table. Unknown keys are errors.
func ParseTOML(data []byte, path string) (*Table, error) {
	var tbl Table
	meta, err := toml.Decode(string(data), &tbl)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("types") {
		return nil, fmt.Errorf("%s: missing types", path)
	}
	return &tbl, nil
}

// ParseYAML decodes a YAML table. Unknown keys are errors.
func ParseYAML(data []byte, path string) (*Table, error) {
	var tbl Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tbl); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	if len(tbl.Types) == 0 {
		return nil, fmt.Errorf("%s: missing types", path)
	}
	return &tbl, nil
}

// EncodeTOML writes the table back out, used by `typeconv init`.
func (t *Table) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeYAML writes the table as YAML.
func (t *Table) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(t)
}
