package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"typeconv/internal/tablefmt"
	"typeconv/internal/universe"
)

// runCLI runs the CLI in a fresh temporary directory.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestCheck(t *testing.T) {
	inTempDir(t)
	code, out, errOut := runCLI(t, "check", "int32", "float64")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != "int32 -> float64: safe" {
		t.Fatalf("out = %q", out)
	}

	code, out, errOut = runCLI(t, "check", "--both", "int32", "float64")
	if code != 0 || out != "int32 -> float64: safe\nfloat64 -> int32: unsafe\n" {
		t.Fatalf("check --both: exit %d, out %q, stderr %q", code, out, errOut)
	}

	code, _, errOut = runCLI(t, "check", "int32", "quaternion")
	if code != 1 || !strings.Contains(errOut, "quaternion") {
		t.Fatalf("unknown type: exit %d, stderr %q", code, errOut)
	}
}

func TestSelect(t *testing.T) {
	inTempDir(t)
	code, out, errOut := runCLI(t, "select",
		"--arg", "int32, int32",
		"--overload", "int64, int64",
		"--overload", "float64, float64")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "selected 0 (int64, int64)") {
		t.Fatalf("out = %q", out)
	}

	code, out, _ = runCLI(t, "select", "--arg", "float64", "--overload", "int32")
	if code != 0 || !strings.Contains(out, "no match") {
		t.Fatalf("safe-only select: exit %d, out %q", code, out)
	}
	code, out, _ = runCLI(t, "select", "--arg", "float64", "--overload", "int32", "--unsafe")
	if code != 0 || !strings.Contains(out, "selected 0") {
		t.Fatalf("unsafe select: exit %d, out %q", code, out)
	}

	code, _, errOut = runCLI(t, "select", "--arg", "int32", "--overload", "int32, int32")
	if code != 1 || !strings.Contains(errOut, "parameters") {
		t.Fatalf("arity mismatch: exit %d, stderr %q", code, errOut)
	}
}

func TestResolve(t *testing.T) {
	inTempDir(t)
	code, out, errOut := runCLI(t, "resolve", "add", "int32, float32")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "-> add(float64, float64) [2]") {
		t.Fatalf("out = %q", out)
	}

	// uint8 reaches int64, float32 and float64 by one safe conversion each.
	code, _, errOut = runCLI(t, "resolve", "abs", "uint8")
	if code != 1 || !strings.Contains(errOut, "RES2002") {
		t.Fatalf("ambiguous: exit %d, stderr %q", code, errOut)
	}

	code, out, _ = runCLI(t, "resolve", "--format", "json", "nope", "int8")
	if code != 1 || !strings.Contains(out, `"code": "RES2003"`) {
		t.Fatalf("unknown function json: exit %d, out %q", code, out)
	}

	code, out, _ = runCLI(t, "resolve", "--list")
	if code != 0 || !strings.Contains(out, "sqrt(complex128)") {
		t.Fatalf("list: exit %d, out %q", code, out)
	}
}

func TestTableJSONFilter(t *testing.T) {
	inTempDir(t)
	code, out, errOut := runCLI(t, "table", "--format", "json", "--kind", "promote")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	var doc tablefmt.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(doc.Rows) == 0 {
		t.Fatalf("no promote rows")
	}
	for _, r := range doc.Rows {
		if r.Kind != "promote" {
			t.Fatalf("row %+v is not a promotion", r)
		}
	}
}

func TestTableMsgpackToFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "table.mp")
	if code, _, errOut := runCLI(t, "table", "--format", "msgpack", "-o", path); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Fatalf("msgpack output missing: %v", err)
	}
}

func TestStats(t *testing.T) {
	inTempDir(t)
	code, out, errOut := runCLI(t, "stats")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"types:        13", "buckets:      512"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestInitThenUseManifest(t *testing.T) {
	dir := inTempDir(t)
	code, out, errOut := runCLI(t, "init")
	if code != 0 {
		t.Fatalf("init: exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, manifestName) || !strings.Contains(out, defaultTableFile) {
		t.Fatalf("init out = %q", out)
	}
	if code, _, _ := runCLI(t, "init"); code != 1 {
		t.Fatalf("second init succeeded")
	}

	// Make float64 -> int64 a safe conversion in the local table.
	tablePath := filepath.Join(dir, defaultTableFile)
	tbl, err := universe.LoadFile(tablePath)
	if err != nil {
		t.Fatalf("load table: %v", err)
	}
	tbl.Rules = append(tbl.Rules, universe.Rule{From: "float64", To: "int64", Kind: "safe"})
	data, err := tbl.EncodeTOML()
	if err != nil {
		t.Fatalf("encode table: %v", err)
	}
	if err := os.WriteFile(tablePath, data, 0o600); err != nil {
		t.Fatalf("write table: %v", err)
	}

	sub := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Chdir(sub)
	code, out, errOut = runCLI(t, "check", "float64", "int64")
	if code != 0 {
		t.Fatalf("check: exit %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != "float64 -> int64: safe" {
		t.Fatalf("out = %q", out)
	}
	if !strings.Contains(errOut, "TBL1005") {
		t.Fatalf("shadowed rule warning missing: %q", errOut)
	}
	code, _, errOut = runCLI(t, "--quiet", "check", "float64", "int64")
	if code != 0 || errOut != "" {
		t.Fatalf("quiet: exit %d, stderr %q", code, errOut)
	}
	code, _, errOut = runCLI(t, "--fail-on", "warning", "check", "float64", "int64")
	if code != 1 || !strings.Contains(errOut, "at or above WARNING") {
		t.Fatalf("fail-on warning: exit %d, stderr %q", code, errOut)
	}
}

func TestManifestUnknownKey(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, manifestName)
	if err := os.WriteFile(path, []byte("[universe]\ntabel = \"x.toml\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	code, _, errOut := runCLI(t, "check", "int8", "int16")
	if code != 1 || !strings.Contains(errOut, "universe.tabel") {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
}

func TestManifestAllowUnsafeDefault(t *testing.T) {
	dir := inTempDir(t)
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte("[universe]\nallow_unsafe = true\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	code, out, _ := runCLI(t, "select", "--arg", "float64", "--overload", "int32")
	if code != 0 || !strings.Contains(out, "selected 0") {
		t.Fatalf("manifest default: exit %d, out %q", code, out)
	}
	code, out, _ = runCLI(t, "select", "--arg", "float64", "--overload", "int32", "--unsafe=false")
	if code != 0 || !strings.Contains(out, "no match") {
		t.Fatalf("flag override: exit %d, out %q", code, out)
	}
}

func TestStressAndBench(t *testing.T) {
	inTempDir(t)
	code, out, errOut := runCLI(t, "stress", "--ui", "off", "--workers", "3", "--queries", "300")
	if code != 0 {
		t.Fatalf("stress: exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "mismatches: 0") || !strings.Contains(out, "queries:    900") {
		t.Fatalf("stress out = %q", out)
	}

	code, out, errOut = runCLI(t, "bench", "--rounds", "1")
	if code != 0 {
		t.Fatalf("bench: exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "is-compatible") || !strings.Contains(out, "select abs") {
		t.Fatalf("bench out = %q", out)
	}
}

func TestTimingsAndTrace(t *testing.T) {
	dir := inTempDir(t)
	tracePath := filepath.Join(dir, "trace.ndjson")
	code, _, errOut := runCLI(t, "--timings", "--trace", tracePath, "--trace-level", "detail", "check", "int8", "int64")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(errOut, "timings:") || !strings.Contains(errOut, "build universe") {
		t.Fatalf("timings missing: %q", errOut)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if !strings.Contains(string(data), "universe:numeric") {
		t.Fatalf("trace lacks universe span:\n%s", data)
	}
}

func TestVersion(t *testing.T) {
	inTempDir(t)
	code, out, _ := runCLI(t, "version", "--format", "json", "--full")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "typeconv" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("payload = %+v", payload)
	}
	if code, _, _ := runCLI(t, "version", "--format", "xml"); code != 1 {
		t.Fatalf("bad format accepted")
	}
}

func TestBadColorFlag(t *testing.T) {
	inTempDir(t)
	if code, _, errOut := runCLI(t, "--color", "sometimes", "version"); code != 1 || !strings.Contains(errOut, "--color") {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
}
