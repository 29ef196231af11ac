package tablefmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"

	"typeconv/internal/tccmap"
	"typeconv/internal/types"
)

type names map[types.Type]string

func (n names) Name(t types.Type) string { return n[t] }

func sample() Document {
	a, b, c := types.New(0), types.New(1), types.New(2)
	m := tccmap.New()
	m.Insert(types.MakePair(a, b), types.Promote)
	m.Insert(types.MakePair(a, c), types.SafeConvert)
	m.Insert(types.MakePair(c, a), types.UnsafeConvert)
	st, err := m.Stats()
	if err != nil {
		panic(err)
	}
	return Build("demo", m.Records(), st, names{a: "int8", b: "int16", c: "float32"})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "JSON": FormatJSON, " msgpack ": FormatMsgpack} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("ParseFormat(xml) succeeded")
	}
}

func TestTextIsAligned(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	if err := Write(&buf, sample(), FormatText); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "FROM     TO       KIND" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "int8     int16    promote" {
		t.Fatalf("first row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "3 pairs") {
		t.Fatalf("footer = %q", lines[4])
	}
}

func TestJSONAndMsgpackAgree(t *testing.T) {
	doc := sample()
	var js, mp bytes.Buffer
	if err := Write(&js, doc, FormatJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	if err := Write(&mp, doc, FormatMsgpack); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	var fromJSON, fromMsgpack Document
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if err := msgpack.Unmarshal(mp.Bytes(), &fromMsgpack); err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}
	if len(fromJSON.Rows) != 3 || len(fromMsgpack.Rows) != 3 {
		t.Fatalf("rows: json %d, msgpack %d", len(fromJSON.Rows), len(fromMsgpack.Rows))
	}
	for i := range fromJSON.Rows {
		if fromJSON.Rows[i] != fromMsgpack.Rows[i] {
			t.Fatalf("row %d: json %+v, msgpack %+v", i, fromJSON.Rows[i], fromMsgpack.Rows[i])
		}
	}
	if fromMsgpack.Stats != doc.Stats {
		t.Fatalf("stats = %+v, want %+v", fromMsgpack.Stats, doc.Stats)
	}
}

func TestFilter(t *testing.T) {
	doc := sample().Filter(types.UnsafeConvert)
	if len(doc.Rows) != 1 || doc.Rows[0].From != "float32" {
		t.Fatalf("filtered rows = %+v", doc.Rows)
	}
	if got := len(sample().Filter().Rows); got != 3 {
		t.Fatalf("empty filter kept %d rows", got)
	}
}

func TestWriteStatsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStats(&buf, sample().Stats, FormatText); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	if !strings.Contains(buf.String(), "live:         3") {
		t.Fatalf("stats text:\n%s", buf.String())
	}
}
