// Package tablefmt renders the live compatibility table and its bucket
// statistics as aligned text, JSON or msgpack.
package tablefmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"typeconv/internal/tccmap"
	"typeconv/internal/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts text, json or msgpack.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or msgpack)", s)
	}
}

// Namer renders a type. *universe.Registry implements it.
type Namer interface {
	Name(t types.Type) string
}

// Row is one live pair.
type Row struct {
	From string `json:"from" msgpack:"from"`
	To   string `json:"to" msgpack:"to"`
	Kind string `json:"kind" msgpack:"kind"`

	code types.Code
}

// Code returns the row's compatibility code.
func (r Row) Code() types.Code { return r.code }

// Document is everything an export carries.
type Document struct {
	Universe string       `json:"universe" msgpack:"universe"`
	Rows     []Row        `json:"rows" msgpack:"rows"`
	Stats    tccmap.Stats `json:"stats" msgpack:"stats"`
}

// Build converts records into named rows. A nil names renders type ids.
func Build(universe string, recs []tccmap.Record, st tccmap.Stats, names Namer) Document {
	doc := Document{Universe: universe, Stats: st, Rows: make([]Row, 0, len(recs))}
	for _, rec := range recs {
		doc.Rows = append(doc.Rows, Row{
			From: name(names, rec.Key.From),
			To:   name(names, rec.Key.To),
			Kind: rec.Code.String(),
			code: rec.Code,
		})
	}
	return doc
}

// Filter keeps rows whose code is one of codes. No codes keeps everything.
func (d Document) Filter(codes ...types.Code) Document {
	if len(codes) == 0 {
		return d
	}
	out := d
	out.Rows = nil
	for _, r := range d.Rows {
		for _, c := range codes {
			if r.code == c {
				out.Rows = append(out.Rows, r)
				break
			}
		}
	}
	return out
}

// Write encodes doc to w.
func Write(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	case FormatText, "":
		return writeRows(w, doc)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteStats encodes only the bucket statistics.
func WriteStats(w io.Writer, st tccmap.Stats, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(st)
	case FormatText, "":
		_, err := fmt.Fprintf(w,
			"buckets:      %d\nused:         %d\nrecords:      %d\nlive:         %d\nshadowed:     %d\nlongest bin:  %d\naverage fill: %.2f\n",
			st.Buckets, st.Used, st.Records, st.Live, st.Shadowed, st.LongestBin, st.AverageFill)
		return err
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

var (
	promoteColor = color.New(color.FgGreen)
	safeColor    = color.New(color.FgCyan)
	unsafeColor  = color.New(color.FgYellow)
	headerColor  = color.New(color.Bold)
)

// ColorCode paints a code name for terminals. Colors follow color.NoColor.
func ColorCode(c types.Code) string {
	switch c {
	case types.Promote:
		return promoteColor.Sprint(c)
	case types.SafeConvert:
		return safeColor.Sprint(c)
	case types.UnsafeConvert:
		return unsafeColor.Sprint(c)
	default:
		return c.String()
	}
}

func writeRows(w io.Writer, doc Document) error {
	fromW, toW := runewidth.StringWidth("FROM"), runewidth.StringWidth("TO")
	for _, r := range doc.Rows {
		fromW = max(fromW, runewidth.StringWidth(r.From))
		toW = max(toW, runewidth.StringWidth(r.To))
	}
	header := runewidth.FillRight("FROM", fromW) + "  " + runewidth.FillRight("TO", toW) + "  KIND"
	if _, err := fmt.Fprintln(w, headerColor.Sprint(header)); err != nil {
		return err
	}
	for _, r := range doc.Rows {
		line := runewidth.FillRight(r.From, fromW) + "  " + runewidth.FillRight(r.To, toW) + "  " + ColorCode(r.code)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d pairs in %q\n", len(doc.Rows), doc.Universe)
	return err
}

func name(names Namer, t types.Type) string {
	if names == nil {
		return t.String()
	}
	return names.Name(t)
}
