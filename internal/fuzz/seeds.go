package fuzztests

import (
	"testing"

	"typeconv/internal/universe"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func addTableSeeds(f *testing.F) {
	tbl := universe.DefaultTable()
	if data, err := tbl.EncodeTOML(); err == nil {
		f.Add(data, false)
	}
	if data, err := tbl.EncodeYAML(); err == nil {
		f.Add(data, true)
	}
	f.Add([]byte{}, false)
	f.Add([]byte("types = [\"a\", \"b\"]\n[[rules]]\nfrom = \"a\"\nto = \"b\"\nkind = \"promote\"\nreverse = \"unsafe\"\n"), false)
	f.Add([]byte("types = [\"a\", \"a\"]\n"), false)
	f.Add([]byte("types: [a, b]\nrules:\n  - {from: a, to: b, kind: safe}\n"), true)
	f.Add([]byte("types: [a]\nrules:\n  - {from: a, to: a, kind: promote}\n"), true)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
