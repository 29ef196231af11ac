package rating

import (
	"testing"

	"typeconv/internal/types"
)

func TestPriorityOrder(t *testing.T) {
	tests := []struct {
		name          string
		better, worse Rating
	}{
		{"exact beats promote", Rating{}, Rating{Promote: 1}},
		{"promote beats safe", Rating{Promote: 5}, Rating{SafeConvert: 1}},
		{"safe beats unsafe", Rating{SafeConvert: 9, Promote: 9}, Rating{UnsafeConvert: 1}},
		{"fewer promotions", Rating{Promote: 1}, Rating{Promote: 2}},
		{"real beats impossible", Rating{UnsafeConvert: 1000}, Impossible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.better.Less(tt.worse) {
				t.Fatalf("%v should be better than %v", tt.better, tt.worse)
			}
			if tt.worse.Less(tt.better) {
				t.Fatalf("%v should not be better than %v", tt.worse, tt.better)
			}
		})
	}
}

func TestMarkImpossible(t *testing.T) {
	var r Rating
	r.Count(types.Promote)
	r.MarkImpossible()
	if !r.IsImpossible() {
		t.Fatalf("expected impossible, got %v", r)
	}
	if r.Add(Rating{Promote: 1}) != Impossible {
		t.Fatalf("impossible should absorb in Add")
	}
}

func TestCountIgnoresExact(t *testing.T) {
	var r Rating
	r.Count(types.Exact)
	r.Count(types.SafeConvert)
	r.Count(types.UnsafeConvert)
	r.Count(types.UnsafeConvert)
	if r.IsExact() {
		t.Fatalf("rating should not be exact")
	}
	if got := r.Tuple(); got != [3]uint32{2, 1, 0} {
		t.Fatalf("Tuple = %v", got)
	}
}
