package inventory

import (
	"reflect"
	"testing"
)

func TestSelectionNormalize(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		kind SelectionKind
		want []string
	}{
		{name: "zero value is absent", sel: Selection{}, kind: SelectionAbsent, want: []string{}},
		{name: "absent", sel: AbsentSelection(), kind: SelectionAbsent, want: []string{}},
		{name: "scalar", sel: ScalarSelection("a"), kind: SelectionScalar, want: []string{"a"}},
		{name: "empty scalar stays a singleton", sel: ScalarSelection(""), kind: SelectionScalar, want: []string{""}},
		{name: "list", sel: ListSelection([]string{"b", "a"}), kind: SelectionList, want: []string{"b", "a"}},
		{name: "empty list", sel: ListSelection(nil), kind: SelectionList, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.sel.Kind() != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, tt.sel.Kind())
			}
			got := tt.sel.Normalize()
			if got == nil {
				t.Fatalf("Normalize must never return nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSelectionNormalizeCopies(t *testing.T) {
	src := []string{"a", "b"}
	sel := ListSelection(src)
	src[0] = "changed"

	out := sel.Normalize()
	out[1] = "mutated"

	again := sel.Normalize()
	if again[0] != "a" || again[1] != "b" {
		t.Fatalf("selection shares backing storage: %v", again)
	}
}
