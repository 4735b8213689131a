package inventory

// SelectionKind tells how a multi-value form field arrived.
type SelectionKind int

const (
	SelectionAbsent SelectionKind = iota
	SelectionScalar
	SelectionList
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionScalar:
		return "scalar"
	case SelectionList:
		return "list"
	default:
		return "absent"
	}
}

// Selection is the raw category field of an item form: missing, a single
// value, or a list of values. The zero value is absent.
type Selection struct {
	kind   SelectionKind
	values []string
}

func AbsentSelection() Selection {
	return Selection{kind: SelectionAbsent}
}

func ScalarSelection(value string) Selection {
	return Selection{kind: SelectionScalar, values: []string{value}}
}

func ListSelection(values []string) Selection {
	return Selection{kind: SelectionList, values: append([]string(nil), values...)}
}

func (s Selection) Kind() SelectionKind {
	return s.kind
}

// Normalize returns the selection as a list: absent becomes empty, a scalar
// becomes a one element list, and a list is copied unchanged.
func (s Selection) Normalize() []string {
	switch s.kind {
	case SelectionScalar:
		return []string{s.values[0]}
	case SelectionList:
		out := make([]string, len(s.values))
		copy(out, s.values)
		return out
	default:
		return []string{}
	}
}
