package inventory

// OutcomeKind classifies how a workflow step finished.
type OutcomeKind int

const (
	OutcomeRender OutcomeKind = iota
	OutcomeRedirect
	OutcomeValidationFailed
	OutcomeReferentialConflict
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeReferentialConflict:
		return "referential_conflict"
	default:
		return "render"
	}
}

// Outcome is what a workflow hands back to the transport: a view to render
// or a path to redirect to. RedirectTo is relative to the inventory mount.
type Outcome struct {
	Kind       OutcomeKind
	View       View
	RedirectTo string
}

func render(v View) Outcome {
	return Outcome{Kind: OutcomeRender, View: v}
}

func redirect(path string) Outcome {
	return Outcome{Kind: OutcomeRedirect, RedirectTo: path}
}

func invalid(v View) Outcome {
	return Outcome{Kind: OutcomeValidationFailed, View: v}
}

func conflict(v View) Outcome {
	return Outcome{Kind: OutcomeReferentialConflict, View: v}
}

const (
	pathCategories = "/categories"
	pathItems      = "/items"
)
