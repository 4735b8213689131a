package responses

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/inventory/api/views"
	"github.com/angelmondragon/inventory/internal/inventory"
	pkgerrors "github.com/angelmondragon/inventory/pkg/errors"
	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/angelmondragon/inventory/pkg/metrics"
)

// PresenterParams wires a Presenter.
type PresenterParams struct {
	Renderer *views.Renderer
	Logger   *logger.Logger
	Metrics  *metrics.WorkflowMetrics
	// BasePath is where the inventory routes are mounted; workflow redirects
	// are relative to it.
	BasePath string
	// ExposeErrors shows error chains on HTML error pages. Keep it off in
	// production.
	ExposeErrors bool
}

// Presenter turns workflow outcomes into HTTP responses: HTML pages by
// default, the JSON envelope when the client asks for application/json.
type Presenter struct {
	renderer     *views.Renderer
	logg         *logger.Logger
	metrics      *metrics.WorkflowMetrics
	basePath     string
	exposeErrors bool
}

func NewPresenter(p PresenterParams) (*Presenter, error) {
	if p.Renderer == nil {
		return nil, fmt.Errorf("view renderer required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Presenter{
		renderer:     p.Renderer,
		logg:         p.Logger,
		metrics:      p.Metrics,
		basePath:     p.BasePath,
		exposeErrors: p.ExposeErrors,
	}, nil
}

// Outcome writes the result of the workflow step op.
func (p *Presenter) Outcome(w http.ResponseWriter, r *http.Request, op string, o inventory.Outcome) {
	p.metrics.IncOutcome(op, o.Kind.String())

	switch o.Kind {
	case inventory.OutcomeRedirect:
		p.Redirect(w, r, o.RedirectTo)
	case inventory.OutcomeValidationFailed:
		p.View(w, r, pkgerrors.MetadataFor(pkgerrors.CodeInvalidForm).HTTPStatus, o.View)
	case inventory.OutcomeReferentialConflict:
		p.View(w, r, pkgerrors.MetadataFor(pkgerrors.CodeConflict).HTTPStatus, o.View)
	default:
		p.View(w, r, http.StatusOK, o.View)
	}
}

// Redirect sends the client to path under the mount point: 303 after a
// POST so the browser follows with a GET, 302 otherwise.
func (p *Presenter) Redirect(w http.ResponseWriter, r *http.Request, path string) {
	status := http.StatusFound
	if r.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, views.Link(p.basePath, path), status)
}

// View renders v with status.
func (p *Presenter) View(w http.ResponseWriter, r *http.Request, status int, v inventory.View) {
	if v == nil {
		p.Error(w, r, "", pkgerrors.New(pkgerrors.CodeInternal, "workflow returned no view"))
		return
	}
	if WantsJSON(r) {
		WriteSuccessStatus(w, status, v)
		return
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, v); err != nil {
		p.Error(w, r, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render view"))
		return
	}
	writeHTML(w, status, buf.Bytes())
}

// Error writes err through the typed error taxonomy. op may be empty when
// the failure happened outside a workflow step.
func (p *Presenter) Error(w http.ResponseWriter, r *http.Request, op string, err error) {
	if op != "" {
		p.metrics.IncOutcome(op, "error")
	}
	ctx := r.Context()
	if WantsJSON(r) {
		WriteError(ctx, p.logg, w, err)
		return
	}

	typed, meta, msg := resolve(err)
	logError(ctx, p.logg, err, typed)

	page := views.ErrorView{
		Title:   http.StatusText(meta.HTTPStatus),
		Status:  meta.HTTPStatus,
		Message: msg,
	}
	if p.exposeErrors && err != nil {
		page.Detail = err.Error()
	}

	var buf bytes.Buffer
	if rerr := p.renderer.Render(&buf, page); rerr != nil {
		p.logg.Error(ctx, "error page render failed", rerr)
		http.Error(w, msg, meta.HTTPStatus)
		return
	}
	writeHTML(w, meta.HTTPStatus, buf.Bytes())
}

// WantsJSON reports whether the client prefers JSON over HTML.
func WantsJSON(r *http.Request) bool {
	accept := strings.ToLower(r.Header.Get("Accept"))
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
