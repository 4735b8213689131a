package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/inventory/api/responses"
	"github.com/angelmondragon/inventory/api/validators"
	"github.com/angelmondragon/inventory/internal/inventory"
	pkgerrors "github.com/angelmondragon/inventory/pkg/errors"
)

func CategoryList(svc inventory.CategoryService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "category.list"
		out, err := svc.ListCategories(r.Context())
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func CategoryDetail(svc inventory.CategoryService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "category.detail"
		out, err := svc.CategoryDetail(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func CategoryCreateForm(svc inventory.CategoryService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "category.create_form"
		out, err := svc.CategoryCreateForm(r.Context())
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func CategoryCreate(svc inventory.CategoryService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "category.create"
		input, err := validators.DecodeCategoryInput(w, r)
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		out, err := svc.CreateCategory(r.Context(), input)
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func CategoryDeleteForm(svc inventory.CategoryService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "category.delete_form"
		out, err := svc.CategoryDeleteForm(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

// CategoryDelete removes the category named by the confirmation form's
// categoryid field.
func CategoryDelete(svc inventory.CategoryService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "category.delete"
		id, err := deleteTarget(w, r, "categoryid")
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		out, err := svc.DeleteCategory(r.Context(), id)
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

// CategoryUpdate answers both methods of the category update route, which
// has no implementation.
func CategoryUpdate(p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.Error(w, r, "category.update", pkgerrors.New(pkgerrors.CodeNotImplemented, "NOT IMPLEMENTED: Category update "+r.Method))
	}
}

// deleteTarget reads the id posted with a delete confirmation. The path id
// is used when the body omits it; a body naming a different record is refused.
func deleteTarget(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	pathID := chi.URLParam(r, "id")
	bodyID, err := validators.DecodeDeleteID(w, r, field)
	if err != nil {
		return "", err
	}
	if bodyID == "" {
		return pathID, nil
	}
	if pathID != "" && bodyID != pathID {
		return "", pkgerrors.New(pkgerrors.CodeValidation, field+" does not match the url").
			WithDetails(map[string]any{"path_id": pathID, field: bodyID})
	}
	return bodyID, nil
}
