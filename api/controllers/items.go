package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/inventory/api/responses"
	"github.com/angelmondragon/inventory/api/validators"
	"github.com/angelmondragon/inventory/internal/inventory"
)

// Index renders the home page with item and category counts.
func Index(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "index"
		out, err := svc.IndexSummary(r.Context())
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func ItemList(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "item.list"
		out, err := svc.ListItems(r.Context())
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func ItemDetail(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "item.detail"
		out, err := svc.ItemDetail(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func ItemCreateForm(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "item.create_form"
		out, err := svc.ItemCreateForm(r.Context())
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func ItemCreate(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "item.create"
		input, err := validators.DecodeItemInput(w, r)
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		out, err := svc.CreateItem(r.Context(), input)
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func ItemDeleteForm(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "item.delete_form"
		out, err := svc.ItemDeleteForm(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func ItemDelete(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "item.delete"
		id, err := deleteTarget(w, r, "itemid")
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		out, err := svc.DeleteItem(r.Context(), id)
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

func ItemUpdateForm(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "item.update_form"
		out, err := svc.ItemUpdateForm(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}

// ItemUpdate replaces the item at the path id with the submitted form.
func ItemUpdate(svc inventory.ItemService, p *responses.Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "item.update"
		input, err := validators.DecodeItemInput(w, r)
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		out, err := svc.UpdateItem(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			p.Error(w, r, op, err)
			return
		}
		p.Outcome(w, r, op, out)
	}
}
