package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	pkgerrors "github.com/angelmondragon/inventory/pkg/errors"
	"github.com/angelmondragon/inventory/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// ItemService runs the index and item pages.
type ItemService interface {
	IndexSummary(ctx context.Context) (Outcome, error)
	ListItems(ctx context.Context) (Outcome, error)
	ItemDetail(ctx context.Context, id string) (Outcome, error)
	ItemCreateForm(ctx context.Context) (Outcome, error)
	CreateItem(ctx context.Context, input ItemInput) (Outcome, error)
	ItemDeleteForm(ctx context.Context, id string) (Outcome, error)
	DeleteItem(ctx context.Context, id string) (Outcome, error)
	ItemUpdateForm(ctx context.Context, id string) (Outcome, error)
	UpdateItem(ctx context.Context, id string, input ItemInput) (Outcome, error)
}

type itemService struct {
	store Store
	logg  *logger.Logger
}

// NewItemService constructs the item workflow over store.
func NewItemService(store Store, logg *logger.Logger) (ItemService, error) {
	if store == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &itemService{store: store, logg: logg}, nil
}

func (s *itemService) IndexSummary(ctx context.Context) (Outcome, error) {
	var items, categories int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountItems(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count items")
		}
		items = n
		return nil
	})
	g.Go(func() error {
		n, err := s.store.CountCategories(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
		}
		categories = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	return render(IndexView{Title: titleIndex, ItemCount: items, CategoryCount: categories}), nil
}

func (s *itemService) ListItems(ctx context.Context) (Outcome, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return render(ItemListView{Title: titleItemList, Items: items}), nil
}

func (s *itemService) ItemDetail(ctx context.Context, id string) (Outcome, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	return render(ItemDetailView{Title: titleItemDetail, Item: *item}), nil
}

func (s *itemService) ItemCreateForm(ctx context.Context) (Outcome, error) {
	categories, err := s.listCategories(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return render(ItemFormView{
		Title:      titleItemCreate,
		Form:       ItemForm{Category: []string{}},
		Categories: categoryOptions(categories, nil),
	}), nil
}

func (s *itemService) CreateItem(ctx context.Context, input ItemInput) (Outcome, error) {
	form, fieldErrs := ValidateItem(input)
	if len(fieldErrs) > 0 {
		return s.invalidForm(ctx, titleItemCreate, form, fieldErrs)
	}

	item, err := form.Item()
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build item")
	}
	if err := s.store.InsertItem(ctx, &item); err != nil {
		return Outcome{}, storeWriteError(err, "insert item")
	}
	s.logg.Info(s.logg.WithItemID(ctx, item.ID), "item.created")
	return redirect(item.URL()), nil
}

// ItemDeleteForm redirects to the list when the item is gone instead of
// rendering an empty confirmation.
func (s *itemService) ItemDeleteForm(ctx context.Context, id string) (Outcome, error) {
	item, err := s.store.GetItem(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return redirect(pathItems), nil
	}
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get item")
	}
	return render(ItemDeleteView{Title: titleItemDelete, Item: *item}), nil
}

// DeleteItem removes the item unconditionally; nothing references items.
func (s *itemService) DeleteItem(ctx context.Context, id string) (Outcome, error) {
	if err := s.store.DeleteItem(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	s.logg.Info(s.logg.WithItemID(ctx, id), "item.deleted")
	return redirect(pathItems), nil
}

func (s *itemService) ItemUpdateForm(ctx context.Context, id string) (Outcome, error) {
	var (
		item       *Item
		categories []Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.getItem(gctx, id)
		if err != nil {
			return err
		}
		item = found
		return nil
	})
	g.Go(func() error {
		found, err := s.listCategories(gctx)
		if err != nil {
			return err
		}
		categories = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	form := ItemForm{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.String(),
		Stock:       strconv.Itoa(item.Stock),
		Category:    append([]string{}, item.CategoryIDs...),
	}
	return render(ItemFormView{
		Title:      titleItemUpdate,
		Form:       form,
		Categories: categoryOptions(categories, item.CategoryIDs),
	}), nil
}

// UpdateItem replaces every field of the stored item, keeping its id. On a
// failed submission the checklist is marked from the submitted categories.
func (s *itemService) UpdateItem(ctx context.Context, id string, input ItemInput) (Outcome, error) {
	form, fieldErrs := ValidateItem(input)
	if len(fieldErrs) > 0 {
		return s.invalidForm(ctx, titleItemUpdate, form, fieldErrs)
	}

	item, err := form.Item()
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build item")
	}
	item.ID = id
	if err := s.store.ReplaceItem(ctx, &item); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Outcome{}, itemNotFound(id)
		}
		return Outcome{}, storeWriteError(err, "replace item")
	}
	s.logg.Info(s.logg.WithItemID(ctx, id), "item.updated")
	return redirect(item.URL()), nil
}

func (s *itemService) invalidForm(ctx context.Context, title string, form ItemForm, fieldErrs []FieldError) (Outcome, error) {
	categories, err := s.listCategories(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return invalid(ItemFormView{
		Title:      title,
		Form:       form,
		Categories: categoryOptions(categories, form.Category),
		Errors:     fieldErrs,
	}), nil
}

func (s *itemService) getItem(ctx context.Context, id string) (*Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, itemNotFound(id)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get item")
	}
	return item, nil
}

func (s *itemService) listCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func storeWriteError(err error, msg string) error {
	if errors.Is(err, ErrInvalidReference) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "category reference is not a valid id")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func itemNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found").
		WithDetails(map[string]any{"item_id": id})
}
