package inventory

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/inventory/pkg/errors"
	"github.com/angelmondragon/inventory/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// CategoryService runs the category pages.
type CategoryService interface {
	ListCategories(ctx context.Context) (Outcome, error)
	CategoryDetail(ctx context.Context, id string) (Outcome, error)
	CategoryCreateForm(ctx context.Context) (Outcome, error)
	CreateCategory(ctx context.Context, input CategoryInput) (Outcome, error)
	CategoryDeleteForm(ctx context.Context, id string) (Outcome, error)
	DeleteCategory(ctx context.Context, id string) (Outcome, error)
}

type categoryService struct {
	store Store
	logg  *logger.Logger
}

// NewCategoryService constructs the category workflow over store.
func NewCategoryService(store Store, logg *logger.Logger) (CategoryService, error) {
	if store == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &categoryService{store: store, logg: logg}, nil
}

func (s *categoryService) ListCategories(ctx context.Context) (Outcome, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return render(CategoryListView{Title: titleCategoryList, Categories: categories}), nil
}

func (s *categoryService) CategoryDetail(ctx context.Context, id string) (Outcome, error) {
	category, items, err := s.loadWithItems(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if category == nil {
		return Outcome{}, categoryNotFound(id)
	}
	return render(CategoryDetailView{Title: titleCategoryDetail, Category: *category, Items: items}), nil
}

func (s *categoryService) CategoryCreateForm(context.Context) (Outcome, error) {
	return render(CategoryFormView{Title: titleCategoryCreate}), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (Outcome, error) {
	form, fieldErrs := ValidateCategory(input)
	if len(fieldErrs) > 0 {
		return invalid(CategoryFormView{Title: titleCategoryCreate, Form: form, Errors: fieldErrs}), nil
	}

	category := form.Category()
	if err := s.store.InsertCategory(ctx, &category); err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert category")
	}
	s.logg.Info(s.logg.WithCategoryID(ctx, category.ID), "category.created")
	return redirect(category.URL()), nil
}

// CategoryDeleteForm redirects to the list when the category is gone instead
// of rendering an empty confirmation.
func (s *categoryService) CategoryDeleteForm(ctx context.Context, id string) (Outcome, error) {
	category, items, err := s.loadWithItems(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if category == nil {
		return redirect(pathCategories), nil
	}
	return render(CategoryDeleteView{Title: titleCategoryDelete, Category: *category, Items: items}), nil
}

// DeleteCategory refuses while any item still lists the category. The check
// and the delete are separate store calls, so an item created in between can
// keep a dangling reference.
func (s *categoryService) DeleteCategory(ctx context.Context, id string) (Outcome, error) {
	category, items, err := s.loadWithItems(ctx, id)
	if err != nil {
		return Outcome{}, err
	}

	if len(items) > 0 {
		view := CategoryDeleteView{Title: titleCategoryDelete, Items: items}
		if category != nil {
			view.Category = *category
		} else {
			view.Category = Category{ID: id}
		}
		return conflict(view), nil
	}

	if category != nil {
		if err := s.store.DeleteCategory(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
		}
		s.logg.Info(s.logg.WithCategoryID(ctx, id), "category.deleted")
	}
	return redirect(pathCategories), nil
}

// loadWithItems reads the category and the items referencing it concurrently.
// A missing category yields a nil category, not an error.
func (s *categoryService) loadWithItems(ctx context.Context, id string) (*Category, []Item, error) {
	var (
		category *Category
		items    []Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.store.GetCategory(gctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get category")
		}
		category = c
		return nil
	})
	g.Go(func() error {
		found, err := s.store.ItemsByCategory(gctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list category items")
		}
		items = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return category, items, nil
}

func categoryNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "Category not found").
		WithDetails(map[string]any{"category_id": id})
}
