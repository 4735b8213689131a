package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/angelmondragon/inventory/internal/inventory"
	"github.com/angelmondragon/inventory/pkg/logger"
	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var defaultFixture []byte

// Fixture lists the categories and items to create. Items name their
// categories by key.
type Fixture struct {
	Categories []CategoryFixture `yaml:"categories"`
	Items      []ItemFixture     `yaml:"items"`
}

type CategoryFixture struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type ItemFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Stock       string   `yaml:"stock"`
	Categories  []string `yaml:"categories"`
}

// Result counts what a run created.
type Result struct {
	Categories int
	Items      int
}

// Default returns the built-in sample inventory.
func Default() (Fixture, error) {
	return Parse(defaultFixture)
}

// LoadFile reads a fixture from disk.
func LoadFile(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML fixture and checks its category keys.
func Parse(data []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Fixture{}, err
	}
	return f, nil
}

func (f Fixture) Validate() error {
	keys := map[string]struct{}{}
	for i, c := range f.Categories {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return fmt.Errorf("category %d: key is required", i)
		}
		if _, dup := keys[key]; dup {
			return fmt.Errorf("category %d: duplicate key %q", i, key)
		}
		keys[key] = struct{}{}
	}
	for i, it := range f.Items {
		for _, key := range it.Categories {
			if _, ok := keys[key]; !ok {
				return fmt.Errorf("item %d (%s): unknown category key %q", i, it.Name, key)
			}
		}
	}
	return nil
}

// Run inserts the fixture through store. Records pass the same validation
// and escaping as form submissions; the first invalid record stops the run.
func Run(ctx context.Context, store inventory.Store, f Fixture, logg *logger.Logger) (Result, error) {
	if store == nil {
		return Result{}, fmt.Errorf("inventory store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	var res Result
	ids := make(map[string]string, len(f.Categories))

	for _, c := range f.Categories {
		form, errs := inventory.ValidateCategory(inventory.CategoryInput{Name: c.Name, Description: c.Description})
		if len(errs) > 0 {
			return res, fmt.Errorf("category %q: %s", c.Key, errs[0].Message)
		}
		category := form.Category()
		if err := store.InsertCategory(ctx, &category); err != nil {
			return res, fmt.Errorf("insert category %q: %w", c.Key, err)
		}
		ids[c.Key] = category.ID
		res.Categories++
		logg.Info(logg.WithCategoryID(ctx, category.ID), "seed.category_added")
	}

	for _, it := range f.Items {
		refs := make([]string, 0, len(it.Categories))
		for _, key := range it.Categories {
			refs = append(refs, ids[key])
		}
		form, errs := inventory.ValidateItem(inventory.ItemInput{
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Stock:       it.Stock,
			Category:    inventory.ListSelection(refs),
		})
		if len(errs) > 0 {
			return res, fmt.Errorf("item %q: %s", it.Name, errs[0].Message)
		}
		item, err := form.Item()
		if err != nil {
			return res, fmt.Errorf("item %q: %w", it.Name, err)
		}
		if err := store.InsertItem(ctx, &item); err != nil {
			return res, fmt.Errorf("insert item %q: %w", it.Name, err)
		}
		res.Items++
		logg.Info(logg.WithItemID(ctx, item.ID), "seed.item_added")
	}

	return res, nil
}
