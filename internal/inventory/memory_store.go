package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps the inventory in process memory. Useful for local runs
// and tests; nothing survives a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[string]Category
	items      map[string]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: map[string]Category{},
		items:      map[string]Item{},
	}
}

func (m *MemoryStore) ListCategories(ctx context.Context) ([]Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) InsertCategory(ctx context.Context, category *Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	category.ID = uuid.NewString()
	m.categories[category.ID] = *category
	return nil
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *MemoryStore) CountCategories(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.categories)), nil
}

func (m *MemoryStore) ListItems(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, Item{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			CategoryIDs: append([]string{}, it.CategoryIDs...),
			Categories:  populate(it.CategoryIDs, m.categories),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetItem(ctx context.Context, id string) (*Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	it.CategoryIDs = append([]string{}, it.CategoryIDs...)
	it.Categories = populate(it.CategoryIDs, m.categories)
	return &it, nil
}

func (m *MemoryStore) ItemsByCategory(ctx context.Context, categoryID string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Item{}
	for _, it := range m.items {
		for _, ref := range it.CategoryIDs {
			if ref == categoryID {
				out = append(out, Item{ID: it.ID, Name: it.Name, Description: it.Description})
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) InsertItem(ctx context.Context, item *Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item.ID = uuid.NewString()
	m.items[item.ID] = stored(*item)
	return nil
}

func (m *MemoryStore) ReplaceItem(ctx context.Context, item *Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[item.ID]; !ok {
		return ErrNotFound
	}
	m.items[item.ID] = stored(*item)
	return nil
}

func (m *MemoryStore) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) CountItems(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.items)), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func stored(it Item) Item {
	it.Categories = nil
	if it.CategoryIDs == nil {
		it.CategoryIDs = []string{}
	} else {
		it.CategoryIDs = append([]string{}, it.CategoryIDs...)
	}
	return it
}
