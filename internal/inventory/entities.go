package inventory

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Category groups items. Name and Description hold the escaped form of what
// was submitted.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// URL is the category's path relative to the inventory mount.
func (c Category) URL() string {
	return "/category/" + c.ID
}

func (c Category) MarshalJSON() ([]byte, error) {
	type alias Category
	return json.Marshal(struct {
		alias
		URL string `json:"url"`
	}{alias: alias(c), URL: c.URL()})
}

// Item is a stocked product. CategoryIDs keeps the submitted order;
// Categories holds the resolved records when a read populates them.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryIDs []string        `json:"category"`
	Categories  []Category      `json:"categories,omitempty"`
}

// URL is the item's path relative to the inventory mount.
func (i Item) URL() string {
	return "/item/" + i.ID
}

func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	a := alias(i)
	if a.CategoryIDs == nil {
		a.CategoryIDs = []string{}
	}
	return json.Marshal(struct {
		alias
		URL string `json:"url"`
	}{alias: a, URL: i.URL()})
}

// populate resolves ids against byID, keeping order and dropping ids that no
// longer name a category.
func populate(ids []string, byID map[string]Category) []Category {
	out := make([]Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
