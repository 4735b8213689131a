package inventory

// View is a view-model handed to the presentation layer. ViewName selects
// the template.
type View interface {
	ViewName() string
}

type IndexView struct {
	Title         string `json:"title"`
	ItemCount     int64  `json:"item_count"`
	CategoryCount int64  `json:"category_count"`
}

func (IndexView) ViewName() string { return "index" }

type CategoryListView struct {
	Title      string     `json:"title"`
	Categories []Category `json:"category_list"`
}

func (CategoryListView) ViewName() string { return "category_list" }

type CategoryDetailView struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Items    []Item   `json:"category_items"`
}

func (CategoryDetailView) ViewName() string { return "category_detail" }

type CategoryFormView struct {
	Title  string       `json:"title"`
	Form   CategoryForm `json:"category"`
	Errors []FieldError `json:"errors,omitempty"`
}

func (CategoryFormView) ViewName() string { return "category_form" }

// CategoryDeleteView is the delete confirmation. A non-empty Items list
// means the category cannot be deleted yet.
type CategoryDeleteView struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Items    []Item   `json:"category_items"`
}

func (CategoryDeleteView) ViewName() string { return "category_delete" }

type ItemListView struct {
	Title string `json:"title"`
	Items []Item `json:"item_list"`
}

func (ItemListView) ViewName() string { return "item_list" }

type ItemDetailView struct {
	Title string `json:"title"`
	Item  Item   `json:"item"`
}

func (ItemDetailView) ViewName() string { return "item_detail" }

// CategoryOption is one entry of the item form's category checklist.
type CategoryOption struct {
	Category Category `json:"category"`
	Checked  bool     `json:"checked"`
}

type ItemFormView struct {
	Title      string           `json:"title"`
	Form       ItemForm         `json:"item"`
	Categories []CategoryOption `json:"categories"`
	Errors     []FieldError     `json:"errors,omitempty"`
}

func (ItemFormView) ViewName() string { return "item_form" }

type ItemDeleteView struct {
	Title string `json:"title"`
	Item  Item   `json:"item"`
}

func (ItemDeleteView) ViewName() string { return "item_delete" }

const (
	titleIndex          = "Inventory Application Home"
	titleCategoryList   = "Category List"
	titleCategoryDetail = "Category Detail"
	titleCategoryCreate = "Create Category"
	titleCategoryDelete = "Delete Category"
	titleItemList       = "Item List"
	titleItemDetail     = "Item Detail"
	titleItemCreate     = "Create Item"
	titleItemDelete     = "Delete Item"
	titleItemUpdate     = "Update Item"
)

func categoryOptions(categories []Category, selected []string) []CategoryOption {
	checked := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		checked[id] = struct{}{}
	}
	out := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		_, ok := checked[c.ID]
		out = append(out, CategoryOption{Category: c, Checked: ok})
	}
	return out
}
