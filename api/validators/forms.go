package validators

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/angelmondragon/inventory/internal/inventory"
	pkgerrors "github.com/angelmondragon/inventory/pkg/errors"
)

// maxIDLen bounds ids read from delete confirmations.
const maxIDLen = 128

type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type itemPayload struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       flexString    `json:"price"`
	Stock       flexString    `json:"stock"`
	Category    flexSelection `json:"category"`
}

type deletePayload struct {
	CategoryID string `json:"categoryid"`
	ItemID     string `json:"itemid"`
}

// DecodeCategoryInput reads a category submission from a urlencoded,
// multipart or JSON body.
func DecodeCategoryInput(w http.ResponseWriter, r *http.Request) (inventory.CategoryInput, error) {
	var body categoryPayload
	form, err := readBody(w, r, &body)
	if err != nil {
		return inventory.CategoryInput{}, err
	}
	if form != nil {
		body = categoryPayload{Name: form.Get("name"), Description: form.Get("description")}
	}
	return inventory.CategoryInput{Name: body.Name, Description: body.Description}, nil
}

// DecodeItemInput reads an item submission. The category field keeps its
// shape: missing, one value, or several.
func DecodeItemInput(w http.ResponseWriter, r *http.Request) (inventory.ItemInput, error) {
	var body itemPayload
	form, err := readBody(w, r, &body)
	if err != nil {
		return inventory.ItemInput{}, err
	}
	if form != nil {
		return inventory.ItemInput{
			Name:        form.Get("name"),
			Description: form.Get("description"),
			Price:       form.Get("price"),
			Stock:       form.Get("stock"),
			Category:    formSelection(form["category"]),
		}, nil
	}
	return inventory.ItemInput{
		Name:        body.Name,
		Description: body.Description,
		Price:       string(body.Price),
		Stock:       string(body.Stock),
		Category:    body.Category.sel,
	}, nil
}

// DecodeDeleteID reads the id named by field ("categoryid" or "itemid") from
// a delete confirmation. A missing field yields "".
func DecodeDeleteID(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	var body deletePayload
	form, err := readBody(w, r, &body)
	if err != nil {
		return "", err
	}
	if form != nil {
		return checkID(field, form.Get(field))
	}
	switch field {
	case "categoryid":
		return checkID(field, body.CategoryID)
	case "itemid":
		return checkID(field, body.ItemID)
	default:
		return "", fmt.Errorf("unsupported delete field %q", field)
	}
}

// formSelection mirrors how a urlencoded parser reports a repeated key: no
// value is absent, one value is a scalar, more than one is a list.
func formSelection(values []string) inventory.Selection {
	switch len(values) {
	case 0:
		return inventory.AbsentSelection()
	case 1:
		return inventory.ScalarSelection(values[0])
	default:
		return inventory.ListSelection(values)
	}
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number")
	}
	*f = flexString(n.String())
	return nil
}

// flexSelection accepts null, a string, or an array of strings.
type flexSelection struct {
	sel inventory.Selection
}

func (f *flexSelection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		f.sel = inventory.AbsentSelection()
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.sel = inventory.ScalarSelection(s)
	case len(data) > 0 && data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "category must list strings")
		}
		f.sel = inventory.ListSelection(list)
	default:
		return fmt.Errorf("category must be a string or an array of strings")
	}
	return nil
}
