package inventory

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CategoryInput is the raw category form submission.
type CategoryInput struct {
	Name        string
	Description string
}

// ItemInput is the raw item form submission.
type ItemInput struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Category    Selection
}

// FieldError is one failed form constraint, in form field order.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// CategoryForm carries sanitized category form values for display.
type CategoryForm struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description" form:"description"`
}

// ItemForm carries sanitized item form values for display.
type ItemForm struct {
	Name        string   `json:"name" form:"name" validate:"required"`
	Description string   `json:"description" form:"description"`
	Price       string   `json:"price" form:"price" validate:"required,decimal,nonnegative"`
	Stock       string   `json:"stock" form:"stock" validate:"required,count"`
	Category    []string `json:"category" form:"category"`
}

var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "Name must not be empty.",
	},
	"price": {
		"required":    "Price must not be empty.",
		"decimal":     "Price must be a number.",
		"nonnegative": "Price must not be negative.",
	},
	"stock": {
		"required": "Stock must not be empty.",
		"count":    "Stock must be a whole number of zero or more.",
	},
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "decimal", func(fl validator.FieldLevel) bool {
		return numberPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "nonnegative", func(fl validator.FieldLevel) bool {
		d, err := parsePrice(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
	mustRegister(v, "count", func(fl validator.FieldLevel) bool {
		_, err := parseStock(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("inventory: register %q validation: %v", tag, err))
	}
}

// numberPattern accepts an optional sign, optional integer digits and an
// optional fraction: "5", "-1.25", ".5". A trailing point ("5.") is rejected.
var numberPattern = regexp.MustCompile(`^[+-]?([0-9]*[.])?[0-9]+$`)

// parsePrice reads a string accepted by numberPattern.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(s, "+")
	switch {
	case strings.HasPrefix(s, "."):
		s = "0" + s
	case strings.HasPrefix(s, "-."):
		s = "-0" + s[1:]
	}
	return decimal.NewFromString(s)
}

// parseStock reads a non-negative count that fits the 32-bit stock column.
func parseStock(s string) (int, error) {
	if strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("stock %q: explicit sign", s)
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("stock %q out of range", s)
	}
	return int(n), nil
}

// ValidateCategory trims, checks and escapes a category submission. The
// returned form always holds the sanitized values.
func ValidateCategory(input CategoryInput) (CategoryForm, []FieldError) {
	form := CategoryForm{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	errs := check(form)
	form.Name = Escape(form.Name)
	form.Description = Escape(form.Description)
	return form, escapeValues(errs)
}

// ValidateItem normalizes the category selection, then trims, checks and
// escapes an item submission.
func ValidateItem(input ItemInput) (ItemForm, []FieldError) {
	form := ItemForm{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       strings.TrimSpace(input.Price),
		Stock:       strings.TrimSpace(input.Stock),
		Category:    input.Category.Normalize(),
	}
	errs := check(form)
	form.Name = Escape(form.Name)
	form.Description = Escape(form.Description)
	form.Price = Escape(form.Price)
	form.Stock = Escape(form.Stock)
	for i, id := range form.Category {
		form.Category[i] = Escape(id)
	}
	return form, escapeValues(errs)
}

// Category builds the entity from a form that passed validation.
func (f CategoryForm) Category() Category {
	return Category{Name: f.Name, Description: f.Description}
}

// Item builds the entity from a form that passed validation.
func (f ItemForm) Item() (Item, error) {
	price, err := parsePrice(f.Price)
	if err != nil {
		return Item{}, err
	}
	stock, err := parseStock(f.Stock)
	if err != nil {
		return Item{}, err
	}
	return Item{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Stock:       stock,
		CategoryIDs: append([]string{}, f.Category...),
	}, nil
}

func check(form any) []FieldError {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "form", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe.Field(), fe.Tag()),
			Value:   fe.Value().(string),
		})
	}
	return out
}

func messageFor(field, tag string) string {
	if msg, ok := fieldMessages[field][tag]; ok {
		return msg
	}
	return "Invalid " + field
}

func escapeValues(errs []FieldError) []FieldError {
	for i := range errs {
		errs[i].Value = Escape(errs[i].Value)
	}
	return errs
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces HTML-significant characters with entities. Stored text is
// kept in this form.
func Escape(s string) string {
	return escaper.Replace(s)
}

var unescaper = strings.NewReplacer(
	"&amp;", "&",
	"&quot;", `"`,
	"&#x27;", "'",
	"&lt;", "<",
	"&gt;", ">",
	"&#x2F;", "/",
	"&#x5C;", `\`,
	"&#96;", "`",
)

// Unescape reverses Escape for display through an auto-escaping renderer.
func Unescape(s string) string {
	return unescaper.Replace(s)
}
