package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/inventory/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps every form or JSON submission.
const MaxBodyBytes = 1 << 20

var validate = validator.New()

// readBody decodes the submission according to its Content-Type. JSON bodies
// land in dest and yield nil values; urlencoded and multipart bodies are
// returned as form values and dest is left untouched. A missing Content-Type
// reads as an empty urlencoded form.
func readBody(w http.ResponseWriter, r *http.Request, dest any) (url.Values, error) {
	mediaType := ""
	if raw := r.Header.Get("Content-Type"); raw != "" {
		var err error
		if mediaType, _, err = mime.ParseMediaType(raw); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid content type")
		}
	}
	if w != nil {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	}

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return nil, decodeJSON(r.Body, dest)
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
		}
	}
	return r.PostForm, nil
}

// decodeJSON reads exactly one object and rejects fields dest does not name.
func decodeJSON(body io.Reader, dest any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dest)
	_, _ = io.Copy(io.Discard, body)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
		WithDetails(map[string]any{"error": err.Error()})
}

// checkID trims an id read from a delete confirmation and bounds its length.
func checkID(field, raw string) (string, error) {
	id := strings.TrimSpace(raw)
	err := validate.Var(id, fmt.Sprintf("max=%d", maxIDLen))
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{field: fmt.Sprintf("must be at most %s characters", invalid[0].Param())})
	}
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	return id, nil
}
