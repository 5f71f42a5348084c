// Package validate checks candidate product payloads against the
// catalog schema. It is pure: it never touches storage or the
// database.
package validate

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"product-store/internal/models"
)

var check = validator.New()

// Form carries the raw non-file fields of a multipart submission.
type Form struct {
	ID          string
	Name        string
	Price       string
	Stock       string
	Colors      []string
	Category    string
	Company     string
	Description string
	Featured    string
	Shipping    string
	Reviews     string
	Stars       string
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every violation found in a payload.
type Error struct {
	Fields []FieldError `json:"errors"`
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Product validates the raw form fields and returns the normalized
// payload, or an *Error listing every violation.
func Product(f Form) (models.ProductInput, *Error) {
	var verr Error
	fail := func(field, msg string) {
		verr.Fields = append(verr.Fields, FieldError{Field: field, Message: msg})
	}

	required := []struct{ name, value string }{
		{"id", f.ID},
		{"name", f.Name},
		{"price", f.Price},
		{"category", f.Category},
		{"company", f.Company},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fail(r.name, "is required")
		}
	}

	in := models.ProductInput{
		ID:          strings.TrimSpace(f.ID),
		Name:        strings.TrimSpace(f.Name),
		Colors:      f.Colors,
		Category:    strings.TrimSpace(f.Category),
		Company:     strings.TrimSpace(f.Company),
		Description: f.Description,
	}

	in.Price = parseFloat(f.Price, "price", fail)
	in.Stars = parseFloat(f.Stars, "stars", fail)
	in.Stock = parseInt(f.Stock, "stock", fail)
	in.Reviews = parseInt(f.Reviews, "reviews", fail)
	in.Featured = parseBool(f.Featured, "featured", fail)
	in.Shipping = parseBool(f.Shipping, "shipping", fail)

	if len(verr.Fields) > 0 {
		return models.ProductInput{}, &verr
	}

	if err := check.Struct(in); err != nil {
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) {
			for _, fe := range ferrs {
				fail(strings.ToLower(fe.Field()), constraintMessage(fe))
			}
		} else {
			fail("payload", err.Error())
		}
		return models.ProductInput{}, &verr
	}

	return in, nil
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}

func parseFloat(s, field string, fail func(field, msg string)) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		fail(field, "must be a number")
	}
	return v
}

func parseInt(s, field string, fail func(field, msg string)) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		fail(field, "must be an integer")
	}
	return v
}

func parseBool(s, field string, fail func(field, msg string)) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		fail(field, "must be true or false")
	}
	return v
}
