package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-store/internal/validate"
)

func validForm() validate.Form {
	return validate.Form{
		ID:       "p1",
		Name:     "Mug",
		Price:    "9.99",
		Stock:    "5",
		Colors:   []string{"#ff0000", "#00ff00"},
		Category: "kitchen",
		Company:  "acme",
		Featured: "true",
		Stars:    "4.5",
		Reviews:  "12",
	}
}

func fields(err *validate.Error) []string {
	out := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestProductNormalizesValidForm(t *testing.T) {
	in, verr := validate.Product(validForm())
	require.Nil(t, verr)

	assert.Equal(t, "p1", in.ID)
	assert.Equal(t, "Mug", in.Name)
	assert.Equal(t, 9.99, in.Price)
	assert.Equal(t, 5, in.Stock)
	assert.Equal(t, []string{"#ff0000", "#00ff00"}, in.Colors)
	assert.True(t, in.Featured)
	assert.False(t, in.Shipping)
	assert.Equal(t, 4.5, in.Stars)
	assert.Equal(t, 12, in.Reviews)
}

func TestProductOptionalFieldsDefault(t *testing.T) {
	f := validForm()
	f.Stock = ""
	f.Stars = ""
	f.Reviews = ""
	f.Featured = ""

	in, verr := validate.Product(f)
	require.Nil(t, verr)
	assert.Zero(t, in.Stock)
	assert.Zero(t, in.Stars)
	assert.Zero(t, in.Reviews)
	assert.False(t, in.Featured)
}

func TestProductCollectsEveryMissingRequiredField(t *testing.T) {
	_, verr := validate.Product(validate.Form{})
	require.NotNil(t, verr)
	assert.ElementsMatch(t, []string{"id", "name", "price", "category", "company"}, fields(verr))
}

func TestProductRejectsNegativePrice(t *testing.T) {
	f := validForm()
	f.Price = "-1"

	_, verr := validate.Product(f)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"price"}, fields(verr))
}

func TestProductRejectsOutOfRangeStars(t *testing.T) {
	f := validForm()
	f.Stars = "5.5"

	_, verr := validate.Product(f)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"stars"}, fields(verr))

	f.Stars = "-0.5"
	_, verr = validate.Product(f)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"stars"}, fields(verr))
}

func TestProductRejectsMalformedNumbers(t *testing.T) {
	f := validForm()
	f.Price = "cheap"
	f.Stock = "many"
	f.Shipping = "maybe"

	_, verr := validate.Product(f)
	require.NotNil(t, verr)
	assert.ElementsMatch(t, []string{"price", "stock", "shipping"}, fields(verr))
}

func TestProductErrorMessage(t *testing.T) {
	f := validForm()
	f.Price = "-2"
	f.Stock = "-3"

	_, verr := validate.Product(f)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Error(), "price")
	assert.Contains(t, verr.Error(), "stock")
}
