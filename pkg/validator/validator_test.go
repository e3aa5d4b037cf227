package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email        string `json:"email" validate:"required,email"`
	FullName     string `json:"full_name" validate:"required,min=2"`
	DiscountType string `json:"discount_type" validate:"omitempty,oneof=fixed percent"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
}

func TestFormatValidationErrorsUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Email: "nope", FullName: "A", DiscountType: "coupon", Quantity: -1})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "email must be a valid email address", msgs["email"])
	assert.Equal(t, "full_name must be at least 2 characters", msgs["full_name"])
	assert.Equal(t, "discount_type must be one of: fixed, percent", msgs["discount_type"])
	assert.Equal(t, "quantity must be greater than or equal to 0", msgs["quantity"])
}

func TestValidatePasses(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&sample{Email: "a@b.co", FullName: "Ann", DiscountType: "percent"}))
}

func TestFormatIgnoresForeignErrors(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.FormatValidationErrors(assert.AnError))
}
