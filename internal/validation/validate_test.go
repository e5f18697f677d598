package validation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/model"
	"github.com/printforge/storefront/order/pkg/request"
)

func TestCheckoutFormValid(t *testing.T) {
	v := New()
	form := request.Checkout{Name: "Ada Lovelace", Email: "ada@example.com", City: "London"}
	assert.NoError(t, v.Struct(context.Background(), form))
}

func TestCheckoutFormListsEveryViolation(t *testing.T) {
	v := New()
	form := request.Checkout{Name: "A", Email: "not-an-email"}

	err := v.Struct(context.Background(), form)
	require.Error(t, err)

	validationErrors, ok := inErrors.AsValidationErrors(err)
	require.True(t, ok)

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "city"}, fields)
}

func TestCheckoutFormFieldMessages(t *testing.T) {
	v := New()

	tests := []struct {
		name            string
		form            request.Checkout
		expectedField   string
		expectedMessage string
	}{
		{
			name:            "given missing name should report required",
			form:            request.Checkout{Email: "ada@example.com", City: "London"},
			expectedField:   "name",
			expectedMessage: "is required",
		},
		{
			name:            "given short name should report min length",
			form:            request.Checkout{Name: "A", Email: "ada@example.com", City: "London"},
			expectedField:   "name",
			expectedMessage: "must be at least 2 characters",
		},
		{
			name:            "given invalid email should report email format",
			form:            request.Checkout{Name: "Ada Lovelace", Email: "nope", City: "London"},
			expectedField:   "email",
			expectedMessage: "must be a valid email address",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(context.Background(), tt.form)
			require.Error(t, err)

			validationErrors, ok := inErrors.AsValidationErrors(err)
			require.True(t, ok)
			require.Len(t, validationErrors, 1)
			assert.Equal(t, tt.expectedField, validationErrors[0].Field)
			assert.Equal(t, tt.expectedMessage, validationErrors[0].Message)
		})
	}
}

func TestCartItemQuantityAtLeastOne(t *testing.T) {
	v := New()
	item := model.CartItem{
		ID:        "item-1",
		ProductID: "benchy",
		Product:   model.ProductSnapshot{Name: "Calibration Benchy", Price: decimal.NewFromInt(10)},
		Quantity:  0,
	}

	err := v.Struct(context.Background(), item)
	require.Error(t, err)

	validationErrors, ok := inErrors.AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, "quantity", validationErrors[0].Field)
}

func TestNegativeSnapshotPriceRejected(t *testing.T) {
	v := New()
	snapshot := model.ProductSnapshot{Name: "Calibration Benchy", Price: decimal.NewFromInt(-1)}

	err := v.Struct(context.Background(), snapshot)
	require.Error(t, err)

	validationErrors, ok := inErrors.AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, "price", validationErrors[0].Field)
}

func TestNestedFieldPath(t *testing.T) {
	v := New()
	cart := model.Cart{
		ID: "cart-1",
		Items: []model.CartItem{{
			ID:        "item-1",
			ProductID: "benchy",
			Product:   model.ProductSnapshot{Name: "Calibration Benchy", Price: decimal.NewFromInt(10)},
			Quantity:  1,
			Customizations: []model.Customization{
				{Name: "color", Value: ""},
			},
		}},
	}

	err := v.Struct(context.Background(), cart)
	require.Error(t, err)

	validationErrors, ok := inErrors.AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, "items[0].customizations[0].value", validationErrors[0].Field)
}
