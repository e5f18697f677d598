package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartItemUnitPrice(t *testing.T) {
	item := CartItem{
		Product: ProductSnapshot{Name: "Spiral Vase", Price: decimal.RequireFromString("24.50")},
		Customizations: []Customization{
			{Name: "color", Value: "red", PriceModifier: decimal.RequireFromString("0.50")},
			{Name: "size", Value: "large", PriceModifier: decimal.NewFromInt(5)},
		},
		Quantity: 2,
	}

	assert.True(t, item.UnitPrice().Equal(decimal.NewFromInt(30)), "unitPrice=%s", item.UnitPrice())
	assert.True(t, item.LineTotal().Equal(decimal.NewFromInt(60)), "lineTotal=%s", item.LineTotal())
}

func TestLineKeyIgnoresCustomizationOrder(t *testing.T) {
	a := CartItem{
		ProductID: "benchy",
		Customizations: []Customization{
			{Name: "color", Value: "red"},
			{Name: "infill", Value: "40%", PriceModifier: decimal.RequireFromString("1.50")},
		},
	}
	b := CartItem{
		ProductID: "benchy",
		Customizations: []Customization{
			{Name: "infill", Value: "40%", PriceModifier: decimal.RequireFromString("1.50")},
			{Name: "color", Value: "red"},
		},
	}

	assert.Equal(t, a.LineKey(), b.LineKey())
}

func TestLineKeyDistinguishesCustomizations(t *testing.T) {
	base := CartItem{ProductID: "benchy"}
	red := CartItem{
		ProductID:      "benchy",
		Customizations: []Customization{{Name: "color", Value: "red"}},
	}
	blue := CartItem{
		ProductID:      "benchy",
		Customizations: []Customization{{Name: "color", Value: "blue"}},
	}
	otherProduct := CartItem{ProductID: "vase"}

	assert.NotEqual(t, base.LineKey(), red.LineKey())
	assert.NotEqual(t, red.LineKey(), blue.LineKey())
	assert.NotEqual(t, base.LineKey(), otherProduct.LineKey())
}

func TestRecomputeTotals(t *testing.T) {
	cart := Cart{
		ID: "cart-1",
		Items: []CartItem{
			{
				Product:  ProductSnapshot{Name: "Calibration Benchy", Price: decimal.NewFromInt(10)},
				Quantity: 3,
			},
			{
				Product:  ProductSnapshot{Name: "Spiral Vase", Price: decimal.RequireFromString("24.50")},
				Quantity: 1,
			},
		},
		Tax:      decimal.RequireFromString("4.36"),
		Shipping: decimal.NewFromInt(5),
		Discount: decimal.NewFromInt(10),
		// stale values that must be overwritten
		Subtotal: decimal.NewFromInt(999),
		Total:    decimal.NewFromInt(999),
	}

	cart.RecomputeTotals()

	assert.True(t, cart.Subtotal.Equal(decimal.RequireFromString("54.5")), "subtotal=%s", cart.Subtotal)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("53.86")), "total=%s", cart.Total)
}

func TestRecomputeTotalsEmptyCart(t *testing.T) {
	cart := Cart{ID: "cart-1", Subtotal: decimal.NewFromInt(5), Total: decimal.NewFromInt(5)}

	cart.RecomputeTotals()

	assert.True(t, cart.Subtotal.IsZero())
	assert.True(t, cart.Total.IsZero())
	assert.True(t, cart.IsEmpty())
}
