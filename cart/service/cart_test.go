package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/storefront/cart/pkg/request"
	"github.com/printforge/storefront/cart/storage"
	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/model"
	"github.com/printforge/storefront/internal/validation"
)

type memoryStorage struct {
	snapshots map[string][]byte
	saveErr   error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{snapshots: map[string][]byte{}}
}

func (m *memoryStorage) Save(c context.Context, cartID string, snapshot []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshots[cartID] = snapshot
	return nil
}

func (m *memoryStorage) Load(c context.Context, cartID string) ([]byte, error) {
	snapshot, ok := m.snapshots[cartID]
	if !ok {
		return nil, storage.ErrNoSnapshot
	}
	return snapshot, nil
}

func (m *memoryStorage) Delete(c context.Context, cartID string) error {
	delete(m.snapshots, cartID)
	return nil
}

type fakeProductFinder struct {
	products map[string]model.Product
}

func (f fakeProductFinder) FindProductById(c context.Context, id string) (model.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return model.Product{}, fmt.Errorf("productId=%s with error=%w", id, inErrors.ErrItemNotFound)
	}
	return product, nil
}

func testProducts() fakeProductFinder {
	return fakeProductFinder{
		products: map[string]model.Product{
			"benchy": {
				ID:    "benchy",
				Name:  "Calibration Benchy",
				Price: decimal.NewFromInt(10),
			},
			"vase": {
				ID:    "vase",
				Name:  "Spiral Vase",
				Price: decimal.RequireFromString("24.50"),
			},
		},
	}
}

func newTestCartService(store storage.Storage) *CartService {
	return NewCartService(store, testProducts(), validation.New())
}

func TestAddItemTotals(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	cart, err := svc.AddItem(c, "cart-1", request.AddItem{ProductID: "benchy", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.EqualValues(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(30)), "subtotal=%s", cart.Subtotal)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(30)), "total=%s", cart.Total)
	assert.Equal(t, "Calibration Benchy", cart.Items[0].Product.Name)
}

func TestAddItemMergesSameLine(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	customizations := []model.Customization{
		{Name: "color", Value: "red"},
		{Name: "infill", Value: "40%", PriceModifier: decimal.RequireFromString("1.50")},
	}
	reversed := []model.Customization{customizations[1], customizations[0]}

	_, err := svc.AddItem(
		c,
		"cart-1",
		request.AddItem{ProductID: "benchy", Quantity: 1, Customizations: customizations},
	)
	require.NoError(t, err)
	cart, err := svc.AddItem(
		c,
		"cart-1",
		request.AddItem{ProductID: "benchy", Quantity: 2, Customizations: reversed},
	)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1, "same product and customization set should merge")
	assert.EqualValues(t, 3, cart.Items[0].Quantity)
	// unit price 10 + 1.50 modifier, three units
	assert.True(t, cart.Subtotal.Equal(decimal.RequireFromString("34.5")), "subtotal=%s", cart.Subtotal)
}

func TestAddItemDifferentCustomizationsAppend(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	_, err := svc.AddItem(c, "cart-1", request.AddItem{
		ProductID:      "benchy",
		Quantity:       1,
		Customizations: []model.Customization{{Name: "color", Value: "red"}},
	})
	require.NoError(t, err)
	cart, err := svc.AddItem(c, "cart-1", request.AddItem{
		ProductID:      "benchy",
		Quantity:       1,
		Customizations: []model.Customization{{Name: "color", Value: "blue"}},
	})
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
}

func TestAddItemInvalidQuantity(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	_, err := svc.AddItem(c, "cart-1", request.AddItem{ProductID: "benchy", Quantity: 0})
	assert.ErrorIs(t, err, inErrors.ErrInvalidQuantity)

	cart, err := svc.FindCartById(c, "cart-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestAddItemUnknownProduct(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	_, err := svc.AddItem(c, "cart-1", request.AddItem{ProductID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, inErrors.ErrItemNotFound)
}

func TestUpdateQuantity(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	cart, err := svc.AddItem(c, "cart-1", request.AddItem{ProductID: "vase", Quantity: 1})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateQuantity(c, "cart-1", itemID, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 4, cart.Items[0].Quantity)
	assert.True(t, cart.Subtotal.Equal(decimal.RequireFromString("98")), "subtotal=%s", cart.Subtotal)
}

func TestUpdateQuantityZeroIsRejected(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	cart, err := svc.AddItem(c, "cart-1", request.AddItem{ProductID: "vase", Quantity: 2})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	_, err = svc.UpdateQuantity(c, "cart-1", itemID, 0)
	assert.ErrorIs(t, err, inErrors.ErrInvalidQuantity)

	unchanged, err := svc.FindCartById(c, "cart-1")
	require.NoError(t, err)
	require.Len(t, unchanged.Items, 1)
	assert.EqualValues(t, 2, unchanged.Items[0].Quantity)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	_, err := svc.UpdateQuantity(c, "cart-1", "nope", 2)
	assert.ErrorIs(t, err, inErrors.ErrItemNotFound)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	c := context.Background()
	svc := newTestCartService(newMemoryStorage())

	cart, err := svc.AddItem(c, "cart-1", request.AddItem{ProductID: "benchy", Quantity: 1})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.RemoveItem(c, "cart-1", itemID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	cart, err = svc.RemoveItem(c, "cart-1", itemID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartRestoredFromSnapshot(t *testing.T) {
	c := context.Background()
	store := newMemoryStorage()

	first := newTestCartService(store)
	_, err := first.AddItem(c, "cart-1", request.AddItem{ProductID: "vase", Quantity: 2})
	require.NoError(t, err)

	second := newTestCartService(store)
	cart, err := second.FindCartById(c, "cart-1")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.EqualValues(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Subtotal.Equal(decimal.RequireFromString("49")), "subtotal=%s", cart.Subtotal)
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	c := context.Background()
	store := newMemoryStorage()
	store.snapshots["cart-1"] = []byte("{not json")

	svc := newTestCartService(store)
	cart, err := svc.FindCartById(c, "cart-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestInvalidSnapshotStartsEmpty(t *testing.T) {
	c := context.Background()
	store := newMemoryStorage()

	invalid := model.Cart{
		ID: "cart-1",
		Items: []model.CartItem{{
			ID:        "item-1",
			ProductID: "benchy",
			Product:   model.ProductSnapshot{Name: "Calibration Benchy", Price: decimal.NewFromInt(10)},
			Quantity:  -1,
		}},
	}
	snapshot, err := json.Marshal(invalid)
	require.NoError(t, err)
	store.snapshots["cart-1"] = snapshot

	svc := newTestCartService(store)
	cart, err := svc.FindCartById(c, "cart-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty(), "schema-invalid snapshot should be discarded")
}

func TestSnapshotTotalsNeverTrusted(t *testing.T) {
	c := context.Background()
	store := newMemoryStorage()

	tampered := model.Cart{
		ID: "cart-1",
		Items: []model.CartItem{{
			ID:        "item-1",
			ProductID: "benchy",
			Product:   model.ProductSnapshot{Name: "Calibration Benchy", Price: decimal.NewFromInt(10)},
			Quantity:  2,
		}},
		Subtotal: decimal.NewFromInt(1),
		Total:    decimal.NewFromInt(1),
	}
	snapshot, err := json.Marshal(tampered)
	require.NoError(t, err)
	store.snapshots["cart-1"] = snapshot

	svc := newTestCartService(store)
	cart, err := svc.FindCartById(c, "cart-1")
	require.NoError(t, err)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(20)), "subtotal=%s", cart.Subtotal)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(20)), "total=%s", cart.Total)
}

func TestMutationSurvivesStorageFailure(t *testing.T) {
	c := context.Background()
	store := newMemoryStorage()
	store.saveErr = fmt.Errorf("storage down")

	svc := newTestCartService(store)
	cart, err := svc.AddItem(c, "cart-1", request.AddItem{ProductID: "benchy", Quantity: 1})
	require.NoError(t, err, "persistence failure must not fail the mutation")
	assert.Len(t, cart.Items, 1)
}

func TestClearDestroysCart(t *testing.T) {
	c := context.Background()
	store := newMemoryStorage()
	svc := newTestCartService(store)

	_, err := svc.AddItem(c, "cart-1", request.AddItem{ProductID: "benchy", Quantity: 1})
	require.NoError(t, err)

	svc.Clear(c, "cart-1")

	cart, err := svc.FindCartById(c, "cart-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, store.snapshots)
}
