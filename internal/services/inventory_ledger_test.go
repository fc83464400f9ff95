package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/store"
)

// Le décrément conditionnel est la garde finale : même si une validation a vu
// assez de stock, un stock devenu insuffisant au moment du décrément doit
// produire une erreur 400 avec le stock disponible, jamais un compteur
// négatif.
func TestDecrementStockRejectsShortfallWithAvailableStock(t *testing.T) {
	state := newMemState()
	products := &fakeProducts{s: state}
	ledger := NewInventoryLedger(products)

	id := primitive.NewObjectID()
	state.products[id] = models.Product{ID: id, Name: "Laptop", Price: 10.0, CountInStock: 2}

	err := ledger.DecrementStock(context.Background(), []store.OrderLine{
		{ProductID: id, Quantity: 3},
	})
	require.Error(t, err)

	var apiErr *models.ErrorResponse
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	info, ok := apiErr.AdditionalInfo.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, id.Hex(), info["productId"])
	assert.Equal(t, 2, info["availableStock"])

	// Le stock n'a pas bougé
	assert.Equal(t, 2, state.products[id].CountInStock)
}

func TestDecrementStockUnknownProductIsNotFound(t *testing.T) {
	state := newMemState()
	ledger := NewInventoryLedger(&fakeProducts{s: state})

	err := ledger.DecrementStock(context.Background(), []store.OrderLine{
		{ProductID: primitive.NewObjectID(), Quantity: 1},
	})
	require.Error(t, err)

	var apiErr *models.ErrorResponse
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestDecrementStockAppliesEachLine(t *testing.T) {
	state := newMemState()
	ledger := NewInventoryLedger(&fakeProducts{s: state})

	laptop := primitive.NewObjectID()
	mouse := primitive.NewObjectID()
	state.products[laptop] = models.Product{ID: laptop, CountInStock: 5}
	state.products[mouse] = models.Product{ID: mouse, CountInStock: 4}

	err := ledger.DecrementStock(context.Background(), []store.OrderLine{
		{ProductID: laptop, Quantity: 2},
		{ProductID: mouse, Quantity: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, state.products[laptop].CountInStock)
	assert.Equal(t, 0, state.products[mouse].CountInStock)
}
