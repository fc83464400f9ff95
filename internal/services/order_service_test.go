package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/store"
)

// --- Fakes en mémoire ---
//
// Un état partagé protégé par mutex, des wrappers par interface store, et une
// unité de travail qui snapshotte l'état complet : toute erreur dans fn
// restaure le snapshot, reproduisant l'abort de session MongoDB. Les
// transactions concurrentes sont sérialisées par txMu.

type memState struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	products map[primitive.ObjectID]models.Product
	items    map[primitive.ObjectID]models.OrderItem
	orders   map[primitive.ObjectID]models.Order
	users    map[primitive.ObjectID]models.User
}

func newMemState() *memState {
	return &memState{
		products: map[primitive.ObjectID]models.Product{},
		items:    map[primitive.ObjectID]models.OrderItem{},
		orders:   map[primitive.ObjectID]models.Order{},
		users:    map[primitive.ObjectID]models.User{},
	}
}

func (s *memState) snapshot() (map[primitive.ObjectID]models.Product, map[primitive.ObjectID]models.OrderItem, map[primitive.ObjectID]models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make(map[primitive.ObjectID]models.Product, len(s.products))
	for k, v := range s.products {
		products[k] = v
	}
	items := make(map[primitive.ObjectID]models.OrderItem, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	orders := make(map[primitive.ObjectID]models.Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}
	return products, items, orders
}

type fakeUnitOfWork struct {
	s *memState
}

func (u *fakeUnitOfWork) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()

	products, items, orders := u.s.snapshot()
	if err := fn(ctx); err != nil {
		u.s.mu.Lock()
		u.s.products, u.s.items, u.s.orders = products, items, orders
		u.s.mu.Unlock()
		return err
	}
	return nil
}

type fakeProducts struct{ s *memState }

func (f *fakeProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if p, ok := f.s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeProducts) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.products[id]
	if !ok || p.CountInStock < quantity {
		return false, nil
	}
	p.CountInStock -= quantity
	f.s.products[id] = p
	return true, nil
}

type fakeItems struct{ s *memState }

func (f *fakeItems) Insert(ctx context.Context, item models.OrderItem) (primitive.ObjectID, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	f.s.items[item.ID] = item
	return item.ID, nil
}

func (f *fakeItems) FindByID(ctx context.Context, id primitive.ObjectID) (*models.OrderItem, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if item, ok := f.s.items[id]; ok {
		return &item, nil
	}
	return nil, nil
}

func (f *fakeItems) Delete(ctx context.Context, ids []primitive.ObjectID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, id := range ids {
		delete(f.s.items, id)
	}
	return nil
}

type fakeOrders struct{ s *memState }

func (f *fakeOrders) Insert(ctx context.Context, order models.Order) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.orders[order.ID] = order
	return nil
}

func (f *fakeOrders) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if o, ok := f.s.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (f *fakeOrders) Replace(ctx context.Context, order models.Order) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.orders[order.ID] = order
	return nil
}

func (f *fakeOrders) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.orders, id)
	return nil
}

func (f *fakeOrders) Find(ctx context.Context, filter store.OrderFilter, page, limit int64) ([]models.Order, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var orders []models.Order
	for _, o := range f.s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (f *fakeOrders) Count(ctx context.Context, filter store.OrderFilter) (int64, error) {
	orders, _ := f.Find(ctx, filter, 1, 0)
	return int64(len(orders)), nil
}

func (f *fakeOrders) SumTotalPrice(ctx context.Context) (float64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var total float64
	for _, o := range f.s.orders {
		total += o.TotalPrice
	}
	return total, nil
}

type fakeUsers struct{ s *memState }

func (f *fakeUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if u, ok := f.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// --- Fixture ---

type fixture struct {
	state   *memState
	service *OrderService
	userID  primitive.ObjectID
}

func newFixture() *fixture {
	state := newMemState()
	products := &fakeProducts{s: state}
	items := &fakeItems{s: state}
	orders := &fakeOrders{s: state}
	users := &fakeUsers{s: state}

	userID := primitive.NewObjectID()
	state.users[userID] = models.User{ID: userID, Name: "Alice", Email: "alice@example.com"}

	service := NewOrderService(
		&fakeUnitOfWork{s: state},
		orders,
		users,
		NewInventoryLedger(products),
		NewOrderItemService(items),
		NewPricingCalculator(items, products),
	)
	return &fixture{state: state, service: service, userID: userID}
}

func (f *fixture) addProduct(name string, price float64, stock int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.state.products[id] = models.Product{ID: id, Name: name, Price: price, CountInStock: stock}
	return id
}

func (f *fixture) stockOf(id primitive.ObjectID) int {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	return f.state.products[id].CountInStock
}

func shippingInput(lines []store.OrderLine) CreateOrderInput {
	return CreateOrderInput{
		Items:            lines,
		ShippingAddress1: "12 rue des Lilas",
		City:             "Bruxelles",
		Zip:              "1000",
		Country:          "Belgique",
		Phone:            "+32470000000",
	}
}

func statusCodeOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *models.ErrorResponse
	require.True(t, errors.As(err, &apiErr), "expected *models.ErrorResponse, got %T: %v", err, err)
	return apiErr.StatusCode
}

// --- Création ---

func TestCreateOrderComputesTotalAndDecrementsStock(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 5)
	mouse := f.addProduct("Mouse", 2.5, 4)

	order, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 2},
		{ProductID: mouse, Quantity: 4},
	}), f.userID)
	require.NoError(t, err)

	assert.Equal(t, 30.0, order.TotalPrice)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Len(t, order.OrderItems, 2)
	require.NotNil(t, order.User)
	assert.Equal(t, "alice@example.com", order.User.Email)

	assert.Equal(t, 3, f.stockOf(laptop))
	assert.Equal(t, 0, f.stockOf(mouse))
	assert.Len(t, f.state.orders, 1)
	assert.Len(t, f.state.items, 2)
}

func TestCreateOrderPopulatesItemsWithProductNameAndPrice(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 999.99, 2)

	order, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 1},
	}), f.userID)
	require.NoError(t, err)

	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Laptop", order.OrderItems[0].Product.Name)
	assert.Equal(t, 999.99, order.OrderItems[0].Product.Price)
	assert.Equal(t, 1, order.OrderItems[0].Quantity)
}

func TestCreateOrderInsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 1)

	_, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 3},
	}), f.userID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusCodeOf(t, err))

	// Aucune écriture partielle observable
	assert.Equal(t, 1, f.stockOf(laptop))
	assert.Empty(t, f.state.orders)
	assert.Empty(t, f.state.items)
}

func TestCreateOrderUnknownProductLeavesNoWrites(t *testing.T) {
	f := newFixture()
	known := f.addProduct("Laptop", 10.0, 5)

	_, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: known, Quantity: 1},
		{ProductID: primitive.NewObjectID(), Quantity: 1},
	}), f.userID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCodeOf(t, err))

	assert.Equal(t, 5, f.stockOf(known))
	assert.Empty(t, f.state.orders)
	assert.Empty(t, f.state.items)
}

func TestCreateOrderConcurrentNeverOversells(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 5)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
				{ProductID: laptop, Quantity: 3},
			}), f.userID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var failures int
	for err := range results {
		if err != nil {
			failures++
			assert.Equal(t, http.StatusBadRequest, statusCodeOf(t, err))
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two orders must fail")
	assert.Equal(t, 2, f.stockOf(laptop))
	assert.Len(t, f.state.orders, 1)
	assert.Len(t, f.state.items, 1)
}

// --- Mise à jour ---

func TestUpdateOrderReplacesItemsWithoutRestockingOldOnes(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 5)
	mouse := f.addProduct("Mouse", 4.0, 10)

	created, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 2},
	}), f.userID)
	require.NoError(t, err)
	require.Equal(t, 3, f.stockOf(laptop))

	updated, err := f.service.UpdateOrder(context.Background(), created.ID, UpdateOrderInput{
		Items: []store.OrderLine{{ProductID: mouse, Quantity: 3}},
	})
	require.NoError(t, err)

	// Nouveau total depuis les nouvelles lignes uniquement
	assert.Equal(t, 12.0, updated.TotalPrice)
	require.Len(t, updated.OrderItems, 1)
	assert.Equal(t, "Mouse", updated.OrderItems[0].Product.Name)

	// Les anciens items sont supprimés, leur stock n'est PAS restauré
	assert.Equal(t, 3, f.stockOf(laptop))
	assert.Equal(t, 7, f.stockOf(mouse))
	assert.Len(t, f.state.items, 1)
}

func TestUpdateOrderInsufficientStockKeepsOriginalOrder(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 5)
	mouse := f.addProduct("Mouse", 4.0, 1)

	created, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 2},
	}), f.userID)
	require.NoError(t, err)

	_, err = f.service.UpdateOrder(context.Background(), created.ID, UpdateOrderInput{
		Items: []store.OrderLine{{ProductID: mouse, Quantity: 5}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusCodeOf(t, err))

	// La commande d'origine est intacte
	current, err := f.service.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, current.TotalPrice)
	require.Len(t, current.OrderItems, 1)
	assert.Equal(t, "Laptop", current.OrderItems[0].Product.Name)
	assert.Equal(t, 1, f.stockOf(mouse))
}

func TestUpdateOrderPatchesScalarFieldsOnly(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 5)

	created, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 1},
	}), f.userID)
	require.NoError(t, err)

	status := "Shipped"
	city := "Anvers"
	updated, err := f.service.UpdateOrder(context.Background(), created.ID, UpdateOrderInput{
		Status: &status,
		City:   &city,
	})
	require.NoError(t, err)

	assert.Equal(t, "Shipped", updated.Status)
	assert.Equal(t, "Anvers", updated.City)
	// Items, total et stock inchangés
	assert.Equal(t, created.TotalPrice, updated.TotalPrice)
	assert.Len(t, updated.OrderItems, 1)
	assert.Equal(t, 4, f.stockOf(laptop))
}

func TestUpdateOrderNotFound(t *testing.T) {
	f := newFixture()

	status := "Shipped"
	_, err := f.service.UpdateOrder(context.Background(), primitive.NewObjectID(), UpdateOrderInput{Status: &status})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCodeOf(t, err))
}

// --- Suppression ---

func TestDeleteOrderRemovesItemsWithoutRestock(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 5)

	created, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 2},
	}), f.userID)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteOrder(context.Background(), created.ID))

	assert.Empty(t, f.state.orders)
	assert.Empty(t, f.state.items)
	// Le stock décrémenté à la création reste décrémenté
	assert.Equal(t, 3, f.stockOf(laptop))
}

func TestDeleteOrderNotFoundLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 5)

	err := f.service.DeleteOrder(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCodeOf(t, err))
	assert.Equal(t, 5, f.stockOf(laptop))
}

// --- Lectures ---

func TestGetOrderNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetOrder(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCodeOf(t, err))
}

func TestGetOrdersFiltersByStatus(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 10)

	first, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 1},
	}), f.userID)
	require.NoError(t, err)
	_, err = f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 1},
	}), f.userID)
	require.NoError(t, err)

	status := "Shipped"
	_, err = f.service.UpdateOrder(context.Background(), first.ID, UpdateOrderInput{Status: &status})
	require.NoError(t, err)

	shipped, total, err := f.service.GetOrders(context.Background(), store.OrderFilter{Status: "Shipped"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, shipped, 1)
	assert.Equal(t, first.ID, shipped[0].ID)
}

// --- Total des ventes ---

func TestCalculateTotalSalesEmptyIsZero(t *testing.T) {
	f := newFixture()

	total, err := f.service.CalculateTotalSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestCalculateTotalSalesSumsAllOrders(t *testing.T) {
	f := newFixture()
	laptop := f.addProduct("Laptop", 10.0, 10)
	mouse := f.addProduct("Mouse", 2.5, 10)

	_, err := f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: laptop, Quantity: 2},
	}), f.userID)
	require.NoError(t, err)
	_, err = f.service.CreateOrder(context.Background(), shippingInput([]store.OrderLine{
		{ProductID: mouse, Quantity: 4},
	}), f.userID)
	require.NoError(t, err)

	total, err := f.service.CalculateTotalSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30.0, total)
}
