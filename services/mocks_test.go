package services_test

import (
	"context"
	"sync"

	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/services"

	"github.com/google/uuid"
)

// --- Mock product repository ---

type mockProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	reserves []reserveCall
}

type reserveCall struct {
	ProductID uuid.UUID
	Quantity  int
}

func newMockProductRepo(products ...*models.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[uuid.UUID]*models.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) Find(_ context.Context, _, _ int) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

// ReserveStock mirrors the conditional-update semantics of the Mongo
// implementation: decrement only when stock covers the quantity.
func (m *mockProductRepo) ReserveStock(_ context.Context, productID uuid.UUID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	p.UnitsSold += quantity
	m.reserves = append(m.reserves, reserveCall{ProductID: productID, Quantity: quantity})
	return nil
}

// --- Mock cart repository ---

type mockCartRepo struct {
	carts   map[uuid.UUID]*models.Cart
	cleared []uuid.UUID
}

func newMockCartRepo(carts ...*models.Cart) *mockCartRepo {
	m := &mockCartRepo{carts: make(map[uuid.UUID]*models.Cart)}
	for _, c := range carts {
		m.carts[c.UserID] = c
	}
	return m
}

func (m *mockCartRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *models.Cart) error {
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	if c, ok := m.carts[userID]; ok {
		c.Items = []models.CartItem{}
	}
	m.cleared = append(m.cleared, userID)
	return nil
}

// --- Mock order repository ---

type mockOrderRepo struct {
	orders []*models.Order
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	for _, o := range m.orders {
		if o.ID == id && o.UserInfo.UserID == userID {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserInfo.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) FindPendingUnpaid(_ context.Context, userID uuid.UUID) (*models.Order, error) {
	for _, o := range m.orders {
		if o.UserInfo.UserID == userID && o.Status == models.StatusPending && !o.IsPaid {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) FindByPaymentIntentID(_ context.Context, intentID string) (*models.Order, error) {
	for _, o := range m.orders {
		if o.PaymentResult != nil && o.PaymentResult.ID == intentID {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, order *models.Order) error {
	for i, o := range m.orders {
		if o.ID == order.ID {
			m.orders[i] = order
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Mock address repository ---

type mockAddressRepo struct {
	addresses []*models.Address
}

func (m *mockAddressRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, a := range m.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAddressRepo) FindByIDAndUserID(_ context.Context, id, userID uuid.UUID) (*models.Address, error) {
	for _, a := range m.addresses {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAddressRepo) FindDefault(_ context.Context, userID uuid.UUID) (*models.Address, error) {
	for _, a := range m.addresses {
		if a.UserID == userID && a.IsDefault {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAddressRepo) FindOldest(_ context.Context, userID uuid.UUID) (*models.Address, error) {
	var oldest *models.Address
	for _, a := range m.addresses {
		if a.UserID != userID {
			continue
		}
		if oldest == nil || a.CreatedAt.Before(oldest.CreatedAt) {
			oldest = a
		}
	}
	if oldest == nil {
		return nil, repository.ErrNotFound
	}
	return oldest, nil
}

func (m *mockAddressRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range m.addresses {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockAddressRepo) Create(_ context.Context, address *models.Address) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	m.addresses = append(m.addresses, address)
	return nil
}

func (m *mockAddressRepo) Update(_ context.Context, address *models.Address) error {
	for i, a := range m.addresses {
		if a.ID == address.ID {
			m.addresses[i] = address
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockAddressRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	for i, a := range m.addresses {
		if a.ID == id && a.UserID == userID {
			m.addresses = append(m.addresses[:i], m.addresses[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockAddressRepo) UnsetDefaults(_ context.Context, userID uuid.UUID) error {
	for _, a := range m.addresses {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

func (m *mockAddressRepo) SetDefault(_ context.Context, id uuid.UUID) error {
	for _, a := range m.addresses {
		if a.ID == id {
			a.IsDefault = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Mock dispatcher and reconciler ---

type mockDispatcher struct {
	sent []string
}

func (m *mockDispatcher) Send(_ context.Context, userID uuid.UUID, title, _, _ string) {
	m.sent = append(m.sent, title)
}

type mockReconciler struct {
	tasks []services.ReconcileTask
}

func (m *mockReconciler) Enqueue(_ context.Context, task services.ReconcileTask) {
	m.tasks = append(m.tasks, task)
}
