package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/storage"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore - каталог и заказы в памяти. Транзакция держит мьютекс целиком,
// при ошибке состояние восстанавливается из снимка.
type memStore struct {
	mu          sync.Mutex
	products    map[int64]*models.Product
	orders      []*models.Order
	nextOrderID int64
	accesses    int // обращения к хранилищу
	txCount     int

	failCreateOrder error
	failGetProduct  error
}

func newMemStore() *memStore {
	return &memStore{products: make(map[int64]*models.Product), nextOrderID: 1}
}

func (m *memStore) addProduct(id int64, price string, stock int) {
	m.products[id] = &models.Product{
		ID:    id,
		Name:  "product",
		Slug:  "product",
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

type memSnapshot struct {
	products map[int64]models.Product
	orders   int
	nextID   int64
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{products: make(map[int64]models.Product, len(m.products)), orders: len(m.orders), nextID: m.nextOrderID}
	for id, p := range m.products {
		s.products[id] = *p
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.products = make(map[int64]*models.Product, len(s.products))
	for id, p := range s.products {
		p := p
		m.products[id] = &p
	}
	m.orders = m.orders[:s.orders]
	m.nextOrderID = s.nextID
}

// stock читает остаток вне транзакции, для проверок в тестах
func (m *memStore) stock(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type memTransactor struct {
	store *memStore
}

var _ storage.Transactor = (*memTransactor)(nil)

func (t *memTransactor) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	t.store.txCount++
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type memProductRepo struct {
	store *memStore
}

var _ storage.ProductStorage = (*memProductRepo)(nil)

func (r *memProductRepo) GetProduct(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	r.store.accesses++
	if r.store.failGetProduct != nil {
		return nil, r.store.failGetProduct
	}
	p, ok := r.store.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) DecrementStock(ctx context.Context, tx *sql.Tx, id int64, amount int) error {
	r.store.accesses++
	p, ok := r.store.products[id]
	if !ok {
		return storage.ErrProductNotFound
	}
	if p.Stock < amount {
		return &storage.InsufficientStockError{ProductID: id, Available: p.Stock, Requested: amount}
	}
	p.Stock -= amount
	return nil
}

func (r *memProductRepo) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.GetProduct(ctx, nil, id)
}

func (r *memProductRepo) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	ids := make([]int64, 0, len(r.store.products))
	for id := range r.store.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var matched []*models.Product
	for _, id := range ids {
		p := r.store.products[id]
		if filter.Category != "" && filter.Category != "All" && p.Category != filter.Category {
			continue
		}
		matched = append(matched, p)
	}
	from := (filter.Page - 1) * filter.PerPage
	if from > len(matched) {
		from = len(matched)
	}
	to := from + filter.PerPage
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], len(matched), nil
}

func (r *memProductRepo) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	for _, existing := range r.store.products {
		if existing.Slug == p.Slug {
			return nil, storage.ErrSlugTaken
		}
	}
	p.ID = int64(len(r.store.products) + 1)
	r.store.products[p.ID] = p
	return p, nil
}

func (r *memProductRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	if _, ok := r.store.products[p.ID]; !ok {
		return storage.ErrProductNotFound
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

type memOrderRepo struct {
	store *memStore
}

var _ storage.OrderStorage = (*memOrderRepo)(nil)

func (r *memOrderRepo) CreateOrder(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, address string, items []models.NewOrderItem) (int64, error) {
	r.store.accesses++
	if r.store.failCreateOrder != nil {
		return 0, r.store.failCreateOrder
	}
	id := r.store.nextOrderID
	r.store.nextOrderID++

	order := &models.Order{
		ID:              id,
		UserID:          userID,
		TotalPrice:      total,
		Status:          models.OrderPending,
		ShippingAddress: address,
		CreatedAt:       time.Now(),
	}
	for i, item := range items {
		order.Items = append(order.Items, &models.OrderItem{
			ID:        int64(i + 1),
			OrderID:   id,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	r.store.orders = append(r.store.orders, order)
	return id, nil
}

func (r *memOrderRepo) ListOrdersForUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	orders := []*models.Order{}
	for i := len(r.store.orders) - 1; i >= 0; i-- {
		if r.store.orders[i].UserID == userID {
			orders = append(orders, r.store.orders[i])
		}
	}
	return orders, nil
}

func (r *memOrderRepo) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, o := range r.store.orders {
		if o.ID == orderID {
			o.Status = status
			return nil
		}
	}
	return storage.ErrOrderNotFound
}

type fakeRecorder struct {
	mu      sync.Mutex
	results map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{results: make(map[string]int)}
}

func (f *fakeRecorder) ObserveCheckout(result string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[result]++
}

func (f *fakeRecorder) count(result string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[result]
}
