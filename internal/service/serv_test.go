package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*models.User // ключ: email
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return nil, storage.ErrEmailTaken
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id int64, name, email string) error {
	if other, ok := f.users[email]; ok && other.ID != id {
		return storage.ErrEmailTaken
	}
	for key, u := range f.users {
		if u.ID == id {
			delete(f.users, key)
			u.Name, u.Email = name, email
			f.users[email] = u
			return nil
		}
	}
	return storage.ErrUserNotFound
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (f *fakeRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	f.revoked[jti] = ttl
	return nil
}

func newAuthService(repo *fakeUserRepo) (*service.AuthService, *fakeRevoker) {
	revoker := &fakeRevoker{revoked: make(map[string]time.Duration)}
	return service.NewAuthService(discardLogger(), repo, revoker, "testsecret", 60*time.Minute), revoker
}

func addUser(t *testing.T, repo *fakeUserRepo, email, password string, role models.Role) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := repo.CreateUser(context.Background(), &models.User{Name: "Test", Email: email, PassHash: hashed, Role: role})
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	authSvc, _ := newAuthService(repo)

	res, err := authSvc.Register(context.Background(), " Anna ", "Anna@Example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "/", res.Redirect)

	user, err := repo.GetUserByEmail(context.Background(), "anna@example.com")
	require.NoError(t, err, "email is stored lower-cased")
	assert.Equal(t, "Anna", user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password123", string(user.PassHash), "Password should be hashed")
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	addUser(t, repo, "taken@example.com", "password123", models.RoleUser)
	authSvc, _ := newAuthService(repo)

	_, err := authSvc.Register(context.Background(), "Other", "taken@example.com", "password123")
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestAuthService_Login_CorrectPassword(t *testing.T) {
	repo := newFakeUserRepo()
	addUser(t, repo, "admin@example.com", "password123", models.RoleAdmin)
	authSvc, _ := newAuthService(repo)

	res, err := authSvc.Login(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err, "Login should succeed with correct password")
	assert.NotEmpty(t, res.Token, "Token should be returned")
	assert.Equal(t, "/admin", res.Redirect)
}

func TestAuthService_TokenSignedWithConfiguredSecret(t *testing.T) {
	repo := newFakeUserRepo()
	addUser(t, repo, "anna@example.com", "password123", models.RoleUser)
	authSvc, _ := newAuthService(repo)

	res, err := authSvc.Login(context.Background(), "anna@example.com", "password123")
	require.NoError(t, err)

	keyFor := func(secret string) jwt.Keyfunc {
		return func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }
	}
	_, err = jwt.Parse(res.Token, keyFor("testsecret"))
	assert.NoError(t, err)
	_, err = jwt.Parse(res.Token, keyFor("othersecret"))
	assert.Error(t, err)
}

func TestAuthService_EmptySecret(t *testing.T) {
	repo := newFakeUserRepo()
	addUser(t, repo, "anna@example.com", "password123", models.RoleUser)
	authSvc := service.NewAuthService(discardLogger(), repo, &fakeRevoker{revoked: map[string]time.Duration{}}, "", time.Hour)

	_, err := authSvc.Login(context.Background(), "anna@example.com", "password123")
	assert.Error(t, err)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	addUser(t, repo, "existing@example.com", "password123", models.RoleUser)
	authSvc, _ := newAuthService(repo)

	res, err := authSvc.Login(context.Background(), "existing@example.com", "wrongpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, res)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authSvc, _ := newAuthService(newFakeUserRepo())

	_, err := authSvc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_Logout(t *testing.T) {
	authSvc, revoker := newAuthService(newFakeUserRepo())

	err := authSvc.Logout(context.Background(), "jti-1", time.Now().Add(30*time.Minute))
	require.NoError(t, err)

	ttl, ok := revoker.revoked["jti-1"]
	require.True(t, ok)
	assert.InDelta(t, (30 * time.Minute).Seconds(), ttl.Seconds(), 5)

	assert.Error(t, authSvc.Logout(context.Background(), "", time.Now()))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	user := addUser(t, repo, "old@example.com", "password123", models.RoleUser)
	addUser(t, repo, "busy@example.com", "password123", models.RoleUser)
	authSvc, _ := newAuthService(repo)

	updated, err := authSvc.UpdateProfile(context.Background(), user.ID, "New Name", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)

	_, err = authSvc.UpdateProfile(context.Background(), user.ID, "New Name", "busy@example.com")
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestOrderService_SetStatus(t *testing.T) {
	store := newMemStore()
	repo := &memOrderRepo{store: store}
	_, err := repo.CreateOrder(context.Background(), nil, 1, decimal.NewFromInt(10), "addr", nil)
	require.NoError(t, err)

	svc := service.NewOrderService(discardLogger(), repo)

	assert.NoError(t, svc.SetStatus(context.Background(), 1, models.OrderShipped))
	assert.Equal(t, models.OrderShipped, store.orders[0].Status)

	assert.ErrorIs(t, svc.SetStatus(context.Background(), 1, models.OrderStatus("lost")), service.ErrInvalidStatus)
	assert.ErrorIs(t, svc.SetStatus(context.Background(), 99, models.OrderCancelled), storage.ErrOrderNotFound)
}

func TestOrderService_ListForUser_NewestFirst(t *testing.T) {
	f := newCheckoutFixture()
	f.store.addProduct(1, "5.00", 10)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Checkout(context.Background(), 4, []service.CheckoutItem{{ProductID: 1, Quantity: 1}}, "addr")
		require.NoError(t, err)
	}
	_, err := f.svc.Checkout(context.Background(), 5, []service.CheckoutItem{{ProductID: 1, Quantity: 1}}, "addr")
	require.NoError(t, err)

	orders, err := service.NewOrderService(discardLogger(), &memOrderRepo{store: f.store}).ListForUser(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(3), orders[0].ID)
	assert.Equal(t, int64(1), orders[2].ID)
}

type fakeTestimonyRepo struct {
	items []*models.Testimony
}

func (f *fakeTestimonyRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Testimony, error) {
	var out []*models.Testimony
	for _, t := range f.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTestimonyRepo) Create(ctx context.Context, t *models.Testimony) (*models.Testimony, error) {
	t.ID = int64(len(f.items) + 1)
	f.items = append(f.items, t)
	return t, nil
}

func (f *fakeTestimonyRepo) DeleteOwned(ctx context.Context, id, userID int64) error {
	for i, t := range f.items {
		if t.ID == id && t.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return storage.ErrTestimonyNotFound
}

func (f *fakeTestimonyRepo) ListApproved(ctx context.Context, limit int) ([]*models.Testimony, error) {
	var out []*models.Testimony
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		if f.items[i].IsApproved {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeTestimonyRepo) SetApproved(ctx context.Context, id int64, approved bool) error {
	for _, t := range f.items {
		if t.ID == id {
			t.IsApproved = approved
			return nil
		}
	}
	return storage.ErrTestimonyNotFound
}

func TestTestimonyService_Moderation(t *testing.T) {
	repo := &fakeTestimonyRepo{}
	svc := service.NewTestimonyService(discardLogger(), repo, 3)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, "too short", 5)
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	_, err = svc.Submit(ctx, 1, "Beautiful linen curtains", 6)
	assert.ErrorIs(t, err, service.ErrInvalidRequest)

	for i := 0; i < 4; i++ {
		tm, err := svc.Submit(ctx, 1, "Beautiful linen curtains", 4)
		require.NoError(t, err)
		assert.False(t, tm.IsApproved, "new testimony waits for moderation")
	}

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	for id := int64(1); id <= 4; id++ {
		require.NoError(t, svc.SetApproval(ctx, id, true))
	}
	public, err = svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, public, 3)

	assert.ErrorIs(t, svc.SetApproval(ctx, 99, true), storage.ErrTestimonyNotFound)
}

func TestTestimonyService_DeleteOwn(t *testing.T) {
	repo := &fakeTestimonyRepo{}
	svc := service.NewTestimonyService(discardLogger(), repo, 3)
	ctx := context.Background()

	tm, err := svc.Submit(ctx, 1, "Lovely ceramic vase", 5)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteOwn(ctx, 2, tm.ID), storage.ErrTestimonyNotFound, "foreign testimony")
	assert.NoError(t, svc.DeleteOwn(ctx, 1, tm.ID))

	own, err := svc.ListOwn(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, own)
}

type fakeWishlistRepo struct {
	mu      sync.Mutex
	entries map[[2]int64]bool
	// beforeAdd вызывается перед вставкой, без удержания mu
	beforeAdd func()
}

func (f *fakeWishlistRepo) ListByUser(ctx context.Context, userID int64) ([]*models.WishlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WishlistEntry
	for key := range f.entries {
		if key[0] == userID {
			out = append(out, &models.WishlistEntry{UserID: key[0], ProductID: key[1]})
		}
	}
	return out, nil
}

func (f *fakeWishlistRepo) Remove(ctx context.Context, userID, productID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{userID, productID}
	if f.entries[key] {
		delete(f.entries, key)
		return true, nil
	}
	return false, nil
}

func (f *fakeWishlistRepo) Add(ctx context.Context, userID, productID int64) (bool, error) {
	if f.beforeAdd != nil {
		f.beforeAdd()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{userID, productID}
	if f.entries[key] {
		return false, nil
	}
	f.entries[key] = true
	return true, nil
}

func TestWishlistService_Toggle(t *testing.T) {
	store := newMemStore()
	store.addProduct(1, "10.00", 1)
	wl := &fakeWishlistRepo{entries: make(map[[2]int64]bool)}
	svc := service.NewWishlistService(discardLogger(), wl, &memProductRepo{store: store})
	ctx := context.Background()

	added, err := svc.Toggle(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Toggle(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, added)

	entries, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.Toggle(ctx, 1, 404)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
}

func TestWishlistService_Toggle_EntryAddedConcurrently(t *testing.T) {
	store := newMemStore()
	store.addProduct(1, "10.00", 1)
	wl := &fakeWishlistRepo{entries: make(map[[2]int64]bool)}
	// другой запрос успевает добавить товар между DELETE и INSERT
	wl.beforeAdd = func() {
		wl.beforeAdd = nil
		wl.mu.Lock()
		wl.entries[[2]int64{1, 1}] = true
		wl.mu.Unlock()
	}
	svc := service.NewWishlistService(discardLogger(), wl, &memProductRepo{store: store})

	added, err := svc.Toggle(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.False(t, added, "the concurrent add wins, this call removes")

	entries, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWishlistService_Toggle_ConcurrentCallsFlipOnce(t *testing.T) {
	store := newMemStore()
	store.addProduct(1, "10.00", 1)
	wl := &fakeWishlistRepo{entries: make(map[[2]int64]bool)}
	svc := service.NewWishlistService(discardLogger(), wl, &memProductRepo{store: store})

	const calls = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		added   int
		removed int
	)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.Toggle(context.Background(), 1, 1)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if ok {
				added++
			} else {
				removed++
			}
		}()
	}
	wg.Wait()

	entries, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, len(entries), added-removed, "every call flips the entry exactly once")
}

type fakeStatsRepo struct {
	mu        sync.Mutex
	threshold int
	limit     int
	failWith  error
}

func (f *fakeStatsRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	return decimal.RequireFromString("1500.25"), nil
}

func (f *fakeStatsRepo) CountActiveOrders(ctx context.Context) (int, error) { return 4, nil }

func (f *fakeStatsRepo) CountCustomers(ctx context.Context) (int, error) { return 12, f.failWith }

func (f *fakeStatsRepo) CountLowStock(ctx context.Context, threshold int) (int, error) {
	f.mu.Lock()
	f.threshold = threshold
	f.mu.Unlock()
	return 2, nil
}

func (f *fakeStatsRepo) RecentOrders(ctx context.Context, limit int) ([]*models.Order, error) {
	f.mu.Lock()
	f.limit = limit
	f.mu.Unlock()
	return []*models.Order{{ID: 1}}, nil
}

func (f *fakeStatsRepo) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return &models.UserStats{OrdersCount: 2}, nil
}

func TestStatsService_AdminStats(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := service.NewStatsService(discardLogger(), repo, 5, 5)

	stats, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1500.25", stats.Revenue.StringFixed(2))
	assert.Equal(t, 4, stats.ActiveOrders)
	assert.Equal(t, 12, stats.Customers)
	assert.Equal(t, 2, stats.LowStock)
	assert.Len(t, stats.RecentOrders, 1)
	assert.Equal(t, 5, repo.threshold)
	assert.Equal(t, 5, repo.limit)
}

func TestStatsService_AdminStats_Error(t *testing.T) {
	repo := &fakeStatsRepo{failWith: errors.New("db down")}
	svc := service.NewStatsService(discardLogger(), repo, 5, 5)

	_, err := svc.AdminStats(context.Background())
	assert.Error(t, err)
}

type fakeContentRepo struct {
	blocks   map[string]*models.ContentBlock
	messages []*models.ContactMessage
}

func (f *fakeContentRepo) GetBlock(ctx context.Context, key string) (*models.ContentBlock, error) {
	b, ok := f.blocks[key]
	if !ok {
		return nil, storage.ErrContentNotFound
	}
	return b, nil
}

func (f *fakeContentRepo) UpsertBlock(ctx context.Context, b *models.ContentBlock) (*models.ContentBlock, error) {
	f.blocks[b.Key] = b
	return b, nil
}

func (f *fakeContentRepo) ListPricingPlans(ctx context.Context) ([]*models.PricingPlan, error) {
	return []*models.PricingPlan{{ID: 1, Name: "Basic"}}, nil
}

func (f *fakeContentRepo) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	msg.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, msg)
	return nil
}

func TestContentService_Blocks(t *testing.T) {
	repo := &fakeContentRepo{blocks: make(map[string]*models.ContentBlock)}
	svc := service.NewContentService(discardLogger(), repo)
	ctx := context.Background()

	_, err := svc.GetBlock(ctx, "about")
	assert.ErrorIs(t, err, storage.ErrContentNotFound)

	_, err = svc.SaveBlock(ctx, &models.ContentBlock{Key: "about", Title: "About", Meta: []byte("{broken")})
	assert.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = svc.SaveBlock(ctx, &models.ContentBlock{Key: "about", Title: "About us", Meta: []byte(`{"years":10}`)})
	require.NoError(t, err)

	block, err := svc.GetBlock(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "About us", block.Title)

	require.NoError(t, svc.SubmitContact(ctx, &models.ContactMessage{Name: "Ivan", Email: "i@example.com", Message: "Need a quote"}))
	assert.Len(t, repo.messages, 1)
}

func TestCatalogService_Paging(t *testing.T) {
	store := newMemStore()
	for id := int64(1); id <= 13; id++ {
		store.addProduct(id, "1.00", 1)
	}
	svc := service.NewCatalogService(discardLogger(), &memProductRepo{store: store}, 12)

	page, err := svc.ListProducts(context.Background(), models.ProductFilter{Page: 0, Category: "All"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 12, page.PerPage)
	assert.Equal(t, 13, page.Total)
	assert.Equal(t, 2, page.LastPage)
	assert.Len(t, page.Data, 12)

	page, err = svc.ListProducts(context.Background(), models.ProductFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}

func TestCatalogService_CreateValidates(t *testing.T) {
	svc := service.NewCatalogService(discardLogger(), &memProductRepo{store: newMemStore()}, 12)

	_, err := svc.CreateProduct(context.Background(), &models.Product{Name: "Lamp", Slug: "lamp", Stock: -1})
	assert.ErrorIs(t, err, service.ErrInvalidRequest)

	created, err := svc.CreateProduct(context.Background(), &models.Product{Name: "Lamp", Slug: "lamp", Price: decimal.NewFromInt(40), Stock: 2})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = svc.CreateProduct(context.Background(), &models.Product{Name: "Lamp 2", Slug: "lamp", Stock: 1})
	assert.ErrorIs(t, err, storage.ErrSlugTaken)
}
