package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"

	"craftkart/internal/domain"
	"craftkart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mock repositories for testing

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role domain.Role, verified *bool) ([]*domain.User, error) {
	users := []*domain.User{}
	for _, user := range m.users {
		if user.Role == role && (verified == nil || user.IsVerified == *verified) {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *mockUserRepository) UpdateSellerProfile(ctx context.Context, user *domain.User) error {
	if _, err := m.FindByID(ctx, user.ID); err != nil {
		return err
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	user, err := m.FindByID(ctx, id)
	if err != nil || user.Role != domain.RoleSeller {
		return repository.ErrUserNotFound
	}
	user.IsVerified = verified
	return nil
}

func (m *mockUserRepository) UpdateRating(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error {
	user, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.RatingAverage, user.RatingCount = summary.Average, summary.Count
	return nil
}

func (m *mockUserRepository) add(role domain.Role, verified bool) *domain.User {
	user := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@test", Role: role, IsVerified: verified}
	m.users[user.Email] = user
	return user
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	out := []*domain.Category{}
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) add() *domain.Category {
	c := &domain.Category{ID: uuid.New(), Name: "Pottery " + uuid.NewString()}
	m.categories[c.ID] = c
	return c
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	out := []*domain.Product{}
	for _, p := range m.products {
		if filter.Approved != nil && p.Approved != *filter.Approved {
			continue
		}
		if filter.SellerID != nil && p.SellerID != *filter.SellerID {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out, len(out), nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string, approvedOnly bool, page, pageSize int) ([]*domain.Product, int, error) {
	filter := repository.ProductFilter{}
	if approvedOnly {
		approved := true
		filter.Approved = &approved
	}
	return m.List(ctx, filter)
}

func (m *mockProductRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Approved = approved
	return nil
}

func (m *mockProductRepository) UpdateRating(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error {
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.RatingAverage, p.RatingCount = summary.Average, summary.Count
	return nil
}

func (m *mockProductRepository) add(seller *domain.User, price int64, stock int, approved bool) *domain.Product {
	p := &domain.Product{
		ID:       uuid.New(),
		SellerID: seller.ID,
		Title:    "Product " + uuid.NewString()[:6],
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		Approved: approved,
	}
	m.products[p.ID] = p
	return p
}

type mockOrderRepository struct {
	orders   map[uuid.UUID]*domain.Order
	products *mockProductRepository
	intents  *mockPaymentIntentRepository
}

func newMockOrderRepository(products *mockProductRepository, intents *mockPaymentIntentRepository) *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[uuid.UUID]*domain.Order), products: products, intents: intents}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	for _, item := range order.Items {
		if m.products.products[item.ProductID].Stock < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}
	if order.PaymentOrderID != "" {
		intent, ok := m.intents.intents[order.PaymentOrderID]
		if !ok || intent.Status != domain.PaymentIntentCreated {
			return repository.ErrPaymentIntentAlreadyUsed
		}
		intent.Status = domain.PaymentIntentPaid
		intent.PaymentID = order.PaymentID
	}
	for _, item := range order.Items {
		m.products.products[item.ProductID].Stock -= item.Quantity
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	out := []*domain.Order{}
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error) {
	out := []*domain.Order{}
	for _, o := range m.orders {
		for _, item := range o.Items {
			if item.SellerID == sellerID {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}

func (m *mockOrderRepository) List(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	out := []*domain.Order{}
	for _, o := range m.orders {
		if status == nil || o.Status == *status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return repository.ErrOrderStatusChanged
	}
	o.Status = to
	return nil
}

type mockReviewRepository struct {
	reviews []*domain.Review
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if exists, _ := m.Exists(ctx, review.CustomerID, review.ProductID); exists {
		return repository.ErrReviewAlreadyExists
	}
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *mockReviewRepository) Exists(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	for _, r := range m.reviews {
		if r.CustomerID == customerID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	out := []*domain.Review{}
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) summary(match func(*domain.Review) bool) domain.RatingSummary {
	var sum, count int
	for _, r := range m.reviews {
		if match(r) {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return domain.RatingSummary{}
	}
	return domain.RatingSummary{Average: float64(sum) / float64(count), Count: count}
}

func (m *mockReviewRepository) ProductSummary(ctx context.Context, productID uuid.UUID) (domain.RatingSummary, error) {
	return m.summary(func(r *domain.Review) bool { return r.ProductID == productID }), nil
}

func (m *mockReviewRepository) SellerSummary(ctx context.Context, sellerID uuid.UUID) (domain.RatingSummary, error) {
	return m.summary(func(r *domain.Review) bool { return r.SellerID == sellerID }), nil
}

type mockPaymentIntentRepository struct {
	intents map[string]*domain.PaymentIntent
}

func newMockPaymentIntentRepository() *mockPaymentIntentRepository {
	return &mockPaymentIntentRepository{intents: make(map[string]*domain.PaymentIntent)}
}

func (m *mockPaymentIntentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	m.intents[intent.ProviderOrderID] = intent
	return nil
}

func (m *mockPaymentIntentRepository) FindByProviderOrderID(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	intent, ok := m.intents[id]
	if !ok {
		return nil, repository.ErrPaymentIntentNotFound
	}
	copied := *intent
	return &copied, nil
}

type mockDocumentRepository struct {
	docs []*domain.SellerDocument
	err  error
}

func (m *mockDocumentRepository) Create(ctx context.Context, docs ...*domain.SellerDocument) error {
	if m.err != nil {
		return m.err
	}
	m.docs = append(m.docs, docs...)
	return nil
}

func (m *mockDocumentRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error) {
	out := []*domain.SellerDocument{}
	for _, d := range m.docs {
		if d.SellerID == sellerID {
			out = append(out, d)
		}
	}
	return out, nil
}

type mockStatsRepository struct {
	admin  *domain.AdminStats
	seller *domain.SellerStats
}

func (m *mockStatsRepository) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	return m.admin, nil
}

func (m *mockStatsRepository) SellerStats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error) {
	return m.seller, nil
}

// fakeProvider stands in for the payment gateway.
type fakeProvider struct {
	orderID string
	err     error
	calls   int
}

func (f *fakeProvider) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error) {
	f.calls++
	return f.orderID, f.err
}

// memoryStore keeps uploads in memory.
type memoryStore struct {
	files map[string][]byte
	// failAt makes the n-th Save (1-based) fail; zero never fails.
	failAt int
	saves  int
}

func (m *memoryStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	m.saves++
	if m.saves == m.failAt {
		return "", errors.New("bucket unavailable")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[key] = buf.Bytes()
	return "/uploads/" + key, nil
}
