package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"craftkart/internal/domain"
	"craftkart/internal/middleware"
	"craftkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testTokens = service.NewTokenIssuer("transport-test-secret", time.Hour)

func testAuth() func(http.Handler) http.Handler {
	return middleware.AuthMiddleware(testTokens, zap.NewNop())
}

func passThrough(next http.Handler) http.Handler { return next }

// bearer issues a token for a fresh user with the given role.
func bearer(t *testing.T, role domain.Role) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	token, err := testTokens.Issue(&domain.User{ID: id, Role: role})
	require.NoError(t, err)
	return id, "Bearer " + token
}

func doJSON(t *testing.T, h http.Handler, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorDetail {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func newRouter() chi.Router {
	return chi.NewRouter()
}

type stubAuth struct {
	register func(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	login    func(ctx context.Context, email, password string) (string, *domain.User, error)
	user     *domain.User
}

func (s *stubAuth) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	return s.register(ctx, in)
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.login(ctx, email, password)
}

func (s *stubAuth) ValidateToken(token string) (*service.Claims, error) {
	return testTokens.ValidateToken(token)
}

func (s *stubAuth) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, service.ErrInvalidToken
	}
	return s.user, nil
}

func (s *stubAuth) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	return false, nil
}

type stubCatalog struct {
	lastQuery  service.ListingQuery
	lastInput  service.ProductInput
	lastDelete uuid.UUID
	err        error
}

func (s *stubCatalog) ListApproved(ctx context.Context, q service.ListingQuery) (*service.ProductPage, error) {
	s.lastQuery = q
	return &service.ProductPage{Products: []*domain.Product{}, Page: q.Page, PageSize: q.PageSize}, s.err
}

func (s *stubCatalog) Search(ctx context.Context, query string, page, pageSize int) (*service.ProductPage, error) {
	return &service.ProductPage{Products: []*domain.Product{}, Page: page, PageSize: pageSize}, s.err
}

func (s *stubCatalog) GetApproved(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: id, Approved: true}, nil
}

func (s *stubCatalog) Categories(ctx context.Context) ([]*domain.Category, error) {
	return []*domain.Category{{ID: uuid.New(), Name: "Pottery"}}, s.err
}

func (s *stubCatalog) CreateProduct(ctx context.Context, sellerID uuid.UUID, in service.ProductInput) (*domain.Product, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: uuid.New(), SellerID: sellerID, Title: in.Title, Price: in.Price}, nil
}

func (s *stubCatalog) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, in service.ProductInput) (*domain.Product, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: productID, SellerID: sellerID, Title: in.Title}, nil
}

func (s *stubCatalog) DeleteProduct(ctx context.Context, actorID uuid.UUID, role domain.Role, productID uuid.UUID) error {
	s.lastDelete = productID
	return s.err
}

type stubPayments struct {
	checkout *service.CheckoutOrder
	err      error
}

func (s *stubPayments) CreatePaymentIntent(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*service.CheckoutOrder, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.checkout, nil
}

func (s *stubPayments) VerifyPayment(orderID, paymentID, signature string) error {
	return s.err
}

type stubOrders struct {
	placed     *service.PlaceOrderInput
	calls      int
	lastStatus *domain.OrderStatus
	err        error
}

func (s *stubOrders) PlaceOrder(ctx context.Context, customerID uuid.UUID, in service.PlaceOrderInput) (*domain.Order, error) {
	s.calls++
	s.placed = &in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Status:        domain.OrderStatusPending,
		PaymentMethod: in.PaymentMethod,
		TotalAmount:   decimal.NewFromInt(500),
	}, nil
}

func (s *stubOrders) ListMine(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	return []*domain.Order{}, s.err
}

func (s *stubOrders) Get(ctx context.Context, userID uuid.UUID, role domain.Role, orderID uuid.UUID) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: orderID, CustomerID: userID}, nil
}

func (s *stubOrders) List(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	s.lastStatus = status
	return []*domain.Order{}, s.err
}

func (s *stubOrders) ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error) {
	return []*domain.Order{}, s.err
}

func (s *stubOrders) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, service.ErrValidation
	}
	return &domain.Order{ID: orderID, Status: parsed}, nil
}

type stubReviews struct {
	err error
}

func (s *stubReviews) Submit(ctx context.Context, customerID uuid.UUID, in service.ReviewInput) (*domain.Review, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Review{ID: uuid.New(), CustomerID: customerID, ProductID: in.ProductID, Rating: in.Rating}, nil
}

func (s *stubReviews) ListForProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	return []*domain.Review{{ID: uuid.New(), ProductID: productID, Rating: 5}}, s.err
}

type stubAdmin struct {
	verified *bool
	err      error
}

func (s *stubAdmin) ListSellers(ctx context.Context, verified *bool) ([]*domain.User, error) {
	s.verified = verified
	return []*domain.User{}, s.err
}

func (s *stubAdmin) VerifySeller(ctx context.Context, sellerID uuid.UUID, verified bool) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: sellerID, Role: domain.RoleSeller, IsVerified: verified}, nil
}

func (s *stubAdmin) SellerDocuments(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error) {
	return []*domain.SellerDocument{}, s.err
}

func (s *stubAdmin) ListProducts(ctx context.Context, approved *bool, page, pageSize int) (*service.ProductPage, error) {
	return &service.ProductPage{Products: []*domain.Product{}, Page: page, PageSize: pageSize}, s.err
}

func (s *stubAdmin) ApproveProduct(ctx context.Context, productID uuid.UUID, approved bool) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: productID, Approved: approved}, nil
}

func (s *stubAdmin) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Category{ID: uuid.New(), Name: name, Description: description}, nil
}

func (s *stubAdmin) Stats(ctx context.Context) (*domain.AdminStats, error) {
	return &domain.AdminStats{Customers: 3, DeliveredRevenue: decimal.NewFromInt(1200)}, s.err
}

type stubSeller struct {
	files    []service.UploadedFile
	kinds    []domain.DocumentKind
	contents []string
	bank  service.BankInput
	err   error
}

func (s *stubSeller) SubmitKYC(ctx context.Context, sellerID uuid.UUID, files []service.UploadedFile) ([]*domain.SellerDocument, error) {
	s.files = files
	if s.err != nil {
		return nil, s.err
	}
	docs := make([]*domain.SellerDocument, 0, len(files))
	for _, f := range files {
		s.kinds = append(s.kinds, f.Kind)
		body, err := io.ReadAll(f.Content)
		if err != nil {
			return nil, err
		}
		s.contents = append(s.contents, string(body))
		docs = append(docs, &domain.SellerDocument{ID: uuid.New(), SellerID: sellerID, Kind: f.Kind, SizeBytes: f.Size})
	}
	return docs, nil
}

func (s *stubSeller) UpdateBank(ctx context.Context, sellerID uuid.UUID, in service.BankInput) (*domain.User, error) {
	s.bank = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: sellerID, Role: domain.RoleSeller}, nil
}

func (s *stubSeller) Products(ctx context.Context, sellerID uuid.UUID, page, pageSize int) (*service.ProductPage, error) {
	return &service.ProductPage{Products: []*domain.Product{}, Page: page, PageSize: pageSize}, s.err
}

func (s *stubSeller) Orders(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error) {
	return []*domain.Order{}, s.err
}

func (s *stubSeller) Stats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error) {
	return &domain.SellerStats{Products: 2}, s.err
}

func (s *stubSeller) Documents(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error) {
	return []*domain.SellerDocument{}, s.err
}
