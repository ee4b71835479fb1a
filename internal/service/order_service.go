package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"craftkart/internal/domain"
	"craftkart/internal/repository"

	"github.com/google/uuid"
)

// MaxLineQuantity caps the units of one product in a single order.
const MaxLineQuantity = 100

// OrderLineInput is one requested product and quantity. Client prices are never read.
type OrderLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PaymentProof is the checkout callback returned by the payment widget.
type PaymentProof struct {
	OrderID   string
	PaymentID string
	Signature string
}

type PlaceOrderInput struct {
	Items           []OrderLineInput
	ShippingAddress domain.Address
	PaymentMethod   domain.PaymentMethod
	Payment         *PaymentProof
}

// OrderService defines the interface for order business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, customerID uuid.UUID, in PlaceOrderInput) (*domain.Order, error)
	ListMine(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error)
	Get(ctx context.Context, userID uuid.UUID, role domain.Role, orderID uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	intentRepo  repository.PaymentIntentRepository
	payments    PaymentService
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	intentRepo repository.PaymentIntentRepository,
	payments PaymentService,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		intentRepo:  intentRepo,
		payments:    payments,
	}
}

// PlaceOrder prices the order from stored products and persists it.
// For razorpay orders the signature is checked before anything is written.
func (s *orderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, in PlaceOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrValidation)
	}

	switch in.PaymentMethod {
	case domain.PaymentMethodCOD:
	case domain.PaymentMethodRazorpay:
		if in.Payment == nil {
			return nil, fmt.Errorf("%w: payment details are required", ErrValidation)
		}
		if err := s.payments.VerifyPayment(in.Payment.OrderID, in.Payment.PaymentID, in.Payment.Signature); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}

	lines, err := mergeLines(in.Items)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) || (err == nil && !product.Approved) {
			return nil, fmt.Errorf("%w: product %s is not available", ErrValidation, line.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: %s", repository.ErrInsufficientStock, product.Title)
		}

		items = append(items, domain.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Title:     product.Title,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Items:           items,
		TotalAmount:     domain.Total(items),
		Status:          domain.OrderStatusPending,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if in.PaymentMethod == domain.PaymentMethodRazorpay {
		if err := s.matchIntent(ctx, customerID, in.Payment.OrderID, order); err != nil {
			return nil, err
		}
		order.PaymentOrderID = in.Payment.OrderID
		order.PaymentID = in.Payment.PaymentID
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) || errors.Is(err, repository.ErrPaymentIntentAlreadyUsed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// matchIntent ties a captured payment to this customer and this total.
func (s *orderService) matchIntent(ctx context.Context, customerID uuid.UUID, providerOrderID string, order *domain.Order) error {
	intent, err := s.intentRepo.FindByProviderOrderID(ctx, providerOrderID)
	if errors.Is(err, repository.ErrPaymentIntentNotFound) {
		return fmt.Errorf("%w: unknown payment order", ErrPaymentMismatch)
	}
	if err != nil {
		return fmt.Errorf("failed to load payment intent: %w", err)
	}

	if intent.CustomerID != customerID {
		return fmt.Errorf("%w: payment belongs to another customer", ErrPaymentMismatch)
	}
	if intent.Status != domain.PaymentIntentCreated {
		return repository.ErrPaymentIntentAlreadyUsed
	}
	if !intent.Amount.Equal(order.TotalAmount) {
		return fmt.Errorf("%w: paid %s, order total %s", ErrPaymentMismatch, intent.Amount, order.TotalAmount)
	}
	return nil
}

// mergeLines folds repeated products into one line.
func mergeLines(in []OrderLineInput) ([]OrderLineInput, error) {
	index := make(map[uuid.UUID]int, len(in))
	lines := make([]OrderLineInput, 0, len(in))

	for _, line := range in {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		i, ok := index[line.ProductID]
		if !ok {
			i = len(lines)
			index[line.ProductID] = i
			lines = append(lines, OrderLineInput{ProductID: line.ProductID})
		}
		lines[i].Quantity += line.Quantity
		if lines[i].Quantity > MaxLineQuantity {
			return nil, fmt.Errorf("%w: at most %d units per product", ErrValidation, MaxLineQuantity)
		}
	}

	return lines, nil
}

func (s *orderService) ListMine(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

func (s *orderService) Get(ctx context.Context, userID uuid.UUID, role domain.Role, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && order.CustomerID != userID {
		return nil, fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx, status)
}

func (s *orderService) ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListBySeller(ctx, sellerID)
}

// UpdateStatus moves an order along the lifecycle.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status, next); err != nil {
		return nil, err
	}

	order.Status = next
	order.UpdatedAt = time.Now()
	return order, nil
}
