package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"craftkart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrInsufficientStock        = errors.New("insufficient stock")
	ErrOrderStatusChanged       = errors.New("order status changed concurrently")
	ErrPaymentIntentAlreadyUsed = errors.New("payment intent already used")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create inserts the order and its items, decrements stock and, for paid
	// orders, consumes the payment intent, all in one transaction.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error)
	// UpdateStatus moves the order from `from` to `to`; stock is restored on cancellation.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error
}

const orderColumns = `id, customer_id, total_amount, status, shipping_address, payment_method,
	payment_order_id, payment_id, created_at, updated_at`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(s scanner) (*domain.Order, error) {
	order := &domain.Order{}
	err := s.Scan(
		&order.ID,
		&order.CustomerID,
		&order.TotalAmount,
		&order.Status,
		&order.ShippingAddress,
		&order.PaymentMethod,
		&order.PaymentOrderID,
		&order.PaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		result, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to reserve stock: %w", err)
		}
		if err := expectOneRow(result, ErrInsufficientStock); err != nil {
			return err
		}
	}

	if order.PaymentOrderID != "" {
		result, err := tx.ExecContext(ctx, `
			UPDATE payment_intents
			SET status = 'paid', payment_id = $2
			WHERE provider_order_id = $1 AND status = 'created'
		`, order.PaymentOrderID, order.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to consume payment intent: %w", err)
		}
		if err := expectOneRow(result, ErrPaymentIntentAlreadyUsed); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		order.ID,
		order.CustomerID,
		order.TotalAmount,
		order.Status,
		order.ShippingAddress,
		order.PaymentMethod,
		order.PaymentOrderID,
		order.PaymentID,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, seller_id, title, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, order.ID, item.ProductID, item.SellerID, item.Title, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	return r.query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
}

// ListBySeller returns orders with at least one line sold by sellerID.
// Only that seller's lines are included in each order.
func (r *orderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error) {
	orders, err := r.query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id IN (SELECT order_id FROM order_items WHERE seller_id = $1)
		ORDER BY created_at DESC
	`, sellerID)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		own := order.Items[:0]
		for _, item := range order.Items {
			if item.SellerID == sellerID {
				own = append(own, item)
			}
		}
		order.Items = own
	}

	return orders, nil
}

func (r *orderRepository) List(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	if status != nil {
		return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, *status)
	}
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin status transaction: %w", err)
	}
	defer tx.Rollback()

	// Guarded on the current status so concurrent admins cannot skip the state machine
	result, err := tx.ExecContext(ctx, `UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if err := expectOneRow(result, ErrOrderStatusChanged); err != nil {
		return err
	}

	if to == domain.OrderStatusCancelled {
		_, err := tx.ExecContext(ctx, `
			UPDATE products p
			SET stock = p.stock + oi.quantity
			FROM order_items oi
			WHERE oi.order_id = $1 AND oi.product_id = p.id
		`, id)
		if err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}

	return nil
}

func (r *orderRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, seller_id, title, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY title, id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.SellerID, &item.Title, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
