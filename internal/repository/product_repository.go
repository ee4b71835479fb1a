package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"craftkart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductFilter narrows a product listing. Nil pointers mean "any".
type ProductFilter struct {
	Approved   *bool
	SellerID   *uuid.UUID
	CategoryID *uuid.UUID
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  SortOrder
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string, approvedOnly bool, page, pageSize int) ([]*domain.Product, int, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	UpdateRating(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error
}

const productColumns = `id, seller_id, category_id, title, description, price, images, stock,
	approved, rating_average, rating_count, created_at, updated_at`

// sort keys accepted from clients mapped to columns
var productSortColumns = map[string]string{
	"title":      "title",
	"price":      "price",
	"created_at": "created_at",
	"rating":     "rating_average",
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(s scanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := s.Scan(
		&product.ID,
		&product.SellerID,
		&product.CategoryID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.Images,
		&product.Stock,
		&product.Approved,
		&product.RatingAverage,
		&product.RatingCount,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.SellerID,
		product.CategoryID,
		product.Title,
		product.Description,
		product.Price,
		product.Images,
		product.Stock,
		product.Approved,
		product.RatingAverage,
		product.RatingCount,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update rewrites the seller-editable fields and the approval flag.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, category_id = $5,
		    images = $6, stock = $7, approved = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.CategoryID,
		product.Images,
		product.Stock,
		product.Approved,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return expectOneRow(result, ErrProductNotFound)
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return expectOneRow(result, ErrProductNotFound)
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products matching filter with pagination and sorting
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	// Sort column comes from a whitelist; never interpolate client input
	sortColumn, ok := productSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}

	sortOrder := filter.SortOrder
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc
	}

	conditions := []string{}
	args := []interface{}{}

	if filter.Approved != nil {
		args = append(args, *filter.Approved)
		conditions = append(conditions, fmt.Sprintf("approved = $%d", len(args)))
	}
	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		conditions = append(conditions, fmt.Sprintf("seller_id = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s %s, id
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, sortColumn, sortOrder, len(args)+1, len(args)+2)

	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Search matches title or description case-insensitively
func (r *productRepository) Search(ctx context.Context, query string, approvedOnly bool, page, pageSize int) ([]*domain.Product, int, error) {
	if strings.TrimSpace(query) == "" {
		filter := ProductFilter{Page: page, PageSize: pageSize, SortBy: "created_at", SortOrder: SortOrderDesc}
		if approvedOnly {
			approved := true
			filter.Approved = &approved
		}
		return r.List(ctx, filter)
	}

	searchPattern := "%" + escapeLike(query) + "%"
	where := `(title ILIKE $1 OR description ILIKE $1)`
	if approvedOnly {
		where += ` AND approved = TRUE`
	}

	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE `+where, searchPattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * pageSize

	searchQuery := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ` + where + `
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, searchQuery, searchPattern, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SetApproved flips the admin approval flag.
func (r *productRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE products SET approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return fmt.Errorf("failed to set product approval: %w", err)
	}

	return expectOneRow(result, ErrProductNotFound)
}

// UpdateRating stores the re-aggregated product rating.
func (r *productRepository) UpdateRating(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error {
	query := `UPDATE products SET rating_average = $2, rating_count = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, summary.Average, summary.Count)
	if err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}

	return expectOneRow(result, ErrProductNotFound)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
