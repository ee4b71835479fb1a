package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"craftkart/internal/domain"
	"craftkart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxPrice is the largest price a NUMERIC(12,2) column holds.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// ProductInput is the seller-editable part of a product.
type ProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	CategoryID  uuid.UUID
	Images      []string
	Stock       int
}

// ListingQuery selects a page of the public catalog.
type ListingQuery struct {
	Page       int
	PageSize   int
	CategoryID *uuid.UUID
	SortBy     string
	SortOrder  repository.SortOrder
}

// ProductPage is one page of products with the total match count.
type ProductPage struct {
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CatalogService defines the interface for product business logic
type CatalogService interface {
	ListApproved(ctx context.Context, q ListingQuery) (*ProductPage, error)
	Search(ctx context.Context, query string, page, pageSize int) (*ProductPage, error)
	GetApproved(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Categories(ctx context.Context) ([]*domain.Category, error)
	CreateProduct(ctx context.Context, sellerID uuid.UUID, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actorID uuid.UUID, role domain.Role, productID uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// normalizePage clamps pagination to sane bounds.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func (s *catalogService) ListApproved(ctx context.Context, q ListingQuery) (*ProductPage, error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)
	approved := true

	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		Approved:   &approved,
		CategoryID: q.CategoryID,
		Page:       page,
		PageSize:   pageSize,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{Products: products, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *catalogService) Search(ctx context.Context, query string, page, pageSize int) (*ProductPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	products, total, err := s.productRepo.Search(ctx, query, true, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return &ProductPage{Products: products, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetApproved hides unapproved products behind not found.
func (s *catalogService) GetApproved(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Approved {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) CreateProduct(ctx context.Context, sellerID uuid.UUID, in ProductInput) (*domain.Product, error) {
	if err := s.requireVerifiedSeller(ctx, sellerID); err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		SellerID:    sellerID,
		CategoryID:  in.CategoryID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Images:      domain.StringList(in.Images),
		Stock:       in.Stock,
		Approved:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct applies a seller edit and sends the product back to moderation.
func (s *catalogService) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, in ProductInput) (*domain.Product, error) {
	if err := s.requireVerifiedSeller(ctx, sellerID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, fmt.Errorf("%w: product belongs to another seller", ErrForbidden)
	}

	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	product.Title = strings.TrimSpace(in.Title)
	product.Description = in.Description
	product.Price = in.Price.Round(2)
	product.CategoryID = in.CategoryID
	product.Images = domain.StringList(in.Images)
	product.Stock = in.Stock
	product.Approved = false
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, actorID uuid.UUID, role domain.Role, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin && product.SellerID != actorID {
		return fmt.Errorf("%w: product belongs to another seller", ErrForbidden)
	}

	return s.productRepo.Delete(ctx, productID)
}

func (s *catalogService) requireVerifiedSeller(ctx context.Context, sellerID uuid.UUID) error {
	seller, err := s.userRepo.FindByID(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("failed to load seller: %w", err)
	}
	if !seller.IsSeller() {
		return fmt.Errorf("%w: not a seller account", ErrForbidden)
	}
	if !seller.IsVerified {
		return ErrSellerNotVerified
	}
	return nil
}

func (s *catalogService) validateInput(ctx context.Context, in ProductInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	price := in.Price.Round(2)
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be at least 0.01", ErrValidation)
	}
	if price.GreaterThan(MaxPrice) {
		return fmt.Errorf("%w: price must not exceed %s", ErrValidation, MaxPrice)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	if _, err := s.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return fmt.Errorf("%w: unknown category", ErrValidation)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	return nil
}
