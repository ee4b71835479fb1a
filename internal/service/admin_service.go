package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"craftkart/internal/domain"
	"craftkart/internal/repository"

	"github.com/google/uuid"
)

// AdminService defines the interface for marketplace moderation
type AdminService interface {
	ListSellers(ctx context.Context, verified *bool) ([]*domain.User, error)
	VerifySeller(ctx context.Context, sellerID uuid.UUID, verified bool) (*domain.User, error)
	SellerDocuments(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error)
	ListProducts(ctx context.Context, approved *bool, page, pageSize int) (*ProductPage, error)
	ApproveProduct(ctx context.Context, productID uuid.UUID, approved bool) (*domain.Product, error)
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	Stats(ctx context.Context) (*domain.AdminStats, error)
}

type adminService struct {
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	documentRepo repository.DocumentRepository
	statsRepo    repository.StatsRepository
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	documentRepo repository.DocumentRepository,
	statsRepo repository.StatsRepository,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		documentRepo: documentRepo,
		statsRepo:    statsRepo,
	}
}

func (s *adminService) ListSellers(ctx context.Context, verified *bool) ([]*domain.User, error) {
	return s.userRepo.ListByRole(ctx, domain.RoleSeller, verified)
}

func (s *adminService) VerifySeller(ctx context.Context, sellerID uuid.UUID, verified bool) (*domain.User, error) {
	if err := s.userRepo.SetVerified(ctx, sellerID, verified); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, sellerID)
}

func (s *adminService) SellerDocuments(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error) {
	seller, err := s.userRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.IsSeller() {
		return nil, repository.ErrUserNotFound
	}
	return s.documentRepo.ListBySeller(ctx, sellerID)
}

func (s *adminService) ListProducts(ctx context.Context, approved *bool, page, pageSize int) (*ProductPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		Approved:  approved,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    "created_at",
		SortOrder: repository.SortOrderDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{Products: products, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *adminService) ApproveProduct(ctx context.Context, productID uuid.UUID, approved bool) (*domain.Product, error) {
	if err := s.productRepo.SetApproved(ctx, productID, approved); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(ctx, productID)
}

func (s *adminService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *adminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	return s.statsRepo.AdminStats(ctx)
}
