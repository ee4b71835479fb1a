package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"craftkart/internal/domain"
	"craftkart/internal/repository"
	"craftkart/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxExtraDocuments caps the optional KYC attachments.
const MaxExtraDocuments = 5

// sniffLen is how much of an upload is read for type detection.
const sniffLen = 3072

var allowedDocumentTypes = []string{"application/pdf", "image/jpeg", "image/png"}

// UploadedFile is one KYC file taken from a multipart form.
type UploadedFile struct {
	Kind    domain.DocumentKind
	Size    int64
	Content io.Reader
}

// BankInput carries payout and shop details.
type BankInput struct {
	AccountHolder string
	AccountNumber string
	IFSC          string
	BankName      string
	ShopName      string
	Phone         string
}

// SellerService defines the interface for the seller panel
type SellerService interface {
	SubmitKYC(ctx context.Context, sellerID uuid.UUID, files []UploadedFile) ([]*domain.SellerDocument, error)
	UpdateBank(ctx context.Context, sellerID uuid.UUID, in BankInput) (*domain.User, error)
	Products(ctx context.Context, sellerID uuid.UUID, page, pageSize int) (*ProductPage, error)
	Orders(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error)
	Stats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error)
	Documents(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error)
}

type sellerService struct {
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	documentRepo repository.DocumentRepository
	statsRepo    repository.StatsRepository
	store        storage.Store
	maxBytes     int64
}

// NewSellerService creates a new instance of SellerService
func NewSellerService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	documentRepo repository.DocumentRepository,
	statsRepo repository.StatsRepository,
	store storage.Store,
	maxBytes int64,
) SellerService {
	return &sellerService{
		userRepo:     userRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		documentRepo: documentRepo,
		statsRepo:    statsRepo,
		store:        store,
		maxBytes:     maxBytes,
	}
}

// SubmitKYC checks every file before storing any of them.
func (s *sellerService) SubmitKYC(ctx context.Context, sellerID uuid.UUID, files []UploadedFile) ([]*domain.SellerDocument, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no documents uploaded", ErrValidation)
	}

	extras := 0
	for _, f := range files {
		if f.Kind == domain.DocumentExtra {
			extras++
		}
	}
	if extras > MaxExtraDocuments {
		return nil, fmt.Errorf("%w: at most %d extra documents", ErrValidation, MaxExtraDocuments)
	}

	type sniffed struct {
		file UploadedFile
		mime *mimetype.MIME
		body io.Reader
	}

	checked := make([]sniffed, 0, len(files))
	for _, f := range files {
		if f.Size > s.maxBytes {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, f.Kind, s.maxBytes)
		}

		head := make([]byte, sniffLen)
		n, err := io.ReadFull(f.Content, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, fmt.Errorf("failed to read %s: %w", f.Kind, err)
		}
		head = head[:n]

		mime := mimetype.Detect(head)
		if !mimetype.EqualsAny(mime.String(), allowedDocumentTypes...) {
			return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedFile, f.Kind, mime.String())
		}

		checked = append(checked, sniffed{
			file: f,
			mime: mime,
			body: io.MultiReader(bytes.NewReader(head), f.Content),
		})
	}

	// Files are stored first and recorded together, so a failure never leaves
	// a partial set of rows. Objects written before a failure stay unreferenced.
	docs := make([]*domain.SellerDocument, 0, len(checked))
	for _, c := range checked {
		id := uuid.New()
		key := fmt.Sprintf("kyc/%s/%s-%s%s", sellerID, strings.ToLower(string(c.file.Kind)), id, c.mime.Extension())

		location, err := s.store.Save(ctx, key, c.body, c.file.Size, c.mime.String())
		if err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", c.file.Kind, err)
		}

		docs = append(docs, &domain.SellerDocument{
			ID:          id,
			SellerID:    sellerID,
			Kind:        c.file.Kind,
			Location:    location,
			ContentType: c.mime.String(),
			SizeBytes:   c.file.Size,
			UploadedAt:  time.Now(),
		})
	}

	if err := s.documentRepo.Create(ctx, docs...); err != nil {
		return nil, fmt.Errorf("failed to record documents: %w", err)
	}

	return docs, nil
}

func (s *sellerService) UpdateBank(ctx context.Context, sellerID uuid.UUID, in BankInput) (*domain.User, error) {
	seller, err := s.userRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	seller.Bank = domain.BankDetails{
		AccountHolder: strings.TrimSpace(in.AccountHolder),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		IFSC:          strings.ToUpper(strings.TrimSpace(in.IFSC)),
		BankName:      strings.TrimSpace(in.BankName),
	}
	if in.ShopName != "" {
		seller.ShopName = strings.TrimSpace(in.ShopName)
	}
	if in.Phone != "" {
		seller.Phone = strings.TrimSpace(in.Phone)
	}

	if err := s.userRepo.UpdateSellerProfile(ctx, seller); err != nil {
		return nil, err
	}
	return seller, nil
}

// Products lists the seller's own products in every approval state.
func (s *sellerService) Products(ctx context.Context, sellerID uuid.UUID, page, pageSize int) (*ProductPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		SellerID:  &sellerID,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    "created_at",
		SortOrder: repository.SortOrderDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list seller products: %w", err)
	}

	return &ProductPage{Products: products, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *sellerService) Orders(ctx context.Context, sellerID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListBySeller(ctx, sellerID)
}

func (s *sellerService) Stats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error) {
	return s.statsRepo.SellerStats(ctx, sellerID)
}

func (s *sellerService) Documents(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error) {
	return s.documentRepo.ListBySeller(ctx, sellerID)
}
