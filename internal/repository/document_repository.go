package repository

import (
	"context"
	"database/sql"
	"fmt"

	"craftkart/internal/domain"

	"github.com/google/uuid"
)

// DocumentRepository stores seller KYC document metadata
type DocumentRepository interface {
	// Create records docs in one transaction; either all rows are written or none.
	Create(ctx context.Context, docs ...*domain.SellerDocument) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error)
}

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, docs ...*domain.SellerDocument) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin document transaction: %w", err)
	}
	defer tx.Rollback()

	for _, doc := range docs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO seller_documents (id, seller_id, kind, location, content_type, size_bytes, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, doc.ID, doc.SellerID, doc.Kind, doc.Location, doc.ContentType, doc.SizeBytes, doc.UploadedAt)
		if err != nil {
			return fmt.Errorf("failed to create seller document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seller documents: %w", err)
	}

	return nil
}

func (r *documentRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.SellerDocument, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seller_id, kind, location, content_type, size_bytes, uploaded_at
		FROM seller_documents
		WHERE seller_id = $1
		ORDER BY uploaded_at DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller documents: %w", err)
	}
	defer rows.Close()

	docs := []*domain.SellerDocument{}
	for rows.Next() {
		doc := &domain.SellerDocument{}
		if err := rows.Scan(&doc.ID, &doc.SellerID, &doc.Kind, &doc.Location, &doc.ContentType, &doc.SizeBytes, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan seller document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seller documents: %w", err)
	}

	return docs, nil
}
