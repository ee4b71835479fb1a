package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentKind names a KYC document slot. The values match the multipart field names.
type DocumentKind string

const (
	DocumentAadhaar     DocumentKind = "aadhaar"
	DocumentPAN         DocumentKind = "pan"
	DocumentGST         DocumentKind = "gst"
	DocumentShopLicense DocumentKind = "shopLicense"
	DocumentExtra       DocumentKind = "extra"
)

// SellerDocument is an uploaded KYC file.
type SellerDocument struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	SellerID    uuid.UUID    `json:"seller_id" db:"seller_id"`
	Kind        DocumentKind `json:"kind" db:"kind"`
	Location    string       `json:"location" db:"location"`
	ContentType string       `json:"content_type" db:"content_type"`
	SizeBytes   int64        `json:"size_bytes" db:"size_bytes"`
	UploadedAt  time.Time    `json:"uploaded_at" db:"uploaded_at"`
}
