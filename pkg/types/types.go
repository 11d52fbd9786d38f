package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document represents a stored document's descriptive record. The bytes live in
// blob storage under BlobRef; this row never duplicates them. Records are
// immutable once created and are removed only through the delete flow, which
// deletes the blob first.
type Document struct {
	ID         uuid.UUID `json:"id" gorm:"primaryKey"`
	Theme      string    `json:"theme" gorm:"not null"`
	Department string    `json:"department" gorm:"not null"`
	FileName   string    `json:"file_name" gorm:"not null"`
	BlobRef    string    `json:"-" gorm:"uniqueIndex;not null"`
	Size       int64     `json:"size"`
	SHA256     string    `json:"sha256" gorm:"index"`
	// UploadDate is a bare calendar date (the caller's local day), stored
	// without any time-of-day or timezone component.
	UploadDate string    `json:"upload_date" gorm:"type:varchar(10);not null;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for the document ID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DocumentFilter for searching documents
type DocumentFilter struct {
	Theme      string `json:"theme"`
	Department string `json:"department"`
	FileName   string `json:"file_name"`
	DateFrom   string `json:"date_from"`
	DateTo     string `json:"date_to"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// TokenRequest represents an auth token exchange request
type TokenRequest struct {
	AdminKey string `json:"admin_key" binding:"required"`
}

// AuthToken represents an issued JWT
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	APIResponse
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
