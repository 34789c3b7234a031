package numbering

import (
	"context"
	"fmt"
	"time"
)

// DocumentSequence is a named monotonic counter backing document numbers.
// The value is only ever advanced with an atomic increment in the database;
// reading it and adding one would hand the same number to two writers.
type DocumentSequence struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// PurchaseOrderSequenceKey is the single global counter for purchase orders
const PurchaseOrderSequenceKey = "purchase_order"

// InvoiceSequenceKey returns the counter key for the calendar month of t.
// Each month gets its own counter so invoice sequences restart at 1
func InvoiceSequenceKey(t time.Time) string {
	return fmt.Sprintf("invoice:%02d%02d", t.Year()%100, int(t.Month()))
}

// FormatInvoiceNumber renders an invoice number as INV{YY}{MM}{seq:04d}
func FormatInvoiceNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("INV%02d%02d%04d", t.Year()%100, int(t.Month()), seq)
}

// FormatPurchaseOrderNumber renders a purchase order number as PO{seq:06d}
func FormatPurchaseOrderNumber(seq int64) string {
	return fmt.Sprintf("PO%06d", seq)
}

// SequenceRepository advances named counters atomically
type SequenceRepository interface {
	// Next increments the counter for key and returns the new value.
	// The first call for a key returns 1
	Next(ctx context.Context, key string) (int64, error)
}

// Generator allocates formatted document numbers
type Generator interface {
	NextInvoiceNumber(ctx context.Context, at time.Time) (string, error)
	NextPurchaseOrderNumber(ctx context.Context) (string, error)
}

// DocumentNumberService implements Generator on top of a SequenceRepository
type DocumentNumberService struct {
	sequences SequenceRepository
}

// NewDocumentNumberService creates a new document number service
func NewDocumentNumberService(sequences SequenceRepository) *DocumentNumberService {
	return &DocumentNumberService{sequences: sequences}
}

// NextInvoiceNumber allocates the next invoice number for the month of at
func (s *DocumentNumberService) NextInvoiceNumber(ctx context.Context, at time.Time) (string, error) {
	seq, err := s.sequences.Next(ctx, InvoiceSequenceKey(at))
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(at, seq), nil
}

// NextPurchaseOrderNumber allocates the next purchase order number
func (s *DocumentNumberService) NextPurchaseOrderNumber(ctx context.Context) (string, error) {
	seq, err := s.sequences.Next(ctx, PurchaseOrderSequenceKey)
	if err != nil {
		return "", err
	}
	return FormatPurchaseOrderNumber(seq), nil
}

// Ensure DocumentNumberService implements Generator
var _ Generator = (*DocumentNumberService)(nil)
