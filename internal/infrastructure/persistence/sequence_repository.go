package persistence

import (
	"context"
	"errors"

	"github.com/ims/backend/internal/domain/numbering"
	"gorm.io/gorm"
)

// GormSequenceRepository implements numbering.SequenceRepository using GORM.
// The counter advances with a single upsert so two concurrent callers can
// never be handed the same value; a read-increment-write cycle would race.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next increments the counter for key and returns the new value. The first
// call for a key creates the row and returns 1.
func (r *GormSequenceRepository) Next(ctx context.Context, key string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (key, value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = document_sequences.value + 1, updated_at = NOW()
		RETURNING value`, key).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Current returns the counter value without advancing it. Missing keys read
// as zero.
func (r *GormSequenceRepository) Current(ctx context.Context, key string) (int64, error) {
	var seq numbering.DocumentSequence
	err := r.db.WithContext(ctx).First(&seq, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return seq.Value, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ numbering.SequenceRepository = (*GormSequenceRepository)(nil)
