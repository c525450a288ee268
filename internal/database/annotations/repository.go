// Package annotations provides database operations for sequence annotations.
package annotations

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/annotator/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// BulkCreate inserts the batch with a single statement.
func (r *Repository) BulkCreate(ctx context.Context, spans []*entities.SequenceAnnotation) error {
	if len(spans) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(spans).Error
}

func (r *Repository) ListForDocument(ctx context.Context, docID uint) ([]entities.SequenceAnnotation, error) {
	var spans []entities.SequenceAnnotation
	err := r.db.WithContext(ctx).
		Preload("Label").
		Where("document_id = ?", docID).
		Order("start_offset ASC, id ASC").
		Find(&spans).Error
	return spans, err
}
