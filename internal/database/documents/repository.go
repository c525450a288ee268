// Package documents provides database operations for project documents.
//
// # Usage
//
//	repo := documents.NewRepository(db)
//	err := repo.BulkCreate(ctx, batch) // ids are written back into batch
//	err = repo.EachForExport(ctx, projectID, 500, func(doc *entities.Document) error { ... })
package documents

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/annotator/internal/entities"
)

// Repository handles all document database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new documents repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// BulkCreate inserts the batch with a single statement. The assigned ids are
// set on the passed documents.
func (r *Repository) BulkCreate(ctx context.Context, docs []*entities.Document) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(docs).Error
}

// Delete removes a document and its annotations. Deleting an id that does
// not exist in the project is a no-op.
func (r *Repository) Delete(ctx context.Context, projectID, docID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&entities.Document{}).
			Select("id").
			Where("id = ? AND project_id = ?", docID, projectID)
		if err := tx.Where("document_id IN (?)", owned).Delete(&entities.SequenceAnnotation{}).Error; err != nil {
			return fmt.Errorf("failed to delete annotations of document %d: %w", docID, err)
		}
		return tx.Where("id = ? AND project_id = ?", docID, projectID).Delete(&entities.Document{}).Error
	})
}

// EachForExport calls fn for every document of the project with a text,
// in ascending id order, loading batchSize documents at a time. Annotations
// are preloaded together with their label and user.
func (r *Repository) EachForExport(ctx context.Context, projectID uint, batchSize int, fn func(*entities.Document) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	var batch []entities.Document
	var fnErr error
	result := r.db.WithContext(ctx).
		Preload("Annotations", func(db *gorm.DB) *gorm.DB { return db.Order("start_offset ASC, id ASC") }).
		Preload("Annotations.Label").
		Preload("Annotations.User").
		Where("project_id = ? AND text IS NOT NULL", projectID).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				if fnErr = fn(&batch[i]); fnErr != nil {
					return fnErr
				}
			}
			return nil
		})
	if fnErr != nil {
		return fnErr
	}
	return result.Error
}

// FindLatestForProject returns the most recently inserted document of the
// project.
func (r *Repository) FindLatestForProject(ctx context.Context, projectID uint) (*entities.Document, error) {
	var doc entities.Document
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id DESC").
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListPage returns one page of the project's documents with their
// annotations, plus the total document count.
func (r *Repository) ListPage(ctx context.Context, projectID uint, limit, offset int) ([]entities.Document, int64, error) {
	var docs []entities.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Document{}).Where("project_id = ?", projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 5
	}
	if offset < 0 {
		offset = 0
	}

	err := query.
		Preload("Annotations").
		Preload("Annotations.Label").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, total, err
}
