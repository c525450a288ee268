// Package labels provides database operations for project labels.
package labels

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindLabelsByProject returns every label defined for the project.
func (r *Repository) FindLabelsByProject(ctx context.Context, projectID uint) ([]entities.Label, error) {
	var labels []entities.Label
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("text ASC").
		Find(&labels).Error
	return labels, err
}

// Create adds a label to a project. Label texts are unique per project.
func (r *Repository) Create(ctx context.Context, label *entities.Label) error {
	return r.db.WithContext(ctx).Omit("Project").Create(label).Error
}
