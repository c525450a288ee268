// Package projects provides database operations for annotation projects.
package projects

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

func (r *Repository) Create(ctx context.Context, project *entities.Project) error {
	if project.ProjectType == "" {
		project.ProjectType = entities.ProjectTypeSequenceLabeling
	}
	return r.db.WithContext(ctx).Omit("Labels").Create(project).Error
}

// GetByID returns the project with its labels. gorm.ErrRecordNotFound is
// returned for unknown ids.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Project, error) {
	var project entities.Project
	err := r.db.WithContext(ctx).
		Preload("Labels", func(db *gorm.DB) *gorm.DB { return db.Order("text ASC") }).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Repository) List(ctx context.Context) ([]entities.Project, error) {
	var projects []entities.Project
	err := r.db.WithContext(ctx).Order("id ASC").Find(&projects).Error
	return projects, err
}
