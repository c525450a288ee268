package http

import (
	"context"
	"io"

	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/exporters"
	"github.com/mrlokans/annotator/internal/importers"
)

// Each controller depends only on the store methods it uses. The database
// repositories satisfy these interfaces; tests use in-package mocks.

// ProjectGetter provides read access to projects.
type ProjectGetter interface {
	GetByID(ctx context.Context, id uint) (*entities.Project, error)
}

// ProjectStore is the project management surface of the API.
type ProjectStore interface {
	ProjectGetter
	List(ctx context.Context) ([]entities.Project, error)
	Create(ctx context.Context, project *entities.Project) error
}

// LabelStore lists and creates the labels of a project.
type LabelStore interface {
	FindLabelsByProject(ctx context.Context, projectID uint) ([]entities.Label, error)
	Create(ctx context.Context, label *entities.Label) error
}

// DatasetStore pages through and deletes the documents of a project.
type DatasetStore interface {
	ListPage(ctx context.Context, projectID uint, limit, offset int) ([]entities.Document, int64, error)
	FindLatestForProject(ctx context.Context, projectID uint) (*entities.Document, error)
	Delete(ctx context.Context, projectID, docID uint) error
}

// Importer runs one import job.
type Importer interface {
	Run(ctx context.Context, req importers.JobRequest) (importers.Result, error)
}

// DatasetExporter streams a project's documents in an export format.
type DatasetExporter interface {
	Export(ctx context.Context, projectID uint, format importers.Format, w io.Writer) (exporters.ExportStats, error)
}
