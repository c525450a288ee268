package importers

import (
	"context"
	"fmt"

	"github.com/mrlokans/annotator/internal/entities"
)

// LabelFinder lists the labels defined for a project.
type LabelFinder interface {
	FindLabelsByProject(ctx context.Context, projectID uint) ([]entities.Label, error)
}

// LabelResolver maps label names to ids of one project. It is built once
// per import job.
type LabelResolver struct {
	ids map[string]uint
}

func NewLabelResolver(ctx context.Context, finder LabelFinder, projectID uint) (*LabelResolver, error) {
	labels, err := finder.FindLabelsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels of project %d: %w", projectID, err)
	}

	ids := make(map[string]uint, len(labels))
	for _, label := range labels {
		ids[label.Text] = label.ID
	}
	return &LabelResolver{ids: ids}, nil
}

// Resolve returns the id of the named label. ok is false when the project
// has no label with that name.
func (r *LabelResolver) Resolve(name string) (id uint, ok bool) {
	id, ok = r.ids[name]
	return id, ok
}

func (r *LabelResolver) Len() int {
	return len(r.ids)
}
