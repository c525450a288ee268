package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/database/labels"
	"github.com/mrlokans/annotator/internal/database/projects"
	"github.com/mrlokans/annotator/internal/entities"
)

// CreateProjectCommand creates a project with an optional label set.
type CreateProjectCommand struct {
	Name         string
	Description  string
	ProjectType  entities.ProjectType
	Labels       []string
	DatabasePath string

	Out io.Writer
}

func NewCreateProjectCommand() *CreateProjectCommand {
	return &CreateProjectCommand{}
}

func (cmd *CreateProjectCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-project", flag.ContinueOnError)

	var projectType, labelList string
	fs.StringVar(&cmd.Name, "name", "", "Project name (required)")
	fs.StringVar(&cmd.Description, "description", "", "Project description")
	fs.StringVar(&projectType, "type", string(entities.ProjectTypeSequenceLabeling), "Project type: sequence_labeling, document_classification or seq2seq")
	fs.StringVar(&labelList, "labels", "", "Comma-separated label names to create")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-project -name <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-project -name \"News NER\" -labels PER,LOC,ORG\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return fmt.Errorf("required flag -name not provided")
	}

	cmd.ProjectType = entities.ProjectType(projectType)
	switch cmd.ProjectType {
	case entities.ProjectTypeSequenceLabeling, entities.ProjectTypeDocumentClassifier, entities.ProjectTypeSeq2Seq:
	default:
		return fmt.Errorf("unknown project type %q", projectType)
	}

	for _, text := range strings.Split(labelList, ",") {
		if text = strings.TrimSpace(text); text != "" {
			cmd.Labels = append(cmd.Labels, text)
		}
	}
	return nil
}

func (cmd *CreateProjectCommand) Run() error {
	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	project := &entities.Project{
		Name:        cmd.Name,
		Description: cmd.Description,
		ProjectType: cmd.ProjectType,
	}
	if err := projects.NewRepository(db.DB).Create(ctx, project); err != nil {
		return err
	}

	out := output(cmd.Out)
	fmt.Fprintf(out, "Created project %q (id %d)\n", project.Name, project.ID)

	labelRepo := labels.NewRepository(db.DB)
	for _, text := range cmd.Labels {
		label := &entities.Label{ProjectID: project.ID, Text: text}
		if err := labelRepo.Create(ctx, label); err != nil {
			return fmt.Errorf("failed to create label %q: %w", text, err)
		}
		fmt.Fprintf(out, "  label %q (id %d)\n", label.Text, label.ID)
	}
	return nil
}
