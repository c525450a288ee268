package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/audit"
	"github.com/mrlokans/annotator/internal/config"
	auditrepo "github.com/mrlokans/annotator/internal/database/audit"
	"github.com/mrlokans/annotator/internal/database/annotations"
	"github.com/mrlokans/annotator/internal/database/documents"
	"github.com/mrlokans/annotator/internal/database/labels"
	"github.com/mrlokans/annotator/internal/database/projects"
	"github.com/mrlokans/annotator/internal/importers"
)

// ImportCommand imports a dataset file into a project.
type ImportCommand struct {
	ProjectID    uint
	FilePath     string
	Format       string
	UserID       uint
	DatabasePath string
	BatchSize    int

	Out io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	var projectID, userID uint64
	fs.Uint64Var(&projectID, "project", 0, "ID of the project to import into (required)")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to the dataset file (required)")
	fs.StringVar(&cmd.Format, "format", "", "Input format: csv, json, xlsx or txt (detected from the file extension by default)")
	fs.Uint64Var(&userID, "user", 1, "ID of the user the annotations are attributed to")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.BatchSize, "batch-size", config.DefaultImportBatchSize, "Rows per bulk insert")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -project <id> -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import documents and annotations from a CSV, JSON-lines, XLSX or TXT file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -project 1 -file dataset.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -project 1 -file export.txt -format json\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if projectID == 0 {
		return fmt.Errorf("required flag -project not provided")
	}
	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if cmd.Format != "" {
		if _, err := importers.ParseFormat(cmd.Format); err != nil {
			return err
		}
	}
	if cmd.BatchSize <= 0 {
		return fmt.Errorf("-batch-size must be positive")
	}

	cmd.ProjectID = uint(projectID)
	cmd.UserID = uint(userID)
	return nil
}

func (cmd *ImportCommand) Run() error {
	out := output(cmd.Out)

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", cmd.FilePath)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	project, err := projects.NewRepository(db.DB).GetByID(ctx, cmd.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("project %d not found", cmd.ProjectID)
		}
		return err
	}

	var format importers.Format
	if cmd.Format != "" {
		format, _ = importers.ParseFormat(cmd.Format)
	}

	fmt.Fprintf(out, "Importing %s into project %q\n", filepath.Base(cmd.FilePath), project.Name)

	pipeline := importers.NewPipeline(
		documents.NewRepository(db.DB),
		annotations.NewRepository(db.DB),
		labels.NewRepository(db.DB),
		cmd.BatchSize,
	)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	result, err := pipeline.Run(ctx, importers.JobRequest{
		ProjectID: project.ID,
		UserID:    cmd.UserID,
		FileName:  filepath.Base(cmd.FilePath),
		Format:    format,
		Source:    file,
	})
	auditService.LogImport(cmd.UserID, project.ID, filepath.Base(cmd.FilePath), result, err)
	auditService.Wait()

	fmt.Fprintln(out, "\n=== Import Summary ===")
	fmt.Fprintf(out, "Format: %s\n", result.Format)
	fmt.Fprintf(out, "Documents: %d\n", result.Documents)
	fmt.Fprintf(out, "Annotations: %d\n", result.Annotations)
	if result.UnresolvedLabels > 0 {
		fmt.Fprintf(out, "Skipped spans with unknown labels: %d\n", result.UnresolvedLabels)
	}
	if result.InvalidSpans > 0 {
		fmt.Fprintf(out, "Skipped invalid spans: %d\n", result.InvalidSpans)
	}

	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintln(out, "\nImport complete!")
	return nil
}
