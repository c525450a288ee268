package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/database/documents"
	"github.com/mrlokans/annotator/internal/database/projects"
	"github.com/mrlokans/annotator/internal/exporters"
	"github.com/mrlokans/annotator/internal/importers"
	"github.com/mrlokans/annotator/internal/utils"
)

// ExportCommand writes a project's dataset to a file or stdout.
type ExportCommand struct {
	ProjectID    uint
	Format       importers.Format
	OutputPath   string
	DatabasePath string

	Out io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	var projectID uint64
	var format string
	fs.Uint64Var(&projectID, "project", 0, "ID of the project to export (required)")
	fs.StringVar(&format, "format", "", "Export format: csv or json (required)")
	fs.StringVar(&cmd.OutputPath, "output", "", "Output file; '-' writes to stdout (default: <project_name>.<format> in the current directory)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export -project <id> -format csv|json [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export a project's documents and annotations.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export -project 1 -format csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -project 1 -format json -output - | jq .\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if projectID == 0 {
		return fmt.Errorf("required flag -project not provided")
	}
	if format == "" {
		return fmt.Errorf("required flag -format not provided")
	}

	parsed, err := exporters.ParseFormat(format)
	if err != nil {
		return err
	}

	cmd.ProjectID = uint(projectID)
	cmd.Format = parsed
	return nil
}

func (cmd *ExportCommand) Run() error {
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

	exporter := exporters.NewExporter(documents.NewRepository(db.DB), config.DefaultImportBatchSize)

	if cmd.OutputPath == "-" {
		_, err := exporter.Export(ctx, project.ID, cmd.Format, output(cmd.Out))
		return err
	}

	path := cmd.OutputPath
	if path == "" {
		path = utils.ExportFilename(project.Name, string(cmd.Format))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	stats, err := exporter.Export(ctx, project.ID, cmd.Format, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(output(cmd.Out), "Exported %d documents (%d rows) to %s\n", stats.Documents, stats.Rows, path)
	return nil
}
