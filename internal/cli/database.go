package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/annotator/internal/database"
)

// openDatabase resolves path to an absolute path and opens the store with
// gorm logging silenced, so command output stays readable.
func openDatabase(path string) (*database.Database, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absPath, "silent")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
