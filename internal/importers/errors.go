package importers

import (
	"errors"
	"fmt"
	"strings"
)

// GenericFailureMessage is shown to users for every error that is not
// user-facing. The underlying error is logged instead.
const GenericFailureMessage = "Something went wrong"

// ErrEmptyText marks a record whose text field is empty.
var ErrEmptyText = errors.New("text must not be empty")

// UnsupportedFormatError is returned when a file suffix or an explicit format
// name does not match any parser.
type UnsupportedFormatError struct {
	FileName string
	Suffix   string
}

func (e *UnsupportedFormatError) Error() string {
	supported := strings.Join(SupportedSuffixes, ", ")
	if e.Suffix == "" {
		return fmt.Sprintf("Unsupported file format: the file has no extension. Supported formats: %s", supported)
	}
	return fmt.Sprintf("Unsupported file format %q. Supported formats: %s", e.Suffix, supported)
}

// ImportFormatError reports a structural problem with the contents of an
// uploaded file. The whole import is aborted.
type ImportFormatError struct {
	Format  Format
	Line    int // 1-based source line or sheet row, 0 when not applicable
	Message string
	Err     error
}

func (e *ImportFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
	}
	return e.Message
}

func (e *ImportFormatError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed bulk insert. Batches committed before the
// failing one stay committed.
type PersistenceError struct {
	Entity    string // "documents" or "annotations"
	Batch     int    // zero-based index of the failed batch
	Committed int    // entities committed by earlier batches of the same pass
	Err       error
}

func (e *PersistenceError) Error() string {
	entity := e.Entity
	if entity == "" {
		entity = "entity"
	}
	return fmt.Sprintf("failed to commit %s batch %d (%d already committed): %v", entity, e.Batch, e.Committed, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsUserFacing reports whether the error message may be shown verbatim.
func IsUserFacing(err error) bool {
	var unsupported *UnsupportedFormatError
	var malformed *ImportFormatError
	return errors.As(err, &unsupported) || errors.As(err, &malformed)
}

// UserMessage returns the notice to show for an import error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsUserFacing(err) {
		var unsupported *UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return unsupported.Error()
		}
		var malformed *ImportFormatError
		errors.As(err, &malformed)
		return malformed.Error()
	}
	return GenericFailureMessage
}
