package importers

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type textParser struct{}

// Parse reads the whole stream into a single record without spans or
// metadata.
func (textParser) Parse(r io.Reader) (Records, error) {
	data, err := io.ReadAll(skipBOM(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, &ImportFormatError{Format: FormatText, Message: "Text file must be UTF-8 encoded"}
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, &ImportFormatError{Format: FormatText, Message: "Text file is empty", Err: ErrEmptyText}
	}

	return singleRecord(ImportRecord{Text: text, RawFields: map[string]any{}}), nil
}

var _ Parser = textParser{}
