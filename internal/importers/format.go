package importers

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported import file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatText Format = "txt"
)

// formatsBySuffix maps lower-cased file suffixes to formats. jsonl is the
// conventional suffix for JSON-lines files and shares the JSON parser.
var formatsBySuffix = map[string]Format{
	"csv":   FormatCSV,
	"json":  FormatJSON,
	"jsonl": FormatJSON,
	"xlsx":  FormatXLSX,
	"txt":   FormatText,
}

// SupportedSuffixes lists the file suffixes DetectFormat accepts.
var SupportedSuffixes = []string{"csv", "json", "jsonl", "xlsx", "txt"}

// DetectFormat picks the format from the final dot-separated suffix of the
// file name. Only the name is inspected, never the file contents.
func DetectFormat(fileName string) (Format, error) {
	suffix := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if format, ok := formatsBySuffix[suffix]; ok {
		return format, nil
	}
	return "", &UnsupportedFormatError{FileName: fileName, Suffix: suffix}
}

// ParseFormat resolves an explicitly requested format name, as sent by the
// upload form's format field.
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if format, ok := formatsBySuffix[key]; ok {
		return format, nil
	}
	return "", &UnsupportedFormatError{Suffix: key}
}

// Extension returns the file suffix used when writing this format.
func (f Format) Extension() string {
	return string(f)
}
