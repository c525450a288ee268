package importers

import (
	"bufio"
	"io"
	"iter"
)

// Span is one annotation inside a record's text: character offsets
// [Start, End) and the label name as written in the source file.
type Span struct {
	Start int
	End   int
	Label string
}

// ImportRecord is one parsed unit of input. Text is never empty.
// RawFields holds every other column or key of the source row.
type ImportRecord struct {
	Text      string
	RawFields map[string]any
	Spans     []Span
}

// Records is a lazy, single-pass sequence of parsed records. A non-nil error
// ends the sequence.
type Records = iter.Seq2[ImportRecord, error]

// Parser turns a byte stream into records. Structural problems found before
// the first record (a missing text column, an unreadable workbook) are
// returned by Parse itself.
type Parser interface {
	Parse(r io.Reader) (Records, error)
}

// ParserFor returns the parser registered for the format.
func ParserFor(format Format) (Parser, error) {
	switch format {
	case FormatCSV:
		return csvParser{}, nil
	case FormatJSON:
		return jsonLinesParser{}, nil
	case FormatXLSX:
		return xlsxParser{}, nil
	case FormatText:
		return textParser{}, nil
	default:
		return nil, &UnsupportedFormatError{Suffix: string(format)}
	}
}

const utf8BOM = "\xEF\xBB\xBF"

// skipBOM drops a leading UTF-8 byte order mark, as written by Excel when
// saving CSV files.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if peek, err := br.Peek(len(utf8BOM)); err == nil && string(peek) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

func singleRecord(rec ImportRecord) Records {
	return func(yield func(ImportRecord, error) bool) {
		yield(rec, nil)
	}
}

func noRecords(func(ImportRecord, error) bool) {}
