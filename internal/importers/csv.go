package importers

import (
	"encoding/csv"
	"errors"
	"io"
	"slices"
	"unicode/utf8"
)

const textKey = "text"

type csvParser struct{}

// Parse reads the first row as a candidate header. A header containing a
// "text" column selects that column as the document text; a single-column
// first row is treated as data. Other headers are rejected.
func (csvParser) Parse(r io.Reader) (Records, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return noRecords, nil
	}
	if err != nil {
		return nil, &ImportFormatError{Format: FormatCSV, Line: 1, Message: "CSV header could not be read", Err: err}
	}

	textCol := slices.Index(header, textKey)
	var firstRow []string
	switch {
	case textCol >= 0:
	case len(header) == 1:
		textCol = 0
		firstRow = header
	default:
		return nil, &ImportFormatError{
			Format:  FormatCSV,
			Line:    1,
			Message: `CSV file must have either a "text" column or exactly one column`,
		}
	}

	columns := csvColumns(header, textCol, firstRow != nil)

	return func(yield func(ImportRecord, error) bool) {
		if firstRow != nil {
			rec, err := csvRecord(firstRow, textCol, columns, 1)
			if !yield(rec, err) || err != nil {
				return
			}
		}

		for {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(ImportRecord{}, &ImportFormatError{Format: FormatCSV, Line: errorLine(err), Message: "CSV row could not be parsed", Err: err})
				return
			}
			line, _ := reader.FieldPos(0)

			rec, err := csvRecord(row, textCol, columns, line)
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}, nil
}

type csvColumn struct {
	index int
	name  string
}

// csvColumns lists the non-text header columns by position. A header that
// is really a data row contributes no column names.
func csvColumns(header []string, textCol int, headerIsData bool) []csvColumn {
	if headerIsData {
		return nil
	}
	columns := make([]csvColumn, 0, len(header))
	for i, name := range header {
		if i == textCol {
			continue
		}
		columns = append(columns, csvColumn{index: i, name: name})
	}
	return columns
}

func csvRecord(row []string, textCol int, columns []csvColumn, line int) (ImportRecord, error) {
	text := cell(row, textCol)
	if text == "" {
		return ImportRecord{}, &ImportFormatError{Format: FormatCSV, Line: line, Message: "CSV row has an empty text field", Err: ErrEmptyText}
	}
	if !utf8.ValidString(text) {
		return ImportRecord{}, &ImportFormatError{Format: FormatCSV, Line: line, Message: "CSV file must be UTF-8 encoded"}
	}

	fields := make(map[string]any, len(columns))
	for _, col := range columns {
		fields[col.name] = cell(row, col.index)
	}
	return ImportRecord{Text: text, RawFields: fields}, nil
}

func errorLine(err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.StartLine
	}
	return 0
}

// cell returns row[i], or an empty string for rows shorter than the header.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

var _ Parser = csvParser{}
