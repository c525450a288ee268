package importers

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxParser struct{}

// Parse loads the first sheet of the workbook. The first non-empty row is
// the header and must contain a "text" column; an optional "entities"
// column holds JSON-encoded spans.
func (xlsxParser) Parse(r io.Reader) (Records, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ImportFormatError{Format: FormatXLSX, Message: "Excel file could not be opened", Err: err}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ImportFormatError{Format: FormatXLSX, Message: "Excel file has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ImportFormatError{Format: FormatXLSX, Message: "Excel sheet could not be read", Err: err}
	}

	headerIdx := slices.IndexFunc(rows, func(row []string) bool { return !blankRow(row) })
	if headerIdx < 0 {
		return noRecords, nil
	}

	header := make([]string, len(rows[headerIdx]))
	for i, name := range rows[headerIdx] {
		header[i] = strings.TrimSpace(name)
	}

	textCol := slices.Index(header, textKey)
	if textCol < 0 {
		return nil, &ImportFormatError{Format: FormatXLSX, Line: headerIdx + 1, Message: `Excel sheet must have a "text" column`}
	}
	entitiesCol := slices.Index(header, entitiesKey)

	var columns []csvColumn
	for i, name := range header {
		if i == textCol || i == entitiesCol || name == "" {
			continue
		}
		columns = append(columns, csvColumn{index: i, name: name})
	}

	data := rows[headerIdx+1:]
	firstLine := headerIdx + 2

	return func(yield func(ImportRecord, error) bool) {
		for i, row := range data {
			if blankRow(row) {
				continue
			}
			rec, err := xlsxRecord(row, textCol, entitiesCol, columns, firstLine+i)
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}, nil
}

func xlsxRecord(row []string, textCol, entitiesCol int, columns []csvColumn, line int) (ImportRecord, error) {
	text := cell(row, textCol)
	if text == "" {
		return ImportRecord{}, &ImportFormatError{Format: FormatXLSX, Line: line, Message: "Excel row has an empty text cell", Err: ErrEmptyText}
	}

	fields := make(map[string]any, len(columns))
	for _, col := range columns {
		fields[col.name] = cell(row, col.index)
	}

	var spans []Span
	if entitiesCol >= 0 {
		encoded := strings.TrimSpace(cell(row, entitiesCol))
		if encoded != "" {
			parsed, err := decodeSpanCell(encoded)
			if err != nil {
				return ImportRecord{}, &ImportFormatError{Format: FormatXLSX, Line: line, Message: "Excel entities cell is malformed: " + err.Error(), Err: err}
			}
			spans = parsed
		}
	}

	return ImportRecord{Text: text, RawFields: fields, Spans: spans}, nil
}

func decodeSpanCell(encoded string) ([]Span, error) {
	dec := json.NewDecoder(strings.NewReader(encoded))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return parseSpans(value)
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var _ Parser = xlsxParser{}
