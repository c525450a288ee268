package importers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	entitiesKey = "entities"
	metaKey     = "meta"

	maxJSONLineBytes = 16 << 20
)

type jsonLinesParser struct{}

// Parse reads one JSON object per non-blank line. The first malformed line
// ends the sequence with an ImportFormatError.
func (jsonLinesParser) Parse(r io.Reader) (Records, error) {
	scanner := bufio.NewScanner(skipBOM(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLineBytes)

	return func(yield func(ImportRecord, error) bool) {
		line := 0
		for scanner.Scan() {
			line++
			raw := bytes.TrimSpace(scanner.Bytes())
			if len(raw) == 0 {
				continue
			}

			rec, err := decodeJSONLine(raw)
			if err != nil {
				yield(ImportRecord{}, &ImportFormatError{Format: FormatJSON, Line: line, Message: err.Error(), Err: err})
				return
			}
			if !yield(rec, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				yield(ImportRecord{}, &ImportFormatError{Format: FormatJSON, Line: line + 1, Message: "JSON line is too long", Err: err})
				return
			}
			yield(ImportRecord{}, fmt.Errorf("failed to read JSON lines: %w", err))
		}
	}, nil
}

// decodeJSONLine turns one JSON object into a record. "text" is the document
// text, "entities" the annotation spans, and the fields of a "meta" object
// are merged into the raw fields so exported files import back with their
// metadata.
func decodeJSONLine(raw []byte) (ImportRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var entry map[string]any
	if err := dec.Decode(&entry); err != nil {
		return ImportRecord{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if entry == nil {
		return ImportRecord{}, errors.New("each line must be a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ImportRecord{}, errors.New("each line must hold exactly one JSON object")
	}

	value, present := entry[textKey]
	if !present {
		return ImportRecord{}, errors.New(`JSON object must have a "text" key`)
	}
	text, ok := value.(string)
	if !ok {
		return ImportRecord{}, fmt.Errorf(`"text" must be a string, got %T`, value)
	}
	if text == "" {
		return ImportRecord{}, ErrEmptyText
	}

	spans, err := parseSpans(entry[entitiesKey])
	if err != nil {
		return ImportRecord{}, fmt.Errorf("invalid entities: %w", err)
	}

	fields := make(map[string]any, len(entry))
	for k, v := range entry {
		switch k {
		case textKey, entitiesKey:
		case metaKey:
			if _, isObject := v.(map[string]any); !isObject {
				fields[k] = v
			}
		default:
			fields[k] = v
		}
	}
	if meta, ok := entry[metaKey].(map[string]any); ok {
		for k, v := range meta {
			if _, taken := fields[k]; !taken {
				fields[k] = v
			}
		}
	}

	return ImportRecord{Text: text, RawFields: fields, Spans: spans}, nil
}

var _ Parser = jsonLinesParser{}
