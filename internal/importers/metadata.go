package importers

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

var emptyMetadata = datatypes.JSON("{}")

// MetadataOutcome is the result of metadata extraction. When the fields
// cannot be serialized, Value is the empty object, Fallback is set and Err
// holds the cause. Extraction never fails the record.
type MetadataOutcome struct {
	Value    datatypes.JSON
	Fallback bool
	Err      error
}

// ExtractMetadata serializes a record's side fields. The text and entities
// keys are never part of the metadata.
func ExtractMetadata(raw map[string]any) MetadataOutcome {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == textKey || k == entitiesKey {
			continue
		}
		fields[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return MetadataOutcome{Value: emptyMetadata, Fallback: true, Err: err}
	}
	return MetadataOutcome{Value: datatypes.JSON(bytes.TrimRight(buf.Bytes(), "\n"))}
}
