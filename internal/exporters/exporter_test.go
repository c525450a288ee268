package exporters

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/importers"
)

type mockSource struct {
	docs      []entities.Document
	err       error
	batchSize int
}

func (m *mockSource) EachForExport(_ context.Context, _ uint, batchSize int, fn func(*entities.Document) error) error {
	m.batchSize = batchSize
	if m.err != nil {
		return m.err
	}
	for i := range m.docs {
		if err := fn(&m.docs[i]); err != nil {
			return err
		}
	}
	return nil
}

func sampleDocs() []entities.Document {
	per := entities.Label{ID: 1, Text: "PER"}
	loc := entities.Label{ID: 2, Text: "LOC"}
	admin := entities.User{ID: 1, Username: "admin"}

	return []entities.Document{
		{
			ID:       1,
			Text:     "Ada lives in London",
			Metadata: datatypes.JSON(`{"source":"wiki"}`),
			Annotations: []entities.SequenceAnnotation{
				{StartOffset: 0, EndOffset: 3, Label: per, User: admin},
				{StartOffset: 13, EndOffset: 19, Label: loc, User: admin},
			},
		},
		{
			ID:   2,
			Text: "東京 <b>&</b>",
		},
	}
}

func TestExporter_CSV(t *testing.T) {
	source := &mockSource{docs: sampleDocs()}
	var buf bytes.Buffer

	stats, err := NewExporter(source, 100).Export(context.Background(), 1, importers.FormatCSV, &buf)

	require.NoError(t, err)
	assert.Equal(t, ExportStats{Documents: 2, Rows: 3}, stats)
	assert.Equal(t, 100, source.batchSize)

	expected := "id,text,start_offset,end_offset,label,user,metadata\n" +
		"1,Ada lives in London,0,3,PER,admin,\"{\"\"source\"\":\"\"wiki\"\"}\"\n" +
		"1,Ada lives in London,13,19,LOC,admin,\"{\"\"source\"\":\"\"wiki\"\"}\"\n" +
		"2,東京 <b>&</b>,,,,,{}\n"
	assert.Equal(t, expected, buf.String())
}

func TestExporter_JSON(t *testing.T) {
	source := &mockSource{docs: sampleDocs()}
	var buf bytes.Buffer

	stats, err := NewExporter(source, 100).Export(context.Background(), 1, importers.FormatJSON, &buf)

	require.NoError(t, err)
	assert.Equal(t, ExportStats{Documents: 2, Rows: 2}, stats)

	expected := `{"id":1,"text":"Ada lives in London","entities":[[0,3,"PER"],[13,19,"LOC"]],"meta":{"source":"wiki"}}` + "\n" +
		`{"id":2,"text":"東京 <b>&</b>","entities":[],"meta":{}}` + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestExporter_EmptyProject(t *testing.T) {
	var csvBuf, jsonBuf bytes.Buffer
	exporter := NewExporter(&mockSource{}, 10)

	_, err := exporter.Export(context.Background(), 1, importers.FormatCSV, &csvBuf)
	require.NoError(t, err)
	assert.Equal(t, "id,text,start_offset,end_offset,label,user,metadata\n", csvBuf.String())

	_, err = exporter.Export(context.Background(), 1, importers.FormatJSON, &jsonBuf)
	require.NoError(t, err)
	assert.Empty(t, jsonBuf.String())
}

func TestExporter_SourceError(t *testing.T) {
	source := &mockSource{err: errors.New("no such table: documents")}

	_, err := NewExporter(source, 10).Export(context.Background(), 1, importers.FormatJSON, &bytes.Buffer{})

	assert.ErrorContains(t, err, "no such table")
}

func TestExporter_UnsupportedFormat(t *testing.T) {
	_, err := NewExporter(&mockSource{}, 10).Export(context.Background(), 1, importers.FormatXLSX, &bytes.Buffer{})

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, importers.FormatCSV, format)

	format, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, importers.FormatJSON, format)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseFormat("")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", ContentType(importers.FormatCSV))
	assert.Equal(t, "text/json", ContentType(importers.FormatJSON))
}
