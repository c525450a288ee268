package importers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     Format
	}{
		{"csv", "dataset.csv", FormatCSV},
		{"upper case suffix", "DATASET.CSV", FormatCSV},
		{"json", "export.json", FormatJSON},
		{"jsonl alias", "export.jsonl", FormatJSON},
		{"xlsx", "sheet.xlsx", FormatXLSX},
		{"txt", "article.txt", FormatText},
		{"final suffix wins", "archive.csv.txt", FormatText},
		{"path", "/tmp/uploads/data.csv", FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.fileName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	for _, name := range []string{"report.pdf", "noextension", "data.xls", "trailingdot."} {
		t.Run(name, func(t *testing.T) {
			_, err := DetectFormat(name)

			var unsupported *UnsupportedFormatError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, name, unsupported.FileName)
			assert.True(t, IsUserFacing(err))
		})
	}
}

func TestParseFormat(t *testing.T) {
	got, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, got)

	got, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)

	_, err = ParseFormat("yaml")
	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestParserFor(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatJSON, FormatXLSX, FormatText} {
		parser, err := ParserFor(format)
		require.NoError(t, err)
		assert.NotNil(t, parser)
	}

	_, err := ParserFor("pdf")
	assert.Error(t, err)
}
