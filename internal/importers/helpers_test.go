package importers

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// collect drains a record sequence, returning the records seen before the
// first error and that error.
func collect(records Records) ([]ImportRecord, error) {
	var out []ImportRecord
	for rec, err := range records {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func mustParse(t *testing.T, format Format, r io.Reader) []ImportRecord {
	t.Helper()
	parser, err := ParserFor(format)
	require.NoError(t, err)
	records, err := parser.Parse(r)
	require.NoError(t, err)
	out, err := collect(records)
	require.NoError(t, err)
	return out
}

func texts(records []ImportRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Text)
	}
	return out
}
