package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/annotator/internal/auth"
	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/exporters"
	"github.com/mrlokans/annotator/internal/importers"
)

func setupDownloadClient(t *testing.T, exporter *mockExporter) *client {
	t.Helper()

	db := setupTestDatabase(t)
	router := NewRouter(RouterConfig{
		Projects:       newMockProjectStore(&entities.Project{ID: 4, Name: "My  Gold Set"}),
		Exporter:       exporter,
		SessionManager: setupSessions(t, db),
	})
	return newClient(t, router)
}

func TestDownload_CSV(t *testing.T) {
	exporter := &mockExporter{
		output: "id,text,start_offset,end_offset,label,user,metadata\n",
		stats:  exporters.ExportStats{Documents: 0},
	}
	cl := setupDownloadClient(t, exporter)

	rr := cl.get("/projects/4/download?format=csv")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="my_gold_set.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, exporter.output, rr.Body.String())
	assert.Equal(t, uint(4), exporter.projectID)
	assert.Equal(t, importers.FormatCSV, exporter.format)
}

func TestDownload_JSON(t *testing.T) {
	exporter := &mockExporter{output: `{"id":1,"text":"a","entities":[],"meta":{}}` + "\n"}
	cl := setupDownloadClient(t, exporter)

	rr := cl.get("/projects/4/download?format=json")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="my_gold_set.json"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, importers.FormatJSON, exporter.format)
}

func TestDownload_EmptyJSONStillSucceeds(t *testing.T) {
	exporter := &mockExporter{}
	cl := setupDownloadClient(t, exporter)

	rr := cl.get("/projects/4/download?format=json")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestDownload_UnknownFormatRedirectsWithNotice(t *testing.T) {
	exporter := &mockExporter{}
	cl := setupDownloadClient(t, exporter)

	rr := cl.get("/projects/4/download?format=xml")

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/projects/4/download", rr.Header().Get("Location"))
	assert.Empty(t, exporter.format)

	assert.Equal(t, []auth.Notice{
		{Level: auth.NoticeError, Message: "Unsupported export format. Choose csv or json."},
	}, cl.notices("/projects/4/download"))
}

func TestDownload_ErrorBeforeOutput(t *testing.T) {
	exporter := &mockExporter{err: errors.New("no such table: documents")}
	cl := setupDownloadClient(t, exporter)

	rr := cl.get("/projects/4/download?format=csv")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Disposition"))
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.NotContains(t, rr.Body.String(), "no such table")
}

func TestDownload_UnknownProject(t *testing.T) {
	cl := setupDownloadClient(t, &mockExporter{})

	rr := cl.get("/projects/404/download?format=csv")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
