package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/annotator/internal/entities"
)

func setupDatasetRouter(store *mockDatasetStore) *gin.Engine {
	controller := NewDatasetController(newMockProjectStore(&entities.Project{ID: 3, Name: "Reviews"}), store, nil, nil)

	router := gin.New()
	router.GET("/projects/:project_id/docs", controller.DatasetPage)
	router.POST("/projects/:project_id/docs/:doc_id/delete", controller.DeleteDocument)
	router.DELETE("/api/projects/:project_id/docs/:doc_id", controller.DeleteDocumentAPI)
	return router
}

func TestDatasetPage_Paginates(t *testing.T) {
	store := &mockDatasetStore{
		docs:  []entities.Document{{ID: 6, ProjectID: 3, Text: "sixth"}},
		total: 11,
	}
	router := setupDatasetRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/3/docs?page=2", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, DatasetPageSize, store.limit)
	assert.Equal(t, 5, store.offset)

	var body struct {
		Documents struct {
			Data       []entities.Document `json:"data"`
			Total      int64               `json:"total"`
			Page       int                 `json:"page"`
			TotalPages int                 `json:"total_pages"`
			HasMore    bool                `json:"has_more"`
		} `json:"documents"`
		Notices []any `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.Documents.Total)
	assert.Equal(t, 2, body.Documents.Page)
	assert.Equal(t, 3, body.Documents.TotalPages)
	assert.True(t, body.Documents.HasMore)
	require.Len(t, body.Documents.Data, 1)
	assert.Equal(t, "sixth", body.Documents.Data[0].Text)
	assert.NotNil(t, body.Notices)
}

func TestDatasetPage_LatestDocument(t *testing.T) {
	store := &mockDatasetStore{
		docs:   []entities.Document{{ID: 1, ProjectID: 3, Text: "first"}},
		total:  12,
		latest: &entities.Document{ID: 12, ProjectID: 3, Text: "newest"},
	}
	router := setupDatasetRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/3/docs", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Latest *entities.Document `json:"latest_document"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotNil(t, body.Latest)
	assert.Equal(t, uint(12), body.Latest.ID)
	assert.Equal(t, "newest", body.Latest.Text)
}

func TestDatasetPage_EmptyProjectHasNoLatestDocument(t *testing.T) {
	router := setupDatasetRouter(&mockDatasetStore{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/3/docs", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body, "latest_document")
	assert.Nil(t, body["latest_document"])
}

func TestDatasetPage_LatestDocumentError(t *testing.T) {
	router := setupDatasetRouter(&mockDatasetStore{latestErr: errors.New("disk I/O error")})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/3/docs", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestDatasetPage_InvalidPageFallsBackToFirst(t *testing.T) {
	store := &mockDatasetStore{}
	router := setupDatasetRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/3/docs?page=zero", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, store.offset)
}

func TestDatasetPage_StoreError(t *testing.T) {
	store := &mockDatasetStore{err: errors.New("database is locked")}
	router := setupDatasetRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/3/docs", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "locked")
}

func TestDeleteDocument_RedirectsToDataset(t *testing.T) {
	store := &mockDatasetStore{}
	router := setupDatasetRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/projects/3/docs/12/delete", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/projects/3/docs", rr.Header().Get("Location"))
	assert.Equal(t, []deleteCall{{projectID: 3, docID: 12}}, store.deleted)
}

func TestDeleteDocumentAPI(t *testing.T) {
	store := &mockDatasetStore{}
	router := setupDatasetRouter(store)

	for range 2 {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/projects/3/docs/12", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	}
	assert.Len(t, store.deleted, 2)
}

func TestDeleteDocument_InvalidIDs(t *testing.T) {
	store := &mockDatasetStore{}
	router := setupDatasetRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/projects/3/docs/abc/delete", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/projects/x/docs/1", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Empty(t, store.deleted)
}
