package audit

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/annotator/internal/database/audit"
	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/importers"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: would open a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	return NewService(auditRepo.NewRepository(db)), db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		ProjectID: 1,
		EventType: entities.AuditEventImport,
		Action:    "test_import",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, svc.Log(event))

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "test_import", saved.Action)
}

func TestService_LogImport(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful import", func(t *testing.T) {
		svc.LogImport(1, 7, "news.csv", importers.Result{
			JobID: "job-1", Format: importers.FormatCSV, Documents: 5, Annotations: 12,
		}, nil)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("job_id = ?", "job-1").First(&event).Error)
		assert.Equal(t, "csv_import", event.Action)
		assert.Equal(t, uint(7), event.ProjectID)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "Imported 5 documents and 12 annotations from news.csv", event.Description)
		assert.Contains(t, event.Metadata, `"documents":5`)
	})

	t.Run("failed import", func(t *testing.T) {
		svc.LogImport(1, 7, "broken.json", importers.Result{JobID: "job-2", Format: importers.FormatJSON},
			errors.New(strings.Repeat("x", 600)))
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("job_id = ?", "job-2").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Len(t, event.ErrorMsg, 500)
		assert.True(t, strings.HasSuffix(event.ErrorMsg, "..."))
	})

	t.Run("format not detected", func(t *testing.T) {
		svc.LogImport(1, 7, "notes.pdf", importers.Result{JobID: "job-3"}, errors.New("unsupported"))
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("job_id = ?", "job-3").First(&event).Error)
		assert.Equal(t, "import", event.Action)
	})
}

func TestService_LogExportAndDelete(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogExport(1, 3, "json", 42, nil)
	svc.LogDelete(1, 3, 99, nil)
	svc.Wait()

	var export entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventExport).First(&export).Error)
	assert.Equal(t, "json_export", export.Action)
	assert.Equal(t, "Exported 42 documents as json", export.Description)

	var deletion entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventDelete).First(&deletion).Error)
	require.NotNil(t, deletion.EntityID)
	assert.Equal(t, uint(99), *deletion.EntityID)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	require.NoError(t, svc.Log(&entities.AuditEvent{Action: "old", CreatedAt: time.Now().Add(-72 * time.Hour)}))
	require.NoError(t, svc.Log(&entities.AuditEvent{Action: "new"}))

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := svc.GetEvents(0, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new", events[0].Action)
}
