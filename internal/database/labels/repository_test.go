package labels

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/annotator/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_labels_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Project{}, &entities.Label{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&entities.Project{ID: 1, Name: "one"}).Error)
	require.NoError(t, db.Create(&entities.Project{ID: 2, Name: "two"}).Error)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db), cleanup
}

func TestRepository_FindLabelsByProject(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Label{ProjectID: 1, Text: "PER"}))
	require.NoError(t, repo.Create(ctx, &entities.Label{ProjectID: 1, Text: "ORG"}))
	require.NoError(t, repo.Create(ctx, &entities.Label{ProjectID: 2, Text: "PER"}))

	labels, err := repo.FindLabelsByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "ORG", labels[0].Text)
	assert.Equal(t, "PER", labels[1].Text)

	none, err := repo.FindLabelsByProject(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_Create_UniquePerProject(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Label{ProjectID: 1, Text: "PER"}))
	assert.Error(t, repo.Create(ctx, &entities.Label{ProjectID: 1, Text: "PER"}))
	assert.NoError(t, repo.Create(ctx, &entities.Label{ProjectID: 2, Text: "PER"}))
}
