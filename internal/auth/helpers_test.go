package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/database"
	"github.com/mrlokans/annotator/internal/database/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupDatabase(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "auth.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupService(t *testing.T) (*Service, *database.Database) {
	t.Helper()

	db := setupDatabase(t)
	return NewService(users.NewRepository(db.DB)), db
}

func testAuthConfig(mode config.AuthMode) config.Auth {
	return config.Auth{
		Mode:            mode,
		SessionLifetime: time.Hour,
		SecureCookies:   false,
	}
}
