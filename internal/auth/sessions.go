package auth

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/annotator/internal/config"
)

const sessionKeyNotices = "notices"

// NoticeLevel classifies a flash notice for rendering.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a one-shot message shown on the next page the client loads.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func init() {
	gob.Register([]Notice{})
}

// SessionManager wraps scs.SessionManager with flash notice helpers.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a session manager backed by the application
// database. The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.SessionLifetime

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode // Survive the redirect after an upload
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// AddNotice queues a notice for the next page view.
func (sm *SessionManager) AddNotice(ctx context.Context, level NoticeLevel, message string) {
	notices, _ := sm.Get(ctx, sessionKeyNotices).([]Notice)
	sm.Put(ctx, sessionKeyNotices, append(notices, Notice{Level: level, Message: message}))
}

// PopNotices returns and clears the queued notices.
func (sm *SessionManager) PopNotices(ctx context.Context) []Notice {
	notices, _ := sm.Pop(ctx, sessionKeyNotices).([]Notice)
	return notices
}
