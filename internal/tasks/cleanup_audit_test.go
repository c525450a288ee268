package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCleaner struct {
	mu        sync.Mutex
	retention []time.Duration
	deleted   int64
	err       error
	done      chan struct{}
}

func (m *mockCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	m.mu.Lock()
	m.retention = append(m.retention, retention)
	m.mu.Unlock()
	if m.done != nil {
		close(m.done)
	}
	return m.deleted, m.err
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{}.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &mockCleaner{deleted: 4}
	process := CleanupAuditEventsProcessor(cleaner)

	require.NoError(t, process(context.Background(), CleanupAuditEventsTask{RetentionDays: 7}))
	require.NoError(t, process(context.Background(), CleanupAuditEventsTask{}))

	assert.Equal(t, []time.Duration{7 * 24 * time.Hour, 30 * 24 * time.Hour}, cleaner.retention)
}

func TestCleanupAuditEventsProcessor_Errors(t *testing.T) {
	process := CleanupAuditEventsProcessor(&mockCleaner{err: errors.New("database is locked")})
	assert.EqualError(t, process(context.Background(), CleanupAuditEventsTask{}), "database is locked")

	process = CleanupAuditEventsProcessor(nil)
	assert.Error(t, process(context.Background(), CleanupAuditEventsTask{}))
}

func TestEnqueueAuditCleanup_RunsOnWorker(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	cleaner := &mockCleaner{done: make(chan struct{})}
	client.Register(NewCleanupAuditEventsQueue(cleaner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.EnqueueAuditCleanup(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-cleaner.done:
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task was not executed within timeout")
	}

	cleaner.mu.Lock()
	defer cleaner.mu.Unlock()
	assert.Equal(t, []time.Duration{10 * 24 * time.Hour}, cleaner.retention)
}
