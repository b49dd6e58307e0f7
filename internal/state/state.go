// Package state persists player preferences and the playlist in SQLite.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/waveform/internal/errmsg"
	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/playlist"
)

const (
	appName      = "waveform"
	dbFileName   = "waveform.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db  *sql.DB
	log *zap.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *playback.Prefs
	debounce  time.Duration
	closed    bool
	saving    sync.WaitGroup // scheduled or running debounced saves
}

// Open opens the database under the XDG data directory.
func Open(log *zap.Logger) (*Manager, error) {
	dbPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath, log)
}

// OpenPath opens or creates the database at path. ":memory:" is accepted.
func OpenPath(path string, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Manager{db: db, log: log, debounce: saveDebounce}, nil
}

// DefaultPath returns $XDG_DATA_HOME/waveform/waveform.db.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Close writes pending preferences and closes the database. A debounced
// save already running finishes first.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.closed {
		m.saveMu.Unlock()
		return nil
	}
	m.closed = true
	m.stopTimerLocked()
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	m.saving.Wait()

	// Flush pending state
	if pending != nil {
		m.save(*pending)
	}

	return m.db.Close()
}

// stopTimerLocked cancels the scheduled save. A callback that already
// fired releases its own slot in m.saving.
func (m *Manager) stopTimerLocked() {
	if m.saveTimer != nil && m.saveTimer.Stop() {
		m.saving.Done()
	}
	m.saveTimer = nil
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// SavePreferences schedules a write. Calls within the debounce window
// collapse into one write of the latest value.
func (m *Manager) SavePreferences(p playback.Prefs) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	if m.closed {
		return
	}

	m.pending = &p
	m.stopTimerLocked()

	m.saving.Add(1)
	m.saveTimer = time.AfterFunc(m.debounce, func() {
		defer m.saving.Done()
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			m.save(*pending)
		}
	})
}

// Flush writes any pending preferences now.
func (m *Manager) Flush() error {
	m.saveMu.Lock()
	m.stopTimerLocked()
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending == nil {
		return nil
	}
	return savePreferences(m.db, *pending)
}

func (m *Manager) save(p playback.Prefs) {
	if err := savePreferences(m.db, p); err != nil {
		m.log.Warn(errmsg.Format(errmsg.OpStateSave, err), zap.Error(err))
	}
}

// LoadPreferences returns the saved preferences, or nil when none were saved.
func (m *Manager) LoadPreferences() (*playback.Prefs, error) {
	return getPreferences(m.db)
}

// LoadPlaylist returns the saved playlist in order.
func (m *Manager) LoadPlaylist() ([]playlist.Track, error) {
	return getPlaylist(m.db)
}

// SavePlaylist replaces the saved playlist.
func (m *Manager) SavePlaylist(tracks []playlist.Track) error {
	return savePlaylist(m.db, tracks)
}

// withTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
