package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS player_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			volume REAL NOT NULL DEFAULT 0.7,
			muted INTEGER NOT NULL DEFAULT 0,
			shuffle INTEGER NOT NULL DEFAULT 0,
			repeat_mode TEXT NOT NULL DEFAULT 'off',
			rate REAL NOT NULL DEFAULT 1,
			track_id TEXT,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS playlist_tracks (
			position INTEGER PRIMARY KEY,
			track_id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			artwork TEXT,
			genre TEXT,
			favorite INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
