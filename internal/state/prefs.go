package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/waveform/internal/playback"
)

func getPreferences(db *sql.DB) (*playback.Prefs, error) {
	var p playback.Prefs
	var repeat string
	var trackID sql.NullString
	row := db.QueryRow(`
		SELECT volume, muted, shuffle, repeat_mode, rate, track_id
		FROM player_state WHERE id = 1
	`)
	err := row.Scan(&p.Volume, &p.Muted, &p.Shuffle, &repeat, &p.Rate, &trackID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Repeat, _ = playback.ParseRepeatMode(repeat)
	p.TrackID = trackID.String
	return &p, nil
}

func savePreferences(db *sql.DB, p playback.Prefs) error {
	var trackID any
	if p.TrackID != "" {
		trackID = p.TrackID
	}
	_, err := db.Exec(`
		INSERT INTO player_state (id, volume, muted, shuffle, repeat_mode, rate, track_id, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted,
			shuffle = excluded.shuffle,
			repeat_mode = excluded.repeat_mode,
			rate = excluded.rate,
			track_id = excluded.track_id,
			updated_at = excluded.updated_at
	`, p.Volume, p.Muted, p.Shuffle, p.Repeat.String(), p.Rate, trackID, time.Now().Unix())
	return err
}
