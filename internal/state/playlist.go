package state

import (
	"database/sql"
	"time"

	"github.com/llehouerou/waveform/internal/playlist"
)

func getPlaylist(db *sql.DB) ([]playlist.Track, error) {
	rows, err := db.Query(`
		SELECT track_id, url, title, artist, album, duration_ms, artwork, genre, favorite
		FROM playlist_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []playlist.Track
	for rows.Next() {
		var t playlist.Track
		var artist, album, artwork, genre sql.NullString
		var durationMs int64

		err := rows.Scan(&t.ID, &t.URL, &t.Title, &artist, &album, &durationMs, &artwork, &genre, &t.Favorite)
		if err != nil {
			return nil, err
		}

		t.Artist = artist.String
		t.Album = album.String
		t.Artwork = artwork.String
		t.Genre = genre.String
		t.Duration = time.Duration(durationMs) * time.Millisecond
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func savePlaylist(sqlDB *sql.DB, tracks []playlist.Track) error {
	return withTx(sqlDB, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM playlist_tracks`); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO playlist_tracks (position, track_id, url, title, artist, album, duration_ms, artwork, genre, favorite)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range tracks {
			_, err = stmt.Exec(i, t.ID, t.URL, t.Title, t.Artist, t.Album,
				t.Duration.Milliseconds(), t.Artwork, t.Genre, t.Favorite)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
