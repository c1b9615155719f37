// Package localdb persists playlists and the tag scan cache in a
// single SQLite database file. It is written through by the in-memory
// caches on every mutation and read back only at process startup.
package localdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures
// the schema exists. Schema creation is idempotent. An error here means
// the storage layer is unavailable and is fatal to app startup.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer at a time; a single pooled connection
	// keeps concurrent store calls from observing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS Playlists (
			Id TEXT PRIMARY KEY,
			Name TEXT NOT NULL,
			CreatedDate TEXT NOT NULL,
			ModifiedDate TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS PlaylistSongs (
			PlaylistId TEXT NOT NULL,
			SongTitle TEXT,
			SongArtist TEXT,
			SongAlbum TEXT,
			SongTrackNo TEXT,
			SongGenre TEXT,
			SongDate TEXT,
			SongDiscNo TEXT,
			SongPath TEXT NOT NULL,
			PRIMARY KEY (PlaylistId, SongPath),
			FOREIGN KEY (PlaylistId) REFERENCES Playlists(Id)
		)`,
		`CREATE TABLE IF NOT EXISTS Songs (
			Path TEXT PRIMARY KEY,
			Title TEXT,
			Artist TEXT,
			Album TEXT,
			TrackNo TEXT,
			Date TEXT,
			Genre TEXT,
			DiscNo TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
