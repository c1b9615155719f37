package localdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/wayfarer-player/wayfarer/backend/library"
)

// The Songs table caches tag-extracted metadata from library scans so a
// folder the user has browsed before can be listed without re-reading
// every file's tags.

// CacheSong stores the song's metadata, keyed by path. Songs with an
// empty path or title are not cacheable and are skipped. Reports
// whether a new row was written.
func (d *DB) CacheSong(s library.Song) (bool, error) {
	if s.Path == "" || s.Title == "" {
		return false, nil
	}
	res, err := d.db.Exec(
		`INSERT OR IGNORE INTO Songs (Path, Title, Artist, Album, TrackNo, Date, Genre, DiscNo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Path, s.Title, s.Artist, s.Album, s.TrackNo, s.Date, s.Genre, s.DiscNo)
	if err != nil {
		return false, fmt.Errorf("cache song: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CacheSongs stores each song in the list, skipping ones already
// cached or not cacheable.
func (d *DB) CacheSongs(songs []library.Song) error {
	for _, s := range songs {
		if _, err := d.CacheSong(s); err != nil {
			return err
		}
	}
	return nil
}

// CachedSongByTitle returns the first cached song with the given
// title, and whether one was found.
func (d *DB) CachedSongByTitle(title string) (library.Song, bool, error) {
	row := d.db.QueryRow(
		`SELECT Path, Title, Artist, Album, TrackNo, Date, Genre, DiscNo FROM Songs WHERE Title = ?`,
		title)
	s, err := scanCachedSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return library.Song{}, false, nil
	}
	if err != nil {
		return library.Song{}, false, fmt.Errorf("lookup cached song: %w", err)
	}
	return s, true, nil
}

// CachedSongsByAlbum returns all cached songs from the given album.
func (d *DB) CachedSongsByAlbum(album string) ([]library.Song, error) {
	rows, err := d.db.Query(
		`SELECT Path, Title, Artist, Album, TrackNo, Date, Genre, DiscNo FROM Songs WHERE Album = ?`,
		album)
	if err != nil {
		return nil, fmt.Errorf("lookup cached album: %w", err)
	}
	defer rows.Close()

	var songs []library.Song
	for rows.Next() {
		s, err := scanCachedSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCachedSong(row rowScanner) (library.Song, error) {
	var s library.Song
	err := row.Scan(&s.Path, &s.Title, &s.Artist, &s.Album, &s.TrackNo, &s.Date, &s.Genre, &s.DiscNo)
	return s, err
}
