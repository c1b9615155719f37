package localdb

import (
	"fmt"
	"time"

	"github.com/wayfarer-player/wayfarer/backend/library"
)

// Timestamps are stored as sortable RFC 3339 strings.
const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d *DB) InsertPlaylist(p *library.Playlist) error {
	_, err := d.db.Exec(
		`INSERT INTO Playlists (Id, Name, CreatedDate, ModifiedDate) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, formatTime(p.CreatedDate), formatTime(p.ModifiedDate))
	if err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

// DeletePlaylist removes the playlist row and all of its membership
// rows. Memberships go first: a crash in between leaves rows that
// LoadAll will never surface, rather than a visible playlist whose
// delete can no longer be retried.
func (d *DB) DeletePlaylist(id string) error {
	if _, err := d.db.Exec(`DELETE FROM PlaylistSongs WHERE PlaylistId = ?`, id); err != nil {
		return fmt.Errorf("delete playlist songs: %w", err)
	}
	if _, err := d.db.Exec(`DELETE FROM Playlists WHERE Id = ?`, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

func (d *DB) RenamePlaylist(id, name string, modified time.Time) error {
	_, err := d.db.Exec(
		`UPDATE Playlists SET Name = ?, ModifiedDate = ? WHERE Id = ?`,
		name, formatTime(modified), id)
	if err != nil {
		return fmt.Errorf("rename playlist: %w", err)
	}
	return nil
}

// TouchModified updates the playlist's modified timestamp.
func (d *DB) TouchModified(id string, modified time.Time) error {
	_, err := d.db.Exec(
		`UPDATE Playlists SET ModifiedDate = ? WHERE Id = ?`,
		formatTime(modified), id)
	if err != nil {
		return fmt.Errorf("touch playlist: %w", err)
	}
	return nil
}

// InsertMembership adds song to the playlist's membership. Inserting a
// path already present is a no-op, enforced in one statement by the
// (PlaylistId, SongPath) primary key.
func (d *DB) InsertMembership(playlistID string, s library.Song) error {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO PlaylistSongs
		 (PlaylistId, SongTitle, SongArtist, SongAlbum, SongTrackNo, SongGenre, SongDate, SongDiscNo, SongPath)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		playlistID, s.Title, s.Artist, s.Album, s.TrackNo, s.Genre, s.Date, s.DiscNo, s.Path)
	if err != nil {
		return fmt.Errorf("insert playlist song: %w", err)
	}
	return nil
}

func (d *DB) DeleteMembership(playlistID, path string) error {
	_, err := d.db.Exec(
		`DELETE FROM PlaylistSongs WHERE PlaylistId = ? AND SongPath = ?`,
		playlistID, path)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}
	return nil
}

func (d *DB) DeleteAllMemberships(playlistID string) error {
	_, err := d.db.Exec(`DELETE FROM PlaylistSongs WHERE PlaylistId = ?`, playlistID)
	if err != nil {
		return fmt.Errorf("clear playlist songs: %w", err)
	}
	return nil
}

// LoadAll returns every stored playlist with its songs in insertion
// order. Membership rows carry no explicit ordinal; rowid order is
// insertion order since rows are only ever appended or deleted.
func (d *DB) LoadAll() ([]*library.Playlist, error) {
	rows, err := d.db.Query(`SELECT Id, Name, CreatedDate, ModifiedDate FROM Playlists`)
	if err != nil {
		return nil, fmt.Errorf("load playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*library.Playlist
	for rows.Next() {
		var p library.Playlist
		var created, modified string
		if err := rows.Scan(&p.ID, &p.Name, &created, &modified); err != nil {
			return nil, err
		}
		p.CreatedDate = parseTime(created)
		p.ModifiedDate = parseTime(modified)
		playlists = append(playlists, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range playlists {
		songs, err := d.loadMemberships(p.ID)
		if err != nil {
			return nil, err
		}
		p.Songs = songs
	}
	return playlists, nil
}

func (d *DB) loadMemberships(playlistID string) ([]library.Song, error) {
	rows, err := d.db.Query(
		`SELECT SongTitle, SongArtist, SongAlbum, SongTrackNo, SongGenre, SongDate, SongDiscNo, SongPath
		 FROM PlaylistSongs WHERE PlaylistId = ? ORDER BY rowid`,
		playlistID)
	if err != nil {
		return nil, fmt.Errorf("load playlist songs: %w", err)
	}
	defer rows.Close()

	var songs []library.Song
	for rows.Next() {
		var s library.Song
		if err := rows.Scan(&s.Title, &s.Artist, &s.Album, &s.TrackNo, &s.Genre, &s.Date, &s.DiscNo, &s.Path); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}
