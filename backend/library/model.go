// Package library defines the data model for the local music library:
// songs, playlists, and album groupings.
package library

import (
	"strings"
	"time"
)

// Song describes one audio file on disk. Path is the natural key: two
// Songs with the same Path refer to the same underlying track, and no
// collection in the app holds two songs with equal paths. Tag-derived
// fields are free-form strings and may be empty or non-numeric.
// Songs are immutable; they are replaced wholesale, never edited.
type Song struct {
	Title   string
	Artist  string
	Album   string
	TrackNo string
	Genre   string
	Date    string
	DiscNo  string
	Path    string
}

// Playlist is a user-named, ordered collection of songs with no
// duplicate paths. Insertion order is playback order. Mutations go
// through the methods below so ModifiedDate stays accurate.
type Playlist struct {
	ID           string
	Name         string
	CreatedDate  time.Time
	ModifiedDate time.Time
	Songs        []Song
}

// AddSong appends song to the playlist, unless a song with the same
// path is already present. Reports whether the playlist changed.
func (p *Playlist) AddSong(song Song, now time.Time) bool {
	if p.IndexOfPath(song.Path) >= 0 {
		return false
	}
	p.Songs = append(p.Songs, song)
	p.Touch(now)
	return true
}

// RemoveSong removes the song with the given path.
// Reports whether the playlist changed.
func (p *Playlist) RemoveSong(path string, now time.Time) bool {
	i := p.IndexOfPath(path)
	if i < 0 {
		return false
	}
	p.Songs = append(p.Songs[:i], p.Songs[i+1:]...)
	p.Touch(now)
	return true
}

// RemoveSongAt removes the song at index i.
// Reports whether the playlist changed.
func (p *Playlist) RemoveSongAt(i int, now time.Time) bool {
	if i < 0 || i >= len(p.Songs) {
		return false
	}
	p.Songs = append(p.Songs[:i], p.Songs[i+1:]...)
	p.Touch(now)
	return true
}

// Rename sets a new name for the playlist. The name must be valid per ValidName.
func (p *Playlist) Rename(name string, now time.Time) {
	p.Name = name
	p.Touch(now)
}

// Clear removes all songs from the playlist.
func (p *Playlist) Clear(now time.Time) {
	p.Songs = nil
	p.Touch(now)
}

// IndexOfPath returns the position of the song with the given path,
// or -1 if no song in the playlist has it.
func (p *Playlist) IndexOfPath(path string) int {
	for i, s := range p.Songs {
		if s.Path == path {
			return i
		}
	}
	return -1
}

func (p *Playlist) SongCount() int {
	return len(p.Songs)
}

// Touch advances ModifiedDate to now. The timestamp never moves
// backwards, even if now is earlier than the current value.
func (p *Playlist) Touch(now time.Time) {
	if now.After(p.ModifiedDate) {
		p.ModifiedDate = now
	}
}

// ValidName reports whether name is usable as a playlist name
// (non-empty after trimming whitespace).
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// AlbumGroup is one album's worth of songs from a library listing.
type AlbumGroup struct {
	AlbumName string
	Songs     []Song
}
