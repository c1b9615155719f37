// Package tags extracts song metadata from audio files.
package tags

import (
	"log"
	"os"
	"strconv"

	"github.com/dhowden/tag"

	"github.com/wayfarer-player/wayfarer/backend/library"
)

// ReadTags builds a Song from the file's metadata tags. It never fails
// the caller: when the file cannot be opened or carries no readable
// tags, the returned Song has empty metadata fields and the original
// path, so a broken file still appears in the library and stays
// playable.
func ReadTags(path string) library.Song {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("error reading tags from %s: %v", path, err)
		return library.Song{Path: path}
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		log.Printf("error reading tags from %s: %v", path, err)
		return library.Song{Path: path}
	}

	song := library.Song{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Genre:  m.Genre(),
		Path:   path,
	}
	if trackNo, _ := m.Track(); trackNo > 0 {
		song.TrackNo = strconv.Itoa(trackNo)
	}
	if discNo, _ := m.Disc(); discNo > 0 {
		song.DiscNo = strconv.Itoa(discNo)
	}
	if year := m.Year(); year > 0 {
		song.Date = strconv.Itoa(year)
	}
	return song
}
