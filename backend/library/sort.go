package library

import (
	"sort"
	"strconv"
	"strings"
)

// UnknownAlbum is the grouping key substituted for songs whose album
// tag is missing or blank.
const UnknownAlbum = "[Unknown Album]"

// SortSongs orders songs for display: songs whose TrackNo parses as an
// integer come first, ascending by that number, followed by everything
// else ascending by title. Both phases are stable, so songs that
// compare equal keep their original relative order.
func SortSongs(songs []Song) []Song {
	numbered := make([]Song, 0, len(songs))
	unnumbered := make([]Song, 0)
	for _, s := range songs {
		if _, err := strconv.Atoi(s.TrackNo); err == nil {
			numbered = append(numbered, s)
		} else {
			unnumbered = append(unnumbered, s)
		}
	}
	sort.SliceStable(numbered, func(i, j int) bool {
		a, _ := strconv.Atoi(numbered[i].TrackNo)
		b, _ := strconv.Atoi(numbered[j].TrackNo)
		return a < b
	})
	sort.SliceStable(unnumbered, func(i, j int) bool {
		return unnumbered[i].Title < unnumbered[j].Title
	})
	return append(numbered, unnumbered...)
}

// GroupByAlbum partitions songs into album groups, substituting
// UnknownAlbum for a missing album tag. Groups are ordered ascending
// by album name and each group is independently sorted with SortSongs.
func GroupByAlbum(songs []Song) []AlbumGroup {
	byAlbum := make(map[string][]Song)
	for _, s := range songs {
		name := s.Album
		if strings.TrimSpace(name) == "" {
			name = UnknownAlbum
		}
		byAlbum[name] = append(byAlbum[name], s)
	}

	names := make([]string, 0, len(byAlbum))
	for name := range byAlbum {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]AlbumGroup, len(names))
	for i, name := range names {
		groups[i] = AlbumGroup{AlbumName: name, Songs: SortSongs(byAlbum[name])}
	}
	return groups
}
