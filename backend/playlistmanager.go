package backend

import (
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-player/wayfarer/backend/library"
	"github.com/wayfarer-player/wayfarer/backend/localdb"
)

var ErrInvalidPlaylistName = errors.New("playlist name cannot be empty")

// PlaylistManager owns the authoritative in-memory index of all
// playlists and writes every mutation through to the database before
// making it visible in the index. After the initial load the database
// is never read again for the life of the process.
//
// Unknown playlist ids and out-of-range indexes are expected outcomes
// of racy UI state and are reported as a false return, not an error.
// A returned error always means the store write failed and the index
// was left unchanged, so the operation can be retried as a whole.
type PlaylistManager struct {
	db        *localdb.DB
	playlists map[string]*library.Playlist
	now       func() time.Time // swappable for tests
}

// NewPlaylistManager populates the index from the database.
func NewPlaylistManager(db *localdb.DB) (*PlaylistManager, error) {
	pm := &PlaylistManager{
		db:        db,
		playlists: make(map[string]*library.Playlist),
		now:       time.Now,
	}
	all, err := db.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		pm.playlists[p.ID] = p
	}
	return pm, nil
}

// CreatePlaylist creates, persists, and indexes a new empty playlist.
func (pm *PlaylistManager) CreatePlaylist(name string) (*library.Playlist, error) {
	if !library.ValidName(name) {
		return nil, ErrInvalidPlaylistName
	}
	now := pm.now()
	p := &library.Playlist{
		ID:           uuid.NewString(),
		Name:         name,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := pm.db.InsertPlaylist(p); err != nil {
		return nil, err
	}
	pm.playlists[p.ID] = p
	return p, nil
}

// DeletePlaylist removes the playlist from the store, then the index,
// in that order: a failure in between leaves the index a superset of
// the store, never the reverse.
func (pm *PlaylistManager) DeletePlaylist(id string) (bool, error) {
	if _, ok := pm.playlists[id]; !ok {
		return false, nil
	}
	if err := pm.db.DeletePlaylist(id); err != nil {
		return false, err
	}
	delete(pm.playlists, id)
	return true, nil
}

// RenamePlaylist gives the playlist a new name. Returns false for an
// unknown id or an invalid name.
func (pm *PlaylistManager) RenamePlaylist(id, newName string) (bool, error) {
	p, ok := pm.playlists[id]
	if !ok || !library.ValidName(newName) {
		return false, nil
	}
	now := pm.now()
	if err := pm.db.RenamePlaylist(id, newName, now); err != nil {
		return false, err
	}
	p.Rename(newName, now)
	return true, nil
}

// AddSongToPlaylist appends song to the playlist. Adding a path the
// playlist already contains is a no-op returning false; this is normal
// steady-state usage, not an error.
func (pm *PlaylistManager) AddSongToPlaylist(id string, song library.Song) (bool, error) {
	p, ok := pm.playlists[id]
	if !ok {
		return false, nil
	}
	if p.IndexOfPath(song.Path) >= 0 {
		return false, nil
	}
	now := pm.now()
	if err := pm.db.InsertMembership(id, song); err != nil {
		return false, err
	}
	p.AddSong(song, now)
	pm.touchModified(id, now)
	return true, nil
}

// RemoveSongFromPlaylist removes the song with the given path.
func (pm *PlaylistManager) RemoveSongFromPlaylist(id, path string) (bool, error) {
	p, ok := pm.playlists[id]
	if !ok || p.IndexOfPath(path) < 0 {
		return false, nil
	}
	now := pm.now()
	if err := pm.db.DeleteMembership(id, path); err != nil {
		return false, err
	}
	p.RemoveSong(path, now)
	pm.touchModified(id, now)
	return true, nil
}

// RemoveSongFromPlaylistAt removes the song at the given index. The
// index is resolved to its path so both removal entry points mutate
// the store and the index identically.
func (pm *PlaylistManager) RemoveSongFromPlaylistAt(id string, index int) (bool, error) {
	p, ok := pm.playlists[id]
	if !ok || index < 0 || index >= p.SongCount() {
		return false, nil
	}
	return pm.RemoveSongFromPlaylist(id, p.Songs[index].Path)
}

// ClearPlaylist removes all songs from the playlist.
func (pm *PlaylistManager) ClearPlaylist(id string) (bool, error) {
	p, ok := pm.playlists[id]
	if !ok {
		return false, nil
	}
	now := pm.now()
	if err := pm.db.DeleteAllMemberships(id); err != nil {
		return false, err
	}
	p.Clear(now)
	pm.touchModified(id, now)
	return true, nil
}

// GetAllPlaylists returns the playlists most recently modified first.
// This ordering is part of the UI contract. Ties are broken by name,
// then id, so the order is deterministic.
func (pm *PlaylistManager) GetAllPlaylists() []*library.Playlist {
	all := make([]*library.Playlist, 0, len(pm.playlists))
	for _, p := range pm.playlists {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].ModifiedDate.Equal(all[j].ModifiedDate) {
			return all[i].ModifiedDate.After(all[j].ModifiedDate)
		}
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return all
}

// GetPlaylistByID returns the indexed playlist, or nil for an unknown
// id. Never touches the store.
func (pm *PlaylistManager) GetPlaylistByID(id string) *library.Playlist {
	return pm.playlists[id]
}

// touchModified is best-effort: the membership write preceding it is
// the operation's success criterion, and a stale modified timestamp in
// the store is reconciled on the next successful touch.
func (pm *PlaylistManager) touchModified(id string, now time.Time) {
	if err := pm.db.TouchModified(id, now); err != nil {
		log.Printf("failed to update modified time for playlist %s: %v", id, err)
	}
}
