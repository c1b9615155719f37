package backend

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayfarer-player/wayfarer/backend/library"
	"github.com/wayfarer-player/wayfarer/backend/localdb"
)

// fakeClock returns strictly increasing times so modified-date ordering
// is deterministic in tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestManager(t *testing.T) (*PlaylistManager, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "library.db")
	return openTestManager(t, dbPath), dbPath
}

func openTestManager(t *testing.T, dbPath string) *PlaylistManager {
	t.Helper()
	db, err := localdb.Open(dbPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	pm, err := NewPlaylistManager(db)
	if err != nil {
		t.Fatalf("new playlist manager: %v", err)
	}
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	pm.now = clock.Now
	return pm
}

func Test_CreatePlaylist(t *testing.T) {
	pm, _ := newTestManager(t)

	p, err := pm.CreatePlaylist("Favorites")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Error("created playlist has no id")
	}
	if !p.ModifiedDate.Equal(p.CreatedDate) {
		t.Error("new playlist's modified date differs from created date")
	}
	if got := pm.GetPlaylistByID(p.ID); got != p {
		t.Error("created playlist not retrievable by id")
	}
}

func Test_CreatePlaylist_InvalidName(t *testing.T) {
	pm, _ := newTestManager(t)

	for _, name := range []string{"", "   "} {
		if _, err := pm.CreatePlaylist(name); !errors.Is(err, ErrInvalidPlaylistName) {
			t.Errorf("CreatePlaylist(%q) err = %v, want ErrInvalidPlaylistName", name, err)
		}
	}
	if n := len(pm.GetAllPlaylists()); n != 0 {
		t.Errorf("%d playlists created from invalid names", n)
	}
}

func Test_PlaylistsSurviveRestart(t *testing.T) {
	pm, dbPath := newTestManager(t)

	p, err := pm.CreatePlaylist("Road Trip")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	paths := []string{"/m/a.mp3", "/m/b.mp3", "/m/c.mp3"}
	for _, path := range paths {
		if ok, err := pm.AddSongToPlaylist(p.ID, library.Song{Title: path, Path: path}); err != nil || !ok {
			t.Fatalf("add %s: ok=%v err=%v", path, ok, err)
		}
	}

	// a fresh manager over the same file sees the same state
	pm2 := openTestManager(t, dbPath)
	got := pm2.GetPlaylistByID(p.ID)
	if got == nil {
		t.Fatal("playlist missing after reload")
	}
	if got.Name != "Road Trip" {
		t.Errorf("name = %q after reload", got.Name)
	}
	if got.SongCount() != len(paths) {
		t.Fatalf("song count = %d after reload", got.SongCount())
	}
	for i, path := range paths {
		if got.Songs[i].Path != path {
			t.Errorf("song %d: got %s, want %s", i, got.Songs[i].Path, path)
		}
	}
}

func Test_AddSongToPlaylist_Duplicate(t *testing.T) {
	pm, _ := newTestManager(t)

	p, _ := pm.CreatePlaylist("Test")
	song := library.Song{Title: "A", Path: "/m/a.mp3"}
	if ok, err := pm.AddSongToPlaylist(p.ID, song); err != nil || !ok {
		t.Fatalf("first add: ok=%v err=%v", ok, err)
	}
	modified := p.ModifiedDate

	ok, err := pm.AddSongToPlaylist(p.ID, song)
	if err != nil {
		t.Fatalf("duplicate add errored: %v", err)
	}
	if ok {
		t.Error("duplicate add returned true")
	}
	if p.SongCount() != 1 {
		t.Errorf("song count = %d after duplicate add", p.SongCount())
	}
	if !p.ModifiedDate.Equal(modified) {
		t.Error("duplicate add changed the modified date")
	}
}

func Test_AddSongToPlaylist_UnknownID(t *testing.T) {
	pm, _ := newTestManager(t)

	ok, err := pm.AddSongToPlaylist("no-such-id", library.Song{Path: "/m/a.mp3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("add to unknown playlist returned true")
	}
}

func Test_RemoveSongFromPlaylist(t *testing.T) {
	pm, dbPath := newTestManager(t)

	p, _ := pm.CreatePlaylist("Road Trip")
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "A", Path: "/m/a.mp3"})
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "B", Path: "/m/b.mp3"})

	ok, err := pm.RemoveSongFromPlaylist(p.ID, "/m/a.mp3")
	if err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	if p.SongCount() != 1 || p.Songs[0].Path != "/m/b.mp3" {
		t.Errorf("songs after remove: %v", p.Songs)
	}

	// removal of an absent path is a no-op
	if ok, _ := pm.RemoveSongFromPlaylist(p.ID, "/m/a.mp3"); ok {
		t.Error("removing absent song returned true")
	}

	// removal persisted
	pm2 := openTestManager(t, dbPath)
	if got := pm2.GetPlaylistByID(p.ID); got.SongCount() != 1 || got.Songs[0].Path != "/m/b.mp3" {
		t.Errorf("songs after reload: %v", got.Songs)
	}
}

func Test_RemoveSongFromPlaylistAt(t *testing.T) {
	pm, _ := newTestManager(t)

	p, _ := pm.CreatePlaylist("Test")
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "A", Path: "/a"})
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "B", Path: "/b"})

	for _, idx := range []int{-1, 2, 99} {
		if ok, _ := pm.RemoveSongFromPlaylistAt(p.ID, idx); ok {
			t.Errorf("out-of-range index %d returned true", idx)
		}
	}
	if ok, err := pm.RemoveSongFromPlaylistAt(p.ID, 0); err != nil || !ok {
		t.Fatalf("remove at 0: ok=%v err=%v", ok, err)
	}
	if p.SongCount() != 1 || p.Songs[0].Path != "/b" {
		t.Errorf("songs after remove at: %v", p.Songs)
	}
}

func Test_ClearPlaylist(t *testing.T) {
	pm, dbPath := newTestManager(t)

	p, _ := pm.CreatePlaylist("Test")
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "A", Path: "/a"})
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "B", Path: "/b"})

	if ok, err := pm.ClearPlaylist(p.ID); err != nil || !ok {
		t.Fatalf("clear: ok=%v err=%v", ok, err)
	}
	if p.SongCount() != 0 {
		t.Errorf("%d songs after clear", p.SongCount())
	}

	pm2 := openTestManager(t, dbPath)
	if got := pm2.GetPlaylistByID(p.ID); got == nil || got.SongCount() != 0 {
		t.Error("clear did not persist")
	}
}

func Test_DeletePlaylist(t *testing.T) {
	pm, dbPath := newTestManager(t)

	p, _ := pm.CreatePlaylist("Doomed")
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "A", Path: "/a"})

	if ok, _ := pm.DeletePlaylist("no-such-id"); ok {
		t.Error("deleting unknown playlist returned true")
	}
	ok, err := pm.DeletePlaylist(p.ID)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if pm.GetPlaylistByID(p.ID) != nil {
		t.Error("deleted playlist still indexed")
	}

	pm2 := openTestManager(t, dbPath)
	if pm2.GetPlaylistByID(p.ID) != nil {
		t.Error("deleted playlist came back after reload")
	}
}

func Test_RenamePlaylist(t *testing.T) {
	pm, dbPath := newTestManager(t)

	p, _ := pm.CreatePlaylist("Old Name")
	created := p.CreatedDate

	if ok, _ := pm.RenamePlaylist(p.ID, "  "); ok {
		t.Error("rename to blank returned true")
	}
	if ok, _ := pm.RenamePlaylist("no-such-id", "New"); ok {
		t.Error("rename of unknown id returned true")
	}

	ok, err := pm.RenamePlaylist(p.ID, "New Name")
	if err != nil || !ok {
		t.Fatalf("rename: ok=%v err=%v", ok, err)
	}
	if p.Name != "New Name" {
		t.Errorf("name = %q", p.Name)
	}
	if !p.CreatedDate.Equal(created) {
		t.Error("rename changed the created date")
	}
	if !p.ModifiedDate.After(created) {
		t.Error("rename did not advance the modified date")
	}

	pm2 := openTestManager(t, dbPath)
	if got := pm2.GetPlaylistByID(p.ID); got.Name != "New Name" {
		t.Errorf("name after reload = %q", got.Name)
	}
}

func Test_GetAllPlaylists_ModifiedDescending(t *testing.T) {
	pm, _ := newTestManager(t)

	a, _ := pm.CreatePlaylist("Alpha")
	b, _ := pm.CreatePlaylist("Beta")
	c, _ := pm.CreatePlaylist("Gamma")

	// touching Alpha moves it to the front
	pm.AddSongToPlaylist(a.ID, library.Song{Title: "X", Path: "/x"})

	all := pm.GetAllPlaylists()
	wantOrder := []string{a.ID, c.ID, b.ID}
	if len(all) != 3 {
		t.Fatalf("got %d playlists", len(all))
	}
	for i, want := range wantOrder {
		if all[i].ID != want {
			t.Errorf("position %d: got %s (%s)", i, all[i].Name, all[i].ID)
		}
	}
}

func Test_ModifiedTimeMonotonicity(t *testing.T) {
	pm, _ := newTestManager(t)

	p, _ := pm.CreatePlaylist("Test")
	last := p.ModifiedDate
	check := func(op string) {
		t.Helper()
		if p.ModifiedDate.Before(last) {
			t.Errorf("%s moved modified date backwards: %v -> %v", op, last, p.ModifiedDate)
		}
		last = p.ModifiedDate
	}

	pm.AddSongToPlaylist(p.ID, library.Song{Title: "A", Path: "/a"})
	check("add")
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "B", Path: "/b"})
	check("add")
	pm.RenamePlaylist(p.ID, "Renamed")
	check("rename")
	pm.RemoveSongFromPlaylist(p.ID, "/a")
	check("remove")
	pm.ClearPlaylist(p.ID)
	check("clear")
}

func Test_RoadTripScenario(t *testing.T) {
	pm, dbPath := newTestManager(t)

	p, err := pm.CreatePlaylist("Road Trip")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "Opener", Path: "/m/a.mp3"})
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "Closer", Path: "/m/b.mp3"})
	if ok, _ := pm.RemoveSongFromPlaylist(p.ID, "/m/a.mp3"); !ok {
		t.Fatal("remove failed")
	}

	pm2 := openTestManager(t, dbPath)
	got := pm2.GetPlaylistByID(p.ID)
	if got == nil || got.SongCount() != 1 || got.Songs[0].Path != "/m/b.mp3" {
		t.Fatalf("expected exactly one song /m/b.mp3, got %v", got)
	}
}
