package localdb

import (
	"testing"

	"github.com/wayfarer-player/wayfarer/backend/library"
)

func Test_CacheSong(t *testing.T) {
	db, _ := openTestDB(t)

	s := library.Song{Title: "Song A", Album: "Album X", Path: "/m/a.mp3"}
	wrote, err := db.CacheSong(s)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	if !wrote {
		t.Error("first cache write reported no row written")
	}

	// caching the same path again is a no-op
	wrote, err = db.CacheSong(s)
	if err != nil {
		t.Fatalf("re-cache: %v", err)
	}
	if wrote {
		t.Error("duplicate cache write reported a row written")
	}
}

func Test_CacheSongSkipsUncacheable(t *testing.T) {
	db, _ := openTestDB(t)

	for _, s := range []library.Song{
		{Title: "No Path"},
		{Path: "/m/untitled.mp3"},
	} {
		wrote, err := db.CacheSong(s)
		if err != nil {
			t.Fatalf("cache %v: %v", s, err)
		}
		if wrote {
			t.Errorf("uncacheable song %v was written", s)
		}
	}
}

func Test_CachedSongByTitle(t *testing.T) {
	db, _ := openTestDB(t)

	if err := db.CacheSongs([]library.Song{
		{Title: "Song A", Artist: "Artist", Path: "/m/a.mp3"},
		{Title: "Song B", Path: "/m/b.mp3"},
	}); err != nil {
		t.Fatalf("cache: %v", err)
	}

	s, ok, err := db.CachedSongByTitle("Song A")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ok || s.Path != "/m/a.mp3" || s.Artist != "Artist" {
		t.Errorf("got %v ok=%v", s, ok)
	}

	_, ok, err = db.CachedSongByTitle("Missing")
	if err != nil {
		t.Fatalf("missing lookup errored: %v", err)
	}
	if ok {
		t.Error("lookup of uncached title reported found")
	}
}

func Test_CachedSongsByAlbum(t *testing.T) {
	db, _ := openTestDB(t)

	if err := db.CacheSongs([]library.Song{
		{Title: "A1", Album: "Album X", Path: "/m/a1.mp3"},
		{Title: "A2", Album: "Album X", Path: "/m/a2.mp3"},
		{Title: "B1", Album: "Album Y", Path: "/m/b1.mp3"},
	}); err != nil {
		t.Fatalf("cache: %v", err)
	}

	songs, err := db.CachedSongsByAlbum("Album X")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(songs) != 2 {
		t.Errorf("got %d songs for Album X, want 2", len(songs))
	}
	songs, err = db.CachedSongsByAlbum("Album Z")
	if err != nil {
		t.Fatalf("empty lookup errored: %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("got %d songs for unknown album", len(songs))
	}
}
