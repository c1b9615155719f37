package backend

import (
	"testing"

	"github.com/wayfarer-player/wayfarer/backend/library"
)

func Test_OpenPlaylist(t *testing.T) {
	pm, _ := newTestManager(t)
	f := &fakePlayer{volume: 100}
	d := NewDispatcher()
	t.Cleanup(d.Stop)
	a := &App{
		Config:          DefaultConfig("v0.1.0"),
		PlaylistManager: pm,
		Dispatcher:      d,
		PlaybackEngine:  NewPlaybackEngine(f, d),
		LocalPlayer:     f,
	}

	p, err := pm.CreatePlaylist("Evening")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "A", Path: "/m/a.mp3"})
	pm.AddSongToPlaylist(p.ID, library.Song{Title: "B", Path: "/m/b.mp3"})

	if a.OpenPlaylist("no-such-id") {
		t.Error("opening an unknown playlist returned true")
	}
	if a.Config.Application.LastPlaylistID != "" {
		t.Error("unknown playlist recorded as last opened")
	}

	if !a.OpenPlaylist(p.ID) {
		t.Fatal("opening an existing playlist returned false")
	}
	flush(d)

	if a.Config.Application.LastPlaylistID != p.ID {
		t.Errorf("last opened playlist = %q, want %q", a.Config.Application.LastPlaylistID, p.ID)
	}
	var queue []library.Song
	d.Submit(func() {
		queue = a.PlaybackEngine.Queue()
	})
	flush(d)
	if len(queue) != 2 || queue[0].Path != "/m/a.mp3" || queue[1].Path != "/m/b.mp3" {
		t.Errorf("queue after open: %v", queue)
	}
	// opening is not playing
	if len(f.playedPaths) != 0 {
		t.Errorf("opening a playlist started playback: %v", f.playedPaths)
	}
}
