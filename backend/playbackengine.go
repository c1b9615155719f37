package backend

import (
	"log"
	"math"

	"github.com/wayfarer-player/wayfarer/backend/library"
	"github.com/wayfarer-player/wayfarer/backend/player"
	"github.com/wayfarer-player/wayfarer/sharedutil"
)

// positionEpsilon is the smallest normalized-position change that a
// SetPosition call may request while the player is advancing on its
// own. Smaller assignments are echoes of the player's own position
// updates (a progress slider feeding back) and are dropped.
const positionEpsilon = 0.01

// PlaybackEngine drives a Player over an active queue of songs,
// selecting next/previous tracks with wraparound and advancing the
// queue when the player reports the end of a track.
//
// The current selection is tracked by song path, not by slice index or
// object identity, so the queue can be swapped for a fresh load of the
// same tracks without losing the selection.
//
// All methods must be called on the owner goroutine (the Dispatcher's);
// the engine marshals player events there itself.
type PlaybackEngine struct {
	player     player.Player
	dispatcher *Dispatcher

	queue   []library.Song
	current *library.Song // nil when nothing is selected

	position float64 // latest player-reported normalized position

	// registered callbacks
	onSongChange      []func(*library.Song)
	onPositionChanged []func(float64)
}

func NewPlaybackEngine(p player.Player, d *Dispatcher) *PlaybackEngine {
	e := &PlaybackEngine{player: p, dispatcher: d}
	p.OnEndReached(func() {
		d.Submit(func() {
			e.Next()
		})
	})
	p.OnPositionChanged(func(pos float64) {
		d.Submit(func() {
			e.position = pos
			for _, cb := range e.onPositionChanged {
				cb(pos)
			}
		})
	})
	return e
}

// SetQueue replaces the active queue. The current selection survives
// iff a song with the same path is still present; otherwise it is
// cleared without starting, stopping, or advancing playback.
func (e *PlaybackEngine) SetQueue(songs []library.Song) {
	e.queue = make([]library.Song, len(songs))
	copy(e.queue, songs)
	if e.current != nil && sharedutil.IndexOfSongByPath(e.current.Path, e.queue) < 0 {
		e.current = nil
	}
}

// Queue returns a copy of the active queue.
func (e *PlaybackEngine) Queue() []library.Song {
	q := make([]library.Song, len(e.queue))
	copy(q, e.queue)
	return q
}

// SelectAt selects the song at index i in the queue and starts playing
// it. Selecting is the play action. Returns false if i is out of range.
func (e *PlaybackEngine) SelectAt(i int) bool {
	if i < 0 || i >= len(e.queue) {
		return false
	}
	e.setCurrent(e.queue[i])
	return true
}

// SelectByPath selects the queued song with the given path and starts
// playing it. Returns false if no queued song has that path.
func (e *PlaybackEngine) SelectByPath(path string) bool {
	i := sharedutil.IndexOfSongByPath(path, e.queue)
	if i < 0 {
		return false
	}
	e.setCurrent(e.queue[i])
	return true
}

// NowPlaying returns the currently selected song, or nil.
func (e *PlaybackEngine) NowPlaying() *library.Song {
	if e.current == nil {
		return nil
	}
	song := *e.current
	return &song
}

// Next advances to the song after the current one, wrapping from the
// tail back to the head. With no current selection (or a selection no
// longer in the queue) it starts at the head. No-op on an empty queue.
func (e *PlaybackEngine) Next() {
	if len(e.queue) == 0 {
		return
	}
	idx := -1
	if e.current != nil {
		idx = sharedutil.IndexOfSongByPath(e.current.Path, e.queue)
	}
	e.setCurrent(e.queue[(idx+1)%len(e.queue)])
}

// Previous selects the song before the current one, wrapping from the
// head to the tail. No-op when the queue is empty or nothing is
// selected.
func (e *PlaybackEngine) Previous() {
	if e.current == nil || len(e.queue) == 0 {
		return
	}
	idx := sharedutil.IndexOfSongByPath(e.current.Path, e.queue)
	if idx <= 0 {
		idx = len(e.queue)
	}
	e.setCurrent(e.queue[idx-1])
}

// PlayPause toggles between playing and paused.
func (e *PlaybackEngine) PlayPause() {
	if e.player.IsPlaying() {
		e.player.Pause()
	} else {
		e.player.Resume()
	}
}

// Stop halts playback and resets the reported position. The current
// selection is kept.
func (e *PlaybackEngine) Stop() {
	e.player.Stop()
	e.position = 0
}

// SetVolume sets the playback volume (clamped to 0-100).
func (e *PlaybackEngine) SetVolume(pct int) {
	e.player.SetVolume(clamp(pct, 0, 100))
}

func (e *PlaybackEngine) Volume() int {
	return e.player.Volume()
}

// SetPosition seeks within the current track. While the player is
// advancing on its own, assignments within positionEpsilon of the
// reported position are suppressed so a bound progress slider and the
// player's position events cannot oscillate.
func (e *PlaybackEngine) SetPosition(pos float64) {
	if e.player.IsPlaying() && math.Abs(e.position-pos) <= positionEpsilon {
		return
	}
	e.player.SetPosition(pos)
}

// Position returns the latest player-reported normalized position.
func (e *PlaybackEngine) Position() float64 {
	return e.position
}

// OnSongChange registers a callback invoked whenever the selection
// changes, including via Next/Previous and end-of-track advancement.
func (e *PlaybackEngine) OnSongChange(cb func(*library.Song)) {
	e.onSongChange = append(e.onSongChange, cb)
}

// OnPositionChanged registers a callback for player position updates,
// delivered on the owner goroutine.
func (e *PlaybackEngine) OnPositionChanged(cb func(float64)) {
	e.onPositionChanged = append(e.onPositionChanged, cb)
}

func (e *PlaybackEngine) setCurrent(s library.Song) {
	song := s
	e.current = &song
	if song.Path != "" {
		if err := e.player.Play(song.Path); err != nil {
			log.Printf("failed to play %s: %v", song.Path, err)
		}
	}
	for _, cb := range e.onSongChange {
		cb(e.NowPlaying())
	}
}

func clamp(i, min, max int) int {
	if i < min {
		i = min
	} else if i > max {
		i = max
	}
	return i
}
