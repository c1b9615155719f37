// Package player defines the capability surface the playback engine
// drives, independent of any particular audio backend.
package player

// Player is an opaque audio playback capability. Positions are
// normalized to [0, 1] over the length of the current track.
//
// Callbacks registered through the event API may be invoked from the
// player's own goroutines; it is the subscriber's job to marshal them
// onto whatever context owns its state.
type Player interface {
	// Play begins playback of the audio file at path, replacing
	// whatever was playing before.
	Play(path string) error
	Pause()
	Resume()
	Stop()

	SetVolume(pct int)
	Volume() int

	SetPosition(pos float64)
	Position() float64

	IsPlaying() bool

	// Event API
	OnEndReached(func())
	OnPositionChanged(func(pos float64))
}

// CallbackImpl provides storage and invocation helpers for the Player
// event API, for embedding in concrete players.
type CallbackImpl struct {
	onEndReached      func()
	onPositionChanged func(float64)
}

// Registers a callback which is invoked when the current track plays
// to its natural end. Not invoked on Stop or when a new track
// replaces the current one.
func (c *CallbackImpl) OnEndReached(cb func()) {
	c.onEndReached = cb
}

// Registers a callback which is invoked periodically with the
// normalized playback position while a track is playing.
func (c *CallbackImpl) OnPositionChanged(cb func(float64)) {
	c.onPositionChanged = cb
}

func (c *CallbackImpl) InvokeOnEndReached() {
	if c.onEndReached != nil {
		c.onEndReached()
	}
}

func (c *CallbackImpl) InvokeOnPositionChanged(pos float64) {
	if c.onPositionChanged != nil {
		c.onPositionChanged(pos)
	}
}
