// Package beepplayer implements the player.Player capability for
// local audio files using the beep speaker.
package beepplayer

import (
	"errors"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/wayfarer-player/wayfarer/backend/player"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// All playback is resampled to a single speaker rate so tracks with
// differing sample rates can share one speaker initialization.
const speakerSampleRate = beep.SampleRate(44100)

const positionPollInterval = 250 * time.Millisecond

// Player plays local audio files through the default audio device.
// Safe for concurrent use; event callbacks are invoked on internal
// goroutines.
type Player struct {
	player.CallbackImpl

	initOnce sync.Once
	initErr  error

	mu         sync.Mutex
	streamer   beep.StreamSeekCloser
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	volumePct  int
	playing    bool // a track is loaded and not stopped (may be paused)
	cancelPoll chan struct{}
}

func New() *Player {
	return &Player{volumePct: 100}
}

// Play begins playback of the file at path, replacing any current track.
func (p *Player) Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := decode(f, path)
	if err != nil {
		f.Close()
		return err
	}

	p.initOnce.Do(func() {
		p.initErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
	})
	if p.initErr != nil {
		streamer.Close()
		return p.initErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	p.streamer = streamer
	resampled := beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	p.ctrl = &beep.Ctrl{Streamer: resampled}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	p.applyVolumeLocked()
	p.playing = true

	// The callback fires only when the sequence plays to its natural
	// end; speaker.Clear (Stop, or Play replacing the track) discards
	// the sequence without running it. It is invoked on the speaker's
	// streaming goroutine, so the real work moves to a fresh goroutine.
	// The streamer capture guards against a stale callback firing after
	// another track has already been loaded.
	current := streamer
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		go func() {
			p.mu.Lock()
			if p.streamer != current {
				p.mu.Unlock()
				return
			}
			p.playing = false
			p.stopPollLocked()
			p.mu.Unlock()
			p.InvokeOnEndReached()
		}()
	})))

	p.startPollLocked()
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	p.stopPollLocked()
	if p.streamer == nil {
		return
	}
	speaker.Clear()
	if err := p.streamer.Close(); err != nil {
		log.Printf("error closing audio stream: %v", err)
	}
	p.streamer = nil
	p.ctrl = nil
	p.volume = nil
	p.playing = false
}

// SetVolume sets the playback volume (0-100).
func (p *Player) SetVolume(pct int) {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumePct = pct
	if p.volume != nil {
		speaker.Lock()
		p.applyVolumeLocked()
		speaker.Unlock()
	}
}

// applyVolumeLocked maps the percentage onto beep's exponential volume
// scale: 100% is unity gain, each halving drops one Base-2 step.
func (p *Player) applyVolumeLocked() {
	if p.volume == nil {
		return
	}
	if p.volumePct == 0 {
		p.volume.Silent = true
		return
	}
	p.volume.Silent = false
	p.volume.Volume = math.Log2(float64(p.volumePct) / 100)
}

func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumePct
}

// SetPosition seeks to the given normalized position in the current track.
func (p *Player) SetPosition(pos float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return
	}
	if pos < 0 {
		pos = 0
	} else if pos > 1 {
		pos = 1
	}
	speaker.Lock()
	n := int(pos * float64(p.streamer.Len()))
	if err := p.streamer.Seek(n); err != nil {
		log.Printf("seek failed: %v", err)
	}
	speaker.Unlock()
}

// Position returns the normalized playback position of the current
// track, or 0 when nothing is loaded.
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() float64 {
	if p.streamer == nil || p.streamer.Len() == 0 {
		return 0
	}
	speaker.Lock()
	pos := float64(p.streamer.Position()) / float64(p.streamer.Len())
	speaker.Unlock()
	return pos
}

// IsPlaying reports whether a track is loaded and actively advancing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && p.ctrl != nil && !p.ctrl.Paused
}

func (p *Player) startPollLocked() {
	stop := make(chan struct{})
	p.cancelPoll = stop
	go func() {
		tick := time.NewTicker(positionPollInterval)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				p.InvokeOnPositionChanged(p.Position())
			}
		}
	}()
}

func (p *Player) stopPollLocked() {
	if p.cancelPoll != nil {
		close(p.cancelPoll)
		p.cancelPoll = nil
	}
}

func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
}
