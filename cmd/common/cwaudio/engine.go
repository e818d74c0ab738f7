package cwaudio

import (
	"log/slog"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/samber/lo"
)

// Engine is the single-instance scheduler context: it owns the logical
// clock, the shared output mixer, the playback lock, the background noise
// channel and the set of live tone sessions. Create exactly one per
// process.
type Engine struct {
	mu sync.Mutex

	clock *Clock
	lock  *PlaybackLock
	mixer beep.Mixer
	out   output
	noise *NoiseChannel

	sessions map[string]*ToneSession
}

// Option configures engine construction.
type Option func(*engineConfig)

type engineConfig struct {
	silent bool
	manual bool
}

// Silent skips the speaker and drives the clock from a wall-time pump.
// Scheduling, locking and fading all behave normally; no sound is
// produced.
func Silent() Option {
	return func(c *engineConfig) { c.silent = true }
}

// Manual skips both speaker and pump; the clock advances only through
// explicit Render calls. Used by tests.
func Manual() Option {
	return func(c *engineConfig) { c.manual = true }
}

// NewEngine constructs the engine and starts its output. Without options it
// opens the speaker; if no audio device is available it logs a warning and
// falls back to the silent pump so the trainer stays usable.
func NewEngine(opts ...Option) *Engine {
	var cfg engineConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		clock:    &Clock{},
		sessions: map[string]*ToneSession{},
	}
	e.lock = NewPlaybackLock(e.clock)
	e.noise = NewNoiseChannel(func(s beep.Streamer) {
		e.out.lock()
		e.mixer.Add(s)
		e.out.unlock()
	})

	switch {
	case cfg.manual:
		e.out = &manualOutput{}
	case cfg.silent:
		e.out = newPumpOutput()
	default:
		out, err := openSpeakerOutput()
		if err != nil {
			slog.Warn("audio output unavailable, running silent", "error", err)
			out = newPumpOutput()
		}
		e.out = out
	}
	e.out.start(e)
	return e
}

// Now returns the current logical time in seconds.
func (e *Engine) Now() float64 { return e.clock.Now() }

// Clock returns the shared clock, for components scheduling against it.
func (e *Engine) Clock() *Clock { return e.clock }

// UpdateLock extends the playback lock to t (monotonic).
func (e *Engine) UpdateLock(t float64) { e.lock.Update(t) }

// IsLocked reports whether a previously scheduled send is still sounding.
func (e *Engine) IsLocked() bool { return e.lock.Locked() }

// LockedUntil returns the current lock horizon.
func (e *Engine) LockedUntil() float64 { return e.lock.Until() }

// CreateToneSession binds a profile to a persistent tone generator
// connected to the shared mixer, superseding any existing session for the
// same station id: the old session is drained and its pending schedule
// abandoned. Volumes across the active set are renormalized atomically with
// the set change.
func (e *Engine) CreateToneSession(id string, prof StationProfile) *ToneSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	if old, ok := e.sessions[id]; ok {
		old.Close()
	}
	s := NewToneSession(e.clock, prof)
	e.sessions[id] = s

	e.out.lock()
	e.mixer.Add(s)
	e.out.unlock()

	e.normalizeLocked()
	return s
}

// RemoveSession drains a station's session when it leaves the active set
// and renormalizes the remaining volumes.
func (e *Engine) RemoveSession(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s, ok := e.sessions[id]; ok {
		s.Close()
		delete(e.sessions, id)
		e.normalizeLocked()
	}
}

// Session returns the live session for a station id, or nil.
func (e *Engine) Session(id string) *ToneSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[id]
}

// normalizeLocked rescales every active session so the configured volumes
// cannot sum past full scale and clip. Sets summing to at most 1 are left
// untouched.
func (e *Engine) normalizeLocked() {
	sum := lo.SumBy(lo.Values(e.sessions), func(s *ToneSession) float64 {
		return s.Profile().Volume
	})
	scale := 1.0
	if sum > 1 {
		scale = 1 / sum
	}
	for _, s := range e.sessions {
		s.SetMasterGain(scale)
	}
}

// StartNoise starts the background noise channel at the given level.
func (e *Engine) StartNoise(level NoiseLevel) { e.noise.Start(level) }

// StopNoise stops the noise channel, optionally with the standard fade.
func (e *Engine) StopNoise(fade bool) { e.noise.Stop(fade) }

// SetNoiseLevel switches the noise intensity.
func (e *Engine) SetNoiseLevel(level NoiseLevel) { e.noise.SetLevel(level) }

// IsNoisePlaying reports whether ambience is active or about to start.
func (e *Engine) IsNoisePlaying() bool { return e.noise.IsPlaying() }

// StopAll hard-silences everything: every tone session is drained with its
// pending schedule abandoned, the playback lock resets to zero and the
// noise channel cuts without fade. The clock keeps running.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range e.sessions {
		s.Close()
	}
	e.sessions = map[string]*ToneSession{}
	e.lock.Reset()
	e.noise.Stop(false)
}

// Close stops playback and releases the output.
func (e *Engine) Close() {
	e.StopAll()
	e.out.close()
}

// Render drives the mixer by hand: it renders len(samples) frames and
// advances the clock accordingly. Only meaningful with the Manual output.
func (e *Engine) Render(samples [][2]float64) {
	e.out.lock()
	e.renderLocked(samples)
	e.out.unlock()
}

// renderLocked streams one chunk from the mixer and advances the shared
// clock past it. Must run under the output lock so sessions see a stable
// chunk start time.
func (e *Engine) renderLocked(samples [][2]float64) {
	n, _ := e.mixer.Stream(samples)
	e.clock.Advance(n)
}
