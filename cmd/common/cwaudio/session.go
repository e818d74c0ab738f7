package cwaudio

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/cwkit/pileup/cmd/common/morse"
)

// ToneSession binds one persistent sine oscillator to one station profile.
// Scheduling a sentence appends gain segments to the session's timeline;
// sound comes out as the shared clock passes each segment. A session stays
// connected to the mixer for its whole life and streams silence between
// sends.
type ToneSession struct {
	mu sync.Mutex

	clock  *Clock
	prof   StationProfile
	timing morse.Timing
	fading Fading

	phase      float64 // oscillator phase, radians
	masterGain float64 // global normalization scale, set by the engine

	segments []Segment
	next     int // first segment not yet fully in the past

	closed bool
}

// NewToneSession creates a standalone session against the given clock. Most
// callers go through Engine.CreateToneSession, which also connects the
// session to the output mixer and renormalizes volumes.
func NewToneSession(clock *Clock, prof StationProfile) *ToneSession {
	now := clock.Now()
	return &ToneSession{
		clock:  clock,
		prof:   prof,
		timing: prof.Timing(),
		fading: Fading{
			Enabled:   prof.QSB,
			Volume:    prof.Volume,
			Depth:     prof.QSBDepth,
			Frequency: prof.QSBFrequency,
			Start:     now,
			Phase:     rand.Float64() * 2 * math.Pi,
		},
		masterGain: 1,
	}
}

// Profile returns the immutable profile snapshot this session was built
// from.
func (s *ToneSession) Profile() StationProfile {
	return s.prof
}

// Schedule tokenizes text and appends one envelope per dot/dash starting at
// the given time, returning the end time of the sentence. Unknown tokens
// are reported and skipped; they produce no audio and do not advance the
// cursor. Scheduling in the past produces no error but the missed portion
// will not sound; callers normally pass Engine.Now() or later.
func (s *ToneSession) Schedule(text string, start float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	cursor := start
	for _, token := range morse.Tokenize(text) {
		if token == morse.WordBoundary {
			// Every previous token already added a full letter gap;
			// widen it to a word gap without double counting.
			cursor += s.timing.InterWord - s.timing.InterLetter
			continue
		}
		code, ok := morse.Code(token)
		if !ok {
			slog.Warn("skipping unknown morse token", "token", token)
			continue
		}
		for i := 0; i < len(code); i++ {
			dur := s.timing.SymbolDuration(code[i])
			amp := s.fading.AmplitudeAt(RampMidpoint(cursor, dur))
			s.segments = append(s.segments, NewSegment(cursor, dur, amp))
			cursor += dur + s.timing.IntraSymbol
		}
		// Swap the trailing intra-symbol gap for a letter gap.
		cursor += s.timing.InterLetter - s.timing.IntraSymbol
	}
	return cursor
}

// ScheduleNow schedules text starting at the current clock time.
func (s *ToneSession) ScheduleNow(text string) float64 {
	return s.Schedule(text, s.clock.Now())
}

// SetMasterGain sets the global normalization scale applied on top of the
// per-segment amplitude.
func (s *ToneSession) SetMasterGain(g float64) {
	s.mu.Lock()
	s.masterGain = g
	s.mu.Unlock()
}

// MasterGain returns the current normalization scale.
func (s *ToneSession) MasterGain() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masterGain
}

// Segments returns a copy of the scheduled envelope timeline.
func (s *ToneSession) Segments() []Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Close drains the session: it goes silent immediately, abandons pending
// segments and is dropped by the mixer on the next render pass.
func (s *ToneSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.segments = nil
	s.next = 0
	s.mu.Unlock()
}

// Stream renders the session's oscillator through its envelope timeline.
// It implements beep.Streamer.
func (s *ToneSession) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, false
	}

	t0 := s.clock.Now()
	phaseInc := 2 * math.Pi * s.prof.Frequency / SampleRate
	for i := range samples {
		t := t0 + float64(i)/SampleRate
		gain := s.gainAt(t) * s.masterGain
		v := math.Sin(s.phase) * gain
		samples[i][0] = v
		samples[i][1] = v
		s.phase += phaseInc
		if s.phase >= 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
	return len(samples), true
}

// Err implements beep.Streamer. Sessions never fail.
func (s *ToneSession) Err() error { return nil }

// gainAt evaluates the envelope timeline at time t. Segments are strictly
// ordered and non-overlapping by construction, so a single advancing index
// suffices.
func (s *ToneSession) gainAt(t float64) float64 {
	for s.next < len(s.segments) && s.segments[s.next].End() <= t {
		s.next++
	}
	if s.next >= len(s.segments) {
		return 0
	}
	return s.segments[s.next].GainAt(t)
}
