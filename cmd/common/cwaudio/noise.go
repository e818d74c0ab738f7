package cwaudio

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/gopxl/beep/v2"
)

// NoiseLevel selects the background static intensity.
type NoiseLevel int

const (
	NoiseOff NoiseLevel = iota
	NoiseNormal
	NoiseModerate
	NoiseHeavy
)

// ParseNoiseLevel parses a level name as used on the command line.
func ParseNoiseLevel(s string) (NoiseLevel, error) {
	switch strings.ToLower(s) {
	case "off":
		return NoiseOff, nil
	case "normal":
		return NoiseNormal, nil
	case "moderate":
		return NoiseModerate, nil
	case "heavy":
		return NoiseHeavy, nil
	}
	return NoiseOff, fmt.Errorf("unknown noise level %q (off, normal, moderate, heavy)", s)
}

func (l NoiseLevel) String() string {
	switch l {
	case NoiseNormal:
		return "normal"
	case NoiseModerate:
		return "moderate"
	case NoiseHeavy:
		return "heavy"
	default:
		return "off"
	}
}

func (l NoiseLevel) gain() float64 {
	switch l {
	case NoiseNormal:
		return 0.06
	case NoiseModerate:
		return 0.12
	case NoiseHeavy:
		return 0.22
	default:
		return 0
	}
}

const (
	noiseLoopSeconds = 2.0
	noiseFadeSeconds = 0.3
)

type noiseState int

const (
	noiseIdle noiseState = iota
	noiseLoading
	noiseReady
	noiseFailed
)

// NoiseChannel is the looping QRN/static bed layered under the tone
// sessions. It never interacts with the playback lock: ambience plays
// underneath foreground sends and does not gate turn-taking.
//
// The loop buffer is rendered asynchronously on first start; a stop
// requested mid-render cancels it so audio never starts after the fact.
type NoiseChannel struct {
	mu sync.Mutex

	attach func(beep.Streamer)

	state     noiseState
	cancelled bool
	desired   NoiseLevel
	loop      []float64

	stream *noiseStreamer
}

// NewNoiseChannel builds a channel that connects its streamer to the
// output via attach. The engine passes a mixer-append closure that takes
// the output lock.
func NewNoiseChannel(attach func(beep.Streamer)) *NoiseChannel {
	return &NoiseChannel{attach: attach}
}

// Start begins loop playback at the given level. It is a no-op if the
// channel is already playing or the level is off. The first start renders
// the loop buffer in the background; playback begins when it is ready.
func (n *NoiseChannel) Start(level NoiseLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if level == NoiseOff || n.stream != nil {
		return
	}
	n.desired = level

	switch n.state {
	case noiseReady:
		n.startLocked()
	case noiseLoading:
		// Render already in flight; it will start us when done. A stop
		// may have cancelled it in the meantime, so re-arm it.
		n.cancelled = false
	case noiseFailed:
		// A previous render failed; the channel stays inactive.
	default:
		n.state = noiseLoading
		n.cancelled = false
		go n.render()
	}
}

// Stop fades the gain to zero over a fixed fade time (or cuts instantly)
// and then releases the streamer. The release happens exactly once even if
// Stop is called again during an in-flight fade. A stop during the initial
// render cancels it.
func (n *NoiseChannel) Stop(fade bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == noiseLoading {
		n.cancelled = true
	}
	if n.stream == nil {
		return
	}
	if fade {
		n.stream.fadeOut()
	} else {
		n.stream.release()
	}
	n.stream = nil
}

// SetLevel switches intensity: an instant stop followed by a start at the
// new level.
func (n *NoiseChannel) SetLevel(level NoiseLevel) {
	n.Stop(false)
	n.Start(level)
}

// IsPlaying reports whether the channel currently has a live streamer or a
// render in flight that will start one.
func (n *NoiseChannel) IsPlaying() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stream != nil || (n.state == noiseLoading && !n.cancelled)
}

func (n *NoiseChannel) render() {
	loop, err := renderNoiseLoop(noiseLoopSeconds)

	n.mu.Lock()
	defer n.mu.Unlock()

	if err != nil {
		n.state = noiseFailed
		slog.Warn("background noise unavailable", "error", err)
		return
	}
	if n.cancelled {
		// Stopped while rendering; discard the result.
		n.state = noiseIdle
		return
	}
	n.loop = loop
	n.state = noiseReady
	n.startLocked()
}

func (n *NoiseChannel) startLocked() {
	s := newNoiseStreamer(n.loop, n.desired.gain())
	n.stream = s
	n.attach(s)
}

// noiseStreamer loops a pre-rendered buffer with a linear gain ramp for
// fade-in/out. It drops out of the mixer once released and fully silent.
type noiseStreamer struct {
	mu sync.Mutex

	loop []float64
	pos  int

	gain   float64
	target float64
	step   float64

	released bool
}

func newNoiseStreamer(loop []float64, gain float64) *noiseStreamer {
	return &noiseStreamer{
		loop:   loop,
		target: gain,
		step:   gain / (noiseFadeSeconds * SampleRate),
	}
}

func (s *noiseStreamer) fadeOut() {
	s.mu.Lock()
	if !s.released {
		s.target = 0
	}
	s.mu.Unlock()
}

func (s *noiseStreamer) release() {
	s.mu.Lock()
	if !s.released {
		s.released = true
		s.gain = 0
		s.target = 0
		s.loop = nil
	}
	s.mu.Unlock()
}

func (s *noiseStreamer) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return 0, false
	}
	for i := range samples {
		switch {
		case s.gain < s.target:
			s.gain = min(s.gain+s.step, s.target)
		case s.gain > s.target:
			s.gain = max(s.gain-s.step, s.target)
		}
		v := s.loop[s.pos] * s.gain
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
		if s.pos >= len(s.loop) {
			s.pos = 0
		}
		if s.target == 0 && s.gain == 0 {
			// Fade complete: release on this pass.
			s.released = true
			s.loop = nil
			return i + 1, false
		}
	}
	return len(samples), true
}

func (s *noiseStreamer) Err() error { return nil }

// renderNoiseLoop produces a few seconds of band-limited static with
// occasional crackle bursts, seam-blended so it loops cleanly. The white
// source is a 23-bit LFSR run through a one-pole low-pass.
func renderNoiseLoop(seconds float64) ([]float64, error) {
	// The crackle placement and seam blend below need room to work with.
	const seam = 256
	count := int(seconds * SampleRate)
	if count < 2*seam {
		return nil, fmt.Errorf("noise loop too short: %v s", seconds)
	}

	const (
		lfsrSeed = 0x7FFFFF
		lfsrMask = 0x7FFFFF
	)
	buf := make([]float64, count)
	sr := uint32(lfsrSeed)
	var filt float64
	for i := range buf {
		newBit := ((sr >> 22) ^ (sr >> 17)) & 1
		sr = ((sr << 1) | newBit) & lfsrMask
		white := float64(sr&1)*2 - 1
		filt = 0.95*filt + 0.05*white
		buf[i] = filt
	}

	// Sparse QRN crackles: short decaying impulses at random offsets.
	rng := rand.New(rand.NewSource(int64(count)))
	for k := 0; k < count/4000; k++ {
		pos := rng.Intn(count - 64)
		amp := 0.4 + 0.6*rng.Float64()
		if rng.Intn(2) == 0 {
			amp = -amp
		}
		for j := 0; j < 48; j++ {
			buf[pos+j] += amp
			amp *= 0.88
		}
	}

	// Normalize the peak and blend the seam so the loop has no click.
	var peak float64
	for _, v := range buf {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0 {
		for i := range buf {
			buf[i] /= peak
		}
	}
	for i := 0; i < seam; i++ {
		w := float64(i) / seam
		buf[i] = buf[i]*w + buf[count-seam+i]*(1-w)
	}

	return buf, nil
}
