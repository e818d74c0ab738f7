package cwaudio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// output abstracts what drives the mixer: a real speaker, a wall-clock
// pump for silent operation, or nothing (tests render by hand). The lock
// serializes mixer mutations against rendering.
type output interface {
	start(e *Engine)
	lock()
	unlock()
	close()
}

// rootStreamer feeds the speaker: it streams the shared mixer and advances
// the logical clock past each rendered chunk. The clock is advanced after
// the mixer pass so every session computes sample times from the same
// chunk start.
type rootStreamer struct {
	e *Engine
}

func (r rootStreamer) Stream(samples [][2]float64) (int, bool) {
	n, _ := r.e.mixer.Stream(samples)
	r.e.clock.Advance(n)
	return len(samples), true
}

func (r rootStreamer) Err() error { return nil }

// pumpOutput renders into a discard buffer on a wall-clock ticker so the
// logical clock tracks real time without an audio device.
type pumpOutput struct {
	mu   sync.Mutex
	done chan struct{}
	once sync.Once
}

const pumpInterval = 10 * time.Millisecond

func newPumpOutput() *pumpOutput {
	return &pumpOutput{done: make(chan struct{})}
}

func (p *pumpOutput) start(e *Engine) {
	go func() {
		buf := make([][2]float64, SampleRate/100)
		ticker := time.NewTicker(pumpInterval)
		defer ticker.Stop()
		for {
			select {
			case <-p.done:
				return
			case <-ticker.C:
				p.mu.Lock()
				e.renderLocked(buf)
				p.mu.Unlock()
			}
		}
	}()
}

func (p *pumpOutput) lock()   { p.mu.Lock() }
func (p *pumpOutput) unlock() { p.mu.Unlock() }

func (p *pumpOutput) close() {
	p.once.Do(func() { close(p.done) })
}

// manualOutput does nothing on its own; Engine.Render drives the mixer.
type manualOutput struct {
	mu sync.Mutex
}

func (m *manualOutput) start(*Engine) {}
func (m *manualOutput) lock()         { m.mu.Lock() }
func (m *manualOutput) unlock()       { m.mu.Unlock() }
func (m *manualOutput) close()        {}

var _ beep.Streamer = rootStreamer{}
