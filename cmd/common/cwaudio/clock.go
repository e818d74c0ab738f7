package cwaudio

import "sync"

// Clock is the shared logical timeline, in seconds since engine start. It
// advances only when samples are rendered, which keeps every scheduled
// envelope and the playback lock on the same time base whether the output
// is a real speaker or a silent pump.
type Clock struct {
	mu      sync.Mutex
	samples int64
}

// Now returns the current position in seconds.
func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.samples) / SampleRate
}

// Advance moves the clock forward by n rendered samples.
func (c *Clock) Advance(n int) {
	c.mu.Lock()
	c.samples += int64(n)
	c.mu.Unlock()
}
