package cwaudio

import "math"

const (
	// rampFloor is the near-silent level envelope ramps start and end at.
	// Exponential ramps cannot reach zero, so symbols additionally drop
	// hard to true zero shortly after they end.
	rampFloor = 1e-4

	// maxRamp caps the attack/release ramp length.
	maxRamp = 0.010

	// zeroDelay is how long after a symbol ends its gain is forced to
	// true zero.
	zeroDelay = 0.001
)

// Fading computes a station's instantaneous target amplitude. With QSB
// disabled it is the constant configured volume; with QSB enabled the
// volume oscillates between Volume*(1-Depth) and Volume at Frequency Hz.
// Phase is fixed at session creation so concurrent stations never fade in
// lockstep.
type Fading struct {
	Enabled   bool
	Volume    float64
	Depth     float64 // 0..1
	Frequency float64 // Hz
	Start     float64 // session start time, anchors the fading cycle
	Phase     float64 // per-session random phase offset, radians
}

// AmplitudeAt returns the target amplitude at absolute time t.
func (f Fading) AmplitudeAt(t float64) float64 {
	if !f.Enabled {
		return f.Volume
	}
	s := math.Sin(2*math.Pi*f.Frequency*(t-f.Start) + f.Phase)
	return f.Volume * (1 - f.Depth*(s+1)/2)
}

// Segment is one scheduled dot or dash: a gain envelope of the symbol's
// duration at a target amplitude sampled once when the segment was
// scheduled. The shape is a three-phase click-free envelope: exponential
// ramp up from the floor, flat sustain, exponential ramp down, then a hard
// drop to zero zeroDelay after the end.
type Segment struct {
	Start     float64
	Duration  float64
	Amplitude float64

	ramp float64 // attack and release length
}

// NewSegment builds a segment at start with the given duration. The ramp is
// 10% of the duration capped at 10ms.
func NewSegment(start, duration, amplitude float64) Segment {
	return Segment{
		Start:     start,
		Duration:  duration,
		Amplitude: amplitude,
		ramp:      math.Min(duration*0.1, maxRamp),
	}
}

// RampMidpoint returns the mid-attack instant, where the target amplitude
// is sampled.
func RampMidpoint(start, duration float64) float64 {
	return start + math.Min(duration*0.1, maxRamp)/2
}

// End returns the time after which the segment is fully silent.
func (s Segment) End() float64 {
	return s.Start + s.Duration + zeroDelay
}

// GainAt returns the envelope gain at absolute time t.
func (s Segment) GainAt(t float64) float64 {
	if s.Amplitude <= rampFloor {
		return 0
	}
	switch {
	case t < s.Start:
		return 0
	case t < s.Start+s.ramp:
		u := (t - s.Start) / s.ramp
		return rampFloor * math.Pow(s.Amplitude/rampFloor, u)
	case t < s.Start+s.Duration-s.ramp:
		return s.Amplitude
	case t < s.Start+s.Duration:
		u := (s.Start + s.Duration - t) / s.ramp
		return rampFloor * math.Pow(s.Amplitude/rampFloor, u)
	case t < s.Start+s.Duration+zeroDelay:
		return rampFloor
	default:
		return 0
	}
}
