// Package cwaudio is the morse audio engine: it converts sentences into
// precisely timed gain envelopes on per-station tone generators, mixes all
// stations onto one output, simulates QSB fading, and provides the playback
// lock that keeps call-and-response turns from talking over each other.
//
// Time is a shared logical clock in seconds that advances with rendered
// samples, so everything is scheduled cooperatively on one timeline; there
// is no per-station goroutine.
package cwaudio

import "github.com/cwkit/pileup/cmd/common/morse"

// SampleRate is the engine-wide output sample rate in Hz.
const SampleRate = 44100

// StationProfile holds the audio-relevant attributes of one simulated
// station (or the learner's own sidetone). Profiles are immutable
// snapshots: changing a station's speed means building a new profile and
// superseding its tone session.
type StationProfile struct {
	WPM           int     // character speed, >= 1
	Frequency     float64 // tone pitch in Hz
	Volume        float64 // 0..1
	Farnsworth    bool    // stretch letter/word gaps
	FarnsworthWPM int     // spacing speed; defaults to WPM when <= 0
	QSB           bool    // fading enabled
	QSBDepth      float64 // 0..1, fraction of volume faded away
	QSBFrequency  float64 // fading rate in Hz
}

// Timing returns the element durations for this profile.
func (p StationProfile) Timing() morse.Timing {
	if p.Farnsworth {
		return morse.FarnsworthTiming(p.WPM, p.FarnsworthWPM)
	}
	return morse.StandardTiming(p.WPM)
}

// Slowed returns a copy of the profile with Farnsworth spacing at the given
// speed, for QRS requests. The character speed is kept so the fist still
// sounds the same; only the gaps open up.
func (p StationProfile) Slowed(spacingWPM int) StationProfile {
	out := p
	out.Farnsworth = true
	out.FarnsworthWPM = spacingWPM
	return out
}
