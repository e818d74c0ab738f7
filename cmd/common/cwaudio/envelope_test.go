package cwaudio

import (
	"math"
	"testing"
)

func TestFadingDisabledIsConstant(t *testing.T) {
	f := Fading{Volume: 0.8}
	for _, at := range []float64{0, 0.1, 1, 17.3, 1000} {
		if got := f.AmplitudeAt(at); got != 0.8 {
			t.Errorf("AmplitudeAt(%v) = %v, want 0.8", at, got)
		}
	}
}

func TestFadingBoundsAndPeriod(t *testing.T) {
	f := Fading{
		Enabled:   true,
		Volume:    0.9,
		Depth:     0.6,
		Frequency: 0.25,
		Start:     3,
		Phase:     1.1,
	}
	lo := f.Volume * (1 - f.Depth)
	for i := 0; i < 1000; i++ {
		at := 3 + float64(i)*0.037
		a := f.AmplitudeAt(at)
		if a < lo-1e-12 || a > f.Volume+1e-12 {
			t.Fatalf("AmplitudeAt(%v) = %v outside [%v, %v]", at, a, lo, f.Volume)
		}
		period := 1 / f.Frequency
		if b := f.AmplitudeAt(at + period); math.Abs(a-b) > 1e-9 {
			t.Fatalf("amplitude not periodic: f(%v)=%v f(+T)=%v", at, a, b)
		}
	}
}

func TestFadingPhaseOffsetsDiffer(t *testing.T) {
	base := Fading{Enabled: true, Volume: 1, Depth: 1, Frequency: 0.5}
	a := base
	b := base
	b.Phase = math.Pi
	if a.AmplitudeAt(1) == b.AmplitudeAt(1) {
		t.Error("phase offset should desynchronize fading")
	}
}

func TestSegmentShape(t *testing.T) {
	// A 20 wpm dash: 180ms, so the ramp caps at 10ms.
	seg := NewSegment(2, 0.18, 0.7)

	if got := seg.GainAt(1.999); got != 0 {
		t.Errorf("gain before start = %v, want 0", got)
	}
	if got := seg.GainAt(2.0); got != rampFloor {
		t.Errorf("gain at start = %v, want floor %v", got, rampFloor)
	}
	if got := seg.GainAt(2.09); got != 0.7 {
		t.Errorf("sustain gain = %v, want 0.7", got)
	}
	// Inside the 1ms hold after the symbol: floor, not yet zero.
	if got := seg.GainAt(2.18 + 0.0005); got != rampFloor {
		t.Errorf("post-symbol hold = %v, want floor %v", got, rampFloor)
	}
	if got := seg.GainAt(seg.End()); got != 0 {
		t.Errorf("gain after End() = %v, want hard zero", got)
	}

	// Ramps are monotonic between floor and target.
	prev := 0.0
	for i := 0; i <= 10; i++ {
		at := 2 + 0.001*float64(i)
		g := seg.GainAt(at)
		if g < prev-1e-12 || g > 0.7+1e-12 {
			t.Fatalf("attack not monotonic at %v: %v after %v", at, g, prev)
		}
		prev = g
	}
}

func TestSegmentShortSymbolRamp(t *testing.T) {
	// A 60ms dot ramps over 10% of its duration, not the 10ms cap.
	seg := NewSegment(0, 0.06, 1)
	if math.Abs(seg.ramp-0.006) > 1e-12 {
		t.Errorf("ramp = %v, want 0.006", seg.ramp)
	}
	if got := seg.GainAt(0.03); got != 1 {
		t.Errorf("sustain gain = %v, want 1", got)
	}
}

func TestSegmentZeroAmplitudeSilent(t *testing.T) {
	seg := NewSegment(0, 0.1, 0)
	for _, at := range []float64{0, 0.05, 0.0999, 0.1005} {
		if got := seg.GainAt(at); got != 0 {
			t.Errorf("GainAt(%v) = %v, want 0 for zero amplitude", at, got)
		}
	}
}

func TestRampMidpoint(t *testing.T) {
	if got := RampMidpoint(1, 0.06); math.Abs(got-1.003) > 1e-12 {
		t.Errorf("RampMidpoint = %v, want 1.003", got)
	}
	if got := RampMidpoint(0, 1); math.Abs(got-0.005) > 1e-12 {
		t.Errorf("RampMidpoint capped = %v, want 0.005", got)
	}
}
