package cwaudio

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func testProfile() StationProfile {
	return StationProfile{WPM: 20, Frequency: 600, Volume: 0.5}
}

func TestScheduleEmptyIsNoop(t *testing.T) {
	s := NewToneSession(&Clock{}, testProfile())
	if got := s.Schedule("", 10); got != 10 {
		t.Errorf("Schedule(empty) = %v, want 10", got)
	}
	if len(s.Segments()) != 0 {
		t.Error("empty schedule produced segments")
	}
}

func TestScheduleSingleSpace(t *testing.T) {
	s := NewToneSession(&Clock{}, testProfile())
	tm := testProfile().Timing()
	want := 10 + tm.InterWord - tm.InterLetter
	if got := s.Schedule(" ", 10); math.Abs(got-want) > 1e-9 {
		t.Errorf("Schedule(space) = %v, want %v", got, want)
	}
}

func TestScheduleEndToEndE(t *testing.T) {
	// 20 wpm: charUnit 0.06s. "E" = one dot + letter gap = 0.24s.
	s := NewToneSession(&Clock{}, testProfile())
	if got := s.Schedule("E", 10.0); math.Abs(got-10.24) > 1e-9 {
		t.Errorf("Schedule(E, 10.0) = %v, want 10.24", got)
	}
	segs := s.Segments()
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Start != 10.0 || math.Abs(segs[0].Duration-0.06) > 1e-9 {
		t.Errorf("segment = %+v, want start 10.0 dur 0.06", segs[0])
	}
	if segs[0].Amplitude != 0.5 {
		t.Errorf("amplitude = %v, want profile volume 0.5", segs[0].Amplitude)
	}
}

func TestScheduleSymbolSpacing(t *testing.T) {
	// "A" = dot dash, one unit apart.
	s := NewToneSession(&Clock{}, testProfile())
	end := s.Schedule("a", 0)
	segs := s.Segments()
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Start != 0 || math.Abs(segs[0].Duration-0.06) > 1e-9 {
		t.Errorf("dot = %+v", segs[0])
	}
	if math.Abs(segs[1].Start-0.12) > 1e-9 || math.Abs(segs[1].Duration-0.18) > 1e-9 {
		t.Errorf("dash = %+v, want start 0.12 dur 0.18", segs[1])
	}
	// dot + gap + dash + letter gap = 0.06+0.06+0.18+0.18
	if math.Abs(end-0.48) > 1e-9 {
		t.Errorf("end = %v, want 0.48", end)
	}
}

func TestScheduleUnknownTokenSkipped(t *testing.T) {
	s := NewToneSession(&Clock{}, testProfile())
	if got := s.Schedule("#", 5); got != 5 {
		t.Errorf("Schedule(#) = %v, want cursor unchanged at 5", got)
	}
	if len(s.Segments()) != 0 {
		t.Error("unknown token produced segments")
	}

	// Unknown tokens in the middle do not disturb surrounding letters.
	known := NewToneSession(&Clock{}, testProfile())
	wantEnd := known.Schedule("ee", 5)
	mixed := NewToneSession(&Clock{}, testProfile())
	if got := mixed.Schedule("e#e", 5); math.Abs(got-wantEnd) > 1e-9 {
		t.Errorf("Schedule(e#e) = %v, want %v", got, wantEnd)
	}
}

func TestScheduleUnknownTokenReported(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	s := NewToneSession(&Clock{}, testProfile())
	s.Schedule("#", 0)

	// The diagnostic must come through at the default handler level.
	if out := buf.String(); !strings.Contains(out, "unknown morse token") {
		t.Errorf("no diagnostic for unknown token, log output: %q", out)
	}
}

func TestScheduleProsign(t *testing.T) {
	s := NewToneSession(&Clock{}, testProfile())
	s.Schedule("<AR>", 0)
	// <ar> = .-.-. : five symbols, one envelope each.
	if got := len(s.Segments()); got != 5 {
		t.Errorf("prosign segments = %d, want 5", got)
	}
}

func TestScheduleTrailingSpace(t *testing.T) {
	s := NewToneSession(&Clock{}, testProfile())
	tm := testProfile().Timing()
	endE := s.Schedule("e", 0)
	s2 := NewToneSession(&Clock{}, testProfile())
	got := s2.Schedule("e ", 0)
	want := endE + tm.InterWord - tm.InterLetter
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Schedule(e + trailing space) = %v, want %v", got, want)
	}
}

func TestScheduleQSBSamplesPerSymbol(t *testing.T) {
	prof := testProfile()
	prof.QSB = true
	prof.QSBDepth = 0.5
	prof.QSBFrequency = 2
	s := NewToneSession(&Clock{}, prof)
	s.Schedule("eee eee", 0)
	segs := s.Segments()
	lo := prof.Volume * (1 - prof.QSBDepth)
	varied := false
	for _, seg := range segs {
		if seg.Amplitude < lo-1e-12 || seg.Amplitude > prof.Volume+1e-12 {
			t.Fatalf("segment amplitude %v outside [%v, %v]", seg.Amplitude, lo, prof.Volume)
		}
		if math.Abs(seg.Amplitude-segs[0].Amplitude) > 1e-9 {
			varied = true
		}
	}
	if !varied {
		t.Error("QSB amplitudes did not vary across symbols")
	}
}

func TestStreamRendersToneAndSilence(t *testing.T) {
	clock := &Clock{}
	s := NewToneSession(clock, testProfile())
	end := s.Schedule("e", 0)

	chunk := make([][2]float64, 441) // 10ms
	var peakDuring, peakAfter float64
	rendered := 0.0
	for rendered < end+0.1 {
		s.Stream(chunk)
		clock.Advance(len(chunk))
		for _, v := range chunk {
			a := math.Abs(v[0])
			if rendered > 0.02 && rendered < 0.04 {
				peakDuring = math.Max(peakDuring, a)
			}
			if rendered > end {
				peakAfter = math.Max(peakAfter, a)
			}
		}
		rendered = clock.Now()
	}
	if peakDuring < 0.4 {
		t.Errorf("peak during symbol = %v, want close to volume 0.5", peakDuring)
	}
	if peakAfter > 1e-6 {
		t.Errorf("peak after end = %v, want silence", peakAfter)
	}
}

func TestCloseDrainsSession(t *testing.T) {
	clock := &Clock{}
	s := NewToneSession(clock, testProfile())
	s.Schedule("cq cq", 0)
	s.Close()
	n, ok := s.Stream(make([][2]float64, 64))
	if n != 0 || ok {
		t.Errorf("closed session Stream = (%d, %v), want (0, false)", n, ok)
	}
}
