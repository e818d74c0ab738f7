package run

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/cwkit/pileup/cmd/common/cwaudio"
	"github.com/cwkit/pileup/cmd/run/pileup"
)

func testModel(t *testing.T) (*model, *cwaudio.Engine) {
	t.Helper()
	eng := cwaudio.NewEngine(cwaudio.Manual())
	t.Cleanup(eng.Close)

	params := &Params{
		MyCall:     "W1AW",
		WPM:        25,
		Pitch:      600,
		MaxCallers: 2,
	}
	gen := pileup.NewGenerator(pileup.GenConfig{
		MinWPM:      20,
		MaxWPM:      25,
		Pitch:       600,
		PitchSpread: 100,
		MaxQSBDepth: 0.5,
	}, rand.New(rand.NewSource(7)))
	m := newModel(eng, gen, pileup.ModeSST, params, rand.New(rand.NewSource(7)), cwaudio.NoiseOff)
	return m, eng
}

// waitClear renders audio until the playback lock expires.
func waitClear(t *testing.T, eng *cwaudio.Engine) {
	t.Helper()
	buf := make([][2]float64, cwaudio.SampleRate/10)
	for i := 0; i < 10000; i++ {
		if !eng.IsLocked() {
			return
		}
		eng.Render(buf)
	}
	t.Fatal("lock never cleared")
}

func (m *model) typeLine(s string) {
	m.input = s
	m.submit()
}

func TestCQRaisesPileup(t *testing.T) {
	m, eng := testModel(t)

	m.typeLine("")
	if m.phase != phaseCopy {
		t.Fatalf("phase after CQ = %v, want copy", m.phase)
	}
	if len(m.callers) < 1 || len(m.callers) > 2 {
		t.Fatalf("caller count = %d, want 1..2", len(m.callers))
	}
	if !eng.IsLocked() {
		t.Error("engine should be locked while the CQ and answers play")
	}
	for _, st := range m.callers {
		if eng.Session(st.ID) == nil {
			t.Errorf("no tone session for caller %s", st.Callsign)
		}
	}
}

func TestSubmitWhileLockedIsIgnored(t *testing.T) {
	m, _ := testModel(t)

	m.typeLine("") // CQ, lock engaged
	m.typeLine(m.callers[0].Callsign)
	if m.phase != phaseCopy {
		t.Errorf("submit during lock advanced phase to %v", m.phase)
	}
}

func TestFullContact(t *testing.T) {
	m, eng := testModel(t)

	m.typeLine("")
	waitClear(t, eng)

	st := m.callers[0]
	m.typeLine(strings.ToLower(st.Callsign))
	if m.phase != phaseExchange {
		t.Fatalf("phase after perfect copy = %v, want exchange", m.phase)
	}
	waitClear(t, eng)

	m.typeLine(pileup.ModeSST.ExpectedCopy(st))
	if m.phase != phaseIdle {
		t.Fatalf("phase after exchange = %v, want idle", m.phase)
	}
	qsos := m.log.QSOs()
	if len(qsos) != 1 {
		t.Fatalf("logged %d QSOs, want 1", len(qsos))
	}
	if qsos[0].Callsign != st.Callsign || qsos[0].Result != pileup.MatchPerfect {
		t.Errorf("logged contact %+v does not match station %s", qsos[0], st.Callsign)
	}
	if eng.Session(st.ID) != nil {
		t.Error("caller session should be removed after the contact")
	}
}

func TestMissedCopyKeepsPileupCalling(t *testing.T) {
	m, eng := testModel(t)

	m.typeLine("")
	waitClear(t, eng)

	m.typeLine("ZZ9ZZZ")
	if m.phase != phaseCopy {
		t.Errorf("phase after miss = %v, want copy", m.phase)
	}
	if !eng.IsLocked() {
		t.Error("pileup should be calling again after a miss")
	}
}

func TestQRSSlowsCallers(t *testing.T) {
	m, eng := testModel(t)

	m.typeLine("")
	waitClear(t, eng)

	before := make([]cwaudio.StationProfile, len(m.callers))
	for i, st := range m.callers {
		before[i] = st.Profile
	}
	m.typeLine("qrs")
	for i, st := range m.callers {
		if !st.Profile.Farnsworth {
			t.Errorf("caller %d not Farnsworth after qrs", i)
		}
		if st.Profile.FarnsworthWPM >= before[i].WPM && before[i].WPM > 16 {
			t.Errorf("caller %d spacing %d not slower than %d", i, st.Profile.FarnsworthWPM, before[i].WPM)
		}
		if eng.Session(st.ID) == nil {
			t.Errorf("caller %d session missing after supersede", i)
		}
	}
}

func TestCqText(t *testing.T) {
	cases := map[pileup.Mode]string{
		pileup.ModeSST:     "cq sst de w1aw",
		pileup.ModeCWT:     "cq cwt de w1aw",
		pileup.ModeContest: "cq test de w1aw",
	}
	for mode, want := range cases {
		if got := cqText(mode, "W1AW"); got != want {
			t.Errorf("cqText(%v) = %q, want %q", mode, got, want)
		}
	}
}
