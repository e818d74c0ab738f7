// Package pileup generates the simulated stations, renders their exchange
// sentences per operating mode, grades the learner's copy and keeps the
// session log. It knows nothing about audio beyond the profile it hands to
// the cwaudio engine.
package pileup

import (
	"fmt"
	"math/rand"

	"github.com/cwkit/pileup/cmd/common/cwaudio"
	"github.com/google/uuid"
)

// Station is one simulated caller: identity fields for the exchange plus
// the audio profile its tone session is built from.
type Station struct {
	ID       string
	Callsign string
	Name     string
	State    string
	Serial   int
	CWOpsNr  int
	Profile  cwaudio.StationProfile
}

// GenConfig bounds the randomized station attributes.
type GenConfig struct {
	MinWPM      int
	MaxWPM      int
	Pitch       float64 // learner's center pitch, Hz
	PitchSpread float64 // max per-station offset from center, Hz
	Farnsworth  bool    // slow stations use Farnsworth spacing
	QSB         bool
	MaxQSBDepth float64
}

// Generator produces stations from fixed attribute tables and a seeded
// random source, so a session can be made reproducible.
type Generator struct {
	cfg    GenConfig
	rng    *rand.Rand
	serial int
}

func NewGenerator(cfg GenConfig, rng *rand.Rand) *Generator {
	if cfg.MinWPM < 1 {
		cfg.MinWPM = 1
	}
	if cfg.MaxWPM < cfg.MinWPM {
		cfg.MaxWPM = cfg.MinWPM
	}
	return &Generator{cfg: cfg, rng: rng}
}

var (
	usPrefixes = []string{
		"K", "W", "N", "KA", "KB", "KC", "KD", "KE", "KF", "KG",
		"KI", "KJ", "KK", "KM", "KN", "KO", "KR", "KS", "KT", "KU",
		"WA", "WB", "WD", "WE", "WZ", "AA", "AB", "AC", "AD", "AE",
		"AF", "AG", "AI", "AJ", "AK", "NA", "ND", "NE", "NF", "NG",
	}
	dxPrefixes = []string{
		"DL", "G", "F", "I", "EA", "SM", "OH", "OZ", "PA", "ON",
		"HB9", "OE", "SP", "OK", "YU", "LZ", "UA", "JA", "VK", "ZL",
		"PY", "LU", "CE", "XE", "VE", "ZS", "9A", "S5", "EI", "GM",
	}
	suffixLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	names = []string{
		"JIM", "BOB", "JOHN", "DAVE", "MIKE", "STEVE", "BILL", "TOM",
		"DAN", "JOE", "FRED", "RICK", "CARL", "GARY", "HANK", "PETE",
		"ANN", "SUE", "KATE", "MARY", "JILL", "PAT", "ROB", "KEN",
		"AL", "ED", "ART", "RAY", "DON", "LEE", "MAX", "GUS",
	}
	states = []string{
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
		"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
		"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
		"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
		"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
	}
)

// Station generates one caller. Roughly one in four is DX; serial numbers
// count up across the session like a real contest log.
func (g *Generator) Station() Station {
	g.serial++
	return Station{
		ID:       uuid.NewString(),
		Callsign: g.callsign(),
		Name:     names[g.rng.Intn(len(names))],
		State:    states[g.rng.Intn(len(states))],
		Serial:   g.serial,
		CWOpsNr:  100 + g.rng.Intn(3500),
		Profile:  g.profile(),
	}
}

func (g *Generator) callsign() string {
	prefix := usPrefixes[g.rng.Intn(len(usPrefixes))]
	if g.rng.Intn(4) == 0 {
		prefix = dxPrefixes[g.rng.Intn(len(dxPrefixes))]
	}
	suffix := make([]byte, 1+g.rng.Intn(3))
	for i := range suffix {
		suffix[i] = suffixLetters[g.rng.Intn(len(suffixLetters))]
	}
	return fmt.Sprintf("%s%d%s", prefix, g.rng.Intn(10), suffix)
}

func (g *Generator) profile() cwaudio.StationProfile {
	cfg := g.cfg
	wpm := cfg.MinWPM + g.rng.Intn(cfg.MaxWPM-cfg.MinWPM+1)
	p := cwaudio.StationProfile{
		WPM:       wpm,
		Frequency: cfg.Pitch + (g.rng.Float64()*2-1)*cfg.PitchSpread,
		Volume:    0.25 + 0.5*g.rng.Float64(),
	}
	if cfg.Farnsworth && wpm <= cfg.MinWPM+2 {
		p.Farnsworth = true
		p.FarnsworthWPM = max(wpm-4, 5)
	}
	if cfg.QSB && g.rng.Intn(2) == 0 {
		p.QSB = true
		p.QSBDepth = 0.3 + g.rng.Float64()*max(cfg.MaxQSBDepth-0.3, 0)
		p.QSBFrequency = 0.1 + g.rng.Float64()*0.4
	}
	return p
}
