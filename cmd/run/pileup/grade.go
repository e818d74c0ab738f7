package pileup

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Match is the grading verdict for a learner's copy.
type Match int

const (
	MatchNone Match = iota
	MatchPartial
	MatchPerfect
)

func (m Match) String() string {
	switch m {
	case MatchPerfect:
		return "perfect"
	case MatchPartial:
		return "partial"
	default:
		return "none"
	}
}

// Classify grades userInput against expected: exact after normalization is
// perfect; within a small edit distance (absolute 2, or a third of the
// expected length for long exchanges) is partial; anything else is none.
// Callers react only to the verdict.
func Classify(expected, userInput string) Match {
	want := normalize(expected)
	got := normalize(userInput)
	if want == "" || got == "" {
		return MatchNone
	}
	if want == got {
		return MatchPerfect
	}
	d := levenshtein.ComputeDistance(want, got)
	if d <= 2 || d*3 <= len(want) {
		return MatchPartial
	}
	return MatchNone
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// BestMatch grades input against every caller's callsign and returns the
// index of the best candidate with its verdict. Perfect beats partial;
// among partials the smallest edit distance wins. Returns -1 when nothing
// matches at all.
func BestMatch(callers []Station, input string) (int, Match) {
	best := -1
	bestMatch := MatchNone
	bestDist := int(^uint(0) >> 1)
	got := normalize(input)
	for i, st := range callers {
		m := Classify(st.Callsign, input)
		if m == MatchNone {
			continue
		}
		d := levenshtein.ComputeDistance(normalize(st.Callsign), got)
		if m > bestMatch || (m == bestMatch && d < bestDist) {
			best, bestMatch, bestDist = i, m, d
		}
	}
	return best, bestMatch
}
