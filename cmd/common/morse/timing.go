package morse

// Timing holds the five element durations, in seconds, derived from a
// words-per-minute speed. PARIS = 50 units, so one unit is 60/(50*wpm)
// = 1.2/wpm seconds.
type Timing struct {
	Dot         float64 // one unit
	Dash        float64 // three units
	IntraSymbol float64 // gap between dots/dashes inside a letter
	InterLetter float64 // gap between letters
	InterWord   float64 // gap between words
}

// StandardTiming computes element durations at full character speed.
func StandardTiming(wpm int) Timing {
	if wpm < 1 {
		wpm = 1
	}
	u := 1.2 / float64(wpm)
	return Timing{
		Dot:         u,
		Dash:        3 * u,
		IntraSymbol: u,
		InterLetter: 3 * u,
		InterWord:   7 * u,
	}
}

// FarnsworthTiming keeps characters at full wpm speed but stretches the
// inter-letter and inter-word gaps to the slower spacing speed. Intra-letter
// timing is unaffected, which is the defining property of Farnsworth
// spacing.
func FarnsworthTiming(wpm, spacingWPM int) Timing {
	if spacingWPM < 1 {
		spacingWPM = wpm
	}
	t := StandardTiming(wpm)
	fu := 1.2 / float64(max(spacingWPM, 1))
	t.InterLetter = 3 * fu
	t.InterWord = 7 * fu
	return t
}

// SymbolDuration returns the duration of one '.' or '-' element.
func (t Timing) SymbolDuration(symbol byte) float64 {
	if symbol == '-' {
		return t.Dash
	}
	return t.Dot
}
