package pileup

import (
	"fmt"
	"strings"
)

// Mode selects the exchange format stations send and the copy the learner
// is graded on.
type Mode int

const (
	// ModeSST: name and state, slow-speed-test style.
	ModeSST Mode = iota
	// ModeCWT: name and CWops member number.
	ModeCWT
	// ModeContest: 5NN and a running serial number.
	ModeContest
)

// ParseMode parses a mode name as used on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "sst":
		return ModeSST, nil
	case "cwt":
		return ModeCWT, nil
	case "contest", "serial":
		return ModeContest, nil
	}
	return ModeSST, fmt.Errorf("unknown mode %q (sst, cwt, contest)", s)
}

func (m Mode) String() string {
	switch m {
	case ModeCWT:
		return "cwt"
	case ModeContest:
		return "contest"
	default:
		return "sst"
	}
}

// Exchange returns the sentence a station sends after its callsign is
// copied. Contest reports use cut numbers (5NN).
func (m Mode) Exchange(st Station) string {
	switch m {
	case ModeCWT:
		return fmt.Sprintf("%s %d", st.Name, st.CWOpsNr)
	case ModeContest:
		return fmt.Sprintf("5nn %d", st.Serial)
	default:
		return fmt.Sprintf("%s %s", st.Name, st.State)
	}
}

// ExpectedCopy returns what the learner must log for a full contact: the
// same fields as the audio exchange, graded after normalization.
func (m Mode) ExpectedCopy(st Station) string {
	switch m {
	case ModeCWT:
		return fmt.Sprintf("%s %d", st.Name, st.CWOpsNr)
	case ModeContest:
		return fmt.Sprintf("%d", st.Serial)
	default:
		return fmt.Sprintf("%s %s", st.Name, st.State)
	}
}
