package pileup

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
)

// QSO is one completed (or attempted) contact in the session log.
type QSO struct {
	ID       string
	When     time.Time
	Callsign string
	Sent     string // what the station sent
	Copied   string // what the learner logged
	Result   Match
	Repeats  int // how many repeats the learner asked for
}

// Log accumulates the session's contacts.
type Log struct {
	Started time.Time
	qsos    []QSO
}

func NewLog() *Log {
	return &Log{Started: time.Now()}
}

// Add records a contact and returns it with its assigned id.
func (l *Log) Add(q QSO) QSO {
	q.ID = uuid.NewString()
	q.When = time.Now()
	l.qsos = append(l.qsos, q)
	return q
}

// QSOs returns the logged contacts in order.
func (l *Log) QSOs() []QSO {
	return l.qsos
}

// Perfect counts fully correct contacts.
func (l *Log) Perfect() int {
	n := 0
	for _, q := range l.qsos {
		if q.Result == MatchPerfect {
			n++
		}
	}
	return n
}

// Accuracy is the fraction of logged contacts copied perfectly.
func (l *Log) Accuracy() float64 {
	if len(l.qsos) == 0 {
		return 0
	}
	return float64(l.Perfect()) / float64(len(l.qsos))
}

// Summary renders the session results as a table plus a score line.
func (l *Log) Summary() string {
	var sb strings.Builder

	t := table.NewWriter()
	t.SetOutputMirror(&sb)
	t.AppendHeader(table.Row{"#", "Callsign", "Sent", "Copied", "Result", "Repeats"})
	for i, q := range l.qsos {
		t.AppendRow(table.Row{i + 1, q.Callsign, q.Sent, q.Copied, q.Result.String(), q.Repeats})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	elapsed := time.Since(l.Started).Round(time.Second)
	fmt.Fprintf(&sb, "\n%d QSOs, %d perfect (%.0f%%) in %s\n",
		len(l.qsos), l.Perfect(), l.Accuracy()*100, elapsed)
	return sb.String()
}
