package run

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwkit/pileup/cmd/common/cwaudio"
	"github.com/cwkit/pileup/cmd/run/pileup"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("215"))
	txStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	rxStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	meStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle = lipgloss.NewStyle().Bold(true)
)

type phase int

const (
	phaseIdle     phase = iota // waiting for the learner to call CQ
	phaseCopy                  // pileup answered; copy a callsign
	phaseExchange              // copy the chosen station's exchange
)

const learnerSessionID = "learner"

type tickMsg time.Time

type model struct {
	eng  *cwaudio.Engine
	gen  *pileup.Generator
	mode pileup.Mode
	rng  *rand.Rand

	myCall     string
	maxCallers int
	noise      cwaudio.NoiseLevel

	me *cwaudio.ToneSession

	phase   phase
	callers []pileup.Station
	chosen  int // index into callers, -1 when none
	repeats int

	input string
	lines []string
	log   *pileup.Log

	transcriptRows int
}

func newModel(eng *cwaudio.Engine, gen *pileup.Generator, mode pileup.Mode, params *Params, rng *rand.Rand, noise cwaudio.NoiseLevel) *model {
	me := eng.CreateToneSession(learnerSessionID, cwaudio.StationProfile{
		WPM:       params.WPM,
		Frequency: params.Pitch,
		Volume:    0.35,
	})
	return &model{
		eng:            eng,
		gen:            gen,
		mode:           mode,
		rng:            rng,
		myCall:         strings.ToUpper(params.MyCall),
		maxCallers:     params.MaxCallers,
		noise:          noise,
		me:             me,
		chosen:         -1,
		log:            pileup.NewLog(),
		transcriptRows: 12,
	}
}

func (m *model) Init() tea.Cmd {
	m.say(hintStyle, "press enter to call CQ")
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		switch s := msg.String(); s {
		case "ctrl+c", "esc":
			m.eng.StopAll()
			return m, tea.Quit
		case "enter":
			m.submit()
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
				m.input += s
			}
		}
	}
	return m, nil
}

func (m *model) submit() {
	text := strings.TrimSpace(m.input)
	m.input = ""

	if m.eng.IsLocked() {
		m.say(hintStyle, "still sending, wait for the band to clear")
		return
	}

	switch m.phase {
	case phaseIdle:
		m.callCQ()
	case phaseCopy:
		m.copyPhase(text)
	case phaseExchange:
		m.exchangePhase(text)
	}
}

// callCQ sends the learner's CQ and raises a fresh pileup behind it. The
// lock is extended to the latest finisher among all scheduled stations.
func (m *model) callCQ() {
	m.clearCallers()

	cq := cqText(m.mode, m.myCall)
	m.say(meStyle, "-> "+strings.ToUpper(cq))
	end := m.me.Schedule(cq, m.eng.Now()+0.2)
	m.eng.UpdateLock(end)

	n := 1 + m.rng.Intn(m.maxCallers)
	for i := 0; i < n; i++ {
		st := m.gen.Station()
		sess := m.eng.CreateToneSession(st.ID, st.Profile)
		start := end + 0.25 + m.rng.Float64()*0.8
		m.eng.UpdateLock(sess.Schedule(strings.ToLower(st.Callsign), start))
		m.callers = append(m.callers, st)
	}
	m.say(hintStyle, fmt.Sprintf("%d station(s) calling, type the callsign you copy", n))
	m.phase = phaseCopy
	m.repeats = 0
}

func (m *model) copyPhase(text string) {
	switch strings.ToLower(text) {
	case "":
		return
	case "agn", "?":
		m.repeats++
		m.resendCallers()
		return
	case "qrs":
		m.qrsCallers()
		return
	}

	idx, match := pileup.BestMatch(m.callers, text)
	switch match {
	case pileup.MatchPerfect:
		m.chosen = idx
		st := m.callers[idx]
		m.say(meStyle, "-> "+strings.ToUpper(text))
		end := m.me.Schedule(strings.ToLower(text), m.eng.Now()+0.2)
		reply := m.mode.Exchange(st)
		end = m.sessionFor(st).Schedule(strings.ToLower(reply), end+0.4)
		m.eng.UpdateLock(end)
		m.say(hintStyle, "exchange coming, type what you copy")
		m.phase = phaseExchange
	case pileup.MatchPartial:
		st := m.callers[idx]
		m.say(meStyle, "-> "+strings.ToUpper(text)+"?")
		call := strings.ToLower(st.Callsign)
		end := m.sessionFor(st).Schedule(call+" "+call, m.eng.Now()+0.5)
		m.eng.UpdateLock(end)
		m.say(hintStyle, "close, the station repeats its call")
	default:
		m.say(hintStyle, "no takers, the pileup calls again")
		m.resendCallers()
	}
}

func (m *model) exchangePhase(text string) {
	st := m.callers[m.chosen]
	switch strings.ToLower(text) {
	case "":
		return
	case "agn", "?":
		m.repeats++
		m.resendExchange(st)
		return
	case "qrs":
		m.qrsStation(m.chosen)
		m.resendExchange(st)
		return
	}

	expected := m.mode.ExpectedCopy(st)
	result := pileup.Classify(expected, text)
	switch result {
	case pileup.MatchPerfect:
		tu := "tu de " + strings.ToLower(m.myCall)
		m.say(meStyle, "-> "+strings.ToUpper(tu))
		m.eng.UpdateLock(m.me.Schedule(tu, m.eng.Now()+0.2))
		m.log.Add(pileup.QSO{
			Callsign: st.Callsign,
			Sent:     m.mode.Exchange(st),
			Copied:   text,
			Result:   result,
			Repeats:  m.repeats,
		})
		m.say(rxStyle, fmt.Sprintf("QSO with %s logged (%d total)", st.Callsign, len(m.log.QSOs())))
		m.clearCallers()
		m.phase = phaseIdle
		m.say(hintStyle, "press enter to call CQ")
	default:
		m.say(hintStyle, fmt.Sprintf("copy was %s, sending again", result))
		m.repeats++
		m.resendExchange(st)
	}
}

func (m *model) resendCallers() {
	base := m.eng.Now() + 0.3
	for _, st := range m.callers {
		start := base + m.rng.Float64()*0.8
		m.eng.UpdateLock(m.sessionFor(st).Schedule(strings.ToLower(st.Callsign), start))
	}
}

func (m *model) resendExchange(st pileup.Station) {
	reply := strings.ToLower(m.mode.Exchange(st))
	m.eng.UpdateLock(m.sessionFor(st).Schedule(reply, m.eng.Now()+0.4))
}

// qrsCallers slows the whole pileup down by superseding every station's
// session with a Farnsworth-spaced profile.
func (m *model) qrsCallers() {
	for i := range m.callers {
		m.qrsStation(i)
	}
	m.say(hintStyle, "qrs, the pileup slows down")
	m.resendCallers()
}

func (m *model) qrsStation(i int) {
	st := &m.callers[i]
	st.Profile = st.Profile.Slowed(max(st.Profile.WPM-8, 8))
	m.eng.CreateToneSession(st.ID, st.Profile)
}

func (m *model) sessionFor(st pileup.Station) *cwaudio.ToneSession {
	if s := m.eng.Session(st.ID); s != nil {
		return s
	}
	return m.eng.CreateToneSession(st.ID, st.Profile)
}

func (m *model) clearCallers() {
	for _, st := range m.callers {
		m.eng.RemoveSession(st.ID)
	}
	m.callers = nil
	m.chosen = -1
}

func (m *model) say(style lipgloss.Style, line string) {
	m.lines = append(m.lines, style.Render(line))
	if len(m.lines) > 200 {
		m.lines = m.lines[len(m.lines)-200:]
	}
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("pileup trainer [%s] de %s", m.mode, m.myCall)))
	b.WriteString("\n\n")

	start := 0
	if len(m.lines) > m.transcriptRows {
		start = len(m.lines) - m.transcriptRows
	}
	for _, l := range m.lines[start:] {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(promptStyle.Render("> " + m.input))
	b.WriteString("\n")

	status := "band clear"
	if m.eng.IsLocked() {
		status = txStyle.Render("● sending")
	}
	noise := "noise " + m.noise.String()
	if !m.eng.IsNoisePlaying() {
		noise = "noise off"
	}
	b.WriteString(hintStyle.Render(fmt.Sprintf("%s | %s | %d qso | esc to quit", status, noise, len(m.log.QSOs()))))
	b.WriteString("\n")
	return b.String()
}
