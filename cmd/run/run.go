// Package run implements the interactive pileup trainer: call CQ, copy the
// callers out of the pileup, complete the exchange, log the QSO.
package run

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cwkit/pileup/cmd/common"
	"github.com/cwkit/pileup/cmd/common/cwaudio"
	"github.com/cwkit/pileup/cmd/run/pileup"
)

type Params struct {
	Mode       string  `help:"Exchange mode: sst, cwt or contest." default:"sst"`
	MyCall     string  `short:"c" help:"Your callsign." default:"W1AW"`
	WPM        int     `short:"w" help:"Your sending speed." default:"25"`
	MinWPM     int     `help:"Slowest station speed." default:"18"`
	MaxWPM     int     `help:"Fastest station speed." default:"30"`
	Pitch      float64 `short:"p" help:"Sidetone pitch in Hz." default:"600"`
	MaxCallers int     `short:"m" help:"Largest pileup size." default:"3"`
	QSB        bool    `help:"Fading on some stations." default:"true"`
	Farnsworth bool    `help:"Slow stations use Farnsworth spacing." default:"true"`
	Noise      string  `short:"n" help:"Band noise: off, normal, moderate or heavy." default:"normal"`
	CopyLog    bool    `help:"Copy the results to the clipboard at the end." default:"false"`
	Silent     bool    `help:"Run without audio output." default:"false"`
	Seed       int64   `help:"Random seed, 0 picks one." default:"0"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "run",
		Short: "Interactive CW pileup trainer",
		Long: `Work a simulated pileup: press enter to call CQ, type the callsign you
copy, then the exchange. "agn" or "?" asks for a repeat, "qrs" slows the
sender down. Esc or ctrl+c ends the session and prints your log.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params); err != nil {
				fmt.Fprintf(os.Stderr, "run: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params) error {
	mode, err := pileup.ParseMode(params.Mode)
	if err != nil {
		return err
	}
	noise, err := cwaudio.ParseNoiseLevel(params.Noise)
	if err != nil {
		return err
	}
	if params.WPM < 1 || params.MinWPM < 1 || params.MaxWPM < params.MinWPM {
		return fmt.Errorf("invalid speeds: wpm=%d stations=%d..%d", params.WPM, params.MinWPM, params.MaxWPM)
	}
	if params.MaxCallers < 1 {
		return fmt.Errorf("max callers must be at least 1")
	}
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var opts []cwaudio.Option
	if params.Silent {
		opts = append(opts, cwaudio.Silent())
	}
	eng := cwaudio.NewEngine(opts...)
	defer eng.Close()
	eng.StartNoise(noise)

	rng := rand.New(rand.NewSource(seed))
	gen := pileup.NewGenerator(pileup.GenConfig{
		MinWPM:      params.MinWPM,
		MaxWPM:      params.MaxWPM,
		Pitch:       params.Pitch,
		PitchSpread: 150,
		Farnsworth:  params.Farnsworth,
		QSB:         params.QSB,
		MaxQSBDepth: 0.8,
	}, rng)

	m := newModel(eng, gen, mode, params, rng, noise)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}

	summary := m.log.Summary()
	fmt.Println(summary)
	if params.CopyLog {
		if err := clipboard.WriteAll(summary); err != nil {
			fmt.Fprintf(os.Stderr, "run: clipboard copy failed: %v\n", err)
		}
	}
	return nil
}

// cqText is the CQ the learner sends, per mode.
func cqText(mode pileup.Mode, myCall string) string {
	switch mode {
	case pileup.ModeCWT:
		return "cq cwt de " + strings.ToLower(myCall)
	case pileup.ModeContest:
		return "cq test de " + strings.ToLower(myCall)
	default:
		return "cq sst de " + strings.ToLower(myCall)
	}
}
