// Package play sends a single piece of text as CW and exits when it has
// finished sounding.
package play

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/cwkit/pileup/cmd/common"
	"github.com/cwkit/pileup/cmd/common/cwaudio"
)

type Params struct {
	Text          []string `pos:"true" help:"Text to send. Prosigns go in angle brackets, e.g. <ar>."`
	WPM           int      `short:"w" help:"Character speed in words per minute." default:"20"`
	Farnsworth    bool     `short:"f" help:"Stretch spacing to a slower effective speed." default:"false"`
	FarnsworthWPM int      `help:"Effective speed when --farnsworth is set." default:"10"`
	Pitch         float64  `short:"p" help:"Tone pitch in Hz." default:"600"`
	Volume        float64  `help:"Playback volume, 0..1." default:"0.5"`
	QSBDepth      float64  `help:"Fading depth, 0..1. Zero disables fading." default:"0"`
	QSBRate       float64  `help:"Fading rate in Hz." default:"0.2"`
	Noise         string   `short:"n" help:"Band noise: off, normal, moderate or heavy." default:"off"`
	Silent        bool     `help:"Render without audio output (timing dry run)." default:"false"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "play <text>...",
		Short:       "Play text as Morse code",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params) error {
	text := strings.TrimSpace(strings.Join(params.Text, " "))
	if text == "" {
		return fmt.Errorf("nothing to play")
	}
	noise, err := cwaudio.ParseNoiseLevel(params.Noise)
	if err != nil {
		return err
	}
	if params.WPM < 1 {
		return fmt.Errorf("wpm must be at least 1, got %d", params.WPM)
	}
	if params.Volume < 0 || params.Volume > 1 {
		return fmt.Errorf("volume must be in 0..1, got %v", params.Volume)
	}
	if params.QSBDepth < 0 || params.QSBDepth > 1 {
		return fmt.Errorf("qsb depth must be in 0..1, got %v", params.QSBDepth)
	}

	prof := cwaudio.StationProfile{
		WPM:          params.WPM,
		Frequency:    params.Pitch,
		Volume:       params.Volume,
		QSB:          params.QSBDepth > 0,
		QSBDepth:     params.QSBDepth,
		QSBFrequency: params.QSBRate,
	}
	if params.Farnsworth {
		prof = prof.Slowed(params.FarnsworthWPM)
	}

	var opts []cwaudio.Option
	if params.Silent {
		opts = append(opts, cwaudio.Silent())
	}
	eng := cwaudio.NewEngine(opts...)
	defer eng.Close()
	eng.StartNoise(noise)

	sess := eng.CreateToneSession("play", prof)
	end := sess.Schedule(text, eng.Now()+0.1)
	eng.UpdateLock(end)

	for eng.IsLocked() {
		time.Sleep(20 * time.Millisecond)
	}
	eng.StopNoise(true)
	// let the noise fade run out before the speaker closes
	time.Sleep(400 * time.Millisecond)
	return nil
}
