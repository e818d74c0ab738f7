// Package morse encodes text to Morse code notation and back, optionally
// sounding the result through the audio engine.
package morse

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/cwkit/pileup/cmd/common"
	"github.com/cwkit/pileup/cmd/common/cwaudio"
	"github.com/cwkit/pileup/cmd/common/morse"
)

type Params struct {
	Text   []string `pos:"true" optional:"true" help:"Text to encode/decode. If none provided, reads from stdin."`
	Decode bool     `short:"d" help:"Decode morse code to text." default:"false"`
	Beep   bool     `short:"b" help:"Play the text as audio while encoding (requires CGO on Linux)." default:"false"`
	WPM    int      `short:"w" help:"Words per minute for audio playback." default:"15"`
	Pitch  float64  `short:"p" help:"Tone pitch in Hz." default:"600"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "morse",
		Short:       "Encode/decode Morse code",
		Long:        "Convert text to Morse code or decode Morse code back to text. Use -b for audio.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params); err != nil {
				fmt.Fprintf(os.Stderr, "morse: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params) error {
	if params.WPM < 1 {
		return fmt.Errorf("wpm must be at least 1, got %d", params.WPM)
	}

	var eng *cwaudio.Engine
	if params.Beep && !params.Decode {
		eng = cwaudio.NewEngine()
		defer eng.Close()
	}

	handle := func(line string) {
		if params.Decode {
			fmt.Println(morse.Decode(line))
			return
		}
		fmt.Println(morse.Encode(line))
		if eng != nil {
			play(eng, line, params)
		}
	}

	if len(params.Text) > 0 {
		handle(strings.Join(params.Text, " "))
		return nil
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		handle(scanner.Text())
	}
	return scanner.Err()
}

func play(eng *cwaudio.Engine, text string, params *Params) {
	sess := eng.CreateToneSession("morse", cwaudio.StationProfile{
		WPM:       params.WPM,
		Frequency: params.Pitch,
		Volume:    0.5,
	})
	eng.UpdateLock(sess.Schedule(text, eng.Now()+0.1))
	for eng.IsLocked() {
		time.Sleep(20 * time.Millisecond)
	}
	eng.RemoveSession("morse")
}
