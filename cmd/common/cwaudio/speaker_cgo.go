//go:build (linux && cgo) || windows || darwin

package cwaudio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// bufferLength balances latency against underruns; a tenth of a second is
// plenty for scheduled (non-live) playback.
const bufferLength = time.Second / 10

// speakerOutput plays the mixer through the system audio device.
type speakerOutput struct{}

func openSpeakerOutput() (output, error) {
	sr := beep.SampleRate(SampleRate)
	if err := speaker.Init(sr, sr.N(bufferLength)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	return speakerOutput{}, nil
}

func (speakerOutput) start(e *Engine) {
	speaker.Play(rootStreamer{e})
}

func (speakerOutput) lock()   { speaker.Lock() }
func (speakerOutput) unlock() { speaker.Unlock() }
func (speakerOutput) close()  { speaker.Close() }
