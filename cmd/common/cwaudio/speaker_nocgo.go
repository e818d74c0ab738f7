//go:build linux && !cgo

package cwaudio

import "errors"

// ErrAudioUnavailable is returned where a build has no audio backend
// (linux without CGO). The engine falls back to silent operation.
var ErrAudioUnavailable = errors.New("audio playback requires CGO on linux")

func openSpeakerOutput() (output, error) {
	return nil, ErrAudioUnavailable
}
