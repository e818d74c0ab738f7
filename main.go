package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/cwkit/pileup/cmd/morse"
	"github.com/cwkit/pileup/cmd/play"
	"github.com/cwkit/pileup/cmd/run"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "pileup",
		Short:   "CW pileup trainer and Morse audio toolbox",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			run.Cmd(),
			play.Cmd(),
			morse.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuilInfo := debug.ReadBuildInfo()
	if !hasBuilInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
