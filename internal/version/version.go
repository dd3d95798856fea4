package version

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Version holds the current build version. Override with
// -ldflags "-X github.com/thomaslty/ass-to-srt/internal/version.Version=v1.2.3".
var Version = "dev"

const (
	separator = "────────────────────────────────────────────────────────────"
	banner    = `
                   _                    _
  __ _ ______     | |_ ___     ___ _ __| |_
 / _' (_-<_-<_____|  _/ _ \___(_-<| '__|  _|
 \__,_/__/__/      \__\___/   /__/|_|   \__|
`
)

// Banner returns the ASCII-art project banner.
func Banner() string {
	return strings.Trim(banner, "\n")
}

// PrintBanner writes the decorated banner and version info to w (stdout if nil).
func PrintBanner(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, Banner())
	fmt.Fprintf(w, "\n  ass-to-srt %s\n", Version)
	fmt.Fprintf(w, "  Batch ASS/SSA → SRT Subtitle Converter\n")
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w)
}
