package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Overridden at release time with -ldflags "-X main.version=...".
var (
	version = ""
	commit  = ""
	date    = ""
)

const (
	develVersion = "(devel)"
	unknown      = "unknown"
	shortSHALen  = 7
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Platform  string
}

// currentBuildInfo merges the ldflags values with the module and VCS data
// the Go toolchain embeds. Link-time values win.
func currentBuildInfo() buildInfo {
	info := buildInfo{
		Version:   develVersion,
		Commit:    unknown,
		Date:      unknown,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = shortSHA(s.Value)
			case "vcs.time":
				info.Date = s.Value
			}
		}
	}

	if version != "" {
		info.Version = version
	}
	if commit != "" {
		info.Commit = commit
	}
	if date != "" {
		info.Date = date
	}
	return info
}

func shortSHA(rev string) string {
	if len(rev) > shortSHALen {
		return rev[:shortSHALen]
	}
	return rev
}

// getVersion returns the version shown by --version.
func getVersion() string {
	return currentBuildInfo().Version
}

func (b buildInfo) write(w io.Writer) {
	fmt.Fprintf(w, "spdoc version %s\n", b.Version)
	fmt.Fprintf(w, "  commit: %s\n", b.Commit)
	fmt.Fprintf(w, "  built:  %s\n", b.Date)
	fmt.Fprintf(w, "  go:     %s %s\n", b.GoVersion, b.Platform)
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit, build date and Go toolchain of spdoc.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			currentBuildInfo().write(cmd.OutOrStdout())
		},
	}
}
