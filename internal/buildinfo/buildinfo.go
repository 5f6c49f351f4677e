// Package buildinfo prints the startup banner and the version stamped in at
// link time:
//
//	go build -ldflags "-X github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/buildinfo.buildVersion=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintBuildData writes an ASCII-art banner for app followed by build metadata.
func PrintBuildData(w io.Writer, app string) {
	fmt.Fprint(w, figure.NewFigure(app, "cybermedium", true).String())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Build version: %s\n", valueOrNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", valueOrNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", valueOrNA(buildCommit))
}
