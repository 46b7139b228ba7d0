// Package version holds the application identity and build metadata
// printed by the "version" subcommand and the CLI's startup banner.
package version

import (
	"fmt"
	"strings"
	"time"
)

// Info describes an application's name, semantic version, and build id.
type Info struct {
	AppName       string
	FullName      string
	MajVer        int
	MinVer        int
	PatchLevel    int
	BuildID       string
	CopyrightNote string
}

// New returns an Info for the given app name and semantic version.
func New(appName string, majVer, minVer, patchLevel int) Info {
	return Info{AppName: appName, MajVer: majVer, MinVer: minVer, PatchLevel: patchLevel}
}

// VersionString renders "major.minor.patch (Build id: ...)".
func (i Info) VersionString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", i.MajVer, i.MinVer, i.PatchLevel)
	fmt.Fprintf(&b, " (Build id: %s)\n", i.BuildID)
	return b.String()
}

// Banner renders the multi-line startup banner: app name, copyright with
// the current year, and version/build id.
func (i Info) Banner() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", i.AppName, i.FullName)
	fmt.Fprintf(&b, "(c) %s (%d)\n", i.CopyrightNote, time.Now().Year())
	fmt.Fprintf(&b, "Version  : %d.%d.%d\n", i.MajVer, i.MinVer, i.PatchLevel)
	fmt.Fprintf(&b, "Build id : %s\n", i.BuildID)
	return b.String()
}

// String implements fmt.Stringer as the full banner.
func (i Info) String() string { return i.Banner() }
