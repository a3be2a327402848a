// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags at build time.
var (
	GitCommit = "unknown"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// buildInfo is replaced in tests.
var buildInfo = debug.ReadBuildInfo

// Info returns "version (commit, time)" for --version output.
func Info() string {
	version, commit, built, dirty := Version, GitCommit, BuildTime, false
	if info, ok := buildInfo(); ok {
		if version == "0.1.0-dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if commit == "unknown" && len(setting.Value) >= 7 {
					commit = setting.Value[:7]
				}
			case "vcs.time":
				if built == "unknown" {
					built = setting.Value
				}
			case "vcs.modified":
				dirty = setting.Value == "true"
			}
		}
	}
	if dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, built)
}

// Print writes "name version (commit, time) go/os/arch" to writer.
func Print(writer io.Writer, name string) {
	fmt.Fprintf(writer, "%s %s %s %s/%s\n", name, Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
