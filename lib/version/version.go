// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/wirebridge/msgpack/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// codecModules are the dependencies whose versions determine encoded
// output.
var codecModules = []string{
	"github.com/vmihailenco/msgpack/v5",
	"github.com/fxamacker/cbor/v2",
	"github.com/go-json-experiment/json",
	"github.com/goccy/go-json",
	"github.com/klauspost/compress",
	"github.com/pierrec/lz4/v4",
}

// Module is a linked dependency and its version.
type Module struct {
	Path    string
	Version string
}

// Info returns a formatted version string suitable for version output.
func Info() string {
	commit, dirty := commit()
	suffix := ""
	if dirty {
		suffix = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, commit, suffix, BuildTime)
}

// Full returns Info plus the Go version, platform, and codec versions.
func Full() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	for _, module := range Codecs() {
		fmt.Fprintf(&builder, "\n  %s %s", module.Path, module.Version)
	}
	return builder.String()
}

// Codecs returns the linked versions of the encoding libraries, in a
// fixed order. Returns nil when build information is unavailable.
func Codecs() []Module {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	linked := make(map[string]string, len(info.Deps))
	for _, dependency := range info.Deps {
		resolved := dependency
		if dependency.Replace != nil {
			resolved = dependency.Replace
		}
		linked[dependency.Path] = resolved.Version
	}

	var modules []Module
	for _, path := range codecModules {
		if version, ok := linked[path]; ok {
			modules = append(modules, Module{Path: path, Version: version})
		}
	}
	return modules
}

// commit returns the injected commit, falling back to the toolchain's
// VCS stamp.
func commit() (string, bool) {
	if GitCommit != "unknown" {
		return GitCommit, false
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return GitCommit, false
	}
	revision, dirty := GitCommit, false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return revision, dirty
}
