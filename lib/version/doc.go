// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the msgpack
// command.
//
// Three package-level variables may be injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// When GitCommit is not injected it is taken from the VCS stamp the Go
// toolchain embeds in the binary, if any.
//
// [Codecs] reports the module versions of the encoding libraries linked
// into the binary, which is what decides the exact byte output.
package version
