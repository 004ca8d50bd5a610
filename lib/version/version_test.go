// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoInjectedCommit(t *testing.T) {
	savedCommit, savedTime := GitCommit, BuildTime
	t.Cleanup(func() { GitCommit, BuildTime = savedCommit, savedTime })

	GitCommit = "abc1234"
	BuildTime = "2026-10-19T00:00:00Z"

	want := Version + " (abc1234, 2026-10-19T00:00:00Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestFullIncludesPlatform(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Version) {
		t.Errorf("Full() = %q, want prefix %q", full, Version)
	}
	if !strings.Contains(full, "Platform: ") {
		t.Errorf("Full() = %q, missing platform line", full)
	}
}

func TestCodecsOrder(t *testing.T) {
	// Test binaries carry build info for their dependencies, but the
	// set depends on what the test links, so only ordering is checked.
	modules := Codecs()
	position := make(map[string]int, len(codecModules))
	for index, path := range codecModules {
		position[path] = index
	}
	for index := 1; index < len(modules); index++ {
		if position[modules[index-1].Path] > position[modules[index].Path] {
			t.Errorf("codecs out of order: %s before %s", modules[index-1].Path, modules[index].Path)
		}
	}
	for _, module := range modules {
		if _, known := position[module.Path]; !known {
			t.Errorf("unexpected module %s", module.Path)
		}
	}
}
