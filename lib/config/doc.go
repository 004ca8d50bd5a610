// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the msgpack
// command.
//
// Configuration is loaded from a single file specified by either the
// MSGPACK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search. When neither is given the command runs on [Default].
//
// Keys not defined by [Config] are rejected, so a misspelled key is an
// error rather than a silently ignored setting. Command-line flags
// override values from the file.
//
// This package depends on no other packages of this module.
package config
