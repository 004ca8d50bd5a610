// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the msgpack
// command.
//
// The central type is [Command], which represents a named command with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and
// a Run function. [Command.Execute] handles flag parsing, subcommand
// routing, and structured help output with examples. A command with
// both Run and Subcommands treats an unmatched first argument as a
// positional argument for Run.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams]. When a user types an unknown subcommand or flag,
// the framework computes Levenshtein edit distance against all known
// names and suggests the closest match (threshold: distance <= 3).
//
// Errors caused by the invocation itself are returned as [ToolError]
// values so the caller can map them to a usage exit status.
package cli
