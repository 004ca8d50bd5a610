// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/wirebridge/msgpack/cmd/msgpack/convert"
)

func main() {
	os.Exit(run(os.Args[1:], convert.Streams{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}

// run executes the command and returns the process exit status.
func run(args []string, streams convert.Streams) int {
	err := convert.Root(streams).Execute(args)
	if err == nil {
		return 0
	}
	reportFailure(streams.Stderr, err)
	return convert.ExitCode(err)
}

func reportFailure(stderr io.Writer, err error) {
	fmt.Fprintf(stderr, "error: %v\n", err)
	fmt.Fprintln(stderr, "Command failed, exiting")
}
