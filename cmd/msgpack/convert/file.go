// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wirebridge/msgpack/lib/transcode"
)

// FileError reports a file that could not be opened or created. It is
// distinct from an *transcode.IOError, which is a failure while
// reading or writing an already open stream.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// atomicFile writes to a temporary file in the destination's
// directory. Commit renames it over the destination; Abort removes it
// and leaves the destination as it was.
type atomicFile struct {
	file          *os.File
	path          string
	temporaryPath string
}

func createAtomic(path string) (*atomicFile, error) {
	directory := filepath.Dir(path)
	file, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, &FileError{Op: "create", Path: path, Err: err}
	}
	return &atomicFile{file: file, path: path, temporaryPath: file.Name()}, nil
}

func (a *atomicFile) Write(data []byte) (int, error) {
	return a.file.Write(data)
}

// Commit syncs, closes, and renames the temporary file into place,
// then syncs the parent directory so the rename is durable. If any
// step fails the temporary file is removed.
func (a *atomicFile) Commit() error {
	if err := a.file.Sync(); err != nil {
		a.Abort()
		return &transcode.IOError{Op: "write", Name: a.path, Err: fmt.Errorf("syncing: %w", err)}
	}
	if err := a.file.Close(); err != nil {
		os.Remove(a.temporaryPath)
		return &transcode.IOError{Op: "write", Name: a.path, Err: fmt.Errorf("closing: %w", err)}
	}
	// CreateTemp uses 0600; give the result the permissions a plain
	// create would.
	if err := os.Chmod(a.temporaryPath, 0644); err != nil {
		os.Remove(a.temporaryPath)
		return &transcode.IOError{Op: "write", Name: a.path, Err: fmt.Errorf("setting permissions: %w", err)}
	}
	if err := os.Rename(a.temporaryPath, a.path); err != nil {
		os.Remove(a.temporaryPath)
		return &FileError{Op: "replace", Path: a.path, Err: err}
	}

	parentDirectory, err := os.Open(filepath.Dir(a.path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}
	return nil
}

// Abort discards everything written.
func (a *atomicFile) Abort() {
	a.file.Close()
	os.Remove(a.temporaryPath)
}
