// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wirebridge/msgpack/lib/transcode"
)

func TestAtomicFile_Commit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.msgpack")
	file, err := createAtomic(path)
	if err != nil {
		t.Fatalf("createAtomic: %v", err)
	}
	if _, err := file.Write([]byte{0x80}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := file.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
	if _, err := os.Stat(file.temporaryPath); !os.IsNotExist(err) {
		t.Errorf("temporary file still present (stat error %v)", err)
	}
}

func TestAtomicFile_CommitFailureIsIOError(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "out.msgpack")
	file, err := createAtomic(path)
	if err != nil {
		t.Fatalf("createAtomic: %v", err)
	}
	// Sync on a closed file fails.
	file.file.Close()

	err = file.Commit()
	var ioErr *transcode.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Commit error = %T %v, want *transcode.IOError", err, err)
	}
	if ioErr.Name != path {
		t.Errorf("Name = %q, want %q", ioErr.Name, path)
	}
	if code := ExitCode(err); code != ExitIO {
		t.Errorf("ExitCode = %d, want %d", code, ExitIO)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("files left behind: %d", len(entries))
	}
}
