package fsx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicCreatesAndOverwrites(t *testing.T) {
	target := filepath.Join(t.TempDir(), "package.aifv")

	if err := WriteFileAtomic(target, []byte("first"), 0o600); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(target, []byte("second"), 0o600); err != nil {
		t.Fatalf("second write: %v", err)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != "second" {
		t.Fatalf("unexpected content: %q", string(content))
	}
}

func TestWriteFileAtomicLeavesNoTempOnSuccess(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.aifm")
	if err := WriteFileAtomic(target, []byte("data"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the destination file, found %d entries", len(entries))
	}
}

func TestAppendLineLocked(t *testing.T) {
	target := filepath.Join(t.TempDir(), "audit.log")

	if err := AppendLineLocked(target, []byte(`{"tool":"validate","ok":true}`), 0o600); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendLineLocked(target, []byte(`{"tool":"pack","ok":false}`), 0o600); err != nil {
		t.Fatalf("second append: %v", err)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\"tool\":\"validate\",\"ok\":true}\n{\"tool\":\"pack\",\"ok\":false}\n"
	if string(content) != want {
		t.Fatalf("unexpected audit content: %q", string(content))
	}
	if _, err := os.Stat(target + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("lock file left behind")
	}
}

func TestAppendLineLockedRejectsTraversal(t *testing.T) {
	if err := AppendLineLocked("../outside.log", []byte("x"), 0o600); err == nil {
		t.Fatalf("expected error for parent traversal path")
	}
}
