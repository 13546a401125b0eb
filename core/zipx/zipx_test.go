package zipx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, build func(zw *zip.Writer)) string {
	t.Helper()
	var buffer bytes.Buffer
	zw := zip.NewWriter(&buffer)
	build(zw)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	path := filepath.Join(t.TempDir(), "container.zip")
	if err := os.WriteFile(path, buffer.Bytes(), 0o600); err != nil {
		t.Fatalf("write zip: %v", err)
	}
	return path
}

func addEntry(t *testing.T, zw *zip.Writer, name string, data []byte, mode os.FileMode) {
	t.Helper()
	header := &zip.FileHeader{Name: name, Method: zip.Deflate}
	header.SetMode(mode)
	writer, err := zw.CreateHeader(header)
	if err != nil {
		t.Fatalf("create entry %s: %v", name, err)
	}
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("write entry %s: %v", name, err)
	}
}

func TestWriteDeterministicZipStableBytes(t *testing.T) {
	files := []File{
		{Path: "b.txt", Data: []byte("bee"), Mode: 0o644},
		{Path: "a.txt", Data: []byte("aye"), Mode: 0o644},
	}
	var first bytes.Buffer
	if err := WriteDeterministicZip(&first, files); err != nil {
		t.Fatalf("write first: %v", err)
	}
	reversed := []File{files[1], files[0]}
	var second bytes.Buffer
	if err := WriteDeterministicZip(&second, reversed); err != nil {
		t.Fatalf("write second: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("zip bytes differ across input orderings")
	}
}

func TestScanCleanArchive(t *testing.T) {
	path := writeZip(t, func(zw *zip.Writer) {
		addEntry(t, zw, "manifest.json", []byte("{}"), 0o644)
		addEntry(t, zw, "assets/video.mp4", []byte("abc"), 0o644)
	})
	container, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		_ = container.Close()
	}()
	if violation := Scan(container.Entries); violation != nil {
		t.Fatalf("unexpected violation: %+v", violation)
	}
}

func TestScanRejectsSymlink(t *testing.T) {
	path := writeZip(t, func(zw *zip.Writer) {
		addEntry(t, zw, "manifest.json", []byte("{}"), 0o644)
		addEntry(t, zw, "assets/link", []byte("../../etc/passwd"), os.ModeSymlink|0o777)
	})
	container, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		_ = container.Close()
	}()
	violation := Scan(container.Entries)
	if violation == nil {
		t.Fatalf("expected symlink violation")
	}
	if violation.Rule != RuleNoSymlinks {
		t.Fatalf("expected %s, got %s", RuleNoSymlinks, violation.Rule)
	}
	if violation.Message != MessageSymlink {
		t.Fatalf("unexpected message: %s", violation.Message)
	}
}

func TestScanRejectsUnsafePaths(t *testing.T) {
	cases := []string{
		"../evil.txt",
		"assets/../../evil.txt",
		"/etc/passwd",
		"C:/windows/evil.txt",
	}
	for _, name := range cases {
		path := writeZip(t, func(zw *zip.Writer) {
			addEntry(t, zw, name, []byte("x"), 0o644)
		})
		container, err := Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		violation := Scan(container.Entries)
		_ = container.Close()
		if violation == nil {
			t.Fatalf("expected violation for %s", name)
		}
		if violation.Rule != RuleSafePaths {
			t.Fatalf("expected %s for %s, got %s", RuleSafePaths, name, violation.Rule)
		}
	}
}

func TestScanReportsFirstViolationInEntryOrder(t *testing.T) {
	path := writeZip(t, func(zw *zip.Writer) {
		addEntry(t, zw, "../first.txt", []byte("x"), 0o644)
		addEntry(t, zw, "assets/link", []byte("target"), os.ModeSymlink|0o777)
	})
	container, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		_ = container.Close()
	}()
	violation := Scan(container.Entries)
	if violation == nil {
		t.Fatalf("expected violation")
	}
	if violation.Path != "../first.txt" {
		t.Fatalf("expected first entry to win, got %s", violation.Path)
	}
}

func TestLookupAndReadEntry(t *testing.T) {
	path := writeZip(t, func(zw *zip.Writer) {
		addEntry(t, zw, "assets/video.mp4", []byte("abc"), 0o644)
	})
	container, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		_ = container.Close()
	}()
	entry, ok := container.Lookup("assets/video.mp4")
	if !ok {
		t.Fatalf("entry not found")
	}
	data, err := ReadEntry(entry)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(data) != "abc" {
		t.Fatalf("unexpected data: %q", data)
	}
	digest, err := HashEntry(entry)
	if err != nil {
		t.Fatalf("hash entry: %v", err)
	}
	if digest != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("unexpected digest: %s", digest)
	}
}
