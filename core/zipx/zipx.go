// Package zipx handles AIFX container archives: deterministic zip output for
// the packager and safety-scanned, size-limited reads for the validator.
package zipx

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type File struct {
	Path string
	Data []byte
	Mode os.FileMode
}

const fixedTime = "1980-01-01T00:00:00Z"

const maxEntryBytes = int64(2 * 1024 * 1024 * 1024)

// WriteDeterministicZip writes a byte-stable zip to the provided writer:
// entries sorted by path, fixed timestamps, normalized modes.
func WriteDeterministicZip(w io.Writer, files []File) error {
	if len(files) == 0 {
		return nil
	}
	items := make([]File, len(files))
	copy(items, files)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})
	t, _ := time.Parse(time.RFC3339, fixedTime)
	zw := zip.NewWriter(w)
	for _, f := range items {
		h := &zip.FileHeader{
			Name:   filepath.ToSlash(f.Path),
			Method: zip.Deflate,
		}
		h.Modified = t
		h.SetMode(normalizeMode(f.Mode))
		wr, err := zw.CreateHeader(h)
		if err != nil {
			_ = zw.Close()
			return err
		}
		if _, err := io.Copy(wr, bytes.NewReader(f.Data)); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

func normalizeMode(mode os.FileMode) os.FileMode {
	if mode == 0 {
		return 0o644
	}
	if mode&0o111 != 0 {
		return 0o755
	}
	return 0o644
}

// Container is a read-only view over an opened archive.
type Container struct {
	reader  *zip.ReadCloser
	Entries []*zip.File
}

func Open(path string) (*Container, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	return &Container{reader: reader, Entries: reader.File}, nil
}

func (c *Container) Close() error {
	return c.reader.Close()
}

// Lookup finds an entry by slash-normalized name.
func (c *Container) Lookup(name string) (*zip.File, bool) {
	for _, entry := range c.Entries {
		if filepath.ToSlash(entry.Name) == name {
			return entry, true
		}
	}
	return nil, false
}

// Names returns the slash-normalized set of entry names.
func (c *Container) Names() map[string]bool {
	names := make(map[string]bool, len(c.Entries))
	for _, entry := range c.Entries {
		names[filepath.ToSlash(entry.Name)] = true
	}
	return names
}

func ReadEntry(entry *zip.File) ([]byte, error) {
	if entry.UncompressedSize64 > uint64(maxEntryBytes) {
		return nil, fmt.Errorf("zip entry too large: %d", entry.UncompressedSize64)
	}
	reader, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()
	data, err := io.ReadAll(io.LimitReader(reader, maxEntryBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxEntryBytes {
		return nil, fmt.Errorf("zip entry exceeds max size")
	}
	return data, nil
}

// HashEntry streams an entry through sha256 and returns the hex digest.
func HashEntry(entry *zip.File) (string, error) {
	if entry.UncompressedSize64 > uint64(maxEntryBytes) {
		return "", fmt.Errorf("zip entry too large: %d", entry.UncompressedSize64)
	}
	reader, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer func() {
		_ = reader.Close()
	}()
	hashWriter := sha256.New()
	copied, err := io.Copy(hashWriter, io.LimitReader(reader, maxEntryBytes+1))
	if err != nil {
		return "", err
	}
	if copied > maxEntryBytes {
		return "", fmt.Errorf("zip entry exceeds max size")
	}
	return hex.EncodeToString(hashWriter.Sum(nil)), nil
}
