package zipx

import (
	"archive/zip"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Safety rule keys, reported on the verdict's checks map. Safety failures
// are categorically prior to and independent of manifest content.
const (
	RuleNoSymlinks = "security.no_symlinks"
	RuleSafePaths  = "security.safe_paths"
)

// Fixed safety failure messages; downstream tooling matches on these.
const (
	MessageSymlink    = "security: symlinks are not allowed"
	MessageUnsafePath = "security: unsafe path detected (possible zip-slip)"
)

// Violation is a single safety failure found before any entry bytes were
// trusted.
type Violation struct {
	Rule    string
	Path    string
	Message string
}

var drivePrefix = regexp.MustCompile(`^[A-Za-z]:/`)

// Scan inspects the raw entry list and returns the first structurally
// unsafe entry, in entry order, or nil when every entry is safe. Callers
// must not read entry contents until Scan passes.
func Scan(entries []*zip.File) *Violation {
	for _, entry := range entries {
		if entryIsSymlink(entry) {
			return &Violation{
				Rule:    RuleNoSymlinks,
				Path:    filepath.ToSlash(entry.Name),
				Message: MessageSymlink,
			}
		}
		if unsafeEntryPath(entry.Name) {
			return &Violation{
				Rule:    RuleSafePaths,
				Path:    filepath.ToSlash(entry.Name),
				Message: MessageUnsafePath,
			}
		}
	}
	return nil
}

func entryIsSymlink(entry *zip.File) bool {
	return entry.Mode()&os.ModeSymlink != 0
}

// unsafeEntryPath treats zip entry names as POSIX paths and rejects anything
// that could resolve outside the container root.
func unsafeEntryPath(name string) bool {
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return true
	}
	normalized := strings.ReplaceAll(name, "\\", "/")
	if drivePrefix.MatchString(normalized) {
		return true
	}
	cleaned := path.Clean(normalized)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return true
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}
