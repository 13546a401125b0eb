// Package integrity computes and verifies sha256 digests for container
// assets and the manifest self-hash.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ai-first-exchange/aifx/core/canon"
	schemaaifx "github.com/ai-first-exchange/aifx/core/schema/v1/aifx"
	"github.com/ai-first-exchange/aifx/core/zipx"
)

// DigestHexLength is the fixed length of a lowercase sha256 hex digest.
const DigestHexLength = 64

// DigestBytes returns the lowercase sha256 hex digest of data.
func DigestBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fixed message templates; reproduced verbatim by any compatible
// implementation since downstream tooling may match on them. A missing
// digest and a digest mismatch are distinct conditions and never share a
// message.
func MismatchMessage(relpath, expected, actual string) string {
	return fmt.Sprintf("Hash mismatch for %s: expected %s, got %s", relpath, expected, actual)
}

func MissingDigestMessage(relpath string) string {
	return fmt.Sprintf("Missing sha256 for %s", relpath)
}

func MissingFileMessage(relpath string) string {
	return fmt.Sprintf("File not found in package: %s", relpath)
}

// VerifyFile hashes a container entry and compares it to the expected hex
// digest. The comparison is exact-match; there is no partial integrity.
func VerifyFile(container *zipx.Container, relpath, expected string) (bool, error) {
	entry, ok := container.Lookup(relpath)
	if !ok {
		return false, fmt.Errorf("file not found: %s", relpath)
	}
	actual, err := zipx.HashEntry(entry)
	if err != nil {
		return false, fmt.Errorf("hash %s: %w", relpath, err)
	}
	return equalHex(actual, expected), nil
}

// VerifyManifestSelfHash digests the manifest with its own hashed_files
// entry excluded and compares the result to the recorded self-hash.
func VerifyManifestSelfHash(rawManifest []byte, manifest schemaaifx.Manifest) (bool, error) {
	if manifest.Integrity == nil {
		return false, fmt.Errorf("manifest integrity missing")
	}
	record, ok := manifest.Integrity.HashedFiles[schemaaifx.ManifestFileName]
	if !ok || record.SHA256 == "" {
		return false, fmt.Errorf("manifest self-hash missing")
	}
	actual, err := canon.DigestExcludingSelfHash(rawManifest)
	if err != nil {
		return false, err
	}
	return equalHex(actual, record.SHA256), nil
}

// Verify evaluates the full integrity record against the container and
// returns every violation found, in deterministic order. An empty slice
// means the record is intact.
func Verify(container *zipx.Container, rawManifest []byte, manifest schemaaifx.Manifest, requiredPaths []string) []string {
	if manifest.Integrity == nil {
		return []string{"manifest.integrity missing"}
	}
	record := manifest.Integrity

	var errs []string
	if !strings.EqualFold(record.Algorithm, schemaaifx.IntegrityAlgorithm) {
		errs = append(errs, fmt.Sprintf("Unsupported integrity.algorithm: %q", record.Algorithm))
	}
	if record.ManifestHashMode != schemaaifx.ManifestHashModeCanonicalExcludesSelf {
		errs = append(errs, fmt.Sprintf("Unsupported integrity.manifest_hash_mode: %q", record.ManifestHashMode))
		return errs
	}
	if len(record.HashedFiles) == 0 {
		errs = append(errs, "integrity.hashed_files missing or empty")
		return errs
	}

	for _, relpath := range requiredPaths {
		if relpath == schemaaifx.ManifestFileName {
			continue
		}
		if _, ok := record.HashedFiles[relpath]; !ok {
			errs = append(errs, MissingDigestMessage(relpath))
		}
	}

	listed := make([]string, 0, len(record.HashedFiles))
	for relpath := range record.HashedFiles {
		if relpath == schemaaifx.ManifestFileName {
			continue
		}
		listed = append(listed, relpath)
	}
	sort.Strings(listed)
	for _, relpath := range listed {
		expected := record.HashedFiles[relpath].SHA256
		if expected == "" {
			errs = append(errs, MissingDigestMessage(relpath))
			continue
		}
		entry, ok := container.Lookup(relpath)
		if !ok {
			errs = append(errs, MissingFileMessage(relpath))
			continue
		}
		actual, err := zipx.HashEntry(entry)
		if err != nil {
			errs = append(errs, fmt.Sprintf("cannot hash %s: %v", relpath, err))
			continue
		}
		if !equalHex(actual, expected) {
			errs = append(errs, MismatchMessage(relpath, expected, actual))
		}
	}

	selfRecord, ok := record.HashedFiles[schemaaifx.ManifestFileName]
	if !ok {
		errs = append(errs, "integrity.hashed_files['manifest.json'] missing")
		return errs
	}
	if selfRecord.SHA256 == "" {
		errs = append(errs, "integrity.hashed_files['manifest.json'].sha256 missing")
		return errs
	}
	actual, err := canon.DigestExcludingSelfHash(rawManifest)
	if err != nil {
		errs = append(errs, fmt.Sprintf("cannot canonicalize manifest: %v", err))
		return errs
	}
	if !equalHex(actual, selfRecord.SHA256) {
		errs = append(errs, MismatchMessage(schemaaifx.ManifestFileName, selfRecord.SHA256, actual))
	}
	return errs
}

func equalHex(first, second string) bool {
	return strings.EqualFold(first, second)
}
