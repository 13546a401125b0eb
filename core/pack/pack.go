// Package pack builds AIFX containers. The packager owns manifest
// construction and hash computation: it embeds the caller-declared identity
// fields plus the fixed governance constants, computes every digest through
// the same canonical path the validator verifies with, and writes a
// deterministic zip atomically. A container this package produces always
// validates against the matching profile.
package pack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ai-first-exchange/aifx/core/canon"
	coreerrors "github.com/ai-first-exchange/aifx/core/errors"
	"github.com/ai-first-exchange/aifx/core/fsx"
	"github.com/ai-first-exchange/aifx/core/integrity"
	"github.com/ai-first-exchange/aifx/core/profile"
	"github.com/ai-first-exchange/aifx/core/provenance"
	schemavalidate "github.com/ai-first-exchange/aifx/core/schema/validate"
	schemaaifx "github.com/ai-first-exchange/aifx/core/schema/v1/aifx"
	"github.com/ai-first-exchange/aifx/core/zipx"
)

const aifxVersion = "0.1"

// DeclaredFields are the caller-supplied identity and authorship fields.
// The verification tier, ai_generated flag, and declaration text are fixed
// constants the caller cannot override.
type DeclaredFields struct {
	Title          string
	CreatorName    string
	CreatorContact string
	Mode           string
}

type BuildResult struct {
	Path     string
	Manifest schemaaifx.Manifest
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func (f DeclaredFields) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return inputError("work.title required")
	}
	if strings.TrimSpace(f.CreatorName) == "" {
		return inputError("creator.name required")
	}
	contact := strings.TrimSpace(f.CreatorContact)
	if contact == "" {
		return inputError("creator.contact required")
	}
	if !emailPattern.MatchString(contact) {
		return inputError("creator.contact must be email-shaped")
	}
	if strings.TrimSpace(f.Mode) == "" {
		return inputError("mode required")
	}
	return nil
}

func baseManifest(formatName string, fields DeclaredFields, workType string) schemaaifx.Manifest {
	return schemaaifx.Manifest{
		Aifx:             schemaaifx.Header{Format: formatName, Version: aifxVersion},
		Work:             schemaaifx.Work{Title: strings.TrimSpace(fields.Title), Type: workType},
		Creator:          schemaaifx.Creator{Name: strings.TrimSpace(fields.CreatorName), Contact: strings.TrimSpace(fields.CreatorContact)},
		Mode:             strings.TrimSpace(fields.Mode),
		AIGenerated:      true,
		VerificationTier: schemaaifx.VerificationTierSDA,
		Declaration:      provenance.SDADeclaration,
	}
}

// buildContainer hashes every asset, fills the integrity record, computes
// the manifest self-hash last, and writes the container. Nothing is written
// until the full archive is assembled in memory.
func buildContainer(prof profile.Profile, manifest schemaaifx.Manifest, assets []zipx.File, outputPath string) (BuildResult, error) {
	hashedFiles := make(map[string]schemaaifx.FileDigest, len(assets)+1)
	for _, asset := range assets {
		hashedFiles[asset.Path] = schemaaifx.FileDigest{
			SHA256: integrity.DigestBytes(asset.Data),
			Bytes:  int64(len(asset.Data)),
		}
	}
	manifest.Integrity = &schemaaifx.Integrity{
		Algorithm:        schemaaifx.IntegrityAlgorithm,
		ManifestHashMode: schemaaifx.ManifestHashModeCanonicalExcludesSelf,
		HashedFiles:      hashedFiles,
	}

	// Self-hash over the manifest without its own hashed_files entry.
	withoutSelf, err := json.Marshal(manifest)
	if err != nil {
		return BuildResult{}, fmt.Errorf("encode manifest: %w", err)
	}
	selfHash, err := canon.DigestExcludingSelfHash(withoutSelf)
	if err != nil {
		return BuildResult{}, fmt.Errorf("compute manifest self-hash: %w", err)
	}
	canonical, err := canon.SerializeExcludingSelfHash(withoutSelf)
	if err != nil {
		return BuildResult{}, fmt.Errorf("canonicalize manifest: %w", err)
	}
	hashedFiles[schemaaifx.ManifestFileName] = schemaaifx.FileDigest{
		SHA256: selfHash,
		Bytes:  int64(len(canonical)),
	}

	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return BuildResult{}, fmt.Errorf("encode manifest: %w", err)
	}
	manifestBytes = append(manifestBytes, '\n')

	if err := schemavalidate.ValidateManifest(manifestBytes); err != nil {
		return BuildResult{}, fmt.Errorf("manifest self-check: %w", err)
	}

	files := append([]zipx.File{}, assets...)
	files = append(files, zipx.File{Path: schemaaifx.ManifestFileName, Data: manifestBytes, Mode: 0o644})

	var buffer bytes.Buffer
	if err := zipx.WriteDeterministicZip(&buffer, files); err != nil {
		return BuildResult{}, fmt.Errorf("write container zip: %w", err)
	}

	resolved, err := normalizeOutputPath(outputPath, prof.Extension)
	if err != nil {
		return BuildResult{}, err
	}
	outputDir := filepath.Dir(resolved)
	if outputDir != "." && outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o750); err != nil {
			return BuildResult{}, coreerrors.Wrap(fmt.Errorf("create output directory: %w", err), coreerrors.CategoryIOFailure, "output_dir_failed", "check permissions on the output directory")
		}
	}
	if err := fsx.WriteFileAtomic(resolved, buffer.Bytes(), 0o644); err != nil {
		return BuildResult{}, coreerrors.Wrap(fmt.Errorf("write container: %w", err), coreerrors.CategoryIOFailure, "container_write_failed", "check free space and permissions")
	}
	return BuildResult{Path: resolved, Manifest: manifest}, nil
}

func readAsset(path, kind string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided asset path.
	if err != nil {
		return nil, coreerrors.Wrap(fmt.Errorf("%s not found: %s", kind, path), coreerrors.CategoryInvalidInput, "asset_missing", "check the input path")
	}
	return data, nil
}

func normalizeOutputPath(path, extension string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", inputError("output path required")
	}
	if !strings.HasSuffix(strings.ToLower(trimmed), extension) {
		trimmed += extension
	}
	return filepath.Clean(trimmed), nil
}

func assetExtension(path, fallback string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return fallback
	}
	return ext
}

func payloadFor(primary, mime string) *schemaaifx.Payload {
	return &schemaaifx.Payload{Primary: primary, Mime: mime}
}

func inputError(message string) error {
	return coreerrors.Wrap(fmt.Errorf("%s", message), coreerrors.CategoryInvalidInput, "invalid_declared_fields", "supply all required identity fields")
}
