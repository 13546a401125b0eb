// Package canon produces byte-stable serializations of manifest data.
//
// Canonical form follows RFC 8785 (JCS): deterministic key ordering and
// primitive encoding, no incidental whitespace. Two manifests with the same
// logical content always canonicalize to identical bytes.
package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	schemaaifx "github.com/ai-first-exchange/aifx/core/schema/v1/aifx"
)

// Canonicalize returns the RFC 8785 canonical form of JSON input.
func Canonicalize(input []byte) ([]byte, error) {
	return jcs.Transform(input)
}

// Digest canonicalizes JSON and returns a lowercase sha256 hex digest.
func Digest(input []byte) (string, error) {
	canonical, err := Canonicalize(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// SerializeExcludingSelfHash returns canonical manifest bytes with the
// integrity.hashed_files entry for manifest.json removed. This breaks the
// circular dependency of the manifest hashing itself; the packager and the
// validator must both hash exactly these bytes.
func SerializeExcludingSelfHash(manifest []byte) ([]byte, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(manifest, &root); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if rawIntegrity, ok := root["integrity"]; ok {
		var integrity map[string]json.RawMessage
		if err := json.Unmarshal(rawIntegrity, &integrity); err != nil {
			return nil, fmt.Errorf("parse manifest integrity: %w", err)
		}
		if rawHashed, ok := integrity["hashed_files"]; ok {
			var hashed map[string]json.RawMessage
			if err := json.Unmarshal(rawHashed, &hashed); err != nil {
				return nil, fmt.Errorf("parse integrity hashed_files: %w", err)
			}
			delete(hashed, schemaaifx.ManifestFileName)
			encodedHashed, err := json.Marshal(hashed)
			if err != nil {
				return nil, fmt.Errorf("encode integrity hashed_files: %w", err)
			}
			integrity["hashed_files"] = encodedHashed
			encodedIntegrity, err := json.Marshal(integrity)
			if err != nil {
				return nil, fmt.Errorf("encode manifest integrity: %w", err)
			}
			root["integrity"] = encodedIntegrity
		}
	}
	stripped, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return Canonicalize(stripped)
}

// DigestExcludingSelfHash is the manifest self-hash: a sha256 hex digest of
// SerializeExcludingSelfHash output.
func DigestExcludingSelfHash(manifest []byte) (string, error) {
	canonical, err := SerializeExcludingSelfHash(manifest)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
