package validate

import (
	"strings"
	"testing"
)

const validManifest = `{
	"aifx": {"version": "0.1"},
	"work": {"title": "Test Work"},
	"creator": {"name": "Ada", "contact": "ada@example.com"},
	"mode": "ai-generated",
	"ai_generated": true,
	"verification_tier": "SDA",
	"declaration": "I affirm authorship.",
	"integrity": {
		"algorithm": "sha256",
		"manifest_hash_mode": "canonical_excludes_self",
		"hashed_files": {
			"manifest.json": {"sha256": "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"}
		}
	}
}`

func TestValidateManifestAccepts(t *testing.T) {
	if err := ValidateManifest([]byte(validManifest)); err != nil {
		t.Fatalf("expected valid manifest, got: %v", err)
	}
}

func TestValidateManifestRejectsStringTrue(t *testing.T) {
	manifest := strings.Replace(validManifest, `"ai_generated": true`, `"ai_generated": "true"`, 1)
	if err := ValidateManifest([]byte(manifest)); err == nil {
		t.Fatalf("expected string ai_generated to fail schema validation")
	}
}

func TestValidateManifestRejectsLowercaseTier(t *testing.T) {
	manifest := strings.Replace(validManifest, `"verification_tier": "SDA"`, `"verification_tier": "sda"`, 1)
	if err := ValidateManifest([]byte(manifest)); err == nil {
		t.Fatalf("expected lowercase tier to fail schema validation")
	}
}

func TestValidateManifestRejectsShortDigest(t *testing.T) {
	manifest := strings.Replace(validManifest, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", "deadbeef", 1)
	if err := ValidateManifest([]byte(manifest)); err == nil {
		t.Fatalf("expected short digest to fail schema validation")
	}
}

func TestValidateManifestRejectsMissingIntegrity(t *testing.T) {
	if err := ValidateManifest([]byte(`{"work":{"title":"x"}}`)); err == nil {
		t.Fatalf("expected missing fields to fail schema validation")
	}
}
