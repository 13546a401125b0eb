package canon

import (
	"bytes"
	"testing"
)

func TestCanonicalizeOrdersKeys(t *testing.T) {
	in := []byte(`{ "b":2, "a":1 }`)
	want := `{"a":1,"b":2}`
	out, err := Canonicalize(in)
	if err != nil {
		t.Fatalf("canonicalize error: %v", err)
	}
	if string(out) != want {
		t.Fatalf("unexpected canonical form: %s", string(out))
	}
}

func TestDigestStableUnderKeyReorder(t *testing.T) {
	a := []byte(`{"a":1,"b":2}`)
	b := []byte(`{ "b":2, "a":1 }`)

	da, err := Digest(a)
	if err != nil {
		t.Fatalf("digest error: %v", err)
	}
	db, err := Digest(b)
	if err != nil {
		t.Fatalf("digest error: %v", err)
	}
	if da != db {
		t.Fatalf("expected same digest for equivalent JSON")
	}
}

func TestSerializeExcludingSelfHashDropsManifestEntry(t *testing.T) {
	manifest := []byte(`{
		"work": {"title": "Demo"},
		"integrity": {
			"algorithm": "sha256",
			"manifest_hash_mode": "canonical_excludes_self",
			"hashed_files": {
				"assets/video.mp4": {"sha256": "aa"},
				"manifest.json": {"sha256": "bb"}
			}
		}
	}`)
	out, err := SerializeExcludingSelfHash(manifest)
	if err != nil {
		t.Fatalf("serialize error: %v", err)
	}
	if bytes.Contains(out, []byte("manifest.json")) {
		t.Fatalf("self entry not excluded: %s", string(out))
	}
	if !bytes.Contains(out, []byte("assets/video.mp4")) {
		t.Fatalf("asset entry dropped: %s", string(out))
	}
}

func TestSerializeExcludingSelfHashKeyOrderInvariant(t *testing.T) {
	first := []byte(`{"work":{"title":"Demo"},"integrity":{"algorithm":"sha256","manifest_hash_mode":"canonical_excludes_self","hashed_files":{"manifest.json":{"sha256":"bb"},"assets/video.mp4":{"sha256":"aa"}}}}`)
	second := []byte(`{"integrity":{"hashed_files":{"assets/video.mp4":{"sha256":"aa"},"manifest.json":{"sha256":"bb"}},"manifest_hash_mode":"canonical_excludes_self","algorithm":"sha256"},"work":{"title":"Demo"}}`)

	canonFirst, err := SerializeExcludingSelfHash(first)
	if err != nil {
		t.Fatalf("serialize first: %v", err)
	}
	canonSecond, err := SerializeExcludingSelfHash(second)
	if err != nil {
		t.Fatalf("serialize second: %v", err)
	}
	if !bytes.Equal(canonFirst, canonSecond) {
		t.Fatalf("canonical bytes differ:\n%s\n%s", canonFirst, canonSecond)
	}

	digestFirst, err := DigestExcludingSelfHash(first)
	if err != nil {
		t.Fatalf("digest first: %v", err)
	}
	digestSecond, err := DigestExcludingSelfHash(second)
	if err != nil {
		t.Fatalf("digest second: %v", err)
	}
	if digestFirst != digestSecond {
		t.Fatalf("digests differ: %s vs %s", digestFirst, digestSecond)
	}
}

func TestSerializeExcludingSelfHashWithoutIntegrity(t *testing.T) {
	out, err := SerializeExcludingSelfHash([]byte(`{"work":{"title":"Demo"}}`))
	if err != nil {
		t.Fatalf("serialize error: %v", err)
	}
	if string(out) != `{"work":{"title":"Demo"}}` {
		t.Fatalf("unexpected canonical form: %s", string(out))
	}
}

func TestCanonicalizeInvalid(t *testing.T) {
	if _, err := Canonicalize([]byte(`{`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
	if _, err := SerializeExcludingSelfHash([]byte(`{`)); err == nil {
		t.Fatalf("expected error for invalid manifest JSON")
	}
}
