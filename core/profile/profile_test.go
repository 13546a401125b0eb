package profile

import (
	"testing"

	schemaaifx "github.com/ai-first-exchange/aifx/core/schema/v1/aifx"
)

func TestRegistryCoversAllFormats(t *testing.T) {
	profiles := All()
	if len(profiles) != 3 {
		t.Fatalf("expected 3 registered profiles, got %d", len(profiles))
	}
	wantExt := map[string]string{"AIFV": ".aifv", "AIFM": ".aifm", "AIFI": ".aifi"}
	for _, p := range profiles {
		ext, ok := wantExt[p.Name]
		if !ok {
			t.Fatalf("unexpected profile: %s", p.Name)
		}
		if p.Extension != ext {
			t.Fatalf("%s: expected extension %s, got %s", p.Name, ext, p.Extension)
		}
		if p.PrimaryAsset.Pattern == nil {
			t.Fatalf("%s: primary asset pattern not set", p.Name)
		}
		if len(p.FieldRules) != 7 {
			t.Fatalf("%s: expected 7 field rules, got %d", p.Name, len(p.FieldRules))
		}
	}
}

func TestByNameCaseInsensitive(t *testing.T) {
	for _, name := range []string{"aifv", "AIFV", "Aifv"} {
		p, ok := ByName(name)
		if !ok || p.Name != "AIFV" {
			t.Fatalf("lookup %q failed", name)
		}
	}
	if _, ok := ByName("aifz"); ok {
		t.Fatalf("expected unknown name to miss")
	}
}

func TestForPathMatchesExtension(t *testing.T) {
	cases := map[string]string{
		"song.aifm":              "AIFM",
		"/tmp/out/clip.AIFV":     "AIFV",
		"relative/dir/pic.aifi":  "AIFI",
		"archive.with.dots.aifm": "AIFM",
	}
	for path, want := range cases {
		p, ok := ForPath(path)
		if !ok || p.Name != want {
			t.Fatalf("ForPath(%q) = %v, %v; want %s", path, p.Name, ok, want)
		}
	}
	if _, ok := ForPath("plain.zip"); ok {
		t.Fatalf("expected .zip to be unsupported")
	}
}

func TestPrimaryMatchesSortedAndAnchored(t *testing.T) {
	p, _ := ByName("AIFV")
	names := map[string]bool{
		"assets/video.webm":       true,
		"assets/video.mp4":        true,
		"assets/video.mp4/nested": true,
		"other/assets/video.mp4":  true,
		"assets/thumb.jpg":        true,
		"manifest.json":           true,
	}
	matches := p.PrimaryMatches(names)
	if len(matches) != 2 || matches[0] != "assets/video.mp4" || matches[1] != "assets/video.webm" {
		t.Fatalf("unexpected matches: %v", matches)
	}
}

func TestRequiredHashPaths(t *testing.T) {
	p, _ := ByName("AIFV")
	names := map[string]bool{
		"assets/video.mp4": true,
		"assets/thumb.jpg": true,
	}
	paths := p.RequiredHashPaths(names)
	want := []string{schemaaifx.ManifestFileName, "assets/thumb.jpg", "assets/video.mp4"}
	if len(paths) != len(want) {
		t.Fatalf("unexpected paths: %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("unexpected paths: %v", paths)
		}
	}
}

func TestFieldRulesEnforceFixedConstants(t *testing.T) {
	manifest := schemaaifx.Manifest{
		Work:             schemaaifx.Work{Title: "Track"},
		Creator:          schemaaifx.Creator{Name: "Ada", Contact: "ada@example.com"},
		Mode:             "ai-generated",
		AIGenerated:      true,
		VerificationTier: schemaaifx.VerificationTierSDA,
		Declaration:      "declared",
	}
	p, _ := ByName("AIFM")
	for _, rule := range p.FieldRules {
		if !rule.OK(manifest) {
			t.Fatalf("rule %s rejected a complete manifest", rule.CheckKey)
		}
	}

	byKey := func(key string) FieldRule {
		for _, rule := range p.FieldRules {
			if rule.CheckKey == key {
				return rule
			}
		}
		t.Fatalf("rule %s not found", key)
		return FieldRule{}
	}

	tier := manifest
	tier.VerificationTier = "sda"
	if byKey("manifest.verification_tier").OK(tier) {
		t.Fatalf("verification_tier must be exact-case SDA")
	}
	tier.VerificationTier = "VC"
	if byKey("manifest.verification_tier").OK(tier) {
		t.Fatalf("verification_tier VC must be rejected")
	}

	generated := manifest
	generated.AIGenerated = "true"
	if byKey("manifest.ai_generated").OK(generated) {
		t.Fatalf("ai_generated string \"true\" must be rejected")
	}
	generated.AIGenerated = false
	if byKey("manifest.ai_generated").OK(generated) {
		t.Fatalf("ai_generated false must be rejected")
	}

	blank := manifest
	blank.Work.Title = "   "
	if byKey("manifest.work.title").OK(blank) {
		t.Fatalf("whitespace-only title must be rejected")
	}
}

func TestInformationalRules(t *testing.T) {
	p, _ := ByName("AIFV")
	if len(p.Informational) != 1 {
		t.Fatalf("expected one informational rule, got %d", len(p.Informational))
	}
	info := p.Informational[0]
	if info.OK(schemaaifx.Manifest{}) {
		t.Fatalf("empty video facts must warn")
	}
	withFacts := schemaaifx.Manifest{Video: map[string]any{"duration": 12.5}}
	if !info.OK(withFacts) {
		t.Fatalf("present video facts must not warn")
	}
}
