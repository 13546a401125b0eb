// Package profile declares the per-format requirements layered on the shared
// validation core. A profile is pure data: path rules, field rules, and
// message templates interpreted by the rule engine, so new container formats
// add no engine logic.
package profile

import (
	"regexp"
	"sort"
	"strings"

	schemaaifx "github.com/ai-first-exchange/aifx/core/schema/v1/aifx"
)

type Profile struct {
	Name      string
	Version   string
	Extension string

	PrimaryAsset  PrimaryAssetRule
	RequiredFiles []RequiredFile
	FieldRules    []FieldRule
	Informational []InfoRule
}

// PrimaryAssetRule requires exactly one entry matching Pattern. The two
// failure messages are distinct by contract: zero matches reports
// MissingMessage, more than one reports MultipleMessage.
type PrimaryAssetRule struct {
	Pattern         *regexp.Regexp
	CheckKey        string
	MissingMessage  string
	MultipleMessage string
}

type RequiredFile struct {
	Path     string
	CheckKey string
	Message  string
}

// FieldRule is one independently evaluated manifest governance check.
type FieldRule struct {
	CheckKey string
	Message  string
	OK       func(manifest schemaaifx.Manifest) bool
}

// InfoRule is a non-enforced descriptive check; a failed InfoRule produces a
// warning, never an error.
type InfoRule struct {
	CheckKey string
	Warning  string
	OK       func(manifest schemaaifx.Manifest) bool
}

// PrimaryMatches returns the sorted entry names matching the primary-asset
// pattern.
func (p Profile) PrimaryMatches(names map[string]bool) []string {
	matches := make([]string, 0, 1)
	for name := range names {
		if p.PrimaryAsset.Pattern.MatchString(name) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// RequiredHashPaths lists every path the integrity record must cover for a
// given container: the manifest itself, each required file, and each
// primary-asset match.
func (p Profile) RequiredHashPaths(names map[string]bool) []string {
	paths := []string{schemaaifx.ManifestFileName}
	for _, required := range p.RequiredFiles {
		paths = append(paths, required.Path)
	}
	paths = append(paths, p.PrimaryMatches(names)...)
	return paths
}

func nonEmpty(value string) bool {
	return strings.TrimSpace(value) != ""
}

func baseFieldRules() []FieldRule {
	return []FieldRule{
		{
			CheckKey: "manifest.work.title",
			Message:  "work.title missing (required)",
			OK:       func(m schemaaifx.Manifest) bool { return nonEmpty(m.Work.Title) },
		},
		{
			CheckKey: "manifest.creator.name",
			Message:  "creator.name missing (required)",
			OK:       func(m schemaaifx.Manifest) bool { return nonEmpty(m.Creator.Name) },
		},
		{
			CheckKey: "manifest.creator.contact",
			Message:  "creator.contact missing (email required)",
			OK:       func(m schemaaifx.Manifest) bool { return nonEmpty(m.Creator.Contact) },
		},
		{
			CheckKey: "manifest.mode",
			Message:  "mode missing (required)",
			OK:       func(m schemaaifx.Manifest) bool { return nonEmpty(m.Mode) },
		},
		{
			CheckKey: "manifest.ai_generated",
			Message:  "ai_generated must be true (required)",
			OK:       func(m schemaaifx.Manifest) bool { return m.AIGeneratedTrue() },
		},
		{
			CheckKey: "manifest.verification_tier",
			Message:  "verification_tier must be 'SDA' (required)",
			OK:       func(m schemaaifx.Manifest) bool { return m.VerificationTier == schemaaifx.VerificationTierSDA },
		},
		{
			CheckKey: "manifest.declaration",
			Message:  "declaration missing (required)",
			OK:       func(m schemaaifx.Manifest) bool { return nonEmpty(m.Declaration) },
		},
	}
}

func factsPresent(facts map[string]any, keys ...string) bool {
	if len(facts) == 0 {
		return false
	}
	for _, key := range keys {
		if _, ok := facts[key]; ok {
			return true
		}
	}
	return false
}

func aifv() Profile {
	return Profile{
		Name:      "AIFV",
		Version:   "0",
		Extension: ".aifv",
		PrimaryAsset: PrimaryAssetRule{
			Pattern:         regexp.MustCompile(`^assets/video\.[^/]+$`),
			CheckKey:        "files.primary_video_single",
			MissingMessage:  "primary video missing (expected exactly one file matching assets/video.*)",
			MultipleMessage: "multiple primary videos found (expected exactly one file matching assets/video.*)",
		},
		RequiredFiles: []RequiredFile{
			{
				Path:     "assets/thumb.jpg",
				CheckKey: "files.thumbnail_present",
				Message:  "assets/thumb.jpg missing (required)",
			},
		},
		FieldRules: baseFieldRules(),
		Informational: []InfoRule{
			{
				CheckKey: "info.video_facts_present",
				Warning:  "info: video facts missing (duration/resolution/fps/codecs) — not required in v0",
				OK: func(m schemaaifx.Manifest) bool {
					return factsPresent(m.Video, "duration", "width", "height", "fps", "codec", "container")
				},
			},
		},
	}
}

func aifm() Profile {
	return Profile{
		Name:      "AIFM",
		Version:   "0.3",
		Extension: ".aifm",
		PrimaryAsset: PrimaryAssetRule{
			Pattern:         regexp.MustCompile(`^payload/audio\.[^/]+$`),
			CheckKey:        "files.primary_audio_single",
			MissingMessage:  "primary audio missing (expected exactly one file matching payload/audio.*)",
			MultipleMessage: "multiple primary audios found (expected exactly one file matching payload/audio.*)",
		},
		RequiredFiles: []RequiredFile{
			{
				Path:     "metadata/declaration.txt",
				CheckKey: "files.declaration_present",
				Message:  "metadata/declaration.txt missing (required)",
			},
		},
		FieldRules: baseFieldRules(),
		Informational: []InfoRule{
			{
				CheckKey: "info.audio_facts_present",
				Warning:  "info: audio facts missing (duration/sample_rate/channels/codec) — not required in v0",
				OK: func(m schemaaifx.Manifest) bool {
					return factsPresent(m.Audio, "duration", "sample_rate", "channels", "codec", "container")
				},
			},
		},
	}
}

func aifi() Profile {
	return Profile{
		Name:      "AIFI",
		Version:   "0.1",
		Extension: ".aifi",
		PrimaryAsset: PrimaryAssetRule{
			Pattern:         regexp.MustCompile(`^assets/image\.[^/]+$`),
			CheckKey:        "files.primary_image_single",
			MissingMessage:  "primary image missing (expected exactly one file matching assets/image.*)",
			MultipleMessage: "multiple primary images found (expected exactly one file matching assets/image.*)",
		},
		FieldRules: baseFieldRules(),
		Informational: []InfoRule{
			{
				CheckKey: "info.image_facts_present",
				Warning:  "info: image facts missing (width/height/format) — not required in v0",
				OK: func(m schemaaifx.Manifest) bool {
					return factsPresent(m.Image, "width", "height", "format")
				},
			},
		},
	}
}

var registry = []Profile{aifv(), aifm(), aifi()}

// All returns every registered profile. The registry is read-only at run
// time and safe to share across concurrent validations.
func All() []Profile {
	profiles := make([]Profile, len(registry))
	copy(profiles, registry)
	return profiles
}

// ByName looks a profile up by format name, case-insensitive.
func ByName(name string) (Profile, bool) {
	for _, p := range registry {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Profile{}, false
}

// ForPath selects a profile by package file extension.
func ForPath(path string) (Profile, bool) {
	lower := strings.ToLower(path)
	for _, p := range registry {
		if strings.HasSuffix(lower, p.Extension) {
			return p, true
		}
	}
	return Profile{}, false
}
