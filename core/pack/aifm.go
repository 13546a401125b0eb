package pack

import (
	"fmt"
	"sort"

	"github.com/ai-first-exchange/aifx/core/profile"
	"github.com/ai-first-exchange/aifx/core/zipx"
)

var allowedAudioMimes = map[string]string{
	"wav":  "audio/x-wav",
	"mp3":  "audio/mpeg",
	"flac": "audio/flac",
	"m4a":  "audio/mp4",
	"ogg":  "audio/ogg",
}

var allowedAIFMModes = map[string]bool{
	"human-directed-ai": true,
	"ai-assisted":       true,
	"ai-generated":      true,
}

// AIFMInputs describes one music package build. Prompt and lyrics are
// optional metadata attachments referenced from metadata_refs.
type AIFMInputs struct {
	AudioPath  string
	OutputPath string
	Fields     DeclaredFields
	PromptText string
	LyricsText string
	AudioFacts map[string]any
}

// BuildAIFM assembles a .aifm container: audio at payload/audio.<ext>, the
// declaration text at metadata/declaration.txt, and the manifest.
func BuildAIFM(inputs AIFMInputs) (BuildResult, error) {
	fields := inputs.Fields
	if fields.Mode == "" {
		fields.Mode = "human-directed-ai"
	}
	if err := fields.validate(); err != nil {
		return BuildResult{}, err
	}
	if !allowedAIFMModes[fields.Mode] {
		return BuildResult{}, inputError(fmt.Sprintf("mode must be one of: %v", sortedKeys(allowedAIFMModes)))
	}

	ext := assetExtension(inputs.AudioPath, "")
	mime, ok := allowedAudioMimes[ext]
	if !ok {
		return BuildResult{}, inputError(fmt.Sprintf("unsupported audio extension: .%s (allowed: %v)", ext, sortedKeys(allowedAudioMimes)))
	}
	audioBytes, err := readAsset(inputs.AudioPath, "audio")
	if err != nil {
		return BuildResult{}, err
	}

	prof, _ := profile.ByName("AIFM")
	audioRel := "payload/audio." + ext

	manifest := baseManifest(prof.Name, fields, "music")
	manifest.Audio = inputs.AudioFacts
	manifest.Payload = payloadFor(audioRel, mime)
	manifest.MetadataRefs = map[string]string{"declaration_text": "metadata/declaration.txt"}

	assets := []zipx.File{
		{Path: audioRel, Data: audioBytes, Mode: 0o644},
		{Path: "metadata/declaration.txt", Data: []byte(manifest.Declaration + "\n"), Mode: 0o644},
	}
	if inputs.PromptText != "" {
		manifest.MetadataRefs["prompt"] = "metadata/prompt.txt"
		assets = append(assets, zipx.File{Path: "metadata/prompt.txt", Data: []byte(inputs.PromptText), Mode: 0o644})
	}
	if inputs.LyricsText != "" {
		manifest.MetadataRefs["lyrics"] = "metadata/lyrics.txt"
		assets = append(assets, zipx.File{Path: "metadata/lyrics.txt", Data: []byte(inputs.LyricsText), Mode: 0o644})
	}
	return buildContainer(prof, manifest, assets, inputs.OutputPath)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
