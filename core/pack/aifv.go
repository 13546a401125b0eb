package pack

import (
	"github.com/ai-first-exchange/aifx/core/profile"
	"github.com/ai-first-exchange/aifx/core/zipx"
)

// AIFVInputs describes one video package build. VideoFacts are optional
// informational metadata; the validator only warns when they are absent.
type AIFVInputs struct {
	VideoPath  string
	ThumbPath  string
	OutputPath string
	Fields     DeclaredFields
	VideoFacts map[string]any
}

// BuildAIFV assembles a .aifv container: the video at its canonical
// assets/video.<ext> path, the required thumbnail, and the manifest.
func BuildAIFV(inputs AIFVInputs) (BuildResult, error) {
	fields := inputs.Fields
	if fields.Mode == "" {
		fields.Mode = "ai-generated"
	}
	if err := fields.validate(); err != nil {
		return BuildResult{}, err
	}

	videoBytes, err := readAsset(inputs.VideoPath, "video")
	if err != nil {
		return BuildResult{}, err
	}
	thumbBytes, err := readAsset(inputs.ThumbPath, "thumbnail")
	if err != nil {
		return BuildResult{}, err
	}

	prof, _ := profile.ByName("AIFV")
	videoRel := "assets/video." + assetExtension(inputs.VideoPath, "mp4")

	manifest := baseManifest(prof.Name, fields, "video")
	manifest.Video = inputs.VideoFacts
	manifest.Payload = payloadFor(videoRel, videoMime(assetExtension(inputs.VideoPath, "mp4")))

	assets := []zipx.File{
		{Path: videoRel, Data: videoBytes, Mode: 0o644},
		{Path: "assets/thumb.jpg", Data: thumbBytes, Mode: 0o644},
	}
	return buildContainer(prof, manifest, assets, inputs.OutputPath)
}

func videoMime(ext string) string {
	switch ext {
	case "mp4", "m4v":
		return "video/mp4"
	case "webm":
		return "video/webm"
	case "mov":
		return "video/quicktime"
	case "mkv":
		return "video/x-matroska"
	default:
		return "video/*"
	}
}
