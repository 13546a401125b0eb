package pack

import (
	"fmt"

	"github.com/ai-first-exchange/aifx/core/profile"
	"github.com/ai-first-exchange/aifx/core/zipx"
)

var allowedImageMimes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

// AIFIInputs describes one image package build.
type AIFIInputs struct {
	ImagePath  string
	OutputPath string
	Fields     DeclaredFields
	ImageFacts map[string]any
}

// BuildAIFI assembles a .aifi container: the image at its canonical
// assets/image.<ext> path plus the manifest.
func BuildAIFI(inputs AIFIInputs) (BuildResult, error) {
	fields := inputs.Fields
	if fields.Mode == "" {
		fields.Mode = "human-directed-ai"
	}
	if err := fields.validate(); err != nil {
		return BuildResult{}, err
	}

	ext := assetExtension(inputs.ImagePath, "")
	mime, ok := allowedImageMimes[ext]
	if !ok {
		return BuildResult{}, inputError(fmt.Sprintf("unsupported image type: .%s (allowed: %v)", ext, sortedKeys(allowedImageMimes)))
	}
	imageBytes, err := readAsset(inputs.ImagePath, "image")
	if err != nil {
		return BuildResult{}, err
	}

	prof, _ := profile.ByName("AIFI")
	imageRel := "assets/image." + ext

	manifest := baseManifest(prof.Name, fields, "image")
	manifest.Image = inputs.ImageFacts
	manifest.Payload = payloadFor(imageRel, mime)

	assets := []zipx.File{
		{Path: imageRel, Data: imageBytes, Mode: 0o644},
	}
	return buildContainer(prof, manifest, assets, inputs.OutputPath)
}
