package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ai-first-exchange/aifx/core/config"
	"github.com/ai-first-exchange/aifx/core/pack"
)

func runPack(arguments []string) int {
	if len(arguments) < 1 {
		printPackUsage()
		return exitInvalidInput
	}
	switch arguments[0] {
	case "aifv":
		return runPackAIFV(arguments[1:])
	case "aifm":
		return runPackAIFM(arguments[1:])
	case "aifi":
		return runPackAIFI(arguments[1:])
	case "--help", "-h", "help":
		printPackUsage()
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "aifx pack: unknown format %q (expected aifv, aifm, or aifi)\n", arguments[0])
		return exitInvalidInput
	}
}

// identityFlags are the declared-fields flags shared by every pack
// subcommand. Unset values fall back to the operator config.
type identityFlags struct {
	title   string
	creator string
	contact string
	mode    string
	out     string
}

func (f *identityFlags) register(flagSet *flag.FlagSet) {
	flagSet.StringVar(&f.title, "title", "", "work title (required)")
	flagSet.StringVar(&f.creator, "creator", "", "creator name")
	flagSet.StringVar(&f.contact, "contact", "", "creator contact email")
	flagSet.StringVar(&f.mode, "mode", "", "creation mode")
	flagSet.StringVar(&f.out, "out", "", "output path")
}

func (f identityFlags) declaredFields(settings config.Settings) pack.DeclaredFields {
	fields := pack.DeclaredFields{
		Title:          f.title,
		CreatorName:    f.creator,
		CreatorContact: f.contact,
		Mode:           f.mode,
	}
	if fields.CreatorName == "" {
		fields.CreatorName = settings.Creator.Name
	}
	if fields.CreatorContact == "" {
		fields.CreatorContact = settings.Creator.Contact
	}
	return fields
}

// resolveOutputPath derives the output location: the explicit --out flag,
// otherwise the configured output directory plus the primary asset stem.
func (f identityFlags) resolveOutputPath(settings config.Settings, assetPath string) string {
	if f.out != "" {
		return f.out
	}
	stem := strings.TrimSuffix(filepath.Base(assetPath), filepath.Ext(assetPath))
	if settings.Pack.OutputDir != "" {
		return filepath.Join(settings.Pack.OutputDir, stem)
	}
	return stem
}

func loadPackSettings() config.Settings {
	settings, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack: config ignored:", err)
		return config.Settings{}
	}
	return settings
}

func runPackAIFV(arguments []string) int {
	flagSet := flag.NewFlagSet("pack aifv", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var identity identityFlags
	var videoPath string
	var thumbPath string
	identity.register(flagSet)
	flagSet.StringVar(&videoPath, "video", "", "path to the primary video file (required)")
	flagSet.StringVar(&thumbPath, "thumb", "", "path to the thumbnail jpg (required)")

	if err := flagSet.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack aifv:", err)
		return exitInvalidInput
	}
	if videoPath == "" || thumbPath == "" {
		fmt.Fprintln(os.Stderr, "aifx pack aifv: --video and --thumb are required")
		return exitInvalidInput
	}

	settings := loadPackSettings()
	result, err := pack.BuildAIFV(pack.AIFVInputs{
		VideoPath:  videoPath,
		ThumbPath:  thumbPath,
		OutputPath: identity.resolveOutputPath(settings, videoPath),
		Fields:     identity.declaredFields(settings),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack aifv:", err)
		return exitInvalidInput
	}
	fmt.Println("wrote", result.Path)
	return exitOK
}

func runPackAIFM(arguments []string) int {
	flagSet := flag.NewFlagSet("pack aifm", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var identity identityFlags
	var audioPath string
	var promptFile string
	var lyricsFile string
	identity.register(flagSet)
	flagSet.StringVar(&audioPath, "audio", "", "path to the primary audio file (required)")
	flagSet.StringVar(&promptFile, "prompt-file", "", "path to a prompt text file")
	flagSet.StringVar(&lyricsFile, "lyrics-file", "", "path to a lyrics text file")

	if err := flagSet.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack aifm:", err)
		return exitInvalidInput
	}
	if audioPath == "" {
		fmt.Fprintln(os.Stderr, "aifx pack aifm: --audio is required")
		return exitInvalidInput
	}

	promptText, err := readOptionalText(promptFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack aifm:", err)
		return exitInvalidInput
	}
	lyricsText, err := readOptionalText(lyricsFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack aifm:", err)
		return exitInvalidInput
	}

	settings := loadPackSettings()
	fields := identity.declaredFields(settings)
	if fields.Mode == "" {
		fields.Mode = settings.Pack.DefaultMode
	}
	result, err := pack.BuildAIFM(pack.AIFMInputs{
		AudioPath:  audioPath,
		OutputPath: identity.resolveOutputPath(settings, audioPath),
		Fields:     fields,
		PromptText: promptText,
		LyricsText: lyricsText,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack aifm:", err)
		return exitInvalidInput
	}
	fmt.Println("wrote", result.Path)
	return exitOK
}

func runPackAIFI(arguments []string) int {
	flagSet := flag.NewFlagSet("pack aifi", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var identity identityFlags
	var imagePath string
	identity.register(flagSet)
	flagSet.StringVar(&imagePath, "image", "", "path to the primary image file (required)")

	if err := flagSet.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack aifi:", err)
		return exitInvalidInput
	}
	if imagePath == "" {
		fmt.Fprintln(os.Stderr, "aifx pack aifi: --image is required")
		return exitInvalidInput
	}

	settings := loadPackSettings()
	fields := identity.declaredFields(settings)
	if fields.Mode == "" {
		fields.Mode = settings.Pack.DefaultMode
	}
	result, err := pack.BuildAIFI(pack.AIFIInputs{
		ImagePath:  imagePath,
		OutputPath: identity.resolveOutputPath(settings, imagePath),
		Fields:     fields,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "aifx pack aifi:", err)
		return exitInvalidInput
	}
	fmt.Println("wrote", result.Path)
	return exitOK
}

func readOptionalText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided metadata path.
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func printPackUsage() {
	fmt.Println(strings.TrimSpace(`
Usage: aifx pack <format> [flags]

Formats:
  aifv   video package (--video, --thumb)
  aifm   music package (--audio, optional --prompt-file, --lyrics-file)
  aifi   image package (--image)

Shared flags:
  --title TITLE      work title (required)
  --creator NAME     creator name (config default applies)
  --contact EMAIL    creator contact email (config default applies)
  --mode MODE        creation mode (format default applies)
  --out PATH         output path (extension appended when absent)
`))
}
