// Package validate runs the container validation pipeline: open, safety
// scan, parse, governance rules, verdict. A validator call is a pure
// function of its inputs plus the read-only profile registry, so separate
// calls may run concurrently.
package validate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ai-first-exchange/aifx/core/govern"
	"github.com/ai-first-exchange/aifx/core/profile"
	"github.com/ai-first-exchange/aifx/core/zipx"
)

// Package validates one container file, selecting the format profile from
// the file extension. The returned error covers input problems only
// (missing file, unreadable archive, unknown extension); every governance
// outcome is expressed through the verdict.
func Package(path string) (govern.Verdict, error) {
	prof, ok := profile.ForPath(path)
	if !ok {
		return govern.Verdict{}, fmt.Errorf("unsupported package extension: %s", filepath.Ext(path))
	}
	return PackageWithProfile(path, prof)
}

// PackageWithProfile validates one container against an explicit profile.
func PackageWithProfile(path string, prof profile.Profile) (govern.Verdict, error) {
	container, err := zipx.Open(path)
	if err != nil {
		return govern.Verdict{}, fmt.Errorf("open container: %w", err)
	}
	defer func() {
		_ = container.Close()
	}()

	verdict := govern.Evaluate(govern.Input{Container: container, Profile: prof})
	verdict.Package = path
	return verdict, nil
}

// Totals aggregates a batch run.
type Totals struct {
	Count int `json:"count"`
	Pass  int `json:"pass"`
	Fail  int `json:"fail"`
}

// Report is the batch surface: aggregate totals plus one verdict per input,
// in input order.
type Report struct {
	InputPath string           `json:"input_path"`
	Totals    Totals           `json:"totals"`
	Results   []govern.Verdict `json:"results"`
}

// All validates a single package file or every package found under a
// directory (sorted walk over registered extensions).
func All(root string) (Report, error) {
	packages, err := listPackages(root)
	if err != nil {
		return Report{}, err
	}
	if len(packages) == 0 {
		return Report{}, fmt.Errorf("no AIFX packages found in: %s", root)
	}

	report := Report{
		InputPath: root,
		Results:   make([]govern.Verdict, 0, len(packages)),
	}
	for _, path := range packages {
		verdict, err := Package(path)
		if err != nil {
			return Report{}, err
		}
		report.Results = append(report.Results, verdict)
		report.Totals.Count++
		if verdict.Valid {
			report.Totals.Pass++
		} else {
			report.Totals.Fail++
		}
	}
	return report, nil
}

func listPackages(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var packages []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if isPackagePath(path) {
			packages = append(packages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input: %w", err)
	}
	sort.Strings(packages)
	return packages, nil
}

func isPackagePath(path string) bool {
	lower := strings.ToLower(path)
	for _, prof := range profile.All() {
		if strings.HasSuffix(lower, prof.Extension) {
			return true
		}
	}
	return false
}
