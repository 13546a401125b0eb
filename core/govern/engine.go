// Package govern evaluates the ordered governance rule set against a parsed
// container and produces a deterministic verdict.
//
// Rule groups run in a fixed order: container safety, required-file
// presence, manifest governance fields, integrity, informational facts.
// Only a safety violation short-circuits; every other fatal condition is
// collected so the errors list is complete in one pass. Warnings never
// affect the overall result.
package govern

import (
	"encoding/json"

	"github.com/ai-first-exchange/aifx/core/integrity"
	"github.com/ai-first-exchange/aifx/core/profile"
	schemaaifx "github.com/ai-first-exchange/aifx/core/schema/v1/aifx"
	"github.com/ai-first-exchange/aifx/core/zipx"
)

// CheckManifestPresent and CheckManifestParse are the structural checks the
// engine owns; every other check key comes from the format profile.
const (
	CheckManifestPresent = "files.manifest_present"
	CheckManifestParse   = "manifest.parse"
	CheckIntegrity       = "integrity"
)

const (
	messageManifestMissing = "manifest.json missing"
	messageManifestInvalid = "manifest.json invalid (not valid JSON)"
)

// Input carries everything one evaluation needs. The engine only ever reads
// the container, never mutates it.
type Input struct {
	Container *zipx.Container
	Profile   profile.Profile
}

// state is the manifest view shared by groups 2-4. It is populated only
// after the safety scan passes; an absent or unparseable manifest leaves the
// zero Manifest in place so field rules still evaluate and report.
type state struct {
	raw      []byte
	manifest schemaaifx.Manifest
	present  bool
	parsed   bool
}

func loadManifest(container *zipx.Container) state {
	entry, ok := container.Lookup(schemaaifx.ManifestFileName)
	if !ok {
		return state{}
	}
	loaded := state{present: true}
	raw, err := zipx.ReadEntry(entry)
	if err != nil {
		return loaded
	}
	loaded.raw = raw
	if err := json.Unmarshal(raw, &loaded.manifest); err != nil {
		return loaded
	}
	loaded.parsed = true
	return loaded
}

// rule is one row of the declarative rule table: a key, a predicate, and a
// fatal/warning classification.
type rule struct {
	key  string
	warn bool
	eval func(in Input, st state) (bool, []string)
}

// Evaluate runs the full rule pipeline and returns the verdict. Identical
// inputs always produce identical check order, error order, and warning
// order.
func Evaluate(in Input) Verdict {
	verdict := Verdict{
		Errors:   []string{},
		Warnings: []string{},
	}

	// Group 1: the archive cannot be trusted enough to keep reading, so a
	// violation here ends the run with exactly one check and one error.
	if violation := zipx.Scan(in.Container.Entries); violation != nil {
		verdict.Checks.add(violation.Rule, false)
		verdict.Errors = append(verdict.Errors, violation.Message)
		verdict.Valid = false
		return verdict
	}

	st := loadManifest(in.Container)
	for _, r := range buildRules(in.Profile) {
		ok, messages := r.eval(in, st)
		verdict.Checks.add(r.key, ok)
		if ok {
			continue
		}
		if r.warn {
			verdict.Warnings = append(verdict.Warnings, messages...)
		} else {
			verdict.Errors = append(verdict.Errors, messages...)
		}
	}

	verdict.Valid = len(verdict.Errors) == 0
	return verdict
}

func buildRules(p profile.Profile) []rule {
	rules := []rule{
		{
			key: CheckManifestPresent,
			eval: func(in Input, st state) (bool, []string) {
				if st.present {
					return true, nil
				}
				return false, []string{messageManifestMissing}
			},
		},
		{
			key: CheckManifestParse,
			eval: func(in Input, st state) (bool, []string) {
				if !st.present {
					// Absence is already reported by the presence check.
					return false, nil
				}
				if st.parsed {
					return true, nil
				}
				return false, []string{messageManifestInvalid}
			},
		},
	}

	for _, required := range p.RequiredFiles {
		rules = append(rules, rule{
			key: required.CheckKey,
			eval: func(in Input, st state) (bool, []string) {
				if in.Container.Names()[required.Path] {
					return true, nil
				}
				return false, []string{required.Message}
			},
		})
	}

	rules = append(rules, rule{
		key: p.PrimaryAsset.CheckKey,
		eval: func(in Input, st state) (bool, []string) {
			matches := p.PrimaryMatches(in.Container.Names())
			switch {
			case len(matches) == 1:
				return true, nil
			case len(matches) == 0:
				return false, []string{p.PrimaryAsset.MissingMessage}
			default:
				return false, []string{p.PrimaryAsset.MultipleMessage}
			}
		},
	})

	for _, field := range p.FieldRules {
		rules = append(rules, rule{
			key: field.CheckKey,
			eval: func(in Input, st state) (bool, []string) {
				if field.OK(st.manifest) {
					return true, nil
				}
				return false, []string{field.Message}
			},
		})
	}

	rules = append(rules, rule{
		key: CheckIntegrity,
		eval: func(in Input, st state) (bool, []string) {
			required := p.RequiredHashPaths(in.Container.Names())
			errs := integrity.Verify(in.Container, st.raw, st.manifest, required)
			return len(errs) == 0, errs
		},
	})

	for _, info := range p.Informational {
		rules = append(rules, rule{
			key:  info.CheckKey,
			warn: true,
			eval: func(in Input, st state) (bool, []string) {
				if info.OK(st.manifest) {
					return true, nil
				}
				return false, []string{info.Warning}
			},
		})
	}

	return rules
}
