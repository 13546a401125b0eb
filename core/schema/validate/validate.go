// Package validate checks finished manifests against the shared baseline
// JSON Schema. The packager uses it as a fail-fast self-check before any
// container bytes are written; the rule engine does not depend on it.
package validate

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

//go:embed manifest_schema.json
var manifestSchemaJSON []byte

var (
	compileOnce    sync.Once
	manifestSchema *jsonschema.Schema
	compileErr     error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		manifestSchema, compileErr = compiler.Compile(manifestSchemaJSON)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile manifest schema: %w", compileErr)
		}
	})
	return manifestSchema, compileErr
}

// ValidateManifest validates raw manifest JSON against the baseline schema.
func ValidateManifest(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("manifest schema validation failed: %v", result.Errors)
}
