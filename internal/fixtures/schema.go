package fixtures

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names for the bundled documents.
const (
	SchemaProperties = "properties"
	SchemaBlog       = "blog"
)

// Validator checks fixture documents against the bundled JSON schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every schema under schemas/.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("fixtures: list schemas: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".schema.json") {
			continue
		}
		path := "schemas/" + e.Name()
		data, err := schemaFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("fixtures: read schema %s: %w", path, err)
		}
		if err := compiler.AddResource(path, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("fixtures: add schema %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("fixtures: compile schema %s: %w", path, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".schema.json")
		v.schemas[name] = schema
	}
	return v, nil
}

// Validate parses body and checks it against the named schema.
func (v *Validator) Validate(name string, body []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("fixtures: unknown schema %q", name)
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("fixtures: document is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
	}
	return nil
}
