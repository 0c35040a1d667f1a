package settings

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/settings.schema.json
var settingsSchema []byte

const (
	schemaURL         = "settings.schema.json"
	fragmentSchemaURL = schemaURL + "#/$defs/fragment"

	// SupportedVersions is the range of document versions this build reads.
	SupportedVersions = ">= 1.0.0, < 2.0.0"
)

var (
	compileOnce    sync.Once
	documentSchema *jsonschema.Schema
	fragmentSchema *jsonschema.Schema
	compileErr     error
)

func compiledSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource(schemaURL, bytes.NewReader(settingsSchema)); err != nil {
			compileErr = fmt.Errorf("failed to add settings schema: %w", err)
			return
		}
		if documentSchema, compileErr = compiler.Compile(schemaURL); compileErr != nil {
			compileErr = fmt.Errorf("failed to compile settings schema: %w", compileErr)
			return
		}
		if fragmentSchema, compileErr = compiler.Compile(fragmentSchemaURL); compileErr != nil {
			compileErr = fmt.Errorf("failed to compile fragment schema: %w", compileErr)
		}
	})
	return documentSchema, fragmentSchema, compileErr
}

// ValidateDocument checks raw settings YAML against the settings schema.
func ValidateDocument(data []byte) error {
	doc, _, err := compiledSchemas()
	if err != nil {
		return err
	}
	return validateAgainst(doc, data)
}

// ValidateFragment checks a standalone fragment file (YAML or JSON).
func ValidateFragment(data []byte) error {
	_, frag, err := compiledSchemas()
	if err != nil {
		return err
	}
	return validateAgainst(frag, data)
}

func validateAgainst(schema *jsonschema.Schema, data []byte) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// formatSchemaValidationError flattens a JSON Schema validation error tree.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" && len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return fmt.Errorf("schema validation failed: %s", err.Message)
	}
	return fmt.Errorf("schema validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}

// CheckVersion rejects documents outside SupportedVersions. An empty
// version is treated as CurrentVersion.
func CheckVersion(version string) error {
	if version == "" {
		version = CurrentVersion
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid document version %q: %w", version, err)
	}

	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid version constraint: %w", err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("document version %s is not supported (want %s)", v, SupportedVersions)
	}
	return nil
}
