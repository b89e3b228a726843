package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemaFiles embed.FS

const schemaBaseURL = "https://pokerrooms.local/schemas/"

// Validator checks inbound JSON frames against the embedded schemas
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schema directory: %w", err)
	}

	schemas := make(map[string]*jsonschema.Schema, len(entries))
	for _, entry := range entries {
		data, err := schemaFiles.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}
		url := schemaBaseURL + entry.Name()
		if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", entry.Name(), err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", entry.Name(), err)
		}
		schemas[strings.TrimSuffix(entry.Name(), ".json")] = schema
	}

	return &Validator{schemas: schemas}, nil
}

// Validate checks the envelope and then the payload schema of its event.
func (v *Validator) Validate(frame []byte) error {
	dec := json.NewDecoder(bytes.NewReader(frame))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := v.schemas["envelope"].Validate(doc); err != nil {
		return fmt.Errorf("envelope: %w", err)
	}

	obj := doc.(map[string]any)
	event, _ := obj["event"].(string)
	schema, ok := v.schemas[event]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	data, present := obj["data"]
	if !present {
		data = map[string]any{}
	}
	if err := schema.Validate(data); err != nil {
		return fmt.Errorf("%s: %w", event, err)
	}
	return nil
}
