package build

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed document_schema.json
var documentSchemaJSON []byte

// Validator checks the structural shape of an input document before
// transformation. The check is a lenient sanity pass, not full OpenAPI
// validation: it catches documents that are not OpenAPI 3.x at all.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the document sanity schema.
func NewValidator() (*Validator, error) {
	var schemaDoc any
	if err := json.Unmarshal(documentSchemaJSON, &schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	resourceName := "openapi-document.json"
	if err := compiler.AddResource(resourceName, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate checks a marshaled document against the sanity schema.
func (v *Validator) Validate(docJSON []byte) error {
	var data any
	if err := json.Unmarshal(docJSON, &data); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return v.schema.Validate(data)
}
