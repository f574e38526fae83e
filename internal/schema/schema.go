// Package schema validates generated dashboard documents against the
// embedded JSON Schema, catching contract drift before the SPA ever loads a
// broken document.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed document.schema.json
var documentSchema []byte

// Validate checks a serialized dashboard document against the document
// schema. It returns nil when the document satisfies the contract.
func Validate(doc []byte) error {
	compiled, err := compile()
	if err != nil {
		return err
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if err := compiled.Validate(instance); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}

func compile() (*jsonschema.Schema, error) {
	raw, err := jsonschema.UnmarshalJSON(bytes.NewReader(documentSchema))
	if err != nil {
		return nil, fmt.Errorf("embedded schema is not valid JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("document.schema.json", raw); err != nil {
		return nil, fmt.Errorf("failed to register schema: %w", err)
	}
	compiled, err := compiler.Compile("document.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}
