package nacosconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// validateSchema checks the raw document content against a JSON Schema.
// The schema engine consumes JSON, so a document declared as YAML fails here
// when a schema is configured. Violations are collected into a single
// *ParseError so callers see every failed constraint at once.
func validateSchema(doc *Document, schema string) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(doc.Content)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ParseError{Content: doc.Content, Cause: fmt.Errorf("schema validation error: %w", err)}
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return &ParseError{
			Content: doc.Content,
			Cause:   fmt.Errorf("schema validation failed: %s", strings.Join(messages, "; ")),
		}
	}

	return nil
}
