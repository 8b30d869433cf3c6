package nacosconfig

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode deserializes the document content into T. The codec follows the
// server-declared document type: "yaml"/"yml" decodes with yaml.v3, anything
// else (including an empty type) decodes as JSON. A decode failure returns a
// *ParseError carrying the raw content alongside the decoder diagnostic.
func Decode[T any](doc *Document) (T, error) {
	var out T

	var err error
	switch strings.ToLower(doc.Type) {
	case "yaml", "yml":
		err = yaml.Unmarshal([]byte(doc.Content), &out)
	default:
		err = json.Unmarshal([]byte(doc.Content), &out)
	}
	if err != nil {
		var zero T
		return zero, &ParseError{Content: doc.Content, Cause: err}
	}
	return out, nil
}
