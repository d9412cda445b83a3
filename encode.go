package expmeta

import (
	"errors"

	json "github.com/goccy/go-json"
)

// EncodeJSON renders a validated document as canonical JSON: keys in
// schema-declared order, two-space indent, UTF-8, newline-terminated.
// Two semantically identical documents parsed from differently-ordered
// input files serialize to byte-identical output; only document-level
// sequence order and topology child order carry through from the source.
func EncodeJSON(doc *ExperimentDocument) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("expmeta: nil document")
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
