// Package expmeta converts experiment metadata files produced by a
// performance-measurement framework into validated, canonical JSON.
//
// The pipeline is:
//
//   - ParseTree / ParseYAMLTree: raw bytes -> generic structural tree (*Value)
//   - Decode: *Value -> *ExperimentDocument, aggregating every violation
//   - EncodeJSON: *ExperimentDocument -> canonical JSON bytes
//
// or, independent of any input, ExportSchemaJSON renders the document model
// as a JSON Schema document.
//
// Design policy:
// - Keep only public APIs in the root package; put the tokenizer under internal/.
// - Place the JSON Schema model under jsonschema/ and the CLI under cmd/expmeta2json.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	tree, err := expmeta.ParseTree(data)
//	doc, err := expmeta.Decode(tree, expmeta.Options{})
//	out, err := expmeta.EncodeJSON(doc)
package expmeta
