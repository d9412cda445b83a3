package expmeta

import (
	json "github.com/goccy/go-json"

	js "github.com/perfmeta/expmeta/jsonschema"
)

// SchemaURI is the JSON Schema dialect the exporter targets.
const SchemaURI = "https://json-schema.org/draft/2020-12/schema"

// SchemaID identifies the exported document schema.
const SchemaID = "https://github.com/perfmeta/expmeta/experiment-document.schema.json"

// ExportSchema projects the schema tables into a standalone JSON Schema
// document describing ExperimentDocument and its entities. Constraints the
// dialect cannot express (cross-entity referential integrity, cycle-freedom)
// are carried in description text rather than silently dropped.
func ExportSchema() *js.Schema {
	root := entitySchema(documentDef)
	root.SchemaURI = SchemaURI
	root.ID = SchemaID
	root.Title = documentDef.Name
	root.Defs = make(map[string]*js.Schema, len(entityDefs))
	for _, def := range entityDefs {
		root.Defs[def.Name] = entitySchema(def)
	}
	return root
}

// ExportSchemaJSON renders ExportSchema as canonical JSON bytes,
// newline-terminated. Output is byte-identical across runs.
func ExportSchemaJSON() ([]byte, error) {
	b, err := json.MarshalIndent(ExportSchema(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func entitySchema(def EntityDef) *js.Schema {
	s := &js.Schema{
		Type:                 "object",
		Description:          def.Desc,
		Properties:           make(map[string]*js.Schema, len(def.Fields)),
		AdditionalProperties: false,
	}
	for _, f := range def.Fields {
		s.Properties[f.Name] = fieldSchema(f)
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func fieldSchema(f Field) *js.Schema {
	s := &js.Schema{Description: f.Desc}
	switch f.Type {
	case FieldString:
		s.Type = "string"
		s.Enum = f.Enum
		s.Format = f.Format
	case FieldInt:
		s.Type = "integer"
		s.Minimum = f.Min
	case FieldFloat:
		s.Type = "number"
		s.ExclusiveMinimum = f.ExclusiveMin
	case FieldEntity:
		s.Ref = "#/$defs/" + f.Entity
	case FieldList:
		s.Type = "array"
		s.Items = &js.Schema{Ref: "#/$defs/" + f.Entity}
	}
	return s
}
