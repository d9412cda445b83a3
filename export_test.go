package expmeta_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	expmeta "github.com/perfmeta/expmeta"
)

// normalize marshals v to JSON and unmarshals back into interface{} to remove ordering effects.
func normalize(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("schema output is not valid JSON: %v", err)
	}
	return out
}

func TestExportSchemaJSON_Idempotent(t *testing.T) {
	a, err := expmeta.ExportSchemaJSON()
	if err != nil {
		t.Fatalf("ExportSchemaJSON: %v", err)
	}
	b, err := expmeta.ExportSchemaJSON()
	if err != nil {
		t.Fatalf("ExportSchemaJSON: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("schema export is not byte-identical across runs")
	}
	if a[len(a)-1] != '\n' {
		t.Fatalf("schema output must be newline-terminated")
	}
}

func TestExportSchema_Shape(t *testing.T) {
	raw, err := expmeta.ExportSchemaJSON()
	if err != nil {
		t.Fatalf("ExportSchemaJSON: %v", err)
	}
	s := normalize(t, raw)

	if s["$schema"] != expmeta.SchemaURI {
		t.Fatalf("$schema: got %v", s["$schema"])
	}
	if s["type"] != "object" {
		t.Fatalf("root type: got %v", s["type"])
	}

	req, _ := s["required"].([]any)
	want := []any{"regions", "metrics", "topology"}
	if !reflect.DeepEqual(req, want) {
		t.Fatalf("root required: got %v want %v", req, want)
	}
	if s["additionalProperties"] != false {
		t.Fatalf("root additionalProperties: got %v", s["additionalProperties"])
	}

	defs, _ := s["$defs"].(map[string]any)
	for _, name := range []string{"Region", "MetricDefinition", "TopologyNode", "SourceLocation", "ExperimentInfo"} {
		if _, ok := defs[name]; !ok {
			t.Fatalf("$defs missing %s (have %v)", name, defs)
		}
	}

	region, _ := defs["Region"].(map[string]any)
	props, _ := region["properties"].(map[string]any)
	kind, _ := props["kind"].(map[string]any)
	enum, _ := kind["enum"].([]any)
	wantEnum := []any{"function", "loop", "phase", "user-defined", "other"}
	if !reflect.DeepEqual(enum, wantEnum) {
		t.Fatalf("region kind enum: got %v want %v", enum, wantEnum)
	}

	node, _ := defs["TopologyNode"].(map[string]any)
	nprops, _ := node["properties"].(map[string]any)
	children, _ := nprops["children"].(map[string]any)
	items, _ := children["items"].(map[string]any)
	if items["$ref"] != "#/$defs/TopologyNode" {
		t.Fatalf("children items ref: got %v", items["$ref"])
	}

	// invariants the dialect cannot express are documented, not dropped
	desc, _ := node["description"].(string)
	if !strings.Contains(desc, "cycle") {
		t.Fatalf("TopologyNode description must document cycle-freedom: %q", desc)
	}
	rootDesc, _ := s["description"].(string)
	if !strings.Contains(rootDesc, "identifier") {
		t.Fatalf("root description must document referential integrity: %q", rootDesc)
	}
}

func TestExportSchema_NumericBounds(t *testing.T) {
	raw, err := expmeta.ExportSchemaJSON()
	if err != nil {
		t.Fatalf("ExportSchemaJSON: %v", err)
	}
	s := normalize(t, raw)
	defs, _ := s["$defs"].(map[string]any)

	loc, _ := defs["SourceLocation"].(map[string]any)
	props, _ := loc["properties"].(map[string]any)
	begin, _ := props["beginLine"].(map[string]any)
	if begin["type"] != "integer" || begin["minimum"] != float64(1) {
		t.Fatalf("beginLine schema: got %v", begin)
	}

	metric, _ := defs["MetricDefinition"].(map[string]any)
	mprops, _ := metric["properties"].(map[string]any)
	scale, _ := mprops["scale"].(map[string]any)
	if scale["type"] != "number" || scale["exclusiveMinimum"] != float64(0) {
		t.Fatalf("scale schema: got %v", scale)
	}
}
