package expmeta_test

import (
	"testing"

	expmeta "github.com/perfmeta/expmeta"
)

const exampleInput = `
regions: [
  { id: "r1", name: "main", kind: "function" }
]
metrics: [
  { id: "m1", name: "time", unit: "s", type: "float" }
]
topology: {
  id: "p0"
  kind: "process"
  entryRegion: "r1"
  children: []
}
`

func mustDecode(t *testing.T, src string, opt expmeta.Options) *expmeta.ExperimentDocument {
	t.Helper()
	tree, err := expmeta.ParseTree([]byte(src))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	doc, err := expmeta.Decode(tree, opt)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

func decodeIssues(t *testing.T, src string, opt expmeta.Options) expmeta.Issues {
	t.Helper()
	tree, err := expmeta.ParseTree([]byte(src))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	doc, err := expmeta.Decode(tree, opt)
	if err == nil {
		t.Fatalf("expected validation failure, got document %+v", doc)
	}
	if doc != nil {
		t.Fatalf("invalid input must not yield a document")
	}
	iss, ok := expmeta.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %T (%v)", err, err)
	}
	return iss
}

func hasIssue(iss expmeta.Issues, path, code string) bool {
	for _, it := range iss {
		if it.Path == path && it.Code == code {
			return true
		}
	}
	return false
}

func TestDecode_Example(t *testing.T) {
	doc := mustDecode(t, exampleInput, expmeta.Options{})
	if len(doc.Regions) != 1 || doc.Regions[0].ID != "r1" || doc.Regions[0].Name != "main" || doc.Regions[0].Kind != expmeta.RegionFunction {
		t.Fatalf("regions: got %+v", doc.Regions)
	}
	m := doc.Metrics[0]
	if m.ID != "m1" || m.Name != "time" || m.Unit != "s" || m.Type != expmeta.MetricFloat {
		t.Fatalf("metrics: got %+v", doc.Metrics)
	}
	topo := doc.Topology
	if topo == nil || topo.ID != "p0" || topo.Kind != expmeta.NodeProcess || topo.EntryRegion != "r1" {
		t.Fatalf("topology: got %+v", topo)
	}
	if topo.Children == nil || len(topo.Children) != 0 {
		t.Fatalf("children must be an empty sequence, got %+v", topo.Children)
	}
}

func TestDecode_DanglingReference(t *testing.T) {
	src := `
regions: [ { id: "r1", name: "main", kind: "function" } ]
metrics: [ { id: "m1", name: "time", unit: "s", type: "float" } ]
topology: { id: "p0", kind: "process", entryRegion: "rX", children: [] }
`
	iss := decodeIssues(t, src, expmeta.Options{})
	if len(iss) != 1 {
		t.Fatalf("expected exactly one violation, got %d: %v", len(iss), iss)
	}
	if !hasIssue(iss, "topology.entryRegion", expmeta.CodeDanglingReference) {
		t.Fatalf("expected dangling_reference at topology.entryRegion, got %+v", iss)
	}
}

func TestDecode_DuplicateRegionListsBothOccurrences(t *testing.T) {
	src := `
regions: [
  { id: "r1", name: "main", kind: "function" }
  { id: "r1", name: "other", kind: "loop" }
]
metrics: []
topology: { id: "p0", kind: "process", children: [] }
`
	iss := decodeIssues(t, src, expmeta.Options{})
	if !hasIssue(iss, "regions[0].id", expmeta.CodeDuplicateIdentifier) {
		t.Fatalf("first occurrence not listed: %+v", iss)
	}
	if !hasIssue(iss, "regions[1].id", expmeta.CodeDuplicateIdentifier) {
		t.Fatalf("second occurrence not listed: %+v", iss)
	}
}

func TestDecode_CycleDetected(t *testing.T) {
	src := `
regions: []
metrics: []
topology: {
  id: "p0"
  kind: "process"
  children: [
    { id: "t0", kind: "thread", children: [
      { id: "p0", kind: "thread", children: [] }
    ] }
  ]
}
`
	iss := decodeIssues(t, src, expmeta.Options{})
	if !hasIssue(iss, "topology.children[0].children[0]", expmeta.CodeCycleDetected) {
		t.Fatalf("expected cycle_detected, got %+v", iss)
	}
	// an ancestor repeat is a cycle, not a plain duplicate
	for _, it := range iss {
		if it.Code == expmeta.CodeDuplicateIdentifier {
			t.Fatalf("cycle must not double-report as duplicate_identifier: %+v", iss)
		}
	}
}

func TestDecode_DuplicateNodeAcrossSubtrees(t *testing.T) {
	src := `
regions: []
metrics: []
topology: {
  id: "p0"
  kind: "process"
  children: [
    { id: "t0", kind: "thread", children: [] }
    { id: "t0", kind: "thread", children: [] }
  ]
}
`
	iss := decodeIssues(t, src, expmeta.Options{})
	if !hasIssue(iss, "topology.children[0].id", expmeta.CodeDuplicateIdentifier) ||
		!hasIssue(iss, "topology.children[1].id", expmeta.CodeDuplicateIdentifier) {
		t.Fatalf("sibling duplicate not reported at both occurrences: %+v", iss)
	}
}

func TestDecode_UnknownFieldPolicy(t *testing.T) {
	src := `
regions: [ { id: "r1", name: "main", kind: "function", color: "red" } ]
metrics: []
topology: { id: "p0", kind: "process", children: [] }
`
	iss := decodeIssues(t, src, expmeta.Options{UnknownFields: expmeta.UnknownStrict})
	if !hasIssue(iss, "regions[0].color", expmeta.CodeUnknownField) {
		t.Fatalf("strict mode must reject unknown fields: %+v", iss)
	}

	doc := mustDecode(t, src, expmeta.Options{UnknownFields: expmeta.UnknownLenient})
	if doc.Regions[0].ID != "r1" {
		t.Fatalf("lenient mode must drop unknown fields and keep the rest: %+v", doc.Regions)
	}
}

func TestDecode_MissingRequiredTopLevel(t *testing.T) {
	iss := decodeIssues(t, "\n", expmeta.Options{})
	for _, p := range []string{"regions", "metrics", "topology"} {
		if !hasIssue(iss, p, expmeta.CodeMissingRequiredField) {
			t.Fatalf("missing %s not reported: %+v", p, iss)
		}
	}
}

func TestDecode_WrongTypes(t *testing.T) {
	src := `
regions: [ { id: 42, name: "main", kind: "function" } ]
metrics: "not-a-sequence"
topology: { id: "p0", kind: "process", children: [] }
`
	iss := decodeIssues(t, src, expmeta.Options{})
	if !hasIssue(iss, "regions[0].id", expmeta.CodeWrongType) {
		t.Fatalf("int in string field not reported: %+v", iss)
	}
	if !hasIssue(iss, "metrics", expmeta.CodeWrongType) {
		t.Fatalf("scalar in sequence position not reported: %+v", iss)
	}
}

func TestDecode_EnumLiterals(t *testing.T) {
	src := `
regions: [ { id: "r1", name: "main", kind: "banana" } ]
metrics: []
topology: { id: "p0", kind: "process", children: [] }
`
	iss := decodeIssues(t, src, expmeta.Options{})
	if !hasIssue(iss, "regions[0].kind", expmeta.CodeOutOfRange) {
		t.Fatalf("enum violation not reported: %+v", iss)
	}
}

func TestDecode_NumericWidening(t *testing.T) {
	// integer literal in the float-typed scale widens
	src := `
regions: []
metrics: [ { id: "m1", name: "bytes", unit: "", type: "int", scale: 2 } ]
topology: { id: "p0", kind: "process", children: [] }
`
	doc := mustDecode(t, src, expmeta.Options{})
	if doc.Metrics[0].Scale == nil || *doc.Metrics[0].Scale != 2 {
		t.Fatalf("integer literal must widen to float: %+v", doc.Metrics[0])
	}

	// the reverse never narrows
	src2 := `
regions: [ { id: "r1", name: "main", kind: "function", location: { file: "main.c", beginLine: 1.5, endLine: 3 } } ]
metrics: []
topology: { id: "p0", kind: "process", children: [] }
`
	iss := decodeIssues(t, src2, expmeta.Options{})
	if !hasIssue(iss, "regions[0].location.beginLine", expmeta.CodeWrongType) {
		t.Fatalf("float literal in int field not reported: %+v", iss)
	}
}

func TestDecode_Ranges(t *testing.T) {
	src := `
regions: [ { id: "r1", name: "main", kind: "function", location: { file: "main.c", beginLine: 9, endLine: 3 } } ]
metrics: [ { id: "m1", name: "time", unit: "s", type: "float", scale: 0 } ]
topology: { id: "p0", kind: "process", children: [] }
`
	iss := decodeIssues(t, src, expmeta.Options{})
	if !hasIssue(iss, "regions[0].location.endLine", expmeta.CodeOutOfRange) {
		t.Fatalf("inverted line range not reported: %+v", iss)
	}
	if !hasIssue(iss, "metrics[0].scale", expmeta.CodeOutOfRange) {
		t.Fatalf("non-positive scale not reported: %+v", iss)
	}
}

func TestDecode_ExperimentDate(t *testing.T) {
	good := `
experiment: { name: "run-1", date: "2026-03-01T12:00:00Z" }
regions: []
metrics: []
topology: { id: "p0", kind: "process", children: [] }
`
	doc := mustDecode(t, good, expmeta.Options{})
	if doc.Experiment == nil || doc.Experiment.Name != "run-1" || doc.Experiment.Date != "2026-03-01T12:00:00Z" {
		t.Fatalf("experiment info: got %+v", doc.Experiment)
	}

	bad := `
experiment: { name: "run-1", date: "yesterday" }
regions: []
metrics: []
topology: { id: "p0", kind: "process", children: [] }
`
	iss := decodeIssues(t, bad, expmeta.Options{})
	if !hasIssue(iss, "experiment.date", expmeta.CodeWrongType) {
		t.Fatalf("malformed date not reported: %+v", iss)
	}
}

func TestDecode_AggregatesAllViolations(t *testing.T) {
	src := `
regions: [
  { id: "r1", name: "main", kind: "banana" }
  { id: "r1", kind: "loop" }
]
metrics: []
topology: { id: "p0", kind: "process", entryRegion: "rX", children: [] }
`
	iss := decodeIssues(t, src, expmeta.Options{})
	wantPaths := map[string]string{
		"regions[0].kind":      expmeta.CodeOutOfRange,
		"regions[0].id":        expmeta.CodeDuplicateIdentifier,
		"regions[1].id":        expmeta.CodeDuplicateIdentifier,
		"regions[1].name":      expmeta.CodeMissingRequiredField,
		"topology.entryRegion": expmeta.CodeDanglingReference,
	}
	for p, c := range wantPaths {
		if !hasIssue(iss, p, c) {
			t.Fatalf("missing aggregated violation %s at %s, got %+v", c, p, iss)
		}
	}
}
