package expmeta_test

import (
	"bytes"
	"testing"

	expmeta "github.com/perfmeta/expmeta"
)

const yamlInput = `experiment:
  name: run-1
  date: "2026-03-01T12:00:00Z"
regions:
  - id: r1
    name: main
    kind: function
    location:
      file: main.c
      beginLine: 10
      endLine: 42
  - id: r2
    name: solver-loop
    kind: loop
metrics:
  - id: m1
    name: time
    unit: s
    type: float
    scale: 0.001
  - id: m2
    name: visits
    unit: ""
    type: int
topology:
  id: p0
  kind: process
  entryRegion: r1
  children:
    - id: t0
      kind: thread
      entryRegion: r2
      children: []
    - id: t1
      kind: thread
      children:
        - id: l0
          kind: location
          children: []
`

// The YAML front end must produce the same document, and therefore the same
// canonical bytes, as the equivalent native input.
func TestConvertYAML_MatchesNative(t *testing.T) {
	fromYAML, err := expmeta.ConvertYAML([]byte(yamlInput), expmeta.Options{})
	if err != nil {
		t.Fatalf("ConvertYAML: %v", err)
	}
	fromNative, err := expmeta.Convert([]byte(fullInput), expmeta.Options{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !bytes.Equal(fromYAML, fromNative) {
		t.Fatalf("front ends disagree\n yaml: %s\nnative: %s", fromYAML, fromNative)
	}
}

func TestParseYAMLTree_PreservesKeyOrder(t *testing.T) {
	tree, err := expmeta.ParseYAMLTree([]byte("b: 1\na: 2\nc: 3\n"))
	if err != nil {
		t.Fatalf("ParseYAMLTree: %v", err)
	}
	keys := make([]string, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		keys = append(keys, e.Key)
	}
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Fatalf("key order not preserved: %v", keys)
	}
}

func TestParseYAMLTree_Errors(t *testing.T) {
	if _, err := expmeta.ParseYAMLTree([]byte("- just\n- a\n- sequence\n")); err == nil {
		t.Fatalf("expected error for non-mapping top level")
	}
	_, err := expmeta.ParseYAMLTree([]byte("a: [unclosed\n"))
	if err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
	if _, ok := expmeta.AsParseError(err); !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
}

func TestParseYAMLTree_ValidationRidesSamePath(t *testing.T) {
	bad := `regions: []
metrics: []
topology:
  id: p0
  kind: process
  entryRegion: rX
  children: []
`
	_, err := expmeta.ConvertYAML([]byte(bad), expmeta.Options{})
	iss, ok := expmeta.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %T (%v)", err, err)
	}
	if !hasIssue(iss, "topology.entryRegion", expmeta.CodeDanglingReference) {
		t.Fatalf("expected dangling_reference via YAML front end: %+v", iss)
	}
}
