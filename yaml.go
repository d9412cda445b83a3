package expmeta

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAMLTree parses a YAML rendering of a metadata document into the same
// generic structural tree ParseTree produces. Key order of YAML mappings is
// preserved by walking yaml.Node directly instead of decoding into Go maps.
func ParseYAMLTree(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Offset: -1, Msg: err.Error()}
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return &Value{Kind: KindMapping, Offset: -1}, nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{Offset: -1, Line: node.Line, Col: node.Column, Msg: "top level must be a mapping"}
	}
	return yamlToValue(node)
}

func yamlToValue(n *yaml.Node) (*Value, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		v := &Value{Kind: KindMapping, Offset: -1}
		seen := make(map[string]struct{})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if _, dup := seen[k.Value]; dup {
				return nil, &ParseError{Offset: -1, Line: k.Line, Col: k.Column, Msg: "duplicate key " + strconv.Quote(k.Value)}
			}
			seen[k.Value] = struct{}{}
			child, err := yamlToValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			v.Entries = append(v.Entries, Entry{Key: k.Value, Value: child, Offset: -1})
		}
		return v, nil
	case yaml.SequenceNode:
		v := &Value{Kind: KindSequence, Offset: -1}
		for _, c := range n.Content {
			el, err := yamlToValue(c)
			if err != nil {
				return nil, err
			}
			v.Elems = append(v.Elems, el)
		}
		return v, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, &ParseError{Offset: -1, Line: n.Line, Col: n.Column, Msg: "unsupported YAML node"}
	}
}

func yamlScalar(n *yaml.Node) (*Value, error) {
	switch n.Tag {
	case "!!null":
		return &Value{Kind: KindNull, Offset: -1}, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, &ParseError{Offset: -1, Line: n.Line, Col: n.Column, Msg: "malformed bool " + strconv.Quote(n.Value)}
		}
		return &Value{Kind: KindBool, Bool: b, Offset: -1}, nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, &ParseError{Offset: -1, Line: n.Line, Col: n.Column, Msg: "malformed integer " + strconv.Quote(n.Value)}
		}
		return &Value{Kind: KindInt, Int: i, Offset: -1}, nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, &ParseError{Offset: -1, Line: n.Line, Col: n.Column, Msg: "malformed float " + strconv.Quote(n.Value)}
		}
		return &Value{Kind: KindFloat, Float: f, Offset: -1}, nil
	default:
		return &Value{Kind: KindString, Str: n.Value, Offset: -1}, nil
	}
}
