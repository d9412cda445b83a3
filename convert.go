package expmeta

// Convert is the composed one-shot pipeline: read the native syntax,
// map/validate, serialize. It returns a *ParseError for syntax failures and
// Issues for validation failures.
func Convert(data []byte, opt Options) ([]byte, error) {
	tree, err := ParseTree(data)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(tree, opt)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(doc)
}

// ConvertYAML is Convert with the YAML front end.
func ConvertYAML(data []byte, opt Options) ([]byte, error) {
	tree, err := ParseYAMLTree(data)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(tree, opt)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(doc)
}
