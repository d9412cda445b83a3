package i18n

// Translator retrieves human-readable messages for violation codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "id").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{}

func (dictTranslator) Message(code string, data map[string]string) string {
	switch code {
	case "missing_required_field":
		return "required field missing"
	case "wrong_type":
		return "wrong type"
	case "unknown_field":
		return "unknown field"
	case "duplicate_identifier":
		return "duplicate identifier"
	case "dangling_reference":
		return "reference to undeclared identifier"
	case "cycle_detected":
		return "topology cycle detected"
	case "out_of_range":
		return "value out of range"
	}
	return code
}

var currentTranslator Translator = dictTranslator{}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{}
		return
	}
	currentTranslator = tr
}

// T returns the message for code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
