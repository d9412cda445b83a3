package expmeta

// Kind enumerates the variants of the generic structural tree.
type Kind int

const (
	KindInvalid Kind = iota
	KindMapping
	KindSequence
	KindString
	KindInt
	KindFloat
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "invalid"
	}
}

// Entry is one key/value pair of a mapping. Entries keep the declaration
// order of the source file.
type Entry struct {
	Key    string
	Value  *Value
	Offset int64 // byte offset of the key token; -1 when unknown
}

// Value is the generic structural tree produced by the format readers. It is
// a tagged variant: exactly the fields selected by Kind are meaningful.
// The readers attach no schema meaning; field names are plain strings here.
type Value struct {
	Kind Kind

	Str     string   // KindString
	Int     int64    // KindInt
	Float   float64  // KindFloat
	Bool    bool     // KindBool
	Entries []Entry  // KindMapping, declaration order
	Elems   []*Value // KindSequence, declaration order

	Offset int64 // byte offset of the first token of this value; -1 when unknown
}

// Get returns the value for key and whether it is present. Mappings in
// metadata files are small, so a linear scan keeps declaration order the
// single source of truth.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != KindMapping {
		return nil, false
	}
	for i := range v.Entries {
		if v.Entries[i].Key == key {
			return v.Entries[i].Value, true
		}
	}
	return nil, false
}
