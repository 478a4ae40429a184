package course

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind is the runtime type of a YAML value as resolved by its tag.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTimestamp
	KindMap
	KindSeq
	// KindAny accepts every value.
	KindAny
)

var kindNames = map[Kind]string{
	KindNull:      "null",
	KindString:    "str",
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindTimestamp: "timestamp",
	KindMap:       "map",
	KindSeq:       "seq",
	KindAny:       "any",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindOf resolves the kind of n from its tag.
func KindOf(n *yaml.Node) Kind {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		return KindMap
	case yaml.SequenceNode:
		return KindSeq
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int":
			return KindInt
		case "!!float":
			return KindFloat
		case "!!bool":
			return KindBool
		case "!!timestamp":
			return KindTimestamp
		case "!!null":
			return KindNull
		default:
			return KindString
		}
	}
	return KindNull
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// Field declares one key of a record.
type Field struct {
	Key      string
	Kinds    []Kind
	Required bool
	// Schema decodes the value when it is a mapping.
	Schema *Schema
	// Elem constrains sequence elements; zero value (KindNull) leaves them unchecked.
	Elem Kind
}

func (f Field) accepts(k Kind) bool {
	for _, want := range f.Kinds {
		if want == KindAny || want == k {
			return true
		}
	}
	return false
}

// Schema declares the keys of a record and their expected kinds.
type Schema struct {
	Name   string
	Fields []Field
}

func (s *Schema) field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Record is a mapping that passed schema validation: every key is declared and
// every value has one of the declared kinds.
type Record struct {
	Schema   *Schema
	nodes    map[string]*yaml.Node
	children map[string]*Record
}

// Decode validates the mapping n against s. A nil, empty or null document
// decodes to an empty record.
func (s *Schema) Decode(n *yaml.Node) (*Record, error) {
	if n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			n = nil
		} else {
			n = n.Content[0]
		}
	}
	n = resolveAlias(n)
	rec := &Record{Schema: s, nodes: map[string]*yaml.Node{}, children: map[string]*Record{}}
	if n == nil || KindOf(n) == KindNull {
		return rec, s.checkRequired(rec)
	}
	if n.Kind != yaml.MappingNode {
		return nil, &DefinitionParseError{Reason: fmt.Sprintf("%s must be a mapping, got '%s'", s.Name, KindOf(n)), Line: n.Line}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := resolveAlias(n.Content[i]), resolveAlias(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return nil, &DefinitionParseError{Reason: fmt.Sprintf("non-scalar key in %s", s.Name), Line: k.Line}
		}
		key := k.Value
		f, ok := s.field(key)
		if !ok {
			return nil, &UnknownFieldError{Record: s.Name, Field: key, Line: k.Line}
		}
		if _, dup := rec.nodes[key]; dup {
			return nil, &DefinitionParseError{Reason: fmt.Sprintf("duplicate key '%s' in %s", key, s.Name), Line: k.Line}
		}
		actual := KindOf(v)
		if actual == KindNull {
			continue
		}
		if !f.accepts(actual) {
			return nil, &FieldTypeError{Record: s.Name, Field: key, Expected: f.Kinds, Actual: actual, Line: v.Line}
		}
		switch {
		case actual == KindSeq && f.Elem != KindNull && f.Elem != KindAny:
			for j, el := range v.Content {
				if ek := KindOf(el); ek != f.Elem {
					return nil, &FieldTypeError{
						Record: s.Name, Field: fmt.Sprintf("%s[%d]", key, j),
						Expected: []Kind{f.Elem}, Actual: ek, Line: el.Line,
					}
				}
			}
		case actual == KindMap && f.Schema != nil:
			child, err := f.Schema.Decode(v)
			if err != nil {
				return nil, err
			}
			rec.children[key] = child
		}
		rec.nodes[key] = v
	}
	return rec, s.checkRequired(rec)
}

func (s *Schema) checkRequired(rec *Record) error {
	for _, f := range s.Fields {
		if _, ok := rec.nodes[f.Key]; f.Required && !ok {
			return &MissingFieldError{Record: s.Name, Field: f.Key}
		}
	}
	return nil
}

// Has reports whether key is present and not null.
func (r *Record) Has(key string) bool {
	_, ok := r.nodes[key]
	return ok
}

// String returns the scalar text of key, "" when absent.
func (r *Record) String(key string) string {
	if n, ok := r.nodes[key]; ok && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return ""
}

// Int returns the integer value of key, 0 when absent.
func (r *Record) Int(key string) (int, error) {
	n, ok := r.nodes[key]
	if !ok {
		return 0, nil
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, &DefinitionParseError{Reason: fmt.Sprintf("%s.%s: %v", r.Schema.Name, key, err), Line: n.Line}
	}
	return v, nil
}

// Strings returns a scalar as a one-element slice or the elements of a sequence.
func (r *Record) Strings(key string) []string {
	n, ok := r.nodes[key]
	if !ok {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		return []string{n.Value}
	}
	out := make([]string, 0, len(n.Content))
	for _, el := range n.Content {
		out = append(out, resolveAlias(el).Value)
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2. 1. 2006 15:04",
	"2. 1. 2006",
}

// Time parses key as a timestamp in loc. Both YAML timestamps and plain strings
// in one of the accepted layouts are understood.
func (r *Record) Time(key string, loc *time.Location) (time.Time, error) {
	n, ok := r.nodes[key]
	if !ok {
		return time.Time{}, nil
	}
	text := strings.TrimSpace(n.Value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InvalidValueError{Record: r.Schema.Name, Field: key, Value: strconv.Quote(text), Reason: "unrecognised date format"}
}

// Record returns the nested record of key, nil when absent.
func (r *Record) Record(key string) *Record { return r.children[key] }

// Any decodes key into a generic Go value.
func (r *Record) Any(key string) (any, error) {
	n, ok := r.nodes[key]
	if !ok {
		return nil, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, &DefinitionParseError{Reason: fmt.Sprintf("%s.%s: %v", r.Schema.Name, key, err), Line: n.Line}
	}
	return v, nil
}

// Line returns the source line of key, 0 when absent.
func (r *Record) Line(key string) int {
	if n, ok := r.nodes[key]; ok {
		return n.Line
	}
	return 0
}
