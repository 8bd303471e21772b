package payload

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scheme is one entry of the registry: a tagged variant bundling detection,
// schema and both codec directions for a Kind.
type Scheme struct {
	Kind   Kind
	Schema Schema
	// Detect reports whether the (trimmed) text belongs to this scheme.
	Detect func(text string) bool
	// Encode receives values already normalized against Schema.
	Encode func(v Values) (string, error)
	// Decode extracts field values from text accepted by Detect.
	Decode func(text string) Values
	// Display renders decoded values; nil falls back to schema labels.
	Display func(v Values) []DisplayField
}

// DisplayField is one label/value row of a classification.
type DisplayField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Result is the outcome of classifying one raw string. It is built fresh
// for every call and never shared.
type Result struct {
	Kind          Kind           `json:"kind"`
	DisplayType   string         `json:"display_type"`
	DisplayFields []DisplayField `json:"display_fields"`
	Values        Values         `json:"values,omitempty"`
	RawText       string         `json:"raw_text"`
	Symbology     Symbology      `json:"symbology,omitempty"`
}

// Field returns the value of the display row with the given label.
func (r Result) Field(label string) (string, bool) {
	for _, f := range r.DisplayFields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// Registry dispatches by kind for encoding and by sniffing for decoding.
type Registry struct {
	schemes []Scheme
	byKind  map[Kind]int
}

// NewRegistry builds a registry; detection follows argument order.
// It panics on duplicate kinds, which is a programming error.
func NewRegistry(schemes ...Scheme) *Registry {
	r := &Registry{
		schemes: make([]Scheme, len(schemes)),
		byKind:  make(map[Kind]int, len(schemes)),
	}
	copy(r.schemes, schemes)
	for i, s := range r.schemes {
		if _, dup := r.byKind[s.Kind]; dup {
			panic(fmt.Sprintf("payload: duplicate scheme %q", s.Kind))
		}
		r.byKind[s.Kind] = i
	}
	return r
}

// Kinds lists the registered kinds in detection order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.schemes))
	for i, s := range r.schemes {
		out[i] = s.Kind
	}
	return out
}

// Schema returns the field schema of kind.
func (r *Registry) Schema(kind Kind) (Schema, bool) {
	i, ok := r.byKind[kind]
	if !ok {
		return nil, false
	}
	return r.schemes[i].Schema, true
}

// Encode validates values against the schema of kind and returns the
// canonical payload. The payload is checked to classify back as kind, so
// e.g. plain text that reads as a URL is rejected.
func (r *Registry) Encode(kind Kind, values Values) (string, error) {
	i, ok := r.byKind[kind]
	if !ok {
		return "", invalid("kind", "cannot encode %q", kind)
	}
	s := r.schemes[i]

	norm, err := s.Schema.normalize(values)
	if err != nil {
		return "", err
	}
	out, err := s.Encode(norm)
	if err != nil {
		return "", err
	}

	if got := r.detect(out); got == nil || got.Kind != kind {
		back := KindUnknown
		if got != nil {
			back = got.Kind
		}
		field := "kind"
		if len(s.Schema) > 0 {
			field = s.Schema[0].Name
		}
		return "", invalid(field, "would be read back as %s", back.DisplayType())
	}
	return out, nil
}

// Decode returns the kind and field values of raw text. ok is false when
// the text is not recognized by any scheme.
func (r *Registry) Decode(raw string) (Kind, Values, bool) {
	s := r.detect(raw)
	if s == nil {
		return KindUnknown, nil, false
	}
	return s.Kind, s.Decode(strings.TrimSpace(raw)), true
}

// Classify never fails. Unrecognized text yields KindUnknown with the raw
// text as the only display field.
func (r *Registry) Classify(raw string) Result {
	s := r.detect(raw)
	if s == nil {
		return Result{
			Kind:          KindUnknown,
			DisplayType:   KindUnknown.DisplayType(),
			DisplayFields: []DisplayField{{Label: "Raw Text", Value: raw}},
			RawText:       raw,
		}
	}

	values := s.Decode(strings.TrimSpace(raw))
	var fields []DisplayField
	if s.Display != nil {
		fields = s.Display(values)
	} else {
		fields = schemaDisplay(s.Schema, values)
	}
	return Result{
		Kind:          s.Kind,
		DisplayType:   s.Kind.DisplayType(),
		DisplayFields: fields,
		Values:        values,
		RawText:       raw,
	}
}

// ClassifyScan classifies text delivered by a scanner together with its
// symbology tag; known symbologies add a "Format" row.
func (r *Registry) ClassifyScan(raw string, sym Symbology) Result {
	res := r.Classify(raw)
	res.Symbology = sym
	if name := sym.DisplayName(); name != "" {
		res.DisplayFields = append(res.DisplayFields, DisplayField{Label: "Format", Value: name})
	}
	return res
}

func (r *Registry) detect(raw string) *Scheme {
	if !printable(raw) {
		return nil
	}
	text := strings.TrimSpace(raw)
	for i := range r.schemes {
		if r.schemes[i].Detect(text) {
			return &r.schemes[i]
		}
	}
	return nil
}

// printable rejects empty text, invalid UTF-8 and control characters other
// than tab, CR and LF.
func printable(s string) bool {
	if strings.TrimSpace(s) == "" || !utf8.ValidString(s) {
		return false
	}
	for _, c := range s {
		if unicode.IsControl(c) && c != '\t' && c != '\r' && c != '\n' {
			return false
		}
	}
	return true
}

func schemaDisplay(schema Schema, v Values) []DisplayField {
	var out []DisplayField
	for _, f := range schema {
		if val := v[f.Name]; val != "" {
			out = append(out, DisplayField{Label: f.Label, Value: val})
		}
	}
	return out
}

// hasMarker reports whether text starts with marker, compared
// case-insensitively.
func hasMarker(text, marker string) bool {
	return len(text) >= len(marker) && strings.EqualFold(text[:len(marker)], marker)
}

var defaultRegistry = NewRegistry(
	wifiScheme(),
	contactScheme(),
	emailScheme(),
	smsScheme(),
	phoneScheme(),
	geoScheme(),
	upiScheme(),
	webURLScheme(),
	plainTextScheme(),
)

// Default returns the shared registry in canonical detection order.
func Default() *Registry { return defaultRegistry }

// Encode encodes with the default registry.
func Encode(kind Kind, values Values) (string, error) { return defaultRegistry.Encode(kind, values) }

// Decode decodes with the default registry.
func Decode(raw string) (Kind, Values, bool) { return defaultRegistry.Decode(raw) }

// Classify classifies with the default registry.
func Classify(raw string) Result { return defaultRegistry.Classify(raw) }

// ClassifyScan classifies scanner output with the default registry.
func ClassifyScan(raw string, sym Symbology) Result { return defaultRegistry.ClassifyScan(raw, sym) }

// SchemaOf returns the schema of kind in the default registry.
func SchemaOf(kind Kind) (Schema, bool) { return defaultRegistry.Schema(kind) }

// Kinds lists the kinds of the default registry in detection order.
func Kinds() []Kind { return defaultRegistry.Kinds() }
