package payload

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FieldType is the semantic type of a schema field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDecimal FieldType = "decimal"
	TypeEnum    FieldType = "enum"
	TypeBoolean FieldType = "boolean"
)

// Field describes one named input of a scheme.
type Field struct {
	Name     string
	Label    string
	Required bool
	Type     FieldType
	// Options lists the accepted values of an enum field.
	Options []string
	// Default is substituted when an optional field is left empty.
	Default string
}

// Schema is the ordered list of fields a scheme accepts.
type Schema []Field

// Values maps field names to their string values.
type Values map[string]string

// normalize checks in against the schema and returns a fresh Values holding
// only schema fields, with defaults applied, enums mapped to their canonical
// spelling and booleans rendered as "true"/"false".
//
// Optional decimal fields are not type-checked here: a scheme decides what
// an unparseable optional number means.
func (s Schema) normalize(in Values) (Values, error) {
	out := make(Values, len(s))
	for _, f := range s {
		v := in[f.Name]
		if strings.TrimSpace(v) == "" {
			if f.Required {
				return nil, invalid(f.Name, "is required")
			}
			v = f.Default
		}
		if v == "" {
			out[f.Name] = ""
			continue
		}

		switch f.Type {
		case TypeEnum:
			canon, ok := matchOption(f.Options, v)
			if !ok {
				return nil, invalid(f.Name, "must be one of %s", strings.Join(f.Options, ", "))
			}
			v = canon
		case TypeBoolean:
			b, ok := parseBool(v)
			if !ok {
				return nil, invalid(f.Name, "must be true or false")
			}
			v = strconv.FormatBool(b)
		case TypeDecimal:
			if f.Required {
				if _, ok := parseDecimal(v); !ok {
					return nil, invalid(f.Name, "must be a decimal number")
				}
			}
		}
		out[f.Name] = v
	}
	return out, nil
}

func matchOption(options []string, v string) (string, bool) {
	v = strings.TrimSpace(v)
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o, true
		}
	}
	return "", false
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1", "on":
		return true, true
	case "false", "no", "0", "off":
		return false, true
	}
	return false, false
}

var decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)$`)

// parseDecimal accepts plain decimal notation only: no exponents, hex
// floats, underscores, NaN or infinities.
func parseDecimal(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if !decimalPattern.MatchString(v) {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
