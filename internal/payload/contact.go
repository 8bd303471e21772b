package payload

import "strings"

const (
	vcardMarker  = "BEGIN:VCARD"
	mecardMarker = "MECARD:"
)

// vcardProp binds a schema field to its vCard property. Text properties use
// RFC 2426 escaping; EMAIL, TEL and URL are written verbatim.
type vcardProp struct {
	name  string
	field string
	text  bool
}

// vcardProps is also the fixed output order.
var vcardProps = []vcardProp{
	{name: "FN", field: "name", text: true},
	{name: "EMAIL", field: "email"},
	{name: "TEL", field: "phone"},
	{name: "ORG", field: "organization", text: true},
	{name: "TITLE", field: "title", text: true},
	{name: "URL", field: "url"},
	{name: "ADR", field: "address", text: true},
	{name: "NOTE", field: "note", text: true},
}

var vcardEscaper = strings.NewReplacer(`\`, `\\`, "\r\n", `\n`, "\n", `\n`, `,`, `\,`, `;`, `\;`)

func vcardEscape(s string) string { return vcardEscaper.Replace(s) }

func vcardUnescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, c := range s {
		switch {
		case escaped && (c == 'n' || c == 'N'):
			b.WriteByte('\n')
		case escaped:
			b.WriteRune(c)
		case c == '\\':
			escaped = true
			continue
		default:
			b.WriteRune(c)
		}
		escaped = false
	}
	return b.String()
}

func contactScheme() Scheme {
	return Scheme{
		Kind: KindContact,
		Schema: Schema{
			{Name: "name", Label: "Name", Type: TypeString},
			{Name: "email", Label: "Email", Type: TypeString},
			{Name: "phone", Label: "Phone", Type: TypeString},
			{Name: "organization", Label: "Organization", Type: TypeString},
			{Name: "title", Label: "Title", Type: TypeString},
			{Name: "url", Label: "Website", Type: TypeString},
			{Name: "address", Label: "Address", Type: TypeString},
			{Name: "note", Label: "Note", Type: TypeString},
		},
		Detect: func(text string) bool {
			return hasMarker(text, vcardMarker) || hasMarker(text, mecardMarker)
		},
		Encode: encodeContact,
		Decode: decodeContact,
	}
}

func encodeContact(v Values) (string, error) {
	empty := true
	for _, p := range vcardProps {
		if v[p.field] != "" {
			empty = false
		}
		if !p.text && strings.ContainsAny(v[p.field], "\r\n") {
			return "", invalid(p.field, "must be a single line")
		}
	}
	if empty {
		return "", invalid("name", "at least one contact field is required")
	}
	if e := v["email"]; e != "" && !ValidEmail(strings.TrimSpace(e)) {
		return "", invalid("email", "must be an email address")
	}
	if p := v["phone"]; p != "" && !ValidPhone(strings.TrimSpace(p)) {
		return "", invalid("phone", "must be a phone number")
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
	for _, p := range vcardProps {
		val := v[p.field]
		if val == "" {
			continue
		}
		switch {
		case p.name == "ADR":
			val = ";;" + vcardEscape(val) + ";;;;"
		case p.text:
			val = vcardEscape(val)
		default:
			val = strings.TrimSpace(val)
		}
		b.WriteString(p.name)
		b.WriteByte(':')
		b.WriteString(val)
		b.WriteByte('\n')
	}
	b.WriteString("END:VCARD")
	return b.String(), nil
}

func decodeContact(text string) Values {
	if hasMarker(text, mecardMarker) {
		return decodeMecard(text)
	}
	return decodeVCard(text)
}

func decodeVCard(text string) Values {
	v := Values{}
	var n string
	for _, line := range unfoldLines(text) {
		head, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name := strings.ToUpper(head)
		if i := strings.IndexByte(name, ';'); i >= 0 {
			name = name[:i]
		}
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}

		if name == "N" && n == "" {
			n = joinNameParts(splitUnescaped(value, ';'))
			continue
		}
		for _, p := range vcardProps {
			if p.name != name || v[p.field] != "" {
				continue
			}
			if p.text {
				v[p.field] = joinComponents(splitUnescaped(value, ';'))
			} else {
				v[p.field] = strings.TrimSpace(value)
			}
		}
	}
	if v["name"] == "" && n != "" {
		v["name"] = n
	}
	return v
}

// unfoldLines splits a vCard into logical lines, joining RFC 2425
// continuation lines that start with a space or tab.
func unfoldLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var lines []string
	for _, l := range raw {
		if (strings.HasPrefix(l, " ") || strings.HasPrefix(l, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

func joinComponents(parts []string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(vcardUnescape(p)); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// joinNameParts orders N components (family;given;additional;prefix;suffix)
// for display.
func joinNameParts(parts []string) string {
	at := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(vcardUnescape(parts[i]))
		}
		return ""
	}
	var out []string
	for _, s := range []string{at(3), at(1), at(2), at(0), at(4)} {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

// MECARD:N:Doe,John;TEL:123;EMAIL:a@b.org;;
func decodeMecard(text string) Values {
	pairs := parseMecard(text[len(mecardMarker):])
	v := Values{}
	set := func(field, key string) {
		if val, ok := first(pairs, key); ok {
			v[field] = strings.TrimSpace(val)
		}
	}
	if name, ok := first(pairs, "N"); ok {
		family, given, found := strings.Cut(name, ",")
		if found {
			name = strings.TrimSpace(strings.TrimSpace(given) + " " + strings.TrimSpace(family))
		}
		v["name"] = name
	}
	set("email", "EMAIL")
	set("phone", "TEL")
	set("organization", "ORG")
	set("title", "TITLE")
	set("url", "URL")
	set("address", "ADR")
	set("note", "NOTE")
	return v
}
