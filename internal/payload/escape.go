package payload

import (
	"net/url"
	"strings"
)

// mecardEscaper escapes the characters that are structural in the
// MECARD family (WIFI:, MATMSG:, MECARD:).
var mecardEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`, `"`, `\"`)

func mecardEscape(s string) string { return mecardEscaper.Replace(s) }

// unescapeBackslash drops every escaping backslash, keeping the escaped
// character.
func unescapeBackslash(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, c := range s {
		if !escaped && c == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(c)
	}
	return b.String()
}

// splitUnescaped splits s on sep, ignoring separators preceded by a
// backslash. Parts keep their escapes.
func splitUnescaped(s string, sep rune) []string {
	var parts []string
	var b strings.Builder
	escaped := false
	for _, c := range s {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == sep:
			parts = append(parts, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(c)
	}
	return append(parts, b.String())
}

type mecardPair struct {
	key   string
	value string
}

// parseMecard reads "K:v;K:v;;" bodies. Keys are upper-cased, values are
// unescaped. Segments without a key are skipped.
func parseMecard(body string) []mecardPair {
	var pairs []mecardPair
	for _, seg := range splitUnescaped(body, ';') {
		key, value, ok := strings.Cut(seg, ":")
		if !ok || key == "" {
			continue
		}
		pairs = append(pairs, mecardPair{key: strings.ToUpper(strings.TrimSpace(key)), value: unescapeBackslash(value)})
	}
	return pairs
}

// first returns the value of the first pair with key.
func first(pairs []mecardPair, key string) (string, bool) {
	for _, p := range pairs {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// QueryEscape percent-encodes s for a URI query component, using %20 for
// spaces as payment and messaging apps expect.
func QueryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// firstQueryValues walks a raw query in order and keeps the first value of
// each lower-cased key. Pairs that fail to unescape are skipped.
func firstQueryValues(query string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		k, val, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		key = strings.ToLower(key)
		if _, seen := out[key]; seen {
			continue
		}
		if val, err = url.QueryUnescape(val); err != nil {
			continue
		}
		out[key] = val
	}
	return out
}
