package payload

import (
	"net/url"
	"regexp"
	"strings"
)

var bareDomain = regexp.MustCompile(`(?i)^(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,63}(?::[0-9]{1,5})?(?:[/?#]\S*)?$`)

// IsWebURL reports whether s is an absolute http(s) URL with a host or a
// bare domain such as "example.com/path".
func IsWebURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	if hasMarker(s, "http://") || hasMarker(s, "https://") {
		u, err := url.Parse(s)
		return err == nil && u.Host != ""
	}
	return bareDomain.MatchString(s)
}

// NormalizeURL prefixes bare domains with https://.
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if hasMarker(s, "http://") || hasMarker(s, "https://") {
		return s
	}
	return "https://" + s
}

func webURLScheme() Scheme {
	return Scheme{
		Kind: KindWebURL,
		Schema: Schema{
			{Name: "url", Label: "URL", Required: true, Type: TypeString},
		},
		Detect: IsWebURL,
		Encode: func(v Values) (string, error) {
			if !IsWebURL(strings.TrimSpace(v["url"])) {
				return "", invalid("url", "must be an http(s) URL or a domain")
			}
			return v["url"], nil
		},
		Decode: func(text string) Values { return Values{"url": text} },
	}
}

// plainTextScheme is the fallback for any printable text.
func plainTextScheme() Scheme {
	return Scheme{
		Kind: KindPlainText,
		Schema: Schema{
			{Name: "text", Label: "Text", Required: true, Type: TypeString},
		},
		Detect: func(string) bool { return true },
		Encode: func(v Values) (string, error) { return v["text"], nil },
		Decode: func(text string) Values { return Values{"text": text} },
	}
}
