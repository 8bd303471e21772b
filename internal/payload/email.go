package payload

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	matmsgMarker = "MATMSG:"
	mailtoMarker = "mailto:"
)

var emailPattern = regexp.MustCompile(`^[^\s@;,:<>"\\]+@[^\s@;,:<>"\\]+\.[^\s@;,:<>".\\]+$`)

// ValidEmail reports whether s is a bare addr-spec such as "a@b.org".
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

func emailScheme() Scheme {
	return Scheme{
		Kind: KindEmail,
		Schema: Schema{
			{Name: "to", Label: "To", Required: true, Type: TypeString},
			{Name: "subject", Label: "Subject", Type: TypeString},
			{Name: "body", Label: "Body", Type: TypeString},
		},
		Detect: func(text string) bool {
			return hasMarker(text, matmsgMarker) || hasMarker(text, mailtoMarker)
		},
		Encode: encodeEmail,
		Decode: decodeEmail,
	}
}

// MATMSG:TO:<addr>;SUB:<subject>;BODY:<body>;;
// All three segments are always present.
func encodeEmail(v Values) (string, error) {
	to := strings.TrimSpace(v["to"])
	if !ValidEmail(to) {
		return "", invalid("to", "must be an email address")
	}
	return fmt.Sprintf("MATMSG:TO:%s;SUB:%s;BODY:%s;;", to, mecardEscape(v["subject"]), mecardEscape(v["body"])), nil
}

func decodeEmail(text string) Values {
	if hasMarker(text, mailtoMarker) {
		return decodeMailto(text)
	}
	pairs := parseMecard(text[len(matmsgMarker):])
	to, _ := first(pairs, "TO")
	sub, _ := first(pairs, "SUB")
	body, _ := first(pairs, "BODY")
	return Values{"to": to, "subject": sub, "body": body}
}

func decodeMailto(text string) Values {
	rest := text[len(mailtoMarker):]
	addr, query, _ := strings.Cut(rest, "?")
	if a, err := url.PathUnescape(addr); err == nil {
		addr = a
	}
	q := firstQueryValues(query)
	return Values{"to": addr, "subject": q["subject"], "body": q["body"]}
}
