package payload

import (
	"regexp"
	"strings"
)

const (
	telMarker   = "TEL:"
	smstoMarker = "SMSTO:"
)

// phonePattern allows an optional leading "+", digits and the usual
// visual separators.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().\-]*$`)

// ValidPhone reports whether s looks like a dialable number with at least
// three digits.
func ValidPhone(s string) bool {
	if !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, c := range s {
		if c >= '0' && c <= '9' {
			digits++
		}
	}
	return digits >= 3
}

func phoneScheme() Scheme {
	return Scheme{
		Kind: KindPhone,
		Schema: Schema{
			{Name: "number", Label: "Phone Number", Required: true, Type: TypeString},
		},
		Detect: func(text string) bool { return hasMarker(text, telMarker) },
		Encode: func(v Values) (string, error) {
			n := strings.TrimSpace(v["number"])
			if !ValidPhone(n) {
				return "", invalid("number", "must be a phone number")
			}
			return telMarker + n, nil
		},
		Decode: func(text string) Values {
			return Values{"number": strings.TrimSpace(text[len(telMarker):])}
		},
	}
}

func smsScheme() Scheme {
	return Scheme{
		Kind: KindSMS,
		Schema: Schema{
			{Name: "number", Label: "Phone Number", Required: true, Type: TypeString},
			{Name: "message", Label: "Message", Type: TypeString},
		},
		Detect: func(text string) bool { return hasMarker(text, smstoMarker) },
		Encode: encodeSMS,
		Decode: decodeSMS,
	}
}

// SMSTO:<number>:<message>
func encodeSMS(v Values) (string, error) {
	n := strings.TrimSpace(v["number"])
	if !ValidPhone(n) {
		return "", invalid("number", "must be a phone number")
	}
	return smstoMarker + n + ":" + v["message"], nil
}

// The number never contains ':', so the first colon separates the message,
// which may itself contain colons.
func decodeSMS(text string) Values {
	number, message, _ := strings.Cut(text[len(smstoMarker):], ":")
	return Values{"number": strings.TrimSpace(number), "message": message}
}
