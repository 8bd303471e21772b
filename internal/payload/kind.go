package payload

import "strings"

// Kind identifies a payload scheme. Exactly one Kind is picked per
// classification.
type Kind string

const (
	KindWiFi        Kind = "wifi"
	KindWebURL      Kind = "url"
	KindPlainText   Kind = "text"
	KindEmail       Kind = "email"
	KindPhone       Kind = "phone"
	KindSMS         Kind = "sms"
	KindGeolocation Kind = "geo"
	KindContact     Kind = "contact"
	KindUPIPayment  Kind = "upi"
	KindUnknown     Kind = "unknown"
)

var displayTypes = map[Kind]string{
	KindWiFi:        "WiFi",
	KindWebURL:      "URL",
	KindPlainText:   "Text",
	KindEmail:       "Email",
	KindPhone:       "Phone",
	KindSMS:         "SMS",
	KindGeolocation: "Location",
	KindContact:     "Contact",
	KindUPIPayment:  "UPI Payment",
	KindUnknown:     "Unknown",
}

// DisplayType returns the short human-readable label persisted alongside
// history records.
func (k Kind) DisplayType() string {
	if s, ok := displayTypes[k]; ok {
		return s
	}
	return displayTypes[KindUnknown]
}

func (k Kind) String() string { return string(k) }

// ParseKind resolves a wire name ("wifi", "url", ...) case-insensitively.
// Display labels such as "UPI Payment" are accepted as well.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for k, label := range displayTypes {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, label) {
			return k, true
		}
	}
	return KindUnknown, false
}
