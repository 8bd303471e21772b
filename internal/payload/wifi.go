package payload

import (
	"fmt"
	"strings"
)

const wifiMarker = "WIFI:"

// WiFi encryption types.
const (
	EncryptionWPA  = "WPA"
	EncryptionWEP  = "WEP"
	EncryptionNone = "None"
)

func wifiScheme() Scheme {
	return Scheme{
		Kind: KindWiFi,
		Schema: Schema{
			{Name: "ssid", Label: "Network Name", Required: true, Type: TypeString},
			{Name: "encryption", Label: "Security", Type: TypeEnum, Options: []string{EncryptionWPA, EncryptionWEP, EncryptionNone}, Default: EncryptionWPA},
			{Name: "password", Label: "Password", Type: TypeString},
			{Name: "hidden", Label: "Hidden", Type: TypeBoolean, Default: "false"},
		},
		Detect:  func(text string) bool { return hasMarker(text, wifiMarker) },
		Encode:  encodeWiFi,
		Decode:  decodeWiFi,
		Display: displayWiFi,
	}
}

// WIFI:S:<ssid>;T:<type>;P:<password>;H:<hidden>;;
// The P segment is always written, empty for open networks.
func encodeWiFi(v Values) (string, error) {
	return fmt.Sprintf("WIFI:S:%s;T:%s;P:%s;H:%s;;",
		mecardEscape(v["ssid"]), v["encryption"], mecardEscape(v["password"]), v["hidden"]), nil
}

func decodeWiFi(text string) Values {
	pairs := parseMecard(text[len(wifiMarker):])
	ssid, _ := first(pairs, "S")
	password, _ := first(pairs, "P")
	t, _ := first(pairs, "T")

	hidden := "false"
	if h, ok := first(pairs, "H"); ok {
		if b, ok := parseBool(h); ok && b {
			hidden = "true"
		}
	}

	return Values{
		"ssid":       ssid,
		"encryption": canonicalEncryption(t, password),
		"password":   password,
		"hidden":     hidden,
	}
}

// canonicalEncryption maps the spellings seen in the wild (WPA2, SAE,
// nopass, ...) onto the three supported types.
func canonicalEncryption(t, password string) string {
	switch u := strings.ToUpper(strings.TrimSpace(t)); {
	case u == "":
		if password != "" {
			return EncryptionWPA
		}
		return EncryptionNone
	case strings.HasPrefix(u, "WPA"), u == "SAE":
		return EncryptionWPA
	case u == "WEP":
		return EncryptionWEP
	case u == "NOPASS", u == "NONE", u == "OPEN":
		return EncryptionNone
	default:
		return t
	}
}

func displayWiFi(v Values) []DisplayField {
	out := []DisplayField{
		{Label: "Network Name", Value: v["ssid"]},
		{Label: "Security", Value: v["encryption"]},
	}
	if v["password"] != "" {
		out = append(out, DisplayField{Label: "Password", Value: v["password"]})
	}
	hidden := "No"
	if v["hidden"] == "true" {
		hidden = "Yes"
	}
	return append(out, DisplayField{Label: "Hidden", Value: hidden})
}
