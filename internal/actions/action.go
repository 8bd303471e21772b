// Package actions maps a classified payload onto the follow-up actions a
// client can offer, such as dialing a number or opening a map.
//
// Select is pure: it never performs the action and never fails. When a
// sub-pattern cannot be parsed the corresponding action is left out.
package actions

import (
	"strings"

	"github.com/dmitrijs2005/scankeeper/internal/payload"
)

// Type identifies what a client should do with an Action's target.
type Type string

const (
	TypeOpenLink     Type = "open_link"
	TypeSearch       Type = "search"
	TypeConnectWiFi  Type = "connect_wifi"
	TypeCopy         Type = "copy"
	TypeDial         Type = "dial"
	TypeComposeSMS   Type = "compose_sms"
	TypeComposeEmail Type = "compose_email"
	TypeOpenMap      Type = "open_map"
	TypePay          Type = "pay"
	TypeSaveContact  Type = "save_contact"
	TypeAddEvent     Type = "add_event"
	TypeUsePasskey   Type = "use_passkey"
)

// Action describes one follow-up offered for a scan.
type Action struct {
	Type   Type              `json:"type"`
	Label  string            `json:"label"`
	Target string            `json:"target"`
	Params map[string]string `json:"params,omitempty"`
}

const (
	passkeyMarker = "fido:/"
	searchURL     = "https://www.google.com/search?q="
	productURL    = "https://www.google.com/search?tbm=shop&q="
)

// Select returns the ordered actions applicable to res.
func Select(res payload.Result) []Action {
	v := res.Values
	text := strings.TrimSpace(res.RawText)

	switch res.Kind {
	case payload.KindWiFi:
		return wifiActions(text, v)
	case payload.KindWebURL:
		return []Action{{Type: TypeOpenLink, Label: "Open Link", Target: payload.NormalizeURL(v["url"])}}
	case payload.KindEmail:
		return []Action{emailAction(v["to"], v["subject"], v["body"])}
	case payload.KindPhone:
		return phoneActions(v["number"], "")
	case payload.KindSMS:
		acts := phoneActions(v["number"], v["message"])
		if len(acts) == 2 {
			acts[0], acts[1] = acts[1], acts[0]
		}
		return acts
	case payload.KindGeolocation:
		return mapActions(text)
	case payload.KindContact:
		return contactActions(text, v)
	case payload.KindUPIPayment:
		if payload.ValidVPA(v["vpa"]) {
			return []Action{{Type: TypePay, Label: "Pay", Target: text}}
		}
		return nil
	default:
		return textActions(text, res.Symbology)
	}
}

func wifiActions(raw string, v payload.Values) []Action {
	acts := []Action{{
		Type:   TypeConnectWiFi,
		Label:  "Connect to Network",
		Target: raw,
		Params: map[string]string{
			"ssid":       v["ssid"],
			"encryption": v["encryption"],
			"password":   v["password"],
			"hidden":     v["hidden"],
		},
	}}
	if v["password"] != "" {
		acts = append(acts, Action{Type: TypeCopy, Label: "Copy Password", Target: v["password"]})
	}
	return acts
}

func emailAction(to, subject, body string) Action {
	var q []string
	if subject != "" {
		q = append(q, "subject="+payload.QueryEscape(subject))
	}
	if body != "" {
		q = append(q, "body="+payload.QueryEscape(body))
	}
	target := "mailto:" + to
	if len(q) > 0 {
		target += "?" + strings.Join(q, "&")
	}
	return Action{Type: TypeComposeEmail, Label: "Send Email", Target: target}
}

// phoneActions returns Call then Send SMS, or nothing when number has no
// digits.
func phoneActions(number, message string) []Action {
	n := dialable(number)
	if n == "" {
		return nil
	}
	sms := "sms:" + n
	if message != "" {
		sms += "?body=" + payload.QueryEscape(message)
	}
	return []Action{
		{Type: TypeDial, Label: "Call", Target: "tel:" + n},
		{Type: TypeComposeSMS, Label: "Send SMS", Target: sms},
	}
}

// dialable strips visual separators, keeping a leading "+". It returns ""
// when no digit is left.
func dialable(number string) string {
	var b strings.Builder
	digits := false
	for i, c := range strings.TrimSpace(number) {
		switch {
		case c >= '0' && c <= '9':
			digits = true
			b.WriteRune(c)
		case c == '+' && i == 0:
			b.WriteRune(c)
		}
	}
	if !digits {
		return ""
	}
	return b.String()
}

func contactActions(raw string, v payload.Values) []Action {
	card := raw
	if !strings.HasPrefix(strings.ToUpper(raw), "BEGIN:VCARD") {
		// MECARD input is converted so every client can import it.
		if s, err := payload.Encode(payload.KindContact, v); err == nil {
			card = s
		}
	}
	acts := []Action{{Type: TypeSaveContact, Label: "Save Contact", Target: card, Params: contactParams(v)}}
	if call := phoneActions(v["phone"], ""); len(call) > 0 {
		acts = append(acts, call[0])
	}
	if payload.ValidEmail(v["email"]) {
		acts = append(acts, emailAction(v["email"], "", ""))
	}
	if payload.IsWebURL(v["url"]) {
		acts = append(acts, Action{Type: TypeOpenLink, Label: "Open Link", Target: payload.NormalizeURL(v["url"])})
	}
	return acts
}

func contactParams(v payload.Values) map[string]string {
	params := make(map[string]string, len(v))
	for k, val := range v {
		if val != "" {
			params[k] = val
		}
	}
	return params
}

// textActions covers plain text and unrecognized input: refinements
// first, then a web search.
func textActions(text string, sym payload.Symbology) []Action {
	var acts []Action
	if len(text) >= len(passkeyMarker) && strings.EqualFold(text[:len(passkeyMarker)], passkeyMarker) {
		acts = append(acts, Action{Type: TypeUsePasskey, Label: "Use Passkey", Target: text})
	}
	if ev, ok := ParseEvent(text); ok {
		acts = append(acts, ev.action(text))
	}
	if text == "" {
		return acts
	}
	if sym.IsProductCode() {
		acts = append(acts, Action{Type: TypeSearch, Label: "Search Product", Target: productURL + payload.QueryEscape(text)})
	}
	return append(acts, Action{Type: TypeSearch, Label: "Search Web", Target: searchURL + payload.QueryEscape(text)})
}
