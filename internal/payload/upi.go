package payload

import (
	"fmt"
	"math"
	"strings"
)

const upiMarker = "upi://pay"

// ValidVPA reports whether s is a UPI virtual payment address: exactly one
// "@" with a non-empty handle on both sides and no whitespace or URI
// delimiters.
func ValidVPA(s string) bool {
	if strings.Count(s, "@") != 1 || strings.ContainsAny(s, " \t\r\n&?#=/%+") {
		return false
	}
	user, bank, _ := strings.Cut(s, "@")
	return user != "" && bank != ""
}

func upiScheme() Scheme {
	return Scheme{
		Kind: KindUPIPayment,
		Schema: Schema{
			{Name: "vpa", Label: "UPI ID", Required: true, Type: TypeString},
			{Name: "name", Label: "Payee Name", Required: true, Type: TypeString},
			{Name: "amount", Label: "Amount", Type: TypeDecimal},
			{Name: "note", Label: "Note", Type: TypeString},
		},
		Detect:  detectUPI,
		Encode:  encodeUPI,
		Decode:  decodeUPI,
		Display: displayUPI,
	}
}

// The marker must be followed by the query or end the text, so
// "upi://payment" is not a payment link.
func detectUPI(text string) bool {
	if !hasMarker(text, upiMarker) {
		return false
	}
	return len(text) == len(upiMarker) || text[len(upiMarker)] == '?'
}

// upi://pay?pa=<vpa>&pn=<name>[&am=<amount>][&tn=<note>]
func encodeUPI(v Values) (string, error) {
	vpa := strings.TrimSpace(v["vpa"])
	if !ValidVPA(vpa) {
		return "", invalid("vpa", "must contain exactly one @")
	}

	var b strings.Builder
	b.WriteString(upiMarker + "?pa=")
	b.WriteString(vpa)
	b.WriteString("&pn=")
	b.WriteString(QueryEscape(v["name"]))
	if am, ok := positiveAmount(v["amount"]); ok {
		b.WriteString("&am=")
		b.WriteString(am)
	}
	if note := v["note"]; note != "" {
		b.WriteString("&tn=")
		b.WriteString(QueryEscape(note))
	}
	return b.String(), nil
}

// positiveAmount formats amounts that are still greater than zero once
// rounded to two decimals; anything else means "no amount".
func positiveAmount(s string) (string, bool) {
	f, ok := parseDecimal(s)
	if !ok || math.Round(f*100) <= 0 {
		return "", false
	}
	return fmt.Sprintf("%.2f", f), true
}

var upiParams = map[string]string{
	"pa": "vpa",
	"pn": "name",
	"am": "amount",
	"tn": "note",
	"cu": "currency",
}

func decodeUPI(text string) Values {
	v := Values{}
	_, query, _ := strings.Cut(text, "?")
	q := firstQueryValues(query)
	for key, field := range upiParams {
		if val, ok := q[key]; ok {
			v[field] = strings.TrimSpace(val)
		}
	}
	return v
}

func displayUPI(v Values) []DisplayField {
	var out []DisplayField
	add := func(label, value string) {
		if value != "" {
			out = append(out, DisplayField{Label: label, Value: value})
		}
	}
	add("UPI ID", v["vpa"])
	add("Payee Name", v["name"])
	if f, ok := parseDecimal(v["amount"]); ok {
		add("Amount", fmt.Sprintf("%.2f", f))
	} else {
		add("Amount", v["amount"])
	}
	add("Currency", v["currency"])
	add("Note", v["note"])
	return out
}
