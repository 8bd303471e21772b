// Package payload implements the multi-scheme code payload encoder and the
// content classifier shared by code generation and scan interpretation.
//
// # Overview
//
// A Registry holds an ordered list of Scheme definitions. Each scheme owns
// a detection predicate, a field Schema, an encode function and a decode
// function, and keeps its delimiter rules in its own file.
//
//   - Encode turns (Kind, Values) into the canonical payload string that is
//     embedded in a generated code. It returns a *ValidationError when a
//     field is missing or malformed.
//   - Classify turns any raw scanned or pasted text into a Result. It never
//     fails: text that no scheme recognizes is reported as KindUnknown.
//
// Detection runs in a fixed priority order (WiFi, Contact, Email, SMS,
// Phone, Geolocation, UPI, Web URL, Plain Text) and the first match wins.
//
// # Concurrency
//
// The default registry is built once at package init and never mutated;
// every function in this package is pure and safe for concurrent use.
//
// Typical usage
//
//	s, err := payload.Encode(payload.KindWiFi, payload.Values{"ssid": "Home", "password": "secret"})
//	res := payload.Classify(s) // res.Kind == payload.KindWiFi
package payload
