// Package services implements the server's use cases: the payload core
// exposed to remote callers and the per-device history copy.
package services
