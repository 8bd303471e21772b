// Package services implements the client use cases on top of the payload
// core, the local repositories and the server client: recording scans and
// generated codes, browsing history, syncing it to the server and exporting
// it to S3.
package services
