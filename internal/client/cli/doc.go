// Package cli provides the interactive ScanKeeper command-line client.
//
// It wires configuration, the local history database, the server client and
// an interactive REPL that plays the scanner and generator roles: pasted
// text is classified and offered follow-up actions, field values are
// encoded into payloads, and both end up in the local history.
//
// Key features:
//   - scan / gen: classify raw text, encode a payload from prompted fields
//   - history / show / delete / clear: browse the local history
//   - sync / export: push history to the server, snapshot it to S3
//
// A background watcher pings the server and switches between online and
// offline mode; sync is only attempted online. The REPL is started via
// App.Run(ctx), which blocks until the user exits.
package cli
