// Package client wires the ScanKeeper CLI to its backends: the local SQLite
// database with its repositories and the gRPC connection to the server.
package client
