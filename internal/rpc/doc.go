// Package rpc defines the ScanKeeper gRPC service without generated code:
// plain Go request/response types, a JSON codec and hand-written service
// descriptor plumbing shared by the server and the client.
//
// Clients must send the "json" content subtype; NewScanKeeperClient does
// this on every call.
package rpc
