// Package config loads runtime configuration for the ScanKeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the ScanKeeper gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   path of the local SQLite history database
//	-l int      number of history records kept locally
//	-t string   device access token issued by the server
//	-v string   log level (debug, info, warn, error)
//	-b string   S3 bucket for history exports
//	-g string   S3 region
//	-e string   S3 endpoint override (MinIO, localstack)
//	-u string   S3 access key id
//	-p string   S3 secret access key
//	-k string   passphrase sealing exported snapshots (argon2id + AES-GCM)
//
// # JSON schema
//
// Intervals use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "scankeeper.db",
//	  "history_limit": 500,
//	  "access_token": "eyJ...",
//	  "log_level": "info",
//	  "s3": {"bucket": "exports", "region": "us-east-1"}
//	}
//
// Loaders panic on unreadable files and malformed values; the client exits
// before doing any work in that case.
package config
