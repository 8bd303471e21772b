package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/scankeeper/internal/flagx"
)

var ownFlags = []string{"-a", "-h", "-d", "-s", "-t", "-l", "-v"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-h string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      device token validity, minutes
//	-l int      ListHistory item limit
//	-v string   log level
//
// Notes:
//   - Args are first filtered to the flags handled here using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Token validity is accepted as an integer in minutes.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "h", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	validity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&config.HistoryListLimit, "l", config.HistoryListLimit, "ListHistory item limit")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		panic(err)
	}
	if *validity <= 0 {
		panic(fmt.Sprintf("token validity must be positive, got %d", *validity))
	}
	if config.HistoryListLimit <= 0 {
		panic(fmt.Sprintf("history list limit must be positive, got %d", config.HistoryListLimit))
	}

	config.AccessTokenValidityDuration = time.Duration(*validity) * time.Minute
}
