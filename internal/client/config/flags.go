package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/scankeeper/internal/flagx"
)

var ownFlags = []string{"-a", "-i", "-d", "-l", "-t", "-v", "-b", "-g", "-e", "-u", "-p", "-k"}

// parseFlags overlays cfg with the flags it owns; everything else in args
// is ignored. It panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the server")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local history database path")
	fs.IntVar(&cfg.HistoryLimit, "l", cfg.HistoryLimit, "history records kept locally")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "device access token")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.S3.Bucket, "b", cfg.S3.Bucket, "S3 bucket for exports")
	fs.StringVar(&cfg.S3.Region, "g", cfg.S3.Region, "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "e", cfg.S3.Endpoint, "S3 endpoint")
	fs.StringVar(&cfg.S3.AccessKey, "u", cfg.S3.AccessKey, "S3 access key id")
	fs.StringVar(&cfg.S3.SecretKey, "p", cfg.S3.SecretKey, "S3 secret access key")
	fs.StringVar(&cfg.S3.Passphrase, "k", cfg.S3.Passphrase, "passphrase sealing exported snapshots")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		panic(err)
	}
	if *interval <= 0 {
		panic(fmt.Sprintf("online check interval must be positive, got %d", *interval))
	}
	if cfg.HistoryLimit <= 0 {
		panic(fmt.Sprintf("history limit must be positive, got %d", cfg.HistoryLimit))
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
