package config

import (
	"os"
	"time"
)

// S3 configures the history export target. Export is disabled when Bucket
// is empty.
type S3 struct {
	Bucket     string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	// Passphrase, when set, seals exported snapshots.
	Passphrase string
}

// Config holds runtime settings for the ScanKeeper client.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DatabasePath        string
	HistoryLimit        int
	AccessToken         string
	LogLevel            string
	S3                  S3
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "scankeeper.db"
	c.HistoryLimit = 500
	c.LogLevel = "info"
	c.S3.Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, the JSON file named on the
// command line and then the command-line flags themselves.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
