package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/scankeeper/internal/flagx"
	"github.com/dmitrijs2005/scankeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the client config. Pointer fields
// tell "absent" apart from zero values.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DatabasePath        *string         `json:"database_path"`
	HistoryLimit        *int            `json:"history_limit"`
	AccessToken         *string         `json:"access_token"`
	LogLevel            *string         `json:"log_level"`
	S3                  *struct {
		Bucket     string `json:"bucket"`
		Region     string `json:"region"`
		Endpoint   string `json:"endpoint"`
		AccessKey  string `json:"access_key"`
		SecretKey  string `json:"secret_key"`
		Passphrase string `json:"passphrase"`
	} `json:"s3"`
}

// parseJson overlays cfg with the file named by -c/-config in args. It
// panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.HistoryLimit, jc.HistoryLimit)
	setIf(&cfg.AccessToken, jc.AccessToken)
	setIf(&cfg.LogLevel, jc.LogLevel)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if s := jc.S3; s != nil {
		cfg.S3 = S3{Bucket: s.Bucket, Region: s.Region, Endpoint: s.Endpoint, AccessKey: s.AccessKey, SecretKey: s.SecretKey, Passphrase: s.Passphrase}
		if cfg.S3.Region == "" {
			cfg.S3.Region = "us-east-1"
		}
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
