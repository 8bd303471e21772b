// Command tokengen mints a device access token. The secret and validity
// come from the server configuration (defaults, -c JSON file, -s and -t),
// so a token minted with the server's flags verifies on that server.
// Without -device a random device id is generated.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/scankeeper/internal/flagx"
	"github.com/dmitrijs2005/scankeeper/internal/server/auth"
	"github.com/dmitrijs2005/scankeeper/internal/server/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) (err error) {
	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	device := fs.String("device", "", "device id (random when empty)")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-device"})); err != nil {
		return err
	}

	// The config layer panics on bad values.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("config error: %v", r)
		}
	}()
	cfg := config.Load(args)

	id := *device
	if id == "" {
		id = uuid.NewString()
	}

	token, err := auth.GenerateToken(id, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "device: %s\ntoken:  %s\n", id, token)
	return nil
}
