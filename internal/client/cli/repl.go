package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
// args are the command words after the command itself.
type execIface interface {
	Scan(ctx context.Context, args []string) error
	Generate(ctx context.Context, args []string) error
	Kinds(ctx context.Context) error
	History(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	Sync(ctx context.Context) error
	Pull(ctx context.Context) error
	Status(ctx context.Context) error
	Export(ctx context.Context) error
}

const helpText = `Available commands:
  scan [symbology]        classify pasted text (e.g. "scan ean13")
  gen <kind> [symbology]  build a payload from prompted fields
  kinds                   list the payload kinds gen accepts
  history [n]             list the newest history items
  show <id>               show a history item with its actions
  delete <id>             delete a history item
  clear                   delete the whole history
  sync                    push unsynced history to the server
  pull                    restore server history missing on this device
  status                  show mode, last sync and last export
  export                  upload a history snapshot to S3
  exit | quit             leave the program`

// runREPL starts a simple read–eval–print loop for the ScanKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens. Unknown commands
// are reported back to the user. The loop exits on EOF, when ctx is done,
// or when the user types "exit" or "quit".
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("sk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cerr error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "scan":
			cerr = a.Scan(ctx, args)

		case "gen", "generate":
			cerr = a.Generate(ctx, args)

		case "kinds":
			cerr = a.Kinds(ctx)

		case "h", "history":
			cerr = a.History(ctx, args)

		case "show":
			cerr = a.Show(ctx, args)

		case "delete", "rm":
			cerr = a.Delete(ctx, args)

		case "clear":
			cerr = a.Clear(ctx)

		case "sync":
			cerr = a.Sync(ctx)

		case "pull":
			cerr = a.Pull(ctx)

		case "status":
			cerr = a.Status(ctx)

		case "export":
			cerr = a.Export(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cerr != nil {
			printlnFn("Error:", cerr)
		}
	}
}
