package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/scankeeper/internal/common"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
)

const defaultHistoryPage = 20

var errAmbiguousID = errors.New("id prefix matches several items")

func parseSymbologyArg(args []string) (payload.Symbology, error) {
	if len(args) == 0 {
		return payload.SymbologyNone, nil
	}
	sym, ok := payload.ParseSymbology(args[0])
	if !ok {
		return "", fmt.Errorf("unknown symbology %q", args[0])
	}
	return sym, nil
}

// Scan reads pasted text, as a scanner would deliver it, and shows its
// classification.
func (a *App) Scan(ctx context.Context, args []string) error {
	sym, err := parseSymbologyArg(args)
	if err != nil {
		return err
	}

	raw, err := GetMultiline(a.reader, "Paste the scanned text", a.out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}

	scan, err := a.codes.Scan(ctx, raw, sym)
	if err != nil {
		return err
	}
	printResult(a.out, scan.Result, scan.Actions)
	if scan.Item != nil && !scan.Recorded {
		fmt.Fprintln(a.out, "(same as the previous history item, not recorded again)")
	}
	return nil
}

// Generate prompts for every field of the kind's schema and prints the
// encoded payload.
func (a *App) Generate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: gen <kind> [symbology]")
	}
	kind, ok := payload.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown kind %q (see 'kinds')", args[0])
	}
	sym, err := parseSymbologyArg(args[1:])
	if err != nil {
		return err
	}
	schema, ok := a.codes.Schema(kind)
	if !ok {
		return fmt.Errorf("kind %q cannot be generated", kind)
	}

	values := payload.Values{}
	for _, f := range schema {
		v, err := a.promptField(f)
		if err != nil {
			return err
		}
		if v != "" {
			values[f.Name] = v
		}
	}

	text, scan, err := a.codes.Generate(ctx, kind, values, sym)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Payload:")
	fmt.Fprintln(a.out, text)
	fmt.Fprintln(a.out)
	printResult(a.out, scan.Result, scan.Actions)
	return nil
}

func (a *App) promptField(f payload.Field) (string, error) {
	prompt := f.Label + fieldHint(f)
	if f.Name == "password" {
		return GetSecret(prompt, a.out)
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func fieldHint(f payload.Field) string {
	var hints []string
	if f.Required {
		hints = append(hints, "required")
	}
	switch f.Type {
	case payload.TypeEnum:
		hints = append(hints, strings.Join(f.Options, "/"))
	case payload.TypeBoolean:
		hints = append(hints, "true/false")
	case payload.TypeDecimal:
		hints = append(hints, "decimal")
	}
	if f.Default != "" {
		hints = append(hints, "default "+f.Default)
	}
	if len(hints) == 0 {
		return ""
	}
	return " (" + strings.Join(hints, ", ") + ")"
}

func (a *App) Kinds(ctx context.Context) error {
	for _, k := range a.codes.Kinds() {
		fmt.Fprintf(a.out, "  %-8s %s\n", k, k.DisplayType())
	}
	return nil
}

func (a *App) History(ctx context.Context, args []string) error {
	limit := defaultHistoryPage
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("history: %q is not a positive number", args[0])
		}
		limit = n
	}

	items, err := a.history.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "History is empty")
		return nil
	}
	printHistory(a.out, items)
	return nil
}

// resolveID accepts a full id or a unique prefix of one.
func (a *App) resolveID(ctx context.Context, args []string) (uuid.UUID, error) {
	if len(args) == 0 {
		return uuid.Nil, errors.New("an item id is required")
	}
	if id, err := uuid.Parse(args[0]); err == nil {
		return id, nil
	}

	prefix := strings.ToLower(args[0])
	items, err := a.history.List(ctx, 0)
	if err != nil {
		return uuid.Nil, err
	}
	var found []uuid.UUID
	for _, it := range items {
		if strings.HasPrefix(it.ID.String(), prefix) {
			found = append(found, it.ID)
		}
	}
	switch len(found) {
	case 0:
		return uuid.Nil, fmt.Errorf("item %s: %w", args[0], common.ErrorNotFound)
	case 1:
		return found[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%s: %w", args[0], errAmbiguousID)
	}
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.resolveID(ctx, args)
	if err != nil {
		return err
	}
	e, err := a.history.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID: %s\n", e.Item.ID)
	fmt.Fprintf(a.out, "Saved: %s (%s)\n", e.Item.CreatedAt.Local().Format(timeLayout), e.Item.Source)
	printResult(a.out, e.Result, e.Actions)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.resolveID(ctx, args)
	if err != nil {
		return err
	}
	if err := a.history.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted", id)
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "Delete the whole history? [y/N]", a.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if ans := strings.ToLower(answer); ans != "y" && ans != "yes" {
		return nil
	}

	n, err := a.history.Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %d items\n", n)
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if a.Mode() != ModeOnline {
		fmt.Fprintln(a.out, "Offline: sync skipped")
		return nil
	}
	n, err := a.history.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Synced %d items\n", n)
	return nil
}

func (a *App) Pull(ctx context.Context) error {
	if a.Mode() != ModeOnline {
		fmt.Fprintln(a.out, "Offline: pull skipped")
		return nil
	}
	n, err := a.history.Pull(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Restored %d items from the server\n", n)
	return nil
}

// Status prints the connection mode and when history last left the device.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "Mode: %s\n", a.Mode())

	at, ok, err := a.history.LastSync(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(a.out, "Last sync: %s\n", at.Local().Format(timeLayout))
	} else {
		fmt.Fprintln(a.out, "Last sync: never")
	}

	if !a.export.Enabled() {
		fmt.Fprintln(a.out, "Export: not configured")
		return nil
	}
	key, ok, err := a.export.LastExport(ctx)
	if err != nil {
		return err
	}
	if !ok {
		key = "never"
	}
	fmt.Fprintf(a.out, "Last export: %s\n", key)
	return nil
}

func (a *App) Export(ctx context.Context) error {
	if !a.export.Enabled() {
		fmt.Fprintln(a.out, "Export is not configured (set an S3 bucket with -b)")
		return nil
	}
	res, err := a.export.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d items to %s\n", res.Count, res.Key)
	fmt.Fprintf(a.out, "Download link: %s\n", res.URL)
	return nil
}
