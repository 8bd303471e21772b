package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dmitrijs2005/scankeeper/internal/actions"
	"github.com/dmitrijs2005/scankeeper/internal/client/models"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
)

const (
	timeLayout   = "2006-01-02 15:04"
	previewRunes = 40
)

func printResult(w io.Writer, res payload.Result, acts []actions.Action) {
	fmt.Fprintf(w, "Type: %s\n", res.DisplayType)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range res.DisplayFields {
		fmt.Fprintf(tw, "  %s:\t%s\n", f.Label, oneLine(f.Value))
	}
	_ = tw.Flush()

	if len(acts) == 0 {
		return
	}
	fmt.Fprintln(w, "Actions:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, act := range acts {
		fmt.Fprintf(tw, "  %d. %s\t%s\n", i+1, act.Label, oneLine(act.Target))
	}
	_ = tw.Flush()
}

func printHistory(w io.Writer, items []*models.HistoryItem) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSAVED\tTYPE\tSOURCE\tSYNCED\tTEXT")
	for _, it := range items {
		synced := "no"
		if it.Synced {
			synced = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID.String()[:8],
			it.CreatedAt.Local().Format(timeLayout),
			it.DisplayType,
			sourceMark(it.Source),
			synced,
			preview(it.RawText),
		)
	}
	_ = tw.Flush()
}

var newlines = strings.NewReplacer("\r\n", " ⏎ ", "\n", " ⏎ ", "\r", " ⏎ ")

func oneLine(s string) string { return newlines.Replace(s) }

func preview(s string) string {
	s = oneLine(s)
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	r := []rune(s)
	return string(r[:previewRunes-1]) + "…"
}

func sourceMark(s models.Source) string {
	if s == models.SourceGenerated {
		return "gen"
	}
	return "scan"
}
