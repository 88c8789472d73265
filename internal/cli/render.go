package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/darakelian/osrsprice/internal/config"
	"github.com/darakelian/osrsprice/internal/engine"
)

// notAvailable is printed for a price with no recent trade.
const notAvailable = "N/A"

// localeEnvVars are consulted in POSIX precedence order for number formatting.
//
//nolint:gochecknoglobals // Constant lookup order.
var localeEnvVars = []string{"LC_ALL", "LC_NUMERIC", "LANG"}

// resultRow is the JSON shape of one priced item.
type resultRow struct {
	ID       uint32  `json:"id"`
	Name     string  `json:"name"`
	High     *uint32 `json:"high"`
	HighTime *int64  `json:"highTime"`
	Low      *uint32 `json:"low"`
	LowTime  *int64  `json:"lowTime"`
	Members  bool    `json:"members"`
	Limit    *int64  `json:"limit,omitempty"`
}

// newLocalePrinter returns a number printer for the user's locale, falling back to
// English when the locale is unset, "C"/"POSIX", or unparseable.
func newLocalePrinter(lookupEnv func(string) (string, bool)) *message.Printer {
	return message.NewPrinter(localeTag(lookupEnv))
}

func localeTag(lookupEnv func(string) (string, bool)) language.Tag {
	for _, key := range localeEnvVars {
		v, ok := lookupEnv(key)
		if !ok || v == "" {
			continue
		}
		// de_DE.UTF-8@euro -> de-DE
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return language.English
		}
		tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
		if err != nil {
			return language.English
		}
		return tag
	}
	return language.English
}

// formatPrice renders a price with thousand separators, or N/A when absent.
func formatPrice(p *message.Printer, price *uint32) string {
	if price == nil {
		return notAvailable
	}
	return p.Sprintf("%d", *price)
}

// renderResults writes results in the requested format.
func renderResults(w io.Writer, results []engine.Result, format string, p *message.Printer) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, results)
	case config.OutputTable, "":
		if isWriterTerminal(w) {
			return renderStyled(w, results, p)
		}
		return renderPlain(w, results, p)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// renderPlain writes one "name -> high: X, low: Y" line per result.
func renderPlain(w io.Writer, results []engine.Result, p *message.Printer) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s -> high: %s, low: %s\n",
			r.Item.Name, formatPrice(p, r.Price.High), formatPrice(p, r.Price.Low)); err != nil {
			return err
		}
	}
	return nil
}

// renderStyled writes the plain layout with Lip Gloss colors for a TTY.
func renderStyled(w io.Writer, results []engine.Result, p *message.Printer) error {
	nameStyle := lipgloss.NewStyle().Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	highStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	naStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240"))

	price := func(style lipgloss.Style, v *uint32) string {
		if v == nil {
			return naStyle.Render(notAvailable)
		}
		return style.Render(formatPrice(p, v))
	}

	for _, r := range results {
		line := fmt.Sprintf("%s %s %s %s",
			nameStyle.Render(r.Item.Name),
			labelStyle.Render("-> high:"),
			price(highStyle, r.Price.High)+labelStyle.Render(", low:"),
			price(lowStyle, r.Price.Low),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// renderJSON writes results as an indented JSON array.
func renderJSON(w io.Writer, results []engine.Result) error {
	rows := make([]resultRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow{
			ID:       r.Item.ID,
			Name:     r.Item.Name,
			High:     r.Price.High,
			HighTime: r.Price.HighTime,
			Low:      r.Price.Low,
			LowTime:  r.Price.LowTime,
			Members:  r.Item.Members,
			Limit:    r.Item.Limit,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}
