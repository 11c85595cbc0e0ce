package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"stock-movers/cache"
	"stock-movers/models"
	"stock-movers/search"
)

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Fprint(os.Stdout, md)
}

// usd formats a price as US dollars, e.g. "$1,234.50".
func usd(v float64) string {
	if v <= 0 {
		return "-"
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func marketCap(v float64) string {
	if v <= 0 {
		return "-"
	}
	return "$" + humanize.SIWithDigits(v, 2, "")
}

// escapeCell keeps a value from breaking the table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// moversMarkdown renders a snapshot as a markdown table. limit <= 0 shows
// every record.
func moversMarkdown(s models.Snapshot, limit int) string {
	var b strings.Builder
	status := fmt.Sprintf("batch %d of %d", s.Batch, s.Batches)
	if s.Final {
		status = "final"
	}
	fmt.Fprintf(&b, "# Top movers (%s, %s)\n\n", s.Period, status)

	if len(s.Records) == 0 {
		b.WriteString("No movers.\n")
		return b.String()
	}

	b.WriteString("| # | Symbol | Name | Price | Change | Avg | Target | Mkt cap | Logo |\n")
	b.WriteString("|---|--------|------|------:|-------:|----:|-------:|--------:|:----:|\n")
	for i, r := range s.Records {
		if limit > 0 && i == limit {
			break
		}
		logo := "·"
		if r.Logo != nil {
			logo = "✓"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			i+1, r.Symbol, escapeCell(r.DisplayName), usd(r.CurrentPrice), percent(r.PercentChange),
			usd(r.TrailingAverage), usd(r.AnalystTarget), marketCap(r.MarketCap), logo)
	}
	return b.String()
}

func searchMarkdown(query string, docs []search.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Results for %q\n\n", query)
	if len(docs) == 0 {
		b.WriteString("No results.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Name | Exchange | Last | Change |\n")
	b.WriteString("|--------|------|----------|-----:|-------:|\n")
	for _, d := range docs {
		change := "-"
		if d.Period != "" {
			change = percent(d.PercentChange) + " " + d.Period
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			d.Symbol, escapeCell(d.Name), d.Exchange, usd(d.Price), change)
	}
	return b.String()
}

func cacheMarkdown(entries []cache.Entry) string {
	var b strings.Builder
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	fmt.Fprintf(&b, "# Logo cache: %d entries, %s\n\n", len(entries), humanize.Bytes(uint64(total)))
	if len(entries) == 0 {
		return b.String()
	}
	b.WriteString("| Symbol | Size | Stored | Source |\n")
	b.WriteString("|--------|-----:|--------|--------|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			e.Symbol, humanize.Bytes(uint64(e.Size)), humanize.Time(e.Time()), escapeCell(e.Source))
	}
	return b.String()
}
