package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	primaryColor = lipgloss.Color("#4ECDC4")
	successColor = lipgloss.Color("#95E1D3")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	subtleColor  = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	subtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// signedMoney colors positive balances green and negative ones red.
func signedMoney(d decimal.Decimal) string {
	switch d.Sign() {
	case 1:
		return successStyle.Render("+" + money(d))
	case -1:
		return errorStyle.Render(money(d))
	default:
		return subtleStyle.Render(money(d))
	}
}

// table writes tab-separated rows under a styled header.
type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer, headers ...any) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	styled := make([]any, len(headers))
	for i, h := range headers {
		styled[i] = headerStyle.Render(fmt.Sprint(h))
	}
	t.row(styled...)
	return t
}

func (t *table) row(cells ...any) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(t.w, "\t")
		}
		fmt.Fprint(t.w, c)
	}
	fmt.Fprintln(t.w)
}

func (t *table) flush() error {
	return t.w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
