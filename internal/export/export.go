// Package export renders a ledger's bill history and summary as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

var billHeader = []string{"date", "title", "category", "amount", "payer", "settled", "splits"}

// Bills writes one record per bill. Participants are shown by display name.
func Bills(w io.Writer, format Format, ledger rpc.Ledger, bills []rpc.Bill) error {
	if format == FormatJSON {
		return writeJSON(w, bills)
	}

	names := displayNames(ledger)
	cw := csv.NewWriter(w)
	if err := cw.Write(billHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range bills {
		splits := make([]string, len(b.Splits))
		for i, s := range b.Splits {
			splits[i] = names.of(s.ParticipantID) + ":" + s.Amount.StringFixed(2)
		}
		record := []string{
			b.OccurredAt.Format("2006-01-02"),
			b.Title,
			b.Category,
			b.Amount.StringFixed(2),
			names.of(b.PayerID),
			strconv.FormatBool(b.IsSettled),
			strings.Join(splits, ";"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write bill %s: %w", b.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary writes balances, suggested transfers and spending stats.
// The CSV form is a flat list of (section, name, counterparty, amount) rows.
func Summary(w io.Writer, format Format, ledger rpc.Ledger, summary *rpc.GetSummaryResponse) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	names := displayNames(ledger)
	cw := csv.NewWriter(w)
	rows := [][]string{{"section", "name", "counterparty", "amount"}}
	for _, b := range summary.Balances {
		rows = append(rows, []string{"balance", names.of(b.ParticipantID), "", b.NetBalance.StringFixed(2)})
	}
	for _, t := range summary.Transfers {
		rows = append(rows, []string{"transfer", names.of(t.From), names.of(t.To), t.Amount.StringFixed(2)})
	}
	for _, c := range models.AllCategories() {
		if total, ok := summary.Stats.CategoryTotals[string(c)]; ok {
			rows = append(rows, []string{"category", string(c), "", total.StringFixed(2)})
		}
	}
	rows = append(rows,
		[]string{"total", "all time", "", summary.Stats.TotalSpent.StringFixed(2)},
		[]string{"total", summary.Month, "", summary.Stats.MonthlyTotal.StringFixed(2)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

type nameIndex map[string]string

func displayNames(ledger rpc.Ledger) nameIndex {
	names := make(nameIndex, len(ledger.Participants))
	for _, p := range ledger.Participants {
		names[p.ID] = p.DisplayName
	}
	return names
}

// of falls back to the raw ID for participants no longer on the roster.
func (n nameIndex) of(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return id
}
