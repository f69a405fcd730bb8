package main

import (
	"fmt"
	"os"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mohitkumarrajbadi/Splitzy/internal/export"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balances, suggested transfers and spending",
		Long: `Show each participant's net balance over open bills, the transfers that
settle everyone up, and spending totals for the current month.

The "You" section is for the participant selected with --as.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			res, err := a.ledgers.GetSummary(ctx, connect.NewRequest(&rpc.GetSummaryRequest{LedgerID: ledger.ID}))
			if err != nil {
				return err
			}

			switch a.format() {
			case formatJSON:
				return export.Summary(a.out, export.FormatJSON, rpc.FromLedger(ledger), res.Msg)
			case formatCSV:
				return export.Summary(a.out, export.FormatCSV, rpc.FromLedger(ledger), res.Msg)
			}
			return a.printSummary(ledger, res.Msg)
		},
	}
}

func (a *app) printSummary(ledger *models.Ledger, s *rpc.GetSummaryResponse) error {
	fmt.Fprintln(a.out, titleStyle.Render(ledger.Name+" · "+s.Month))
	fmt.Fprintln(a.out)

	t := newTable(a.out, "Participant", "Paid", "Share", "Balance")
	for _, b := range s.Balances {
		t.row(displayName(ledger, b.ParticipantID), money(b.TotalPaid), money(b.TotalOwed), signedMoney(b.NetBalance))
	}
	if err := t.flush(); err != nil {
		return err
	}
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, headerStyle.Render("Suggested transfers"))
	if len(s.Transfers) == 0 {
		fmt.Fprintln(a.out, successStyle.Render("All settled up"))
	}
	for _, tr := range s.Transfers {
		fmt.Fprintf(a.out, "  %s → %s  %s\n", displayName(ledger, tr.From), displayName(ledger, tr.To), money(tr.Amount))
	}
	fmt.Fprintln(a.out)

	if s.Caller != nil {
		fmt.Fprintln(a.out, headerStyle.Render("You ("+displayName(ledger, s.Caller.ParticipantID)+")"))
		fmt.Fprintf(a.out, "  owed %s · owes %s · net %s\n", money(s.Caller.Owed), money(s.Caller.Owes), signedMoney(s.Caller.Net))
		fmt.Fprintln(a.out)
	}

	fmt.Fprintln(a.out, headerStyle.Render("Spending"))
	st := newTable(a.out, "Category", "Total")
	for _, c := range models.AllCategories() {
		st.row(string(c), money(s.Stats.CategoryTotals[string(c)]))
	}
	st.row("This month", money(s.Stats.MonthlyTotal))
	st.row("All time", money(s.Stats.TotalSpent))
	if err := st.flush(); err != nil {
		return err
	}

	if s.UnsettledBills > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, warningStyle.Render(fmt.Sprintf("%d open bills totalling %s", s.UnsettledBills, money(s.UnsettledAmount))))
	}
	return nil
}

func (a *app) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:       "export <bills|summary>",
		Short:     "Export bill history or the summary as CSV or JSON",
		Long:      "Export bill history or the summary. The format comes from --format and defaults to CSV.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bills", "summary"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := export.FormatCSV
			if f := a.format(); f != formatTable {
				var err error
				if format, err = export.ParseFormat(f); err != nil {
					return err
				}
			}

			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			w := a.out
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if args[0] == "summary" {
				res, err := a.ledgers.GetSummary(ctx, connect.NewRequest(&rpc.GetSummaryRequest{LedgerID: ledger.ID}))
				if err != nil {
					return err
				}
				return export.Summary(w, format, rpc.FromLedger(ledger), res.Msg)
			}

			res, err := a.bills.ListBills(ctx, connect.NewRequest(&rpc.ListBillsRequest{LedgerID: ledger.ID}))
			if err != nil {
				return err
			}
			return export.Bills(w, format, rpc.FromLedger(ledger), res.Msg.Bills)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}
