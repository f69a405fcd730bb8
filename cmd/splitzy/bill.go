package main

import (
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mohitkumarrajbadi/Splitzy/internal/export"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

func (a *app) billCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bill",
		Aliases: []string{"bills"},
		Short:   "Record and manage bills in the selected ledger",
	}

	cmd.AddCommand(a.billAddCmd())
	cmd.AddCommand(a.billListCmd())
	cmd.AddCommand(a.billDeleteCmd())
	cmd.AddCommand(a.billSettleCmd())

	return cmd
}

func (a *app) billAddCmd() *cobra.Command {
	var (
		amount   string
		payer    string
		category string
		title    string
		date     string
		among    []string
		splits   []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a bill",
		Long: `Record a bill paid by one participant.

By default the amount is divided equally over the whole roster. Use --among to
divide it equally over some participants, or --split to give exact shares.
Participants are given by ID or name.`,
		Example: `  splitzy bill add --amount 90 --payer Asha --category Groceries
  splitzy bill add --amount 40 --payer Ben --among Ben --among Chitra
  splitzy bill add --amount 100 --payer Asha --category Rent --split Asha=50 --split Ben=50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			req := &rpc.CreateBillRequest{
				LedgerID: ledger.ID,
				Title:    title,
				Category: category,
			}

			if req.Amount, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("invalid amount %q", amount)
			}
			if req.PayerID, err = resolveParticipant(ledger, payer); err != nil {
				return err
			}
			if date != "" {
				if req.OccurredAt, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
					return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
				}
			}
			if req.ParticipantIDs, err = resolveParticipants(ledger, among); err != nil {
				return err
			}
			if req.Splits, err = parseSplits(ledger, splits); err != nil {
				return err
			}

			res, err := a.bills.CreateBill(ctx, connect.NewRequest(req))
			if err != nil {
				return err
			}

			if a.format() == formatJSON {
				return writeJSON(a.out, res.Msg.Bill)
			}
			fmt.Fprintf(a.out, "%s %s\n",
				successStyle.Render(fmt.Sprintf("✓ Recorded %s (%s)", res.Msg.Bill.Title, money(res.Msg.Bill.Amount))),
				subtleStyle.Render(res.Msg.Bill.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "bill amount, e.g. 42.50")
	cmd.Flags().StringVar(&payer, "payer", "", "participant who paid")
	cmd.Flags().StringVarP(&category, "category", "c", string(models.CategoryOther), "category (Groceries, Rent, Utilities, Dining, Fun, Other)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "title (default: category and date)")
	cmd.Flags().StringVar(&date, "date", "", "date the expense happened, YYYY-MM-DD (default: today)")
	cmd.Flags().StringArrayVar(&among, "among", nil, "divide equally among this participant (repeatable)")
	cmd.Flags().StringArrayVar(&splits, "split", nil, "exact share as participant=amount (repeatable)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("payer")
	cmd.MarkFlagsMutuallyExclusive("among", "split")

	return cmd
}

// parseSplits turns "participant=amount" pairs into wire splits.
func parseSplits(ledger *models.Ledger, pairs []string) ([]rpc.Split, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make([]rpc.Split, len(pairs))
	for i, pair := range pairs {
		ref, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid split %q: want participant=amount", pair)
		}
		id, err := resolveParticipant(ledger, strings.TrimSpace(ref))
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid split amount %q", raw)
		}
		out[i] = rpc.Split{ParticipantID: id, Amount: amount}
	}
	return out, nil
}

func (a *app) billListCmd() *cobra.Command {
	var unsettled bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bills, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			res, err := a.bills.ListBills(ctx, connect.NewRequest(&rpc.ListBillsRequest{
				LedgerID:      ledger.ID,
				UnsettledOnly: unsettled,
			}))
			if err != nil {
				return err
			}

			switch a.format() {
			case formatJSON:
				return export.Bills(a.out, export.FormatJSON, rpc.FromLedger(ledger), res.Msg.Bills)
			case formatCSV:
				return export.Bills(a.out, export.FormatCSV, rpc.FromLedger(ledger), res.Msg.Bills)
			}

			if len(res.Msg.Bills) == 0 {
				fmt.Fprintln(a.out, subtleStyle.Render("No bills recorded."))
				return nil
			}

			t := newTable(a.out, "ID", "Date", "Title", "Category", "Amount", "Paid by", "Status")
			for _, b := range res.Msg.Bills {
				status := warningStyle.Render("open")
				if b.IsSettled {
					status = subtleStyle.Render("settled")
				}
				t.row(b.ID, b.OccurredAt.Local().Format("2006-01-02"), b.Title, b.Category,
					money(b.Amount), displayName(ledger, b.PayerID), status)
			}
			return t.flush()
		},
	}

	cmd.Flags().BoolVar(&unsettled, "unsettled", false, "only show bills that are not settled")

	return cmd
}

func (a *app) billDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <bill-id>",
		Short: "Delete a bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			if _, err := a.bills.DeleteBill(ctx, connect.NewRequest(&rpc.DeleteBillRequest{
				LedgerID: ledger.ID,
				BillID:   args[0],
			})); err != nil {
				return err
			}

			fmt.Fprintln(a.out, successStyle.Render("✓ Deleted bill "+args[0]))
			return nil
		},
	}
}

func (a *app) billSettleCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "settle <bill-id>",
		Short: "Mark a single bill as settled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			res, err := a.bills.SetBillSettled(ctx, connect.NewRequest(&rpc.SetBillSettledRequest{
				LedgerID: ledger.ID,
				BillID:   args[0],
				Settled:  !undo,
			}))
			if err != nil {
				return err
			}

			if a.format() == formatJSON {
				return writeJSON(a.out, res.Msg.Bill)
			}
			state := "settled"
			if undo {
				state = "open"
			}
			fmt.Fprintln(a.out, successStyle.Render(fmt.Sprintf("✓ %s is %s", res.Msg.Bill.Title, state)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "reopen a settled bill")

	return cmd
}

func displayName(ledger *models.Ledger, id string) string {
	if p, ok := ledger.Participant(id); ok {
		return p.DisplayName
	}
	return id
}
