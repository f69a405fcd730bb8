package main

import (
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

func (a *app) settleCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Settle every open bill in the selected ledger",
		Long: `Mark every open bill as settled in one round, once the suggested transfers
from 'splitzy summary' have been paid. Use --history to list past rounds.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			if history {
				res, err := a.ledgers.ListSettlementRounds(ctx, connect.NewRequest(&rpc.ListSettlementRoundsRequest{LedgerID: ledger.ID}))
				if err != nil {
					return err
				}
				if a.format() == formatJSON {
					return writeJSON(a.out, res.Msg.Rounds)
				}
				if len(res.Msg.Rounds) == 0 {
					fmt.Fprintln(a.out, subtleStyle.Render("No settlement rounds yet."))
					return nil
				}
				t := newTable(a.out, "Date", "Bills", "Amount", "Settled by")
				for _, r := range res.Msg.Rounds {
					t.row(time.Unix(r.CreatedAt, 0).Format("2006-01-02 15:04"), r.BillsSettled,
						money(r.AmountSettled), displayName(ledger, r.CreatedBy))
				}
				return t.flush()
			}

			res, err := a.ledgers.SettleAll(ctx, connect.NewRequest(&rpc.SettleAllRequest{LedgerID: ledger.ID}))
			if err != nil {
				return err
			}

			if a.format() == formatJSON {
				return writeJSON(a.out, res.Msg.Round)
			}
			fmt.Fprintln(a.out, successStyle.Render(fmt.Sprintf("✓ Settled %d bills totalling %s",
				res.Msg.Round.BillsSettled, money(res.Msg.Round.AmountSettled))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "list past settlement rounds instead")

	return cmd
}
