package main

import (
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

func (a *app) ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Create and inspect ledgers",
	}

	cmd.AddCommand(a.ledgerCreateCmd())
	cmd.AddCommand(a.ledgerListCmd())
	cmd.AddCommand(a.ledgerShowCmd())
	cmd.AddCommand(a.ledgerRenameCmd())

	return cmd
}

func (a *app) ledgerCreateCmd() *cobra.Command {
	var (
		name         string
		participants []string
		passcode     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ledger with its roster",
		Long: `Create a ledger shared by two to five participants.

Participants are given as "Name" or "Name:icon". The first participant is
the creator and receives the session token printed at the end.`,
		Example: `  splitzy ledger create --name "OMR Flat" -p Asha:🌻 -p Ben -p Chitra`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := &rpc.CreateLedgerRequest{Name: name, Passcode: passcode}
			for _, p := range participants {
				displayName, icon, _ := strings.Cut(p, ":")
				req.Participants = append(req.Participants, rpc.NewParticipant{
					DisplayName: strings.TrimSpace(displayName),
					Icon:        strings.TrimSpace(icon),
				})
			}

			res, err := a.access.CreateLedger(cmd.Context(), connect.NewRequest(req))
			if err != nil {
				return err
			}

			switch a.format() {
			case formatJSON:
				return writeJSON(a.out, res.Msg)
			case formatCSV:
				return errCSVUnsupported
			}

			fmt.Fprintln(a.out, successStyle.Render("✓ Created ledger "+res.Msg.Ledger.Name))
			if err := a.printLedger(res.Msg.Ledger); err != nil {
				return err
			}
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, boxStyle.Render("Session token\n"+subtleStyle.Render(res.Msg.Token)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "ledger name")
	cmd.Flags().StringArrayVarP(&participants, "participant", "p", nil, `participant as "Name" or "Name:icon" (repeatable)`)
	cmd.Flags().StringVar(&passcode, "passcode", "", "optional passcode required to open the ledger")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (a *app) ledgerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all ledgers, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledgers, err := a.store.ListLedgers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list ledgers: %w", err)
			}

			out := make([]rpc.Ledger, len(ledgers))
			for i, l := range ledgers {
				out[i] = rpc.FromLedger(l)
			}

			switch a.format() {
			case formatJSON:
				return writeJSON(a.out, out)
			case formatCSV:
				return errCSVUnsupported
			}

			if len(out) == 0 {
				fmt.Fprintln(a.out, subtleStyle.Render("No ledgers yet. Use 'splitzy ledger create' to start one."))
				return nil
			}

			t := newTable(a.out, "ID", "Name", "Participants", "Passcode", "Created")
			for _, l := range out {
				names := make([]string, len(l.Participants))
				for i, p := range l.Participants {
					names[i] = p.DisplayName
				}
				t.row(l.ID, l.Name, strings.Join(names, ", "), yesNo(l.HasPasscode),
					time.Unix(l.CreatedAt, 0).Format("2006-01-02"))
			}
			return t.flush()
		},
	}
}

func (a *app) ledgerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a ledger and its roster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			res, err := a.ledgers.GetLedger(ctx, connect.NewRequest(&rpc.GetLedgerRequest{LedgerID: ledger.ID}))
			if err != nil {
				return err
			}

			switch a.format() {
			case formatJSON:
				return writeJSON(a.out, res.Msg.Ledger)
			case formatCSV:
				return errCSVUnsupported
			}
			return a.printLedger(res.Msg.Ledger)
		},
	}
}

func (a *app) ledgerRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the selected ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			res, err := a.ledgers.RenameLedger(ctx, connect.NewRequest(&rpc.RenameLedgerRequest{
				LedgerID: ledger.ID,
				Name:     args[0],
			}))
			if err != nil {
				return err
			}

			if a.format() == formatJSON {
				return writeJSON(a.out, res.Msg.Ledger)
			}
			fmt.Fprintln(a.out, successStyle.Render("✓ Renamed ledger to "+res.Msg.Ledger.Name))
			return nil
		},
	}
}

func (a *app) printLedger(l rpc.Ledger) error {
	fmt.Fprintln(a.out, titleStyle.Render(l.Name))
	fmt.Fprintln(a.out, subtleStyle.Render("ID "+l.ID))
	if l.HasPasscode {
		fmt.Fprintln(a.out, warningStyle.Render("Protected by passcode"))
	}
	fmt.Fprintln(a.out)

	t := newTable(a.out, "#", "ID", "Name", "Icon")
	for i, p := range l.Participants {
		t.row(i+1, p.ID, p.DisplayName, p.Icon)
	}
	return t.flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
