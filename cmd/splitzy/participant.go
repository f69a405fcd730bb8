package main

import (
	"fmt"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

func (a *app) participantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "participant",
		Aliases: []string{"p"},
		Short:   "Manage the roster of the selected ledger",
	}

	cmd.AddCommand(a.participantAddCmd())
	cmd.AddCommand(a.participantRenameCmd())

	return cmd
}

func (a *app) participantAddCmd() *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a participant to the end of the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			res, err := a.ledgers.AddParticipant(ctx, connect.NewRequest(&rpc.AddParticipantRequest{
				LedgerID:    ledger.ID,
				DisplayName: args[0],
				Icon:        icon,
			}))
			if err != nil {
				return err
			}

			if a.format() == formatJSON {
				return writeJSON(a.out, res.Msg.Participant)
			}
			fmt.Fprintf(a.out, "%s %s\n",
				successStyle.Render("✓ Added "+res.Msg.Participant.DisplayName),
				subtleStyle.Render("("+res.Msg.Participant.ID+")"))
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "emoji shown next to the name")

	return cmd
}

func (a *app) participantRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <participant> <new-name>",
		Short: "Change a participant's display name",
		Long:  "Change a participant's display name. The participant is given by ID or current name.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ledger, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			participantID, err := resolveParticipant(ledger, args[0])
			if err != nil {
				return err
			}

			res, err := a.ledgers.RenameParticipant(ctx, connect.NewRequest(&rpc.RenameParticipantRequest{
				LedgerID:      ledger.ID,
				ParticipantID: participantID,
				DisplayName:   args[1],
			}))
			if err != nil {
				return err
			}

			if a.format() == formatJSON {
				return writeJSON(a.out, res.Msg.Ledger)
			}
			fmt.Fprintln(a.out, successStyle.Render("✓ Renamed "+args[0]+" to "+args[1]))
			return nil
		},
	}
}
