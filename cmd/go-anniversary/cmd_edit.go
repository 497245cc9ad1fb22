package main

import (
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/anniversary"
	"github.com/tartampluch/go-anniversary/internal/config"
)

func editCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an anniversary",
		Long:  "Only the flags given on the command line are changed; the other fields keep their stored value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openService()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			ctx := cmd.Context()
			current, err := svc.Get(ctx, args[0])
			if err != nil {
				return err
			}

			draft := anniversary.Draft{
				Name:         current.Name,
				Date:         current.Date,
				CalendarType: current.CalendarType,
				Icon:         current.Icon,
				Repeats:      current.Repeats,
			}
			flags.apply(cmd, &draft)

			rec, err := svc.Edit(ctx, current.ID, draft)
			if err != nil {
				return err
			}

			p := newPresenter()
			return report(cmd.OutOrStdout(), p, svc, rec, p.MsgData(config.TKeyMsgUpdated, map[string]any{"Name": rec.Name}))
		},
	}

	flags.register(cmd)
	return cmd
}
