package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/config"
)

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an anniversary",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openService()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			msg := newPresenter().MsgData(config.TKeyMsgDeleted, map[string]any{"ID": args[0]})
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), msg); err != nil {
				return fmt.Errorf("%s: %w", config.ErrRenderOutput, err)
			}
			return nil
		},
	}
}
