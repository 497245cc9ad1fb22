package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/config"
)

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Move lapsed repeating anniversaries to their next occurrence",
		Long:  "Runs one resolution pass. Each repeating anniversary whose date has passed moves forward by one year; nothing is written when nothing moved.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openService()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			res, err := svc.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			n := len(res.Advanced)
			msg := newPresenter().MsgCount(config.TKeyMsgResolved, n, map[string]any{"Count": n})
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), msg); err != nil {
				return fmt.Errorf("%s: %w", config.ErrRenderOutput, err)
			}
			return nil
		},
	}
}
