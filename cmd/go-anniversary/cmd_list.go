package main

import (
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List anniversaries, closest first",
		Long:  "Moves lapsed repeating anniversaries to their next occurrence, then lists every anniversary: today first, then upcoming, then past.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openService()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			ranked, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			return newPresenter().RenderList(cmd.OutOrStdout(), ranked)
		},
	}
}
