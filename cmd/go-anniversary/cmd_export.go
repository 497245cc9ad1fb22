package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/anniversary"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
	"github.com/tartampluch/go-anniversary/internal/ui"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the anniversaries as an iCalendar feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openService()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			ctx := cmd.Context()
			res, err := svc.Resolve(ctx)
			if err != nil {
				return err
			}

			data, err := newGenerator(svc, newPresenter()).Generate(ctx, res.Records, settings.ReminderTrigger())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.OpenFile(output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
				if err != nil {
					return fmt.Errorf("%s: %w", config.ErrRenderOutput, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("%s: %w", config.ErrRenderOutput, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, config.FlagOutput, "o", "", "Output file (default: stdout)")
	return cmd
}

// newGenerator builds the iCalendar generator shared by export and serve.
func newGenerator(svc *anniversary.Service, p *ui.Presenter) *engine.Generator {
	return &engine.Generator{
		Clock:         engine.RealClock{},
		Converter:     svc.Converter(),
		FormatSummary: p.Summary,
	}
}
