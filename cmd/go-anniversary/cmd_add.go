package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/anniversary"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
	"github.com/tartampluch/go-anniversary/internal/ui"
)

// draftFlags are the record fields shared by add and edit.
type draftFlags struct {
	name     string
	date     string
	calendar string
	icon     string
	repeats  bool
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, config.FlagName, "", "Name of the anniversary")
	cmd.Flags().StringVar(&f.date, config.FlagDate, "", "Date as YYYY-MM-DD (lunar month/day for lunar anniversaries)")
	cmd.Flags().StringVar(&f.calendar, config.FlagCalendar, string(engine.CalendarSolar), "Calendar of the date: solar or lunar")
	cmd.Flags().StringVar(&f.icon, config.FlagIcon, config.DefaultIcon, "Icon shown next to the name")
	cmd.Flags().BoolVar(&f.repeats, config.FlagRepeats, true, "Repeat every year")
}

// apply overlays the flags the user set on d.
func (f *draftFlags) apply(cmd *cobra.Command, d *anniversary.Draft) {
	if cmd.Flags().Changed(config.FlagName) {
		d.Name = f.name
	}
	if cmd.Flags().Changed(config.FlagDate) {
		d.Date = f.date
	}
	if cmd.Flags().Changed(config.FlagCalendar) {
		d.CalendarType = engine.CalendarType(f.calendar)
	}
	if cmd.Flags().Changed(config.FlagIcon) {
		d.Icon = f.icon
	}
	if cmd.Flags().Changed(config.FlagRepeats) {
		d.Repeats = f.repeats
	}
}

func addCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an anniversary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openService()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			rec, err := svc.Add(cmd.Context(), anniversary.Draft{
				Name:         flags.name,
				Date:         flags.date,
				CalendarType: engine.CalendarType(flags.calendar),
				Icon:         flags.icon,
				Repeats:      flags.repeats,
			})
			if err != nil {
				return err
			}

			p := newPresenter()
			return report(cmd.OutOrStdout(), p, svc, rec, p.MsgData(config.TKeyMsgAdded, map[string]any{"Name": rec.Name}))
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired(config.FlagName)
	_ = cmd.MarkFlagRequired(config.FlagDate)
	return cmd
}

// report prints a confirmation line followed by the record and its countdown.
func report(w io.Writer, p *ui.Presenter, svc *anniversary.Service, rec engine.Anniversary, msg string) error {
	if _, err := fmt.Fprintln(w, msg); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRenderOutput, err)
	}
	ranked := engine.Rank(engine.RealClock{}.Now(), []engine.Anniversary{rec}, svc.Converter())
	return p.RenderRecord(w, ranked[0])
}
