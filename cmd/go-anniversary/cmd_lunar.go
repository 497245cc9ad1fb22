package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
)

func lunarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lunar [YYYY-MM-DD]",
		Short: "Show lunar and solar conversions of a date",
		Long: "Reads the date as a lunar date and prints its traditional label together with its solar date " +
			"from the anchored model and from the lunisolar table. Also reads it as a solar date and prints its lunar month and day. " +
			"Defaults to today.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := engine.RealClock{}.Now()
			value := now.Format(config.DateLayout)
			if len(args) == 1 {
				value = args[0]
			}

			y, m, d, err := engine.ParseDate(value)
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "lunar %s  %s\n", engine.FormatDate(y, m, d), engine.FormatLunarLabel(m, d))

			for _, c := range []struct {
				name string
				conv engine.Converter
			}{
				{config.ConverterAnchored, engine.NewAnchoredConverter()},
				{config.ConverterTable, engine.TableConverter{}},
			} {
				solar, precision, err := c.conv.LunarToSolar(y, m, d)
				if err != nil {
					fmt.Fprintf(&b, "  %-8s  %v\n", c.name, err)
					continue
				}
				fmt.Fprintf(&b, "  %-8s  solar %s (%s)\n", c.name, solar.Format(config.DateLayout), precision)
			}

			lm, ld, err := engine.LunarGoTable{}.SolarToLunarMonthDay(y, m, d)
			if err != nil {
				fmt.Fprintf(&b, "solar %s  %v\n", engine.FormatDate(y, m, d), err)
			} else {
				fmt.Fprintf(&b, "solar %s  lunar %s\n", engine.FormatDate(y, m, d), engine.FormatLunarLabel(lm, ld))
			}

			if _, err := fmt.Fprint(cmd.OutOrStdout(), b.String()); err != nil {
				return fmt.Errorf("%s: %w", config.ErrRenderOutput, err)
			}
			return nil
		},
	}
}
