package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
	"github.com/zalando/go-keyring"
)

func importCmd() *cobra.Command {
	var (
		file string
		url  string
		user string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import birthdays and anniversaries from a vCard file or address book URL",
		Long: "Reads BDAY and ANNIVERSARY properties from a vCard file or a CardDAV/HTTP export URL. " +
			"The password for --user is read from the system keyring. Anniversaries already present are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			location := file
			if location == "" {
				location = url
			}
			if location == "" {
				location = settings.CardDAV.URL
			}
			if location == "" {
				return errors.New(config.ErrImportSource)
			}
			if user == "" {
				user = settings.CardDAV.User
			}

			var pass string
			if engine.IsRemote(location) && user != "" {
				p, err := keyring.Get(config.KeyringService, user)
				if err != nil {
					slog.Warn(config.MsgKeyringMiss,
						config.LogKeyComponent, config.CompMain,
						config.LogKeyUser, user,
						config.LogKeyError, fmt.Errorf("%s: %w", config.ErrKeyringLookup, err))
				}
				pass = p
			}

			ctx := cmd.Context()
			rc, err := engine.OpenAddressBook(ctx, engine.NewHTTPFetcher(), location, user, pass)
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()

			svc, st, err := openService()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			records, _, err := engine.ImportVCards(ctx, rc, engine.RealClock{}.Now())
			if err != nil {
				return err
			}
			added, err := svc.Import(ctx, records)
			if err != nil {
				return err
			}

			msg := newPresenter().MsgCount(config.TKeyMsgImported, added, map[string]any{"Count": added})
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), msg); err != nil {
				return fmt.Errorf("%s: %w", config.ErrRenderOutput, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, config.FlagFile, "", "Path of a .vcf file")
	cmd.Flags().StringVar(&url, config.FlagURL, "", "Address book URL (defaults to carddav.url)")
	cmd.Flags().StringVar(&user, config.FlagUser, "", "Address book user (defaults to carddav.user)")
	cmd.MarkFlagsMutuallyExclusive(config.FlagFile, config.FlagURL)
	return cmd
}
