package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/anniversary"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
	"github.com/tartampluch/go-anniversary/internal/server"
	"github.com/tartampluch/go-anniversary/internal/store"
	"github.com/tartampluch/go-anniversary/internal/ui"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the iCalendar feed and keep anniversaries up to date",
		Long: "Serves the anniversaries on localhost as an iCalendar feed (" + config.RouteCalendar + ") and a JSON listing (" +
			config.RouteListing + "). Repeating anniversaries are moved forward periodically, and the feed is rebuilt whenever the store changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed(config.FlagPort) {
				if err := config.ValidatePort(port); err != nil {
					return err
				}
			} else {
				port = settings.Server.Port
			}

			svc, st, err := openService()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			ctx := cmd.Context()
			srv := server.NewFeedServer(port)
			pub := &publisher{
				srv:     srv,
				gen:     newGenerator(svc, newPresenter()),
				p:       newPresenter(),
				conv:    svc.Converter(),
				trigger: settings.ReminderTrigger(),
			}

			rechecker := anniversary.NewRechecker(svc, settings.RecheckInterval)
			svc.Subscribe(rechecker.Sync)
			svc.Subscribe(func(records []engine.Anniversary) { pub.publish(ctx, records) })
			rechecker.Start(ctx)
			defer rechecker.Stop()

			if path := st.Path(); path != "" {
				w, err := store.NewWatcher(path, config.WatchDebounce, func() {
					slog.Info(config.MsgWatchReload,
						config.LogKeyComponent, config.CompWatcher,
						config.LogKeyFile, path)
					if _, err := svc.Resolve(ctx); err != nil {
						slog.Warn(config.MsgRecheckFailed,
							config.LogKeyComponent, config.CompWatcher,
							config.LogKeyError, err)
					}
				})
				if err != nil {
					return err
				}
				defer func() { _ = w.Close() }()
			}

			// The first pass publishes the feed and arms the rechecker.
			if _, err := svc.Resolve(ctx); err != nil {
				return err
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&port, config.FlagPort, "", "Port of the feed on 127.0.0.1 (defaults to server.port)")
	return cmd
}

// publisher rebuilds the served documents from a collection snapshot.
type publisher struct {
	srv     *server.FeedServer
	gen     *engine.Generator
	p       *ui.Presenter
	conv    engine.Converter
	trigger string
}

func (pub *publisher) publish(ctx context.Context, records []engine.Anniversary) {
	data, err := pub.gen.Generate(ctx, records, pub.trigger)
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
		return
	}
	pub.srv.PublishCalendar(data)

	ranked := engine.Rank(engine.RealClock{}.Now(), records, pub.conv)
	if err := pub.srv.PublishListing(pub.p.Entries(ranked)); err != nil {
		slog.Error(config.ErrListingEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
	}
}
