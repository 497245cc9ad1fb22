package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-anniversary/internal/anniversary"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
	"github.com/tartampluch/go-anniversary/internal/store"
	"github.com/tartampluch/go-anniversary/internal/ui"
)

// settings is loaded once by the root command before any subcommand runs.
var settings *config.Settings

// main delegates to runMain so that deferred calls (closing the log file)
// run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain builds the command tree, executes it and maps the outcome to an exit code.
func runMain() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var logCloser io.Closer
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close() // Best effort close
		}
	}()

	rootCmd := newRootCmd(func(c io.Closer) { logCloser = c })
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Debug(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

func newRootCmd(onLog func(io.Closer)) *cobra.Command {
	var (
		showVersion bool
		debugMode   bool
		configDir   string
	)

	rootCmd := &cobra.Command{
		Use:           "go-anniversary",
		Short:         "Solar and lunar anniversary tracker",
		Long:          "Tracks solar and lunar anniversaries, rolls repeating ones over to their next occurrence and ranks them by how close they are.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}

			var paths []string
			if configDir != "" {
				paths = append(paths, configDir)
			}
			s, err := config.LoadSettings(paths...)
			if err != nil {
				return err
			}
			settings = s

			onLog(setupLogging(debugMode))
			logStartupInfo()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, config.FlagVersion, false, config.FlagDescVersion)
	rootCmd.PersistentFlags().BoolVar(&debugMode, config.FlagDebug, false, config.FlagDescDebug)
	rootCmd.PersistentFlags().StringVar(&configDir, config.FlagConfig, "", "Directory holding config.yaml")

	rootCmd.AddCommand(
		listCmd(),
		addCmd(),
		editCmd(),
		deleteCmd(),
		resolveCmd(),
		importCmd(),
		exportCmd(),
		serveCmd(),
		lunarCmd(),
	)
	return rootCmd
}

// openService opens the configured store and wires the anniversary service on it.
// The caller closes the returned store.
func openService() (*anniversary.Service, store.Store, error) {
	conv, err := engine.NewConverter(settings.Converter)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(settings.Store.Driver, settings.DataDir, settings.Store.Key)
	if err != nil {
		return nil, nil, err
	}

	repo := anniversary.NewRepository(st, settings.Store.Key)
	return anniversary.NewService(repo, engine.RealClock{}, conv), st, nil
}

func newPresenter() *ui.Presenter {
	return ui.NewPresenter(settings.Language)
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Logs go to stderr, so
// they never mix with command output, and to a log file in the user cache dir.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on every run to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := parseLevel(settings.Logging.Level)
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	out := io.MultiWriter(writers...)
	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if settings.Logging.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))

	if logFile == nil {
		return nil
	}
	return logFile
}

func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
