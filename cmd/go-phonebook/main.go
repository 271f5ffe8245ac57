package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/engine"
	"github.com/tartampluch/go-phonebook/internal/server"
	"github.com/tartampluch/go-phonebook/internal/storage"
	"github.com/tartampluch/go-phonebook/internal/ui"
)

// main delegates to runMain so deferred calls (closing the log file) run
// before os.Exit.
func main() {
	os.Exit(runMain())
}

// options holds the command-line flags.
type options struct {
	version    bool
	debug      bool
	lang       string
	dataFile   string
	configPath string
	servePort  string

	writeSettings bool
}

func runMain() int {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          config.AppCommand,
		Short:        config.CmdShort,
		Long:         config.CmdLong,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.version {
				printVersion(cmd.OutOrStdout())
				return nil
			}

			logCloser := setupLogging(opts.debug)
			if logCloser != nil {
				defer func() { _ = logCloser.Close() }()
			}

			// SIGINT and SIGTERM end the session after a final save.
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logStartupInfo()

			if err := run(ctx, cmd, opts); err != nil {
				slog.Error(config.ErrAppFailed,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err,
				)
				return err
			}

			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.version, config.FlagVersion, "v", false, config.FlagDescVersion)
	f.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	f.StringVar(&opts.lang, config.FlagLang, "", config.FlagDescLang)
	f.StringVar(&opts.dataFile, config.FlagData, "", config.FlagDescData)
	f.StringVar(&opts.configPath, config.FlagConfig, "", config.FlagDescConfig)
	f.StringVar(&opts.servePort, config.FlagServe, "", config.FlagDescServe)
	f.BoolVar(&opts.writeSettings, config.FlagWriteSettings, false, config.FlagDescWriteSettings)
	_ = cmd.RegisterFlagCompletionFunc(config.FlagLang, completeLanguages)
	return cmd
}

// completeLanguages offers the locales embedded in the binary.
func completeLanguages(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	catalog, err := ui.NewI18nCatalog("")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return catalog.Languages(), cobra.ShellCompDirectiveNoFileComp
}

// loadSettings merges the settings file, the environment and the flags that were set.
// It also returns the settings file path it read.
func loadSettings(cmd *cobra.Command, opts *options) (*config.Settings, string, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultSettingsPath()
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, "", err
	}

	flags := cmd.Flags()
	if flags.Changed(config.FlagLang) {
		settings.Language = opts.lang
	}
	if flags.Changed(config.FlagData) {
		settings.DataFile = opts.dataFile
	}
	if flags.Changed(config.FlagServe) {
		settings.ServePort = opts.servePort
	}
	if settings.DataFile == "" {
		settings.DataFile = config.DefaultDataPath()
	}

	if err := settings.Validate(); err != nil {
		return nil, "", err
	}

	slog.Debug(config.MsgSettingsLoaded,
		config.LogKeyComponent, config.CompSettings,
		config.LogKeyFile, path,
		config.LogKeyLang, settings.Language,
		config.LogKeyPort, settings.ServePort,
	)
	return settings, path, nil
}

// writeSettings persists the merged settings so later runs need no flags.
func writeSettings(w io.Writer, settings *config.Settings, path string) error {
	if err := settings.Save(path); err != nil {
		return err
	}
	slog.Info(config.MsgSettingsSaved,
		config.LogKeyComponent, config.CompSettings,
		config.LogKeyFile, path,
	)
	_, _ = fmt.Fprintf(w, config.FormatSettingsWritten, path)
	return nil
}

// run wires the dependencies and blocks in the interactive session.
func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	settings, settingsPath, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	if opts.writeSettings {
		return writeSettings(cmd.OutOrStdout(), settings, settingsPath)
	}

	catalog, err := ui.NewI18nCatalog(settings.Language)
	if err != nil {
		return err
	}
	slog.Debug(config.MsgCatalogReady,
		config.LogKeyComponent, config.CompI18n,
		config.LogKeyLang, catalog.Language(),
	)

	store := storage.NewVCardStore(settings.DataFile)
	dir, err := store.Load(ctx)
	if err != nil {
		return err
	}

	session := &ui.Session{
		Book:     engine.NewBook(dir, nil),
		Catalog:  catalog,
		Console:  ui.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
		Store:    store,
		Importer: storage.NewImporter(settings.ImportUser),
		PageSize: settings.PageSize,
		Calendar: engine.CalendarOptions{
			Reminder:      settings.Reminder,
			FormatSummary: catalog.SummaryFormatter(),
		},
	}

	if settings.ServePort != config.DisabledPort {
		srv := server.NewCalendarServer(settings.ServePort)
		session.Publisher = srv
		session.ServeURL = fmt.Sprintf(config.FormatServeURL, config.LocalhostBindAddr, settings.ServePort)

		serverCtx, stopServer := context.WithCancel(ctx)
		serverDone := make(chan error, config.ChannelBufferSize)
		go func() { serverDone <- srv.Start(serverCtx) }()
		defer func() {
			stopServer()
			if err := <-serverDone; err != nil {
				slog.Error(config.MsgServerFailed,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}()
	}

	err = session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// printVersion writes the build information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging sends JSON logs to the cache-dir log file, and to stderr in debug mode.
// Stdout belongs to the interactive session.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if debugMode {
		writers = append(writers, os.Stderr)
	}

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
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
