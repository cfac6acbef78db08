package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/naveenspark/telechat/internal/config"
	applog "github.com/naveenspark/telechat/internal/log"
	"github.com/naveenspark/telechat/internal/room"
	"github.com/naveenspark/telechat/internal/session"
	"github.com/naveenspark/telechat/internal/tui"
	"github.com/naveenspark/telechat/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// flags are the command-line overrides applied on top of the config file.
type flags struct {
	configPath string
	server     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "telechat",
		Short:         "Chat rooms in your terminal",
		Long:          "Create a chat room, share its 16-character code, and talk with whoever joins.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to config file (default: user config dir)")
	cmd.Flags().StringVar(&f.server, "server", "", "chat server websocket URL")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "telechat "+version)
		},
	})
	return cmd
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(f flags, logger *zerolog.Logger) (config.Config, error) {
	cfg, _, err := config.Load(logger, f.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfg.UpdateFrom(config.Config{ServerURL: f.server, LogLevel: f.logLevel})
	if cfg.LogFile == "" {
		cfg.LogFile = applog.DefaultPath()
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = session.DefaultPath()
	}
	return cfg, nil
}

// newDialer opens websocket transports to the configured server.
func newDialer(cfg config.Config, logger *zerolog.Logger) room.Dialer {
	return func(ctx context.Context) (room.Transport, error) {
		c, err := client.Dial(ctx, cfg.ServerURL, client.Options{
			RequestTimeout: cfg.RequestTimeout,
			PingInterval:   cfg.PingInterval,
			Logger:         logger,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func run(ctx context.Context, f flags) error {
	// The terminal belongs to the UI once it starts; only config problems
	// are reported on stderr.
	cfg, err := loadConfig(f, applog.New("warn", os.Stderr))
	if err != nil {
		return err
	}

	logFile, err := applog.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck

	logger := applog.New(cfg.LogLevel, logFile)
	logger.Info().Str("version", version).Str("server", cfg.ServerURL).Str("session_file", cfg.SessionFile).Msg("starting")

	store := session.NewStore(session.NewFileKV(cfg.SessionFile))
	ctrl := room.New(newDialer(cfg, logger), store, room.Options{
		ConnectDelay: cfg.ConnectDelay,
		DialTimeout:  cfg.RequestTimeout,
		Logger:       logger,
	})
	app := tui.NewApp(ctrl, tui.Options{
		Version:       version,
		CopyAckWindow: cfg.CopyAckWindow,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	logger.Info().Msg("exiting")
	return nil
}
