package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/xiangqi-client/internal/app"
	"github.com/vovakirdan/xiangqi-client/internal/config"
	"github.com/vovakirdan/xiangqi-client/internal/log"
)

func main() {
	var (
		configPath string
		endpoint   string
		logLevel   string
		logFile    string
	)

	root := &cobra.Command{
		Use:           "xqclient",
		Short:         "Terminal client for the xiangqi lobby server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bootstrap logger so config loading can report; replaced once
			// the real log level and destination are known.
			bootLog, _, err := log.New("info", "")
			if err != nil {
				return err
			}

			cfg, cfgPath, err := config.Load(bootLog, configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", cfgPath, err)
			}
			if endpoint != "" {
				cfg.Endpoint = endpoint
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFile
			}

			logger, closeLog, err := log.New(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if closeLog != nil {
				defer closeLog.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().Str("endpoint", cfg.Endpoint).Str("config", cfgPath).Msg("starting client")

			application, err := app.New(cfg, logger, os.Stdout)
			if err != nil {
				return err
			}
			return application.Run(ctx, os.Stdin)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to config file")
	root.Flags().StringVar(&endpoint, "endpoint", "", "websocket endpoint, e.g. ws://localhost:8767")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.Flags().StringVar(&logFile, "log-file", "", "write logs to file instead of stderr")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
