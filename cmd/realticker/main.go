// Command realticker is a terminal client for the RealTicker API: it lists
// the top stocks, shows per-ticker price history and requests AI insights.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"realticker/internal/config"
	"realticker/internal/detail"
	"realticker/internal/listing"
	"realticker/internal/notify"
	"realticker/internal/tui"
	"realticker/internal/util"
	"realticker/pkg/realticker"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := util.NewFileLogger(cfg.Logging.Level, util.FileLog{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	util.SetDefault(logger)
	logger.Info("starting", "api", cfg.API.BaseURL, "timeout", cfg.API.Timeout)

	client := realticker.NewClient(cfg.API.BaseURL,
		realticker.WithTimeout(cfg.API.Timeout),
		realticker.WithLogger(logger),
	)

	toasts := notify.NewQueue(cfg.Notify.ToastDuration)
	notifiers := notify.Multi{toasts, notify.NewLog(logger)}
	if cfg.Notify.NTFYURL != "" {
		notifiers = append(notifiers, notify.NewNTFY(cfg.Notify.NTFYURL, http.DefaultClient, logger))
		logger.Info("ntfy notifications enabled", "url", cfg.Notify.NTFYURL)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tui.New(
		listing.New(ctx, client, notifiers, logger),
		detail.New(ctx, client, notifiers, logger),
		toasts,
		cfg.UI.DarkMode,
		logger,
		cancel,
	)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.Info("exiting")
}
