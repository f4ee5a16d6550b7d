package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/asutp/flowdesk/internal/config"
	"github.com/asutp/flowdesk/internal/tui"
	"github.com/asutp/flowdesk/internal/utils"
	"github.com/asutp/flowdesk/pkg/manual_value"
	"github.com/asutp/flowdesk/pkg/widget"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "./config/application.yaml", "path to the configuration file")
	dark := flag.Bool("dark", false, "start with the dark theme")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The screen belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Tui.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	mode := tui.ModeLight
	if *dark {
		mode = tui.ModeDark
	}

	model := tui.New(tui.Options{
		WidgetClient: widget.NewClient(cfg.Tui.WidgetUrl, nil),
		WidgetId:     cfg.Tui.WidgetId,
		ManualClient: manual_value.NewClient(cfg.Tui.ApiUrl, nil),
		Clock:        utils.SystemClock{},
		MinLoading:   cfg.Tui.MinLoading,
		Debounce:     cfg.Tui.Debounce,
		Mode:         mode,
	})

	log.Infof("Starting terminal client against %s (widget %d at %s)", cfg.Tui.ApiUrl, cfg.Tui.WidgetId, cfg.Tui.WidgetUrl)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Errorf("terminal client stopped: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
