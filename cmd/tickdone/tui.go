package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tickdone/tickdone/internal/config"
	"github.com/tickdone/tickdone/internal/dispatch"
	"github.com/tickdone/tickdone/internal/logging"
	"github.com/tickdone/tickdone/internal/notify"
	"github.com/tickdone/tickdone/internal/store"
	"github.com/tickdone/tickdone/tui"
)

func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.General.DataDir)
	defer logger.Sync()

	files, err := store.NewFiles(cfg.General.DataDir, logger)
	if err != nil {
		return fmt.Errorf("opening data dir: %w", err)
	}

	notifier := notify.NewMultiNotifier(
		notify.NewBellNotifier(cfg.Notifications.Sound, os.Stderr),
		notify.NewDesktopNotifier(cfg.Notifications.Desktop),
	)

	d := dispatch.New(dispatch.Options{
		Files:      files,
		Config:     cfg,
		ConfigPath: cfgPath,
		Logger:     logger,
	})

	model := tui.NewModel(tui.ModelConfig{
		Dispatcher:    d,
		Notifier:      notifier,
		FlushInterval: time.Duration(cfg.Session.FlushIntervalSec) * time.Second,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	// External writers (the batch subcommands, editors, scripts) share
	// the data files; reload when they change underneath us
	watcher, err := store.NewWatcher(files,
		time.Duration(cfg.General.WatchDebounceMs)*time.Millisecond,
		time.Duration(cfg.General.SelfWriteSuppressMs)*time.Millisecond,
		logger,
		func() { p.Send(tui.FileChangedMsg{}) },
	)
	if err != nil {
		logger.Warn("file watcher unavailable")
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		p.Quit()
	}()

	_, err = p.Run()

	// The in-flight session flush must happen before any other exit
	// side effect, whatever path brought us down
	d.FlushSession()

	return err
}
