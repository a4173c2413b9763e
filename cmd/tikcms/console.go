package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minhduc152001/tik-live-cms/internal/app"
	"github.com/minhduc152001/tik-live-cms/internal/client"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
	"github.com/spf13/cobra"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console [target]",
		Short: "Open the interactive live comment console",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logPath := cfg.LogFile
			if logPath == "" {
				logPath = "tikcms.log"
			}
			logFile, err := tea.LogToFile(logPath, "tikcms")
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			arch, rec, err := openRecorder(cfg)
			if err != nil {
				return err
			}

			session := client.NewSession(cfg.API.Token)
			dialer := client.NewFeedDialer(session, cfg.Feed.InboxSize)

			deps := app.Deps{
				Transport: dialer,
				Inbox:     dialer.Inbox(),
				Feed: feed.Options{
					BaseURL:   cfg.Feed.BaseURL,
					Reconnect: cfg.ReconnectPolicy(),
					Retention: cfg.Retention(),
				},
				API: client.NewHTTPClient(cfg.API.BaseURL, session, cfg.API.Timeout),
			}
			if rec != nil {
				deps.Recorder = rec
			}
			if len(args) == 1 {
				deps.Target = args[0]
			}

			m := app.New(deps)
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, runErr := p.Run()

			// The model closes the controller on quit; this also covers
			// a program killed by a signal.
			m.Controller().Close()
			if rec != nil {
				rec.Close()
				arch.Close()
			}
			return runErr
		},
	}
}
