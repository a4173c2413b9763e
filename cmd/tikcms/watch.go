package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/minhduc152001/tik-live-cms/internal/client"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
	"github.com/minhduc152001/tik-live-cms/internal/format"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		count   int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "watch <target>",
		Short: "Print live comments for a TikTok username until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			arch, rec, err := openRecorder(cfg)
			if err != nil {
				return err
			}
			if rec != nil {
				defer arch.Close()
				defer rec.Close()
			}

			out := cmd.OutOrStdout()
			pretty := !noColor && format.IsTerminal(os.Stdout.Fd())
			printer := format.NewPrinter(out, pretty)

			dialer := client.NewFeedDialer(client.NewSession(cfg.API.Token), cfg.Feed.InboxSize)

			var ctrl *feed.Controller
			ctrl = feed.New(dialer, feed.Options{
				BaseURL:   cfg.Feed.BaseURL,
				Reconnect: cfg.ReconnectPolicy(),
				Retention: cfg.Retention(),
				OnTransition: func(_, _ feed.State) {
					printer.State(ctrl.Session())
				},
				OnEvent: func(s feed.Session, e feed.Event) {
					printer.Comment(e)
					if rec != nil {
						rec.Record(s, e)
					}
				},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch(ctx, ctrl, dialer.Inbox(), args[0], count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many comments (0 = run until interrupted)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}

// watch runs the controller event loop on the calling goroutine until ctx
// ends or count comments have been received.
func watch(ctx context.Context, ctrl *feed.Controller, inbox <-chan feed.Signal, target string, count int) error {
	defer ctrl.Close()

	ctrl.SetTarget(target)
	ctrl.Connect()

	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-inbox:
			if !ok {
				return nil
			}
			if !ctrl.Handle(sig) {
				continue
			}
			if _, isComment := sig.(feed.Received); isComment {
				seen++
				if count > 0 && seen >= count {
					return nil
				}
			}
		}
	}
}
