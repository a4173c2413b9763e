package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/minhduc152001/tik-live-cms/internal/client"
	"github.com/minhduc152001/tik-live-cms/internal/format"
	"github.com/spf13/cobra"
)

func newQRCmd() *cobra.Command {
	var (
		req      client.QRRequest
		interval time.Duration
		timeout  time.Duration
		noWait   bool
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Create a test transfer QR and wait for the payment webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			api := newAPI(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			qr, err := api.CreateQR(ctx, req)
			if err != nil {
				return fmt.Errorf("create qr: %w", err)
			}

			out := cmd.OutOrStdout()
			pretty := !noColor && format.IsTerminal(os.Stdout.Fd())
			printQR(out, qr)
			if noWait {
				return nil
			}

			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			fmt.Fprintln(out, "Waiting for the transfer...")
			return awaitTransfer(ctx, api, qr.PaymentDescription, interval, out, pretty)
		},
	}

	cmd.Flags().StringVar(&req.BankCode, "bank", "", "Bank code (ACB or VCB)")
	cmd.Flags().StringVar(&req.AccountNumber, "account", "", "Receiving account number")
	cmd.Flags().IntVar(&req.TotalTikTokIDs, "ids", 0, "Number of TikTok IDs to add")
	cmd.Flags().Int64Var(&req.TotalMonthCost, "month-cost", 0, "Monthly cost in VND (0 if none)")
	cmd.Flags().IntVar(&req.TotalMonths, "months", 0, "Number of months (0 if none)")
	cmd.Flags().DurationVar(&interval, "interval", client.DefaultTransferPoll, "How often to check for the transfer")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up waiting after this long (0 = until interrupted)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Print the QR and exit without waiting")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.MarkFlagRequired("bank")
	cmd.MarkFlagRequired("account")
	return cmd
}

func printQR(w io.Writer, qr client.QR) {
	fmt.Fprintf(w, "Bank:        %s\n", qr.BankName)
	fmt.Fprintf(w, "Description: %s\n", qr.PaymentDescription)
	fmt.Fprintf(w, "QR image:    %s\n", qr.URL)
}

// awaitTransfer polls until the payment lands. An interrupt is a clean exit;
// running out of time is an error.
func awaitTransfer(ctx context.Context, api *client.HTTPClient, description string, interval time.Duration, w io.Writer, pretty bool) error {
	err := api.AwaitTransfer(ctx, description, interval, func(err error) {
		if err != nil {
			fmt.Fprintf(w, "check failed, retrying: %v\n", err)
		}
	})
	switch {
	case err == nil:
		msg := "Transfer received for " + description
		if pretty {
			msg = color.GreenString("✔ " + msg)
		}
		fmt.Fprintln(w, msg)
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("no transfer for %q yet", description)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Stopped waiting.")
		return nil
	default:
		return err
	}
}
