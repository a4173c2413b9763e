package client

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
)

// DefaultTransferPoll is how often AwaitTransfer asks the backend whether a
// payment arrived.
const DefaultTransferPoll = 2 * time.Second

// QRRequest asks the backend for a bank-transfer QR code.
type QRRequest struct {
	BankCode       string `json:"bank_code"`
	AccountNumber  string `json:"account_number"`
	TotalTikTokIDs int    `json:"total_tiktok_ids"`
	TotalMonthCost int64  `json:"total_month_cost"`
	TotalMonths    int    `json:"total_months"`
}

func (r QRRequest) Validate() error {
	if strings.TrimSpace(r.BankCode) == "" {
		return errors.New("bank code is required")
	}
	if strings.TrimSpace(r.AccountNumber) == "" {
		return errors.New("account number is required")
	}
	if r.TotalTikTokIDs < 0 || r.TotalMonthCost < 0 || r.TotalMonths < 0 {
		return errors.New("totals must not be negative")
	}
	return nil
}

// QR is the transfer code the backend generated. PaymentDescription is the
// memo the payer must use and the key for checking the transfer.
type QR struct {
	BankName           string `json:"bank_name"`
	PaymentDescription string `json:"payment_description"`
	URL                string `json:"url"`
}

// CreateQR posts req to /qr.
func (c *HTTPClient) CreateQR(ctx context.Context, req QRRequest) (QR, error) {
	if err := req.Validate(); err != nil {
		return QR{}, err
	}
	var out QR
	if err := c.Post(ctx, "/qr", req, &out); err != nil {
		return QR{}, err
	}
	if out.PaymentDescription == "" {
		return QR{}, errors.New("POST /qr: response has no payment_description")
	}
	return out, nil
}

// Transferred reports whether the webhook has seen a payment with the given
// description.
func (c *HTTPClient) Transferred(ctx context.Context, description string) (bool, error) {
	var out struct {
		Transferred bool `json:"transferred"`
	}
	path := "/webhook/?" + url.Values{"payment_description": {description}}.Encode()
	if err := c.get(ctx, path, &out); err != nil {
		return false, err
	}
	return out.Transferred, nil
}

// AwaitTransfer checks Transferred every interval until the payment arrives
// or ctx ends. Failed checks are passed to pending and polling continues,
// except for ErrUnauthorized which stops it. pending also sees each check
// that found nothing yet, with a nil error.
func (c *HTTPClient) AwaitTransfer(ctx context.Context, description string, interval time.Duration, pending func(error)) error {
	if interval <= 0 {
		interval = DefaultTransferPoll
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := c.Transferred(ctx, description)
			switch {
			case done:
				return nil
			case errors.Is(err, ErrUnauthorized):
				return err
			case err != nil && ctx.Err() != nil:
				return ctx.Err()
			}
			if pending != nil {
				pending(err)
			}
		}
	}
}

