// Package resource describes the admin collections served by the CMS REST
// API and how their rows are displayed.
package resource

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/minhduc152001/tik-live-cms/internal/client"
)

// Format selects how a column value is rendered.
type Format int

const (
	Text Format = iota
	List
	Money
	DateTime
	Date
)

// Column is one displayed field of a row.
type Column struct {
	Title  string
	Key    string
	Format Format
	Width  int
}

// Resource is a read-only admin collection.
type Resource struct {
	Name    string
	Aliases []string
	Title   string
	Path    string
	Columns []Column
}

var all = []Resource{
	{
		Name: "users", Aliases: []string{"user"}, Title: "Users", Path: "/users",
		Columns: []Column{
			{Title: "Email", Key: "email", Width: 28},
			{Title: "Phone", Key: "phone", Width: 14},
			{Title: "TikTok IDs", Key: "tiktok_ids", Format: List, Width: 24},
			{Title: "Role", Key: "role", Width: 8},
			{Title: "Subscription Expires", Key: "subscription_expired_at", Format: Date, Width: 12},
			{Title: "Created At", Key: "created_at", Format: DateTime, Width: 16},
		},
	},
	{
		Name: "banks", Aliases: []string{"bank"}, Title: "Banks", Path: "/banks",
		Columns: []Column{
			{Title: "Bank Code", Key: "bank_code", Width: 10},
			{Title: "Bank Name", Key: "bank_name", Width: 28},
			{Title: "Account Number", Key: "bank_account_number", Width: 18},
		},
	},
	{
		Name: "sms", Title: "SMS", Path: "/sms",
		Columns: []Column{
			{Title: "Sender", Key: "sender", Width: 14},
			{Title: "Message", Key: "msg", Width: 60},
		},
	},
	{
		Name: "balance-movements", Aliases: []string{"balance", "movements"}, Title: "Balance Movements", Path: "/balance-movements",
		Columns: []Column{
			{Title: "Account Number", Key: "account_number", Width: 16},
			{Title: "Amount", Key: "amount", Format: Money, Width: 14},
			{Title: "Transaction Time", Key: "transaction_time", Format: DateTime, Width: 16},
			{Title: "Current Balance", Key: "current_balance", Format: Money, Width: 16},
			{Title: "Payment Description", Key: "payment_description", Width: 36},
		},
	},
	{
		Name: "receipts", Aliases: []string{"receipt", "qr"}, Title: "Receipts", Path: "/qr",
		Columns: []Column{
			{Title: "Bank Code", Key: "bank_code", Width: 10},
			{Title: "Bank Name", Key: "bank_name", Width: 20},
			{Title: "Account Number", Key: "account_number", Width: 16},
			{Title: "User Email", Key: "user_email", Width: 24},
			{Title: "Monthly Cost", Key: "total_month_cost", Format: Money, Width: 12},
			{Title: "Months", Key: "total_months", Width: 6},
			{Title: "TikTok IDs", Key: "total_tiktok_ids", Width: 10},
			{Title: "Total", Key: "total_amount", Format: Money, Width: 14},
			{Title: "Payment Description", Key: "payment_description", Width: 24},
			{Title: "Created At", Key: "created_at", Format: DateTime, Width: 16},
		},
	},
	{
		Name: "invoices", Aliases: []string{"invoice"}, Title: "Invoices", Path: "/invoices",
		Columns: []Column{
			{Title: "Invoice ID", Key: "invoice_id", Width: 14},
			{Title: "Customer", Key: "customer", Width: 20},
			{Title: "Vendor", Key: "vendor", Width: 16},
			{Title: "Per Month", Key: "amount_per_month", Format: Money, Width: 12},
			{Title: "Months", Key: "subscription_months", Width: 6},
			{Title: "Total", Key: "total_amount", Format: Money, Width: 14},
			{Title: "VAT", Key: "VAT", Width: 6},
			{Title: "Created At", Key: "created_at", Format: DateTime, Width: 16},
		},
	},
	{
		Name: "pricing", Aliases: []string{"prices"}, Title: "Pricing", Path: "/pricing",
		Columns: []Column{
			{Title: "Per Month", Key: "amount_per_month", Format: Money, Width: 12},
			{Title: "TikTok IDs", Key: "total_tiktok_ids", Width: 10},
			{Title: "Months", Key: "total_months", Width: 8},
		},
	},
}

// All returns every resource in menu order.
func All() []Resource {
	out := make([]Resource, len(all))
	copy(out, all)
	return out
}

// Names returns the canonical resource names, sorted.
func Names() []string {
	names := make([]string, 0, len(all))
	for _, r := range all {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a name or alias, case-insensitively.
func Lookup(name string) (Resource, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range all {
		if r.Name == name {
			return r, nil
		}
		for _, a := range r.Aliases {
			if a == name {
				return r, nil
			}
		}
	}
	return Resource{}, fmt.Errorf("unknown resource %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Headers returns the column titles.
func (r Resource) Headers() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Title
	}
	return out
}

// Cells renders row in column order.
func (r Resource) Cells(row client.Row) []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Render(row[c.Key])
	}
	return out
}

// Render formats one raw JSON value. Missing values render as "-".
func (c Column) Render(v any) string {
	if v == nil {
		return "-"
	}
	switch c.Format {
	case List:
		items, ok := v.([]any)
		if !ok {
			return fmt.Sprint(v)
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, fmt.Sprint(it))
		}
		return strings.Join(parts, ", ")
	case Money:
		return formatMoney(v)
	case DateTime:
		return formatTime(v, "2006-01-02 15:04")
	case Date:
		return formatTime(v, "2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}

func formatMoney(v any) string {
	var n float64
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		n = f
	case float64:
		n = x
	case int:
		n = float64(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return x
		}
		n = f
	default:
		return fmt.Sprint(v)
	}
	return groupThousands(int64(n))
}

// groupThousands renders n with comma separators (VND has no minor unit).
func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	return sign + b.String()
}

func formatTime(v any, layout string) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	for _, in := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(in, s); err == nil {
			return t.Format(layout)
		}
	}
	return s
}
