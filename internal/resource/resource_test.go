package resource

import (
	"encoding/json"
	"testing"

	"github.com/minhduc152001/tik-live-cms/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"users", "users"},
		{"USER", "users"},
		{" banks ", "banks"},
		{"qr", "receipts"},
		{"balance", "balance-movements"},
		{"invoice", "invoices"},
		{"pricing", "pricing"},
		{"sms", "sms"},
	}
	for _, tt := range tests {
		r, err := Lookup(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, r.Name)
	}

	_, err := Lookup("payments")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "balance-movements")
}

func TestAllHaveColumnsAndPaths(t *testing.T) {
	rs := All()
	assert.Len(t, rs, 7)
	for _, r := range rs {
		assert.NotEmpty(t, r.Columns, r.Name)
		assert.True(t, len(r.Path) > 1 && r.Path[0] == '/', r.Name)
		assert.Len(t, r.Headers(), len(r.Columns))
	}
}

func TestCellsFormatting(t *testing.T) {
	users, err := Lookup("users")
	require.NoError(t, err)

	row := client.Row{
		"email":                   "shop@example.com",
		"phone":                   "0901234567",
		"tiktok_ids":              []any{"shop_a", "shop_b"},
		"role":                    "user",
		"subscription_expired_at": "2025-01-31T00:00:00Z",
		"created_at":              "2024-11-02T20:15:00Z",
	}
	assert.Equal(t, []string{
		"shop@example.com", "0901234567", "shop_a, shop_b", "user", "2025-01-31", "2024-11-02 20:15",
	}, users.Cells(row))
}

func TestCellsMissingValues(t *testing.T) {
	banks, err := Lookup("banks")
	require.NoError(t, err)
	assert.Equal(t, []string{"VCB", "-", "-"}, banks.Cells(client.Row{"bank_code": "VCB"}))
}

func TestRenderMoney(t *testing.T) {
	col := Column{Format: Money}
	tests := []struct {
		in   any
		want string
	}{
		{json.Number("1500000"), "1,500,000"},
		{json.Number("-20000"), "-20,000"},
		{float64(999), "999"},
		{"120000", "120,000"},
		{"n/a", "n/a"},
		{json.Number("0"), "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, col.Render(tt.in))
	}
}

func TestRenderUnparseableTime(t *testing.T) {
	assert.Equal(t, "yesterday", Column{Format: DateTime}.Render("yesterday"))
}
