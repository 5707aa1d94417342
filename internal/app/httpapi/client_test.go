package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/storefront/internal/httputil"
)

// TestClientAgainstServer drives every endpoint through the typed client.
func TestClientAgainstServer(t *testing.T) {
	h := newTestHandler(t, Options{})
	server := httptest.NewServer(h)
	defer server.Close()

	ctx := context.Background()
	client := httputil.NewClient(httputil.ClientConfig{BaseURL: server.URL})

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)

	u, err := client.RegisterUser(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.UserID)

	got, err := client.GetUser(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	p, err := client.RegisterPurchase(ctx, u.UserID, "book", 10)
	require.NoError(t, err)
	assert.False(t, p.Paid)

	_, err = client.ListPayments(ctx, u.UserID)
	var apiErr *httputil.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "No payments found", apiErr.Message)

	pay, err := client.RegisterPayment(ctx, u.UserID, p.PurchaseID)
	require.NoError(t, err)

	purchase, err := client.GetPurchase(ctx, u.UserID, p.PurchaseID)
	require.NoError(t, err)
	assert.True(t, purchase.Paid)

	payment, err := client.GetPayment(ctx, u.UserID, pay.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, p.PurchaseID, payment.PurchaseID)

	purchases, err := client.ListPurchases(ctx, u.UserID)
	require.NoError(t, err)
	assert.Len(t, purchases, 1)

	payments, err := client.ListPayments(ctx, u.UserID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	users, err := client.AdminUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", users[1].Email)

	paid, err := client.PaidPurchases(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, paid.Count)

	total, err := client.TotalPurchases(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total.Count)

	audit, err := client.AuditLog(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, audit.Entries, 3)

	_, err = client.RegisterPayment(ctx, u.UserID, p.PurchaseID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "DUPLICATE_PAYMENT", apiErr.Code)
	assert.NotEmpty(t, apiErr.TraceID)
}
