package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/storefront/internal/app/domain/purchase"
	"github.com/R3E-Network/storefront/internal/app/domain/user"
)

func TestFaultyStore(t *testing.T) {
	ctx := context.Background()
	store := NewFaultyStore()
	boom := errors.New("boom")

	u, err := store.CreateUser(ctx, user.User{Email: "a@x.com"})
	require.NoError(t, err)

	store.Fail(OpGetUser, boom)
	_, err = store.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, boom)

	_, err = store.CreatePurchase(ctx, purchase.Purchase{UserID: u.ID, ItemName: "book", Price: 1})
	require.NoError(t, err, "faults only apply to the configured operation")

	store.Fail(OpGetUser, nil)
	got, err := store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	require.NoError(t, store.Reset(ctx))
	count, err := store.CountPurchases(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
