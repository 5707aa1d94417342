package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/storefront/internal/app/domain/payment"
	"github.com/R3E-Network/storefront/internal/app/domain/purchase"
	"github.com/R3E-Network/storefront/internal/app/domain/user"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
)

func seedUser(t *testing.T, s *Store, email string) user.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), user.User{Email: email, PasswordHash: []byte("hash")})
	require.NoError(t, err)
	return u
}

func TestStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := seedUser(t, s, "a@x.com")
	b := seedUser(t, s, "b@x.com")
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())

	_, err := s.CreateUser(ctx, user.User{Email: "a@x.com"})
	require.ErrorIs(t, err, svcerrors.ErrDuplicateEmail)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2, "duplicate must not change the store size")
	assert.Equal(t, "a@x.com", users[0].Email)
	assert.Equal(t, "b@x.com", users[1].Email)

	c := seedUser(t, s, "c@x.com")
	assert.Equal(t, int64(3), c.ID, "rejected registration must not consume an id")

	_, err = s.GetUser(ctx, 99)
	require.ErrorIs(t, err, svcerrors.ErrNotFound)
	assert.Equal(t, "User not found", svcerrors.GetServiceError(err).Message)
}

func TestStore_UserPasswordHashIsCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := seedUser(t, s, "a@x.com")
	u.PasswordHash[0] = 'X'

	stored, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hash"), stored.PasswordHash)
}

func TestStore_PurchaseReferences(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.CreatePurchase(ctx, purchase.Purchase{UserID: 1, ItemName: "book", Price: 10})
	require.ErrorIs(t, err, svcerrors.ErrInvalidReference)
	assert.Equal(t, "Invalid or missing user_id", svcerrors.GetServiceError(err).Message)

	seedUser(t, s, "a@x.com")
	for i := 1; i <= 3; i++ {
		p, err := s.CreatePurchase(ctx, purchase.Purchase{UserID: 1, ItemName: "book", Price: 10, Paid: true})
		require.NoError(t, err)
		assert.Equal(t, int64(i), p.ID)
		assert.False(t, p.Paid, "new purchases start unpaid")

		count, err := s.CountPurchases(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	_, err = s.GetPurchase(ctx, 42)
	require.ErrorIs(t, err, svcerrors.ErrNotFound)
}

func TestStore_ListPurchasesFiltersByUser(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "a@x.com")
	seedUser(t, s, "b@x.com")

	for _, uid := range []int64{1, 2, 1, 2, 1} {
		_, err := s.CreatePurchase(ctx, purchase.Purchase{UserID: uid, ItemName: "item", Price: 1})
		require.NoError(t, err)
	}

	mine, err := s.ListPurchases(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, []int64{1, 3, 5}, []int64{mine[0].ID, mine[1].ID, mine[2].ID})

	all, err := s.ListPurchases(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := s.ListPurchases(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_PaymentMarksPurchasePaid(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "a@x.com")
	_, err := s.CreatePurchase(ctx, purchase.Purchase{UserID: 1, ItemName: "book", Price: 10})
	require.NoError(t, err)

	_, err = s.CreatePayment(ctx, payment.Payment{UserID: 1, PurchaseID: 9})
	require.ErrorIs(t, err, svcerrors.ErrInvalidReference)
	assert.Equal(t, "Invalid or missing purchase_id", svcerrors.GetServiceError(err).Message)

	pay, err := s.CreatePayment(ctx, payment.Payment{UserID: 1, PurchaseID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pay.ID)

	p, err := s.GetPurchase(ctx, 1)
	require.NoError(t, err)
	assert.True(t, p.Paid)
	assert.False(t, p.PaidAt.IsZero())

	_, err = s.CreatePayment(ctx, payment.Payment{UserID: 1, PurchaseID: 1})
	require.ErrorIs(t, err, svcerrors.ErrDuplicatePayment)

	p, err = s.GetPurchase(ctx, 1)
	require.NoError(t, err)
	assert.True(t, p.Paid, "purchase stays paid after a rejected payment")

	payments, err := s.ListPayments(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestStore_MarkPurchasePaidIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "a@x.com")
	_, err := s.CreatePurchase(ctx, purchase.Purchase{UserID: 1, ItemName: "pen", Price: 2})
	require.NoError(t, err)

	first, err := s.MarkPurchasePaid(ctx, 1)
	require.NoError(t, err)
	second, err := s.MarkPurchasePaid(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.PaidAt, second.PaidAt)

	_, err = s.MarkPurchasePaid(ctx, 2)
	require.ErrorIs(t, err, svcerrors.ErrNotFound)
}

func TestStore_PaidPurchaseStats(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "a@x.com")

	prices := []float64{10, 2.5, 7}
	for _, price := range prices {
		_, err := s.CreatePurchase(ctx, purchase.Purchase{UserID: 1, ItemName: "x", Price: price})
		require.NoError(t, err)
	}

	stats, err := s.PaidPurchaseStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, purchase.Stats{}, stats)

	for _, id := range []int64{1, 3} {
		_, err := s.CreatePayment(ctx, payment.Payment{UserID: 1, PurchaseID: id})
		require.NoError(t, err)
	}

	stats, err = s.PaidPurchaseStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 17.0, stats.Total, 1e-9)
}

func TestStore_ConcurrentPaymentsForOnePurchase(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "a@x.com")
	_, err := s.CreatePurchase(ctx, purchase.Purchase{UserID: 1, ItemName: "book", Price: 10})
	require.NoError(t, err)

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreatePayment(ctx, payment.Payment{UserID: 1, PurchaseID: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case svcerrors.GetServiceError(err) != nil && svcerrors.GetServiceError(err).Code == svcerrors.CodeDuplicatePayment:
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, dupes)
}

func TestStore_ConcurrentRegistrationsGetDenseIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateUser(ctx, user.User{Email: string(rune('a'+i%26)) + "@" + string(rune('a'+i/26)) + ".com"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, workers)
	for i, u := range users {
		assert.Equal(t, int64(i+1), u.ID)
	}
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "a@x.com")

	require.NoError(t, s.Reset(ctx))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	u := seedUser(t, s, "a@x.com")
	assert.Equal(t, int64(1), u.ID)
}
