package storage

import (
	"context"

	"github.com/R3E-Network/storefront/internal/app/domain/payment"
	"github.com/R3E-Network/storefront/internal/app/domain/purchase"
	"github.com/R3E-Network/storefront/internal/app/domain/user"
)

// UserStore persists user records.
type UserStore interface {
	// CreateUser assigns the next identifier. Fails with DUPLICATE_EMAIL if
	// another user already has the email.
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id int64) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

// PurchaseStore persists purchase records.
type PurchaseStore interface {
	// CreatePurchase fails with INVALID_REFERENCE if p.UserID is unknown.
	CreatePurchase(ctx context.Context, p purchase.Purchase) (purchase.Purchase, error)
	GetPurchase(ctx context.Context, id int64) (purchase.Purchase, error)
	MarkPurchasePaid(ctx context.Context, id int64) (purchase.Purchase, error)
	// ListPurchases returns purchases in identifier order. A zero userID
	// lists every purchase.
	ListPurchases(ctx context.Context, userID int64) ([]purchase.Purchase, error)
	CountPurchases(ctx context.Context) (int, error)
	PaidPurchaseStats(ctx context.Context) (purchase.Stats, error)
}

// PaymentStore persists payment records.
type PaymentStore interface {
	// CreatePayment fails with INVALID_REFERENCE if the purchase is unknown
	// and DUPLICATE_PAYMENT if it is already paid. On success the purchase is
	// marked paid in the same critical section.
	CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error)
	GetPayment(ctx context.Context, id int64) (payment.Payment, error)
	// ListPayments returns payments in identifier order. A zero userID lists
	// every payment.
	ListPayments(ctx context.Context, userID int64) ([]payment.Payment, error)
}

// Resetter is implemented by stores that can drop all records.
type Resetter interface {
	Reset(ctx context.Context) error
}
