package app

import (
	"context"
	"fmt"

	"github.com/R3E-Network/storefront/internal/app/metrics"
	"github.com/R3E-Network/storefront/internal/app/services/admin"
	"github.com/R3E-Network/storefront/internal/app/services/payments"
	"github.com/R3E-Network/storefront/internal/app/services/purchases"
	"github.com/R3E-Network/storefront/internal/app/services/users"
	"github.com/R3E-Network/storefront/internal/app/storage"
	"github.com/R3E-Network/storefront/internal/app/storage/memory"
	"github.com/R3E-Network/storefront/pkg/logger"
)

// Stores encapsulates persistence dependencies. Leave all nil to use a
// single in-memory store, or set all three. The cross-collection checks rely
// on the stores sharing one critical section, so mixing implementations is
// rejected.
type Stores struct {
	Users     storage.UserStore
	Purchases storage.PurchaseStore
	Payments  storage.PaymentStore
}

// Option customises application construction.
type Option func(*options)

type options struct {
	userOpts []users.Option
}

// WithPasswordCost sets the bcrypt cost used for new users.
func WithPasswordCost(cost int) Option {
	return func(o *options) {
		o.userOpts = append(o.userOpts, users.WithHashCost(cost))
	}
}

// Application ties domain services together.
type Application struct {
	log    *logger.Logger
	stores Stores

	Users     *users.Service
	Purchases *purchases.Service
	Payments  *payments.Service
	Admin     *admin.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger, opts ...Option) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch set := countSet(stores); set {
	case 0:
		mem := memory.New()
		stores = Stores{Users: mem, Purchases: mem, Payments: mem}
	case 3:
	default:
		return nil, fmt.Errorf("stores: %d of 3 configured; set all or none", set)
	}

	application := &Application{
		log:       log,
		stores:    stores,
		Users:     users.New(stores.Users, log.WithComponent("users"), o.userOpts...),
		Purchases: purchases.New(stores.Users, stores.Purchases, log.WithComponent("purchases")),
		Payments:  payments.New(stores.Users, stores.Purchases, stores.Payments, log.WithComponent("payments")),
		Admin:     admin.New(stores.Users, stores.Purchases, log.WithComponent("admin")),
	}
	// The paid-purchase gauges follow the most recently built application.
	metrics.SetPaidStatsSource(application.paidStats)
	return application, nil
}

func (a *Application) paidStats() (int, float64, error) {
	stats, err := a.Admin.PaidPurchaseStats(context.Background())
	if err != nil {
		return 0, 0, err
	}
	return stats.Count, stats.Total, nil
}

// Reset clears every store that supports it. Stores shared between
// collections are reset once.
func (a *Application) Reset(ctx context.Context) error {
	seen := make(map[storage.Resetter]bool, 3)
	for _, s := range []any{a.stores.Users, a.stores.Purchases, a.stores.Payments} {
		r, ok := s.(storage.Resetter)
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		if err := r.Reset(ctx); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
	}
	a.log.Info("application state reset")
	return nil
}

func countSet(s Stores) int {
	n := 0
	if s.Users != nil {
		n++
	}
	if s.Purchases != nil {
		n++
	}
	if s.Payments != nil {
		n++
	}
	return n
}
