package admin

import (
	"context"

	"github.com/R3E-Network/storefront/internal/app/domain/purchase"
	"github.com/R3E-Network/storefront/internal/app/domain/user"
	"github.com/R3E-Network/storefront/internal/app/storage"
	"github.com/R3E-Network/storefront/pkg/logger"
)

// Service answers aggregate queries across the stores. Every figure is
// recomputed from the stores on each call.
type Service struct {
	users     storage.UserStore
	purchases storage.PurchaseStore
	log       *logger.Logger
}

// New constructs an admin service.
func New(users storage.UserStore, purchases storage.PurchaseStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("admin")
	}
	return &Service{users: users, purchases: purchases, log: log}
}

// PaidPurchaseStats returns the number and total price of paid purchases.
func (s *Service) PaidPurchaseStats(ctx context.Context) (purchase.Stats, error) {
	return s.purchases.PaidPurchaseStats(ctx)
}

// TotalPurchaseCount returns the number of purchases, paid or not.
func (s *Service) TotalPurchaseCount(ctx context.Context) (int, error) {
	return s.purchases.CountPurchases(ctx)
}

// Users returns every user in identifier order.
func (s *Service) Users(ctx context.Context) ([]user.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("listed %d users", len(users))
	return users, nil
}
