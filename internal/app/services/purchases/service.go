package purchases

import (
	"context"

	"github.com/R3E-Network/storefront/internal/app/domain/purchase"
	"github.com/R3E-Network/storefront/internal/app/metrics"
	"github.com/R3E-Network/storefront/internal/app/services/ownership"
	"github.com/R3E-Network/storefront/internal/app/storage"
	"github.com/R3E-Network/storefront/internal/app/validation"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/pkg/logger"
)

const (
	kind        = "purchase"
	notFoundMsg = "Purchase not found"
)

// Service registers purchases and serves them back to their owners.
type Service struct {
	store  storage.PurchaseStore
	owners *ownership.Checker
	log    *logger.Logger
}

// New constructs a purchase service.
func New(users storage.UserStore, store storage.PurchaseStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("purchases")
	}
	return &Service{
		store:  store,
		owners: ownership.New(users),
		log:    log,
	}
}

// Register records an unpaid purchase for an existing user.
func (s *Service) Register(ctx context.Context, in validation.PurchaseRegistration) (purchase.Purchase, error) {
	if err := validation.Validate(in); err != nil {
		return purchase.Purchase{}, s.reject(validation.AsServiceError(err))
	}

	p, err := s.store.CreatePurchase(ctx, purchase.Purchase{
		UserID:   in.UserID,
		ItemName: in.ItemName,
		Price:    in.Price,
	})
	if err != nil {
		return purchase.Purchase{}, s.reject(err)
	}

	metrics.RecordRegistration(kind)
	s.log.WithField("purchase_id", p.ID).
		WithField("user_id", p.UserID).
		Info("purchase registered")
	return p, nil
}

// Get returns purchase id if callerID owns it.
func (s *Service) Get(ctx context.Context, callerID, id int64) (purchase.Purchase, error) {
	if _, err := s.owners.Caller(ctx, callerID); err != nil {
		return purchase.Purchase{}, err
	}
	return ownership.Lookup(ctx, s.store.GetPurchase, ownerOf, id, callerID, notFoundMsg)
}

// ListForUser returns the caller's purchases in identifier order.
func (s *Service) ListForUser(ctx context.Context, callerID int64) ([]purchase.Purchase, error) {
	if _, err := s.owners.Caller(ctx, callerID); err != nil {
		return nil, err
	}
	return s.store.ListPurchases(ctx, callerID)
}

func ownerOf(p purchase.Purchase) int64 { return p.UserID }

func (s *Service) reject(err error) error {
	metrics.RecordRejection(kind, string(svcerrors.CodeOf(err)))
	entry := s.log.WithError(err)
	if svcerrors.IsInternal(err) {
		entry.Error("purchase registration failed")
		return err
	}
	entry.Debug("purchase registration rejected")
	return err
}
