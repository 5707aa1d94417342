package payments

import (
	"context"

	"github.com/R3E-Network/storefront/internal/app/domain/payment"
	"github.com/R3E-Network/storefront/internal/app/metrics"
	"github.com/R3E-Network/storefront/internal/app/services/ownership"
	"github.com/R3E-Network/storefront/internal/app/storage"
	"github.com/R3E-Network/storefront/internal/app/validation"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/pkg/logger"
)

const (
	kind        = "payment"
	notFoundMsg = "Payment not found"
)

// Service registers payments, which settle purchases, and serves them back
// to their owners.
type Service struct {
	purchases storage.PurchaseStore
	store     storage.PaymentStore
	owners    *ownership.Checker
	log       *logger.Logger
}

// New constructs a payment service.
func New(users storage.UserStore, purchases storage.PurchaseStore, store storage.PaymentStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("payments")
	}
	return &Service{
		purchases: purchases,
		store:     store,
		owners:    ownership.New(users),
		log:       log,
	}
}

// Register pays for a purchase. The purchase must exist and must not already
// be paid; the payment and the purchase's paid flag are committed together.
func (s *Service) Register(ctx context.Context, in validation.PaymentRegistration) (payment.Payment, error) {
	if err := validation.Validate(in); err != nil {
		return payment.Payment{}, s.reject(validation.AsServiceError(err))
	}

	p, err := s.store.CreatePayment(ctx, payment.Payment{
		UserID:     in.UserID,
		PurchaseID: in.PurchaseID,
	})
	if err != nil {
		return payment.Payment{}, s.reject(err)
	}

	metrics.RecordRegistration(kind)
	entry := s.log.WithField("payment_id", p.ID).
		WithField("purchase_id", p.PurchaseID).
		WithField("user_id", p.UserID)
	if settled, err := s.purchases.GetPurchase(ctx, p.PurchaseID); err == nil {
		entry = entry.WithField("amount", settled.Price)
	}
	entry.Info("payment registered")
	return p, nil
}

// Get returns payment id if callerID owns it.
func (s *Service) Get(ctx context.Context, callerID, id int64) (payment.Payment, error) {
	if _, err := s.owners.Caller(ctx, callerID); err != nil {
		return payment.Payment{}, err
	}
	return ownership.Lookup(ctx, s.store.GetPayment, ownerOf, id, callerID, notFoundMsg)
}

// ListForUser returns the caller's payments in identifier order.
func (s *Service) ListForUser(ctx context.Context, callerID int64) ([]payment.Payment, error) {
	if _, err := s.owners.Caller(ctx, callerID); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, callerID)
}

func ownerOf(p payment.Payment) int64 { return p.UserID }

func (s *Service) reject(err error) error {
	metrics.RecordRejection(kind, string(svcerrors.CodeOf(err)))
	entry := s.log.WithError(err)
	if svcerrors.IsInternal(err) {
		entry.Error("payment registration failed")
		return err
	}
	entry.Debug("payment registration rejected")
	return err
}
