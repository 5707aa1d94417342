// Package testutil provides store doubles for exercising failure paths.
package testutil

import (
	"context"
	"sync"

	"github.com/R3E-Network/storefront/internal/app/domain/payment"
	"github.com/R3E-Network/storefront/internal/app/domain/purchase"
	"github.com/R3E-Network/storefront/internal/app/domain/user"
	"github.com/R3E-Network/storefront/internal/app/storage"
	"github.com/R3E-Network/storefront/internal/app/storage/memory"
)

// Operation names accepted by FaultyStore.Fail.
const (
	OpCreateUser        = "CreateUser"
	OpGetUser           = "GetUser"
	OpListUsers         = "ListUsers"
	OpCreatePurchase    = "CreatePurchase"
	OpGetPurchase       = "GetPurchase"
	OpMarkPurchasePaid  = "MarkPurchasePaid"
	OpListPurchases     = "ListPurchases"
	OpCountPurchases    = "CountPurchases"
	OpPaidPurchaseStats = "PaidPurchaseStats"
	OpCreatePayment     = "CreatePayment"
	OpGetPayment        = "GetPayment"
	OpListPayments      = "ListPayments"
)

var (
	_ storage.UserStore     = (*FaultyStore)(nil)
	_ storage.PurchaseStore = (*FaultyStore)(nil)
	_ storage.PaymentStore  = (*FaultyStore)(nil)
	_ storage.Resetter      = (*FaultyStore)(nil)
)

// FaultyStore delegates to an in-memory store but returns a configured error
// for selected operations.
type FaultyStore struct {
	*memory.Store

	mu   sync.Mutex
	errs map[string]error
}

// NewFaultyStore returns a store with no faults configured.
func NewFaultyStore() *FaultyStore {
	return &FaultyStore{Store: memory.New(), errs: make(map[string]error)}
}

// Fail makes every later call to op return err. A nil err clears the fault.
func (s *FaultyStore) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, op)
		return
	}
	s.errs[op] = err
}

func (s *FaultyStore) fault(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[op]
}

// Stores returns the store in all three roles.
func (s *FaultyStore) Stores() (storage.UserStore, storage.PurchaseStore, storage.PaymentStore) {
	return s, s, s
}

func (s *FaultyStore) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if err := s.fault(OpCreateUser); err != nil {
		return user.User{}, err
	}
	return s.Store.CreateUser(ctx, u)
}

func (s *FaultyStore) GetUser(ctx context.Context, id int64) (user.User, error) {
	if err := s.fault(OpGetUser); err != nil {
		return user.User{}, err
	}
	return s.Store.GetUser(ctx, id)
}

func (s *FaultyStore) ListUsers(ctx context.Context) ([]user.User, error) {
	if err := s.fault(OpListUsers); err != nil {
		return nil, err
	}
	return s.Store.ListUsers(ctx)
}

func (s *FaultyStore) CreatePurchase(ctx context.Context, p purchase.Purchase) (purchase.Purchase, error) {
	if err := s.fault(OpCreatePurchase); err != nil {
		return purchase.Purchase{}, err
	}
	return s.Store.CreatePurchase(ctx, p)
}

func (s *FaultyStore) GetPurchase(ctx context.Context, id int64) (purchase.Purchase, error) {
	if err := s.fault(OpGetPurchase); err != nil {
		return purchase.Purchase{}, err
	}
	return s.Store.GetPurchase(ctx, id)
}

func (s *FaultyStore) MarkPurchasePaid(ctx context.Context, id int64) (purchase.Purchase, error) {
	if err := s.fault(OpMarkPurchasePaid); err != nil {
		return purchase.Purchase{}, err
	}
	return s.Store.MarkPurchasePaid(ctx, id)
}

func (s *FaultyStore) ListPurchases(ctx context.Context, userID int64) ([]purchase.Purchase, error) {
	if err := s.fault(OpListPurchases); err != nil {
		return nil, err
	}
	return s.Store.ListPurchases(ctx, userID)
}

func (s *FaultyStore) CountPurchases(ctx context.Context) (int, error) {
	if err := s.fault(OpCountPurchases); err != nil {
		return 0, err
	}
	return s.Store.CountPurchases(ctx)
}

func (s *FaultyStore) PaidPurchaseStats(ctx context.Context) (purchase.Stats, error) {
	if err := s.fault(OpPaidPurchaseStats); err != nil {
		return purchase.Stats{}, err
	}
	return s.Store.PaidPurchaseStats(ctx)
}

func (s *FaultyStore) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	if err := s.fault(OpCreatePayment); err != nil {
		return payment.Payment{}, err
	}
	return s.Store.CreatePayment(ctx, p)
}

func (s *FaultyStore) GetPayment(ctx context.Context, id int64) (payment.Payment, error) {
	if err := s.fault(OpGetPayment); err != nil {
		return payment.Payment{}, err
	}
	return s.Store.GetPayment(ctx, id)
}

func (s *FaultyStore) ListPayments(ctx context.Context, userID int64) ([]payment.Payment, error) {
	if err := s.fault(OpListPayments); err != nil {
		return nil, err
	}
	return s.Store.ListPayments(ctx, userID)
}
