package memory

import (
	"context"
	"sync"
	"time"

	"github.com/R3E-Network/storefront/internal/app/domain/payment"
	"github.com/R3E-Network/storefront/internal/app/domain/purchase"
	"github.com/R3E-Network/storefront/internal/app/domain/user"
	"github.com/R3E-Network/storefront/internal/app/storage"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
)

// Store is an in-memory implementation of the storage interfaces. A single
// lock covers all three collections so cross-collection checks and the
// writes that depend on them happen atomically.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	nextUserID     int64
	nextPurchaseID int64
	nextPaymentID  int64

	users     map[int64]user.User
	purchases map[int64]purchase.Purchase
	payments  map[int64]payment.Payment

	usersByEmail       map[string]int64
	paymentsByPurchase map[int64]int64
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.PurchaseStore = (*Store)(nil)
var _ storage.PaymentStore = (*Store)(nil)
var _ storage.Resetter = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.nextUserID = 1
	s.nextPurchaseID = 1
	s.nextPaymentID = 1
	s.users = make(map[int64]user.User)
	s.purchases = make(map[int64]purchase.Purchase)
	s.payments = make(map[int64]payment.Payment)
	s.usersByEmail = make(map[string]int64)
	s.paymentsByPurchase = make(map[int64]int64)
}

// Reset drops every record and restarts identifiers at 1.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return nil
}

// UserStore implementation ---------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[u.Email]; exists {
		return user.User{}, svcerrors.DuplicateEmail(u.Email)
	}

	u.ID = s.nextUserID
	s.nextUserID++
	u.CreatedAt = s.now()
	u.PasswordHash = cloneBytes(u.PasswordHash)

	s.users[u.ID] = u
	s.usersByEmail[u.Email] = u.ID
	return cloneUser(u), nil
}

func (s *Store) GetUser(_ context.Context, id int64) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, svcerrors.NotFound("User not found")
	}
	return cloneUser(u), nil
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0, len(s.users))
	for id := int64(1); id < s.nextUserID; id++ {
		if u, ok := s.users[id]; ok {
			result = append(result, cloneUser(u))
		}
	}
	return result, nil
}

// PurchaseStore implementation -----------------------------------------------

func (s *Store) CreatePurchase(_ context.Context, p purchase.Purchase) (purchase.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.UserID]; !ok {
		return purchase.Purchase{}, svcerrors.InvalidReference("user_id", p.UserID)
	}

	p.ID = s.nextPurchaseID
	s.nextPurchaseID++
	p.Paid = false
	p.PaidAt = time.Time{}
	p.CreatedAt = s.now()

	s.purchases[p.ID] = p
	return p, nil
}

func (s *Store) GetPurchase(_ context.Context, id int64) (purchase.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.purchases[id]
	if !ok {
		return purchase.Purchase{}, svcerrors.NotFound("Purchase not found")
	}
	return p, nil
}

func (s *Store) MarkPurchasePaid(_ context.Context, id int64) (purchase.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markPaidLocked(id)
}

func (s *Store) markPaidLocked(id int64) (purchase.Purchase, error) {
	p, ok := s.purchases[id]
	if !ok {
		return purchase.Purchase{}, svcerrors.NotFound("Purchase not found")
	}
	if p.Paid {
		return p, nil
	}
	p.Paid = true
	p.PaidAt = s.now()
	s.purchases[id] = p
	return p, nil
}

func (s *Store) ListPurchases(_ context.Context, userID int64) ([]purchase.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []purchase.Purchase
	for id := int64(1); id < s.nextPurchaseID; id++ {
		p, ok := s.purchases[id]
		if !ok || (userID != 0 && p.UserID != userID) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (s *Store) CountPurchases(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.purchases), nil
}

func (s *Store) PaidPurchaseStats(_ context.Context) (purchase.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats purchase.Stats
	for id := int64(1); id < s.nextPurchaseID; id++ {
		if p, ok := s.purchases[id]; ok && p.Paid {
			stats.Count++
			stats.Total += p.Price
		}
	}
	return stats, nil
}

// PaymentStore implementation ------------------------------------------------

func (s *Store) CreatePayment(_ context.Context, p payment.Payment) (payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.purchases[p.PurchaseID]; !ok {
		return payment.Payment{}, svcerrors.InvalidReference("purchase_id", p.PurchaseID)
	}
	if _, paid := s.paymentsByPurchase[p.PurchaseID]; paid {
		return payment.Payment{}, svcerrors.DuplicatePayment(p.PurchaseID)
	}

	p.ID = s.nextPaymentID
	s.nextPaymentID++
	p.CreatedAt = s.now()

	if _, err := s.markPaidLocked(p.PurchaseID); err != nil {
		return payment.Payment{}, err
	}
	s.payments[p.ID] = p
	s.paymentsByPurchase[p.PurchaseID] = p.ID
	return p, nil
}

func (s *Store) GetPayment(_ context.Context, id int64) (payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return payment.Payment{}, svcerrors.NotFound("Payment not found")
	}
	return p, nil
}

func (s *Store) ListPayments(_ context.Context, userID int64) ([]payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []payment.Payment
	for id := int64(1); id < s.nextPaymentID; id++ {
		p, ok := s.payments[id]
		if !ok || (userID != 0 && p.UserID != userID) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// helpers --------------------------------------------------------------------

func cloneUser(u user.User) user.User {
	u.PasswordHash = cloneBytes(u.PasswordHash)
	return u
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
