package httpapi

import (
	"time"

	"github.com/R3E-Network/storefront/internal/app/domain/payment"
	"github.com/R3E-Network/storefront/internal/app/domain/purchase"
	"github.com/R3E-Network/storefront/internal/app/domain/user"
	"github.com/R3E-Network/storefront/pkg/api"
)

func userView(u user.User) api.User {
	return api.User{UserID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func purchaseView(p purchase.Purchase) api.Purchase {
	v := api.Purchase{
		PurchaseID: p.ID,
		UserID:     p.UserID,
		ItemName:   p.ItemName,
		Price:      p.Price,
		Paid:       p.Paid,
		CreatedAt:  p.CreatedAt,
	}
	if p.Paid && !p.PaidAt.IsZero() {
		paidAt := p.PaidAt
		v.PaidAt = &paidAt
	}
	return v
}

func paymentView(p payment.Payment) api.Payment {
	return api.Payment{
		PaymentID:  p.ID,
		UserID:     p.UserID,
		PurchaseID: p.PurchaseID,
		CreatedAt:  p.CreatedAt,
	}
}

func usersByID(users []user.User) map[int64]api.User {
	out := make(map[int64]api.User, len(users))
	for _, u := range users {
		out[u.ID] = userView(u)
	}
	return out
}

func purchasesByID(purchases []purchase.Purchase) map[int64]api.Purchase {
	out := make(map[int64]api.Purchase, len(purchases))
	for _, p := range purchases {
		out[p.ID] = purchaseView(p)
	}
	return out
}

func paymentsByID(payments []payment.Payment) map[int64]api.Payment {
	out := make(map[int64]api.Payment, len(payments))
	for _, p := range payments {
		out[p.ID] = paymentView(p)
	}
	return out
}

func nowUTC() time.Time { return time.Now().UTC() }
