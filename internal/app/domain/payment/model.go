package payment

import "time"

// Payment settles a single purchase. UserID is denormalised from the request.
type Payment struct {
	ID         int64
	UserID     int64
	PurchaseID int64
	CreatedAt  time.Time
}
