package purchase

import "time"

// Purchase records an item bought by a user. Paid flips from false to true
// exactly once, when a payment referencing the purchase is registered.
type Purchase struct {
	ID        int64
	UserID    int64
	ItemName  string
	Price     float64
	Paid      bool
	CreatedAt time.Time
	PaidAt    time.Time
}

// Stats summarises paid purchases.
type Stats struct {
	Count int
	Total float64
}
