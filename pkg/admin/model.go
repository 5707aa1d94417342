// Package admin provides the response types of the administrative
// endpoints.
package admin

import "time"

// PaidPurchases is the body of GET /admin/paid_purchases. PaidPurchasesCount
// repeats Count under the key older clients read.
type PaidPurchases struct {
	Count              int     `json:"count"`
	Total              float64 `json:"total"`
	PaidPurchasesCount int     `json:"paid_purchases_count"`
}

// PurchaseCount is the body of GET /admin/total_purchases.
type PurchaseCount struct {
	Count int `json:"count"`
}

// Record kinds reported in AuditEntry.Kind.
const (
	KindUser     = "user"
	KindPurchase = "purchase"
	KindPayment  = "payment"
)

// AuditEntry records one registration attempt. CallerID is the x_user_id
// header when the client sent a valid one. UserID and RecordID are set only
// when the record was created.
type AuditEntry struct {
	Time       time.Time `json:"time"`
	TraceID    string    `json:"trace_id,omitempty"`
	Kind       string    `json:"kind"`
	CallerID   int64     `json:"caller_id,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	RecordID   int64     `json:"record_id,omitempty"`
	Status     int       `json:"status"`
	Code       string    `json:"code,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}

// AuditLog is the body of GET /admin/audit.
type AuditLog struct {
	Entries []AuditEntry `json:"entries"`
}
