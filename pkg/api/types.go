// Package api defines the JSON bodies exchanged with the storefront HTTP
// API. Both the server handlers and the Go client use these types.
package api

import "time"

// Success messages returned on registration.
const (
	MsgUserRegistered     = "User registered successfully"
	MsgPurchaseRegistered = "Purchase registered successfully"
	MsgPaymentRegistered  = "Payment registered successfully"
)

// RegisterUserRequest is the body of POST /users.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserResponse acknowledges a new user.
type RegisterUserResponse struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// User is a user record as exposed over HTTP. The password is never
// returned.
type User struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterPurchaseRequest is the body of POST /purchases.
type RegisterPurchaseRequest struct {
	UserID   int64   `json:"user_id"`
	ItemName string  `json:"item_name"`
	Price    float64 `json:"price"`
}

// Purchase is a purchase record.
type Purchase struct {
	PurchaseID int64      `json:"purchase_id"`
	UserID     int64      `json:"user_id"`
	ItemName   string     `json:"item_name"`
	Price      float64    `json:"price"`
	Paid       bool       `json:"paid"`
	CreatedAt  time.Time  `json:"created_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
}

// RegisterPurchaseResponse acknowledges a new purchase.
type RegisterPurchaseResponse struct {
	PurchaseID int64   `json:"purchase_id"`
	UserID     int64   `json:"user_id"`
	ItemName   string  `json:"item_name"`
	Price      float64 `json:"price"`
	Paid       bool    `json:"paid"`
	Message    string  `json:"message"`
}

// RegisterPaymentRequest is the body of POST /payments.
type RegisterPaymentRequest struct {
	UserID     int64 `json:"user_id"`
	PurchaseID int64 `json:"purchase_id"`
}

// Payment is a payment record.
type Payment struct {
	PaymentID  int64     `json:"payment_id"`
	UserID     int64     `json:"user_id"`
	PurchaseID int64     `json:"purchase_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegisterPaymentResponse acknowledges a new payment.
type RegisterPaymentResponse struct {
	PaymentID  int64  `json:"payment_id"`
	UserID     int64  `json:"user_id"`
	PurchaseID int64  `json:"purchase_id"`
	Message    string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and human-readable message.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	TraceID string         `json:"trace_id,omitempty"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status string `json:"status"`
}
