package user

import "time"

// User is a registered store customer. Records are immutable once created.
type User struct {
	ID           int64
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
