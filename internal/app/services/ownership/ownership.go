// Package ownership enforces that per-user records are only visible to the
// user who owns them. A record owned by someone else is reported exactly like
// a missing one.
package ownership

import (
	"context"

	"github.com/R3E-Network/storefront/internal/app/domain/user"
	"github.com/R3E-Network/storefront/internal/app/storage"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
)

// Checker resolves caller identities against the user store.
type Checker struct {
	users storage.UserStore
}

// New constructs a checker.
func New(users storage.UserStore) *Checker {
	return &Checker{users: users}
}

// Caller returns the user behind callerID, or NOT_FOUND "User not found".
func (c *Checker) Caller(ctx context.Context, callerID int64) (user.User, error) {
	if callerID < 1 {
		return user.User{}, svcerrors.NotFound("User not found")
	}
	u, err := c.users.GetUser(ctx, callerID)
	if err != nil {
		if svcerrors.CodeOf(err) == svcerrors.CodeNotFound {
			return user.User{}, svcerrors.NotFound("User not found")
		}
		return user.User{}, err
	}
	return u, nil
}

// Owned returns nil when ownerID is callerID. Otherwise it returns
// NOT_FOUND with notFoundMsg.
func Owned(ownerID, callerID int64, notFoundMsg string) error {
	if ownerID != callerID {
		return svcerrors.NotFound(notFoundMsg)
	}
	return nil
}

// Lookup fetches a record with get and applies the ownership rule. Any
// NOT_FOUND from get is rewritten to notFoundMsg so both cases read the same.
func Lookup[T any](ctx context.Context, get func(context.Context, int64) (T, error), owner func(T) int64, id, callerID int64, notFoundMsg string) (T, error) {
	var zero T
	rec, err := get(ctx, id)
	if err != nil {
		if svcerrors.CodeOf(err) == svcerrors.CodeNotFound {
			return zero, svcerrors.NotFound(notFoundMsg)
		}
		return zero, err
	}
	if err := Owned(owner(rec), callerID, notFoundMsg); err != nil {
		return zero, err
	}
	return rec, nil
}
