package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/R3E-Network/storefront/internal/app/domain/user"
	"github.com/R3E-Network/storefront/internal/app/metrics"
	"github.com/R3E-Network/storefront/internal/app/storage"
	"github.com/R3E-Network/storefront/internal/app/validation"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/pkg/logger"
)

const kind = "user"

// Service registers and looks up users.
type Service struct {
	store    storage.UserStore
	log      *logger.Logger
	hashCost int
}

// Option customises a Service.
type Option func(*Service)

// WithHashCost sets the bcrypt cost. Values outside bcrypt's range fall back
// to bcrypt.DefaultCost.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.hashCost = cost
		}
	}
}

// New constructs a user service.
func New(store storage.UserStore, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	s := &Service{store: store, log: log, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user. The password is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, in validation.UserRegistration) (user.User, error) {
	if err := validation.Validate(in); err != nil {
		return user.User{}, s.reject(validation.AsServiceError(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return user.User{}, s.reject(svcerrors.Validation("Invalid request body", []validation.FieldError{{
				Field:   "password",
				Message: "ensure this value has at most 72 bytes",
				Type:    "value_error.any_str.max_length",
			}}))
		}
		return user.User{}, s.reject(svcerrors.Internal("hash password", err))
	}

	u, err := s.store.CreateUser(ctx, user.User{Email: in.Email, PasswordHash: hash})
	if err != nil {
		return user.User{}, s.reject(err)
	}

	metrics.RecordRegistration(kind)
	s.log.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Get returns a user by identifier.
func (s *Service) Get(ctx context.Context, id int64) (user.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) reject(err error) error {
	metrics.RecordRejection(kind, string(svcerrors.CodeOf(err)))
	entry := s.log.WithError(err)
	if svcerrors.IsInternal(err) {
		entry.Error("user registration failed")
		return err
	}
	entry.Debug("user registration rejected")
	return err
}
