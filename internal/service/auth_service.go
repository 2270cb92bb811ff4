package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/observability/metrics"
	"github.com/aryan0dhankhar/claimledger/internal/security/auth"
)

// AuthService registers users and checks their credentials.
// It issues no tokens: a successful login just returns the account.
type AuthService struct {
	userRepo domain.UserRepository
	hasher   auth.Hasher
	now      func() time.Time
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo domain.UserRepository,
	hasher auth.Hasher,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		now:      time.Now,
		logger:   logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if err := requireNonEmpty(map[string]string{"username": username, "email": email, "password": password}); err != nil {
		return nil, err
	}

	// Advisory only; the store's unique index on email settles races.
	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		metrics.ObserveAuth("register", "duplicate")
		return nil, domain.ErrDuplicateEmail
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		metrics.ObserveAuth("register", "error")
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		metrics.ObserveAuth("register", "error")
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.ObserveAuth("register", "duplicate")
			return nil, err
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		metrics.ObserveAuth("register", "error")
		return nil, err
	}

	metrics.ObserveAuth("register", "success")
	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login returns the account for email if password verifies against its hash.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := requireNonEmpty(map[string]string{"email": email, "password": password}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same hashing cost as a wrong password.
			_ = s.hasher.Verify(s.dummy(), password)
			s.logger.Info("login attempt with unknown email", slog.String("email", email))
			metrics.ObserveAuth("login", "rejected")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.ObserveAuth("login", "error")
		return nil, err
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrMismatch) {
			s.logger.Warn("stored password hash unusable",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		metrics.ObserveAuth("login", "rejected")
		return nil, domain.ErrInvalidCredentials
	}

	metrics.ObserveAuth("login", "success")
	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// dummy returns a hash of a throwaway password, computed once with the
// service's hasher so it carries the same cost as real hashes.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("claimledger-unknown-user")
		if err != nil {
			s.logger.Warn("failed to prepare dummy hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// requireNonEmpty names every empty field, sorted.
func requireNonEmpty(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s", domain.ErrMissingField, strings.Join(missing, ", "))
}
