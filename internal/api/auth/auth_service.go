package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tezga/tezga-server/app/observability/metrics"
	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/types"
)

const minPasswordLength = 6

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService orchestrates registration and login: validate, hash, persist,
// mint a token. It defines the identity-claim contract consumed by the
// protected endpoints.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	codec  *TokenCodec
}

func NewAuthService(repo AuthRepo, codec *TokenCodec, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		codec:  codec,
	}
}

// validateRegistration reports the first violated field, matching the order
// the fields appear in the request.
func validateRegistration(req RegisterRequest) error {
	required := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"password", req.Password},
		{"phone", req.Phone},
		{"location", req.Location},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", api.ErrBadRequest, f.field)
		}
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", api.ErrBadRequest, minPasswordLength)
	}
	return nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	l := s.logger.With(slog.String("method", "Register"))
	start := time.Now()
	m := metrics.Get()

	if err := validateRegistration(req); err != nil {
		m.RegisterRequestsTotal.Add(ctx, 1, metrics.StatusAttr("invalid"))
		return nil, err
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		l.ErrorContext(ctx, "Password hashing failed", slog.Any("error", err))
		m.RegisterRequestsTotal.Add(ctx, 1, metrics.StatusAttr("error"))
		return nil, fmt.Errorf("failed to process credentials: %w", api.ErrInternal)
	}

	user := &types.UserAuth{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Location:     req.Location,
		Tags:         req.Tags,
		Description:  req.Description,
	}

	// The insert must complete before token issuance so the claim carries
	// the store-assigned id.
	userID, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			m.RegisterRequestsTotal.Add(ctx, 1, metrics.StatusAttr("conflict"))
			return nil, err
		}
		m.RegisterRequestsTotal.Add(ctx, 1, metrics.StatusAttr("error"))
		return nil, err
	}

	token, err := s.codec.IssueToken(userID, user.Email)
	if err != nil {
		l.ErrorContext(ctx, "Token issuance failed after registration", slog.Int64("userID", userID), slog.Any("error", err))
		m.RegisterRequestsTotal.Add(ctx, 1, metrics.StatusAttr("error"))
		return nil, fmt.Errorf("failed to issue token: %w", api.ErrInternal)
	}

	l.InfoContext(ctx, "User registered", slog.Int64("userID", userID))
	m.RegisterRequestsTotal.Add(ctx, 1, metrics.StatusAttr("ok"))
	m.RegisterDurationSeconds.Record(ctx, time.Since(start).Seconds())

	return &RegisterResponse{
		Token: token,
		User: PublicUser{
			ID:    userID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	l := s.logger.With(slog.String("method", "Login"))
	m := metrics.Get()

	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", api.ErrBadRequest)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", api.ErrBadRequest)
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			// Same error as a wrong password so the response cannot be
			// used to enumerate accounts.
			m.LoginRequestsTotal.Add(ctx, 1, metrics.StatusAttr("denied"))
			return nil, fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
		}
		m.LoginRequestsTotal.Add(ctx, 1, metrics.StatusAttr("error"))
		return nil, err
	}

	if !CheckPassword(req.Password, user.PasswordHash) {
		m.LoginRequestsTotal.Add(ctx, 1, metrics.StatusAttr("denied"))
		return nil, fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	}

	token, err := s.codec.IssueToken(user.ID, user.Email)
	if err != nil {
		l.ErrorContext(ctx, "Token issuance failed after login", slog.Int64("userID", user.ID), slog.Any("error", err))
		m.LoginRequestsTotal.Add(ctx, 1, metrics.StatusAttr("error"))
		return nil, fmt.Errorf("failed to issue token: %w", api.ErrInternal)
	}

	l.InfoContext(ctx, "User logged in", slog.Int64("userID", user.ID))
	m.LoginRequestsTotal.Add(ctx, 1, metrics.StatusAttr("ok"))

	return &LoginResponse{
		Token: token,
		User: types.UserProfile{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Phone:       user.Phone,
			Location:    user.Location,
			Tags:        user.Tags,
			Description: user.Description,
			CreatedAt:   user.CreatedAt,
		},
	}, nil
}
