package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tezga/tezga-server/app/observability/metrics"
	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/types"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, user *types.UserAuth) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, id int64) (*types.UserAuth, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func newTestService(t *testing.T, repo AuthRepo) (*AuthServiceImpl, *TokenCodec) {
	t.Helper()
	codec, err := NewTokenCodec(testJWTConfig())
	require.NoError(t, err)
	return NewAuthService(repo, codec, slog.Default()), codec
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Name:     "Ana",
		Email:    "a@x.com",
		Password: "secret1",
		Phone:    "060",
		Location: "NS",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service, codec := newTestService(t, mockRepo)

		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*types.UserAuth")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*types.UserAuth)
				// Password must already be hashed before the store sees it
				assert.NotEqual(t, "secret1", u.PasswordHash)
				assert.True(t, CheckPassword("secret1", u.PasswordHash))
				u.ID = 7
				u.CreatedAt = time.Now()
			}).
			Return(int64(7), nil).Once()

		resp, err := service.Register(ctx, validRegisterRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.User.ID)
		assert.Equal(t, "Ana", resp.User.Name)
		assert.Equal(t, "a@x.com", resp.User.Email)

		// Token claim carries the store-assigned id
		claims, err := codec.VerifyToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, "a@x.com", claims.Email)

		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service, _ := newTestService(t, mockRepo)

		cases := []struct {
			field  string
			mutate func(*RegisterRequest)
		}{
			{"name", func(r *RegisterRequest) { r.Name = "" }},
			{"email", func(r *RegisterRequest) { r.Email = "" }},
			{"password", func(r *RegisterRequest) { r.Password = "" }},
			{"phone", func(r *RegisterRequest) { r.Phone = "" }},
			{"location", func(r *RegisterRequest) { r.Location = "" }},
		}
		for _, tc := range cases {
			req := validRegisterRequest()
			tc.mutate(&req)

			_, err := service.Register(ctx, req)
			assert.ErrorIs(t, err, api.ErrBadRequest)
			assert.Contains(t, err.Error(), tc.field)
		}
		// No store call for invalid input
		mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service, _ := newTestService(t, mockRepo)

		req := validRegisterRequest()
		req.Password = "abc12"

		_, err := service.Register(ctx, req)
		assert.ErrorIs(t, err, api.ErrBadRequest)
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service, _ := newTestService(t, mockRepo)

		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*types.UserAuth")).
			Return(int64(0), fmt.Errorf("email already registered: %w", api.ErrConflict)).Once()

		_, err := service.Register(ctx, validRegisterRequest())
		assert.ErrorIs(t, err, api.ErrConflict)
		mockRepo.AssertExpectations(t)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service, _ := newTestService(t, mockRepo)

		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*types.UserAuth")).
			Return(int64(0), errors.New("connection refused")).Once()

		_, err := service.Register(ctx, validRegisterRequest())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, api.ErrConflict)
		assert.NotErrorIs(t, err, api.ErrBadRequest)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	storedUser := func(t *testing.T, password string) *types.UserAuth {
		t.Helper()
		hash, err := HashPassword(password)
		require.NoError(t, err)
		return &types.UserAuth{
			ID:           7,
			Name:         "Ana",
			Email:        "a@x.com",
			PasswordHash: hash,
			Phone:        "060",
			Location:     "NS",
			Tags:         []string{"wood", "design"},
			CreatedAt:    time.Now(),
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service, codec := newTestService(t, mockRepo)

		mockRepo.On("GetUserByEmail", ctx, "a@x.com").Return(storedUser(t, "secret1"), nil).Once()

		resp, err := service.Login(ctx, LoginRequest{Email: "a@x.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.User.ID)
		assert.Equal(t, []string{"wood", "design"}, resp.User.Tags)
		assert.Empty(t, resp.User.PasswordHash)

		claims, err := codec.VerifyToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service, _ := newTestService(t, mockRepo)

		_, err := service.Login(ctx, LoginRequest{Password: "secret1"})
		assert.ErrorIs(t, err, api.ErrBadRequest)

		_, err = service.Login(ctx, LoginRequest{Email: "a@x.com"})
		assert.ErrorIs(t, err, api.ErrBadRequest)
	})

	t.Run("UnknownEmailAndWrongPasswordIndistinguishable", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service, _ := newTestService(t, mockRepo)

		mockRepo.On("GetUserByEmail", ctx, "missing@x.com").
			Return(nil, fmt.Errorf("user not found: %w", api.ErrNotFound)).Once()
		mockRepo.On("GetUserByEmail", ctx, "a@x.com").Return(storedUser(t, "secret1"), nil).Once()

		_, errUnknown := service.Login(ctx, LoginRequest{Email: "missing@x.com", Password: "secret1"})
		_, errWrongPw := service.Login(ctx, LoginRequest{Email: "a@x.com", Password: "wrong-password"})

		require.Error(t, errUnknown)
		require.Error(t, errWrongPw)
		assert.ErrorIs(t, errUnknown, api.ErrUnauthenticated)
		assert.ErrorIs(t, errWrongPw, api.ErrUnauthenticated)
		// Identical error text: no account enumeration oracle
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	})
}
