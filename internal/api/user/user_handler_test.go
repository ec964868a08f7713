package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/api/auth"
	"github.com/tezga/tezga-server/internal/types"
)

// MockUserService is a mock implementation of the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func getProfile(handler *HandlerImpl, userID *int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	if userID != nil {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, *userID)
		req = req.WithContext(ctx)
	}
	rr := httptest.NewRecorder()
	handler.GetUserProfile(rr, req)
	return rr
}

func TestGetUserProfileHandler(t *testing.T) {
	userID := int64(7)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewHandlerImpl(mockService, slog.Default())

		mockService.On("GetUserProfile", mock.Anything, userID).Return(testProfile(), nil).Once()

		rr := getProfile(handler, &userID)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"a@x.com"`)
		// Sanitized view: nothing credential-shaped leaves the handler
		assert.NotContains(t, rr.Body.String(), "password")
		mockService.AssertExpectations(t)
	})

	t.Run("NoAuthContext", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewHandlerImpl(mockService, slog.Default())

		rr := getProfile(handler, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockService.AssertNotCalled(t, "GetUserProfile", mock.Anything, mock.Anything)
	})

	t.Run("AccountGone", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewHandlerImpl(mockService, slog.Default())

		mockService.On("GetUserProfile", mock.Anything, userID).
			Return(nil, fmt.Errorf("user not found: %w", api.ErrNotFound)).Once()

		rr := getProfile(handler, &userID)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewHandlerImpl(mockService, slog.Default())

		mockService.On("GetUserProfile", mock.Anything, userID).
			Return(nil, fmt.Errorf("database error fetching profile: %w", context.DeadlineExceeded)).Once()

		rr := getProfile(handler, &userID)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
