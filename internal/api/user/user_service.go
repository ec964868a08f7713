package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tezga/tezga-server/internal/types"
)

const profileCacheTTL = 5 * time.Minute

var _ UserService = (*UserServiceImpl)(nil)

type UserService interface {
	GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error)
}

// UserServiceImpl serves profile reads through a small in-process cache.
// Records are immutable after creation, so no invalidation path is needed;
// the TTL only bounds memory.
type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	cache  *cache.Cache
}

func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(profileCacheTTL, 10*time.Minute),
	}
}

func (s *UserServiceImpl) GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	key := fmt.Sprintf("profile:%d", userID)
	if cached, found := s.cache.Get(key); found {
		if profile, ok := cached.(*types.UserProfile); ok {
			s.logger.DebugContext(ctx, "Profile cache hit", slog.Int64("userID", userID))
			return profile, nil
		}
	}

	profile, err := s.repo.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, profile, cache.DefaultExpiration)
	return profile, nil
}
