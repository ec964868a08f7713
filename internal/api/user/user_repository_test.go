package user

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tezga/tezga-server/internal/api"
)

func TestPostgresGetUserProfile(t *testing.T) {
	ctx := context.Background()

	profileColumns := []string{
		"id", "name", "email", "phone", "location", "tags", "description", "created_at",
	}

	newMockRepo := func(t *testing.T) (*PostgresUserRepo, pgxmock.PgxPoolIface) {
		t.Helper()
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		t.Cleanup(mockDB.Close)
		return NewPostgresUserRepo(mockDB, slog.Default()), mockDB
	}

	t.Run("Found", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)
		tags := `["wood","design"]`

		mockDB.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows(profileColumns).
				AddRow(int64(7), "Ana", "a@x.com", "060", "NS", &tags, (*string)(nil), time.Now()))

		profile, err := repo.GetUserProfile(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), profile.ID)
		assert.Equal(t, []string{"wood", "design"}, profile.Tags)
		assert.Nil(t, profile.Description)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("NullTagsColumn", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		mockDB.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows(profileColumns).
				AddRow(int64(7), "Ana", "a@x.com", "060", "NS", (*string)(nil), (*string)(nil), time.Now()))

		profile, err := repo.GetUserProfile(ctx, 7)
		require.NoError(t, err)
		assert.NotNil(t, profile.Tags)
		assert.Empty(t, profile.Tags)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		mockDB.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetUserProfile(ctx, 99)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})
}
