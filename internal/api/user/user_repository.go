package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/tezga/tezga-server/app/observability/metrics"
	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/types"
)

// PGXQuerier is the subset of pgxpool.Pool this repository needs.
type PGXQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ UserRepo = (*PostgresUserRepo)(nil)

type UserRepo interface {
	// GetUserProfile fetches the sanitized profile for a user id. The
	// password hash is never selected.
	GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewPostgresUserRepo(db PGXQuerier, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresUserRepo) GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserProfile")
	defer span.End()
	span.SetAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.Int64("db.user.id", userID),
	)

	l := r.logger.With(slog.String("method", "GetUserProfile"), slog.Int64("userID", userID))

	query := `
        SELECT id, name, email, phone, location, tags, description, created_at
        FROM users
        WHERE id = $1`

	var profile types.UserProfile
	var rawTags *string

	start := time.Now()
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Phone,
		&profile.Location,
		&rawTags,
		&profile.Description,
		&profile.CreatedAt,
	)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metrics.DBAttrs("users", "SELECT"))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metrics.DBAttrs("users", "SELECT"))
		l.ErrorContext(ctx, "Failed to query user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}

	// Tag list lives JSON-encoded in one text column; it is decoded here
	// and nowhere else.
	profile.Tags = []string{}
	if rawTags != nil && *rawTags != "" {
		if err := json.Unmarshal([]byte(*rawTags), &profile.Tags); err != nil {
			l.ErrorContext(ctx, "Corrupted tags column", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Tag decoding failed")
			return nil, fmt.Errorf("failed to decode tags column: %w", err)
		}
		if profile.Tags == nil {
			profile.Tags = []string{}
		}
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	return &profile, nil
}
