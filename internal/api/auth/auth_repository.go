package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tezga/tezga-server/app/observability/metrics"
	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/types"
)

// PGXQuerier is the subset of pgxpool.Pool the repository needs. Tests
// substitute a pgxmock pool.
type PGXQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// CreateUser inserts a new user record and returns its assigned id.
	// A duplicate email yields api.ErrConflict; the existing row is untouched.
	CreateUser(ctx context.Context, user *types.UserAuth) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, id int64) (*types.UserAuth, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewPostgresAuthRepo(db PGXQuerier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

// encodeTags serializes the tag list for the single text column. The list
// only exists in encoded form at this boundary.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(raw), nil
}

// decodeTags is the inverse; an absent or empty column is an empty list.
func decodeTags(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(*raw), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags column: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, user *types.UserAuth) (int64, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"))

	encodedTags, err := encodeTags(user.Tags)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Tag encoding failed")
		return 0, err
	}

	query := `
        INSERT INTO users (name, email, password_hash, phone, location, tags, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	start := time.Now()
	err = r.db.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Phone,
		user.Location, encodedTags, user.Description,
	).Scan(&user.ID, &user.CreatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metrics.DBAttrs("users", "INSERT"))

	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metrics.DBAttrs("users", "INSERT"))
		// The unique index on email is the arbiter under concurrent
		// registrations: exactly one insert wins, the rest land here.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			l.WarnContext(ctx, "Attempted to register duplicate email")
			span.SetStatus(codes.Error, "Duplicate email")
			return 0, fmt.Errorf("email already registered: %w", api.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert new user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return 0, fmt.Errorf("database error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.Int64("userID", user.ID))
	span.SetAttributes(attribute.Int64("db.user.id", user.ID))
	span.SetStatus(codes.Ok, "User created")
	return user.ID, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := `
        SELECT id, name, email, password_hash, phone, location, tags, description, created_at
        FROM users
        WHERE email = $1`

	return r.scanUser(ctx, span, query, email)
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, id int64) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.Int64("db.user.id", id),
	))
	defer span.End()

	query := `
        SELECT id, name, email, password_hash, phone, location, tags, description, created_at
        FROM users
        WHERE id = $1`

	return r.scanUser(ctx, span, query, id)
}

func (r *PostgresAuthRepo) scanUser(ctx context.Context, span trace.Span, query string, arg any) (*types.UserAuth, error) {
	var user types.UserAuth
	var rawTags *string

	start := time.Now()
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Location,
		&rawTags,
		&user.Description,
		&user.CreatedAt,
	)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metrics.DBAttrs("users", "SELECT"))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metrics.DBAttrs("users", "SELECT"))
		r.logger.ErrorContext(ctx, "Failed to query user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	user.Tags, err = decodeTags(rawTags)
	if err != nil {
		r.logger.ErrorContext(ctx, "Corrupted tags column", slog.Int64("userID", user.ID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Tag decoding failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}
