package product

import (
	"context"
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

	"github.com/tezga/tezga-server/app/observability/metrics"
	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/types"
)

// PGXQuerier is the subset of pgxpool.Pool this repository needs.
type PGXQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ ProductRepo = (*PostgresProductRepo)(nil)

type ProductRepo interface {
	// CreateProduct inserts a product row and fills in its assigned id and
	// creation timestamp.
	CreateProduct(ctx context.Context, p *types.Product) (int64, error)
}

type PostgresProductRepo struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewPostgresProductRepo(db PGXQuerier, logger *slog.Logger) *PostgresProductRepo {
	return &PostgresProductRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresProductRepo) CreateProduct(ctx context.Context, p *types.Product) (int64, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "CreateProduct")
	defer span.End()
	span.SetAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "products"),
		attribute.Int64("db.user.id", p.UserID),
	)

	l := r.logger.With(slog.String("method", "CreateProduct"), slog.Int64("userID", p.UserID))

	query := `
        INSERT INTO products (user_id, name, description, price, image_url)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		p.UserID, p.Name, p.Description, p.Price, p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metrics.DBAttrs("products", "INSERT"))

	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metrics.DBAttrs("products", "INSERT"))
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Foreign key violation
			// Owner row vanished between token issuance and now.
			l.WarnContext(ctx, "Product insert for missing owner")
			span.SetStatus(codes.Error, "Owner not found")
			return 0, fmt.Errorf("owner does not exist: %w", api.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to insert product", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return 0, fmt.Errorf("database error creating product: %w", err)
	}

	l.InfoContext(ctx, "Product created", slog.Int64("productID", p.ID))
	span.SetAttributes(attribute.Int64("db.product.id", p.ID))
	span.SetStatus(codes.Ok, "Product created")
	return p.ID, nil
}
