package container

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tezga/tezga-server/config"
	"github.com/tezga/tezga-server/internal/api/auth"
	"github.com/tezga/tezga-server/internal/api/product"
	"github.com/tezga/tezga-server/internal/api/user"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pool           *pgxpool.Pool
	TokenCodec     *auth.TokenCodec
	AuthHandler    *auth.AuthHandlerImpl
	UserHandler    *user.HandlerImpl
	ProductHandler *product.HandlerImpl
}

// NewContainer wires repositories, services and handlers around an already
// initialized pool.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	codec, err := auth.NewTokenCodec(cfg.JWT)
	if err != nil {
		logger.Error("Failed to construct token codec", slog.Any("error", err))
		return nil, err
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, codec, logger)
	authHandler := auth.NewAuthHandlerImpl(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	productRepo := product.NewPostgresProductRepo(pool, logger)
	productService := product.NewProductService(productRepo, logger)
	productHandler := product.NewHandlerImpl(productService, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Pool:           pool,
		TokenCodec:     codec,
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		ProductHandler: productHandler,
	}, nil
}
