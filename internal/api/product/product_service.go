package product

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tezga/tezga-server/app/observability/metrics"
	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/types"
)

var _ ProductService = (*ProductServiceImpl)(nil)

type ProductService interface {
	// AddProduct creates a product owned by ownerID. Any owner id carried
	// in the request body is ignored.
	AddProduct(ctx context.Context, ownerID int64, req CreateProductRequest) (*types.Product, error)
}

type ProductServiceImpl struct {
	logger *slog.Logger
	repo   ProductRepo
}

func NewProductService(repo ProductRepo, logger *slog.Logger) *ProductServiceImpl {
	return &ProductServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, ownerID int64, req CreateProductRequest) (*types.Product, error) {
	l := s.logger.With(slog.String("method", "AddProduct"), slog.Int64("ownerID", ownerID))
	m := metrics.Get()

	if strings.TrimSpace(req.Name) == "" {
		m.ProductCreateRequestsTotal.Add(ctx, 1, metrics.StatusAttr("invalid"))
		return nil, fmt.Errorf("%w: name is required", api.ErrBadRequest)
	}

	p := &types.Product{
		UserID:      ownerID, // claim-derived, req.UserID is discarded
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}

	if _, err := s.repo.CreateProduct(ctx, p); err != nil {
		m.ProductCreateRequestsTotal.Add(ctx, 1, metrics.StatusAttr("error"))
		return nil, err
	}

	l.InfoContext(ctx, "Product added", slog.Int64("productID", p.ID))
	m.ProductCreateRequestsTotal.Add(ctx, 1, metrics.StatusAttr("ok"))
	return p, nil
}
