package product

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/api/auth"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	AddProduct(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	productService ProductService
	logger         *slog.Logger
}

func NewHandlerImpl(productService ProductService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		productService: productService,
		logger:         logger,
	}
}

// AddProduct godoc
// @Summary      Add Product
// @Description  Creates a product owned by the authenticated user.
// @Tags         Product
// @Accept       json
// @Produce      json
// @Param        body body CreateProductRequest true "Product Parameters"
// @Success      200 {object} CreateProductResponse "Created"
// @Failure      400 {object} types.Response "Missing name"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /add-product [post]
func (h *HandlerImpl) AddProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "AddProduct"))

	ownerID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateProductRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.productService.AddProduct(ctx, ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			l.ErrorContext(ctx, "Failed to add product", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, CreateProductResponse{ProductID: p.ID})
}
