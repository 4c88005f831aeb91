package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nestmart/shop-api/internal/api/metrics"
	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type createProductRequest struct {
	Title string          `json:"title" validate:"required,min=2,max=255"`
	Price decimal.Decimal `json:"price" swaggertype:"string" example:"1500.00"`
}

type productResponse struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Price     decimal.Decimal  `json:"price" swaggertype:"string" example:"1500.00"`
	IsActive  bool             `json:"is_active"`
	Creator   *domain.UserView `json:"creator"`
	CreatedAt time.Time        `json:"created_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Title:     p.Title,
		Price:     p.Price,
		IsActive:  p.IsActive,
		Creator:   p.Creator,
		CreatedAt: p.CreatedAt,
	}
}

// Create adds a product owned by the caller.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createProductRequest  true   "Product details"
// @Success      201              {object}  productResponse
// @Success      200              {object}  productResponse  "Replayed idempotent request"
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      403              {object}  map[string]string
// @Failure      409              {object}  map[string]string  "Idempotency key in progress"
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	creator, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), creator, ports.CreateProductInput{
		Title:          req.Title,
		Price:          req.Price,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	metrics.ProductsCreatedTotal.WithLabelValues(strconv.FormatBool(res.AlreadyExisted)).Inc()
	if res.AlreadyExisted {
		return c.JSON(http.StatusOK, toProductResponse(res.Product))
	}
	return c.JSON(http.StatusCreated, toProductResponse(res.Product))
}

// List returns the catalog.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {array}  productResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}
