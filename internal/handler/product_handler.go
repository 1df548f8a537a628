package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500。内部詳細は返さない。
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /api/categories, /api/products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/categories", h.listCategories)
	g.GET("/categories/:slug", h.getCategory)
	g.GET("/categories/:slug/products", h.listCategoryProducts)
	g.GET("/products/:id", h.getProduct)
}

func (h *ProductHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) getCategory(c echo.Context) error {
	out, err := h.uc.GetCategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) listCategoryProducts(c echo.Context) error {
	minPrice, err := priceParam(c, "minPrice", decimal.Zero)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid minPrice"})
	}
	maxPrice, err := priceParam(c, "maxPrice", decimal.NewFromInt(999999))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid maxPrice"})
	}

	out, err := h.uc.ListCategoryProducts(c.Request().Context(), usecase.ListCategoryProductsInput{
		Slug:     c.Param("slug"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	out, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func priceParam(c echo.Context, name string, def decimal.Decimal) (decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	return decimal.NewFromString(v)
}
