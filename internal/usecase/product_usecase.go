package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// カタログ（カテゴリ・商品）の読み取りロジック
type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GET /categories/:slug/products の入力DTO
type ListCategoryProductsInput struct {
	Slug     string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ProductUsecase) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	if slug == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	c, err := u.categoryRepo.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *ProductUsecase) ListCategoryProducts(ctx context.Context, in ListCategoryProductsInput) ([]model.Product, error) {
	if in.Slug == "" {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}
	if in.MinPrice.IsNegative() || in.MaxPrice.IsNegative() {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price range")
	}
	if in.MinPrice.GreaterThan(in.MaxPrice) {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price range")
	}

	items, err := u.productRepo.ListByCategory(ctx, repo.ProductListQuery{
		CategorySlug: in.Slug,
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
	})
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}
