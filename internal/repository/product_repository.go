package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// カテゴリ内検索の条件
type ProductListQuery struct {
	CategorySlug string
	MinPrice     decimal.Decimal
	MaxPrice     decimal.Decimal
}

// 商品の取得だけを約束。カート側からは読み取り専用。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
	ListByCategory(ctx context.Context, q ProductListQuery) ([]model.Product, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
}
