package repository

import (
	"app/internal/domain/model"
	"context"
)

// 明細と商品をJOINした1行
type CartLine struct {
	Item    model.CartItem
	Product model.Product
}

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 商品情報つきの明細一覧
	ListWithProducts(ctx context.Context, cartID int64) ([]CartLine, error)
	// 同一商品はプラス（ON CONFLICTでアトミックに加算）
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	// cartItemが、そのownerのカートに属しているかを判定
	IsOwnedBy(ctx context.Context, cartItemID int64, owner model.CartOwner) (bool, error)
	// ownerのカートの数量合計（カート未作成は0）
	CountByOwner(ctx context.Context, owner model.CartOwner) (int64, error)
}
