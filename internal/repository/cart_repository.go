package repository

import (
	"app/internal/domain/model"
	"context"
)

type CartRepository interface {
	// ownerのカートを取得し、無ければ作成
	GetOrCreateByOwner(ctx context.Context, owner model.CartOwner) (model.Cart, error)
	// ownerのカートを取得。無ければ ErrNotFound。
	FindByOwner(ctx context.Context, owner model.CartOwner) (model.Cart, error)
	// 明細を全削除（カート行は残す）
	Clear(ctx context.Context, cartID int64) error
}
