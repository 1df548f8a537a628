package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ownerに対応するカラムで絞る
func whereOwner(q *gorm.DB, column string, owner model.CartOwner) *gorm.DB {
	if userID, ok := owner.UserID(); ok {
		return q.Where(column+".user_id = ?", userID)
	}
	token, _ := owner.SessionToken()
	return q.Where(column+".session_id = ?", token)
}

// ownerのカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByOwner(ctx context.Context, owner model.CartOwner) (model.Cart, error) {
	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := whereOwner(tx.Clauses(clause.Locking{Strength: "UPDATE"}), "carts", owner).
			Table("carts").
			Order("id desc").
			First(&cart).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る。片方のownerカラムだけを埋める。
		newCart := model.Cart{}
		if userID, ok := owner.UserID(); ok {
			newCart.UserID = &userID
		} else {
			token, _ := owner.SessionToken()
			newCart.SessionID = &token
		}

		if err := tx.Create(&newCart).Error; err != nil {
			// unique違反（同時作成）はもう一度探す
			retryErr := whereOwner(tx, "carts", owner).
				Table("carts").
				Order("id desc").
				First(&cart).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// ownerのカートを取得
func (r *CartGormRepository) FindByOwner(ctx context.Context, owner model.CartOwner) (model.Cart, error) {
	var cart model.Cart

	err := whereOwner(r.db.WithContext(ctx), "carts", owner).
		Table("carts").
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 指定カートの明細を全削除。カート行は残す。
func (r *CartGormRepository) Clear(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		if err := tx.Where("id = ?", cartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		//cart_itemsを全削除
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// カート明細を一覧取得
func (r *CartGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 商品情報つきの明細一覧
func (r *CartGormRepository) ListWithProducts(ctx context.Context, cartID int64) ([]repo.CartLine, error) {
	items, err := r.ListByCartID(ctx, cartID)
	if err != nil {
		return []repo.CartLine{}, err
	}
	if len(items) == 0 {
		return []repo.CartLine{}, nil
	}

	productIDs := make([]int64, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).Error; err != nil {
		return []repo.CartLine{}, err
	}

	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]repo.CartLine, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, repo.CartLine{Item: it, Product: p})
	}

	return lines, nil
}

// 同一商品は数量加算。
// (cart_id, product_id)のunique制約 + EXCLUDEDでアトミックに加算するので
// 同時追加でもロストアップデートしない。
func (r *CartGormRepository) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	item := model.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  addQty,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			}),
		}).
		Create(&item).Error
}

// 明細の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を取得
func (r *CartGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// cartItemが、そのownerのカートに属しているかを判定
func (r *CartGormRepository) IsOwnedBy(ctx context.Context, cartItemID int64, owner model.CartOwner) (bool, error) {
	var count int64

	q := r.db.WithContext(ctx).
		Table("cart_items").
		Joins("join carts on carts.id = cart_items.cart_id").
		Where("cart_items.id = ?", cartItemID)

	err := whereOwner(q, "carts", owner).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ownerのカートの数量合計。カートが無ければ0。
func (r *CartGormRepository) CountByOwner(ctx context.Context, owner model.CartOwner) (int64, error) {
	var total *int64

	q := r.db.WithContext(ctx).
		Table("cart_items").
		Joins("join carts on carts.id = cart_items.cart_id").
		Select("SUM(cart_items.quantity)")

	if err := whereOwner(q, "carts", owner).Scan(&total).Error; err != nil {
		return 0, err
	}

	if total == nil {
		return 0, nil
	}
	return *total, nil
}
