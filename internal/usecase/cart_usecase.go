package usecase

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// ownerはログイン済みユーザーか匿名セッションのどちらか。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	ImgSrc    string          `json:"img_src"`
	Quantity  int64           `json:"quantity"`
}

type CartResponse struct {
	ID    int64              `json:"id"`
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type CartCountResponse struct {
	Count int64 `json:"count"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, owner model.CartOwner) (CartResponse, error) {
	if owner.IsZero() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByOwner(ctx, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// GetCartCount は数量合計。credentialなしは0を返す（エラーにしない）。
func (u *CartUsecase) GetCartCount(ctx context.Context, owner model.CartOwner) (CartCountResponse, error) {
	if owner.IsZero() {
		return CartCountResponse{Count: 0}, nil
	}

	count, err := u.cartItemRepo.CountByOwner(ctx, owner)
	if err != nil {
		return CartCountResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartCountResponse{Count: count}, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// カートは最初の追加で遅延作成される。
func (u *CartUsecase) AddToCart(ctx context.Context, owner model.CartOwner, in AddCartInput) (CartResponse, error) {
	if owner.IsZero() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック
	if _, err := u.productRepo.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByOwner(ctx, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Upsert（同一商品は加算）
	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// 数量変更（所有チェック必須）。qty<1は削除を使う。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, owner model.CartOwner, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if owner.IsZero() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//所有チェック。他人の明細は「存在しない扱い」で404。
	owned, err := u.cartItemRepo.IsOwnedBy(ctx, cartItemID, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart, err := u.cartRepo.FindByOwner(ctx, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartResponse(ctx, cart.ID)
}

// 明細削除（所有チェック必須）
func (u *CartUsecase) DeleteCartItem(ctx context.Context, owner model.CartOwner, cartItemID int64) (CartResponse, error) {
	if owner.IsZero() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedBy(ctx, cartItemID, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart, err := u.cartRepo.FindByOwner(ctx, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartResponse(ctx, cart.ID)
}

// cartIDの明細をまとめてCartResponseを作る。
// totalはdecimalで毎回計算し直す（floatの累積誤差を入れない）。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	lines, err := u.cartItemRepo.ListWithProducts(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		respItems = append(respItems, CartItemResponse{
			ID:        l.Item.ID,
			ProductID: l.Item.ProductID,
			Title:     l.Product.Title,
			Price:     l.Product.Price,
			ImgSrc:    l.Product.ImgSrc,
			Quantity:  l.Item.Quantity,
		})

		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(l.Item.Quantity)))
	}

	return CartResponse{ID: cartID, Items: respItems, Total: total}, nil
}
