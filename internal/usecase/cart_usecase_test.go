package usecase_test

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByOwner(ctx context.Context, owner model.CartOwner) (model.Cart, error) {
	args := m.Called(ctx, owner)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByOwner(ctx context.Context, owner model.CartOwner) (model.Cart, error) {
	args := m.Called(ctx, owner)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) ListWithProducts(ctx context.Context, cartID int64) ([]repo.CartLine, error) {
	args := m.Called(ctx, cartID)
	lines, _ := args.Get(0).([]repo.CartLine)
	return lines, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedBy(ctx context.Context, cartItemID int64, owner model.CartOwner) (bool, error) {
	args := m.Called(ctx, cartItemID, owner)
	return args.Bool(0), args.Error(1)
}

func (m *CartItemRepoMock) CountByOwner(ctx context.Context, owner model.CartOwner) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

type CartProductRepoMock struct{ mock.Mock }

func (m *CartProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CartProductRepoMock) ListByCategory(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	panic("not used in CartUsecase tests")
}

// ステータスとメッセージの検証ヘルパ
func assertHTTPError(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}

func newCartUsecase() (*usecase.CartUsecase, *CartRepoMock, *CartItemRepoMock, *CartProductRepoMock) {
	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	productRepo := new(CartProductRepoMock)
	return usecase.NewCartUsecase(cartRepo, itemRepo, productRepo), cartRepo, itemRepo, productRepo
}

// =====================
// GetCart / Count
// =====================

func TestCartUsecase_GetCart_NoCredential(t *testing.T) {
	uc, _, _, _ := newCartUsecase()

	_, err := uc.GetCart(context.Background(), model.CartOwner{})
	assertHTTPError(t, err, 401)
}

// findOrCreateは冪等：同じownerなら同じカートIDが返る
func TestCartUsecase_GetCart_SameOwnerSameCart(t *testing.T) {
	ctx := context.Background()
	owner := model.SessionOwner("token-1")

	uc, cartRepo, itemRepo, _ := newCartUsecase()
	cartRepo.On("GetOrCreateByOwner", mock.Anything, owner).Return(model.Cart{ID: 10}, nil)
	itemRepo.On("ListWithProducts", mock.Anything, int64(10)).Return([]repo.CartLine{}, nil)

	first, err := uc.GetCart(ctx, owner)
	assert.NoError(t, err)
	second, err := uc.GetCart(ctx, owner)
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestCartUsecase_GetCartCount_NoCredentialIsZero(t *testing.T) {
	uc, _, _, _ := newCartUsecase()

	out, err := uc.GetCartCount(context.Background(), model.CartOwner{})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.Count)
}

func TestCartUsecase_GetCartCount_Success(t *testing.T) {
	owner := model.UserOwner(7)

	uc, _, itemRepo, _ := newCartUsecase()
	itemRepo.On("CountByOwner", mock.Anything, owner).Return(int64(5), nil)

	out, err := uc.GetCartCount(context.Background(), owner)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.Count)
}

// =====================
// AddToCart
// =====================

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	uc, _, _, _ := newCartUsecase()

	_, err := uc.AddToCart(context.Background(), model.UserOwner(1), usecase.AddCartInput{ProductID: 1, Quantity: 0})
	assertHTTPError(t, err, 400)
}

func TestCartUsecase_AddToCart_UnknownProduct(t *testing.T) {
	uc, _, _, productRepo := newCartUsecase()
	productRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddToCart(context.Background(), model.UserOwner(1), usecase.AddCartInput{ProductID: 99, Quantity: 1})
	assertHTTPError(t, err, 400)
}

func TestCartUsecase_AddToCart_Success(t *testing.T) {
	ctx := context.Background()
	owner := model.SessionOwner("token-1")

	uc, cartRepo, itemRepo, productRepo := newCartUsecase()

	product := model.Product{ID: 1, Title: "Coffee", Price: decimal.RequireFromString("19.99")}
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(product, nil)
	cartRepo.On("GetOrCreateByOwner", mock.Anything, owner).Return(model.Cart{ID: 10}, nil)
	itemRepo.On("UpsertByCartAndProduct", mock.Anything, int64(10), int64(1), int64(2)).Return(nil)
	itemRepo.On("ListWithProducts", mock.Anything, int64(10)).Return([]repo.CartLine{
		{Item: model.CartItem{ID: 100, CartID: 10, ProductID: 1, Quantity: 2}, Product: product},
	}, nil)

	out, err := uc.AddToCart(ctx, owner, usecase.AddCartInput{ProductID: 1, Quantity: 2})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.Equal(t, "39.98", out.Total.StringFixed(2))

	itemRepo.AssertExpectations(t)
}

// =====================
// Update / Delete
// =====================

func TestCartUsecase_UpdateCartItem_InvalidQuantity(t *testing.T) {
	uc, _, _, _ := newCartUsecase()

	//qty<1は削除を使わせる
	_, err := uc.UpdateCartItem(context.Background(), model.UserOwner(1), 100, usecase.UpdateCartItemInput{Quantity: 0})
	assertHTTPError(t, err, 400)
}

func TestCartUsecase_UpdateCartItem_NotOwned(t *testing.T) {
	owner := model.SessionOwner("token-1")

	uc, _, itemRepo, _ := newCartUsecase()
	itemRepo.On("IsOwnedBy", mock.Anything, int64(100), owner).Return(false, nil)

	_, err := uc.UpdateCartItem(context.Background(), owner, 100, usecase.UpdateCartItemInput{Quantity: 2})
	assertHTTPError(t, err, 404)

	//所有チェックに通らなければ更新はしない
	itemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateCartItem_Success(t *testing.T) {
	owner := model.UserOwner(7)

	uc, cartRepo, itemRepo, _ := newCartUsecase()

	product := model.Product{ID: 1, Title: "Coffee", Price: decimal.RequireFromString("5.00")}
	itemRepo.On("IsOwnedBy", mock.Anything, int64(100), owner).Return(true, nil)
	itemRepo.On("UpdateQuantity", mock.Anything, int64(100), int64(3)).Return(nil)
	cartRepo.On("FindByOwner", mock.Anything, owner).Return(model.Cart{ID: 10}, nil)
	itemRepo.On("ListWithProducts", mock.Anything, int64(10)).Return([]repo.CartLine{
		{Item: model.CartItem{ID: 100, CartID: 10, ProductID: 1, Quantity: 3}, Product: product},
	}, nil)

	out, err := uc.UpdateCartItem(context.Background(), owner, 100, usecase.UpdateCartItemInput{Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, "15.00", out.Total.StringFixed(2))
}

func TestCartUsecase_DeleteCartItem_NotOwned(t *testing.T) {
	owner := model.SessionOwner("token-1")

	uc, _, itemRepo, _ := newCartUsecase()
	itemRepo.On("IsOwnedBy", mock.Anything, int64(100), owner).Return(false, nil)

	_, err := uc.DeleteCartItem(context.Background(), owner, 100)
	assertHTTPError(t, err, 404)

	itemRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestCartUsecase_DeleteCartItem_Success(t *testing.T) {
	owner := model.UserOwner(7)

	uc, cartRepo, itemRepo, _ := newCartUsecase()

	itemRepo.On("IsOwnedBy", mock.Anything, int64(100), owner).Return(true, nil)
	itemRepo.On("DeleteByID", mock.Anything, int64(100)).Return(nil)
	cartRepo.On("FindByOwner", mock.Anything, owner).Return(model.Cart{ID: 10}, nil)
	itemRepo.On("ListWithProducts", mock.Anything, int64(10)).Return([]repo.CartLine{}, nil)

	out, err := uc.DeleteCartItem(context.Background(), owner, 100)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.Total.IsZero())
}
