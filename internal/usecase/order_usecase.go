package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderUsecase はカートを注文に確定する。
type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, orderItems: orderItems}
}

// POST /orders の入力（フラットな配送先・連絡先）
type CreateOrderInput struct {
	Email     string
	FirstName string
	LastName  string
	Company   string
	Address   string
	City      string
	Country   string
	Region    string
	Zip       string
	Phone     string
}

type OrderSummary struct {
	ID    int64           `json:"id"`
	Total decimal.Decimal `json:"total"`
}

type CreateOrderOutput struct {
	Order OrderSummary `json:"order"`
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	ImgSrc    string          `json:"img_src"`
	Quantity  int64           `json:"quantity"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	Email       string            `json:"email"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

// 必須フィールド（Companyだけ任意）
func validateCreateOrder(in CreateOrderInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"email", in.Email},
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"address", in.Address},
		{"city", in.City},
		{"country", in.Country},
		{"region", in.Region},
		{"zip", in.Zip},
		{"phone", in.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return NewHTTPError(http.StatusBadRequest, "missing required field: "+f.name)
		}
	}
	return nil
}

// CreateOrder はカートの内容から注文を作る。
// 注文作成・明細作成・カートクリアは1トランザクション。
// 途中で失敗したら注文は一切残らない。
func (u *OrderUsecase) CreateOrder(ctx context.Context, owner model.CartOwner, in CreateOrderInput) (CreateOrderOutput, error) {
	if owner.IsZero() {
		return CreateOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateCreateOrder(in); err != nil {
		return CreateOrderOutput{}, err
	}

	var out CreateOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//ownerのカート取得
		cart, err := r.Carts().FindByOwner(ctx, owner)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細（商品つき）取得
		lines, err := r.CartItems().ListWithProducts(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//合計は現在価格×数量のdecimal和
		orderItems := make([]model.OrderItem, 0, len(lines))
		total := decimal.Zero

		for _, l := range lines {
			//スナップショット（以後の商品変更の影響を受けない）
			orderItems = append(orderItems, model.OrderItem{
				ProductID: l.Item.ProductID,
				Quantity:  l.Item.Quantity,
				Title:     l.Product.Title,
				Price:     l.Product.Price,
				ImgSrc:    l.Product.ImgSrc,
			})

			total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(l.Item.Quantity)))
		}

		order := model.Order{
			UserID:      cart.UserID,
			Email:       in.Email,
			TotalAmount: total,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Company:     in.Company,
			Address:     in.Address,
			City:        in.City,
			Country:     in.Country,
			Region:      in.Region,
			Zip:         in.Zip,
			Phone:       in.Phone,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートの明細をクリア（カート行は残す）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = CreateOrderOutput{Order: OrderSummary{ID: orderID, Total: total}}
		return nil
	})

	if err != nil {
		return CreateOrderOutput{}, err
	}
	return out, nil
}

// ログイン済みユーザーの注文一覧
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

// 注文詳細（他人の注文は「存在しない扱い」で404）
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID == nil || *o.UserID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(o, items), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			ImgSrc:    it.ImgSrc,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:          o.ID,
		Email:       o.Email,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
	}
}
