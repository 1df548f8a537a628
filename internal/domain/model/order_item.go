package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。
// title/price/img_srcは購入時点のスナップショット。後から商品が変わっても影響しない。
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Title     string          `gorm:"type:varchar(255);not null" json:"title"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImgSrc    string          `gorm:"type:varchar(500)" json:"img_src"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
