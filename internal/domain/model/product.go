package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// 商品。カートから見ると読み取り専用。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  int64           `gorm:"not null;index" json:"category_id"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	ImgSrc      string          `gorm:"type:varchar(500)" json:"img_src"`
	IsOnSale    bool            `gorm:"not null;default:false" json:"is_on_sale"`
	Features    pq.StringArray  `gorm:"type:text[]" json:"features"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
