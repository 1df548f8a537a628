package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文。確定時点のカート内容から作る不変のレコード。
// 配送先はフラットに持つ（住所マスタは無い）。
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      *int64          `gorm:"index" json:"user_id"`
	Email       string          `gorm:"type:varchar(255);not null" json:"email"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	FirstName   string          `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName    string          `gorm:"type:varchar(255);not null" json:"last_name"`
	Company     string          `gorm:"type:varchar(255)" json:"company"`
	Address     string          `gorm:"type:varchar(255);not null" json:"address"`
	City        string          `gorm:"type:varchar(255);not null" json:"city"`
	Country     string          `gorm:"type:varchar(100);not null" json:"country"`
	Region      string          `gorm:"type:varchar(100);not null" json:"region"`
	Zip         string          `gorm:"type:varchar(20);not null" json:"zip"`
	Phone       string          `gorm:"type:varchar(30);not null" json:"phone"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
