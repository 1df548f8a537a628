package model

import "time"

// カート本体。
// user_id / session_id はDB上はどちらもnullable。
// コード側では CartOwner で必ず片方だけが立つ。
// 注文確定後も行は残り、明細だけが消える。
type Cart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *int64    `gorm:"uniqueIndex" json:"user_id"`
	SessionID *string   `gorm:"type:varchar(255);uniqueIndex" json:"session_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
