package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// email重複（unique違反）を統一
var ErrConflict = errors.New("conflict")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。email重複は ErrConflict。
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。見つからなければnil。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを1件取得する。見つからなければnil。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
