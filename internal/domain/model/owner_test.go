package model_test

import (
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestCartOwner_User(t *testing.T) {
	owner := model.UserOwner(7)

	assert.False(t, owner.IsZero())
	assert.Equal(t, model.OwnerUser, owner.Kind())

	userID, ok := owner.UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), userID)

	//ユーザー所有にセッショントークンは無い
	_, ok = owner.SessionToken()
	assert.False(t, ok)
}

func TestCartOwner_Session(t *testing.T) {
	owner := model.SessionOwner("session-abc")

	assert.False(t, owner.IsZero())
	assert.Equal(t, model.OwnerSession, owner.Kind())

	token, ok := owner.SessionToken()
	assert.True(t, ok)
	assert.Equal(t, "session-abc", token)

	_, ok = owner.UserID()
	assert.False(t, ok)
}

func TestCartOwner_ZeroValue(t *testing.T) {
	var owner model.CartOwner

	assert.True(t, owner.IsZero())

	_, ok := owner.UserID()
	assert.False(t, ok)
	_, ok = owner.SessionToken()
	assert.False(t, ok)
}

// 同じownerは比較可能（mapキーやmockの引数照合で使う）
func TestCartOwner_Equality(t *testing.T) {
	assert.Equal(t, model.UserOwner(7), model.UserOwner(7))
	assert.NotEqual(t, model.UserOwner(7), model.UserOwner(8))
	assert.NotEqual(t, model.UserOwner(7), model.SessionOwner("7"))
}
