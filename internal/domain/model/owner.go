package model

// カートの持ち主の種別
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerUser
	OwnerSession
)

// CartOwner はカートの持ち主を表すタグ付きの値。
// ログインユーザーか匿名セッションのどちらか一方だけが立つ。
// ゼロ値は「credentialなし」。
type CartOwner struct {
	kind    OwnerKind
	userID  int64
	session string
}

func UserOwner(userID int64) CartOwner {
	return CartOwner{kind: OwnerUser, userID: userID}
}

func SessionOwner(token string) CartOwner {
	return CartOwner{kind: OwnerSession, session: token}
}

func (o CartOwner) Kind() OwnerKind { return o.kind }

// UserID はユーザー所有のときだけIDを返す。
func (o CartOwner) UserID() (int64, bool) {
	if o.kind != OwnerUser {
		return 0, false
	}
	return o.userID, true
}

// SessionToken は匿名セッション所有のときだけトークンを返す。
func (o CartOwner) SessionToken() (string, bool) {
	if o.kind != OwnerSession {
		return "", false
	}
	return o.session, true
}

func (o CartOwner) IsZero() bool { return o.kind == OwnerNone }
