package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserEmailKey    = "user_email"    // string
	CtxSessionTokenKey = "session_token" // string
)

// credentialを運ぶcookie名
const (
	AuthTokenCookie   = "auth_token"
	CartSessionCookie = "cart_session_id"
)

// セッションcookieの有効期限
const cartSessionMaxAge = 180 * 24 * time.Hour

// 検証済みユーザーcredentialの中身
type UserIdentity struct {
	UserID int64
	Email  string
}

// VerifyUserToken はbearer文字列を署名付きユーザーcredentialとして検証する。
// 失敗（不正な形式・期限切れ・署名不一致）はエラーにせずfalseを返す。
// 呼び出し側は同じ文字列を匿名セッショントークンとして扱う。
func VerifyUserToken(secret string, raw string) (UserIdentity, bool) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return UserIdentity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserIdentity{}, false
	}

	userID, err := parseUserID(claims["sub"])
	if err != nil || userID <= 0 {
		return UserIdentity{}, false
	}

	email, _ := claims["email"].(string)

	return UserIdentity{UserID: userID, Email: email}, true
}

// Identity はbearer credentialを解決するミドルウェア。
// 有効なユーザーtokenならユーザー、そうでなければ同じ文字列を
// 匿名セッショントークンとして扱う。ヘッダが無ければcookieを見る。
// credentialが無くても止めない（判断はhandler側）。
func Identity(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				raw = cookieValue(c, AuthTokenCookie)
			}
			if raw == "" {
				raw = cookieValue(c, CartSessionCookie)
			}
			if raw == "" {
				return next(c)
			}

			if id, ok := VerifyUserToken(cfg.JWTSecret, raw); ok {
				c.Set(CtxUserIDKey, id.UserID)
				c.Set(CtxUserEmailKey, id.Email)
				return next(c)
			}

			//検証に失敗した文字列は匿名セッショントークン
			c.Set(CtxSessionTokenKey, raw)
			return next(c)
		}
	}
}

// EnsureSession はカートの書き込み系で使う。
// credentialがまったく無ければセッショントークンを発行してcookieに乗せる。
func EnsureSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserIDFromContext(c); ok {
				return next(c)
			}
			if _, ok := SessionTokenFromContext(c); ok {
				return next(c)
			}

			token := uuid.NewString()
			c.Set(CtxSessionTokenKey, token)
			c.SetCookie(&http.Cookie{
				Name:     CartSessionCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int(cartSessionMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			return next(c)
		}
	}
}

func UserIDFromContext(c echo.Context) (int64, bool) {
	v, ok := c.Get(CtxUserIDKey).(int64)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

func SessionTokenFromContext(c echo.Context) (string, bool) {
	v, ok := c.Get(CtxSessionTokenKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// OwnerFromContext はカートのownerを組み立てる。
// ユーザーcredentialが両方あるときはユーザーを優先。
func OwnerFromContext(c echo.Context) (model.CartOwner, bool) {
	if userID, ok := UserIDFromContext(c); ok {
		return model.UserOwner(userID), true
	}
	if token, ok := SessionTokenFromContext(c); ok {
		return model.SessionOwner(token), true
	}
	return model.CartOwner{}, false
}

func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return ""
	}

	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil || ck == nil {
		return ""
	}
	return ck.Value
}

// sub claimをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
