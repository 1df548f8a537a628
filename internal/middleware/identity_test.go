package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return s
}

func userToken(t *testing.T, secret string, userID string, ttl time.Duration) string {
	now := time.Now()
	return signToken(t, secret, jwt.MapClaims{
		"sub":   userID,
		"email": "user@example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
}

// リクエストを流して、hookでcontextを観察する
func runIdentity(t *testing.T, mw []echo.MiddlewareFunc, setup func(*http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	assert.NoError(t, h(c))
	return c, rec
}

// =====================
// VerifyUserToken
// =====================

func TestVerifyUserToken_Valid(t *testing.T) {
	raw := userToken(t, testSecret, "7", time.Hour)

	id, ok := middleware.VerifyUserToken(testSecret, raw)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id.UserID)
	assert.Equal(t, "user@example.com", id.Email)
}

func TestVerifyUserToken_Expired(t *testing.T) {
	raw := userToken(t, testSecret, "7", -time.Hour)

	_, ok := middleware.VerifyUserToken(testSecret, raw)
	assert.False(t, ok)
}

func TestVerifyUserToken_WrongSecret(t *testing.T) {
	raw := userToken(t, "other-secret", "7", time.Hour)

	_, ok := middleware.VerifyUserToken(testSecret, raw)
	assert.False(t, ok)
}

// JWTの形式ですらない文字列（＝匿名セッショントークン）はfalse
func TestVerifyUserToken_OpaqueString(t *testing.T) {
	_, ok := middleware.VerifyUserToken(testSecret, "b9a3a7de-62bd-4f52-bd0f-0a1c2e3d4f5e")
	assert.False(t, ok)
}

// HS256以外で署名されたtokenは拒否
func TestVerifyUserToken_RejectsNoneAlg(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "7"})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, ok := middleware.VerifyUserToken(testSecret, raw)
	assert.False(t, ok)
}

// =====================
// Identity
// =====================

func TestIdentity_BearerUserToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	raw := userToken(t, testSecret, "7", time.Hour)

	c, _ := runIdentity(t, []echo.MiddlewareFunc{middleware.Identity(cfg)}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+raw)
	})

	userID, ok := middleware.UserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, int64(7), userID)

	owner, ok := middleware.OwnerFromContext(c)
	assert.True(t, ok)
	gotID, isUser := owner.UserID()
	assert.True(t, isUser)
	assert.Equal(t, int64(7), gotID)
}

// 検証に失敗したbearerは匿名セッショントークンとして通す
func TestIdentity_BearerSessionToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	c, _ := runIdentity(t, []echo.MiddlewareFunc{middleware.Identity(cfg)}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer session-abc")
	})

	_, isUser := middleware.UserIDFromContext(c)
	assert.False(t, isUser)

	token, ok := middleware.SessionTokenFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "session-abc", token)
}

func TestIdentity_AuthCookieFallback(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	raw := userToken(t, testSecret, "7", time.Hour)

	c, _ := runIdentity(t, []echo.MiddlewareFunc{middleware.Identity(cfg)}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.AuthTokenCookie, Value: raw})
	})

	userID, ok := middleware.UserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, int64(7), userID)
}

func TestIdentity_SessionCookieFallback(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	c, _ := runIdentity(t, []echo.MiddlewareFunc{middleware.Identity(cfg)}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.CartSessionCookie, Value: "session-abc"})
	})

	token, ok := middleware.SessionTokenFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "session-abc", token)
}

// headerが優先。cookieのセッショントークンより有効なbearerのユーザー。
func TestIdentity_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	raw := userToken(t, testSecret, "7", time.Hour)

	c, _ := runIdentity(t, []echo.MiddlewareFunc{middleware.Identity(cfg)}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+raw)
		req.AddCookie(&http.Cookie{Name: middleware.CartSessionCookie, Value: "session-abc"})
	})

	owner, ok := middleware.OwnerFromContext(c)
	assert.True(t, ok)
	_, isUser := owner.UserID()
	assert.True(t, isUser)
}

func TestIdentity_NoCredential(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	c, _ := runIdentity(t, []echo.MiddlewareFunc{middleware.Identity(cfg)}, nil)

	_, ok := middleware.OwnerFromContext(c)
	assert.False(t, ok)
}

// =====================
// EnsureSession
// =====================

func TestEnsureSession_MintsSessionCookie(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	c, rec := runIdentity(t, []echo.MiddlewareFunc{
		middleware.Identity(cfg),
		middleware.EnsureSession(),
	}, nil)

	token, ok := middleware.SessionTokenFromContext(c)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	//Set-Cookieで同じトークンが返る
	var minted *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.CartSessionCookie {
			minted = ck
		}
	}
	if assert.NotNil(t, minted) {
		assert.Equal(t, token, minted.Value)
		assert.True(t, minted.HttpOnly)
	}
}

// 既にcredentialがあるなら発行しない
func TestEnsureSession_KeepsExistingSession(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	c, rec := runIdentity(t, []echo.MiddlewareFunc{
		middleware.Identity(cfg),
		middleware.EnsureSession(),
	}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.CartSessionCookie, Value: "session-abc"})
	})

	token, ok := middleware.SessionTokenFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "session-abc", token)
	assert.Empty(t, rec.Result().Cookies())
}

func TestEnsureSession_SkipsForUser(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	raw := userToken(t, testSecret, "7", time.Hour)

	_, rec := runIdentity(t, []echo.MiddlewareFunc{
		middleware.Identity(cfg),
		middleware.EnsureSession(),
	}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+raw)
	})

	assert.Empty(t, rec.Result().Cookies())
}
