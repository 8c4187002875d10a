package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSecret(t *testing.T, secret string) {
	t.Helper()
	InitJWT(&config.Config{JWT: config.JWTConfig{Secret: secret}})
	t.Cleanup(func() { InitJWT(&config.Config{}) })
}

func TestGenerateToken_Claims(t *testing.T) {
	useSecret(t, "ledger-secret")

	token, err := GenerateToken(3, "alice", 2*time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "budget", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken_Rejects(t *testing.T) {
	useSecret(t, "ledger-secret")

	expired, err := GenerateToken(7, "old", -time.Minute)
	require.NoError(t, err)

	// HS512 签名，算法不在白名单内
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 7}).SignedString([]byte("ledger-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not.a.jwt",
		"expired":   expired,
		"algorithm": hs512,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(token)
			assert.Error(t, err)
		})
	}

	t.Run("rotated secret", func(t *testing.T) {
		token, err := GenerateToken(7, "user", time.Hour)
		require.NoError(t, err)
		InitJWT(&config.Config{JWT: config.JWTConfig{Secret: "rotated"}})
		_, err = ParseToken(token)
		assert.Error(t, err)
		InitJWT(&config.Config{JWT: config.JWTConfig{Secret: "ledger-secret"}})
	})
}

func TestJWTAuth(t *testing.T) {
	useSecret(t, "ledger-secret")
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetCurrentUserID(c), "name": c.GetString("username")})
	})
	call := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	for _, auth := range []string{"", "Basic abc", "Bearer ", "Bearer broken"} {
		w := call(auth)
		require.Equal(t, http.StatusUnauthorized, w.Code, auth)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(http.StatusUnauthorized), body["code"])
		assert.NotEmpty(t, body["message"])
	}

	token, err := GenerateToken(42, "bob", time.Hour)
	require.NoError(t, err)
	w := call("Bearer " + token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"name":"bob"}`, w.Body.String())
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))

	c.Set("userID", "not-a-number")
	assert.Equal(t, uint(0), GetCurrentUserID(c))

	c.Set("userID", uint(99))
	assert.Equal(t, uint(99), GetCurrentUserID(c))
}
