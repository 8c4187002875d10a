package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget/config"
	"budget/ledger"
	"budget/middleware"
	"budget/service"
	"budget/stats"
	"budget/store"
	"budget/testutil"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour},
		Ledger: config.LedgerConfig{
			RecentLimit: 20,
			DefaultCategories: []config.DefaultCategory{
				{Key: "food", Type: "expense"},
				{Key: "salary", Type: "income"},
				{Key: "other", Type: "other"},
			},
		},
	}
	middleware.InitJWT(cfg)

	st := store.New(testutil.NewSQLite(t))
	return SetupRouter(cfg, Deps{
		Store:    st,
		Ledger:   ledger.NewService(st, zerolog.Nop()),
		Stats:    stats.NewService(st),
		Accounts: service.NewAccountService(st, cfg, nil, zerolog.Nop()),
		Log:      zerolog.Nop(),
	})
}

func call(t *testing.T, r *gin.Engine, method, path, token, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func TestLedgerFlow(t *testing.T) {
	r := newTestRouter(t)

	code, _ := call(t, r, "POST", "/api/v1/auth/register", "", `{"name":"小明","email":"ming@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, "POST", "/api/v1/auth/register", "", `{"name":"小明","email":"ming@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, r, "POST", "/api/v1/auth/login", "", `{"email":"ming@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := call(t, r, "POST", "/api/v1/auth/login", "", `{"email":"ming@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	token := login.Token

	code, _ = call(t, r, "GET", "/api/v1/categories", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	// 注册时创建的默认类别
	code, env = call(t, r, "GET", "/api/v1/categories", token, "")
	require.Equal(t, http.StatusOK, code)
	var cats []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	require.Len(t, cats, 2)
	ids := map[string]uint{}
	for _, c := range cats {
		ids[c.Name] = c.ID
	}

	code, _ = call(t, r, "POST", "/api/v1/transactions", token, fmt.Sprintf(`{"amount":"100","category_id":%d,"date":"2024-05-01"}`, ids["salary"]))
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, "POST", "/api/v1/transactions", token, fmt.Sprintf(`{"amount":"30","category_id":%d,"date":"2024-05-02"}`, ids["food"]))
	require.Equal(t, http.StatusOK, code)
	code, env = call(t, r, "POST", "/api/v1/transactions", token, fmt.Sprintf(`{"amount":"70.01","category_id":%d}`, ids["food"]))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Message, "70.00")

	code, env = call(t, r, "GET", "/api/v1/statistics/summary", token, "")
	require.Equal(t, http.StatusOK, code)
	var sum map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, "70", sum["balance"])

	code, env = call(t, r, "GET", "/api/v1/auth/profile", token, "")
	require.Equal(t, http.StatusOK, code)
	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "70", profile["balance"])
	assert.NotContains(t, profile, "password_hash")

	code, _ = call(t, r, "DELETE", fmt.Sprintf("/api/v1/categories/%d", ids["food"]), token, "")
	require.Equal(t, http.StatusOK, code)
	code, env = call(t, r, "GET", "/api/v1/statistics/summary", token, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, "100", sum["balance"])
	assert.Equal(t, "0", sum["total_expense"])

	code, _ = call(t, r, "PUT", "/api/v1/auth/password", token, `{"old_password":"secret123","new_password":"secret456"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestHealthAndCORS(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/v1/transactions", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/transactions")
}
