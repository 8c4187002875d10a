package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"budget/config"
	"budget/ledger"
	"budget/service"
	"budget/stats"
	"budget/store"
	"budget/testutil"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	store    *store.Store
	ledger   *ledger.Service
	stats    *stats.Service
	accounts *service.AccountService
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewSQLite(t)
	st := store.New(db)
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Ledger: config.LedgerConfig{
			RecentLimit:       20,
			DefaultCategories: []config.DefaultCategory{{Key: "food", Type: "expense"}, {Key: "salary", Type: "income"}},
		},
	}
	return &testEnv{
		db:       db,
		store:    st,
		ledger:   ledger.NewService(st, zerolog.Nop()),
		stats:    stats.NewService(st),
		accounts: service.NewAccountService(st, cfg, nil, zerolog.Nop()),
		cfg:      cfg,
	}
}

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type testResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
