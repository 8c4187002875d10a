package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"testing"

	"budget/models"
	"budget/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRouter(env *testEnv, userID uint) *gin.Engine {
	h := NewExportHandler(env.ledger)
	r := gin.New()
	r.Use(setUserIDMiddleware(userID))
	r.GET("/export/csv", h.ExportCSV)
	r.GET("/export/json", h.ExportJSON)
	r.GET("/export/excel", h.ExportExcel)
	return r
}

func seedExport(t *testing.T, env *testEnv) uint {
	u := testutil.CreateUser(t, env.db, "a@x.com", "0")
	food := testutil.CreateCategory(t, env.db, u.ID, "餐饮", models.TypeExpense)
	salary := testutil.CreateCategory(t, env.db, u.ID, "工资", models.TypeIncome)
	testutil.CreateTransaction(t, env.db, salary, "1000", "2024-01-01")
	testutil.CreateTransaction(t, env.db, food, "12.5", "2024-01-15")
	testutil.CreateTransaction(t, env.db, food, "20", "2024-02-01")
	return u.ID
}

func TestExportHandler_CSV(t *testing.T) {
	env := newTestEnv(t)
	r := exportRouter(env, seedExport(t, env))

	w := doJSON(r, "GET", "/export/csv?from=2024-01-01&to=2024-01-31", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transactions_2024-01-01_2024-01-31.csv")

	body := bytes.TrimPrefix(w.Body.Bytes(), []byte("\xEF\xBB\xBF"))
	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"2024-01-15", "支出", "餐饮", "12.50", ""}, rows[1][1:])
	assert.Equal(t, "收入", rows[2][2])
}

func TestExportHandler_JSON(t *testing.T) {
	env := newTestEnv(t)
	r := exportRouter(env, seedExport(t, env))

	w := doJSON(r, "GET", "/export/json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var result ExportResult
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &result))
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, "1000", result.TotalIncome.String())
	assert.Equal(t, "32.5", result.TotalExpense.String())

	w = doJSON(r, "GET", "/export/json?from=bad", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandler_Excel(t *testing.T) {
	env := newTestEnv(t)
	r := exportRouter(env, seedExport(t, env))

	w := doJSON(r, "GET", "/export/excel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "2024-02-01", rows[1][1])
	assert.Equal(t, "合计", rows[len(rows)-1][0])
}
