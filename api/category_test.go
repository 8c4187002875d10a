package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"budget/models"
	"budget/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryRouter(env *testEnv, userID uint) *gin.Engine {
	h := NewCategoryHandler(env.ledger)
	r := gin.New()
	r.Use(setUserIDMiddleware(userID))
	r.GET("/categories", h.List)
	r.POST("/categories", h.Create)
	r.GET("/categories/:id", h.Get)
	r.PUT("/categories/:id", h.Update)
	r.DELETE("/categories/:id", h.Delete)
	return r
}

func TestCategoryHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateUser(t, env.db, "a@x.com", "0")
	r := categoryRouter(env, u.ID)

	w := doJSON(r, "POST", "/categories", `{"name":"餐饮","icon_name":"food","type":"expense"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cat models.Category
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cat))
	assert.Equal(t, "餐饮", cat.Name)
	assert.Equal(t, u.ID, cat.UserID)

	w = doJSON(r, "POST", "/categories", `{"name":"餐饮","type":"expense"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, "POST", "/categories", `{"name":"其他","type":"other"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "POST", "/categories", `{"name":"工资","type":"income"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/categories?type=income", "")
	var list []models.Category
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "工资", list[0].Name)

	w = doJSON(r, "PUT", fmt.Sprintf("/categories/%d", cat.ID), `{"name":"吃饭","icon_name":"rice"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, "GET", fmt.Sprintf("/categories/%d", cat.ID), "")
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cat))
	assert.Equal(t, "吃饭", cat.Name)
	assert.Equal(t, "rice", cat.IconName)
	assert.Equal(t, models.TypeExpense, cat.Type)
}

func TestCategoryHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateUser(t, env.db, "a@x.com", "50")
	food := testutil.CreateCategory(t, env.db, u.ID, "food", models.TypeExpense)
	salary := testutil.CreateCategory(t, env.db, u.ID, "salary", models.TypeIncome)
	testutil.CreateTransaction(t, env.db, food, "40", "2024-05-01")
	testutil.CreateTransaction(t, env.db, salary, "100", "2024-05-01")
	r := categoryRouter(env, u.ID)

	w := doJSON(r, "DELETE", fmt.Sprintf("/categories/%d", salary.ID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "50", testutil.Balance(t, env.db, u.ID).String())

	w = doJSON(r, "DELETE", fmt.Sprintf("/categories/%d", food.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "90", testutil.Balance(t, env.db, u.ID).String())

	w = doJSON(r, "DELETE", fmt.Sprintf("/categories/%d", food.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	other := testutil.CreateUser(t, env.db, "b@x.com", "0")
	w = doJSON(categoryRouter(env, other.ID), "DELETE", fmt.Sprintf("/categories/%d", salary.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
