package points_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/modules/points"
	"github.com/mapmark/core/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	r := gin.New()
	h := points.NewHandler(points.NewService(backend, store.NewIDGenerator()), nil)
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListEmpty(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/points", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreateThenList(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/points", `{"lat":22.3,"lng":114.1,"category":"restaurant","tag":"Dim Sum"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var created models.Point
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.Timestamp)
	assert.Equal(t, models.DefaultUsername, created.Username)
	assert.Equal(t, "Dim Sum", created.Tag)

	w = do(r, http.MethodGet, "/api/points", "")
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Point
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateBadBody(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/points", `{"lat":"not a number"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/points", `{"lat":1,"lng":2,"tag":"doomed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created models.Point
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/points/%d", created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/points", "")
	assert.JSONEq(t, "[]", w.Body.String())

	// Deleting an id that is already gone still reports success.
	w = do(r, http.MethodDelete, fmt.Sprintf("/api/points/%d", created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestDeleteBadID(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodDelete, "/api/points/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplace(t *testing.T) {
	r := newRouter(t)

	body := `[{"id":10,"lat":1,"lng":2,"tag":"a"},{"id":11,"lat":3,"lng":4,"tag":"b"}]`
	w := do(r, http.MethodPut, "/api/points", body)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/points", "")
	var listed []models.Point
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, int64(10), listed[0].ID)

	// Ids already present in the collection are never re-issued.
	w = do(r, http.MethodPost, "/api/points", `{"lat":5,"lng":6,"tag":"new"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created models.Point
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Greater(t, created.ID, int64(11))
}
