package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larderhq/larder/internal/memory"
	"github.com/larderhq/larder/internal/service"
	"github.com/larderhq/larder/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(":0", service.New(memory.New()), logger)
}

func performRequest(srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func recipePayload(name string) map[string]any {
	return map[string]any{
		"name":          name,
		"datePublished": "2023-02-11",
		"description":   "Eggs poached in spiced tomato sauce",
		"rating":        4.2,
		"prepTime":      "00:10",
		"cookTime":      "00:20",
		"ingredients":   []string{"eggs", "tomatoes"},
		"instructions":  []string{"simmer", "crack", "cover"},
		"nutrition":     map[string]any{"servingSize": "1 pan", "calories": 380},
	}
}

func TestCreateRecipe(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodPost, "/v1/recipes", recipePayload("Shakshuka"))
	require.Equal(t, http.StatusCreated, w.Code)

	var created types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Shakshuka", created.Name)
	assert.Equal(t, "/v1/recipes/"+created.ID, w.Header().Get("Location"))
}

func TestCreateRecipeValidationFailure(t *testing.T) {
	srv := newTestServer()

	payload := recipePayload("Bad")
	payload["description"] = "too short"

	w := performRequest(srv, http.MethodPost, "/v1/recipes", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.NotEmpty(t, body.Fields)
}

func TestCreateRecipeUnknownFieldRejected(t *testing.T) {
	srv := newTestServer()

	payload := recipePayload("Strict")
	payload["chef"] = "somebody"

	w := performRequest(srv, http.MethodPost, "/v1/recipes", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRecipe(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodPost, "/v1/recipes", recipePayload("Shakshuka"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = performRequest(srv, http.MethodGet, "/v1/recipes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created, got)
}

func TestGetRecipeNotFound(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodGet, "/v1/recipes/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipes(t *testing.T) {
	srv := newTestServer()

	for _, name := range []string{"One", "Two", "Three"} {
		w := performRequest(srv, http.MethodPost, "/v1/recipes", recipePayload(name))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := performRequest(srv, http.MethodGet, "/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var all []types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3)
}

func TestListRecipesEmpty(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodGet, "/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUpdateRecipe(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodPost, "/v1/recipes", recipePayload("Original"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Replacement omits rating; full-replace semantics drop the old value.
	replacement := recipePayload("Replaced")
	delete(replacement, "rating")

	w = performRequest(srv, http.MethodPut, "/v1/recipes/"+created.ID, replacement)
	require.Equal(t, http.StatusOK, w.Code)

	var updated types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Replaced", updated.Name)
	assert.Nil(t, updated.Rating)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodPut, "/v1/recipes/missing", recipePayload("X"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodPost, "/v1/recipes", recipePayload("Doomed"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = performRequest(srv, http.MethodDelete, "/v1/recipes/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(srv, http.MethodGet, "/v1/recipes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipeNotFound(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodDelete, "/v1/recipes/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()

	w := performRequest(srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
