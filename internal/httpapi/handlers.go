package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/larderhq/larder/internal/service"
	"github.com/larderhq/larder/pkg/types"
)

// recipeHandler serves the /v1/recipes routes.
type recipeHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func (h *recipeHandler) registerRoutes(engine *gin.Engine) {
	recipes := engine.Group("/v1/recipes")
	{
		recipes.GET("", h.list)
		recipes.POST("", h.create)
		recipes.GET("/:id", h.get)
		recipes.PUT("/:id", h.update)
		recipes.DELETE("/:id", h.remove)
	}
}

func (h *recipeHandler) list(c *gin.Context) {
	recipes, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *recipeHandler) create(c *gin.Context) {
	recipe, err := service.Decode(c.Request.Body)
	if err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), recipe)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/v1/recipes/%s", created.ID))
	c.JSON(http.StatusCreated, created)
}

func (h *recipeHandler) get(c *gin.Context) {
	recipe, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *recipeHandler) update(c *gin.Context) {
	recipe, err := service.Decode(c.Request.Body)
	if err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), recipe)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *recipeHandler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps service errors to API responses. Validation problems echo their
// field messages; storage failures are logged and answered with a fixed
// body so raw backend text never reaches a caller.
func (h *recipeHandler) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrInvalidID):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, types.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "recipe already exists"})
	default:
		h.logger.Error("storage failure", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
