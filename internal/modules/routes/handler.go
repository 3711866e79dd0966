package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mapmark/core/internal/controller"
	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/pkg/response"
	"github.com/mapmark/core/internal/store"
)

type Handler struct {
	svc  *Service
	sink controller.EventSink
}

func NewHandler(svc *Service, sink controller.EventSink) *Handler {
	if sink == nil {
		sink = controller.NopSink{}
	}
	return &Handler{svc: svc, sink: sink}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rts := rg.Group("/routes")
	rts.GET("", h.list)
	rts.POST("", h.create)
	rts.PUT("", h.replace)
	rts.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	routes, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateRouteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	route, err := h.svc.Create(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, store.ErrInvalidRoute) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	h.sink.Publish(controller.EventRouteCreated, route)
	c.JSON(http.StatusOK, route)
}

func (h *Handler) replace(c *gin.Context) {
	var routes []models.Route
	if err := c.ShouldBindJSON(&routes); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Replace(c.Request.Context(), routes); err != nil {
		response.InternalError(c, err)
		return
	}
	h.sink.Publish(controller.EventRoutesUpdated, routes)
	response.NoContent(c)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid route id")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.InternalError(c, err)
		return
	}
	h.sink.Publish(controller.EventRouteDeleted, id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
