package points

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mapmark/core/internal/controller"
	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/pkg/response"
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
	pts := rg.Group("/points")
	pts.GET("", h.list)
	pts.POST("", h.create)
	pts.PUT("", h.replace)
	pts.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	points, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	// Legacy clients expect a bare array, not an envelope.
	c.JSON(http.StatusOK, points)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePointDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	point, err := h.svc.Create(c.Request.Context(), dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.sink.Publish(controller.EventPointCreated, point)
	c.JSON(http.StatusOK, point)
}

func (h *Handler) replace(c *gin.Context) {
	var points []models.Point
	if err := c.ShouldBindJSON(&points); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Replace(c.Request.Context(), points); err != nil {
		response.InternalError(c, err)
		return
	}
	h.sink.Publish(controller.EventPointsUpdated, points)
	response.NoContent(c)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid point id")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.InternalError(c, err)
		return
	}
	h.sink.Publish(controller.EventPointDeleted, id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
