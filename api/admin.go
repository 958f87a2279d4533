package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/service/airports"
	"github.com/Domenick1991/flightdesk/internal/service/dashboard"
	"github.com/gin-gonic/gin"
)

type AirportHandler struct {
	service airports.AirportUseCase
}

func NewAirportHandler(service airports.AirportUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *AirportHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AirportHandler) create(c *gin.Context) {
	var req airports.AirportInput
	if !bindJSON(c, &req) {
		return
	}
	airport, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airport)
}

func (h *AirportHandler) update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req airports.AirportInput
	if !bindJSON(c, &req) {
		return
	}
	airport, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

func (h *AirportHandler) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "airport deleted"})
}

type DashboardHandler struct {
	service dashboard.DashboardUseCase
}

func NewDashboardHandler(service dashboard.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("/dashboard", h.stats)
}

func (h *DashboardHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
