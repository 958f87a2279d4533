package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
}

func NewPaymentHandler(service payment.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.process)
	router.GET("/booking/:id", h.listByBooking)
}

func (h *PaymentHandler) process(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req payment.ProcessPaymentInput
	if !bindJSON(c, &req) {
		return
	}
	paid, err := h.service.ProcessPayment(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paid)
}

func (h *PaymentHandler) listByBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	payments, err := h.service.ListByBooking(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
