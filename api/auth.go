package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/service/users"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service users.UserUseCase
}

func NewAuthHandler(service users.UserUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register mounts the auth routes; authenticate guards /me.
func (h *AuthHandler) Register(router *gin.RouterGroup, authenticate gin.HandlerFunc) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/me", authenticate, h.me)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req users.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req users.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := h.service.GetProfile(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
