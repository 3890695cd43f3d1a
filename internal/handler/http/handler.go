// Package http exposes the credential flows over a gin HTTP API.
package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	accountdomain "eduplatform/backend/internal/account/domain"
	"eduplatform/backend/internal/credential/service"
	otcdomain "eduplatform/backend/internal/otc/domain"
	"eduplatform/backend/internal/security"
)

// Handler holds the credential service behind the auth endpoints.
type Handler struct {
	svc *service.Service
}

// NewHandler returns a Handler for the given credential service.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Email    string            `json:"email" binding:"required"`
	Password string            `json:"password" binding:"required"`
	Name     string            `json:"name"`
	Profile  map[string]string `json:"profile"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type challengeResponse struct {
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expiresAt"`
	Message   string    `json:"message"`
}

type accountResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Profile   map[string]string `json:"profile,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func toAccountResponse(a *accountdomain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Profile:   a.Profile,
		CreatedAt: a.CreatedAt,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request payload")
		return
	}
	challenge, err := h.svc.Register(c.Request.Context(), service.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Profile:  req.Profile,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, challengeResponse{
		Identity:  challenge.Identity,
		ExpiresAt: challenge.ExpiresAt,
		Message:   "verification code sent",
	})
}

// ConfirmRegistration handles POST /api/v1/auth/register/verify.
func (h *Handler) ConfirmRegistration(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request payload")
		return
	}
	account, err := h.svc.ConfirmRegistration(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": toAccountResponse(account)})
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request payload")
		return
	}
	challenge, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, challengeResponse{
		Identity:  challenge.Identity,
		ExpiresAt: challenge.ExpiresAt,
		Message:   "verification code sent",
	})
}

// ConfirmLogin handles POST /api/v1/auth/login/verify.
func (h *Handler) ConfirmLogin(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request payload")
		return
	}
	account, err := h.svc.ConfirmLogin(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": toAccountResponse(account)})
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// writeServiceError maps service errors to HTTP statuses. Unknown-account and
// wrong-password collapse into one message, as do unknown and mismatched codes,
// so responses do not reveal which identities or challenges exist.
func writeServiceError(c *gin.Context, err error) {
	var weak *service.WeakPasswordError
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		writeBadRequest(c, "invalid email address")
	case errors.As(err, &weak):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "password too weak",
			"failedChecks": weak.Result.Failed(),
			"score":        weak.Result.Score,
		})
	case errors.Is(err, service.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, otcdomain.ErrNotFound), errors.Is(err, otcdomain.ErrCodeMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid verification code"})
	case errors.Is(err, otcdomain.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "verification code expired"})
	case isDeliveryError(err):
		log.Printf("http: code delivery failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to deliver verification code"})
	case errors.Is(err, security.ErrInvalidRecordFormat):
		log.Printf("http: stored credential record unreadable: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		log.Printf("http: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isDeliveryError(err error) bool {
	var delivery *service.DeliveryError
	return errors.As(err, &delivery)
}
