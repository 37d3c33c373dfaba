package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	authsvc "tubo/internal/app/services/auth"
	domainuser "tubo/internal/domain/user"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Social(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
	UpdateProfile(c *gin.Context)
}

type AuthHandler struct {
	Gateway *authsvc.Gateway
	Logger  *slog.Logger
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Currency    string `json:"currency"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialRequest struct {
	IDToken string `json:"id_token"`
}

type profileResponse struct {
	UID              string    `json:"uid"`
	DisplayName      string    `json:"display_name"`
	Email            string    `json:"email"`
	PhotoURL         string    `json:"photo_url,omitempty"`
	Role             string    `json:"role"`
	Currency         string    `json:"currency"`
	IsHostRegistered bool      `json:"is_host_registered"`
	JoinedAt         time.Time `json:"joined_at"`
}

type authResponse struct {
	Profile profileResponse `json:"profile"`
	Token   string          `json:"token"`
}

func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.Gateway.Register(c.Request.Context(), authsvc.RegisterParams{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Currency:    req.Currency,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{Profile: newProfileResponse(result.Profile), Token: result.Token})
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.Gateway.Login(c.Request.Context(), authsvc.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Profile: newProfileResponse(result.Profile), Token: result.Token})
}

func (h AuthHandler) Social(c *gin.Context) {
	var req socialRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.Gateway.SocialLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Profile: newProfileResponse(result.Profile), Token: result.Token})
}

func (h AuthHandler) Logout(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if p, ok := currentPrincipal(c); ok {
		token = p.Token
	}
	if err := h.Gateway.Logout(c.Request.Context(), token); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("logout failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	profile, err := h.Gateway.Users.ByID(c.Request.Context(), domainuser.ID(p.UID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(profile))
}

type updateProfileRequest struct {
	DisplayName      *string `json:"display_name"`
	PhotoURL         *string `json:"photo_url"`
	Role             *string `json:"role"`
	Currency         *string `json:"currency"`
	IsHostRegistered *bool   `json:"is_host_registered"`
}

func (h AuthHandler) UpdateProfile(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	upd := domainuser.ProfileUpdate{
		DisplayName:      req.DisplayName,
		PhotoURL:         req.PhotoURL,
		Currency:         req.Currency,
		IsHostRegistered: req.IsHostRegistered,
	}
	if req.Role != nil {
		role := domainuser.Role(*req.Role)
		upd.Role = &role
	}
	profile, err := h.Gateway.UpdateProfile(c.Request.Context(), domainuser.ID(p.UID), upd)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(profile))
}

func (h AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials), errors.Is(err, authsvc.ErrIdentityRejected):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, authsvc.ErrPasswordTooShort),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, domainuser.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainuser.ErrEmailAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		if h.Logger != nil {
			h.Logger.Error("auth operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func newProfileResponse(p *domainuser.Profile) profileResponse {
	return profileResponse{
		UID:              string(p.UID),
		DisplayName:      p.DisplayName,
		Email:            p.Email,
		PhotoURL:         p.PhotoURL,
		Role:             string(p.Role),
		Currency:         p.Currency,
		IsHostRegistered: p.IsHostRegistered,
		JoinedAt:         p.JoinedAt,
	}
}

var _ AuthHTTP = AuthHandler{}
