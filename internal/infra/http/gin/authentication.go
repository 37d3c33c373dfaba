package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	authsvc "tubo/internal/app/services/auth"
	domainauth "tubo/internal/domain/auth"
	domainuser "tubo/internal/domain/user"
)

const principalContextKey = "tubo.principal"

type principal struct {
	UID      string
	Email    string
	Name     string
	Role     string
	Currency string
	Token    string
}

// AuthMiddleware resolves a bearer token to a principal. Requests without a
// valid token pass through anonymous; individual routes enforce authentication.
type AuthMiddleware struct {
	Gateway *authsvc.Gateway
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Gateway == nil {
		c.Next()
		return
	}
	profile, err := m.Gateway.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	setPrincipal(c, newPrincipal(profile, token))
	c.Next()
}

func newPrincipal(p *domainuser.Profile, token string) principal {
	return principal{
		UID:      string(p.UID),
		Email:    p.Email,
		Name:     p.DisplayName,
		Role:     string(p.Role),
		Currency: p.Currency,
		Token:    token,
	}
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// requireGuest rejects anonymous requests.
func requireGuest(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

// requireHost additionally demands the host role.
func requireHost(c *gin.Context) (principal, bool) {
	p, ok := requireGuest(c)
	if !ok {
		return principal{}, false
	}
	if p.Role != string(domainuser.RoleHost) {
		c.JSON(http.StatusForbidden, gin.H{"error": "host role required"})
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// displayCurrency picks the profile currency unless the request overrides it.
func displayCurrency(c *gin.Context) string {
	if q := strings.ToUpper(strings.TrimSpace(c.Query("currency"))); q != "" {
		return q
	}
	if p, ok := currentPrincipal(c); ok && p.Currency != "" {
		return p.Currency
	}
	return ""
}
