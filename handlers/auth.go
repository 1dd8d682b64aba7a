package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/byteedoc/portfolio-api/internal/admins"
	"github.com/byteedoc/portfolio-api/internal/config"
	"github.com/byteedoc/portfolio-api/internal/oidc"
	"github.com/byteedoc/portfolio-api/internal/sessions"
	"github.com/byteedoc/portfolio-api/internal/tokens"
	"github.com/byteedoc/portfolio-api/pkg/logger"
)

// LoginRequest supports password login (bootstrap account) and SSO login
// (the SPA completes the code flow and hands us the resulting id_token).
type LoginRequest struct {
	Mode     string `json:"mode" binding:"required"` // "password" | "sso"
	Username string `json:"username"`
	Password string `json:"password"`
	IDToken  string `json:"id_token"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	adminsSvc   *admins.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, a *admins.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, adminsSvc: a, sessionsSvc: s}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin *admins.Admin
	switch req.Mode {
	case "password":
		if req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}
		a, err := h.adminsSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if err == admins.ErrInvalidCredentials {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
				return
			}
			logger.Errorf("login: authenticate: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
			return
		}
		admin = a
	case "sso":
		if req.IDToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id_token required for sso mode"})
			return
		}
		claims, err := h.verifyIDToken(c.Request.Context(), req.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token", "details": err.Error()})
			return
		}
		a, err := h.adminsSvc.UpsertFromClaims(c.Request.Context(), claims)
		if err != nil {
			logger.Errorf("login: admin upsert: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "account upsert failed"})
			return
		}
		if a == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "id token missing subject"})
			return
		}
		admin = a
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported mode"})
		return
	}

	sub := admin.Sub
	if sub == "" {
		sub = admin.Username
	}
	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), sub, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("login: create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, admin, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": rft,
		"user":         admin,
		"expiresIn":    int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	admin, err := h.adminsSvc.GetBySubject(c.Request.Context(), sess.Sub)
	if err != nil || admin == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account lookup failed"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, admin, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "expires_in": int(h.cfg.JWT.AccessTokenTTL.Seconds())})
}

// Logout invalidates the refresh token and (optionally) blacklists the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	auth := c.GetHeader("Authorization")
	if auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if exp, err := parseExpFromJWT(at); err == nil {
				ttl := time.Until(exp)
				if ttl > 0 {
					if err := sessions.BlacklistAccessToken(c.Request.Context(), at, ttl); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
						return
					}
				}
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// verifyIDToken validates the SSO id_token against the configured issuer.
// ALLOW_INSECURE_TOKEN=true downgrades to payload-only parsing for local
// development without a reachable identity provider.
func (h *AuthHandler) verifyIDToken(ctx context.Context, idToken string) (map[string]interface{}, error) {
	issuer := strings.TrimRight(h.cfg.Keycloak.URL, "/") + "/realms/" + h.cfg.Keycloak.Realm
	ver, err := oidc.NewVerifier(ctx, issuer, h.cfg.Keycloak.ClientID)
	if err != nil {
		if strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN"))) == "true" {
			iv := oidc.NewInsecureVerifier()
			tkn, err := iv.Verify(ctx, idToken)
			if err != nil {
				return nil, err
			}
			var claims map[string]interface{}
			if err := tkn.Claims(&claims); err != nil {
				return nil, err
			}
			return claims, nil
		}
		return nil, err
	}
	idt, err := ver.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	var claims map[string]interface{}
	if err := idt.Claims(&claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// parseExpFromJWT decodes the JWT payload and returns the `exp` claim as time.Time.
// Payload-only parsing (no signature verification), used to compute the
// remaining TTL when blacklisting a token.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	payload := parts[1]
	b, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		b, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return time.Time{}, err
		}
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	v, ok := claims["exp"]
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	switch vv := v.(type) {
	case float64:
		return time.Unix(int64(vv), 0), nil
	case json.Number:
		i64, err := vv.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(i64, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported exp type %T", v)
	}
}
