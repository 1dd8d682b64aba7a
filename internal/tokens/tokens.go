package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/byteedoc/portfolio-api/internal/admins"
	"github.com/byteedoc/portfolio-api/internal/config"
	"github.com/byteedoc/portfolio-api/pkg/middleware"
)

// GenerateAccessToken creates a signed JWT access token for the admin
func GenerateAccessToken(cfg *config.Config, a *admins.Admin, ttl time.Duration) (string, error) {
	sub := a.Sub
	if sub == "" {
		sub = a.Username
	}
	claims := jwt.MapClaims{
		"sub":   sub,
		"name":  a.Name,
		"email": a.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// JWTVerifier validates locally issued access tokens. It satisfies the
// middleware Verifier interface so the admin routes can be guarded the same
// way regardless of how the token was minted.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &jwtToken{claims: parsed.Claims}, nil
}

type jwtToken struct {
	claims jwt.Claims
}

func (t *jwtToken) Claims(v interface{}) error {
	mc, ok := t.claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("unexpected claims type %T", t.claims)
	}
	out, ok := v.(*map[string]interface{})
	if !ok {
		return fmt.Errorf("claims target must be *map[string]interface{}")
	}
	*out = map[string]interface{}(mc)
	return nil
}
