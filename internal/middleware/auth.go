package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"chargenow/internal/domain"
)

const principalKey = "principal"

// Claims are the bearer token claims issued by the identity provider. Role
// is "rider", "operator" or "admin"; the legacy integers 1 (rider) and
// 2 (operator) are also accepted.
type Claims struct {
	ID   int64 `json:"id"`
	Role any   `json:"role"`
	jwt.RegisteredClaims
}

// ParsePrincipal verifies an HS256 token and returns the principal it carries.
func ParsePrincipal(tokenString string, secret []byte) (domain.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	role, err := normalizeRole(claims.Role)
	if err != nil {
		return nil, err
	}

	switch role {
	case domain.RoleAdmin:
		return domain.AdminPrincipal{}, nil
	case domain.RoleRider, domain.RoleOperator:
		if claims.ID <= 0 {
			return nil, errors.New("token has no subject id")
		}
		if role == domain.RoleRider {
			return domain.RiderPrincipal{ID: claims.ID}, nil
		}
		return domain.OperatorPrincipal{ID: claims.ID}, nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}

func normalizeRole(v any) (string, error) {
	switch r := v.(type) {
	case string:
		return strings.ToLower(r), nil
	case float64:
		switch r {
		case 1:
			return domain.RoleRider, nil
		case 2:
			return domain.RoleOperator, nil
		}
	}
	return "", fmt.Errorf("unsupported role claim %v", v)
}

// Authenticate rejects requests without a valid bearer token and stores the
// principal in the context.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, "missing or invalid Authorization header")
			return
		}

		principal, err := ParsePrincipal(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by Authenticate, or nil.
func CurrentPrincipal(c *gin.Context) domain.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(domain.Principal)
	return p
}

// abort writes the standard response envelope and stops the chain.
func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}
