package middleware

import (
	"errors"
	"net/http"
	"strings"

	"servicehub/internal/domain/entities"
	"servicehub/pkg"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

type claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// Auth validates the Bearer token and stores the authenticated Actor in the
// gin context. Webhook and health routes are mounted outside this middleware.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := actorFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid credentials", http.StatusUnauthorized)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFrom returns the authenticated actor stored by Auth.
func ActorFrom(c *gin.Context) (entities.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

func actorFromHeader(header, secret string) (entities.Actor, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return entities.Actor{}, ErrMissingToken
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if raw == "" {
		return entities.Actor{}, ErrMissingToken
	}

	var cl claims
	token, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return entities.Actor{}, ErrInvalidToken
	}
	if cl.Subject == "" {
		return entities.Actor{}, ErrInvalidToken
	}

	role := entities.Role(cl.Role)
	switch role {
	case entities.RoleClient, entities.RoleProvider, entities.RoleAdmin:
	default:
		return entities.Actor{}, ErrInvalidToken
	}

	return entities.Actor{ID: cl.Subject, Role: role}, nil
}
