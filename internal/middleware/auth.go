package middleware

import (
	"errors"
	"net/http"
	"strings"

	pkgAuth "psychic-poker/pkg/auth"
	"psychic-poker/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextAdminIDKey = "adminID"
)

func AdminAuthRequired(issuer *pkgAuth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := issuer.ParseAdminToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ContextAdminIDKey, claims.SubjectID)
		c.Next()
	}
}

func extractBearerToken(authHeader string) (string, error) {
	if strings.TrimSpace(authHeader) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
