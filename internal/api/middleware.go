package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context key for the resolved caller identity
const ContextIdentityKey = "identity"

// AuthCookieName is the httpOnly cookie carrying the bearer credential for
// browser clients.
const AuthCookieName = "auth_token"

// AuthMiddleware creates a Gin middleware that resolves the caller's identity
// from a signed bearer credential, supplied either as an Authorization header
// or the auth cookie.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		if !token.Valid || claims.UserID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		subjectID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid subject in token")
			return
		}

		// Resolve the identity once; handlers and services key everything off
		// SubjectID from here on.
		c.Set(ContextIdentityKey, domain.Identity{
			SubjectID: subjectID,
			Email:     claims.Email,
			Role:      claims.Role,
		})

		c.Next()
	}
}

// bearerToken extracts the credential from the Authorization header, falling
// back to the httpOnly cookie.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// RoleMiddleware creates middleware to check if the user has one of the
// required roles. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := identityFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Caller identity not found in context")
			return
		}

		for _, role := range allowedRoles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: role '%s' does not have permission", identity.Role))
	}
}

// identityFromContext returns the resolved caller identity (used by handlers).
func identityFromContext(c *gin.Context) (domain.Identity, error) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return domain.Identity{}, errors.New("identity not found in context")
	}
	identity, ok := raw.(domain.Identity)
	if !ok {
		return domain.Identity{}, errors.New("invalid identity type in context")
	}
	return identity, nil
}
