package service_test

import (
	"context"
	"testing"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/repository/memory"
	"studyhub/classroom-app/internal/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newAuthService() service.AuthService {
	return service.NewAuthService(memory.NewUserRepository(), testJWTSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	user, err := svc.Register(ctx, "Greta Jansone", "greta@example.com", "s3cret", domain.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeacher, user.Role)
	assert.Empty(t, user.PasswordHash, "hash never leaves the service")

	token, loggedIn, err := svc.Login(ctx, "greta@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	claims := &service.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "greta@example.com", claims.Email)
	assert.Equal(t, domain.RoleTeacher, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	_, err := svc.Register(ctx, "Greta", "greta@example.com", "s3cret", domain.RoleTeacher)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Impostor", "greta@example.com", "other", domain.RoleStudent)
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Register(context.Background(), "Greta", "greta@example.com", "s3cret", domain.Role("admin"))
	assert.True(t, service.IsValidationError(err), "expected validation error, got %v", err)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	_, err := svc.Register(ctx, "Greta", "greta@example.com", "s3cret", domain.RoleTeacher)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "greta@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}
