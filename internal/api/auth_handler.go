package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService   service.AuthService
	tokenLifetime time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, tokenLifetime time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, tokenLifetime: tokenLifetime}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     domain.Role `json:"role" binding:"required,oneof=teacher student"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user (Teacher or Student)
// @Description Creates a new user account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} Envelope{data=UserResponse} "User created successfully"
// @Failure 400 {object} Envelope "Invalid input (validation error)"
// @Failure 409 {object} Envelope "Conflict (email already exists)"
// @Failure 500 {object} Envelope "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortServiceError(c, "register user", err)
		}
		return
	}

	respondCreated(c, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user, returns a JWT token and also sets it as an httpOnly cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} Envelope{data=LoginResponse} "Login successful"
// @Failure 400 {object} Envelope "Invalid input (validation error)"
// @Failure 401 {object} Envelope "Unauthorized (invalid credentials)"
// @Failure 500 {object} Envelope "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortServiceError(c, "login user", err)
		}
		return
	}

	// Browser clients authenticate via the cookie, API clients via the token.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, token, int(h.tokenLifetime.Seconds()), "/", "", false, true)

	respondOK(c, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Me godoc
// @Summary Return the caller's resolved identity
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope "Unauthorized"
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve identity")
		return
	}
	respondOK(c, gin.H{
		"userId": identity.SubjectID.Hex(),
		"email":  identity.Email,
		"role":   identity.Role,
	})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
