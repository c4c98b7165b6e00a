package handlers

import (
	"errors"
	"log"
	"net/http"

	"schedulsy-api/internal/auth"
	"schedulsy-api/internal/database"
	"schedulsy-api/internal/middleware"
	"schedulsy-api/internal/models"
	"schedulsy-api/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRequest represents the sign-up request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name"`
	Message     string `json:"message"`
}

// AuthHandler serves sign-up, sign-in and sign-out.
type AuthHandler struct {
	users    *database.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenIssuer
	provider *auth.Provider
	stores   *tracker.Manager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *database.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer, provider *auth.Provider, stores *tracker.Manager) *AuthHandler {
	return &AuthHandler{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		provider: provider,
		stores:   stores,
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. A valid email and a password of at least 8 characters are required.",
		})
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		log.Printf("failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Name:     req.Name,
		Password: hash,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		log.Printf("register: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	h.startSession(c, http.StatusCreated, user, "Registration successful")
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Email and password are required.",
		})
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, database.ErrUserNotFound) {
		log.Printf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}
	if user == nil || !h.hasher.Verify(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.startSession(c, http.StatusOK, user, "Login successful")
}

// Logout handles POST /api/logout
// Revokes the session token and discards the session's tasks.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	h.provider.Revoke(sess.ID)
	h.stores.Close(sess.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User, message string) {
	token, claims, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Printf("failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(status, LoginResponse{
		Token:       token,
		UserID:      user.ID,
		SessionID:   claims.SessionID(),
		DisplayName: user.DisplayName(),
		Message:     message,
	})
}
