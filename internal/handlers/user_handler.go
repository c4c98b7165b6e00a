package handlers

import (
	"errors"
	"log"
	"net/http"

	"schedulsy-api/internal/database"
	"schedulsy-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// UserResponse is the public view of the signed-in user.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	users *database.UserRepository
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *database.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile handles GET /api/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	user, err := h.users.FindByID(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		DisplayName: user.DisplayName(),
	})
}
