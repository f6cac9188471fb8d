package handler

import (
	"net/http"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/auth"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg      *config.JWTConfig
	userRepo *repository.UserAccountRepository
}

func NewAuthHandler(cfg *config.JWTConfig, userRepo *repository.UserAccountRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, userRepo: userRepo}
}

// Login verifies credentials and issues an access token. The session/MFA
// machinery in front of this is out of scope; this is the minimal guard the
// settlement surface needs.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := h.userRepo.GetByEmail(req.Email)
	if err != nil || account.Disabled {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := auth.GenerateAccessToken(h.cfg, account.ID, account.Email, account.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}
