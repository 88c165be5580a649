package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/utils"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /login — tenant-scoped via the X-Tenant-ID header.
func Login(c *gin.Context) {
	tenantCode := c.GetHeader("X-Tenant-ID")
	if tenantCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Tenant-ID header required"})
		return
	}

	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if result := database.DB.Where("username = ? AND tenant_code = ?", input.Username, tenantCode).First(&user); result.Error != nil {
		logger.Warn().Str("username", input.Username).Str("tenant", tenantCode).Msg("Login failed: user not found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("username", input.Username).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.TenantCode)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Int("user_id", user.ID).Str("tenant", tenantCode).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// UpdateDeviceToken PUT /update-device-token
func UpdateDeviceToken(c *gin.Context) {
	userID := c.GetInt("userId")

	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("deviceToken", input.Token).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update device token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device token updated"})
}
