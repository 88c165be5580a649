package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	apperrors "github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/errors"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/utils"
)

// AuthMiddleware validates the Bearer token and checks it against the
// X-Tenant-ID header the mobile client sends on every request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		tenantCode := c.GetHeader("X-Tenant-ID")
		if tenantCode == "" || tenantCode != claims.TenantCode {
			c.JSON(apperrors.ErrTenantMismatch.Code, gin.H{"error": apperrors.ErrTenantMismatch.Message})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, "id = ? AND tenant_code = ?", claims.UserID, tenantCode).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("tenantCode", tenantCode)
		c.Next()
	}
}
