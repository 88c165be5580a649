package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/services"
)

// GetBadges GET /badges — every active badge with the caller's progress.
func GetBadges(c *gin.Context) {
	userID := c.GetInt("userId")

	var definitions []models.Badge
	if err := database.DB.Where("is_active = ?", true).Order("id").Find(&definitions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch badges"})
		return
	}

	var owned []models.UserBadge
	database.DB.Where("user_id = ?", userID).Find(&owned)
	ownedByBadge := make(map[int]models.UserBadge, len(owned))
	for _, ub := range owned {
		ownedByBadge[ub.BadgeID] = ub
	}

	stats := services.BadgeStats(userID)

	data := make([]models.BadgeWithProgress, 0, len(definitions))
	earnedCount := 0
	for _, badge := range definitions {
		badge.FillCriteria()
		row := models.BadgeWithProgress{Badge: badge}

		if ub, ok := ownedByBadge[badge.ID]; ok {
			earnedCount++
			row.Earned = true
			earnedAt := ub.EarnedAt
			row.EarnedAt = &earnedAt
			p := models.NewProgress(badge.Threshold, badge.Threshold)
			row.Progress = &p
		} else {
			current := int(stats[badge.Condition])
			p := models.NewProgress(current, badge.Threshold)
			row.Progress = &p
		}
		data = append(data, row)
	}

	resp := models.BadgesResponse{Data: data}
	resp.Meta.TotalBadges = len(data)
	resp.Meta.EarnedBadges = earnedCount
	c.JSON(http.StatusOK, resp)
}

// GetEarnedBadges GET /badges/earned — newest first.
func GetEarnedBadges(c *gin.Context) {
	userID := c.GetInt("userId")

	var owned []models.UserBadge
	if err := database.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at desc").
		Find(&owned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch earned badges"})
		return
	}

	data := make([]models.EarnedBadge, 0, len(owned))
	for _, ub := range owned {
		badge := ub.Badge
		badge.FillCriteria()
		data = append(data, models.EarnedBadge{
			Badge:    badge,
			EarnedAt: ub.EarnedAt,
			Progress: models.NewProgress(ub.Progress, badge.Threshold),
		})
	}

	resp := models.EarnedBadgesResponse{Data: data}
	resp.Meta.TotalEarned = len(data)
	c.JSON(http.StatusOK, resp)
}
