package services

import (
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

// BadgeStats collects the per-user counters badge conditions are
// evaluated against.
func BadgeStats(userID int) map[string]int64 {
	var completedCount int64
	database.DB.Model(&models.Task{}).
		Where("\"userId\" = ? AND status = ?", userID, models.TaskStatusCompleted).
		Count(&completedCount)

	var assignedCount int64
	database.DB.Model(&models.Task{}).
		Where("\"userId\" = ?", userID).
		Count(&assignedCount)

	var highPriorityCount int64
	database.DB.Model(&models.Task{}).
		Where("\"userId\" = ? AND status = ? AND priority = ?", userID, models.TaskStatusCompleted, models.TaskPriorityHigh).
		Count(&highPriorityCount)

	return map[string]int64{
		"tasks_completed":      completedCount,
		"tasks_assigned":       assignedCount,
		"high_priority_closed": highPriorityCount,
	}
}

// CheckBadges awards any badge whose threshold the user just crossed
// and returns the newly earned records. Already-owned badges are
// skipped, so the check is safe to run after every completion.
func CheckBadges(userID int) ([]models.UserBadge, error) {
	var existingBadgeIDs []int
	database.DB.Model(&models.UserBadge{}).Where("user_id = ?", userID).Pluck("badge_id", &existingBadgeIDs)

	existingSet := make(map[int]bool)
	for _, id := range existingBadgeIDs {
		existingSet[id] = true
	}

	stats := BadgeStats(userID)

	var definitions []models.Badge
	if err := database.DB.Where("is_active = ?", true).Find(&definitions).Error; err != nil {
		return nil, err
	}

	var earned []models.UserBadge
	for _, badge := range definitions {
		if existingSet[badge.ID] {
			continue
		}

		progress, ok := stats[badge.Condition]
		if !ok {
			continue
		}

		if progress >= int64(badge.Threshold) {
			userBadge := models.UserBadge{
				UserID:   userID,
				BadgeID:  badge.ID,
				Progress: int(progress),
			}
			if err := database.DB.Create(&userBadge).Error; err != nil {
				logger.Error().Err(err).Int("badge_id", badge.ID).Msg("Failed to award badge")
				continue
			}
			userBadge.Badge = badge
			earned = append(earned, userBadge)
		}
	}

	return earned, nil
}
