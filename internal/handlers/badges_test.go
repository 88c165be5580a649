package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
)

func findBadgeRow(rows []models.BadgeWithProgress, name string) *models.BadgeWithProgress {
	for i := range rows {
		if rows[i].Badge.Name == name {
			return &rows[i]
		}
	}
	return nil
}

func TestGetBadgesReportsProgressAndEarnedState(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	me := models.User{Username: "me_badges", TenantCode: "t_badges"}
	database.DB.Create(&me)
	milestone := models.Milestone{Name: "Depot badges", TenantCode: "t_badges"}
	database.DB.Create(&milestone)

	earned := models.Badge{Name: "Earned badge t_badges", Condition: "tasks_completed", Threshold: 1, IsActive: true}
	pending := models.Badge{Name: "Pending badge t_badges", Condition: "tasks_completed", Threshold: 5, IsActive: true}
	database.DB.Create(&earned)
	database.DB.Create(&pending)

	// Two completed tasks: the threshold-1 badge is owned, the
	// threshold-5 badge sits at 2/5.
	now := time.Now()
	for _, name := range []string{"Done 1", "Done 2"} {
		database.DB.Create(&models.Task{Name: name, UserID: me.ID, MilestoneID: milestone.ID, Status: models.TaskStatusCompleted, CompletedAt: &now})
	}
	database.DB.Create(&models.UserBadge{UserID: me.ID, BadgeID: earned.ID, Progress: 1, EarnedAt: now})

	w := httptest.NewRecorder()
	c := authedContext(w, me)
	c.Request, _ = http.NewRequest("GET", "/api/badges", nil)

	GetBadges(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.BadgesResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, len(response.Data), response.Meta.TotalBadges)

	earnedRow := findBadgeRow(response.Data, earned.Name)
	assert.NotNil(t, earnedRow)
	if earnedRow != nil {
		assert.True(t, earnedRow.Earned)
		assert.NotNil(t, earnedRow.EarnedAt)
		assert.Equal(t, 100, earnedRow.Progress.Percentage)
	}

	pendingRow := findBadgeRow(response.Data, pending.Name)
	assert.NotNil(t, pendingRow)
	if pendingRow != nil {
		assert.False(t, pendingRow.Earned)
		assert.Nil(t, pendingRow.EarnedAt)
		assert.Equal(t, 2, pendingRow.Progress.Current)
		assert.Equal(t, 5, pendingRow.Progress.Required)
		assert.Equal(t, 40, pendingRow.Progress.Percentage)
	}
}

func TestGetBadgesSerializesCriteria(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	me := models.User{Username: "me_criteria", TenantCode: "t_criteria"}
	database.DB.Create(&me)
	badge := models.Badge{Name: "Criteria badge t_criteria", Condition: "tasks_assigned", Threshold: 10, IsActive: true}
	database.DB.Create(&badge)

	w := httptest.NewRecorder()
	c := authedContext(w, me)
	c.Request, _ = http.NewRequest("GET", "/api/badges", nil)

	GetBadges(c)

	var response struct {
		Data []struct {
			Badge struct {
				Name     string                 `json:"name"`
				Criteria map[string]interface{} `json:"criteria"`
			} `json:"badge"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	found := false
	for _, row := range response.Data {
		if row.Badge.Name == badge.Name {
			found = true
			assert.Equal(t, "tasks_assigned", row.Badge.Criteria["condition"])
			assert.Equal(t, float64(10), row.Badge.Criteria["threshold"])
		}
	}
	assert.True(t, found)
}

func TestGetEarnedBadgesNewestFirst(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	me := models.User{Username: "me_earned", TenantCode: "t_earned"}
	database.DB.Create(&me)

	first := models.Badge{Name: "Old badge t_earned", Condition: "tasks_completed", Threshold: 1, IsActive: true}
	second := models.Badge{Name: "New badge t_earned", Condition: "tasks_completed", Threshold: 5, IsActive: true}
	database.DB.Create(&first)
	database.DB.Create(&second)

	database.DB.Create(&models.UserBadge{UserID: me.ID, BadgeID: first.ID, Progress: 1, EarnedAt: time.Now().Add(-2 * time.Hour)})
	database.DB.Create(&models.UserBadge{UserID: me.ID, BadgeID: second.ID, Progress: 5, EarnedAt: time.Now().Add(-time.Minute)})

	w := httptest.NewRecorder()
	c := authedContext(w, me)
	c.Request, _ = http.NewRequest("GET", "/api/badges/earned", nil)

	GetEarnedBadges(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.EarnedBadgesResponse
	json.Unmarshal(w.Body.Bytes(), &response)

	assert.Len(t, response.Data, 2)
	assert.Equal(t, 2, response.Meta.TotalEarned)
	if len(response.Data) >= 2 {
		assert.Equal(t, second.Name, response.Data[0].Badge.Name)
		assert.Equal(t, first.Name, response.Data[1].Badge.Name)
	}
}

func TestGetEarnedBadgesEmptyForNewUser(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	me := models.User{Username: "me_noearned", TenantCode: "t_noearned"}
	database.DB.Create(&me)

	w := httptest.NewRecorder()
	c := authedContext(w, me)
	c.Request, _ = http.NewRequest("GET", "/api/badges/earned", nil)

	GetEarnedBadges(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.EarnedBadgesResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Empty(t, response.Data)
	assert.Equal(t, 0, response.Meta.TotalEarned)
}
