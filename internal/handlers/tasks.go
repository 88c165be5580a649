package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/realtime"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/services"
	apperrors "github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/errors"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.JSON(err.Code, gin.H{"error": err.Message})
}

// taskChannel resolves the per-user tasks channel for event publishing.
func taskChannel(c *gin.Context) (string, bool) {
	name, err := realtime.ChannelName("tasks", c.GetString("tenantCode"), c.GetString("username"))
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot publish task event")
		return "", false
	}
	return name, true
}

func badgeChannel(c *gin.Context) (string, bool) {
	name, err := realtime.ChannelName("badges", c.GetString("tenantCode"), c.GetString("username"))
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot publish badge event")
		return "", false
	}
	return name, true
}

// ListTasks GET /tasks — the caller's tasks, newest first.
func ListTasks(c *gin.Context) {
	userID := c.GetInt("userId")

	var tasks []models.Task
	if err := database.DB.Preload("User").Preload("Milestone").
		Where("\"userId\" = ?", userID).
		Order("\"createdAt\" desc").
		Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tasks})
}

type CreateTaskInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	MilestoneID int     `json:"milestoneId" binding:"required"`
}

// CreateTask POST /tasks — creates a task for the caller and publishes
// task-created on their channel.
func CreateTask(c *gin.Context) {
	userID := c.GetInt("userId")

	var input CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var milestone models.Milestone
	if err := database.DB.First(&milestone, "id = ? AND tenant_code = ?", input.MilestoneID, c.GetString("tenantCode")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}

	task := models.Task{
		Name:        input.Name,
		Description: input.Description,
		Priority:    models.NormalizePriority(input.Priority),
		Status:      models.TaskStatusPending,
		UserID:      userID,
		MilestoneID: milestone.ID,
	}
	if input.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *input.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate"})
			return
		}
		task.DueDate = &due
	}

	if err := database.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	database.DB.Preload("User").Preload("Milestone").First(&task, task.ID)

	if channel, ok := taskChannel(c); ok {
		database.PublishEvent(channel, realtime.EventTaskCreated, realtime.TaskPayload{Task: task})
	}

	c.JSON(http.StatusCreated, gin.H{"data": task})
}

// StartTask POST /tasks/:id/start
func StartTask(c *gin.Context) {
	task, ok := loadOwnTask(c)
	if !ok {
		return
	}

	if task.Status == models.TaskStatusCompleted {
		abortWith(c, apperrors.ErrTaskCompleted)
		return
	}

	task.Start()
	if err := database.DB.Save(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start task"})
		return
	}

	if channel, ok := taskChannel(c); ok {
		database.PublishEvent(channel, realtime.EventTaskUpdated, realtime.TaskPayload{Task: *task})
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

// CompleteTask POST /tasks/:id/complete — completes the task, publishes
// task-updated, then runs the badge check and publishes badge-earned
// for anything newly awarded.
func CompleteTask(c *gin.Context) {
	task, ok := loadOwnTask(c)
	if !ok {
		return
	}

	task.Complete(time.Now())
	if err := database.DB.Save(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		return
	}

	if channel, ok := taskChannel(c); ok {
		database.PublishEvent(channel, realtime.EventTaskUpdated, realtime.TaskPayload{Task: *task})
	}

	earned, err := services.CheckBadges(task.UserID)
	if err != nil {
		logger.Error().Err(err).Int("user_id", task.UserID).Msg("Badge check failed")
	}
	if channel, ok := badgeChannel(c); ok {
		for _, ub := range earned {
			badge := ub.Badge
			badge.FillCriteria()
			database.PublishEvent(channel, realtime.EventBadgeEarned, realtime.BadgeEarnedPayload{
				Badge:    badge,
				EarnedAt: ub.EarnedAt.Format(time.RFC3339),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

// DeleteTask DELETE /tasks/:id
func DeleteTask(c *gin.Context) {
	task, ok := loadOwnTask(c)
	if !ok {
		return
	}

	if err := database.DB.Delete(&models.Task{}, task.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	if channel, ok := taskChannel(c); ok {
		database.PublishEvent(channel, realtime.EventTaskDeleted, realtime.TaskDeletedPayload{TaskID: task.ID})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// loadOwnTask fetches the :id task and enforces ownership.
func loadOwnTask(c *gin.Context) (*models.Task, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return nil, false
	}

	var task models.Task
	if err := database.DB.Preload("User").Preload("Milestone").First(&task, "id = ?", id).Error; err != nil {
		abortWith(c, apperrors.ErrTaskNotFound)
		return nil, false
	}

	if task.UserID != c.GetInt("userId") {
		abortWith(c, apperrors.ErrForbidden)
		return nil, false
	}
	return &task, true
}
