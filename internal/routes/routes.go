package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/handlers"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/middleware"
)

// Register wires the dev server API surface.
func Register(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/login", middleware.RateLimitMiddleware(middleware.AuthLimiter), handlers.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(), middleware.RateLimitMiddleware(middleware.GeneralLimiter))
	{
		authed.GET("/tasks", handlers.ListTasks)
		authed.POST("/tasks", handlers.CreateTask)
		authed.POST("/tasks/:id/start", handlers.StartTask)
		authed.POST("/tasks/:id/complete", handlers.CompleteTask)
		authed.DELETE("/tasks/:id", handlers.DeleteTask)

		authed.GET("/badges", handlers.GetBadges)
		authed.GET("/badges/earned", handlers.GetEarnedBadges)

		authed.PUT("/update-device-token", handlers.UpdateDeviceToken)
	}
}
