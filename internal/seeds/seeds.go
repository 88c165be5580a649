// Package seeds populates the dev server with a demo tenant so the
// mobile client has something to log in to.
package seeds

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
)

const TenantCode = "lecoursier"

// Users creates the demo courier accounts. Password for every account
// is "password123".
func Users() []models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	phone := "+21612345678"
	users := []models.User{
		{Username: "amine", Name: "Amine Ben Salah", Email: "amine@lecoursier.app", Phone: &phone, Role: models.RoleUser, Password: string(hash), TenantCode: TenantCode},
		{Username: "sana", Name: "Sana Trabelsi", Email: "sana@lecoursier.app", Role: models.RoleUser, Password: string(hash), TenantCode: TenantCode},
		{Username: "admin", Name: "Dispatcher", Email: "admin@lecoursier.app", Role: models.RoleAdmin, Password: string(hash), TenantCode: TenantCode},
	}

	for i := range users {
		if err := database.DB.Where("username = ? AND tenant_code = ?", users[i].Username, TenantCode).
			FirstOrCreate(&users[i]).Error; err != nil {
			log.Printf("seed user %s: %v", users[i].Username, err)
		}
	}
	return users
}

// Milestones creates delivery locations around Tunis.
func Milestones() []models.Milestone {
	milestones := []models.Milestone{
		{Name: "Centre Ville", Latitudinal: "36.8065", Longitudinal: "10.1815", Favorite: true, TenantCode: TenantCode},
		{Name: "La Marsa", Latitudinal: "36.8782", Longitudinal: "10.3247", TenantCode: TenantCode},
		{Name: "Ariana", Latitudinal: "36.8625", Longitudinal: "10.1956", TenantCode: TenantCode},
	}

	for i := range milestones {
		if err := database.DB.Where("name = ? AND tenant_code = ?", milestones[i].Name, TenantCode).
			FirstOrCreate(&milestones[i]).Error; err != nil {
			log.Printf("seed milestone %s: %v", milestones[i].Name, err)
		}
	}
	return milestones
}

// Tasks assigns a few demo deliveries to the first courier.
func Tasks(users []models.User, milestones []models.Milestone) {
	if len(users) == 0 || len(milestones) == 0 {
		return
	}

	due := time.Now().Add(24 * time.Hour)
	tasks := []models.Task{
		{Name: "Deliver package to Centre Ville", Description: "Fragile, ring twice", Priority: models.TaskPriorityHigh, Status: models.TaskStatusPending, UserID: users[0].ID, MilestoneID: milestones[0].ID, DueDate: &due},
		{Name: "Pick up documents", Description: "Office closes at 17:00", Priority: models.TaskPriorityMedium, Status: models.TaskStatusPending, UserID: users[0].ID, MilestoneID: milestones[1].ID},
		{Name: "Grocery run", Description: "", Priority: models.TaskPriorityLow, Status: models.TaskStatusPending, UserID: users[0].ID, MilestoneID: milestones[2].ID},
	}

	for i := range tasks {
		if err := database.DB.Where("name = ? AND \"userId\" = ?", tasks[i].Name, tasks[i].UserID).
			FirstOrCreate(&tasks[i]).Error; err != nil {
			log.Printf("seed task %s: %v", tasks[i].Name, err)
		}
	}
}

// Badges creates the achievement definitions evaluated by the badge
// service.
func Badges() {
	badges := []models.Badge{
		{Name: "First Delivery", Description: "Complete your first task", Icon: "package", Category: "delivery", CategoryName: "Delivery", Rarity: models.BadgeRarityBronze, RarityName: "Bronze", Points: 10, Condition: "tasks_completed", Threshold: 1, IsActive: true},
		{Name: "Courier", Description: "Complete 5 tasks", Icon: "truck", Category: "delivery", CategoryName: "Delivery", Rarity: models.BadgeRaritySilver, RarityName: "Silver", Points: 25, Condition: "tasks_completed", Threshold: 5, IsActive: true},
		{Name: "Road Warrior", Description: "Complete 25 tasks", Icon: "trophy", Category: "delivery", CategoryName: "Delivery", Rarity: models.BadgeRarityGold, RarityName: "Gold", Points: 100, Condition: "tasks_completed", Threshold: 25, IsActive: true},
		{Name: "Under Pressure", Description: "Close 5 high priority tasks", Icon: "flame", Category: "performance", CategoryName: "Performance", Rarity: models.BadgeRarityGold, RarityName: "Gold", Points: 50, Condition: "high_priority_closed", Threshold: 5, IsActive: true},
		{Name: "Workhorse", Description: "Hold 10 assigned tasks", Icon: "layers", Category: "performance", CategoryName: "Performance", Rarity: models.BadgeRarityPlatinum, RarityName: "Platinum", Points: 150, Condition: "tasks_assigned", Threshold: 10, IsActive: true},
	}

	for i := range badges {
		if err := database.DB.Where("name = ?", badges[i].Name).
			FirstOrCreate(&badges[i]).Error; err != nil {
			log.Printf("seed badge %s: %v", badges[i].Name, err)
		}
	}
}
