package main

import (
	"log"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/config"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("Running migrations (just in case)...")
	if err := database.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Seeding demo tenant...")
	users := seeds.Users()
	milestones := seeds.Milestones()
	seeds.Tasks(users, milestones)
	seeds.Badges()

	log.Printf("Done. Tenant %q, login amine/password123", seeds.TenantCode)
}
