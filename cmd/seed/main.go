// Command seed provisions a first admin identity and a starter set of
// projects and categories so a fresh deployment is immediately usable.
package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

var starterProjects = []string{"General", "Onboarding"}
var starterCategories = []string{"Feature", "Bug", "Chore"}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Category{},
		&model.Task{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	projects := repository.NewProjectRepository(gormDB)
	categories := repository.NewCategoryRepository(gormDB)

	adminEmail := getEnv("SEED_ADMIN_EMAIL", "admin@taskhub.local")
	adminPassword := getEnv("SEED_ADMIN_PASSWORD", "change-me-now")

	if _, err := users.FindByEmail(ctx, adminEmail); err == nil {
		log.Printf("Admin %s already exists, skipping", adminEmail)
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 10)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		name := "Administrator"
		admin := &model.User{
			Email:        adminEmail,
			PasswordHash: string(hashed),
			Name:         &name,
			Role:         model.RoleAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Printf("Created admin %s", adminEmail)
	}

	for _, name := range starterProjects {
		if err := projects.Create(ctx, &model.Project{Name: name}); err != nil {
			if repository.IsDuplicate(err) {
				continue
			}
			log.Fatalf("Failed to create project %q: %v", name, err)
		}
		log.Printf("Created project %q", name)
	}

	for _, name := range starterCategories {
		if err := categories.Create(ctx, &model.Category{Name: name}); err != nil {
			if repository.IsDuplicate(err) {
				continue
			}
			log.Fatalf("Failed to create category %q: %v", name, err)
		}
		log.Printf("Created category %q", name)
	}

	log.Println("Seed complete")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
