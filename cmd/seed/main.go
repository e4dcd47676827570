package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"teamhub/internal/config"
	"teamhub/internal/db"
	"teamhub/internal/model"
	"teamhub/internal/repository"
)

// Baseline roles. The member role is what DEFAULT_ROLE_ID should point
// at in a fresh installation.
var baselineRoles = []model.Role{
	{
		Name: "member",
		Permissions: model.PermissionList{
			model.ReadProfile,
			model.ReadBlog,
		},
	},
	{
		Name: "editor",
		Permissions: model.PermissionList{
			model.ReadProfile,
			model.CreateBlog,
			model.ReadBlog,
			model.UpdateBlog,
			model.PublishBlog,
		},
	},
	{
		Name: "admin",
		Permissions: model.PermissionList{
			model.CreateProfile,
			model.ReadProfile,
			model.UpdateProfile,
			model.DeleteProfile,
			model.CreateBlog,
			model.ReadBlog,
			model.UpdateBlog,
			model.DeleteBlog,
			model.PublishBlog,
			model.AccessLogs,
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Role{}, &model.User{}, &model.MailOutbox{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	roleRepo := repository.NewRoleRepository(gormDB)
	ctx := context.Background()

	created, updated := 0, 0
	for _, role := range baselineRoles {
		existing, err := roleRepo.FindByName(ctx, role.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Error checking role %s: %v", role.Name, err)
		}

		if existing != nil {
			existing.Permissions = role.Permissions
			if err := roleRepo.Save(ctx, existing); err != nil {
				log.Fatalf("Error updating role %s: %v", role.Name, err)
			}
			updated++
		} else {
			role := role
			if err := roleRepo.Save(ctx, &role); err != nil {
				log.Fatalf("Error creating role %s: %v", role.Name, err)
			}
			created++
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New roles created: %d", created)
	log.Printf("  - Existing roles updated: %d", updated)
}
