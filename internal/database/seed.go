package database

import (
	"log"

	"github.com/obravista/portalapi/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates the bootstrap master admin plus a demo tenant so a fresh
// install is usable. Every step is FirstOrCreate, so running it repeatedly
// is a no-op.
func Seed(db *gorm.DB) error {
	var adminClient models.Client
	if err := db.Where(models.Client{ClientName: "Portal Admin"}).
		Attrs(models.Client{Enabled: true}).
		FirstOrCreate(&adminClient).Error; err != nil {
		return err
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var admin models.User
	if err := db.Where(models.User{Email: "admin@example.com"}).
		Attrs(models.User{
			ClientID:      adminClient.ClientID,
			UserName:      "Administrator",
			PasswordHash:  string(adminHash),
			IsMasterAdmin: true,
			Enabled:       true,
		}).
		FirstOrCreate(&admin).Error; err != nil {
		return err
	}

	var demoClient models.Client
	if err := db.Where(models.Client{ClientName: "Demo Client"}).
		Attrs(models.Client{Enabled: true}).
		FirstOrCreate(&demoClient).Error; err != nil {
		return err
	}

	userHash, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var demoUser models.User
	if err := db.Where(models.User{Email: "user@example.com"}).
		Attrs(models.User{
			ClientID:     demoClient.ClientID,
			UserName:     "Demo User",
			PasswordHash: string(userHash),
			Enabled:      true,
		}).
		FirstOrCreate(&demoUser).Error; err != nil {
		return err
	}

	var demoProject models.Project
	if err := db.Where(models.Project{ProjectName: "Demo Site", ClientID: demoClient.ClientID}).
		Attrs(models.Project{
			ImageURL: "https://picsum.photos/seed/demosite/400/300",
			Enabled:  true,
		}).
		FirstOrCreate(&demoProject).Error; err != nil {
		return err
	}

	var perm models.Permission
	if err := db.Where(models.Permission{UserID: demoUser.UserID, ProjectID: demoProject.ProjectID}).
		Attrs(models.Permission{Level: models.LevelProjectManager}).
		FirstOrCreate(&perm).Error; err != nil {
		return err
	}

	log.Printf("Seeded default data (admin client %d, demo client %d)", adminClient.ClientID, demoClient.ClientID)

	return nil
}
