package helpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/obravista/portalapi/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory SQLite database with the portal schema.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Client{},
		&models.User{},
		&models.Project{},
		&models.Content{},
		&models.Permission{},
		&models.ShareLink{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestClient creates a client tenant
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *models.Client {
	t.Helper()
	client := models.Client{ClientName: name, Enabled: true}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return &client
}

// CreateTestUser creates an enabled user with a unique email and the
// password "secret1234"
func CreateTestUser(t *testing.T, db *gorm.DB, clientID uint64, name string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1234"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		ClientID:     clientID,
		UserName:     name,
		Email:        fmt.Sprintf("%s-%s@test.local", name, uuid.New().String()[:8]),
		PasswordHash: string(hash),
		Enabled:      true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

// CreateTestMasterAdmin creates an enabled master admin user
func CreateTestMasterAdmin(t *testing.T, db *gorm.DB, clientID uint64, name string) *models.User {
	t.Helper()
	user := CreateTestUser(t, db, clientID, name)
	if err := db.Model(user).Update("is_master_admin", true).Error; err != nil {
		t.Fatalf("Failed to promote master admin: %v", err)
	}
	user.IsMasterAdmin = true
	return user
}

// CreateTestProject creates an enabled project without any fan-out
func CreateTestProject(t *testing.T, db *gorm.DB, clientID uint64, name string) *models.Project {
	t.Helper()
	project := models.Project{ProjectName: name, ClientID: clientID, Enabled: true}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return &project
}

// CreateTestPermission sets a permission row directly
func CreateTestPermission(t *testing.T, db *gorm.DB, userID, projectID uint64, level int) *models.Permission {
	t.Helper()
	perm := models.Permission{UserID: userID, ProjectID: projectID, Level: level}
	if err := db.Create(&perm).Error; err != nil {
		t.Fatalf("Failed to create permission: %v", err)
	}
	return &perm
}

// CreateTestContent creates an enabled content item in a project
func CreateTestContent(t *testing.T, db *gorm.DB, projectID uint64, category, name string) *models.Content {
	t.Helper()
	content := models.Content{
		ProjectID:   projectID,
		Category:    category,
		ContentName: name,
		URL:         "https://cdn.test.local/" + uuid.New().String(),
		Date:        time.Now().UTC(),
		Enabled:     true,
	}
	if err := db.Create(&content).Error; err != nil {
		t.Fatalf("Failed to create content: %v", err)
	}
	return &content
}
