package services_test

import (
	"testing"

	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserFansOutAcrossEnabledProjects(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	active := helpers.CreateTestProject(t, db, client.ClientID, "active")
	second := helpers.CreateTestProject(t, db, client.ClientID, "second")
	disabled := helpers.CreateTestProject(t, db, client.ClientID, "old")
	require.NoError(t, db.Model(disabled).Update("enabled", false).Error)

	user, err := services.CreateUser(db, services.CreateUserInput{
		ClientID: client.ClientID,
		UserName: "newcomer",
		Email:    "Newcomer@Example.com",
		Password: "secret1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "newcomer@example.com", user.Email, "emails are stored lowercased")

	var perms []models.Permission
	require.NoError(t, db.Where("user_id = ?", user.UserID).Find(&perms).Error)
	require.Len(t, perms, 2, "fan-out covers enabled projects only")
	for _, p := range perms {
		assert.Equal(t, models.DefaultProjectLevel, p.Level)
		assert.Contains(t, []uint64{active.ProjectID, second.ProjectID}, p.ProjectID)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")

	in := services.CreateUserInput{
		ClientID: client.ClientID,
		UserName: "first",
		Email:    "dup@example.com",
		Password: "secret1234",
	}
	_, err := services.CreateUser(db, in)
	require.NoError(t, err)

	in.UserName = "second"
	_, err = services.CreateUser(db, in)
	requireCustomError(t, err, 400)
}

func TestCreateUserNormalizesEmailCase(t *testing.T) {
	db := helpers.OpenTestDB(t)
	cfg := helpers.TestConfig()
	client := helpers.CreateTestClient(t, db, "acme")

	user, err := services.CreateUser(db, services.CreateUserInput{
		ClientID: client.ClientID,
		UserName: "alice",
		Email:    "Mixed.Case@Example.com",
		Password: "secret1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "mixed.case@example.com", user.Email)

	// Logging in with the exact string used at signup works
	profile, _, err := services.Login(db, cfg, services.LoginInput{
		Email:    "Mixed.Case@Example.com",
		Password: "secret1234",
	})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, profile.UserID)

	// A case variant of a taken address is a duplicate, not a fresh signup
	_, err = services.CreateUser(db, services.CreateUserInput{
		ClientID: client.ClientID,
		UserName: "impostor",
		Email:    "MIXED.CASE@EXAMPLE.COM",
		Password: "secret1234",
	})
	requireCustomError(t, err, 400)
}

func TestCreateUserValidation(t *testing.T) {
	db := helpers.OpenTestDB(t)

	_, err := services.CreateUser(db, services.CreateUserInput{UserName: "x"})
	requireCustomError(t, err, 400)

	_, err = services.CreateUser(db, services.CreateUserInput{
		ClientID: 999, UserName: "x", Email: "x@example.com", Password: "p",
	})
	requireCustomError(t, err, 404)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	user := helpers.CreateTestUser(t, db, client.ClientID, "subject")

	newPassword := "changed-secret"
	_, err := services.UpdateUser(db, user.UserID, services.UpdateUserInput{Password: &newPassword})
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.First(&got, "user_id = ?", user.UserID).Error)
	assert.NotEqual(t, user.PasswordHash, got.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte(newPassword)))
}

func TestDisableUserKeepsPermissionRows(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	user := helpers.CreateTestUser(t, db, client.ClientID, "leaver")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, user.UserID, project.ProjectID, models.LevelEditor)

	disabled, err := services.DisableUser(db, user.UserID)
	require.NoError(t, err)
	assert.False(t, disabled.Enabled)

	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Where("user_id = ?", user.UserID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "grants survive for a later re-enable")
}

func TestListUsersIncludesDisabled(t *testing.T) {
	db := helpers.OpenTestDB(t)
	clientA := helpers.CreateTestClient(t, db, "acme")
	clientB := helpers.CreateTestClient(t, db, "globex")
	helpers.CreateTestUser(t, db, clientA.ClientID, "a1")
	gone := helpers.CreateTestUser(t, db, clientA.ClientID, "a2")
	require.NoError(t, db.Model(gone).Update("enabled", false).Error)
	helpers.CreateTestUser(t, db, clientB.ClientID, "b1")

	users, err := services.ListUsers(db, &clientA.ClientID)
	require.NoError(t, err)
	assert.Len(t, users, 2, "the management listing shows disabled accounts")

	all, err := services.ListUsers(db, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
