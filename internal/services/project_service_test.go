package services_test

import (
	"testing"

	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVisibleProjectsFiltersByPermission(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	user := helpers.CreateTestUser(t, db, client.ClientID, "viewer")

	granted := helpers.CreateTestProject(t, db, client.ClientID, "granted")
	zeroRow := helpers.CreateTestProject(t, db, client.ClientID, "zero-row")
	helpers.CreateTestProject(t, db, client.ClientID, "no-row")
	disabled := helpers.CreateTestProject(t, db, client.ClientID, "disabled")
	require.NoError(t, db.Model(disabled).Update("enabled", false).Error)

	helpers.CreateTestPermission(t, db, user.UserID, granted.ProjectID, models.LevelViewer)
	helpers.CreateTestPermission(t, db, user.UserID, zeroRow.ProjectID, models.LevelNoAccess)
	helpers.CreateTestPermission(t, db, user.UserID, disabled.ProjectID, models.LevelEditor)

	projects, err := services.ListVisibleProjects(db, claimsFor(user))
	require.NoError(t, err)
	require.Len(t, projects, 1, "only enabled projects with a row above level 0 are listed")
	assert.Equal(t, granted.ProjectID, projects[0].ProjectID)
}

func TestListVisibleProjectsMasterSeesAllTenants(t *testing.T) {
	db := helpers.OpenTestDB(t)
	clientA := helpers.CreateTestClient(t, db, "acme")
	clientB := helpers.CreateTestClient(t, db, "globex")
	master := helpers.CreateTestMasterAdmin(t, db, clientA.ClientID, "root")

	helpers.CreateTestProject(t, db, clientA.ClientID, "site-a")
	helpers.CreateTestProject(t, db, clientB.ClientID, "site-b")
	disabled := helpers.CreateTestProject(t, db, clientB.ClientID, "old")
	require.NoError(t, db.Model(disabled).Update("enabled", false).Error)

	projects, err := services.ListVisibleProjects(db, claimsFor(master))
	require.NoError(t, err)
	assert.Len(t, projects, 2, "masters see every enabled project, disabled stay hidden")
}

func TestGetProjectHidesDenialAsNotFound(t *testing.T) {
	db := helpers.OpenTestDB(t)
	clientA := helpers.CreateTestClient(t, db, "acme")
	clientB := helpers.CreateTestClient(t, db, "globex")
	user := helpers.CreateTestUser(t, db, clientA.ClientID, "viewer")

	ownNoRow := helpers.CreateTestProject(t, db, clientA.ClientID, "own-no-row")
	foreign := helpers.CreateTestProject(t, db, clientB.ClientID, "foreign")
	helpers.CreateTestPermission(t, db, user.UserID, foreign.ProjectID, models.LevelEditor)
	disabled := helpers.CreateTestProject(t, db, clientA.ClientID, "gone")
	require.NoError(t, db.Model(disabled).Update("enabled", false).Error)
	helpers.CreateTestPermission(t, db, user.UserID, disabled.ProjectID, models.LevelEditor)

	// Missing grant, cross-tenant, disabled and nonexistent all read the same
	for name, id := range map[string]uint64{
		"no permission row": ownNoRow.ProjectID,
		"other tenant":      foreign.ProjectID,
		"disabled project":  disabled.ProjectID,
		"nonexistent":       999999,
	} {
		_, err := services.GetProjectIfVisible(db, claimsFor(user), id)
		ce := requireCustomError(t, err, 404)
		assert.Equal(t, "Project not found", ce.Message, name)
	}
}

func TestGetProjectReportsEffectiveLevel(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	user := helpers.CreateTestUser(t, db, client.ClientID, "editor")
	master := helpers.CreateTestMasterAdmin(t, db, client.ClientID, "root")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, user.UserID, project.ProjectID, models.LevelEditor)

	got, err := services.GetProjectIfVisible(db, claimsFor(user), project.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, models.LevelEditor, got.PermissionLevel)

	got, err = services.GetProjectIfVisible(db, claimsFor(master), project.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, models.LevelMasterAdmin, got.PermissionLevel, "masters report the synthetic level")
}

func TestMasterReadsDisabledProjectByID(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	master := helpers.CreateTestMasterAdmin(t, db, client.ClientID, "root")
	project := helpers.CreateTestProject(t, db, client.ClientID, "retired")
	require.NoError(t, db.Model(project).Update("enabled", false).Error)

	// Soft-disabled projects stay addressable for administration
	got, err := services.GetProjectIfVisible(db, claimsFor(master), project.ProjectID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Equal(t, models.LevelMasterAdmin, got.PermissionLevel)
}

func TestCreateProjectFansOutToEnabledUsers(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	active := helpers.CreateTestUser(t, db, client.ClientID, "active")
	second := helpers.CreateTestUser(t, db, client.ClientID, "second")
	disabled := helpers.CreateTestUser(t, db, client.ClientID, "inactive")
	require.NoError(t, db.Model(disabled).Update("enabled", false).Error)

	project, err := services.CreateProject(db, services.CreateProjectInput{
		ProjectName: "site-a",
		ClientID:    client.ClientID,
	})
	require.NoError(t, err)

	var perms []models.Permission
	require.NoError(t, db.Where("project_id = ?", project.ProjectID).Find(&perms).Error)
	require.Len(t, perms, 2, "fan-out reaches enabled users only")
	for _, p := range perms {
		assert.Equal(t, models.DefaultProjectLevel, p.Level)
		assert.Contains(t, []uint64{active.UserID, second.UserID}, p.UserID)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	db := helpers.OpenTestDB(t)

	_, err := services.CreateProject(db, services.CreateProjectInput{ClientID: 1})
	requireCustomError(t, err, 400)

	_, err = services.CreateProject(db, services.CreateProjectInput{ProjectName: "x", ClientID: 999})
	requireCustomError(t, err, 404)
}

func TestUpdateProjectPartial(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	project := helpers.CreateTestProject(t, db, client.ClientID, "before")

	name := "after"
	updated, err := services.UpdateProject(db, project.ProjectID, services.UpdateProjectInput{ProjectName: &name})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.ProjectName)
	assert.True(t, updated.Enabled, "untouched fields keep their value")

	empty := ""
	_, err = services.UpdateProject(db, project.ProjectID, services.UpdateProjectInput{ProjectName: &empty})
	requireCustomError(t, err, 400)
}

func TestDisableProjectIsSoft(t *testing.T) {
	db := helpers.OpenTestDB(t)
	client := helpers.CreateTestClient(t, db, "acme")
	user := helpers.CreateTestUser(t, db, client.ClientID, "viewer")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, user.UserID, project.ProjectID, models.LevelViewer)

	_, err := services.DisableProject(db, project.ProjectID)
	require.NoError(t, err)

	var got models.Project
	require.NoError(t, db.First(&got, "project_id = ?", project.ProjectID).Error)
	assert.False(t, got.Enabled)

	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Where("project_id = ?", project.ProjectID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "permission rows survive the disable")
}
