package services_test

import (
	"testing"
	"time"

	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShareLink(t *testing.T) {
	db := helpers.OpenTestDB(t)
	cfg := helpers.TestConfig()
	client := helpers.CreateTestClient(t, db, "acme")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	content := helpers.CreateTestContent(t, db, project.ProjectID, "tour", "lobby")

	result, err := services.CreateShareLink(db, cfg, content.ContentID, 3600)
	require.NoError(t, err)
	assert.Len(t, result.Token, 64, "token is 32 random bytes hex encoded")
	assert.Equal(t, "http://localhost:5173/share/"+result.Token, result.ShareableLink)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, 5*time.Second)
}

func TestCreateShareLinkValidation(t *testing.T) {
	db := helpers.OpenTestDB(t)
	cfg := helpers.TestConfig()

	_, err := services.CreateShareLink(db, cfg, 0, 3600)
	requireCustomError(t, err, 400)

	_, err = services.CreateShareLink(db, cfg, 1, 0)
	requireCustomError(t, err, 400)

	// An absurd lifetime is rejected instead of wrapping into the past
	_, err = services.CreateShareLink(db, cfg, 1, 1<<62)
	requireCustomError(t, err, 400)

	_, err = services.CreateShareLink(db, cfg, 999999, 3600)
	requireCustomError(t, err, 404)
}

func TestResolveShareLinkBypassesPermissions(t *testing.T) {
	db := helpers.OpenTestDB(t)
	cfg := helpers.TestConfig()
	client := helpers.CreateTestClient(t, db, "acme")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	content := helpers.CreateTestContent(t, db, project.ProjectID, "tour", "lobby")

	result, err := services.CreateShareLink(db, cfg, content.ContentID, 3600)
	require.NoError(t, err)

	// No actor, no permission rows: the token alone grants access
	got, err := services.ResolveShareLink(db, result.Token)
	require.NoError(t, err)
	assert.Equal(t, content.ContentID, got.ContentID)
	require.NotNil(t, got.Project)
	assert.Equal(t, project.ProjectID, got.Project.ProjectID)
}

func TestResolveShareLinkExpiryAndUnknownAreUniform(t *testing.T) {
	db := helpers.OpenTestDB(t)
	cfg := helpers.TestConfig()
	client := helpers.CreateTestClient(t, db, "acme")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	content := helpers.CreateTestContent(t, db, project.ProjectID, "tour", "lobby")

	result, err := services.CreateShareLink(db, cfg, content.ContentID, 3600)
	require.NoError(t, err)

	// Force the link into the past
	require.NoError(t, db.Model(&models.ShareLink{}).
		Where("token = ?", result.Token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, errExpired := services.ResolveShareLink(db, result.Token)
	ceExpired := requireCustomError(t, errExpired, 404)

	_, errUnknown := services.ResolveShareLink(db, "deadbeef")
	ceUnknown := requireCustomError(t, errUnknown, 404)

	assert.Equal(t, ceExpired.Message, ceUnknown.Message, "expired and unknown tokens are indistinguishable")

	_, err = services.ResolveShareLink(db, "")
	requireCustomError(t, err, 404)
}
