package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/tests/helpers"
)

func TestCreateClientIsMasterOnly(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	user := helpers.CreateTestUser(t, db, client.ClientID, "alice")
	master := helpers.CreateTestMasterAdmin(t, db, client.ClientID, "root")

	body, _ := json.Marshal(map[string]string{"clientName": "globex"})
	req := httptest.NewRequest("POST", "/api/clients", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(helpers.SessionCookie(t, cfg, user, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertErrorEnvelope(t, resp, 403)

	req = httptest.NewRequest("POST", "/api/clients", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(helpers.SessionCookie(t, cfg, master, "acme"))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)
}

func TestListClientsRequiresEditorSomewhere(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	rowless := helpers.CreateTestUser(t, db, client.ClientID, "rowless")
	editor := helpers.CreateTestUser(t, db, client.ClientID, "editor")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, editor.UserID, project.ProjectID, models.LevelEditor)

	// No permission rows at all: the global check denies
	req := httptest.NewRequest("GET", "/api/clients", nil)
	req.AddCookie(helpers.SessionCookie(t, cfg, rowless, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertErrorEnvelope(t, resp, 403)

	req = httptest.NewRequest("GET", "/api/clients", nil)
	req.AddCookie(helpers.SessionCookie(t, cfg, editor, "acme"))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
}

func TestGetClientHidesOtherTenants(t *testing.T) {
	app, db, cfg := setupApp(t)
	acme := helpers.CreateTestClient(t, db, "acme")
	globex := helpers.CreateTestClient(t, db, "globex")
	viewer := helpers.CreateTestUser(t, db, acme.ClientID, "viewer")
	project := helpers.CreateTestProject(t, db, acme.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, viewer.UserID, project.ProjectID, models.LevelViewer)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/clients/%d", globex.ClientID), nil)
	req.AddCookie(helpers.SessionCookie(t, cfg, viewer, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertErrorEnvelope(t, resp, 404)

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/clients/%d", acme.ClientID), nil)
	req.AddCookie(helpers.SessionCookie(t, cfg, viewer, "acme"))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
}

func TestSetClientAdminEndpoint(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	master := helpers.CreateTestMasterAdmin(t, db, client.ClientID, "root")
	outgoing := helpers.CreateTestUser(t, db, client.ClientID, "outgoing")
	if err := db.Model(outgoing).Update("is_client_admin", true).Error; err != nil {
		t.Fatalf("Failed to seed current admin: %v", err)
	}
	incoming := helpers.CreateTestUser(t, db, client.ClientID, "incoming")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")

	// Non-masters cannot delegate
	body, _ := json.Marshal(map[string]interface{}{"userId": incoming.UserID})
	url := fmt.Sprintf("/api/clients/%d/admin", client.ClientID)
	req := httptest.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(helpers.SessionCookie(t, cfg, outgoing, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertErrorEnvelope(t, resp, 403)

	req = httptest.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(helpers.SessionCookie(t, cfg, master, "acme"))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var promoted map[string]interface{}
	helpers.ParseJSON(t, resp, &promoted)
	if promoted["isClientAdmin"] != true {
		t.Errorf("Expected isClientAdmin true, got %v", promoted["isClientAdmin"])
	}

	var perm models.Permission
	if err := db.Where("user_id = ? AND project_id = ?", incoming.UserID, project.ProjectID).First(&perm).Error; err != nil {
		t.Fatalf("Expected a permission row for the new admin: %v", err)
	}
	if perm.Level != models.LevelProjectManager {
		t.Errorf("Expected level 3 for the new admin, got %d", perm.Level)
	}
}
