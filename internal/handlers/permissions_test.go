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

func TestGetPermissionsListsClientUsers(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	manager := helpers.CreateTestUser(t, db, client.ClientID, "manager")
	helpers.CreateTestUser(t, db, client.ClientID, "norow")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, manager.UserID, project.ProjectID, models.LevelProjectManager)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/permissions?projectId=%d", project.ProjectID), nil)
	req.AddCookie(helpers.SessionCookie(t, cfg, manager, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var rows []map[string]interface{}
	helpers.ParseJSON(t, resp, &rows)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	levels := map[string]float64{}
	for _, r := range rows {
		levels[r["userName"].(string)] = r["level"].(float64)
	}
	if levels["manager"] != float64(models.LevelProjectManager) {
		t.Errorf("Expected manager at level 3, got %v", levels["manager"])
	}
	if levels["norow"] != float64(models.LevelNoAccess) {
		t.Errorf("Expected missing row reported as level 0, got %v", levels["norow"])
	}
}

func TestGetPermissionsRejectsNonManagers(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	viewer := helpers.CreateTestUser(t, db, client.ClientID, "viewer")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, viewer.UserID, project.ProjectID, models.LevelViewer)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/permissions?projectId=%d", project.ProjectID), nil)
	req.AddCookie(helpers.SessionCookie(t, cfg, viewer, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertErrorEnvelope(t, resp, 403)
}

func TestGetPermissionsWorksOnDisabledProjectForMaster(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	master := helpers.CreateTestMasterAdmin(t, db, client.ClientID, "root")
	project := helpers.CreateTestProject(t, db, client.ClientID, "retired")
	if err := db.Model(project).Update("enabled", false).Error; err != nil {
		t.Fatalf("Failed to disable project: %v", err)
	}

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/permissions?projectId=%d", project.ProjectID), nil)
	req.AddCookie(helpers.SessionCookie(t, cfg, master, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
}

func TestGetPermissionsRequiresProjectID(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	user := helpers.CreateTestUser(t, db, client.ClientID, "alice")

	req := httptest.NewRequest("GET", "/api/permissions", nil)
	req.AddCookie(helpers.SessionCookie(t, cfg, user, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertErrorEnvelope(t, resp, 400)
}

func TestUpdatePermissionsAcceptsSingleObject(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	manager := helpers.CreateTestUser(t, db, client.ClientID, "manager")
	target := helpers.CreateTestUser(t, db, client.ClientID, "target")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, manager.UserID, project.ProjectID, models.LevelProjectManager)

	// The frontend sends numbers as strings at times; both must work
	body := []byte(fmt.Sprintf(`{"projectId":"%d","userId":%d,"level":"2"}`, project.ProjectID, target.UserID))
	req := httptest.NewRequest("PUT", "/api/permissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(helpers.SessionCookie(t, cfg, manager, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var results []map[string]interface{}
	helpers.ParseJSON(t, resp, &results)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0]["level"] != float64(models.LevelEditor) {
		t.Errorf("Expected level 2, got %v", results[0]["level"])
	}
}

func TestUpdatePermissionsAcceptsBatch(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	manager := helpers.CreateTestUser(t, db, client.ClientID, "manager")
	targetA := helpers.CreateTestUser(t, db, client.ClientID, "target-a")
	targetB := helpers.CreateTestUser(t, db, client.ClientID, "target-b")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, manager.UserID, project.ProjectID, models.LevelProjectManager)

	batch := []map[string]interface{}{
		{"projectId": project.ProjectID, "userId": targetA.UserID, "level": models.LevelViewer},
		{"projectId": project.ProjectID, "userId": targetB.UserID, "level": models.LevelEditor},
	}
	body, _ := json.Marshal(batch)
	req := httptest.NewRequest("PUT", "/api/permissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(helpers.SessionCookie(t, cfg, manager, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var results []map[string]interface{}
	helpers.ParseJSON(t, resp, &results)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
}

func TestUpdatePermissionsRejectsNonManagers(t *testing.T) {
	app, db, cfg := setupApp(t)
	client := helpers.CreateTestClient(t, db, "acme")
	editor := helpers.CreateTestUser(t, db, client.ClientID, "editor")
	target := helpers.CreateTestUser(t, db, client.ClientID, "target")
	project := helpers.CreateTestProject(t, db, client.ClientID, "site-a")
	helpers.CreateTestPermission(t, db, editor.UserID, project.ProjectID, models.LevelEditor)

	body, _ := json.Marshal(map[string]interface{}{
		"projectId": project.ProjectID,
		"userId":    target.UserID,
		"level":     models.LevelViewer,
	})
	req := httptest.NewRequest("PUT", "/api/permissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(helpers.SessionCookie(t, cfg, editor, "acme"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertErrorEnvelope(t, resp, 403)
}
