package sqllite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/foureyes/foureyes/internal/repository"
	"github.com/foureyes/foureyes/internal/util"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/foureyes/foureyes/pkg/foureyes/models"
	"github.com/foureyes/foureyes/test/integration"

	_ "github.com/mattn/go-sqlite3"
)

const checkerApiKey = "7f3c2a9e-1b4d-4c8f-9a6e-2d5b8c1f0e3a"

// seedChecker inserts a second enabled operator directly into the
// database so the flow has a reviewer distinct from the admin maker.
func seedChecker(t *testing.T) {
	t.Helper()
	dbName := os.Getenv("FEYES_DATABASE_SQLLITE_FILE_NAME")
	db, err := sql.Open("sqlite3", dbName)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepository(db, integration.NewFakeClock(time.Now()))
	_, err = users.Save(&domain.User{
		Username: "checker1",
		Email:    "checker1@example.com",
		ApiKey:   sql.NullString{String: checkerApiKey, Valid: true},
		Enabled:  true,
	})
	if err != nil {
		t.Fatalf("Failed to seed checker: %v", err)
	}
}

func login(t *testing.T, client *http.Client, port int, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	resp, err := client.Post(fmt.Sprintf("http://localhost:%d/login", port), "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("Failed to post /login: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 OK from login, got %d", resp.StatusCode)
	}
	lr, err := util.DecodeJSONBodyResponse[models.LoginResponse](resp)
	if err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	return lr.SessionID
}

func submitAction(t *testing.T, client *http.Client, port int, session string, body string) models.ActionApiResponse {
	t.Helper()
	req, err := http.NewRequest("POST", fmt.Sprintf("http://localhost:%d/api/actions", port), bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: session})

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to post /api/actions: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 Created, got %d", resp.StatusCode)
	}
	action, err := util.DecodeJSONBodyResponse[models.ActionApiResponse](resp)
	if err != nil {
		t.Fatalf("Failed to decode action response: %v", err)
	}
	return action
}

func decide(t *testing.T, client *http.Client, port int, req *http.Request) *http.Response {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to post decision: %v", err)
	}
	return resp
}

func TestApprovalFlowOverHTTP(t *testing.T) {
	runTestWithSetup(t, func(t *testing.T, port int) {
		seedChecker(t)
		client := &http.Client{Timeout: 10 * time.Second}
		session := login(t, client, port, "admin", "admin")

		action := submitAction(t, client, port, session,
			`{"actionType":"create_user","payload":{"email":"newuser@example.com","username":"newuser","fullName":"New User"}}`)
		if action.Status != domain.StatusPending {
			t.Fatalf("Expected PENDING after submit, got %s", action.Status)
		}
		if action.MakerID != "admin" {
			t.Errorf("Expected maker admin, got %s", action.MakerID)
		}

		decisionURL := fmt.Sprintf("http://localhost:%d/api/actions/%s/decision", port, action.ID)

		// the maker may not review their own submission
		req, _ := http.NewRequest("POST", decisionURL, bytes.NewReader([]byte(`{"decision":"APPROVE"}`)))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "sessionId", Value: session})
		resp := decide(t, client, port, req)
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("Expected 403 for self review, got %d", resp.StatusCode)
		}

		// a second operator approves via API key
		req, _ = http.NewRequest("POST", decisionURL, bytes.NewReader([]byte(`{"decision":"APPROVE"}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", checkerApiKey)
		resp = decide(t, client, port, req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200 OK on approve, got %d", resp.StatusCode)
		}
		approved, err := util.DecodeJSONBodyResponse[models.ActionApiResponse](resp)
		if err != nil {
			t.Fatalf("Failed to decode approval response: %v", err)
		}
		if approved.Status != domain.StatusApproved {
			t.Errorf("Expected APPROVED, got %s", approved.Status)
		}
		if approved.CheckerID != "checker1" {
			t.Errorf("Expected checker1, got %s", approved.CheckerID)
		}
		var result models.CreatedUserResult
		if err := json.Unmarshal(approved.ExecutionResult, &result); err != nil {
			t.Fatalf("Failed to decode execution result: %v", err)
		}
		if result.Username != "newuser" || result.UserID == 0 {
			t.Errorf("Expected created user result, got %+v", result)
		}

		// a decision on a decided action conflicts
		req, _ = http.NewRequest("POST", decisionURL, bytes.NewReader([]byte(`{"decision":"REJECT","comment":"too late"}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", checkerApiKey)
		resp = decide(t, client, port, req)
		resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("Expected 409 on second decision, got %d", resp.StatusCode)
		}
	})
}

func TestRejectionFlowOverHTTP(t *testing.T) {
	runTestWithSetup(t, func(t *testing.T, port int) {
		seedChecker(t)
		client := &http.Client{Timeout: 10 * time.Second}
		session := login(t, client, port, "admin", "admin")

		action := submitAction(t, client, port, session,
			`{"actionType":"create_promotion","payload":{"code":"WINTER_2025","name":"Winter sale","discountPercent":30,"startsAt":"2025-12-01T00:00:00Z","endsAt":"2025-12-31T00:00:00Z"}}`)

		decisionURL := fmt.Sprintf("http://localhost:%d/api/actions/%s/decision", port, action.ID)

		// rejection without a comment is refused
		req, _ := http.NewRequest("POST", decisionURL, bytes.NewReader([]byte(`{"decision":"REJECT"}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", checkerApiKey)
		resp := decide(t, client, port, req)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("Expected 400 for reject without comment, got %d", resp.StatusCode)
		}

		req, _ = http.NewRequest("POST", decisionURL, bytes.NewReader([]byte(`{"decision":"REJECT","comment":"discount too high for winter"}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", checkerApiKey)
		resp = decide(t, client, port, req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200 OK on reject, got %d", resp.StatusCode)
		}
		rejected, err := util.DecodeJSONBodyResponse[models.ActionApiResponse](resp)
		if err != nil {
			t.Fatalf("Failed to decode rejection response: %v", err)
		}
		if rejected.Status != domain.StatusRejected {
			t.Errorf("Expected REJECTED, got %s", rejected.Status)
		}
		if rejected.ReviewComment != "discount too high for winter" {
			t.Errorf("Expected review comment, got %q", rejected.ReviewComment)
		}
		if len(rejected.ExecutionResult) != 0 {
			t.Errorf("Expected no execution result on rejection, got %s", rejected.ExecutionResult)
		}

		// the search endpoint shows the decided action
		searchURL := fmt.Sprintf("http://localhost:%d/api/actions?status=REJECTED", port)
		req, _ = http.NewRequest("GET", searchURL, nil)
		req.Header.Set("X-API-Key", checkerApiKey)
		resp, err = client.Do(req)
		if err != nil {
			t.Fatalf("Failed to GET /api/actions: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200 OK from search, got %d", resp.StatusCode)
		}
		page, err := util.DecodeJSONBodyResponse[models.SearchActionsResponse](resp)
		if err != nil {
			t.Fatalf("Failed to decode search response: %v", err)
		}
		if page.Total != 1 || len(page.Items) != 1 {
			t.Fatalf("Expected exactly one rejected action, got %+v", page)
		}
		if page.Items[0].ID != action.ID {
			t.Errorf("Expected action %s in search results, got %s", action.ID, page.Items[0].ID)
		}
	})
}
