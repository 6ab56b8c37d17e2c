package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/memstore"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := service.NewService(memstore.New(), log, &config.Config{JWTSecret: "test-secret"})
	if err := svc.Seed(t.Context()); err != nil {
		t.Fatal(err)
	}
	return NewHandler(svc, log).Router()
}

func do(t *testing.T, srv http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func signUp(t *testing.T, srv http.Handler, username string) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/register", "",
		`{"username":"`+username+`","password":"secret","email":"`+username+`@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body)
	}
	rec = do(t, srv, http.MethodPost, "/login", "", `{"username":"`+username+`","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp map[string]string
	decode(t, rec.Body, &resp)
	return resp["token"]
}

func decode(t *testing.T, body *bytes.Buffer, v any) {
	t.Helper()
	if err := json.Unmarshal(body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", body.String(), err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "alice")

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"duplicate username", "/register", `{"username":"alice","password":"x","email":"other@example.com"}`, http.StatusConflict},
		{"duplicate email", "/register", `{"username":"alice2","password":"x","email":"alice@example.com"}`, http.StatusConflict},
		{"invalid email", "/register", `{"username":"bob","password":"x","email":"not-an-email"}`, http.StatusBadRequest},
		{"malformed body", "/register", `{"username":`, http.StatusBadRequest},
		{"wrong password", "/login", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", "/login", `{"username":"nobody","password":"secret"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, "", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}

func TestLoginWithPaddedUsername(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/register", "", `{"username":"  carol ","password":"pw","email":"carol@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body)
	}
	rec = do(t, srv, http.MethodPost, "/login", "", `{"username":"  carol ","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/transactions", "/categories", "/reports/summary"} {
		if rec := do(t, srv, http.MethodGet, path, "", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, rec.Code)
		}
	}
	if rec := do(t, srv, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestHealthReportsDatabase(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewHandler(service.NewService(memstore.New(), log, &config.Config{}), log)
	h.SetHealthCheck(func(ctx context.Context) error { return errors.New("connection refused") })

	if rec := do(t, h.Router(), http.MethodGet, "/health", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestReferenceData(t *testing.T) {
	srv := newTestServer(t)
	token := signUp(t, srv, "alice")

	var categories []models.Category
	rec := do(t, srv, http.MethodGet, "/categories", token, "")
	decode(t, rec.Body, &categories)
	if len(categories) != 6 || categories[0].Name != "Food" {
		t.Errorf("categories = %+v", categories)
	}

	var types []models.Type
	rec = do(t, srv, http.MethodGet, "/types", token, "")
	decode(t, rec.Body, &types)
	if len(types) != 2 {
		t.Errorf("types = %+v", types)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := signUp(t, srv, "alice")

	rec := do(t, srv, http.MethodPost, "/transactions", token,
		`{"amount":"12.345","category_id":1,"type_id":2,"description":" lunch ","date":"2024-03-05"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	var created transactionResponse
	decode(t, rec.Body, &created)
	if created.Amount != "12.35" || created.Category != "Food" || created.Type != "Expense" ||
		created.Description != "lunch" || created.Date != "2024-03-05" {
		t.Errorf("created = %+v", created)
	}
	if rec.Header().Get("Location") == "" {
		t.Error("Location header missing")
	}

	path := "/transactions/" + strconv.FormatInt(created.ID, 10)
	rec = do(t, srv, http.MethodPatch, path, token, `{"amount":20,"category_id":6,"type_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", rec.Code, rec.Body)
	}
	var updated transactionResponse
	decode(t, rec.Body, &updated)
	if updated.Amount != "20.00" || updated.Category != "Account" || updated.Type != "Income" ||
		updated.Description != "lunch" || updated.Date != "2024-03-05" {
		t.Errorf("updated = %+v", updated)
	}

	rec = do(t, srv, http.MethodGet, "/transactions?from=2024-03-01&to=2024-04-01", token, "")
	var listed []transactionResponse
	decode(t, rec.Body, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("listed = %+v", listed)
	}

	if rec = do(t, srv, http.MethodDelete, path, token, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec = do(t, srv, http.MethodGet, path, token, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)
	token := signUp(t, srv, "alice")

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"zero amount", `{"amount":"0","category_id":1,"type_id":2,"date":"2024-01-01"}`, "invalid amount"},
		{"negative amount", `{"amount":-5,"category_id":1,"type_id":2,"date":"2024-01-01"}`, "invalid amount"},
		{"non-numeric amount", `{"amount":"abc","category_id":1,"type_id":2,"date":"2024-01-01"}`, "invalid amount"},
		{"boolean amount", `{"amount":true,"category_id":1,"type_id":2,"date":"2024-01-01"}`, "invalid amount"},
		{"missing amount", `{"category_id":1,"type_id":2,"date":"2024-01-01"}`, "invalid amount"},
		{"amount too large", `{"amount":"10000000000","category_id":1,"type_id":2,"date":"2024-01-01"}`, "invalid amount"},
		{"bad date", `{"amount":"5","category_id":1,"type_id":2,"date":"01/02/2024"}`, "invalid date"},
		{"unknown category", `{"amount":"5","category_id":99,"type_id":2,"date":"2024-01-01"}`, "invalid category or type"},
		{"unknown type", `{"amount":"5","category_id":1,"type_id":9,"date":"2024-01-01"}`, "invalid category or type"},
		{"unknown field", `{"amount":"5","category_id":1,"type_id":2,"date":"2024-01-01","user_id":2}`, "invalid input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/transactions", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body)
			}
			if !strings.Contains(rec.Body.String(), tt.wantErr) {
				t.Errorf("body = %s, want it to contain %q", rec.Body, tt.wantErr)
			}
		})
	}
}

func TestUpdateTransactionAmountValidation(t *testing.T) {
	srv := newTestServer(t)
	token := signUp(t, srv, "alice")

	rec := do(t, srv, http.MethodPost, "/transactions", token,
		`{"amount":"5","category_id":1,"type_id":2,"date":"2024-01-01"}`)
	var created transactionResponse
	decode(t, rec.Body, &created)
	path := "/transactions/" + strconv.FormatInt(created.ID, 10)

	for _, body := range []string{`{"amount":"abc"}`, `{"amount":"0"}`, `{"amount":false}`} {
		rec := do(t, srv, http.MethodPatch, path, token, body)
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid amount") {
			t.Errorf("PATCH %s: status = %d, body = %s", body, rec.Code, rec.Body)
		}
	}

	rec = do(t, srv, http.MethodPatch, path, token, `{"amount":null,"description":"kept amount"}`)
	var updated transactionResponse
	decode(t, rec.Body, &updated)
	if rec.Code != http.StatusOK || updated.Amount != "5.00" || updated.Description != "kept amount" {
		t.Errorf("PATCH with null amount: status = %d, body = %+v", rec.Code, updated)
	}
}

func TestTransactionsAreScopedToOwner(t *testing.T) {
	srv := newTestServer(t)
	alice := signUp(t, srv, "alice")
	bob := signUp(t, srv, "bob")

	rec := do(t, srv, http.MethodPost, "/transactions", alice,
		`{"amount":"5","category_id":1,"type_id":2,"date":"2024-01-01"}`)
	var created transactionResponse
	decode(t, rec.Body, &created)
	path := "/transactions/" + strconv.FormatInt(created.ID, 10)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		if rec := do(t, srv, method, path, bob, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s by other user status = %d, want 404", method, rec.Code)
		}
	}
	if rec := do(t, srv, http.MethodPatch, path, bob, `{"amount":"1"}`); rec.Code != http.StatusNotFound {
		t.Errorf("PATCH by other user status = %d, want 404", rec.Code)
	}

	var listed []transactionResponse
	decode(t, do(t, srv, http.MethodGet, "/transactions", bob, "").Body, &listed)
	if len(listed) != 0 {
		t.Errorf("bob sees %d transactions", len(listed))
	}
}

func TestSummaryAndStatement(t *testing.T) {
	srv := newTestServer(t)
	token := signUp(t, srv, "alice")

	for _, body := range []string{
		`{"amount":"1000","category_id":6,"type_id":1,"date":"2024-01-02"}`,
		`{"amount":"40.50","category_id":1,"type_id":2,"date":"2024-01-15"}`,
		`{"amount":"9.50","category_id":1,"type_id":2,"date":"2024-02-01"}`,
	} {
		if rec := do(t, srv, http.MethodPost, "/transactions", token, body); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
		}
	}

	var jan summaryResponse
	decode(t, do(t, srv, http.MethodGet, "/reports/summary?year=2024&month=1", token, "").Body, &jan)
	if jan.Income != "1000.00" || jan.Expense != "40.50" || jan.Balance != "959.50" || len(jan.Categories) != 2 {
		t.Errorf("january summary = %+v", jan)
	}

	var all summaryResponse
	decode(t, do(t, srv, http.MethodGet, "/reports/summary", token, "").Body, &all)
	if all.Period != "all time" || all.Expense != "50.00" {
		t.Errorf("all-time summary = %+v", all)
	}

	var empty summaryResponse
	decode(t, do(t, srv, http.MethodGet, "/reports/summary?year=2023", token, "").Body, &empty)
	if empty.Balance != "0.00" || len(empty.Categories) != 0 {
		t.Errorf("empty summary = %+v", empty)
	}

	for _, q := range []string{"?month=1", "?year=2024&month=13", "?from=2024-02-01&to=2024-01-01", "?from=2024-01-01"} {
		if rec := do(t, srv, http.MethodGet, "/reports/summary"+q, token, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("summary%s status = %d, want 400", q, rec.Code)
		}
	}

	rec := do(t, srv, http.MethodGet, "/reports/summary.xml?year=2024&month=1", token, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `balance="959.50"`) {
		t.Errorf("summary.xml status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = do(t, srv, http.MethodGet, "/reports/statement.xml?year=2024&month=1", token, "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/xml") {
		t.Fatalf("statement status = %d, content type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if body := rec.Body.String(); !strings.Contains(body, `user="alice"`) || strings.Count(body, "<transaction ") != 2 {
		t.Errorf("statement = %s", body)
	}
}

func TestChangePassword(t *testing.T) {
	srv := newTestServer(t)
	token := signUp(t, srv, "alice")

	if rec := do(t, srv, http.MethodPut, "/password", token, `{"old_password":"wrong","new_password":"n"}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong old password status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodPut, "/password", token, `{"old_password":"secret","new_password":"fresh"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("change status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec := do(t, srv, http.MethodPost, "/login", "", `{"username":"alice","password":"fresh"}`); rec.Code != http.StatusOK {
		t.Errorf("login with new password status = %d", rec.Code)
	}
}
