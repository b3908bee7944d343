package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/talentops/cvhub/internal/auth"
	"github.com/talentops/cvhub/internal/cache"
	"github.com/talentops/cvhub/internal/config"
	"github.com/talentops/cvhub/internal/db"
	apphttp "github.com/talentops/cvhub/internal/http"
	"github.com/talentops/cvhub/internal/observability"
)

// These tests need a reachable Postgres; point TEST_DB_DSN at one to run them.

func setupAPITest(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}

	t.Cleanup(pool.Close)

	if err := db.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE users, cv_records`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := config.Config{Env: "test"}

	jwt := auth.NewManager("integration-test-secret", auth.SessionTTL)

	promReg := prometheus.NewRegistry()
	metrics := observability.NewProm(promReg)

	router := apphttp.NewRouter(logger, pool, cfg, jwt, jwt, cache.NewMemory(time.Millisecond), metrics, promReg)

	return router, pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, username, password, role string) string {
	t.Helper()

	id := uuid.NewString()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, password, email, role, first_name, last_name, department, position, phone_number, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		id, username, password, username+"@example.com", role, "Alice", "Mokoena", "IT", "Analyst", "+27115550100", true,
	)

	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return id
}

func seedRecord(t *testing.T, pool *pgxpool.Pool, name string, submittedAt time.Time) string {
	t.Helper()

	id := uuid.NewString()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO cv_records (id, name, surname, role_title, sap_k_level, submitted_at, languages)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, name, "Nkosi", "SAP Consultant", "K4", submittedAt, `["English","Zulu"]`,
	)

	if err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}

	return id
}

func doJSON(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer

	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestLoginAndListRecords(t *testing.T) {
	router, pool := setupAPITest(t)

	seedUser(t, pool, "alice", "s3cret", "Reviewer")

	now := time.Now().UTC().Truncate(time.Millisecond)

	older := seedRecord(t, pool, "Lindiwe", now.Add(-time.Hour))
	newer := seedRecord(t, pool, "Thabo", now)

	// wrong password
	w := doJSON(router, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: got %d, body=%s", w.Code, w.Body.String())
	}

	// valid login
	w = doJSON(router, http.MethodPost, "/login", `{"username":"alice","password":"s3cret"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login: got %d, body=%s", w.Code, w.Body.String())
	}

	var loginResp struct {
		Role  string `json:"role"`
		Token string `json:"token"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to unmarshal login response: %v", err)
	}

	if loginResp.Role != "reviewer" {
		t.Errorf("got role %q, want lowercased %q", loginResp.Role, "reviewer")
	}

	if loginResp.Token == "" {
		t.Fatalf("expected a session token")
	}

	// unauthenticated listing is rejected
	w = doJSON(router, http.MethodGet, "/cv-records", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: got %d", w.Code)
	}

	// authenticated listing, newest first
	w = doJSON(router, http.MethodGet, "/cv-records", "", loginResp.Token)

	if w.Code != http.StatusOK {
		t.Fatalf("list: got %d, body=%s", w.Code, w.Body.String())
	}

	var records []struct {
		ID          string    `json:"id"`
		SubmittedAt time.Time `json:"submittedAt"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("failed to unmarshal records: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if records[0].ID != newer || records[1].ID != older {
		t.Fatalf("records not ordered by submittedAt desc: %+v", records)
	}
}

func TestProfileLookupAfterDeletion(t *testing.T) {
	router, pool := setupAPITest(t)

	id := seedUser(t, pool, "bob", "hunter2", "staff")

	w := doJSON(router, http.MethodPost, "/login", `{"username":"bob","password":"hunter2"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login: got %d, body=%s", w.Code, w.Body.String())
	}

	var loginResp struct {
		Token string `json:"token"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to unmarshal login response: %v", err)
	}

	// profile resolves while the row exists
	w = doJSON(router, http.MethodGet, "/user", "", loginResp.Token)

	if w.Code != http.StatusOK {
		t.Fatalf("profile: got %d, body=%s", w.Code, w.Body.String())
	}

	// the token stays valid after deletion; the read-time check catches it
	if _, err := pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	w = doJSON(router, http.MethodGet, "/user", "", loginResp.Token)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted profile: got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Message != "User not found" {
		t.Fatalf("got message %q, want %q", resp.Message, "User not found")
	}
}

func TestLegacyFirstNameColumnCoalesce(t *testing.T) {
	router, pool := setupAPITest(t)

	// a row imported from the old dump has only the lowercase column
	id := uuid.NewString()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, password, email, role, firstname, last_name, department, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, "legacy", "pw", "legacy@example.com", "staff", "Sipho", "Zulu", "HR", true,
	)

	if err != nil {
		t.Fatalf("failed to seed legacy user: %v", err)
	}

	w := doJSON(router, http.MethodPost, "/login", `{"username":"legacy","password":"pw"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login: got %d, body=%s", w.Code, w.Body.String())
	}

	var loginResp struct {
		FirstName string `json:"firstName"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to unmarshal login response: %v", err)
	}

	if loginResp.FirstName != "Sipho" {
		t.Fatalf("got firstName %q, want coalesced %q", loginResp.FirstName, "Sipho")
	}
}
