package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/mwhitfield/recordvault/internal/auth"
)

// registerTestUser registers a user through the API and returns the session token.
func registerTestUser(t *testing.T, srv *Server, username, email string) string {
	t.Helper()

	body := fmt.Sprintf(
		`{"username":%q,"email":%q,"password":"secret-pw","fullName":"%s Test"}`,
		username, email, username)
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", username, rec.Code, rec.Body.String())
	}

	token, ok := decodeBody(t, rec)["token"].(string)
	if !ok || token == "" {
		t.Fatalf("register %s: response has no token", username)
	}
	return token
}

func TestRegister(t *testing.T) {
	srv := testServer(t)

	body := `{"username":"alice","email":"alice@example.com","password":"secret-pw","fullName":"Alice Test"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody(t, rec)

	token, _ := resp["token"].(string)
	claims, err := auth.ParseToken(token, testJWTSecret)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("token username = %q, want alice", claims.Username)
	}

	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("response has no user object: %v", resp)
	}
	if user["email"] != "alice@example.com" {
		t.Errorf("user.email = %v, want alice@example.com", user["email"])
	}
	if user["isActive"] != true {
		t.Errorf("user.isActive = %v, want true", user["isActive"])
	}
	if claims.Subject != user["id"] {
		t.Errorf("token subject %q should match user id %v", claims.Subject, user["id"])
	}

	// The password digest must never appear in any response.
	for key := range user {
		if key == "password" || key == "passwordHash" {
			t.Errorf("user object leaks %q field", key)
		}
	}
}

func TestRegister_Validation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing username", `{"email":"a@x.com","password":"secret-pw","fullName":"A"}`},
		{"missing email", `{"username":"alice","password":"secret-pw","fullName":"A"}`},
		{"missing password", `{"username":"alice","email":"a@x.com","fullName":"A"}`},
		{"missing full name", `{"username":"alice","email":"a@x.com","password":"secret-pw"}`},
		{"short password", `{"username":"alice","email":"a@x.com","password":"12345","fullName":"A"}`},
		{"bad username", `{"username":"has spaces","email":"a@x.com","password":"secret-pw","fullName":"A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	srv := testServer(t)

	registerTestUser(t, srv, "alice", "alice@example.com")

	tests := []struct {
		name string
		body string
	}{
		{"same email", `{"username":"alice2","email":"alice@example.com","password":"secret-pw","fullName":"A"}`},
		{"same username", `{"username":"alice","email":"alice2@example.com","password":"secret-pw","fullName":"A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", tt.body, nil)
			if rec.Code != http.StatusConflict {
				t.Errorf("status = %d, want 409; body = %s", rec.Code, rec.Body.String())
			}
		})
	}

	// The failed attempts must not have created records.
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/stats", "", nil)
	if got := decodeBody(t, rec)["totalUsers"]; got != float64(1) {
		t.Errorf("totalUsers = %v, want 1 after rejected duplicates", got)
	}
}

func TestLogin(t *testing.T) {
	srv := testServer(t)
	registerTestUser(t, srv, "alice", "alice@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login",
		`{"email":"alice@example.com","password":"secret-pw"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody(t, rec)
	token, _ := resp["token"].(string)
	claims, err := auth.ParseToken(token, testJWTSecret)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("token email = %q, want alice@example.com", claims.Email)
	}
}

func TestLogin_Validation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing email", `{"password":"secret-pw"}`},
		{"missing password", `{"email":"a@x.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// TestLogin_GenericFailure verifies that an unknown email and a wrong
// password are indistinguishable to the caller.
func TestLogin_GenericFailure(t *testing.T) {
	srv := testServer(t)
	registerTestUser(t, srv, "alice", "alice@example.com")

	wrongPassword := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login",
		`{"email":"alice@example.com","password":"wrong-pw"}`, nil)
	unknownEmail := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login",
		`{"email":"ghost@example.com","password":"secret-pw"}`, nil)

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", wrongPassword.Code)
	}
	if unknownEmail.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("failure responses differ: %q vs %q — login can be used to enumerate accounts",
			wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestRegisterThenAccessProtected(t *testing.T) {
	srv := testServer(t)
	token := registerTestUser(t, srv, "alice", "alice@example.com")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/users",
		"", map[string]string{"Authorization": "Bearer " + token})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody(t, rec)
	if resp["total"] != float64(1) {
		t.Errorf("total = %v, want 1", resp["total"])
	}

	users, ok := resp["users"].([]any)
	if !ok || len(users) != 1 {
		t.Fatalf("users = %v, want one entry", resp["users"])
	}
	user, ok := users[0].(map[string]any)
	if !ok {
		t.Fatalf("users[0] = %v, want object", users[0])
	}
	if user["username"] != "alice" {
		t.Errorf("username = %v, want alice", user["username"])
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Error("list response leaks the password hash")
	}
}

func TestGetUser(t *testing.T) {
	srv := testServer(t)
	token := registerTestUser(t, srv, "alice", "alice@example.com")

	claims, err := auth.ParseToken(token, testJWTSecret)
	if err != nil {
		t.Fatalf("parsing token: %v", err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/users/"+claims.Subject,
		"", map[string]string{"Authorization": "Bearer " + token})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["username"]; got != "alice" {
		t.Errorf("username = %v, want alice", got)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/users/no-such-id",
		"", map[string]string{"Authorization": "Bearer " + token})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}
