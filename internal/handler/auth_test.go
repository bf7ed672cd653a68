package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/utilgate/utilgate/internal/auth"
	"github.com/utilgate/utilgate/internal/model"
	"github.com/utilgate/utilgate/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserStore struct {
	created   *model.User
	createErr error
	byEmail   map[string]*model.User
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

type fakeTokenIssuer struct {
	token string
	err   error
}

func (f *fakeTokenIssuer) Issue(string) (string, error) {
	return f.token, f.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid registration",
			body:       `{"email":"user@example.com","password":"hunter2hunter2"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "missing email",
			body:       `{"password":"hunter2hunter2"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "email is required",
		},
		{
			name:       "missing password",
			body:       `{"email":"user@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "password is required",
		},
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email","password":"hunter2hunter2"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid email",
		},
		{
			name:       "password too short",
			body:       `{"email":"user@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "password must be between 8 and 100 characters",
		},
		{
			name:       "password too long",
			body:       `{"email":"user@example.com","password":"` + strings.Repeat("x", 101) + `"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "password must be between 8 and 100 characters",
		},
		{
			name:       "duplicate email",
			body:       `{"email":"user@example.com","password":"hunter2hunter2"}`,
			createErr:  repository.ErrEmailTaken,
			wantStatus: http.StatusBadRequest,
			wantError:  "email already exists",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeUserStore{createErr: tt.createErr}
			h := NewAuthHandler(discardLogger(), store, &fakeTokenIssuer{})

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			req.RemoteAddr = "10.0.0.7:1111"
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}

			body := decodeBody(t, rec)
			if tt.wantError != "" {
				if body["error"] != tt.wantError {
					t.Errorf("error = %v, want %q", body["error"], tt.wantError)
				}
				return
			}

			if body["message"] != "registered" {
				t.Errorf("message = %v", body["message"])
			}
			if store.created == nil {
				t.Fatal("user not persisted")
			}
			if store.created.Email != "user@example.com" {
				t.Errorf("stored email = %q", store.created.Email)
			}
			if store.created.RegistrationIP != "10.0.0.7" {
				t.Errorf("registration IP = %q", store.created.RegistrationIP)
			}
			if store.created.ID == "" {
				t.Error("user ID not assigned")
			}
			if store.created.PasswordHash == "hunter2hunter2" || store.created.PasswordHash == "" {
				t.Error("password stored without hashing")
			}
			if err := auth.VerifyPassword("hunter2hunter2", store.created.PasswordHash); err != nil {
				t.Errorf("stored hash does not verify: %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &fakeUserStore{byEmail: map[string]*model.User{
		"user@example.com": {ID: "u1", Email: "user@example.com", PasswordHash: hash},
	}}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid login",
			body:       `{"email":"user@example.com","password":"hunter2hunter2"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing fields",
			body:       `{"email":"user@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "email and password are required",
		},
		{
			name:       "unknown user",
			body:       `{"email":"nobody@example.com","password":"hunter2hunter2"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "user not found",
		},
		{
			name:       "wrong password",
			body:       `{"email":"user@example.com","password":"incorrect-pass"}`,
			wantStatus: http.StatusUnauthorized,
			wantError:  "wrong password",
		},
		{
			name:       "email lookup is case-sensitive",
			body:       `{"email":"USER@EXAMPLE.COM","password":"hunter2hunter2"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "user not found",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewAuthHandler(discardLogger(), store, &fakeTokenIssuer{token: "signed-token"})

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}

			body := decodeBody(t, rec)
			if tt.wantError != "" {
				if body["error"] != tt.wantError {
					t.Errorf("error = %v, want %q", body["error"], tt.wantError)
				}
				return
			}
			if body["token"] != "signed-token" {
				t.Errorf("token = %v", body["token"])
			}
			if body["email"] != "user@example.com" {
				t.Errorf("email = %v", body["email"])
			}
		})
	}
}
