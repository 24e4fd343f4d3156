package apiclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/users", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode([]User{
			{Username: "admin", Role: "admin", Enabled: true},
			{Username: "operator", Role: "user", Enabled: true},
		})
	}))
	defer server.Close()

	client := New(server.URL).WithToken("token")
	users, err := client.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
}

func TestCreateUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users", r.URL.Path)

		var req CreateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "operator", req.Username)
		assert.Equal(t, "user", req.Role)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(User{
			Username: req.Username,
			Role:     req.Role,
			Enabled:  true,
		})
	}))
	defer server.Close()

	client := New(server.URL).WithToken("token")
	user, err := client.CreateUser(&CreateUserRequest{
		Username: "operator",
		Password: "changeme123",
		Role:     "user",
	})
	require.NoError(t, err)
	assert.Equal(t, "operator", user.Username)
	assert.True(t, user.Enabled)
}

func TestUpdateUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/users/operator", r.URL.Path)

		var req UpdateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Enabled)
		assert.False(t, *req.Enabled)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(User{Username: "operator", Enabled: false})
	}))
	defer server.Close()

	enabled := false
	client := New(server.URL).WithToken("token")
	user, err := client.UpdateUser("operator", &UpdateUserRequest{Enabled: &enabled})
	require.NoError(t, err)
	assert.False(t, user.Enabled)
}

func TestResetUserPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users/operator/password", r.URL.Path)

		var req ChangePasswordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.CurrentPassword)
		assert.Equal(t, "newpassword123", req.NewPassword)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL).WithToken("token")
	require.NoError(t, client.ResetUserPassword("operator", "newpassword123"))
}

func TestChangeOwnPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users/me/password", r.URL.Path)

		var req ChangePasswordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "oldpass123", req.CurrentPassword)
		assert.Equal(t, "newpass123", req.NewPassword)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "fresh-token",
			TokenType:   "Bearer",
		})
	}))
	defer server.Close()

	client := New(server.URL).WithToken("token")
	resp, err := client.ChangeOwnPassword("oldpass123", "newpass123")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", resp.AccessToken)
}

func TestDeleteUser_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"title":  "Forbidden",
			"status": http.StatusForbidden,
			"detail": "Admin role required",
		})
	}))
	defer server.Close()

	client := New(server.URL).WithToken("token")
	err := client.DeleteUser("admin")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsAuthError())
}
