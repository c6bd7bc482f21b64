package jsonplaceholder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-sync/internal/domain/user"
	apperrors "user-sync/pkg/errors"
	"user-sync/pkg/logger"
)

// setupTestServer starts an upstream fake and a client pointed at it.
func setupTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), zaptest.NewLogger(t))
}

func writeBody(t *testing.T, w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, err := io.WriteString(w, body)
	assert.NoError(t, err)
}

func TestNewClient(t *testing.T) {
	client := NewClient(DefaultBaseURL, nil, zaptest.NewLogger(t))

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Same(t, http.DefaultClient, client.httpClient)
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		writeBody(t, w, http.StatusOK, `[{"id":1,"name":"A","username":"a","email":"a@x.com"}]`)
	})

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.User{{ID: 1, Name: "A", Username: "a", Email: "a@x.com"}}, users)
}

func TestListUsers_EmptyArray(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `[]`)
	})

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestListUsers_StatusNotChecked(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusInternalServerError, `[{"id":2,"name":"B","username":"b","email":"b@x.com"}]`)
	})

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestListUsers_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected error
	}{
		{name: "empty body", body: "", expected: apperrors.ErrNoData},
		{name: "malformed json", body: `[{"id":1,`, expected: apperrors.ErrDecoding},
		{name: "object instead of array", body: `{"id":1,"name":"A","username":"a","email":"a@x.com"}`, expected: apperrors.ErrDecoding},
		{name: "null", body: `null`, expected: apperrors.ErrDecoding},
		{name: "missing key", body: `[{"id":1,"name":"A","email":"a@x.com"}]`, expected: apperrors.ErrDecoding},
		{name: "null field", body: `[{"id":1,"name":null,"username":"a","email":"a@x.com"}]`, expected: apperrors.ErrDecoding},
		{name: "wrong type", body: `[{"id":"1","name":"A","username":"a","email":"a@x.com"}]`, expected: apperrors.ErrDecoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeBody(t, w, http.StatusOK, tt.body)
			})

			users, err := client.ListUsers(context.Background())

			assert.Nil(t, users)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestListUsers_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(baseURL, nil, zaptest.NewLogger(t))
	users, err := client.ListUsers(context.Background())

	assert.Nil(t, users)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
}

func TestListUsers_CancelledContext(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListUsers(ctx)

	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListUsers_InvalidURL(t *testing.T) {
	for _, base := range []string{"", "://missing-scheme", "not-absolute"} {
		t.Run(base, func(t *testing.T) {
			client := NewClient(base, nil, zaptest.NewLogger(t))

			_, err := client.ListUsers(context.Background())

			assert.ErrorIs(t, err, apperrors.ErrInvalidURL)
		})
	}
}

func TestListUsers_ForwardsRequestID(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get(logger.RequestIDHeader))
		writeBody(t, w, http.StatusOK, `[]`)
	})

	_, err := client.ListUsers(logger.WithRequestID(context.Background(), "req-42"))
	require.NoError(t, err)
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	provisional := domain.Provisional()

	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var sent domain.User
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		assert.Equal(t, provisional, sent)

		writeBody(t, w, http.StatusCreated, `{"id":11,"name":"New User","username":"New","email":"New Email"}`)
	})

	created, err := client.CreateUser(context.Background(), provisional)

	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, "New User", created.Name)
}

func TestCreateUser_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{name: "empty body", status: http.StatusCreated, body: "", expected: apperrors.ErrNoData},
		{name: "array instead of object", status: http.StatusCreated, body: `[]`, expected: apperrors.ErrDecoding},
		{name: "error body", status: http.StatusInternalServerError, body: `{"error":"boom"}`, expected: apperrors.ErrDecoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeBody(t, w, tt.status, tt.body)
			})

			_, err := client.CreateUser(context.Background(), domain.Provisional())

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	u := domain.User{ID: 5, Name: "Chelsey Dietrich", Username: "Kamren", Email: "Lucio_Hettinger@annie.ca"}

	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/5", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		writeBody(t, w, http.StatusOK, string(body))
	})

	updated, err := client.UpdateUser(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, u, updated)
}

func TestUpdateUser_NotFoundBody(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusNotFound, `{}`)
	})

	_, err := client.UpdateUser(context.Background(), domain.User{ID: 999})

	assert.ErrorIs(t, err, apperrors.ErrDecoding)
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{name: "ok", status: http.StatusOK},
		{name: "not found", status: http.StatusNotFound, expected: apperrors.ErrRequestFailed},
		{name: "no content is not 200", status: http.StatusNoContent, expected: apperrors.ErrRequestFailed},
		{name: "server error", status: http.StatusInternalServerError, expected: apperrors.ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/users/3", r.URL.Path)
				w.WriteHeader(tt.status)
			})

			err := client.DeleteUser(context.Background(), 3)

			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestDeleteUser_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(baseURL, nil, zaptest.NewLogger(t))
	err := client.DeleteUser(context.Background(), 1)

	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apperrors.KindRequestFailed, apiErr.Kind)
	assert.Equal(t, OpDelete, apiErr.Op)
}
