package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendActivationCode(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer api-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "api-token", "noreply@careercompass.app")
	err := c.SendActivationCode(context.Background(), "alice@example.com", "Alice", "code-123")
	require.NoError(t, err)

	assert.Equal(t, "noreply@careercompass.app", got.Message.From.Email)
	require.Len(t, got.Message.To, 1)
	assert.Equal(t, "alice@example.com", got.Message.To[0].Email)
	assert.Contains(t, got.Message.Text, "code-123")
	assert.Contains(t, got.Message.HTML, "code-123")
}

func TestSendActivationCodeAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token", "noreply@careercompass.app")
	err := c.SendActivationCode(context.Background(), "alice@example.com", "", "code-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
