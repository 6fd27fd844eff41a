package sheets

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
)

func TestClient_ReadRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/spreadsheets/sheet-1/values/Collection!A2:H", r.URL.Path)
		assert.Equal(t, "api-key", r.URL.Query().Get("key"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Write([]byte(`{"range":"Collection!A2:H","majorDimension":"ROWS","values":[["a","Forest"],["b","Island"]]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sheet-1", "api-key")

	rows, err := client.ReadRange(context.Background(), "Collection!A2:H")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "Forest"}, {"b", "Island"}}, rows)
}

func TestClient_ReadRange_EmptyRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"range":"Decks!A2:E","majorDimension":"ROWS"}`))
	}))
	defer server.Close()

	rows, err := NewClient(server.URL, "s", "k").ReadRange(context.Background(), "Decks!A2:E")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestClient_WriteRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body valueRange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ROWS", body.MajorDimension)
		assert.Equal(t, [][]string{{"d", "Deck"}}, body.Values)

		w.Write([]byte(`{"updatedRows":1}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, "s", "k").WriteRange(context.Background(), "Decks!A2:E", [][]string{{"d", "Deck"}}, "tok")
	require.NoError(t, err)
}

func TestClient_ClearRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/spreadsheets/s/values/Decks!A2:E:clear", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL, "s", "k").ClearRange(context.Background(), "Decks!A2:E", "tok"))
}

func TestClient_ErrorEmbedsStatusAndMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "s", "k").ReadRange(context.Background(), "A1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "The caller does not have permission")
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL, "s", "k").ClearRange(context.Background(), "A1", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
