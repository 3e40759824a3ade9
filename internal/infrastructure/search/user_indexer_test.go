package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-registration/internal/application"
)

type captured struct {
	method string
	path   string
	body   map[string]any
}

func newES(t *testing.T, status int) (*elasticsearch.Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got.body)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, got
}

func sample() application.UserResponse {
	return application.UserResponse{
		ID:        uuid.MustParse("3f2b8c1e-6a4d-4e1f-9b7a-2c5d8e9f0a1b"),
		Name:      "Ana",
		Email:     "ana@x.com",
		Password:  "$2a$10$hash",
		Phones:    []application.PhoneResponse{{Number: "5551234", CityCode: "1", CountryCode: "57"}},
		Created:   "2026-10-15",
		LastLogin: "2026-10-15",
		Token:     "tok",
		IsActive:  true,
	}
}

func TestIndexUser_PutsProjectionWithoutSecrets(t *testing.T) {
	es, got := newES(t, http.StatusCreated)

	err := NewUserIndexer(es, "users").IndexUser(context.Background(), sample())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/users/_doc/3f2b8c1e-6a4d-4e1f-9b7a-2c5d8e9f0a1b", got.path)
	assert.Equal(t, "ana@x.com", got.body["email"])
	assert.Equal(t, "2026-10-15", got.body["created"])
	assert.Nil(t, got.body["modified"])
	assert.NotContains(t, got.body, "password")
	assert.NotContains(t, got.body, "token")
	phones, ok := got.body["phones"].([]any)
	require.True(t, ok)
	assert.Len(t, phones, 1)
}

func TestIndexUser_ErrorStatus(t *testing.T) {
	es, _ := newES(t, http.StatusBadRequest)

	err := NewUserIndexer(es, "users").IndexUser(context.Background(), sample())
	assert.Error(t, err)
}
