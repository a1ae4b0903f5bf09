package firestore_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examvault/go-session"
	"github.com/examvault/go-session/provider/firestore"
)

const docPath = "/projects/test-project/databases/(default)/documents/users/uid-1"

func staticToken(token string) firestore.TokenSource {
	return func() (string, error) { return token, nil }
}

func newTestStore(t *testing.T, handler http.HandlerFunc) *firestore.Store {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := firestore.New(firestore.Config{
		ProjectID: "test-project",
		Endpoint:  server.URL,
	}, staticToken("id-token"))
	require.NoError(t, err)
	return store
}

func TestNew(t *testing.T) {
	t.Run("requires a project id", func(t *testing.T) {
		_, err := firestore.New(firestore.Config{}, staticToken("x"))
		assert.Error(t, err)
	})

	t.Run("requires a token source", func(t *testing.T) {
		_, err := firestore.New(firestore.Config{ProjectID: "p"}, nil)
		assert.Error(t, err)
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the typed document", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, docPath, r.URL.Path)
			require.Equal(t, "Bearer id-token", r.Header.Get("Authorization"))

			fmt.Fprint(w, `{
				"name": "projects/test-project/databases/(default)/documents/users/uid-1",
				"fields": {
					"email":     {"stringValue": "user@test.com"},
					"name":      {"stringValue": "Jane"},
					"grade":     {"stringValue": "10"},
					"favorites": {"arrayValue": {"values": [{"stringValue": "paper-1"}]}},
					"downloads": {"arrayValue": {}},
					"createdAt": {"integerValue": "1748779200000"}
				}
			}`)
		})

		doc, err := store.GetProfile(ctx, "uid-1")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "user@test.com", doc.Email)
		assert.Equal(t, "Jane", doc.Name)
		assert.Equal(t, "10", doc.Grade)
		assert.Equal(t, []string{"paper-1"}, doc.Favorites)
		assert.Empty(t, doc.Downloads)
		assert.Equal(t, int64(1748779200000), doc.CreatedAt)
	})

	t.Run("missing document is nil nil", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		doc, err := store.GetProfile(ctx, "uid-1")
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("sparse fields decode with defaults", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"fields": {"email": {"stringValue": "user@test.com"}}}`)
		})

		doc, err := store.GetProfile(ctx, "uid-1")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "user@test.com", doc.Email)
		require.NotNil(t, doc.Favorites)
		require.NotNil(t, doc.Downloads)
		assert.Empty(t, doc.Favorites)
		assert.Zero(t, doc.CreatedAt)
	})

	t.Run("server failure surfaces", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := store.GetProfile(ctx, "uid-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("token source failure short-circuits", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("request must not reach the server")
		}))
		t.Cleanup(server.Close)

		store, err := firestore.New(firestore.Config{
			ProjectID: "test-project",
			Endpoint:  server.URL,
		}, func() (string, error) { return "", errors.New("signed out") })
		require.NoError(t, err)

		_, err = store.GetProfile(ctx, "uid-1")
		assert.Error(t, err)
	})
}

func TestPutProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("patches the full document", func(t *testing.T) {
		var body map[string]any
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPatch, r.Method)
			require.Equal(t, docPath, r.URL.Path)
			require.Empty(t, r.URL.Query().Get("updateMask.fieldPaths"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			fmt.Fprint(w, `{}`)
		})

		doc := session.ProfileDocument{
			Email:     "user@test.com",
			Name:      "Jane",
			Grade:     "10",
			Favorites: []string{"paper-1"},
			Downloads: []string{},
			CreatedAt: 1748779200000,
		}
		require.NoError(t, store.PutProfile(ctx, "uid-1", doc))

		fields, ok := body["fields"].(map[string]any)
		require.True(t, ok)

		email, ok := fields["email"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "user@test.com", email["stringValue"])

		createdAt, ok := fields["createdAt"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "1748779200000", createdAt["integerValue"])

		favorites, ok := fields["favorites"].(map[string]any)
		require.True(t, ok)
		assert.NotNil(t, favorites["arrayValue"])
	})

	t.Run("server failure surfaces", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		err := store.PutProfile(ctx, "uid-1", session.ProfileDocument{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})
}
