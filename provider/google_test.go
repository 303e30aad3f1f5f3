// ABOUTME: Tests for the Google contacts provider and OAuth token storage
// ABOUTME: Serves People API responses from an httptest server
package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

func peopleServer(t *testing.T) *people.Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/people/me/connections"):
			if r.URL.Query().Get("pageToken") == "" {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"connections": []map[string]any{
						{
							"resourceName": "people/c1",
							"names":        []map[string]any{{"displayName": "Ada Park"}},
							"emailAddresses": []map[string]any{
								{"value": "ada@old.example"},
								{"value": "ada@initech.example", "metadata": map[string]any{"primary": true}},
							},
							"organizations": []map[string]any{{"name": "Initech", "title": "CTO"}},
						},
						{"resourceName": "people/c2"},
					},
					"nextPageToken": "page2",
				})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"connections": []map[string]any{
					{"resourceName": "people/c3", "names": []map[string]any{{"displayName": "Ben Cho"}}},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/people/me"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"resourceName": "people/123",
				"names":        []map[string]any{{"displayName": "Morgan Lee"}},
				"addresses":    []map[string]any{{"city": "Austin", "region": "TX"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	svc, err := people.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return svc
}

func TestGoogleContactsConnections(t *testing.T) {
	g := NewGoogleContactsProviderWithService(peopleServer(t), "me")

	conns, err := g.GetConnections(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, conns, 2)

	assert.Equal(t, "people/c1", conns[0].ID)
	assert.Equal(t, "Ada Park", conns[0].FullName)
	assert.Equal(t, "ada@initech.example", conns[0].Email)
	assert.Equal(t, "Initech", conns[0].Company)
	assert.Equal(t, "CTO", conns[0].Title)
	assert.Equal(t, ContactStrength, conns[0].RelationshipStrength)
	assert.Equal(t, "Ben Cho", conns[1].FullName)

	_, err = g.GetConnections(context.Background(), "people/c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoogleContactsOwnerProfile(t *testing.T) {
	g := NewGoogleContactsProviderWithService(peopleServer(t), "me")

	p, err := g.GetProfile(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, "me", p.ID)
	assert.Equal(t, "people/123", p.PlatformID)
	assert.Equal(t, "Morgan Lee", p.FullName)
	assert.Equal(t, "Austin, TX", p.Location)

	_, err = g.GetProfile(context.Background(), "someone@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoogleProviderUnavailableWithoutService(t *testing.T) {
	g := NewGoogleContactsProviderWithService(nil, "me")
	assert.False(t, g.IsAvailable(context.Background()))
}

func TestNewGoogleContactsProviderRequiresCredentials(t *testing.T) {
	_, err := NewGoogleContactsProvider(context.Background(), &oauth2.Config{}, &oauth2.Token{AccessToken: "x"}, "me")
	assert.Error(t, err)

	_, err = NewGoogleContactsProvider(context.Background(), NewOAuthConfig(), nil, "me")
	assert.Error(t, err)
}

func TestOAuthConfigScopes(t *testing.T) {
	cfg := NewOAuthConfig()
	assert.Equal(t, []string{contactsScope, calendarScope}, cfg.Scopes)
}

func TestTokenRoundTrip(t *testing.T) {
	assert.True(t, strings.HasPrefix(TokenPath(), filepath.Join(xdg.DataHome, "sherpa")))

	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, SaveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.AccessToken)
	assert.Equal(t, "def", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	_, err = LoadToken(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
