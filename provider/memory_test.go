// ABOUTME: Tests for the snapshot-backed provider and file loading
// ABOUTME: Writes fixture snapshots into temporary directories
package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJSON = `{
  "profiles": [
    {"id": "me", "full_name": "Morgan Lee", "email": "morgan@example.com"},
    {"id": "p1", "platform_id": "ada-park", "full_name": "Ada Park", "current_company": "Initech"}
  ],
  "connections": {
    "me": [{"id": "c1", "profile_id": "p1", "full_name": "Ada Park", "relationship_strength": 0.8}]
  }
}`

func TestLoadFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0600))

	p, err := LoadFileProvider(path)
	require.NoError(t, err)
	assert.Equal(t, "file:network.json", p.Name())
	assert.True(t, p.IsAvailable(context.Background()))

	ctx := context.Background()
	byEmail, err := p.GetProfile(ctx, "MORGAN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "me", byEmail.ID)

	byPlatform, err := p.GetProfile(ctx, "ada-park")
	require.NoError(t, err)
	assert.Equal(t, "Initech", byPlatform.CurrentCompany)

	_, err = p.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	conns, err := p.GetConnections(ctx, "me")
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.InDelta(t, 0.8, conns[0].RelationshipStrength, 1e-9)

	_, err = p.GetConnections(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFileProviderErrors(t *testing.T) {
	_, err := LoadFileProvider(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0600))
	_, err = LoadFileProvider(bad)
	assert.Error(t, err)
}
