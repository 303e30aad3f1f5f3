// ABOUTME: Snapshot-backed provider for fixtures, offline use and tests
// ABOUTME: Loads a JSON snapshot of profiles and per-profile connection lists
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/sherpa/models"
)

// Snapshot is the on-disk fixture format.
type Snapshot struct {
	Profiles    []models.ProfileRecord               `json:"profiles"`
	Connections map[string][]models.ConnectionRecord `json:"connections"`
}

const filePriority = 10

type MemoryProvider struct {
	name      string
	priority  int
	limit     RateLimit
	profiles  []models.ProfileRecord
	conns     map[string][]models.ConnectionRecord
	available bool
}

func NewMemoryProvider(name string, priority int, snap Snapshot) *MemoryProvider {
	conns := snap.Connections
	if conns == nil {
		conns = map[string][]models.ConnectionRecord{}
	}
	return &MemoryProvider{name: name, priority: priority, profiles: snap.Profiles, conns: conns, available: true}
}

// LoadFileProvider reads a Snapshot from a JSON file.
func LoadFileProvider(path string) (*MemoryProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return NewMemoryProvider("file:"+filepath.Base(path), filePriority, snap), nil
}

// WithRateLimit sets the limit reported to the registry.
func (m *MemoryProvider) WithRateLimit(rl RateLimit) *MemoryProvider {
	m.limit = rl
	return m
}

// SetAvailable toggles what IsAvailable reports.
func (m *MemoryProvider) SetAvailable(ok bool) {
	m.available = ok
}

func (m *MemoryProvider) Name() string                     { return m.name }
func (m *MemoryProvider) Priority() int                    { return m.priority }
func (m *MemoryProvider) IsAvailable(context.Context) bool { return m.available }
func (m *MemoryProvider) RateLimit() RateLimit             { return m.limit }

// GetProfile matches identity against profile id, platform id or email.
func (m *MemoryProvider) GetProfile(_ context.Context, identity string) (*models.ProfileRecord, error) {
	for i := range m.profiles {
		p := m.profiles[i]
		if p.ID == identity || (p.PlatformID != "" && p.PlatformID == identity) ||
			(p.Email != "" && strings.EqualFold(p.Email, identity)) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile %q: %w", identity, ErrNotFound)
}

func (m *MemoryProvider) GetConnections(_ context.Context, profileID string) ([]models.ConnectionRecord, error) {
	conns, ok := m.conns[profileID]
	if !ok {
		return nil, fmt.Errorf("connections for %q: %w", profileID, ErrNotFound)
	}
	return append([]models.ConnectionRecord(nil), conns...), nil
}
