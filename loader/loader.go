// ABOUTME: Data loader contract for accounts and network connections
// ABOUTME: JSONLoader reads datasets from a directory of JSON files
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
)

const (
	AccountsFile    = "accounts.json"
	ConnectionsFile = "connections.json"
)

// DataLoader supplies the records the scoring engines run over. A missing
// dataset yields an empty slice, not an error.
type DataLoader interface {
	LoadAccounts(ctx context.Context) ([]models.Account, error)
	LoadConnections(ctx context.Context) ([]models.Connection, error)
}

type JSONLoader struct {
	dir string
}

func NewJSONLoader(dir string) *JSONLoader {
	return &JSONLoader{dir: dir}
}

func (l *JSONLoader) Dir() string {
	return l.dir
}

func (l *JSONLoader) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	var envelope struct {
		Accounts []models.Account `json:"accounts"`
	}
	var accounts []models.Account
	if err := l.read(ctx, AccountsFile, &accounts, &envelope); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = envelope.Accounts
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}

func (l *JSONLoader) LoadConnections(ctx context.Context) ([]models.Connection, error) {
	var envelope struct {
		Connections []models.Connection `json:"connections"`
	}
	var conns []models.Connection
	if err := l.read(ctx, ConnectionsFile, &conns, &envelope); err != nil {
		return nil, err
	}
	if conns == nil {
		conns = envelope.Connections
	}
	if conns == nil {
		conns = []models.Connection{}
	}
	return conns, nil
}

// read decodes name into list when the file holds a bare array and into
// envelope otherwise.
func (l *JSONLoader) read(ctx context.Context, name string, list, envelope any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loader: dataset not found", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		logger.Warn("loader: dataset is empty", "path", path)
		return nil
	}

	target := envelope
	if data[0] == '[' {
		target = list
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// WriteDataset stores accounts and connections as bare JSON arrays in dir.
func WriteDataset(dir string, accounts []models.Account, conns []models.Connection) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, AccountsFile), accounts); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, ConnectionsFile), conns)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
