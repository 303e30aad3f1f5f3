// ABOUTME: Network connection persistence for the warm-intro matcher
// ABOUTME: Interaction history and tags are stored as JSON columns
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/sherpa/models"
)

// SaveConnections upserts connections by id. Connections without an id are
// assigned a UUID, which is written back into the slice. Connections that
// fail validation are skipped and returned.
func (s *Store) SaveConnections(ctx context.Context, conns []models.Connection) ([]SkippedRecord, error) {
	skipped := []SkippedRecord{}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return skipped, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range conns {
		c := &conns[i]
		if err := models.ValidateConnection(c); err != nil {
			skipped = append(skipped, SkippedRecord{Index: i, ID: c.ID, Err: err})
			continue
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}

		history, err := json.Marshal(c.InteractionHistory)
		if err != nil {
			return skipped, fmt.Errorf("failed to encode interaction history: %w", err)
		}
		tags, err := json.Marshal(c.Tags)
		if err != nil {
			return skipped, fmt.Errorf("failed to encode tags: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO connections (id, first_name, last_name, full_name, title, company, industry,
				location, connected_at, mutual_connections, relationship_strength, interaction_history, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				first_name = excluded.first_name,
				last_name = excluded.last_name,
				full_name = excluded.full_name,
				title = excluded.title,
				company = excluded.company,
				industry = excluded.industry,
				location = excluded.location,
				connected_at = excluded.connected_at,
				mutual_connections = excluded.mutual_connections,
				relationship_strength = excluded.relationship_strength,
				interaction_history = excluded.interaction_history,
				tags = excluded.tags
		`, c.ID, c.FirstName, c.LastName, c.FullName, c.Title, c.Company, c.Industry,
			c.Location, nullTime(c.ConnectedAt), c.MutualConnections, c.RelationshipStrength, string(history), string(tags))
		if err != nil {
			return skipped, fmt.Errorf("failed to save connection %s: %w", c.FullName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return skipped, fmt.Errorf("failed to commit connections: %w", err)
	}
	return skipped, nil
}

func (s *Store) LoadConnections(ctx context.Context) ([]models.Connection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, full_name, title, company, industry, location,
			connected_at, mutual_connections, relationship_strength, interaction_history, tags
		FROM connections
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	conns := []models.Connection{}
	for rows.Next() {
		var (
			c                                               models.Connection
			first, last, title, company, industry, location sql.NullString
			strength, history, tags                         sql.NullString
			connectedAt                                     sql.NullTime
		)
		if err := rows.Scan(&c.ID, &first, &last, &c.FullName, &title, &company, &industry, &location,
			&connectedAt, &c.MutualConnections, &strength, &history, &tags); err != nil {
			return nil, err
		}
		c.FirstName, c.LastName = first.String, last.String
		c.Title, c.Company = title.String, company.String
		c.Industry, c.Location = industry.String, location.String
		c.RelationshipStrength = strength.String
		c.ConnectedAt = timePtr(connectedAt)

		if err := decodeJSONColumn(history, &c.InteractionHistory); err != nil {
			return nil, fmt.Errorf("connection %s interaction history: %w", c.ID, err)
		}
		if err := decodeJSONColumn(tags, &c.Tags); err != nil {
			return nil, fmt.Errorf("connection %s tags: %w", c.ID, err)
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

func decodeJSONColumn(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" || col.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}
