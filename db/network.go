// ABOUTME: Network graph snapshots keyed by owner
// ABOUTME: Persists node and edge lists so a session can reload its graph
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/sherpa/models"
)

// SaveNetwork replaces the stored snapshot for ownerID. Node and edge order
// is preserved.
func (s *Store) SaveNetwork(ctx context.Context, ownerID string, nodes []models.Node, edges []models.Edge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM network_nodes WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM network_edges WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}

	for i, n := range nodes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO network_nodes (owner_id, id, position, kind, display_name, title, company,
				platform_id, email, is_target)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(owner_id, id) DO UPDATE SET
				kind = excluded.kind,
				display_name = excluded.display_name,
				title = excluded.title,
				company = excluded.company,
				platform_id = excluded.platform_id,
				email = excluded.email,
				is_target = excluded.is_target
		`, ownerID, n.ID, i, n.Kind, n.DisplayName, n.Title, n.Company, n.PlatformID, n.Email, n.IsTarget)
		if err != nil {
			return fmt.Errorf("failed to save node %s: %w", n.ID, err)
		}
	}

	for i, e := range edges {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO network_edges (owner_id, position, source_id, target_id, kind, strength,
				verified, context, last_interaction_at, mutual_connections)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, ownerID, i, e.SourceID, e.TargetID, e.Kind, e.Strength, e.Verified, e.Context,
			nullTime(e.LastInteractionAt), e.MutualConnections)
		if err != nil {
			return fmt.Errorf("failed to save edge %s->%s: %w", e.SourceID, e.TargetID, err)
		}
	}
	return tx.Commit()
}

// LoadNetwork returns the snapshot for ownerID. An owner with no snapshot
// gets empty slices.
func (s *Store) LoadNetwork(ctx context.Context, ownerID string) ([]models.Node, []models.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, display_name, title, company, platform_id, email, is_target
		FROM network_nodes
		WHERE owner_id = ?
		ORDER BY position
	`, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query nodes: %w", err)
	}

	nodes := []models.Node{}
	for rows.Next() {
		var (
			n                                       models.Node
			name, title, company, platformID, email sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Kind, &name, &title, &company, &platformID, &email, &n.IsTarget); err != nil {
			_ = rows.Close()
			return nil, nil, err
		}
		n.DisplayName, n.Title, n.Company = name.String, title.String, company.String
		n.PlatformID, n.Email = platformID.String, email.String
		nodes = append(nodes, n)
	}
	if err := closeRows(rows); err != nil {
		return nil, nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT source_id, target_id, kind, strength, verified, context, last_interaction_at, mutual_connections
		FROM network_edges
		WHERE owner_id = ?
		ORDER BY position
	`, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query edges: %w", err)
	}

	edges := []models.Edge{}
	for rows.Next() {
		var (
			e                 models.Edge
			kind, edgeContext sql.NullString
			lastSeen          sql.NullTime
		)
		if err := rows.Scan(&e.SourceID, &e.TargetID, &kind, &e.Strength, &e.Verified, &edgeContext,
			&lastSeen, &e.MutualConnections); err != nil {
			_ = rows.Close()
			return nil, nil, err
		}
		e.Kind, e.Context = kind.String, edgeContext.String
		e.LastInteractionAt = timePtr(lastSeen)
		edges = append(edges, e)
	}
	if err := closeRows(rows); err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}
