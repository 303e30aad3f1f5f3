// ABOUTME: Urgency score persistence
// ABOUTME: Stores full breakdowns and mirrors the overall score onto accounts
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/harperreed/sherpa/urgency"
)

func (s *Store) SaveUrgencyScores(ctx context.Context, scores map[string]*urgency.Breakdown) error {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		b := scores[id]
		if b == nil {
			continue
		}
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to encode breakdown for %s: %w", id, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO urgency_scores (account_id, overall, breakdown, calculated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(account_id) DO UPDATE SET
				overall = excluded.overall,
				breakdown = excluded.breakdown,
				calculated_at = excluded.calculated_at
		`, id, b.Overall, string(data), b.CalculatedAt)
		if err != nil {
			return fmt.Errorf("failed to save score for %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE accounts SET urgency_score = ? WHERE id = ?`, b.Overall, id); err != nil {
			return fmt.Errorf("failed to update account %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadUrgencyScores returns the stored breakdowns keyed by account id.
func (s *Store) LoadUrgencyScores(ctx context.Context) (map[string]*urgency.Breakdown, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_id, breakdown FROM urgency_scores`)
	if err != nil {
		return nil, fmt.Errorf("failed to query urgency scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]*urgency.Breakdown)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var b urgency.Breakdown
		if err := json.Unmarshal([]byte(data), &b); err != nil {
			return nil, fmt.Errorf("failed to decode breakdown for %s: %w", id, err)
		}
		out[id] = &b
	}
	return out, rows.Err()
}
