// ABOUTME: Account persistence with contacts, alerts and activities
// ABOUTME: Saves whole account aggregates and loads them ranked by urgency
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/sherpa/models"
)

var ErrAccountNotFound = errors.New("account not found")

const accountColumns = `id, name, industry, location, company_size, employee_count, annual_revenue,
	fiscal_year_end, last_activity_at, urgency_score, status`

// SkippedRecord is a record a batch save left out because it failed
// validation. Index is its position in the input slice.
type SkippedRecord struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Err   error  `json:"-"`
}

func (r SkippedRecord) Error() string {
	return fmt.Sprintf("record %d: %v", r.Index, r.Err)
}

func (r SkippedRecord) Unwrap() error {
	return r.Err
}

// SaveAccounts upserts each valid account and replaces its contacts, alerts
// and activities. Child records without an id are assigned a UUID. Invalid
// accounts are skipped and returned; the error is set only when the database
// write itself fails.
func (s *Store) SaveAccounts(ctx context.Context, accounts []models.Account) ([]SkippedRecord, error) {
	skipped := []SkippedRecord{}
	valid := make([]*models.Account, 0, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		if err := models.ValidateAccount(a); err != nil {
			skipped = append(skipped, SkippedRecord{Index: i, ID: a.ID, Err: err})
			continue
		}
		valid = append(valid, a)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return skipped, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, a := range valid {
		if err := saveAccount(ctx, tx, a, now); err != nil {
			return skipped, fmt.Errorf("failed to save account %s: %w", a.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return skipped, fmt.Errorf("failed to commit accounts: %w", err)
	}
	return skipped, nil
}

func saveAccount(ctx context.Context, tx *sql.Tx, a *models.Account, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			location = excluded.location,
			company_size = excluded.company_size,
			employee_count = excluded.employee_count,
			annual_revenue = excluded.annual_revenue,
			fiscal_year_end = excluded.fiscal_year_end,
			last_activity_at = excluded.last_activity_at,
			urgency_score = excluded.urgency_score,
			status = excluded.status,
			updated_at = excluded.updated_at
	`, a.ID, a.Name, a.Industry, a.Location, a.CompanySize, a.EmployeeCount, a.AnnualRevenue,
		a.FiscalYearEnd, nullTime(a.LastActivityAt), a.UrgencyScore, a.Status, now)
	if err != nil {
		return err
	}

	for _, table := range []string{"contacts", "alerts", "activities"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE account_id = ?`, a.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, c := range a.Contacts {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO contacts (account_id, id, name, title, email, separation_degree, connection_strength,
				last_contacted_at, last_response_at, budget_influence, technical_influence,
				relationship_influence, urgency_influence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ID, c.ID, c.Name, c.Title, c.Email, nullInt(c.SeparationDegree), nullFloat(c.ConnectionStrength),
			nullTime(c.LastContactedAt), nullTime(c.LastResponseAt), c.Influence.Budget, c.Influence.Technical,
			c.Influence.Relationship, c.Influence.Urgency)
		if err != nil {
			return fmt.Errorf("failed to insert contact %s: %w", c.ID, err)
		}
	}

	for _, al := range a.Alerts {
		if al.ID == "" {
			al.ID = uuid.New().String()
		}
		var metadata []byte
		if al.Metadata != nil {
			if metadata, err = json.Marshal(al.Metadata); err != nil {
				return fmt.Errorf("failed to encode alert metadata: %w", err)
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO alerts (account_id, id, type, urgency, title, created_at, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.ID, al.ID, al.Type, al.Urgency, al.Title, al.CreatedAt, metadata)
		if err != nil {
			return fmt.Errorf("failed to insert alert %s: %w", al.ID, err)
		}
	}

	for _, act := range a.Activities {
		if act.ID == "" {
			act.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activities (account_id, id, type, created_at, outcome, notes)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.ID, act.ID, act.Type, act.CreatedAt, act.Outcome, act.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert activity %s: %w", act.ID, err)
		}
	}
	return nil
}

// LoadAccounts returns every account with its children, highest stored
// urgency first.
func (s *Store) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY urgency_score DESC, name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := []models.Account{}
	index := make(map[string]int)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		index[a.ID] = len(accounts)
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachChildren(ctx, accounts, index, ""); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrAccountNotFound)
	}
	if err != nil {
		return nil, err
	}

	accounts := []models.Account{*a}
	if err := s.attachChildren(ctx, accounts, map[string]int{a.ID: 0}, a.ID); err != nil {
		return nil, err
	}
	return &accounts[0], nil
}

// DeleteAccount removes the account, its children and its stored score.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"contacts", "alerts", "activities", "urgency_scores"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE account_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrAccountNotFound)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	var (
		a                                            models.Account
		industry, location, size, fiscalYear, status sql.NullString
		lastActivity                                 sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Name, &industry, &location, &size, &a.EmployeeCount, &a.AnnualRevenue,
		&fiscalYear, &lastActivity, &a.UrgencyScore, &status)
	if err != nil {
		return nil, err
	}
	a.Industry = industry.String
	a.Location = location.String
	a.CompanySize = size.String
	a.FiscalYearEnd = fiscalYear.String
	a.Status = status.String
	a.LastActivityAt = timePtr(lastActivity)
	return &a, nil
}

// attachChildren fills contacts, alerts and activities for the indexed
// accounts. An empty only means every account.
func (s *Store) attachChildren(ctx context.Context, accounts []models.Account, index map[string]int, only string) error {
	where, args := "", []any{}
	if only != "" {
		where, args = " WHERE account_id = ?", []any{only}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, id, name, title, email, separation_degree, connection_strength,
			last_contacted_at, last_response_at, budget_influence, technical_influence,
			relationship_influence, urgency_influence
		FROM contacts`+where+` ORDER BY rowid`, args...)
	if err != nil {
		return fmt.Errorf("failed to query contacts: %w", err)
	}
	for rows.Next() {
		var (
			accountID                 string
			c                         models.Contact
			name, title, email        sql.NullString
			degree                    sql.NullInt64
			strength                  sql.NullFloat64
			lastContacted, lastResult sql.NullTime
		)
		if err := rows.Scan(&accountID, &c.ID, &name, &title, &email, &degree, &strength,
			&lastContacted, &lastResult, &c.Influence.Budget, &c.Influence.Technical,
			&c.Influence.Relationship, &c.Influence.Urgency); err != nil {
			_ = rows.Close()
			return err
		}
		c.Name, c.Title, c.Email = name.String, title.String, email.String
		if degree.Valid {
			d := int(degree.Int64)
			c.SeparationDegree = &d
		}
		if strength.Valid {
			v := strength.Float64
			c.ConnectionStrength = &v
		}
		c.LastContactedAt = timePtr(lastContacted)
		c.LastResponseAt = timePtr(lastResult)
		if i, ok := index[accountID]; ok {
			accounts[i].Contacts = append(accounts[i].Contacts, c)
		}
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT account_id, id, type, urgency, title, created_at, metadata
		FROM alerts`+where+` ORDER BY rowid`, args...)
	if err != nil {
		return fmt.Errorf("failed to query alerts: %w", err)
	}
	for rows.Next() {
		var (
			accountID      string
			al             models.Alert
			urgency, title sql.NullString
			createdAt      sql.NullTime
			metadata       []byte
		)
		if err := rows.Scan(&accountID, &al.ID, &al.Type, &urgency, &title, &createdAt, &metadata); err != nil {
			_ = rows.Close()
			return err
		}
		al.Urgency, al.Title = urgency.String, title.String
		if createdAt.Valid {
			al.CreatedAt = createdAt.Time
		}
		if len(metadata) > 0 {
			al.Metadata = &models.AlertMetadata{}
			if err := json.Unmarshal(metadata, al.Metadata); err != nil {
				_ = rows.Close()
				return fmt.Errorf("failed to decode alert %s metadata: %w", al.ID, err)
			}
		}
		if i, ok := index[accountID]; ok {
			accounts[i].Alerts = append(accounts[i].Alerts, al)
		}
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT account_id, id, type, created_at, outcome, notes
		FROM activities`+where+` ORDER BY rowid`, args...)
	if err != nil {
		return fmt.Errorf("failed to query activities: %w", err)
	}
	for rows.Next() {
		var (
			accountID      string
			act            models.Activity
			createdAt      sql.NullTime
			outcome, notes sql.NullString
		)
		if err := rows.Scan(&accountID, &act.ID, &act.Type, &createdAt, &outcome, &notes); err != nil {
			_ = rows.Close()
			return err
		}
		if createdAt.Valid {
			act.CreatedAt = createdAt.Time
		}
		act.Outcome, act.Notes = outcome.String, notes.String
		if i, ok := index[accountID]; ok {
			accounts[i].Activities = append(accounts[i].Activities, act)
		}
	}
	return closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
