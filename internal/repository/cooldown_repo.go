package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"temp_compliance/internal/models"
)

type CooldownSQL struct {
	db *sqlx.DB
}

func NewCooldownSQL(db *sqlx.DB) *CooldownSQL { return &CooldownSQL{db: db} }

const (
	insertCooldownSQL = `
		INSERT INTO cooldowns (id, item_name, start_temp, start_time, location, started_by, standard, status, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	insertCheckSQL = `
		INSERT INTO cooldown_checks (cooldown_id, seq, temperature, checked_at)
		VALUES (?, ?, ?, ?)
	`
	selectCooldownSQL = `
		SELECT id, item_name, start_temp, start_time, location, started_by, standard, status, completed_at
		FROM cooldowns
	`
	selectChecksSQL = `
		SELECT cooldown_id, seq, temperature, checked_at FROM cooldown_checks
	`
	nextSeqSQL = `
		SELECT COALESCE(MAX(seq), -1) + 1 FROM cooldown_checks WHERE cooldown_id = ?
	`
	finishCooldownSQL = `
		UPDATE cooldowns SET status = ?, completed_at = ? WHERE id = ? AND status = ?
	`
)

type cooldownRow struct {
	ID          string       `db:"id"`
	ItemName    string       `db:"item_name"`
	StartTemp   float64      `db:"start_temp"`
	StartTime   time.Time    `db:"start_time"`
	Location    string       `db:"location"`
	StartedBy   string       `db:"started_by"`
	Standard    string       `db:"standard"`
	Status      string       `db:"status"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

type checkRow struct {
	CooldownID  string    `db:"cooldown_id"`
	Seq         int       `db:"seq"`
	Temperature float64   `db:"temperature"`
	CheckedAt   time.Time `db:"checked_at"`
}

func (r cooldownRow) toModel(checks []checkRow) models.Cooldown {
	c := models.Cooldown{
		ID:        r.ID,
		ItemName:  r.ItemName,
		StartTemp: r.StartTemp,
		StartTime: r.StartTime.UTC(),
		Location:  r.Location,
		StartedBy: r.StartedBy,
		Standard:  models.CoolingStandard(r.Standard),
		Status:    models.CooldownStatus(r.Status),
		Checks:    make([]models.CooldownCheck, 0, len(checks)),
	}
	if r.CompletedAt.Valid {
		at := r.CompletedAt.Time.UTC()
		c.CompletedAt = &at
	}
	for _, ch := range checks {
		c.Checks = append(c.Checks, models.CooldownCheck{Temperature: ch.Temperature, Time: ch.CheckedAt.UTC()})
	}
	return c
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// Create stores the cooldown and its initial checks in one transaction.
func (r *CooldownSQL) Create(ctx context.Context, c models.Cooldown) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(insertCooldownSQL),
		c.ID, c.ItemName, c.StartTemp, c.StartTime.UTC(), c.Location, c.StartedBy,
		string(c.Standard), string(c.Status), nullTime(c.CompletedAt),
	); err != nil {
		return fmt.Errorf("insert cooldown: %w", err)
	}
	for i, ch := range c.Checks {
		if _, err := tx.ExecContext(ctx, tx.Rebind(insertCheckSQL), c.ID, i, ch.Temperature, ch.Time.UTC()); err != nil {
			return fmt.Errorf("insert check %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (r *CooldownSQL) Get(ctx context.Context, id string) (models.Cooldown, error) {
	var row cooldownRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectCooldownSQL+` WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Cooldown{}, ErrNotFound
	}
	if err != nil {
		return models.Cooldown{}, err
	}

	var checks []checkRow
	if err := r.db.SelectContext(ctx, &checks, r.db.Rebind(selectChecksSQL+` WHERE cooldown_id = ? ORDER BY seq ASC`), id); err != nil {
		return models.Cooldown{}, err
	}
	return row.toModel(checks), nil
}

// ListActive returns active cooldowns, oldest first, with their checks.
func (r *CooldownSQL) ListActive(ctx context.Context) ([]models.Cooldown, error) {
	var rows []cooldownRow
	if err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(selectCooldownSQL+` WHERE status = ? ORDER BY start_time ASC`),
		string(models.CooldownActive),
	); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.Cooldown{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	q, args, err := sqlx.In(selectChecksSQL+` WHERE cooldown_id IN (?) ORDER BY cooldown_id, seq ASC`, ids)
	if err != nil {
		return nil, err
	}
	var checks []checkRow
	if err := r.db.SelectContext(ctx, &checks, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	byID := make(map[string][]checkRow, len(rows))
	for _, ch := range checks {
		byID[ch.CooldownID] = append(byID[ch.CooldownID], ch)
	}

	out := make([]models.Cooldown, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel(byID[row.ID]))
	}
	return out, nil
}

// AppendCheck stores chk after the cooldown's last check. The sequence number
// is assigned inside the transaction so the stored order is insertion order.
func (r *CooldownSQL) AppendCheck(ctx context.Context, cooldownID string, chk models.CooldownCheck) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int
	if err := tx.GetContext(ctx, &seq, tx.Rebind(nextSeqSQL), cooldownID); err != nil {
		return fmt.Errorf("next seq: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(insertCheckSQL), cooldownID, seq, chk.Temperature, chk.Time.UTC()); err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	return tx.Commit()
}

// Finish persists the terminal status of an active cooldown. ErrNotFound
// means no active cooldown has that id.
func (r *CooldownSQL) Finish(ctx context.Context, c models.Cooldown) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(finishCooldownSQL),
		string(c.Status), nullTime(c.CompletedAt), c.ID, string(models.CooldownActive))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
