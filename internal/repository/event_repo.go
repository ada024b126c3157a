package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"temp_compliance/internal/models"
)

type EventSQL struct {
	db *sqlx.DB
}

func NewEventSQL(db *sqlx.DB) *EventSQL { return &EventSQL{db: db} }

const insertEventSQL = `
		INSERT INTO compliance_events (id, occurred_at, type, subject, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`

type eventRow struct {
	ID         string         `db:"id"`
	OccurredAt time.Time      `db:"occurred_at"`
	Type       string         `db:"type"`
	Subject    string         `db:"subject"`
	Message    string         `db:"message"`
	Meta       sql.NullString `db:"meta"`
}

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQL) Append(ctx context.Context, e models.ComplianceEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	// marshal metadata if present
	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertEventSQL),
		e.EventID,
		e.OccurredAt,
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Subject,
		e.Description,
		metaPtr,
	)
	return err
}

// List returns events filtered by [from, to] (inclusive), type and subject, ordered ASC.
func (r *EventSQL) List(ctx context.Context, from, to time.Time, typ, subject string) ([]models.ComplianceEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if subject = strings.TrimSpace(subject); subject != "" {
		conds = append(conds, "subject = ?")
		args = append(args, subject)
	}

	q := `SELECT id, occurred_at, type, subject, message, meta FROM compliance_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	out := make([]models.ComplianceEvent, 0, len(rows))
	for _, row := range rows {
		ev := models.ComplianceEvent{
			EventID:     row.ID,
			OccurredAt:  row.OccurredAt.UTC(),
			Type:        row.Type,
			Subject:     row.Subject,
			Description: row.Message,
		}
		if row.Meta.Valid && row.Meta.String != "" {
			var v any
			if err := json.Unmarshal([]byte(row.Meta.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = row.Meta.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	return out, nil
}
