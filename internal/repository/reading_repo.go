package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"temp_compliance/internal/models"
)

type ReadingSQL struct {
	db *sqlx.DB
}

func NewReadingSQL(db *sqlx.DB) *ReadingSQL { return &ReadingSQL{db: db} }

const (
	insertReadingSQL = `
		INSERT INTO readings (id, equipment_id, temp_f, recorded_at, recorded_by, input_method,
			is_within_range, corrective_action, photo_refs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	readingColumns = `id, equipment_id, temp_f, recorded_at, recorded_by, input_method,
		is_within_range, corrective_action, photo_refs`

	latestPerEquipmentSQL = `
		SELECT r.id, r.equipment_id, r.temp_f, r.recorded_at, r.recorded_by, r.input_method,
			r.is_within_range, r.corrective_action, r.photo_refs
		FROM readings r
		JOIN (
			SELECT equipment_id, MAX(recorded_at) AS max_at FROM readings GROUP BY equipment_id
		) m ON r.equipment_id = m.equipment_id AND r.recorded_at = m.max_at
	`
)

type readingRow struct {
	ID               string         `db:"id"`
	EquipmentID      string         `db:"equipment_id"`
	Value            float64        `db:"temp_f"`
	RecordedAt       time.Time      `db:"recorded_at"`
	RecordedBy       string         `db:"recorded_by"`
	InputMethod      string         `db:"input_method"`
	IsWithinRange    bool           `db:"is_within_range"`
	CorrectiveAction string         `db:"corrective_action"`
	PhotoRefs        sql.NullString `db:"photo_refs"` // JSON array
}

func (r readingRow) toModel() models.Reading {
	out := models.Reading{
		ID:               r.ID,
		EquipmentID:      r.EquipmentID,
		Value:            r.Value,
		Timestamp:        r.RecordedAt.UTC(),
		RecordedBy:       r.RecordedBy,
		InputMethod:      models.InputMethod(r.InputMethod),
		IsWithinRange:    r.IsWithinRange,
		CorrectiveAction: r.CorrectiveAction,
	}
	if r.PhotoRefs.Valid && r.PhotoRefs.String != "" {
		// malformed refs are dropped, the reading itself stays readable
		_ = json.Unmarshal([]byte(r.PhotoRefs.String), &out.PhotoRefs)
	}
	return out
}

func (r *ReadingSQL) Append(ctx context.Context, rd models.Reading) error {
	var refs sql.NullString
	if len(rd.PhotoRefs) > 0 {
		b, err := json.Marshal(rd.PhotoRefs)
		if err != nil {
			return err
		}
		refs = sql.NullString{String: string(b), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertReadingSQL),
		rd.ID, rd.EquipmentID, rd.Value, rd.Timestamp.UTC(), rd.RecordedBy,
		string(rd.InputMethod), rd.IsWithinRange, rd.CorrectiveAction, refs,
	)
	return err
}

func (r *ReadingSQL) Latest(ctx context.Context, equipmentID string) (models.Reading, error) {
	var row readingRow
	q := `SELECT ` + readingColumns + ` FROM readings WHERE equipment_id = ? ORDER BY recorded_at DESC LIMIT 1`
	err := r.db.GetContext(ctx, &row, r.db.Rebind(q), equipmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reading{}, ErrNotFound
	}
	if err != nil {
		return models.Reading{}, err
	}
	return row.toModel(), nil
}

func (r *ReadingSQL) LatestPerEquipment(ctx context.Context) (map[string]models.Reading, error) {
	var rows []readingRow
	if err := r.db.SelectContext(ctx, &rows, latestPerEquipmentSQL); err != nil {
		return nil, err
	}
	out := make(map[string]models.Reading, len(rows))
	for _, row := range rows {
		out[row.EquipmentID] = row.toModel()
	}
	return out, nil
}

func (r *ReadingSQL) RecentValues(ctx context.Context, equipmentID string, since, until time.Time, limit int) ([]float64, error) {
	if limit <= 0 {
		limit = 50
	}
	var values []float64
	q := `SELECT temp_f FROM readings WHERE equipment_id = ? AND recorded_at >= ? AND recorded_at <= ? ORDER BY recorded_at DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &values, r.db.Rebind(q), equipmentID, since.UTC(), until.UTC(), limit); err != nil {
		return nil, err
	}
	return values, nil
}
