package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"temp_compliance/internal/models"
)

type ReceivingSQL struct {
	db *sqlx.DB
}

func NewReceivingSQL(db *sqlx.DB) *ReceivingSQL { return &ReceivingSQL{db: db} }

const (
	insertReceivingLogSQL = `
		INSERT INTO receiving_logs (id, vendor_name, received_by, received_at, total, passed, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	insertReceivingItemSQL = `
		INSERT INTO receiving_items (log_id, seq, description, category, temperature, temp_required,
			passed, deviation_action, deviation_notes, re_measured_temp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectReceivingLogSQL = `
		SELECT id, vendor_name, received_by, received_at, total, passed, failed FROM receiving_logs
	`
	selectReceivingItemsSQL = `
		SELECT log_id, seq, description, category, temperature, temp_required,
			passed, deviation_action, deviation_notes, re_measured_temp
		FROM receiving_items
	`
)

type receivingLogRow struct {
	ID         string    `db:"id"`
	VendorName string    `db:"vendor_name"`
	ReceivedBy string    `db:"received_by"`
	ReceivedAt time.Time `db:"received_at"`
	Total      int       `db:"total"`
	Passed     int       `db:"passed"`
	Failed     int       `db:"failed"`
}

type receivingItemRow struct {
	LogID           string          `db:"log_id"`
	Seq             int             `db:"seq"`
	Description     string          `db:"description"`
	Category        string          `db:"category"`
	Temperature     float64         `db:"temperature"`
	TempRequired    bool            `db:"temp_required"`
	Passed          bool            `db:"passed"`
	DeviationAction sql.NullString  `db:"deviation_action"`
	DeviationNotes  sql.NullString  `db:"deviation_notes"`
	ReMeasuredTemp  sql.NullFloat64 `db:"re_measured_temp"`
}

func (r receivingItemRow) toModel() models.ReceivingItem {
	item := models.ReceivingItem{
		Description:  r.Description,
		Category:     r.Category,
		Temperature:  r.Temperature,
		TempRequired: r.TempRequired,
		Pass:         r.Passed,
	}
	if r.DeviationAction.Valid {
		item.Deviation = &models.CcpDeviation{
			ActionTaken: models.DeviationAction(r.DeviationAction.String),
			Notes:       r.DeviationNotes.String,
		}
		if r.ReMeasuredTemp.Valid {
			v := r.ReMeasuredTemp.Float64
			item.Deviation.ReMeasuredTemp = &v
		}
	}
	return item
}

func (r receivingLogRow) toModel(items []receivingItemRow) models.ReceivingLog {
	log := models.ReceivingLog{
		ID:         r.ID,
		VendorName: r.VendorName,
		ReceivedBy: r.ReceivedBy,
		ReceivedAt: r.ReceivedAt.UTC(),
		Summary:    models.ReceivingSummary{Total: r.Total, Passed: r.Passed, Failed: r.Failed},
		Items:      make([]models.ReceivingItem, 0, len(items)),
	}
	for _, it := range items {
		log.Items = append(log.Items, it.toModel())
	}
	return log
}

// Save stores a finalized log and its items in one transaction.
func (r *ReceivingSQL) Save(ctx context.Context, log models.ReceivingLog) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(insertReceivingLogSQL),
		log.ID, log.VendorName, log.ReceivedBy, log.ReceivedAt.UTC(),
		log.Summary.Total, log.Summary.Passed, log.Summary.Failed,
	); err != nil {
		return fmt.Errorf("insert receiving log: %w", err)
	}

	for i, it := range log.Items {
		var (
			action, notes sql.NullString
			remeasured    sql.NullFloat64
		)
		if d := it.Deviation; d != nil {
			action = sql.NullString{String: string(d.ActionTaken), Valid: true}
			notes = sql.NullString{String: d.Notes, Valid: true}
			if d.ReMeasuredTemp != nil {
				remeasured = sql.NullFloat64{Float64: *d.ReMeasuredTemp, Valid: true}
			}
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(insertReceivingItemSQL),
			log.ID, i, it.Description, it.Category, it.Temperature, it.TempRequired,
			it.Pass, action, notes, remeasured,
		); err != nil {
			return fmt.Errorf("insert receiving item %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (r *ReceivingSQL) Get(ctx context.Context, id string) (models.ReceivingLog, error) {
	var row receivingLogRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectReceivingLogSQL+` WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReceivingLog{}, ErrNotFound
	}
	if err != nil {
		return models.ReceivingLog{}, err
	}
	var items []receivingItemRow
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(selectReceivingItemsSQL+` WHERE log_id = ? ORDER BY seq ASC`), id); err != nil {
		return models.ReceivingLog{}, err
	}
	return row.toModel(items), nil
}

// List returns logs received within [from, to], newest first. Zero bounds are open.
func (r *ReceivingSQL) List(ctx context.Context, from, to time.Time) ([]models.ReceivingLog, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "received_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "received_at <= ?")
		args = append(args, to.UTC())
	}
	q := selectReceivingLogSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY received_at DESC"

	var rows []receivingLogRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.ReceivingLog{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	iq, iargs, err := sqlx.In(selectReceivingItemsSQL+` WHERE log_id IN (?) ORDER BY log_id, seq ASC`, ids)
	if err != nil {
		return nil, err
	}
	var items []receivingItemRow
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(iq), iargs...); err != nil {
		return nil, err
	}
	byLog := make(map[string][]receivingItemRow, len(rows))
	for _, it := range items {
		byLog[it.LogID] = append(byLog[it.LogID], it)
	}

	out := make([]models.ReceivingLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel(byLog[row.ID]))
	}
	return out, nil
}
