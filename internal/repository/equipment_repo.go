package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"temp_compliance/internal/models"
)

type EquipmentSQL struct {
	db *sqlx.DB
}

func NewEquipmentSQL(db *sqlx.DB) *EquipmentSQL { return &EquipmentSQL{db: db} }

const (
	insertEquipmentSQL = `
		INSERT INTO equipment (id, name, category, min_temp, max_temp, unit, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectEquipmentSQL = `
		SELECT id, name, category, min_temp, max_temp, unit, location FROM equipment
	`
)

type equipmentRow struct {
	ID       string          `db:"id"`
	Name     string          `db:"name"`
	Category string          `db:"category"`
	MinTemp  sql.NullFloat64 `db:"min_temp"` // NULL: no floor
	MaxTemp  float64         `db:"max_temp"`
	Unit     string          `db:"unit"`
	Location string          `db:"location"`
}

func (r equipmentRow) toModel() models.EquipmentSpec {
	spec := models.EquipmentSpec{
		ID:       r.ID,
		Name:     r.Name,
		Category: models.EquipmentCategory(r.Category),
		MinTemp:  math.Inf(-1),
		MaxTemp:  r.MaxTemp,
		Unit:     r.Unit,
		Location: r.Location,
	}
	if r.MinTemp.Valid {
		spec.MinTemp = r.MinTemp.Float64
	}
	return spec
}

func (r *EquipmentSQL) Create(ctx context.Context, spec models.EquipmentSpec) error {
	minTemp := sql.NullFloat64{Float64: spec.MinTemp, Valid: spec.HasFloor()}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertEquipmentSQL),
		spec.ID, spec.Name, string(spec.Category), minTemp, spec.MaxTemp,
		spec.Unit, spec.Location, time.Now().UTC(),
	)
	return err
}

func (r *EquipmentSQL) Get(ctx context.Context, id string) (models.EquipmentSpec, error) {
	var row equipmentRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectEquipmentSQL+` WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EquipmentSpec{}, ErrNotFound
	}
	if err != nil {
		return models.EquipmentSpec{}, err
	}
	return row.toModel(), nil
}

func (r *EquipmentSQL) List(ctx context.Context) ([]models.EquipmentSpec, error) {
	var rows []equipmentRow
	if err := r.db.SelectContext(ctx, &rows, selectEquipmentSQL+` ORDER BY name ASC`); err != nil {
		return nil, err
	}
	out := make([]models.EquipmentSpec, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}
