package repository

import (
	"errors"
	"math"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"temp_compliance/internal/models"
)

var equipmentCols = []string{"id", "name", "category", "min_temp", "max_temp", "unit", "location"}

func TestEquipmentCreate_FreezerStoresNullFloor(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t, "sqlmock")
	repo := NewEquipmentSQL(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO equipment`)).
		WithArgs("fz-1", "Walk-in Freezer", "storage_frozen", nil, 0.0, "F", "Back", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx(t), models.EquipmentSpec{
		ID: "fz-1", Name: "Walk-in Freezer", Category: models.CategoryStorageFrozen,
		MinTemp: math.Inf(-1), MaxTemp: 0, Unit: "F", Location: "Back",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	expectationsMet(t, mock)
}

func TestEquipmentGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rows      *sqlmock.Rows
		wantErr   error
		wantFloor bool
	}{
		{
			name:      "cooler with floor",
			rows:      sqlmock.NewRows(equipmentCols).AddRow("wi-1", "Walk-in", "storage_cold", 33.0, 41.0, "F", ""),
			wantFloor: true,
		},
		{
			name: "freezer without floor",
			rows: sqlmock.NewRows(equipmentCols).AddRow("fz-1", "Freezer", "storage_frozen", nil, 0.0, "F", ""),
		},
		{
			name:    "missing",
			rows:    sqlmock.NewRows(equipmentCols),
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t, "sqlmock")
			repo := NewEquipmentSQL(db)
			mock.ExpectQuery(`FROM equipment\s+WHERE id = \?`).WithArgs("x").WillReturnRows(tt.rows)

			got, err := repo.Get(ctx(t), "x")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.HasFloor() != tt.wantFloor {
				t.Fatalf("HasFloor = %v, want %v (min=%v)", got.HasFloor(), tt.wantFloor, got.MinTemp)
			}
			expectationsMet(t, mock)
		})
	}
}

func TestEquipmentList_OrderedByName(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t, "sqlmock")
	repo := NewEquipmentSQL(db)

	mock.ExpectQuery(`FROM equipment\s+ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows(equipmentCols).
			AddRow("a", "Bar Cooler", "storage_cold", 33.0, 41.0, "F", "").
			AddRow("b", "Hot Well", "holding_hot", 135.0, 200.0, "F", "Line"))

	got, err := repo.List(ctx(t))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[1].Category != models.CategoryHoldingHot || got[1].MinTemp != 135 {
		t.Fatalf("unexpected list: %+v", got)
	}
	expectationsMet(t, mock)
}
