package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"temp_compliance/internal/models"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

type EquipmentRepo interface {
	Create(ctx context.Context, spec models.EquipmentSpec) error
	Get(ctx context.Context, id string) (models.EquipmentSpec, error)
	List(ctx context.Context) ([]models.EquipmentSpec, error)
}

type ReadingRepo interface {
	Append(ctx context.Context, r models.Reading) error
	Latest(ctx context.Context, equipmentID string) (models.Reading, error)
	LatestPerEquipment(ctx context.Context) (map[string]models.Reading, error)
	// RecentValues returns values recorded in [since, until], newest first.
	RecentValues(ctx context.Context, equipmentID string, since, until time.Time, limit int) ([]float64, error)
}

type CooldownRepo interface {
	Create(ctx context.Context, c models.Cooldown) error
	Get(ctx context.Context, id string) (models.Cooldown, error)
	ListActive(ctx context.Context) ([]models.Cooldown, error)
	AppendCheck(ctx context.Context, cooldownID string, chk models.CooldownCheck) error
	Finish(ctx context.Context, c models.Cooldown) error
}

type ReceivingRepo interface {
	Save(ctx context.Context, log models.ReceivingLog) error
	Get(ctx context.Context, id string) (models.ReceivingLog, error)
	List(ctx context.Context, from, to time.Time) ([]models.ReceivingLog, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ComplianceEvent) error
	List(ctx context.Context, from, to time.Time, typ, subject string) ([]models.ComplianceEvent, error)
}

type Repository struct {
	EquipmentRepo EquipmentRepo
	ReadingRepo   ReadingRepo
	CooldownRepo  CooldownRepo
	ReceivingRepo ReceivingRepo
	EventRepo     EventRepo
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		EquipmentRepo: NewEquipmentSQL(db),
		ReadingRepo:   NewReadingSQL(db),
		CooldownRepo:  NewCooldownSQL(db),
		ReceivingRepo: NewReceivingSQL(db),
		EventRepo:     NewEventSQL(db),
	}
}
