package service

import (
	"context"
	"time"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/logger"
	"temp_compliance/internal/models"
	"temp_compliance/internal/publisher"
	"temp_compliance/internal/repository"
)

// Equipment registers equipment, logs readings and builds the daily dashboard.
type Equipment interface {
	RegisterEquipment(ctx context.Context, spec models.EquipmentSpec) (models.EquipmentSpec, error)
	GetEquipment(ctx context.Context, id string) (models.EquipmentSpec, error)
	ListEquipment(ctx context.Context) ([]models.EquipmentSpec, error)
	LogReading(ctx context.Context, equipmentID string, in compliance.ReadingInput) (models.Reading, error)
	IngestSensorReading(ctx context.Context, equipmentID string, value float64, at time.Time) (SensorResult, error)
	Statuses(ctx context.Context) ([]models.EquipmentStatus, error)
}

// Cooling runs cook-to-cold cycles. Completion is the only terminal transition.
type Cooling interface {
	StartCooldown(ctx context.Context, p StartParams) (models.Cooldown, error)
	LogCheck(ctx context.Context, id string, temperature float64, at time.Time) (models.Cooldown, error)
	CompleteCooldown(ctx context.Context, id string) (CooldownView, error)
	GetCooldown(ctx context.Context, id string) (CooldownView, error)
	ListActiveCooldowns(ctx context.Context) ([]CooldownView, error)
	CooldownSnapshot(ctx context.Context, id string) (compliance.CoolingSnapshot, error)
}

// Receiving evaluates delivered items and finalizes CCP-04 receiving logs.
type Receiving interface {
	Categories() compliance.CategoryRegistry
	EvaluateItem(in ItemInput) (models.ReceivingItem, error)
	FinalizeLog(ctx context.Context, p FinalizeParams) (models.ReceivingLog, error)
	GetLog(ctx context.Context, id string) (models.ReceivingLog, error)
	ListLogs(ctx context.Context, f LogFilter) ([]models.ReceivingLog, error)
}

// EventLog exposes append-only compliance events with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ComplianceEvent, error)
}

// Monitor re-evaluates active cooldowns and equipment on a ticker.
// Stop via context cancellation in main() for graceful shutdown.
type Monitor interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Equipment
	Cooling
	Receiving
	EventLog
	Monitor
}

// Options carries the policies and collaborators shared by the services.
// Zero values fall back to the defaults.
type Options struct {
	Clock        func() time.Time
	Logger       *logger.Logger
	Publisher    publisher.Publisher
	CoolingRules compliance.CoolingRules
	CheckPolicy  compliance.CheckPolicy
	Categories   compliance.CategoryRegistry
	Sensor       compliance.SensorPolicy
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Publisher == nil {
		o.Publisher = publisher.Nop{}
	}
	return o
}

func NewService(repos *repository.Repository, opts Options) *Service {
	opts = opts.withDefaults()

	events := newEmitter(repos.EventRepo, opts.Publisher, opts.Logger)
	cooling := compliance.NewCooling(opts.CoolingRules, opts.CheckPolicy)

	return &Service{
		Equipment: NewEquipmentService(repos.EquipmentRepo, repos.ReadingRepo, events, opts.Sensor, opts.Clock),
		Cooling:   NewCoolingService(repos.CooldownRepo, cooling, events, opts.Clock),
		Receiving: NewReceivingService(repos.ReceivingRepo, compliance.NewReceiving(opts.Categories), events, opts.Clock),
		EventLog:  NewEventLogService(repos.EventRepo),
		Monitor: NewMonitorService(repos.CooldownRepo, repos.EquipmentRepo, repos.ReadingRepo,
			cooling, events, opts.Clock, opts.Logger),
	}
}
