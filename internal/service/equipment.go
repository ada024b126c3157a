package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/models"
	"temp_compliance/internal/repository"
)

const (
	// SustainedWindow bounds how far back sensor readings count toward a
	// sustained violation.
	SustainedWindow = 15 * time.Minute
	sensorRecorder  = "sensor"
	defaultUnit     = "F"
	recentLimit     = 50
)

type EquipmentService struct {
	equipment repository.EquipmentRepo
	readings  repository.ReadingRepo
	events    *emitter
	sensor    compliance.SensorPolicy
	now       func() time.Time
}

func NewEquipmentService(equipment repository.EquipmentRepo, readings repository.ReadingRepo, events *emitter,
	sensor compliance.SensorPolicy, clock func() time.Time) *EquipmentService {
	return &EquipmentService{equipment: equipment, readings: readings, events: events, sensor: sensor, now: clock}
}

func validateSpec(spec models.EquipmentSpec) error {
	switch {
	case strings.TrimSpace(spec.Name) == "":
		return fmt.Errorf("%w: equipment name is required", ErrInvalidInput)
	case !spec.Category.Valid():
		return fmt.Errorf("%w: unknown equipment category %q", ErrInvalidInput, spec.Category)
	case math.IsNaN(spec.MaxTemp) || math.IsInf(spec.MaxTemp, 0):
		return fmt.Errorf("%w: max_temp must be a finite number", ErrInvalidInput)
	case math.IsNaN(spec.MinTemp) || math.IsInf(spec.MinTemp, 1):
		return fmt.Errorf("%w: min_temp must be a finite number or null", ErrInvalidInput)
	case spec.HasFloor() && spec.MinTemp > spec.MaxTemp:
		return fmt.Errorf("%w: min_temp %.1f is above max_temp %.1f", ErrInvalidInput, spec.MinTemp, spec.MaxTemp)
	}
	return nil
}

func (s *EquipmentService) RegisterEquipment(ctx context.Context, spec models.EquipmentSpec) (models.EquipmentSpec, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if err := validateSpec(spec); err != nil {
		return models.EquipmentSpec{}, err
	}
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	if spec.Unit == "" {
		spec.Unit = defaultUnit
	}
	if err := s.equipment.Create(ctx, spec); err != nil {
		return models.EquipmentSpec{}, err
	}
	return spec, nil
}

func (s *EquipmentService) GetEquipment(ctx context.Context, id string) (models.EquipmentSpec, error) {
	return s.equipment.Get(ctx, id)
}

func (s *EquipmentService) ListEquipment(ctx context.Context) ([]models.EquipmentSpec, error) {
	return s.equipment.List(ctx)
}

// LogReading validates and stores a manual, QR or sensor reading.
func (s *EquipmentService) LogReading(ctx context.Context, equipmentID string, in compliance.ReadingInput) (models.Reading, error) {
	if in.InputMethod != "" && !in.InputMethod.Valid() {
		return models.Reading{}, fmt.Errorf("%w: unknown input method %q", ErrInvalidInput, in.InputMethod)
	}
	spec, err := s.equipment.Get(ctx, equipmentID)
	if err != nil {
		return models.Reading{}, err
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = s.now()
	}
	in.Timestamp = in.Timestamp.UTC()

	rd, err := compliance.NewReading(spec, in)
	if err != nil {
		return models.Reading{}, err
	}
	rd.ID = uuid.NewString()
	if err := s.store(ctx, spec, rd); err != nil {
		return models.Reading{}, err
	}
	return rd, nil
}

// IngestSensorReading stores an IoT reading and grades it against the
// equipment's recent history.
func (s *EquipmentService) IngestSensorReading(ctx context.Context, equipmentID string, value float64, at time.Time) (SensorResult, error) {
	spec, err := s.equipment.Get(ctx, equipmentID)
	if err != nil {
		return SensorResult{}, err
	}
	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC()

	rd, err := compliance.NewReading(spec, compliance.ReadingInput{
		Value:       value,
		Timestamp:   at,
		RecordedBy:  sensorRecorder,
		InputMethod: models.InputIoTSensor,
	})
	if err != nil {
		return SensorResult{}, err
	}
	rd.ID = uuid.NewString()

	// Earlier readings only; the current one is counted by the evaluator.
	recent, err := s.readings.RecentValues(ctx, spec.ID, at.Add(-SustainedWindow), at, recentLimit)
	if err != nil {
		return SensorResult{}, err
	}
	verdict := compliance.EvaluateSensorReading(spec, value, recent, s.sensor)

	if err := s.store(ctx, spec, rd); err != nil {
		return SensorResult{}, err
	}
	if verdict.AlertTriggered {
		s.events.emit(ctx, at, models.EventSensorAlert, spec.ID, verdict.Message, map[string]any{
			"reading_id":             rd.ID,
			"severity":               verdict.Severity,
			"violation_type":         verdict.ViolationType,
			"deviation":              verdict.Deviation,
			"sustained":              verdict.Sustained,
			"consecutive_violations": verdict.ConsecutiveViolation,
		})
	}
	return SensorResult{Reading: rd, Verdict: verdict}, nil
}

func (s *EquipmentService) store(ctx context.Context, spec models.EquipmentSpec, rd models.Reading) error {
	if err := s.readings.Append(ctx, rd); err != nil {
		return err
	}

	meta := map[string]any{
		"reading_id":      rd.ID,
		"value":           rd.Value,
		"input_method":    rd.InputMethod,
		"is_within_range": rd.IsWithinRange,
	}
	s.events.emit(ctx, rd.Timestamp, models.EventReadingLogged, spec.ID,
		fmt.Sprintf("%s: %.1f°F logged by %s", spec.Name, rd.Value, rd.RecordedBy), meta)

	if !rd.IsWithinRange {
		meta = map[string]any{
			"reading_id": rd.ID,
			"value":      rd.Value,
		}
		meta["max_temp"] = spec.MaxTemp
		if spec.HasFloor() {
			meta["min_temp"] = spec.MinTemp
		}
		if rd.CorrectiveAction != "" {
			meta["corrective_action"] = rd.CorrectiveAction
		}
		s.events.emit(ctx, rd.Timestamp, models.EventEquipmentOutOfRange, spec.ID,
			fmt.Sprintf("%s out of range at %.1f°F", spec.Name, rd.Value), meta)
	}
	return nil
}

// Statuses classifies every piece of equipment at now, most urgent first.
func (s *EquipmentService) Statuses(ctx context.Context) ([]models.EquipmentStatus, error) {
	specs, err := s.equipment.List(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.readings.LatestPerEquipment(ctx)
	if err != nil {
		return nil, err
	}
	return buildStatuses(specs, latest, s.now()), nil
}

func buildStatuses(specs []models.EquipmentSpec, latest map[string]models.Reading, now time.Time) []models.EquipmentStatus {
	out := make([]models.EquipmentStatus, 0, len(specs))
	for _, spec := range specs {
		var last *models.Reading
		if rd, ok := latest[spec.ID]; ok {
			rd := rd
			last = &rd
		}
		out = append(out, compliance.BuildStatus(spec, last, now))
	}
	compliance.SortByUrgency(out)
	return out
}
