package service

import (
	"context"
	"fmt"
	"time"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/logger"
	"temp_compliance/internal/models"
	"temp_compliance/internal/repository"
)

// MonitorService sweeps active cooldowns and equipment on every tick and
// emits an event each time one enters an alarming state. It never changes a
// cooldown's persisted status.
type MonitorService struct {
	cooldowns repository.CooldownRepo
	equipment repository.EquipmentRepo
	readings  repository.ReadingRepo
	engine    *compliance.Cooling
	events    *emitter
	now       func() time.Time
	log       *logger.Logger

	// last observed state, touched only by the Run goroutine
	cooling map[string]compliance.CoolingStatus
	states  map[string]models.EquipmentState
}

func NewMonitorService(cooldowns repository.CooldownRepo, equipment repository.EquipmentRepo, readings repository.ReadingRepo,
	engine *compliance.Cooling, events *emitter, clock func() time.Time, log *logger.Logger) *MonitorService {
	return &MonitorService{
		cooldowns: cooldowns,
		equipment: equipment,
		readings:  readings,
		engine:    engine,
		events:    events,
		now:       clock,
		log:       log,
		cooling:   make(map[string]compliance.CoolingStatus),
		states:    make(map[string]models.EquipmentState),
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *MonitorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx, s.now())
		}
	}
}

func (s *MonitorService) sweep(ctx context.Context, now time.Time) {
	if err := s.sweepCooldowns(ctx, now); err != nil {
		s.log.Errorw("monitor_cooldowns_failed", "error", err)
	}
	if err := s.sweepEquipment(ctx, now); err != nil {
		s.log.Errorw("monitor_equipment_failed", "error", err)
	}
}

func (s *MonitorService) sweepCooldowns(ctx context.Context, now time.Time) error {
	active, err := s.cooldowns.ListActive(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(active))
	for _, c := range active {
		seen[c.ID] = struct{}{}
		status := s.engine.Status(c, now)
		prev := s.cooling[c.ID]
		s.cooling[c.ID] = status
		if status == prev {
			continue
		}

		cd := s.engine.Countdown(c, now)
		meta := map[string]any{
			"phase":    cd.Phase,
			"deadline": cd.Deadline.UTC(),
			"elapsed":  compliance.FormatDuration(now.Sub(c.StartTime)),
		}
		if cur, ok := c.Current(); ok {
			meta["current_temp"] = cur.Temperature
		}
		switch status {
		case compliance.StatusWarning:
			s.events.emit(ctx, now, models.EventCoolingWarning, c.ID,
				fmt.Sprintf("%s: %s, %dh %dm left", c.ItemName, s.engine.TargetPhrase(c), cd.Hours, cd.Minutes), meta)
		case compliance.StatusFailed:
			s.events.emit(ctx, now, models.EventCoolingOverdue, c.ID,
				fmt.Sprintf("%s missed the phase %d deadline", c.ItemName, cd.Phase), meta)
		}
	}

	for id := range s.cooling {
		if _, ok := seen[id]; !ok {
			delete(s.cooling, id)
		}
	}
	return nil
}

// sweepEquipment tracks daily state. Out-of-range events are raised when the
// reading is logged, so only the drop back to pending is raised here.
func (s *MonitorService) sweepEquipment(ctx context.Context, now time.Time) error {
	specs, err := s.equipment.List(ctx)
	if err != nil {
		return err
	}
	latest, err := s.readings.LatestPerEquipment(ctx)
	if err != nil {
		return err
	}

	for _, st := range buildStatuses(specs, latest, now) {
		id := st.Equipment.ID
		prev := s.states[id]
		s.states[id] = st.State
		if st.State == prev || st.State != models.StatePending {
			continue
		}
		s.events.emit(ctx, now, models.EventEquipmentPending, id,
			fmt.Sprintf("%s has no reading logged today", st.Equipment.Name), nil)
	}
	return nil
}
