package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/models"
	"temp_compliance/internal/repository"
)

type CoolingService struct {
	repo   repository.CooldownRepo
	engine *compliance.Cooling
	events *emitter
	now    func() time.Time

	// cooldownLocks serializes check appends and completion per cooldown.
	cooldownLocks *keyedMutex
}

func NewCoolingService(repo repository.CooldownRepo, engine *compliance.Cooling, events *emitter, clock func() time.Time) *CoolingService {
	return &CoolingService{
		repo:          repo,
		engine:        engine,
		events:        events,
		now:           clock,
		cooldownLocks: newKeyedMutex(),
	}
}

func (s *CoolingService) StartCooldown(ctx context.Context, p StartParams) (models.Cooldown, error) {
	item := strings.TrimSpace(p.ItemName)
	if item == "" {
		return models.Cooldown{}, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if p.Standard != "" && !p.Standard.Valid() {
		return models.Cooldown{}, fmt.Errorf("%w: unknown cooling standard %q", ErrInvalidInput, p.Standard)
	}
	start := p.StartTime
	if start.IsZero() {
		start = s.now()
	}

	c, err := s.engine.Start(item, p.StartTemp, start.UTC(), p.Location, p.StartedBy, p.Standard)
	if err != nil {
		return models.Cooldown{}, err
	}
	c.ID = uuid.NewString()
	if err := s.repo.Create(ctx, c); err != nil {
		return models.Cooldown{}, err
	}

	s.events.emit(ctx, c.StartTime, models.EventCooldownStarted, c.ID,
		fmt.Sprintf("Cooldown started for %s at %.1f°F, %s", c.ItemName, c.StartTemp, s.engine.TargetPhrase(c)),
		map[string]any{"item_name": c.ItemName, "start_temp": c.StartTemp, "standard": c.Standard, "location": c.Location})
	return c, nil
}

// LogCheck appends a temperature check to an active cooldown.
func (s *CoolingService) LogCheck(ctx context.Context, id string, temperature float64, at time.Time) (models.Cooldown, error) {
	unlock := s.cooldownLocks.Lock(id)
	defer unlock()

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Cooldown{}, err
	}
	if at.IsZero() {
		at = s.now()
	}

	updated, err := s.engine.LogCheck(c, temperature, at.UTC())
	if err != nil {
		return models.Cooldown{}, err
	}
	chk, _ := updated.Current()
	if err := s.repo.AppendCheck(ctx, id, chk); err != nil {
		return models.Cooldown{}, err
	}

	now := s.now()
	s.events.emit(ctx, chk.Time, models.EventCooldownCheck, id,
		fmt.Sprintf("%s checked at %.1f°F", updated.ItemName, chk.Temperature),
		map[string]any{
			"temperature": chk.Temperature,
			"phase":       s.engine.Phase(updated),
			"status":      s.engine.Status(updated, now),
			"progress":    s.engine.Progress(updated),
		})
	return updated, nil
}

// CompleteCooldown finishes an active cooldown whose latest check is at or
// below the target.
func (s *CoolingService) CompleteCooldown(ctx context.Context, id string) (CooldownView, error) {
	unlock := s.cooldownLocks.Lock(id)
	defer unlock()

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return CooldownView{}, err
	}
	now := s.now()
	done, err := s.engine.Complete(c, now.UTC())
	if err != nil {
		return CooldownView{}, err
	}
	if err := s.repo.Finish(ctx, done); err != nil {
		return CooldownView{}, err
	}

	view := s.view(done, now)
	typ := models.EventCooldownCompleted
	if done.Status == models.CooldownFailed {
		typ = models.EventCooldownFailed
	}
	cur, _ := done.Current()
	s.events.emit(ctx, now, typ, id,
		fmt.Sprintf("%s cooled to %.1f°F in %s", done.ItemName, cur.Temperature, view.TotalTime),
		map[string]any{
			"status":        done.Status,
			"total_time":    view.TotalTime,
			"phase1_missed": view.Review.Phase1Missed,
			"phase2_missed": view.Review.Phase2Missed,
		})
	return view, nil
}

func (s *CoolingService) GetCooldown(ctx context.Context, id string) (CooldownView, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return CooldownView{}, err
	}
	return s.view(c, s.now()), nil
}

func (s *CoolingService) ListActiveCooldowns(ctx context.Context) ([]CooldownView, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]CooldownView, 0, len(list))
	for _, c := range list {
		out = append(out, s.view(c, now))
	}
	return out, nil
}

func (s *CoolingService) CooldownSnapshot(ctx context.Context, id string) (compliance.CoolingSnapshot, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return compliance.CoolingSnapshot{}, err
	}
	return s.view(c, s.now()).Snapshot, nil
}

// view derives the snapshot at now. A finished cooldown is judged at its
// completion time so its numbers stop moving.
func (s *CoolingService) view(c models.Cooldown, now time.Time) CooldownView {
	asOf := now
	v := CooldownView{Cooldown: c}
	if c.CompletedAt != nil {
		asOf = *c.CompletedAt
		v.TotalTime = compliance.FormatDuration(asOf.Sub(c.StartTime))
	}
	v.Snapshot = s.engine.Snapshot(c, asOf)
	v.Review = s.engine.Review(c, asOf)
	return v
}
