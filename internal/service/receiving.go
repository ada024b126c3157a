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

type ReceivingService struct {
	repo     repository.ReceivingRepo
	workflow *compliance.Receiving
	events   *emitter
	now      func() time.Time
}

func NewReceivingService(repo repository.ReceivingRepo, workflow *compliance.Receiving, events *emitter, clock func() time.Time) *ReceivingService {
	return &ReceivingService{repo: repo, workflow: workflow, events: events, now: clock}
}

func (s *ReceivingService) Categories() compliance.CategoryRegistry {
	return s.workflow.Categories()
}

// EvaluateItem grades one item and attaches its deviation when given.
func (s *ReceivingService) EvaluateItem(in ItemInput) (models.ReceivingItem, error) {
	item, err := s.workflow.EvaluateItem(strings.TrimSpace(in.Description), in.Category, in.Temperature)
	if err != nil {
		return models.ReceivingItem{}, err
	}
	if in.Deviation != nil {
		return s.workflow.AttachDeviation(item, *in.Deviation)
	}
	return item, nil
}

// FinalizeLog re-evaluates every item server-side, then stores the log.
func (s *ReceivingService) FinalizeLog(ctx context.Context, p FinalizeParams) (models.ReceivingLog, error) {
	vendor := strings.TrimSpace(p.VendorName)
	if vendor == "" {
		return models.ReceivingLog{}, fmt.Errorf("%w: vendor name is required", ErrInvalidInput)
	}

	items := make([]models.ReceivingItem, 0, len(p.Items))
	for i, in := range p.Items {
		it, err := s.EvaluateItem(in)
		if err != nil {
			return models.ReceivingLog{}, fmt.Errorf("item %d (%s): %w", i+1, in.Description, err)
		}
		items = append(items, it)
	}

	at := p.ReceivedAt
	if at.IsZero() {
		at = s.now()
	}
	log, err := s.workflow.Finalize(vendor, strings.TrimSpace(p.ReceivedBy), at.UTC(), items)
	if err != nil {
		return models.ReceivingLog{}, err
	}
	log.ID = uuid.NewString()
	if err := s.repo.Save(ctx, log); err != nil {
		return models.ReceivingLog{}, err
	}

	for _, it := range log.Items {
		if it.Pass || it.Deviation == nil {
			continue
		}
		meta := map[string]any{
			"description":  it.Description,
			"category":     it.Category,
			"temperature":  it.Temperature,
			"vendor_name":  log.VendorName,
			"action_taken": it.Deviation.ActionTaken,
			"notes":        it.Deviation.Notes,
		}
		if it.Deviation.ReMeasuredTemp != nil {
			meta["re_measured_temp"] = *it.Deviation.ReMeasuredTemp
		}
		s.events.emit(ctx, log.ReceivedAt, models.EventReceivingDeviation, log.ID,
			fmt.Sprintf("CCP-04 deviation: %s at %.1f°F from %s (%s)", it.Description, it.Temperature, log.VendorName, it.Deviation.ActionTaken),
			meta)
	}
	s.events.emit(ctx, log.ReceivedAt, models.EventReceivingFinalized, log.ID, compliance.SummaryText(log),
		map[string]any{"total": log.Summary.Total, "passed": log.Summary.Passed, "failed": log.Summary.Failed})

	return log, nil
}

func (s *ReceivingService) GetLog(ctx context.Context, id string) (models.ReceivingLog, error) {
	return s.repo.Get(ctx, id)
}

func (s *ReceivingService) ListLogs(ctx context.Context, f LogFilter) ([]models.ReceivingLog, error) {
	from, to, err := normalizeRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, from, to)
}
