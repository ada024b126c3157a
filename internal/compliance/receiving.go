package compliance

import (
	"fmt"
	"strings"
	"time"

	"temp_compliance/internal/models"
)

// CategoryConfig is the receiving requirement for one food category.
type CategoryConfig struct {
	Label        string  `json:"label" mapstructure:"label"`
	TempRequired bool    `json:"temp_required" mapstructure:"temp_required"`
	MaxTemp      float64 `json:"max_temp,omitempty" mapstructure:"max_temp"` // °F, only used when TempRequired
}

// CategoryRegistry maps a food category key to its requirement.
type CategoryRegistry map[string]CategoryConfig

const (
	refrigeratedMaxF = 41.0
	frozenMaxF       = 0.0
)

// DefaultCategories returns the stock registry: refrigerated ≤41°F, frozen
// ≤0°F, dry/beverage/shelf-stable without a temperature check.
func DefaultCategories() CategoryRegistry {
	return CategoryRegistry{
		"refrigerated_dairy":    {Label: "Refrigerated - Dairy", TempRequired: true, MaxTemp: refrigeratedMaxF},
		"refrigerated_meat":     {Label: "Refrigerated - Meat", TempRequired: true, MaxTemp: refrigeratedMaxF},
		"refrigerated_poultry":  {Label: "Refrigerated - Poultry", TempRequired: true, MaxTemp: refrigeratedMaxF},
		"refrigerated_seafood":  {Label: "Refrigerated - Seafood", TempRequired: true, MaxTemp: refrigeratedMaxF},
		"refrigerated_produce":  {Label: "Refrigerated - Cut Produce", TempRequired: true, MaxTemp: refrigeratedMaxF},
		"refrigerated_prepared": {Label: "Refrigerated - Prepared Foods", TempRequired: true, MaxTemp: refrigeratedMaxF},
		"shell_eggs":            {Label: "Shell Eggs", TempRequired: true, MaxTemp: refrigeratedMaxF},
		"frozen":                {Label: "Frozen", TempRequired: true, MaxTemp: frozenMaxF},
		"dry_goods":             {Label: "Dry Goods", TempRequired: false},
		"beverages":             {Label: "Beverages", TempRequired: false},
		"shelf_stable":          {Label: "Shelf Stable", TempRequired: false},
	}
}

// Lookup returns the config for category, matched case-insensitively.
func (r CategoryRegistry) Lookup(category string) (CategoryConfig, bool) {
	cfg, ok := r[normalizeCategory(category)]
	return cfg, ok
}

// Standard renders the requirement the way receiving clerks read it.
func (c CategoryConfig) Standard() string {
	if !c.TempRequired {
		return "No temperature check required"
	}
	return fmt.Sprintf("≤ %s°F", trimFloat(c.MaxTemp))
}

// Receiving runs the CCP-04 receiving workflow against a category registry.
type Receiving struct {
	categories CategoryRegistry
}

// NewReceiving builds the workflow. A nil or empty registry uses the defaults.
func NewReceiving(categories CategoryRegistry) *Receiving {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	normalized := make(CategoryRegistry, len(categories))
	for k, v := range categories {
		normalized[normalizeCategory(k)] = v
	}
	return &Receiving{categories: normalized}
}

// Categories returns a copy of the active registry.
func (w *Receiving) Categories() CategoryRegistry {
	out := make(CategoryRegistry, len(w.categories))
	for k, v := range w.categories {
		out[k] = v
	}
	return out
}

// EvaluateItem decides pass/fail for one delivered item. temperature may be
// nil only for categories that need no check; it is then recorded as 0.
func (w *Receiving) EvaluateItem(description, category string, temperature *float64) (models.ReceivingItem, error) {
	cfg, ok := w.categories.Lookup(category)
	if !ok {
		return models.ReceivingItem{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	item := models.ReceivingItem{
		Description:  description,
		Category:     normalizeCategory(category),
		TempRequired: cfg.TempRequired,
	}
	if !cfg.TempRequired {
		item.Pass = true
		return item, nil
	}

	if temperature == nil {
		return models.ReceivingItem{}, ErrTemperatureRequired
	}
	if !isFinite(*temperature) {
		return models.ReceivingItem{}, ErrInvalidTemperature
	}
	item.Temperature = *temperature
	item.Pass = *temperature <= cfg.MaxTemp
	return item, nil
}

// AttachDeviation validates dev and attaches it to a failing item.
func (w *Receiving) AttachDeviation(item models.ReceivingItem, dev models.CcpDeviation) (models.ReceivingItem, error) {
	if item.Pass {
		return item, ErrDeviationNotAllowed
	}
	if err := validateDeviation(dev); err != nil {
		return item, err
	}
	dev.Notes = strings.TrimSpace(dev.Notes)
	if dev.ReMeasuredTemp != nil {
		if !isFinite(*dev.ReMeasuredTemp) {
			return item, ErrInvalidTemperature
		}
		t := *dev.ReMeasuredTemp
		dev.ReMeasuredTemp = &t
	}
	item.Deviation = &dev
	return item, nil
}

// ValidateForFinalize rejects a failing, temperature-checked item that has no
// complete deviation.
func (w *Receiving) ValidateForFinalize(item models.ReceivingItem) error {
	if item.Pass || !item.TempRequired {
		return nil
	}
	if item.Deviation == nil {
		return ErrDeviationRequired
	}
	if err := validateDeviation(*item.Deviation); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviationRequired, err)
	}
	return nil
}

// Finalize validates every item and builds the receiving log with its
// pass/fail counts. Item verdicts are never overridden by the batch.
func (w *Receiving) Finalize(vendorName, receivedBy string, receivedAt time.Time, items []models.ReceivingItem) (models.ReceivingLog, error) {
	if len(items) == 0 {
		return models.ReceivingLog{}, ErrEmptyReceivingBatch
	}
	if receivedAt.IsZero() {
		return models.ReceivingLog{}, ErrInvalidTime
	}
	for i, it := range items {
		if err := w.ValidateForFinalize(it); err != nil {
			return models.ReceivingLog{}, fmt.Errorf("item %d (%s): %w", i+1, it.Description, err)
		}
	}

	out := make([]models.ReceivingItem, len(items))
	copy(out, items)
	return models.ReceivingLog{
		VendorName: vendorName,
		ReceivedBy: receivedBy,
		ReceivedAt: receivedAt,
		Items:      out,
		Summary:    Summarize(out),
	}, nil
}

// Summarize counts passing and failing items.
func Summarize(items []models.ReceivingItem) models.ReceivingSummary {
	s := models.ReceivingSummary{Total: len(items)}
	for _, it := range items {
		if it.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// SummaryText renders "3 items from Sysco - 1 item(s) failed" or "... - All Pass".
func SummaryText(log models.ReceivingLog) string {
	if log.Summary.Failed > 0 {
		return fmt.Sprintf("%d items from %s - %d item(s) failed", log.Summary.Total, log.VendorName, log.Summary.Failed)
	}
	return fmt.Sprintf("%d items from %s - All Pass", log.Summary.Total, log.VendorName)
}

func validateDeviation(dev models.CcpDeviation) error {
	switch dev.ActionTaken {
	case models.ActionRejectedDelivery, models.ActionAcceptedWithCondition,
		models.ActionRetempedAfterWait, models.ActionOther:
	default:
		return ErrInvalidDeviationAction
	}
	if strings.TrimSpace(dev.Notes) == "" {
		return ErrDeviationNotesRequired
	}
	return nil
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
