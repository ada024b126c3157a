package compliance

import (
	"sort"
	"strings"
	"time"

	"temp_compliance/internal/models"
)

// Classify derives the daily state of one piece of equipment from its latest
// reading. Same-day is decided on now's local calendar.
func Classify(spec models.EquipmentSpec, last *models.Reading, now time.Time) models.EquipmentState {
	if last == nil {
		return models.StatePending
	}
	if !sameDay(last.Timestamp, now) {
		return models.StatePending
	}
	if !IsWithinRange(spec, last.Value) {
		return models.StateOutOfRange
	}
	return models.StateLogged
}

// NeedsAction reports whether the state still needs operator attention today.
// pending and outOfRange carry equal priority.
func NeedsAction(state models.EquipmentState) bool {
	return state == models.StatePending || state == models.StateOutOfRange
}

// BuildStatus classifies spec and packs the result for dashboards.
func BuildStatus(spec models.EquipmentSpec, last *models.Reading, now time.Time) models.EquipmentStatus {
	state := Classify(spec, last, now)
	return models.EquipmentStatus{
		Equipment:   spec,
		State:       state,
		NeedsAction: NeedsAction(state),
		LastReading: last,
	}
}

// SortByUrgency orders statuses needs-action first; inside each group the most
// recently read equipment comes first and never-read equipment last.
// Ties fall back to name so the order is stable across refreshes.
func SortByUrgency(statuses []models.EquipmentStatus) {
	sort.SliceStable(statuses, func(i, j int) bool {
		a, b := statuses[i], statuses[j]
		if NeedsAction(a.State) != NeedsAction(b.State) {
			return NeedsAction(a.State)
		}
		at, bt := lastReadingTime(a), lastReadingTime(b)
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return strings.ToLower(a.Equipment.Name) < strings.ToLower(b.Equipment.Name)
	})
}

// RequiresCorrectiveAction reports whether a reading of value on spec must
// carry corrective-action text.
func RequiresCorrectiveAction(spec models.EquipmentSpec, value float64) bool {
	return !IsWithinRange(spec, value)
}

// ReadingInput is what an operator or sensor submits for one reading.
type ReadingInput struct {
	Value            float64
	Timestamp        time.Time
	RecordedBy       string
	InputMethod      models.InputMethod
	CorrectiveAction string
	PhotoRefs        []string
}

// NewReading validates in against spec and returns the reading with
// IsWithinRange computed. Out-of-range manual and QR readings need corrective
// action text; sensor readings do not, their follow-up runs through the
// sensor alert path.
func NewReading(spec models.EquipmentSpec, in ReadingInput) (models.Reading, error) {
	if !isFinite(in.Value) {
		return models.Reading{}, ErrInvalidTemperature
	}
	if in.Timestamp.IsZero() {
		return models.Reading{}, ErrInvalidTime
	}
	method := in.InputMethod
	if method == "" {
		method = models.InputManual
	}

	inRange := IsWithinRange(spec, in.Value)
	action := strings.TrimSpace(in.CorrectiveAction)
	if !inRange && method != models.InputIoTSensor && action == "" {
		return models.Reading{}, ErrCorrectiveActionRequired
	}

	return models.Reading{
		EquipmentID:      spec.ID,
		Value:            in.Value,
		Timestamp:        in.Timestamp,
		RecordedBy:       in.RecordedBy,
		InputMethod:      method,
		IsWithinRange:    inRange,
		CorrectiveAction: action,
		PhotoRefs:        in.PhotoRefs,
	}, nil
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func lastReadingTime(s models.EquipmentStatus) time.Time {
	if s.LastReading == nil {
		return time.Time{}
	}
	return s.LastReading.Timestamp
}
