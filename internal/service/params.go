package service

import (
	"errors"
	"time"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/models"
	"temp_compliance/internal/repository"
)

var (
	// ErrNotFound is returned when the addressed equipment, cooldown or log does not exist.
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidInput wraps request-shape problems the engine does not cover.
	ErrInvalidInput     = errors.New("invalid input")
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// IsInvalidInput reports whether err should be reported back as a bad request.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, errInvalidTimeRange)
}

// LogFilter supports history filtering by time range, type and subject.
type LogFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Type    string    // "", "COOLDOWN_STARTED", "SENSOR_ALERT", ...
	Subject string    // equipment, cooldown or receiving log id
}

type StartParams struct {
	ItemName  string
	StartTemp float64
	StartTime time.Time // zero means now
	Location  string
	StartedBy string
	Standard  models.CoolingStandard // empty means FDA
}

type ItemInput struct {
	Description string
	Category    string
	Temperature *float64
	Deviation   *models.CcpDeviation
}

type FinalizeParams struct {
	VendorName string
	ReceivedBy string
	ReceivedAt time.Time // zero means now
	Items      []ItemInput
}

// SensorResult is a stored sensor reading and its graded verdict.
type SensorResult struct {
	Reading models.Reading           `json:"reading"`
	Verdict compliance.SensorVerdict `json:"verdict"`
}

// CooldownView is a cooldown with everything derived from it at read time.
type CooldownView struct {
	models.Cooldown
	Snapshot  compliance.CoolingSnapshot `json:"snapshot"`
	Review    compliance.DeadlineReview  `json:"review"`
	TotalTime string                     `json:"total_time,omitempty"` // set once finished
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeRange validates the optional [from, to] window.
func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = normalizeToUTC(from), normalizeToUTC(to)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, errInvalidTimeRange
	}
	return from, to, nil
}
