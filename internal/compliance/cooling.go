package compliance

import (
	"fmt"
	"strings"
	"time"

	"temp_compliance/internal/models"
)

// Cook-to-cold defaults (°F and elapsed time from the cooldown start).
const (
	DefaultPhaseBoundaryF = 70.0
	DefaultTargetF        = 41.0
	DefaultPhase1Limit    = 2 * time.Hour
	DefaultTotalLimit     = 6 * time.Hour
	DefaultPhase1Warning  = 30 * time.Minute
	DefaultPhase2Warning  = time.Hour
	DefaultAmberWithin    = 30 * time.Minute

	// FDAStartTempF is where the federal clock starts; California starts at
	// the actual cooked temperature instead.
	FDAStartTempF = 135.0
)

// CoolingRules holds the deadline constants. Both regulatory variants share
// them; only the caller's choice of start temp/time differs.
type CoolingRules struct {
	PhaseBoundaryF    float64       // phase 1 ends at or below this
	TargetF           float64       // cooling is done at or below this
	Phase1Limit       time.Duration // start -> boundary
	TotalLimit        time.Duration // start -> target
	Phase1WarningLead time.Duration // warning band before Phase1Limit
	Phase2WarningLead time.Duration // warning band before TotalLimit
	AmberWithin       time.Duration // countdown turns amber inside this
}

// DefaultCoolingRules returns the 135→70 in 2h, 70→41 by 6h rules.
func DefaultCoolingRules() CoolingRules {
	return CoolingRules{
		PhaseBoundaryF:    DefaultPhaseBoundaryF,
		TargetF:           DefaultTargetF,
		Phase1Limit:       DefaultPhase1Limit,
		TotalLimit:        DefaultTotalLimit,
		Phase1WarningLead: DefaultPhase1Warning,
		Phase2WarningLead: DefaultPhase2Warning,
		AmberWithin:       DefaultAmberWithin,
	}
}

// CheckPolicy controls optional validation of appended checks. The zero
// value accepts non-monotonic temperatures and out-of-order timestamps so
// operators can enter corrections.
type CheckPolicy struct {
	RejectOutOfOrder bool
}

// CoolingStatus is the badge-level classification of a cooldown at a moment.
type CoolingStatus string

const (
	StatusOnTrack   CoolingStatus = "on-track"
	StatusWarning   CoolingStatus = "warning"
	StatusFailed    CoolingStatus = "failed"
	StatusCompleted CoolingStatus = "completed"
)

// Urgency is the countdown color.
type Urgency string

const (
	UrgencyGreen Urgency = "green"
	UrgencyAmber Urgency = "amber"
	UrgencyRed   Urgency = "red"
)

// Countdown is the time left until the active phase deadline.
type Countdown struct {
	Phase     int           `json:"phase"`
	Deadline  time.Time     `json:"deadline"`
	Remaining time.Duration `json:"remaining_ns"`
	IsOverdue bool          `json:"is_overdue"`
	Hours     int           `json:"hours"`
	Minutes   int           `json:"minutes"`
	Seconds   int           `json:"seconds"`
	Urgency   Urgency       `json:"urgency"`
}

// CoolingSnapshot bundles every derived value for one cooldown at now.
type CoolingSnapshot struct {
	CooldownID   string        `json:"cooldown_id"`
	CurrentTemp  float64       `json:"current_temp"`
	Phase        int           `json:"phase"`
	TargetPhrase string        `json:"target_phrase"`
	Elapsed      string        `json:"elapsed"`
	Countdown    Countdown     `json:"countdown"`
	Status       CoolingStatus `json:"status"`
	Progress     float64       `json:"progress"`
}

// DeadlineReview audits a cooldown's check history against both limits.
type DeadlineReview struct {
	ReachedBoundaryAt *time.Time `json:"reached_boundary_at,omitempty"`
	ReachedTargetAt   *time.Time `json:"reached_target_at,omitempty"`
	Phase1Missed      bool       `json:"phase1_missed"`
	Phase2Missed      bool       `json:"phase2_missed"`
}

// Compliant reports whether neither deadline was missed.
func (r DeadlineReview) Compliant() bool {
	return !r.Phase1Missed && !r.Phase2Missed
}

// Cooling is the cook-to-cold state machine. It holds no per-cooldown state;
// every method takes the cooldown snapshot and returns new values.
type Cooling struct {
	rules  CoolingRules
	policy CheckPolicy
}

// NewCooling builds the engine. Zero fields in rules fall back to defaults.
func NewCooling(rules CoolingRules, policy CheckPolicy) *Cooling {
	def := DefaultCoolingRules()
	if rules.PhaseBoundaryF == 0 {
		rules.PhaseBoundaryF = def.PhaseBoundaryF
	}
	if rules.TargetF == 0 {
		rules.TargetF = def.TargetF
	}
	if rules.Phase1Limit <= 0 {
		rules.Phase1Limit = def.Phase1Limit
	}
	if rules.TotalLimit <= 0 {
		rules.TotalLimit = def.TotalLimit
	}
	if rules.Phase1WarningLead <= 0 {
		rules.Phase1WarningLead = def.Phase1WarningLead
	}
	if rules.Phase2WarningLead <= 0 {
		rules.Phase2WarningLead = def.Phase2WarningLead
	}
	if rules.AmberWithin <= 0 {
		rules.AmberWithin = def.AmberWithin
	}
	return &Cooling{rules: rules, policy: policy}
}

// Rules returns the effective rules.
func (e *Cooling) Rules() CoolingRules { return e.rules }

// StartTempFor returns the start temperature a caller should record under
// standard: 135°F for FDA, the actual cooked temperature for California.
func StartTempFor(standard models.CoolingStandard, cookedTempF float64) float64 {
	if standard == models.StandardCalifornia {
		return cookedTempF
	}
	return FDAStartTempF
}

// Start creates an active cooldown whose only check is the starting one.
// An empty standard defaults to FDA.
func (e *Cooling) Start(itemName string, startTemp float64, startTime time.Time, location, startedBy string, standard models.CoolingStandard) (models.Cooldown, error) {
	if !isFinite(startTemp) {
		return models.Cooldown{}, ErrInvalidTemperature
	}
	if startTime.IsZero() {
		return models.Cooldown{}, ErrInvalidTime
	}
	if standard == "" {
		standard = models.StandardFDA
	}
	return models.Cooldown{
		ItemName:  itemName,
		StartTemp: startTemp,
		StartTime: startTime,
		Location:  location,
		StartedBy: startedBy,
		Standard:  standard,
		Checks:    []models.CooldownCheck{{Temperature: startTemp, Time: startTime}},
		Status:    models.CooldownActive,
	}, nil
}

// LogCheck appends a check and returns the updated cooldown. The input's
// Checks slice is never modified.
func (e *Cooling) LogCheck(c models.Cooldown, temperature float64, at time.Time) (models.Cooldown, error) {
	if c.Status != models.CooldownActive {
		return c, ErrCooldownNotActive
	}
	if !isFinite(temperature) {
		return c, ErrInvalidTemperature
	}
	if at.IsZero() {
		return c, ErrInvalidTime
	}
	if e.policy.RejectOutOfOrder {
		if last, ok := c.Current(); ok && at.Before(last.Time) {
			return c, fmt.Errorf("%w: %s before %s", ErrCheckOutOfOrder,
				at.Format(time.RFC3339), last.Time.Format(time.RFC3339))
		}
	}

	checks := make([]models.CooldownCheck, len(c.Checks), len(c.Checks)+1)
	copy(checks, c.Checks)
	c.Checks = append(checks, models.CooldownCheck{Temperature: temperature, Time: at})
	return c, nil
}

// Complete moves an active cooldown to its terminal state. The latest check
// must be at or below the target temperature.
func (e *Cooling) Complete(c models.Cooldown, now time.Time) (models.Cooldown, error) {
	if c.Status != models.CooldownActive {
		return c, ErrCooldownNotActive
	}
	cur, ok := c.Current()
	if !ok {
		return c, ErrCooldownHasNoChecks
	}
	if cur.Temperature > e.rules.TargetF {
		return c, ErrTemperatureAboveTarget
	}

	if e.Status(c, now) == StatusFailed {
		c.Status = models.CooldownFailed
	} else {
		c.Status = models.CooldownCompleted
	}
	at := now
	c.CompletedAt = &at
	return c, nil
}

// Phase is 1 while the current temperature is above the phase boundary and 2
// otherwise. It is always derived from the latest check.
func (e *Cooling) Phase(c models.Cooldown) int {
	if e.currentTemp(c) > e.rules.PhaseBoundaryF {
		return 1
	}
	return 2
}

// Deadline is measured from the cooldown start for both phases.
func (e *Cooling) Deadline(c models.Cooldown) time.Time {
	if e.Phase(c) == 1 {
		return c.StartTime.Add(e.rules.Phase1Limit)
	}
	return c.StartTime.Add(e.rules.TotalLimit)
}

// TargetPhrase renders the goal of the active phase, e.g. "reach 70°F by 14:00 UTC".
// The deadline keeps the zone of the cooldown's StartTime and names it.
func (e *Cooling) TargetPhrase(c models.Cooldown) string {
	goal := e.rules.TargetF
	if e.Phase(c) == 1 {
		goal = e.rules.PhaseBoundaryF
	}
	return fmt.Sprintf("reach %s°F by %s", trimFloat(goal), e.Deadline(c).Format("15:04 MST"))
}

// Countdown computes the remaining time to the active deadline at now.
func (e *Cooling) Countdown(c models.Cooldown, now time.Time) Countdown {
	deadline := e.Deadline(c)
	remaining := deadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	cd := Countdown{
		Phase:     e.Phase(c),
		Deadline:  deadline,
		Remaining: remaining,
		IsOverdue: remaining <= 0,
		Hours:     int(remaining / time.Hour),
		Minutes:   int(remaining % time.Hour / time.Minute),
		Seconds:   int(remaining % time.Minute / time.Second),
	}
	switch {
	case cd.IsOverdue:
		cd.Urgency = UrgencyRed
	case remaining <= e.rules.AmberWithin:
		cd.Urgency = UrgencyAmber
	default:
		cd.Urgency = UrgencyGreen
	}
	return cd
}

// Status classifies the cooldown at now from the latest temperature and the
// time elapsed since start. Upper bounds are exclusive: exactly 2h in phase 1
// is still a warning, not a failure.
func (e *Cooling) Status(c models.Cooldown, now time.Time) CoolingStatus {
	cur := e.currentTemp(c)
	elapsed := now.Sub(c.StartTime)

	var limit, lead time.Duration
	switch {
	case cur > e.rules.PhaseBoundaryF:
		limit, lead = e.rules.Phase1Limit, e.rules.Phase1WarningLead
	case cur > e.rules.TargetF:
		limit, lead = e.rules.TotalLimit, e.rules.Phase2WarningLead
	default:
		return StatusCompleted
	}

	switch {
	case elapsed > limit:
		return StatusFailed
	case elapsed > limit-lead:
		return StatusWarning
	default:
		return StatusOnTrack
	}
}

// Progress is the percentage of the active phase's temperature drop achieved,
// clamped to [0, 100].
func (e *Cooling) Progress(c models.Cooldown) float64 {
	cur := e.currentTemp(c)
	var p float64
	if e.Phase(c) == 1 {
		span := c.StartTemp - e.rules.PhaseBoundaryF
		if span <= 0 {
			return 0
		}
		p = (c.StartTemp - cur) / span * 100
	} else {
		span := e.rules.PhaseBoundaryF - e.rules.TargetF
		p = (e.rules.PhaseBoundaryF - cur) / span * 100
	}
	return clamp(p, 0, 100)
}

// Snapshot evaluates every derived value at now.
func (e *Cooling) Snapshot(c models.Cooldown, now time.Time) CoolingSnapshot {
	return CoolingSnapshot{
		CooldownID:   c.ID,
		CurrentTemp:  e.currentTemp(c),
		Phase:        e.Phase(c),
		TargetPhrase: e.TargetPhrase(c),
		Elapsed:      FormatDuration(now.Sub(c.StartTime)),
		Countdown:    e.Countdown(c, now),
		Status:       e.Status(c, now),
		Progress:     e.Progress(c),
	}
}

// Review walks the check history in insertion order and reports when each
// threshold was first reached. A threshold not yet reached is judged against
// asOf (typically now, or CompletedAt for a finished cooldown).
func (e *Cooling) Review(c models.Cooldown, asOf time.Time) DeadlineReview {
	var r DeadlineReview
	for _, ch := range c.Checks {
		if r.ReachedBoundaryAt == nil && ch.Temperature <= e.rules.PhaseBoundaryF {
			t := ch.Time
			r.ReachedBoundaryAt = &t
		}
		if r.ReachedTargetAt == nil && ch.Temperature <= e.rules.TargetF {
			t := ch.Time
			r.ReachedTargetAt = &t
		}
	}
	r.Phase1Missed = missed(c.StartTime, r.ReachedBoundaryAt, asOf, e.rules.Phase1Limit)
	r.Phase2Missed = missed(c.StartTime, r.ReachedTargetAt, asOf, e.rules.TotalLimit)
	return r
}

func (e *Cooling) currentTemp(c models.Cooldown) float64 {
	if cur, ok := c.Current(); ok {
		return cur.Temperature
	}
	return c.StartTemp
}

func missed(start time.Time, reached *time.Time, asOf time.Time, limit time.Duration) bool {
	if reached != nil {
		return reached.Sub(start) > limit
	}
	return asOf.Sub(start) > limit
}

// FormatDuration renders d as "Xh Ym", truncating seconds. Negative
// durations render as "0h 0m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%dh %dm", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}
