package models

import "time"

// CoolingStandard selects the regulatory convention the caller used to pick
// a cooldown's start temperature and time.
type CoolingStandard string

const (
	StandardFDA        CoolingStandard = "FDA"
	StandardCalifornia CoolingStandard = "CALIFORNIA"
)

// Valid reports whether s is a known standard.
func (s CoolingStandard) Valid() bool {
	return s == StandardFDA || s == StandardCalifornia
}

// CooldownStatus is the persisted lifecycle state of a cooldown.
type CooldownStatus string

const (
	CooldownActive    CooldownStatus = "active"
	CooldownCompleted CooldownStatus = "completed"
	CooldownFailed    CooldownStatus = "failed"
)

// CooldownCheck is one temperature taken during a cook-to-cold cycle.
type CooldownCheck struct {
	Temperature float64   `json:"temperature"` // °F
	Time        time.Time `json:"time"`
}

// Cooldown is a cook-to-cold cooling cycle.
// Checks is append-only; Checks[0] is the starting check and the last element
// is the current reading.
type Cooldown struct {
	ID          string          `json:"id"`
	ItemName    string          `json:"item_name"`
	StartTemp   float64         `json:"start_temp"`
	StartTime   time.Time       `json:"start_time"`
	Location    string          `json:"location"`
	StartedBy   string          `json:"started_by"`
	Standard    CoolingStandard `json:"standard"`
	Checks      []CooldownCheck `json:"checks"`
	Status      CooldownStatus  `json:"status"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Current returns the latest check. ok is false when there are no checks.
func (c Cooldown) Current() (CooldownCheck, bool) {
	if len(c.Checks) == 0 {
		return CooldownCheck{}, false
	}
	return c.Checks[len(c.Checks)-1], true
}
