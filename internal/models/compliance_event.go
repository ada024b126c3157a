package models

import "time"

// Event types emitted for the incident and notification systems.
const (
	EventReadingLogged       = "READING_LOGGED"
	EventEquipmentOutOfRange = "EQUIPMENT_OUT_OF_RANGE"
	EventEquipmentPending    = "EQUIPMENT_PENDING"
	EventSensorAlert         = "SENSOR_ALERT"
	EventCooldownStarted     = "COOLDOWN_STARTED"
	EventCooldownCheck       = "COOLDOWN_CHECK"
	EventCoolingWarning      = "COOLING_WARNING"
	EventCoolingOverdue      = "COOLING_OVERDUE"
	EventCooldownCompleted   = "COOLDOWN_COMPLETED"
	EventCooldownFailed      = "COOLDOWN_FAILED"
	EventReceivingDeviation  = "RECEIVING_DEVIATION"
	EventReceivingFinalized  = "RECEIVING_FINALIZED"
)

// ComplianceEvent is a single entry of the compliance feed.
type ComplianceEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Subject     string    `json:"subject"`     // equipment, cooldown or receiving log id
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
