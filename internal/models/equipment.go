package models

import (
	"encoding/json"
	"math"
	"time"
)

// EquipmentCategory groups equipment by the kind of temperature control it provides.
type EquipmentCategory string

const (
	CategoryStorageCold   EquipmentCategory = "storage_cold"
	CategoryStorageFrozen EquipmentCategory = "storage_frozen"
	CategoryHoldingCold   EquipmentCategory = "holding_cold"
	CategoryHoldingHot    EquipmentCategory = "holding_hot"
)

// Valid reports whether c is one of the known categories.
func (c EquipmentCategory) Valid() bool {
	switch c {
	case CategoryStorageCold, CategoryStorageFrozen, CategoryHoldingCold, CategoryHoldingHot:
		return true
	}
	return false
}

// EquipmentSpec is the configured safe range for one piece of equipment.
// MinTemp is math.Inf(-1) for ceiling-only equipment such as freezers.
type EquipmentSpec struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category EquipmentCategory `json:"category"`
	MinTemp  float64           `json:"min_temp"` // °F
	MaxTemp  float64           `json:"max_temp"` // °F
	Unit     string            `json:"unit"`
	Location string            `json:"location,omitempty"`
}

// HasFloor reports whether the equipment has a finite lower bound.
func (s EquipmentSpec) HasFloor() bool {
	return !math.IsInf(s.MinTemp, -1)
}

// equipmentSpecJSON mirrors EquipmentSpec with a nullable floor; JSON has no -Inf.
type equipmentSpecJSON struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category EquipmentCategory `json:"category"`
	MinTemp  *float64          `json:"min_temp"`
	MaxTemp  float64           `json:"max_temp"`
	Unit     string            `json:"unit"`
	Location string            `json:"location,omitempty"`
}

// MarshalJSON encodes a missing floor as "min_temp": null.
func (s EquipmentSpec) MarshalJSON() ([]byte, error) {
	out := equipmentSpecJSON{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		MaxTemp:  s.MaxTemp,
		Unit:     s.Unit,
		Location: s.Location,
	}
	if s.HasFloor() {
		min := s.MinTemp
		out.MinTemp = &min
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes "min_temp": null (or an absent field) as no floor.
func (s *EquipmentSpec) UnmarshalJSON(b []byte) error {
	var in equipmentSpecJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*s = EquipmentSpec{
		ID:       in.ID,
		Name:     in.Name,
		Category: in.Category,
		MinTemp:  math.Inf(-1),
		MaxTemp:  in.MaxTemp,
		Unit:     in.Unit,
		Location: in.Location,
	}
	if in.MinTemp != nil {
		s.MinTemp = *in.MinTemp
	}
	return nil
}

// InputMethod records how a reading was captured.
type InputMethod string

const (
	InputManual    InputMethod = "manual"
	InputQRScan    InputMethod = "qr_scan"
	InputIoTSensor InputMethod = "iot_sensor"
)

// Valid reports whether m is one of the known input methods.
func (m InputMethod) Valid() bool {
	switch m {
	case InputManual, InputQRScan, InputIoTSensor:
		return true
	}
	return false
}

// Reading is a single logged temperature for a piece of equipment.
type Reading struct {
	ID               string      `json:"id"`
	EquipmentID      string      `json:"equipment_id"`
	Value            float64     `json:"value"` // °F
	Timestamp        time.Time   `json:"timestamp"`
	RecordedBy       string      `json:"recorded_by"`
	InputMethod      InputMethod `json:"input_method"`
	IsWithinRange    bool        `json:"is_within_range"`
	CorrectiveAction string      `json:"corrective_action,omitempty"`
	PhotoRefs        []string    `json:"photo_refs,omitempty"` // opaque to the engine
}

// EquipmentState is the daily status of a piece of equipment.
type EquipmentState string

const (
	StateLogged     EquipmentState = "logged"
	StatePending    EquipmentState = "pending"
	StateOutOfRange EquipmentState = "outOfRange"
)

// EquipmentStatus pairs a spec with its classified state and latest reading.
type EquipmentStatus struct {
	Equipment   EquipmentSpec  `json:"equipment"`
	State       EquipmentState `json:"state"`
	NeedsAction bool           `json:"needs_action"`
	LastReading *Reading       `json:"last_reading,omitempty"`
}
