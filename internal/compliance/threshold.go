package compliance

import (
	"fmt"
	"math"

	"temp_compliance/internal/models"
)

// IsWithinRange reports whether value lies inside spec's safe range, bounds
// inclusive. A spec without a floor (MinTemp == -Inf) only checks the ceiling.
// value must be finite; NaN is never in range.
func IsWithinRange(spec models.EquipmentSpec, value float64) bool {
	if !spec.HasFloor() {
		return value <= spec.MaxTemp
	}
	return value >= spec.MinTemp && value <= spec.MaxTemp
}

// Sensor alert grading defaults.
const (
	DefaultWarningBufferF = 2.0
	DefaultSustainedCount = 3
	severityWarning       = "warning"
	severityCritical      = "critical"
	violationWarningHigh  = "warning_high"
	violationCriticalHigh = "critical_high"
	violationWarningLow   = "warning_low"
	violationCriticalLow  = "critical_low"
)

// SensorPolicy tunes how out-of-range IoT readings are graded.
type SensorPolicy struct {
	WarningBufferF float64 // overage up to this many °F is a warning
	SustainedCount int     // consecutive violations that escalate to critical
}

// DefaultSensorPolicy returns the 2°F buffer / 3 readings policy.
func DefaultSensorPolicy() SensorPolicy {
	return SensorPolicy{WarningBufferF: DefaultWarningBufferF, SustainedCount: DefaultSustainedCount}
}

func (p SensorPolicy) normalized() SensorPolicy {
	if p.WarningBufferF <= 0 {
		p.WarningBufferF = DefaultWarningBufferF
	}
	if p.SustainedCount <= 0 {
		p.SustainedCount = DefaultSustainedCount
	}
	return p
}

// SensorVerdict is the graded result of one sensor reading.
type SensorVerdict struct {
	AlertTriggered       bool    `json:"alert_triggered"`
	Severity             string  `json:"severity,omitempty"`       // warning | critical
	ViolationType        string  `json:"violation_type,omitempty"` // warning_high | critical_high | warning_low | critical_low
	Deviation            float64 `json:"deviation"`                // °F outside the range
	Sustained            bool    `json:"sustained"`
	ConsecutiveViolation int     `json:"consecutive_violations"`
	Message              string  `json:"message"`
}

// EvaluateSensorReading grades value against spec. recent holds the
// equipment's earlier readings inside the sustained-violation window, newest
// first, excluding value itself. The streak counts value plus every earlier
// out-of-range reading up to the first in-range one.
func EvaluateSensorReading(spec models.EquipmentSpec, value float64, recent []float64, policy SensorPolicy) SensorVerdict {
	policy = policy.normalized()

	if IsWithinRange(spec, value) {
		return SensorVerdict{Message: "Reading is within acceptable thresholds"}
	}

	v := SensorVerdict{AlertTriggered: true}
	if value > spec.MaxTemp {
		v.Deviation = value - spec.MaxTemp
		if v.Deviation > policy.WarningBufferF {
			v.Severity, v.ViolationType = severityCritical, violationCriticalHigh
			v.Message = fmt.Sprintf("Temperature %.1f°F is critically above maximum threshold %.1f°F (by %.1f°F)", value, spec.MaxTemp, v.Deviation)
		} else {
			v.Severity, v.ViolationType = severityWarning, violationWarningHigh
			v.Message = fmt.Sprintf("Temperature %.1f°F exceeds maximum threshold %.1f°F (within warning buffer)", value, spec.MaxTemp)
		}
	} else {
		v.Deviation = spec.MinTemp - value
		if v.Deviation > policy.WarningBufferF {
			v.Severity, v.ViolationType = severityCritical, violationCriticalLow
			v.Message = fmt.Sprintf("Temperature %.1f°F is critically below minimum threshold %.1f°F (by %.1f°F)", value, spec.MinTemp, v.Deviation)
		} else {
			v.Severity, v.ViolationType = severityWarning, violationWarningLow
			v.Message = fmt.Sprintf("Temperature %.1f°F is below minimum threshold %.1f°F (within warning buffer)", value, spec.MinTemp)
		}
	}

	v.ConsecutiveViolation = 1
	for _, r := range recent {
		if IsWithinRange(spec, r) {
			break
		}
		v.ConsecutiveViolation++
	}
	if v.ConsecutiveViolation >= policy.SustainedCount {
		v.Sustained = true
		v.Severity = severityCritical
		v.Message = fmt.Sprintf("SUSTAINED VIOLATION: %s (%d consecutive readings out of range)", v.Message, v.ConsecutiveViolation)
	}
	return v
}

// isFinite reports whether f is neither NaN nor ±Inf.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
