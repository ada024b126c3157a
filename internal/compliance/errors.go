package compliance

import "errors"

// Validation errors. Callers fix the input and retry; the engine never does.
var (
	ErrInvalidTemperature       = errors.New("temperature must be a finite number")
	ErrInvalidTime              = errors.New("time must be set")
	ErrCorrectiveActionRequired = errors.New("corrective action is required for an out-of-range reading")

	ErrCooldownNotActive      = errors.New("cooldown is not active")
	ErrCooldownHasNoChecks    = errors.New("cooldown has no checks")
	ErrCheckOutOfOrder        = errors.New("check time is earlier than the previous check")
	ErrTemperatureAboveTarget = errors.New("temperature must be ≤41°F to complete")

	ErrUnknownCategory        = errors.New("unknown food category")
	ErrTemperatureRequired    = errors.New("temperature is required for this food category")
	ErrDeviationNotAllowed    = errors.New("deviation can only be attached to a failing item")
	ErrInvalidDeviationAction = errors.New("deviation action must be one of: Rejected Delivery, Accepted with Condition, Re-temped after Wait, Other")
	ErrDeviationNotesRequired = errors.New("deviation notes are required")
	ErrDeviationRequired      = errors.New("failing item requires a CCP-04 deviation before finalizing")
	ErrEmptyReceivingBatch    = errors.New("receiving log needs at least one item")
)

var validationErrors = []error{
	ErrInvalidTemperature,
	ErrInvalidTime,
	ErrCorrectiveActionRequired,
	ErrCooldownNotActive,
	ErrCooldownHasNoChecks,
	ErrCheckOutOfOrder,
	ErrTemperatureAboveTarget,
	ErrUnknownCategory,
	ErrTemperatureRequired,
	ErrDeviationNotAllowed,
	ErrInvalidDeviationAction,
	ErrDeviationNotesRequired,
	ErrDeviationRequired,
	ErrEmptyReceivingBatch,
}

// IsValidation reports whether err (or anything it wraps) is one of the
// engine's validation errors.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
