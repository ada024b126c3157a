package models

import "time"

// DeviationAction is the corrective action chosen for a failed receiving item.
type DeviationAction string

const (
	ActionRejectedDelivery      DeviationAction = "Rejected Delivery"
	ActionAcceptedWithCondition DeviationAction = "Accepted with Condition"
	ActionRetempedAfterWait     DeviationAction = "Re-temped after Wait"
	ActionOther                 DeviationAction = "Other"
)

// CcpDeviation documents the CCP-04 corrective action for a failed item.
type CcpDeviation struct {
	ActionTaken    DeviationAction `json:"action_taken"`
	Notes          string          `json:"notes"`
	ReMeasuredTemp *float64        `json:"re_measured_temp,omitempty"`
}

// ReceivingItem is one delivered product checked at the door.
type ReceivingItem struct {
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	Temperature  float64       `json:"temperature"` // 0 when not applicable
	TempRequired bool          `json:"temp_required"`
	Pass         bool          `json:"pass"`
	Deviation    *CcpDeviation `json:"deviation,omitempty"`
}

// ReceivingSummary counts item verdicts. A batch has no verdict of its own.
type ReceivingSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// ReceivingLog is a finalized delivery.
type ReceivingLog struct {
	ID         string           `json:"id"`
	VendorName string           `json:"vendor_name"`
	ReceivedBy string           `json:"received_by"`
	ReceivedAt time.Time        `json:"received_at"`
	Items      []ReceivingItem  `json:"items"`
	Summary    ReceivingSummary `json:"summary"`
}
