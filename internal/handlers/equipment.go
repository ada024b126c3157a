package handlers

import (
	"net/http"
	"time"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/models"

	"github.com/gin-gonic/gin"
)

// readingRequest is the body of a manual or QR-scanned reading.
type readingRequest struct {
	Value            *float64           `json:"value" binding:"required"`
	Timestamp        *time.Time         `json:"timestamp,omitempty"`
	RecordedBy       string             `json:"recorded_by" binding:"required"`
	InputMethod      models.InputMethod `json:"input_method,omitempty"`
	CorrectiveAction string             `json:"corrective_action,omitempty"`
	PhotoRefs        []string           `json:"photo_refs,omitempty"`
}

// LogReadingRequest is an exported model for Swagger docs of the reading payload.
type LogReadingRequest struct {
	// Temperature in °F
	Value float64 `json:"value" example:"38.5"`
	// Defaults to server time when omitted
	Timestamp string `json:"timestamp,omitempty" example:"2025-06-01T08:30:00Z"`
	// Who took the reading
	RecordedBy string `json:"recorded_by" example:"maria"`
	// manual | qr_scan | iot_sensor
	InputMethod string `json:"input_method,omitempty" example:"manual"`
	// Required when the value is out of range (manual and QR readings)
	CorrectiveAction string `json:"corrective_action,omitempty" example:"moved stock to walk-in #2"`
}

// SensorReadingRequest is the body pushed by an IoT sensor.
type SensorReadingRequest struct {
	Value     *float64   `json:"value" binding:"required" example:"44.2"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// timeOrZero unwraps an optional request time; zero lets the service use its clock.
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// @Summary      Register equipment
// @Description  min_temp may be null for ceiling-only equipment such as freezers.
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        body  body      models.EquipmentSpec  true  "Equipment spec"
// @Success      201   {object}  models.EquipmentSpec
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/equipment [post]
func (h *Handler) registerEquipment(c *gin.Context) {
	var spec models.EquipmentSpec
	if !bindJSON(c, &spec) {
		return
	}
	created, err := h.services.Equipment.RegisterEquipment(c.Request.Context(), spec)
	if err != nil {
		h.respondServiceError(c, err, "equipment_register_failed", "name", spec.Name)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary      List equipment
// @Tags         equipment
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, equipment"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipment [get]
func (h *Handler) listEquipment(c *gin.Context) {
	specs, err := h.services.Equipment.ListEquipment(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "equipment_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(specs),
		"equipment": specs,
	})
}

// @Summary      Get equipment
// @Tags         equipment
// @Produce      json
// @Param        id   path      string  true  "Equipment ID"
// @Success      200  {object}  models.EquipmentSpec
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipment/{id} [get]
func (h *Handler) getEquipment(c *gin.Context) {
	id := c.Param("id")
	spec, err := h.services.Equipment.GetEquipment(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "equipment_get_failed", "equipment_id", id)
		return
	}
	c.JSON(http.StatusOK, spec)
}

// @Summary      Daily equipment status
// @Description  Every piece of equipment classified as logged, pending or outOfRange, most urgent first.
// @Tags         equipment
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, needs_action, statuses"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipment/status [get]
func (h *Handler) equipmentStatus(c *gin.Context) {
	statuses, err := h.services.Equipment.Statuses(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "equipment_status_failed")
		return
	}
	needsAction := 0
	for _, st := range statuses {
		if st.NeedsAction {
			needsAction++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(statuses),
		"needs_action": needsAction,
		"statuses":     statuses,
	})
}

// @Summary      Log a reading
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Equipment ID"
// @Param        body  body      LogReadingRequest  true  "Reading"
// @Success      201   {object}  models.Reading
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/equipment/{id}/readings [post]
func (h *Handler) logReading(c *gin.Context) {
	id := c.Param("id")
	var req readingRequest
	if !bindJSON(c, &req) {
		return
	}
	rd, err := h.services.Equipment.LogReading(c.Request.Context(), id, compliance.ReadingInput{
		Value:            *req.Value,
		Timestamp:        timeOrZero(req.Timestamp),
		RecordedBy:       req.RecordedBy,
		InputMethod:      req.InputMethod,
		CorrectiveAction: req.CorrectiveAction,
		PhotoRefs:        req.PhotoRefs,
	})
	if err != nil {
		h.respondServiceError(c, err, "reading_log_failed", "equipment_id", id)
		return
	}
	c.JSON(http.StatusCreated, rd)
}

// @Summary      Ingest a sensor reading
// @Description  Stores the reading and grades it as warning or critical; three consecutive out-of-range readings within 15 minutes escalate to critical.
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Equipment ID"
// @Param        body  body      SensorReadingRequest  true  "Sensor reading"
// @Success      201   {object}  service.SensorResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/equipment/{id}/sensor-readings [post]
func (h *Handler) ingestSensorReading(c *gin.Context) {
	id := c.Param("id")
	var req SensorReadingRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.services.Equipment.IngestSensorReading(c.Request.Context(), id, *req.Value, timeOrZero(req.Timestamp))
	if err != nil {
		h.respondServiceError(c, err, "sensor_ingest_failed", "equipment_id", id)
		return
	}
	c.JSON(http.StatusCreated, res)
}
