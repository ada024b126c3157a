package handlers

import (
	"net/http"
	"strings"
	"time"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/models"
	"temp_compliance/internal/service"

	"github.com/gin-gonic/gin"
)

const errStartTempRequired = "start_temp or cooked_temp is required"

// StartCooldownRequest is the body of POST /cooldowns.
// When start_temp is omitted it is derived from cooked_temp and the standard
// (FDA starts at 135°F, California at the cooked temperature).
type StartCooldownRequest struct {
	ItemName   string     `json:"item_name" binding:"required" example:"Chicken stock"`
	StartTemp  *float64   `json:"start_temp,omitempty" example:"135"`
	CookedTemp *float64   `json:"cooked_temp,omitempty" example:"180"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	Location   string     `json:"location,omitempty" example:"Walk-in #1"`
	StartedBy  string     `json:"started_by,omitempty" example:"maria"`
	Standard   string     `json:"standard,omitempty" example:"FDA"`
}

// CooldownCheckRequest is the body of POST /cooldowns/{id}/checks.
type CooldownCheckRequest struct {
	Temperature *float64   `json:"temperature" binding:"required" example:"68"`
	Time        *time.Time `json:"time,omitempty"`
}

// @Summary      Start a cooldown
// @Tags         cooldowns
// @Accept       json
// @Produce      json
// @Param        body  body      StartCooldownRequest  true  "Cooldown"
// @Success      201   {object}  models.Cooldown
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/cooldowns [post]
func (h *Handler) startCooldown(c *gin.Context) {
	var req StartCooldownRequest
	if !bindJSON(c, &req) {
		return
	}
	standard := models.CoolingStandard(strings.ToUpper(strings.TrimSpace(req.Standard)))

	var startTemp float64
	switch {
	case req.StartTemp != nil:
		startTemp = *req.StartTemp
	case req.CookedTemp != nil:
		startTemp = compliance.StartTempFor(standard, *req.CookedTemp)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errStartTempRequired})
		return
	}

	cd, err := h.services.Cooling.StartCooldown(c.Request.Context(), service.StartParams{
		ItemName:  req.ItemName,
		StartTemp: startTemp,
		StartTime: timeOrZero(req.StartTime),
		Location:  req.Location,
		StartedBy: req.StartedBy,
		Standard:  standard,
	})
	if err != nil {
		h.respondServiceError(c, err, "cooldown_start_failed", "item_name", req.ItemName)
		return
	}
	c.JSON(http.StatusCreated, cd)
}

// @Summary      List active cooldowns
// @Tags         cooldowns
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, cooldowns"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/cooldowns [get]
func (h *Handler) listActiveCooldowns(c *gin.Context) {
	views, err := h.services.Cooling.ListActiveCooldowns(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "cooldown_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(views),
		"cooldowns": views,
	})
}

// @Summary      Get a cooldown
// @Description  Includes the live snapshot (phase, countdown, status, progress) and the deadline review.
// @Tags         cooldowns
// @Produce      json
// @Param        id   path      string  true  "Cooldown ID"
// @Success      200  {object}  service.CooldownView
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/cooldowns/{id} [get]
func (h *Handler) getCooldown(c *gin.Context) {
	id := c.Param("id")
	view, err := h.services.Cooling.GetCooldown(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "cooldown_get_failed", "cooldown_id", id)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Log a cooldown check
// @Tags         cooldowns
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Cooldown ID"
// @Param        body  body      CooldownCheckRequest  true  "Check"
// @Success      201   {object}  models.Cooldown
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/cooldowns/{id}/checks [post]
func (h *Handler) logCooldownCheck(c *gin.Context) {
	id := c.Param("id")
	var req CooldownCheckRequest
	if !bindJSON(c, &req) {
		return
	}
	cd, err := h.services.Cooling.LogCheck(c.Request.Context(), id, *req.Temperature, timeOrZero(req.Time))
	if err != nil {
		h.respondServiceError(c, err, "cooldown_check_failed", "cooldown_id", id)
		return
	}
	c.JSON(http.StatusCreated, cd)
}

// @Summary      Complete a cooldown
// @Description  Requires the latest check at or below 41°F.
// @Tags         cooldowns
// @Produce      json
// @Param        id   path      string  true  "Cooldown ID"
// @Success      200  {object}  service.CooldownView
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/cooldowns/{id}/complete [post]
func (h *Handler) completeCooldown(c *gin.Context) {
	id := c.Param("id")
	view, err := h.services.Cooling.CompleteCooldown(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "cooldown_complete_failed", "cooldown_id", id)
		return
	}
	c.JSON(http.StatusOK, view)
}
