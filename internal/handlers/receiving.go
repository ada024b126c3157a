package handlers

import (
	"net/http"
	"sort"
	"time"

	"temp_compliance/internal/models"
	"temp_compliance/internal/service"

	"github.com/gin-gonic/gin"
)

// ReceivingItemRequest is one delivered item as entered at the door.
type ReceivingItemRequest struct {
	Description string               `json:"description" binding:"required" example:"Whole milk 1gal"`
	Category    string               `json:"category" binding:"required" example:"refrigerated_dairy"`
	Temperature *float64             `json:"temperature,omitempty" example:"39"`
	Deviation   *models.CcpDeviation `json:"deviation,omitempty"`
}

// FinalizeReceivingRequest is the body of POST /receiving/logs.
type FinalizeReceivingRequest struct {
	VendorName string                 `json:"vendor_name" binding:"required" example:"Sysco"`
	ReceivedBy string                 `json:"received_by,omitempty" example:"maria"`
	ReceivedAt *time.Time             `json:"received_at,omitempty"`
	Items      []ReceivingItemRequest `json:"items" binding:"dive"`
}

// categoryView is a registry entry as the receiving screen shows it.
type categoryView struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	TempRequired bool    `json:"temp_required"`
	MaxTemp      float64 `json:"max_temp,omitempty"`
	Standard     string  `json:"standard"`
}

func (r ReceivingItemRequest) toInput() service.ItemInput {
	return service.ItemInput{
		Description: r.Description,
		Category:    r.Category,
		Temperature: r.Temperature,
		Deviation:   r.Deviation,
	}
}

// @Summary      List food categories
// @Tags         receiving
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, categories"
// @Router       /api/v1/receiving/categories [get]
func (h *Handler) listCategories(c *gin.Context) {
	registry := h.services.Receiving.Categories()
	out := make([]categoryView, 0, len(registry))
	for key, cfg := range registry {
		out = append(out, categoryView{
			Key:          key,
			Label:        cfg.Label,
			TempRequired: cfg.TempRequired,
			MaxTemp:      cfg.MaxTemp,
			Standard:     cfg.Standard(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	c.JSON(http.StatusOK, gin.H{
		"count":      len(out),
		"categories": out,
	})
}

// @Summary      Evaluate one receiving item
// @Description  Grades the item against its category. A deviation may be attached to a failing item only.
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        body  body      ReceivingItemRequest  true  "Item"
// @Success      200   {object}  models.ReceivingItem
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/receiving/evaluate [post]
func (h *Handler) evaluateItem(c *gin.Context) {
	var req ReceivingItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.services.Receiving.EvaluateItem(req.toInput())
	if err != nil {
		h.respondServiceError(c, err, "receiving_evaluate_failed", "category", req.Category)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary      Finalize a receiving log
// @Description  Every failing temperature-checked item needs a CCP-04 deviation (action and notes).
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        body  body      FinalizeReceivingRequest  true  "Delivery"
// @Success      201   {object}  models.ReceivingLog
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/receiving/logs [post]
func (h *Handler) finalizeReceiving(c *gin.Context) {
	var req FinalizeReceivingRequest
	if !bindJSON(c, &req) {
		return
	}
	items := make([]service.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, it.toInput())
	}
	log, err := h.services.Receiving.FinalizeLog(c.Request.Context(), service.FinalizeParams{
		VendorName: req.VendorName,
		ReceivedBy: req.ReceivedBy,
		ReceivedAt: timeOrZero(req.ReceivedAt),
		Items:      items,
	})
	if err != nil {
		h.respondServiceError(c, err, "receiving_finalize_failed", "vendor_name", req.VendorName)
		return
	}
	c.JSON(http.StatusCreated, log)
}

// @Summary      List receiving logs
// @Description  Newest first. Same 'from'/'to' formats as the event feed.
// @Tags         receiving
// @Produce      json
// @Param        from  query     string  false  "Start of range"  example(2025-06-01)
// @Param        to    query     string  false  "End of range; date-only means end of day"  example(2025-06-30)
// @Success      200   {object}  map[string]interface{}  "count, logs"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/receiving/logs [get]
func (h *Handler) listReceivingLogs(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	logs, err := h.services.Receiving.ListLogs(c.Request.Context(), service.LogFilter{From: from, To: to})
	if err != nil {
		h.respondServiceError(c, err, "receiving_list_failed", "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(logs),
		"logs":  logs,
	})
}

// @Summary      Get a receiving log
// @Tags         receiving
// @Produce      json
// @Param        id   path      string  true  "Receiving log ID"
// @Success      200  {object}  models.ReceivingLog
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/receiving/logs/{id} [get]
func (h *Handler) getReceivingLog(c *gin.Context) {
	id := c.Param("id")
	log, err := h.services.Receiving.GetLog(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "receiving_get_failed", "log_id", id)
		return
	}
	c.JSON(http.StatusOK, log)
}
