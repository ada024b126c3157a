package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"temp_compliance/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errRangeOrder  = "'from' must be <= 'to'"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List compliance events
// @Description  Filter events by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), type and subject. If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).
// @Tags         events
// @Produce      json
// @Param        from     query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-06-01)
// @Param        to       query   string  false  "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). Date-only treated as end of day."  example(2025-06-30)
// @Param        type     query   string  false  "Event type"  Enums(READING_LOGGED,EQUIPMENT_OUT_OF_RANGE,EQUIPMENT_PENDING,SENSOR_ALERT,COOLDOWN_STARTED,COOLDOWN_CHECK,COOLING_WARNING,COOLING_OVERDUE,COOLDOWN_COMPLETED,COOLDOWN_FAILED,RECEIVING_DEVIATION,RECEIVING_FINALIZED)
// @Param        subject  query   string  false  "Equipment, cooldown or receiving log id"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/events [get]
func (h *Handler) getEvents(c *gin.Context) {
	ctx := c.Request.Context()
	// Normalize event type: trim spaces and uppercase to match expected values.
	eventType := strings.ToUpper(strings.TrimSpace(c.Query("type")))
	subject := strings.TrimSpace(c.Query("subject"))

	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	events, err := h.services.EventLog.List(ctx, service.LogFilter{
		From:    from,
		To:      to,
		Type:    eventType,
		Subject: subject,
	})
	if err != nil {
		if service.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if h.log != nil {
			h.log.Errorw("events_list_failed", "err", err, "from", from, "to", to, "type", eventType, "subject", subject)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseRangeQuery reads the optional ?from / ?to window. On a bad value it
// writes the 400 response itself and returns ok=false.
func parseRangeQuery(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return time.Time{}, time.Time{}, false
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return time.Time{}, time.Time{}, false
		}
		// If the user didn't include a time component, treat "to" as the end of that day.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errRangeOrder})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
