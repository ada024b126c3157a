package handlers

import (
	"net/http"
	"testing"
	"time"

	"temp_compliance/internal/models"
	"temp_compliance/internal/service"
)

func TestEventsHandler_ListAndValidation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.ComplianceEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventCooldownStarted, Subject: "cd-1", Description: "start"},
		{EventID: "e2", OccurredAt: now.Add(1 * time.Second), Type: models.EventCooldownCheck, Subject: "cd-1", Description: "check"},
	}
	logs := &mockEventLog{resp: events}
	r := newTestRouter(&service.Service{EventLog: logs})

	// Invalid 'from' → 400
	w := doJSON(t, r, http.MethodGet, "/api/v1/events?from=notatime", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// Invalid 'to' → 400
	w = doJSON(t, r, http.MethodGet, "/api/v1/events?to=2025-13-45", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'to', got %d", w.Code)
	}

	// from > to → 400
	w = doJSON(t, r, http.MethodGet, "/api/v1/events?from=2025-06-02&to=2025-06-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reversed range, got %d", w.Code)
	}

	// Valid range, type and subject (lowercase type is normalized to upper)
	q := "/api/v1/events?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) +
		"&type=cooldown_check&subject=%20cd-1%20"
	w = doJSON(t, r, http.MethodGet, q, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("events status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                      `json:"count"`
		Events []models.ComplianceEvent `json:"events"`
	}
	decode(t, w, &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastType != models.EventCooldownCheck {
		t.Fatalf("expected lastType %s, got %q", models.EventCooldownCheck, logs.lastType)
	}
	if logs.lastSubject != "cd-1" {
		t.Fatalf("expected subject cd-1, got %q", logs.lastSubject)
	}
	if !logs.lastFrom.Equal(now) || !logs.lastTo.Equal(now.Add(2*time.Second)) {
		t.Fatalf("range not forwarded: %v .. %v", logs.lastFrom, logs.lastTo)
	}

	// Service failure → 500
	logs.err = errBoom
	w = doJSON(t, r, http.MethodGet, "/api/v1/events", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2025-06-01T08:30:00Z", time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC), false},
		{"2025-06-01T10:30:00+02:00", time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC), false},
		{"2025-06-01 08:30:00", time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC), false},
		{"2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"06/01/2025", time.Time{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseQueryTime(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) || got.Location() != time.UTC {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
