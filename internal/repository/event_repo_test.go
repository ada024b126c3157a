package repository

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"temp_compliance/internal/models"
)

func TestEventAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t, "sqlmock")
	repo := NewEventSQL(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO compliance_events (id, occurred_at, type, subject, message, meta)`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "COOLING_WARNING", "cd-1", "approaching deadline", `{"phase":1}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.ComplianceEvent{
		Type:        "  cooling_warning ",
		Subject:     "cd-1",
		Description: "approaching deadline",
		Metadata:    map[string]any{"phase": 1},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	expectationsMet(t, mock)
}

func TestEventAppend_DBError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t, "sqlmock")
	repo := NewEventSQL(db)

	mock.ExpectExec("INSERT INTO compliance_events").WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.ComplianceEvent{Type: "x", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestEventList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t, "sqlmock")
	repo := NewEventSQL(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "subject", "message", "meta"}).
		AddRow("e1", now, "READING_LOGGED", "eq-1", "ok", `{"a":"b"}`).
		AddRow("e2", now.Add(time.Minute), "SENSOR_ALERT", "eq-1", "hot", "not-json").
		AddRow("e3", now.Add(2*time.Minute), "COOLDOWN_STARTED", "cd-1", "start", nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, subject, message, meta FROM compliance_events ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 events, got %d", len(got))
	}
	if m, ok := got[0].Metadata.(map[string]any); !ok || m["a"] != "b" {
		t.Fatalf("metadata not parsed: %#v", got[0].Metadata)
	}
	if got[1].Metadata != "not-json" {
		t.Fatalf("malformed metadata should stay raw, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != nil {
		t.Fatalf("NULL metadata should be nil, got %#v", got[2].Metadata)
	}
	if got[0].Subject != "eq-1" || got[0].Description != "ok" {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	expectationsMet(t, mock)
}

func TestEventList_AllFilters_PostgresBinds(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t, "postgres")
	repo := NewEventSQL(db)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM compliance_events WHERE occurred_at >= $1 AND occurred_at <= $2 AND type = $3 AND subject = $4 ORDER BY occurred_at ASC`)).
		WithArgs(from, to, "COOLING_OVERDUE", "cd-9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at", "type", "subject", "message", "meta"}))

	got, err := repo.List(ctx(t), from, to, " cooling_overdue", "cd-9")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty result, got %d", len(got))
	}
	expectationsMet(t, mock)
}
