package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/models"
	"temp_compliance/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockEquipment struct {
	spec     models.EquipmentSpec
	specs    []models.EquipmentSpec
	reading  models.Reading
	sensor   service.SensorResult
	statuses []models.EquipmentStatus
	err      error

	lastSpec     models.EquipmentSpec
	lastID       string
	lastInput    compliance.ReadingInput
	lastSensorV  float64
	lastSensorAt time.Time
}

func (m *mockEquipment) RegisterEquipment(ctx context.Context, spec models.EquipmentSpec) (models.EquipmentSpec, error) {
	m.lastSpec = spec
	if m.err != nil {
		return models.EquipmentSpec{}, m.err
	}
	if spec.ID == "" {
		spec.ID = "eq-1"
	}
	return spec, nil
}
func (m *mockEquipment) GetEquipment(ctx context.Context, id string) (models.EquipmentSpec, error) {
	m.lastID = id
	return m.spec, m.err
}
func (m *mockEquipment) ListEquipment(ctx context.Context) ([]models.EquipmentSpec, error) {
	return m.specs, m.err
}
func (m *mockEquipment) LogReading(ctx context.Context, id string, in compliance.ReadingInput) (models.Reading, error) {
	m.lastID = id
	m.lastInput = in
	return m.reading, m.err
}
func (m *mockEquipment) IngestSensorReading(ctx context.Context, id string, value float64, at time.Time) (service.SensorResult, error) {
	m.lastID = id
	m.lastSensorV = value
	m.lastSensorAt = at
	return m.sensor, m.err
}
func (m *mockEquipment) Statuses(ctx context.Context) ([]models.EquipmentStatus, error) {
	return m.statuses, m.err
}

type mockCooling struct {
	mu sync.Mutex

	cooldown models.Cooldown
	view     service.CooldownView
	views    []service.CooldownView
	snapshot compliance.CoolingSnapshot
	err      error
	// snapErrAfter makes CooldownSnapshot fail once it has succeeded this many times (0 = never).
	snapErrAfter int
	snapCalls    int

	lastStart service.StartParams
	lastID    string
	lastTemp  float64
	lastAt    time.Time
}

func (m *mockCooling) StartCooldown(ctx context.Context, p service.StartParams) (models.Cooldown, error) {
	m.lastStart = p
	return m.cooldown, m.err
}
func (m *mockCooling) LogCheck(ctx context.Context, id string, temp float64, at time.Time) (models.Cooldown, error) {
	m.lastID, m.lastTemp, m.lastAt = id, temp, at
	return m.cooldown, m.err
}
func (m *mockCooling) CompleteCooldown(ctx context.Context, id string) (service.CooldownView, error) {
	m.lastID = id
	return m.view, m.err
}
func (m *mockCooling) GetCooldown(ctx context.Context, id string) (service.CooldownView, error) {
	m.lastID = id
	return m.view, m.err
}
func (m *mockCooling) ListActiveCooldowns(ctx context.Context) ([]service.CooldownView, error) {
	return m.views, m.err
}
func (m *mockCooling) CooldownSnapshot(ctx context.Context, id string) (compliance.CoolingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapCalls++
	if m.snapErrAfter > 0 && m.snapCalls > m.snapErrAfter {
		return compliance.CoolingSnapshot{}, errBoom
	}
	if m.err != nil {
		return compliance.CoolingSnapshot{}, m.err
	}
	return m.snapshot, nil
}

type mockReceiving struct {
	categories compliance.CategoryRegistry
	item       models.ReceivingItem
	log        models.ReceivingLog
	logs       []models.ReceivingLog
	err        error

	lastItem     service.ItemInput
	lastFinalize service.FinalizeParams
	lastFilter   service.LogFilter
	lastID       string
}

func (m *mockReceiving) Categories() compliance.CategoryRegistry { return m.categories }
func (m *mockReceiving) EvaluateItem(in service.ItemInput) (models.ReceivingItem, error) {
	m.lastItem = in
	return m.item, m.err
}
func (m *mockReceiving) FinalizeLog(ctx context.Context, p service.FinalizeParams) (models.ReceivingLog, error) {
	m.lastFinalize = p
	return m.log, m.err
}
func (m *mockReceiving) GetLog(ctx context.Context, id string) (models.ReceivingLog, error) {
	m.lastID = id
	return m.log, m.err
}
func (m *mockReceiving) ListLogs(ctx context.Context, f service.LogFilter) ([]models.ReceivingLog, error) {
	m.lastFilter = f
	return m.logs, m.err
}

type mockEventLog struct {
	resp        []models.ComplianceEvent
	err         error
	lastFrom    time.Time
	lastTo      time.Time
	lastType    string
	lastSubject string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ComplianceEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastSubject = f.Subject
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

type testError string

func (e testError) Error() string { return string(e) }

const errBoom = testError("boom")

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// doJSON sends method/path with body encoded as JSON (nil sends no body).
func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("unmarshal %s: %v", w.Body.String(), err)
	}
}
