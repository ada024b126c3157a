package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"temp_compliance/internal/models"
	"temp_compliance/internal/repository"
)

// ---- Test doubles ----

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type memEquipment struct {
	mu    sync.Mutex
	specs map[string]models.EquipmentSpec
}

func (m *memEquipment) Create(_ context.Context, spec models.EquipmentSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.specs == nil {
		m.specs = map[string]models.EquipmentSpec{}
	}
	m.specs[spec.ID] = spec
	return nil
}

func (m *memEquipment) Get(_ context.Context, id string) (models.EquipmentSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	spec, ok := m.specs[id]
	if !ok {
		return models.EquipmentSpec{}, repository.ErrNotFound
	}
	return spec, nil
}

func (m *memEquipment) List(_ context.Context) ([]models.EquipmentSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.EquipmentSpec, 0, len(m.specs))
	for _, s := range m.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memReadings struct {
	mu   sync.Mutex
	rows []models.Reading
}

func (m *memReadings) Append(_ context.Context, r models.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, r)
	return nil
}

func (m *memReadings) Latest(_ context.Context, equipmentID string) (models.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var (
		best  models.Reading
		found bool
	)
	for _, r := range m.rows {
		if r.EquipmentID == equipmentID && (!found || r.Timestamp.After(best.Timestamp)) {
			best, found = r, true
		}
	}
	if !found {
		return models.Reading{}, repository.ErrNotFound
	}
	return best, nil
}

func (m *memReadings) LatestPerEquipment(_ context.Context) (map[string]models.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]models.Reading{}
	for _, r := range m.rows {
		if cur, ok := out[r.EquipmentID]; !ok || r.Timestamp.After(cur.Timestamp) {
			out[r.EquipmentID] = r
		}
	}
	return out, nil
}

func (m *memReadings) RecentValues(_ context.Context, equipmentID string, since, until time.Time, limit int) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []models.Reading
	for _, r := range m.rows {
		if r.EquipmentID == equipmentID && !r.Timestamp.Before(since) && !r.Timestamp.After(until) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp.After(rows[j].Timestamp) })
	out := make([]float64, 0, len(rows))
	for i, r := range rows {
		if i == limit {
			break
		}
		out = append(out, r.Value)
	}
	return out, nil
}

type memCooldowns struct {
	mu   sync.Mutex
	rows map[string]models.Cooldown
}

func (m *memCooldowns) Create(_ context.Context, c models.Cooldown) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]models.Cooldown{}
	}
	c.Checks = append([]models.CooldownCheck(nil), c.Checks...)
	m.rows[c.ID] = c
	return nil
}

func (m *memCooldowns) Get(_ context.Context, id string) (models.Cooldown, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return models.Cooldown{}, repository.ErrNotFound
	}
	c.Checks = append([]models.CooldownCheck(nil), c.Checks...)
	return c, nil
}

func (m *memCooldowns) ListActive(_ context.Context) ([]models.Cooldown, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Cooldown
	for _, c := range m.rows {
		if c.Status == models.CooldownActive {
			c.Checks = append([]models.CooldownCheck(nil), c.Checks...)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memCooldowns) AppendCheck(_ context.Context, id string, chk models.CooldownCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Checks = append(c.Checks, chk)
	m.rows[id] = c
	return nil
}

func (m *memCooldowns) Finish(_ context.Context, c models.Cooldown) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[c.ID]
	if !ok || cur.Status != models.CooldownActive {
		return repository.ErrNotFound
	}
	cur.Status = c.Status
	cur.CompletedAt = c.CompletedAt
	m.rows[c.ID] = cur
	return nil
}

type memReceiving struct {
	mu   sync.Mutex
	logs []models.ReceivingLog
}

func (m *memReceiving) Save(_ context.Context, log models.ReceivingLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *memReceiving) Get(_ context.Context, id string) (models.ReceivingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return models.ReceivingLog{}, repository.ErrNotFound
}

func (m *memReceiving) List(_ context.Context, from, to time.Time) ([]models.ReceivingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReceivingLog
	for _, l := range m.logs {
		if (!from.IsZero() && l.ReceivedAt.Before(from)) || (!to.IsZero() && l.ReceivedAt.After(to)) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type memEvents struct {
	mu     sync.Mutex
	events []models.ComplianceEvent
}

func (m *memEvents) Append(_ context.Context, e models.ComplianceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memEvents) List(_ context.Context, from, to time.Time, typ, subject string) ([]models.ComplianceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ComplianceEvent
	for _, e := range m.events {
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		if (typ == "" || e.Type == typ) && (subject == "" || e.Subject == subject) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ofType returns the recorded events of typ in emission order.
func (m *memEvents) ofType(typ string) []models.ComplianceEvent {
	out, _ := m.List(context.Background(), time.Time{}, time.Time{}, typ, "")
	return out
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []models.ComplianceEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e models.ComplianceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	svc       *Service
	clock     *fakeClock
	equipment *memEquipment
	readings  *memReadings
	cooldowns *memCooldowns
	receiving *memReceiving
	events    *memEvents
	pub       *recordingPublisher
}

// t0 is a Sunday noon in UTC.
var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	env := &testEnv{
		clock:     newFakeClock(t0),
		equipment: &memEquipment{},
		readings:  &memReadings{},
		cooldowns: &memCooldowns{},
		receiving: &memReceiving{},
		events:    &memEvents{},
		pub:       &recordingPublisher{},
	}
	repos := &repository.Repository{
		EquipmentRepo: env.equipment,
		ReadingRepo:   env.readings,
		CooldownRepo:  env.cooldowns,
		ReceivingRepo: env.receiving,
		EventRepo:     env.events,
	}
	env.svc = NewService(repos, Options{Clock: env.clock.Now, Publisher: env.pub})
	return env
}
