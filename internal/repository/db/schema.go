package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DDL shared by SQLite and Postgres.

const schemaEquipment = `
CREATE TABLE IF NOT EXISTS equipment (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    min_temp DOUBLE PRECISION,
    max_temp DOUBLE PRECISION NOT NULL,
    unit TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);
`

const schemaReadings = `
CREATE TABLE IF NOT EXISTS readings (
    id TEXT PRIMARY KEY,
    equipment_id TEXT NOT NULL REFERENCES equipment(id),
    temp_f DOUBLE PRECISION NOT NULL,
    recorded_at TIMESTAMP NOT NULL,
    recorded_by TEXT NOT NULL,
    input_method TEXT NOT NULL,
    is_within_range BOOLEAN NOT NULL,
    corrective_action TEXT NOT NULL DEFAULT '',
    photo_refs TEXT
);
`

const indexReadings = `
CREATE INDEX IF NOT EXISTS idx_readings_equipment_time ON readings (equipment_id, recorded_at);
`

const schemaCooldowns = `
CREATE TABLE IF NOT EXISTS cooldowns (
    id TEXT PRIMARY KEY,
    item_name TEXT NOT NULL,
    start_temp DOUBLE PRECISION NOT NULL,
    start_time TIMESTAMP NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    started_by TEXT NOT NULL DEFAULT '',
    standard TEXT NOT NULL,
    status TEXT NOT NULL,
    completed_at TIMESTAMP
);
`

const schemaCooldownChecks = `
CREATE TABLE IF NOT EXISTS cooldown_checks (
    cooldown_id TEXT NOT NULL REFERENCES cooldowns(id),
    seq INTEGER NOT NULL,
    temperature DOUBLE PRECISION NOT NULL,
    checked_at TIMESTAMP NOT NULL,
    PRIMARY KEY (cooldown_id, seq)
);
`

const schemaReceivingLogs = `
CREATE TABLE IF NOT EXISTS receiving_logs (
    id TEXT PRIMARY KEY,
    vendor_name TEXT NOT NULL,
    received_by TEXT NOT NULL,
    received_at TIMESTAMP NOT NULL,
    total INTEGER NOT NULL,
    passed INTEGER NOT NULL,
    failed INTEGER NOT NULL
);
`

const schemaReceivingItems = `
CREATE TABLE IF NOT EXISTS receiving_items (
    log_id TEXT NOT NULL REFERENCES receiving_logs(id),
    seq INTEGER NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    temperature DOUBLE PRECISION NOT NULL,
    temp_required BOOLEAN NOT NULL,
    passed BOOLEAN NOT NULL,
    deviation_action TEXT,
    deviation_notes TEXT,
    re_measured_temp DOUBLE PRECISION,
    PRIMARY KEY (log_id, seq)
);
`

const schemaComplianceEvents = `
CREATE TABLE IF NOT EXISTS compliance_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    subject TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    meta TEXT
);
`

const indexComplianceEvents = `
CREATE INDEX IF NOT EXISTS idx_compliance_events_time ON compliance_events (occurred_at);
`

var schema = []string{
	schemaEquipment,
	schemaReadings,
	indexReadings,
	schemaCooldowns,
	schemaCooldownChecks,
	schemaReceivingLogs,
	schemaReceivingItems,
	schemaComplianceEvents,
	indexComplianceEvents,
}

func ensureSchema(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after Commit
		_ = tx.Rollback()
	}()

	for i, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
